package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-dairy-ledger/internal/middleware"
	"go-dairy-ledger/internal/service"
	"go-dairy-ledger/pkg/logger"
)

type SaleHandler struct {
	service service.StockService
	params  params
}

func NewSaleHandler(s service.StockService, log *logger.Logger) *SaleHandler {
	return &SaleHandler{service: s, params: newParams(log)}
}

// GET /sales
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	events, err := h.service.ListSales(c.UserContext(), middleware.Identity(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": events})
}

// GET /sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := h.params.id(c)
	if err != nil {
		return err
	}
	event, err := h.service.GetSale(c.UserContext(), middleware.Identity(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": event})
}

// POST /sales
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	productID, err := h.params.uuid(c, "product_id")
	if err != nil {
		return err
	}
	qty, err := h.params.decimal(c, "qty")
	if err != nil {
		return err
	}
	price, err := h.params.decimal(c, "selling_price")
	if err != nil {
		return err
	}

	event, err := h.service.CreateSale(c.UserContext(), middleware.Identity(c), service.SaleInput{
		ProductID:    productID,
		Qty:          qty,
		SellingPrice: price,
		Date:         h.params.date(c, "date"),
		Remarks:      c.FormValue("remarks"),
	})
	if err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "data": event})
}

// PUT /sales/:id
func (h *SaleHandler) UpdateSale(c *fiber.Ctx) error {
	id, err := h.params.id(c)
	if err != nil {
		return err
	}
	qty, err := h.params.decimal(c, "qty")
	if err != nil {
		return err
	}
	price, err := h.params.decimal(c, "selling_price")
	if err != nil {
		return err
	}

	event, err := h.service.UpdateSale(c.UserContext(), middleware.Identity(c), id, service.SaleUpdate{
		Qty:          qty,
		SellingPrice: price,
		Date:         h.params.date(c, "date"),
		Remarks:      c.FormValue("remarks"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Sale updated", "data": event})
}

// DELETE /sales/:id
func (h *SaleHandler) DeleteSale(c *fiber.Ctx) error {
	id, err := h.params.id(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteSale(c.UserContext(), middleware.Identity(c), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Sale deleted"})
}

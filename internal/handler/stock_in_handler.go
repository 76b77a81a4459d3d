package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-dairy-ledger/internal/middleware"
	"go-dairy-ledger/internal/service"
	"go-dairy-ledger/pkg/logger"
)

type StockInHandler struct {
	service service.StockService
	params  params
}

func NewStockInHandler(s service.StockService, log *logger.Logger) *StockInHandler {
	return &StockInHandler{service: s, params: newParams(log)}
}

// GET /stock-in
func (h *StockInHandler) GetStockIns(c *fiber.Ctx) error {
	events, err := h.service.ListStockIns(c.UserContext(), middleware.Identity(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": events})
}

// GET /stock-in/:id
func (h *StockInHandler) GetStockIn(c *fiber.Ctx) error {
	id, err := h.params.id(c)
	if err != nil {
		return err
	}
	event, err := h.service.GetStockIn(c.UserContext(), middleware.Identity(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": event})
}

// POST /stock-in
func (h *StockInHandler) CreateStockIn(c *fiber.Ctx) error {
	productID, err := h.params.uuid(c, "product_id")
	if err != nil {
		return err
	}
	qty, err := h.params.decimal(c, "qty")
	if err != nil {
		return err
	}
	cost, err := h.params.decimal(c, "cost_price")
	if err != nil {
		return err
	}

	event, err := h.service.CreateStockIn(c.UserContext(), middleware.Identity(c), service.StockInInput{
		ProductID: productID,
		Qty:       qty,
		CostPrice: cost,
		Date:      h.params.date(c, "date"),
		Remarks:   c.FormValue("remarks"),
	})
	if err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock added", "data": event})
}

// PUT /stock-in/:id
func (h *StockInHandler) UpdateStockIn(c *fiber.Ctx) error {
	id, err := h.params.id(c)
	if err != nil {
		return err
	}
	qty, err := h.params.decimal(c, "qty")
	if err != nil {
		return err
	}
	cost, err := h.params.decimal(c, "cost_price")
	if err != nil {
		return err
	}

	event, err := h.service.UpdateStockIn(c.UserContext(), middleware.Identity(c), id, service.StockInUpdate{
		Qty:       qty,
		CostPrice: cost,
		Date:      h.params.date(c, "date"),
		Remarks:   c.FormValue("remarks"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Stock entry updated", "data": event})
}

// DELETE /stock-in/:id
func (h *StockInHandler) DeleteStockIn(c *fiber.Ctx) error {
	id, err := h.params.id(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteStockIn(c.UserContext(), middleware.Identity(c), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Stock entry deleted"})
}

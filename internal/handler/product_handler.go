package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-dairy-ledger/internal/middleware"
	"go-dairy-ledger/internal/service"
	"go-dairy-ledger/pkg/logger"
)

type ProductHandler struct {
	service service.ProductService
	params  params
}

func NewProductHandler(s service.ProductService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{service: s, params: newParams(log)}
}

func (h *ProductHandler) input(c *fiber.Ctx) (service.ProductInput, error) {
	in := service.ProductInput{
		Name: c.FormValue("name"),
		Unit: c.FormValue("unit"),
	}
	var err error
	if in.CostPrice, err = h.params.decimal(c, "cost_price"); err != nil {
		return in, err
	}
	if in.SellPrice, err = h.params.decimal(c, "sell_price"); err != nil {
		return in, err
	}
	if in.MinStock, err = h.params.decimal(c, "min_stock"); err != nil {
		return in, err
	}
	return in, nil
}

// GET /products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext(), middleware.Identity(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// POST /products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	in, err := h.input(c)
	if err != nil {
		return err
	}
	product, err := h.service.CreateProduct(c.UserContext(), middleware.Identity(c), in)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product added", "data": product})
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := h.params.id(c)
	if err != nil {
		return err
	}
	in, err := h.input(c)
	if err != nil {
		return err
	}
	product, err := h.service.UpdateProduct(c.UserContext(), middleware.Identity(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := h.params.id(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteProduct(c.UserContext(), middleware.Identity(c), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

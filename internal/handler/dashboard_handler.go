package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-dairy-ledger/internal/middleware"
	"go-dairy-ledger/internal/service"
	"go-dairy-ledger/pkg/logger"
)

type DashboardHandler struct {
	service service.DashboardService
	params  params
}

func NewDashboardHandler(s service.DashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{service: s, params: newParams(log)}
}

// GetDashboard summarizes stock and trading; from and to default to today
// GET /dashboard?from=&to=
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	from := h.params.date(c, "from")
	to := h.params.date(c, "to")

	summary, err := h.service.GetSummary(c.UserContext(), middleware.Identity(c), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

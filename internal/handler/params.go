package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-dairy-ledger/internal/form"
	"go-dairy-ledger/internal/report"
	"go-dairy-ledger/pkg/apperror"
	"go-dairy-ledger/pkg/logger"
)

// params reads typed values out of form, multipart or query input.
type params struct {
	log *logger.Logger
	now func() time.Time
}

func newParams(log *logger.Logger) params {
	return params{log: log, now: time.Now}
}

func (p params) value(c *fiber.Ctx, key string) string {
	if v := c.FormValue(key); v != "" {
		return v
	}
	return c.Query(key)
}

func (p params) id(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.NewValidation("Invalid ID format")
	}
	return id, nil
}

func (p params) decimal(c *fiber.Ctx, key string) (decimal.Decimal, error) {
	d, err := form.Decimal(p.value(c, key))
	if err != nil {
		return decimal.Zero, apperror.NewValidation(fmt.Sprintf("Field '%s' must be a number", key)).
			WithDetail("field", key)
	}
	return d, nil
}

func (p params) uuid(c *fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := form.OptionalUUID(p.value(c, key))
	if err != nil || id == nil {
		return uuid.Nil, apperror.NewValidation(fmt.Sprintf("Field '%s' must be a valid id", key)).
			WithDetail("field", key)
	}
	return *id, nil
}

// date falls back to today for missing or malformed input.
func (p params) date(c *fiber.Ctx, key string) time.Time {
	raw := p.value(c, key)
	d, ok := form.DateOrToday(raw, p.now())
	if !ok {
		p.log.Warnw("malformed date, using today", "field", key, "value", raw)
	}
	return d
}

// viewFilter reads the report page filter. Missing or malformed dates
// become today.
func (p params) viewFilter(c *fiber.Ctx) (report.Filter, error) {
	return p.filter(c, true)
}

// pdfFilter reads the PDF filter. Malformed dates become today; missing
// ones leave the bound open.
func (p params) pdfFilter(c *fiber.Ctx) (report.Filter, error) {
	return p.filter(c, false)
}

func (p params) filter(c *fiber.Ctx, missingIsToday bool) (report.Filter, error) {
	var f report.Filter
	for key, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
		raw := p.value(c, key)
		d, err := form.OptionalDate(raw)
		switch {
		case err != nil:
			p.log.Warnw("malformed date, using today", "field", key, "value", raw)
			today := form.Today(p.now())
			d = &today
		case d == nil && missingIsToday:
			today := form.Today(p.now())
			d = &today
		}
		*dst = d
	}

	dairyID, err := p.optionalUUID(c, "dairy_id")
	if err != nil {
		return f, err
	}
	productID, err := p.optionalUUID(c, "product_id")
	if err != nil {
		return f, err
	}
	f.DairyID, f.ProductID = dairyID, productID
	return f, nil
}

func (p params) optionalUUID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	id, err := form.OptionalUUID(p.value(c, key))
	if err != nil {
		return nil, apperror.NewValidation(fmt.Sprintf("Field '%s' must be a valid id", key)).
			WithDetail("field", key)
	}
	return id, nil
}

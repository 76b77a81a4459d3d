package handler

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"go-dairy-ledger/internal/export"
	"go-dairy-ledger/internal/form"
	"go-dairy-ledger/internal/middleware"
	"go-dairy-ledger/internal/service"
	"go-dairy-ledger/pkg/logger"
)

type ReportHandler struct {
	service service.ReportService
	params  params
}

func NewReportHandler(s service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{service: s, params: newParams(log)}
}

// GetReport renders one page of the ledger
// GET|POST /reports?from=&to=&dairy_id=&product_id=&page=
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	f, err := h.params.viewFilter(c)
	if err != nil {
		return err
	}
	page := form.Page(h.params.value(c, "page"))

	view, err := h.service.Report(c.UserContext(), middleware.Identity(c), f, page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

// DownloadExport serves the latest spreadsheet export for the caller's scope
// GET /reports/export?dairy_id=
func (h *ReportHandler) DownloadExport(c *fiber.Ctx) error {
	dairyID, err := h.params.optionalUUID(c, "dairy_id")
	if err != nil {
		return err
	}
	path, err := h.service.ExportPath(c.UserContext(), middleware.Identity(c), dairyID)
	if err != nil {
		return err
	}
	return c.Download(path, export.SpreadsheetName)
}

// DownloadPDF renders the filtered report as a PDF attachment
// GET /reports/pdf
func (h *ReportHandler) DownloadPDF(c *fiber.Ctx) error {
	f, err := h.params.pdfFilter(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.service.RenderPDF(c.UserContext(), middleware.Identity(c), f, &buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(export.PDFName)
	return c.Send(buf.Bytes())
}

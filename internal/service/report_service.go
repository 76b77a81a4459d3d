package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"go-dairy-ledger/internal/export"
	"go-dairy-ledger/internal/report"
	"go-dairy-ledger/internal/repository"
	"go-dairy-ledger/internal/session"
	"go-dairy-ledger/pkg/apperror"
	"go-dairy-ledger/pkg/logger"
)

// SpreadsheetExporter persists the latest report rows as a downloadable
// file, one per dairy plus one for the consolidated (nil dairy) view.
type SpreadsheetExporter interface {
	Write(ctx context.Context, dairyID *uuid.UUID, rows []report.Row) error
	Exists(dairyID *uuid.UUID) bool
	Path(dairyID *uuid.UUID) string
}

// LogoResolver maps a stored logo path to a readable image file, or "".
type LogoResolver interface {
	Resolve(logoPath string) string
}

type ReportView struct {
	Page            report.Page[report.Row] `json:"page"`
	Totals          report.Totals           `json:"totals"`
	Filter          report.Filter           `json:"filter"`
	ExportAvailable bool                    `json:"export_available"`
}

var ErrNoExport = apperror.NewNotFound("report export", nil)

type ReportService interface {
	Report(ctx context.Context, actor session.Identity, f report.Filter, page int) (*ReportView, error)
	ExportPath(ctx context.Context, actor session.Identity, dairyID *uuid.UUID) (string, error)
	RenderPDF(ctx context.Context, actor session.Identity, f report.Filter, w io.Writer) error
}

type reportService struct {
	stockIns    repository.StockInRepository
	sales       repository.SaleRepository
	dairies     repository.DairyRepository
	spreadsheet SpreadsheetExporter
	logos       LogoResolver
	basis       report.ProfitBasis
	now         func() time.Time
	log         *logger.Logger
}

func NewReportService(
	stockIns repository.StockInRepository,
	sales repository.SaleRepository,
	dairies repository.DairyRepository,
	spreadsheet SpreadsheetExporter,
	logos LogoResolver,
	basis report.ProfitBasis,
	log *logger.Logger,
) ReportService {
	return &reportService{
		stockIns:    stockIns,
		sales:       sales,
		dairies:     dairies,
		spreadsheet: spreadsheet,
		logos:       logos,
		basis:       basis,
		now:         time.Now,
		log:         log.WithComponent("report"),
	}
}

// scope restricts a filter to what the actor may see. Dairies only see their
// own data; admins see any dairy, defaulting to the one they impersonate.
func scope(actor session.Identity, f report.Filter) (report.Filter, error) {
	acting, hasDairy := actor.ActingDairy()

	if !actor.IsAdmin() {
		if !hasDairy {
			return f, ErrNoActingDairy
		}
		if f.DairyID != nil && *f.DairyID != acting {
			return f, ErrNotOwner
		}
		f.DairyID = &acting
		return f, nil
	}

	if f.DairyID == nil && hasDairy {
		f.DairyID = &acting
	}
	return f, nil
}

func (s *reportService) build(ctx context.Context, f report.Filter) (report.Report, error) {
	ins, err := s.stockIns.FindForReport(ctx, f)
	if err != nil {
		return report.Report{}, internal(err)
	}
	sales, err := s.sales.FindForReport(ctx, f)
	if err != nil {
		return report.Report{}, internal(err)
	}
	return report.Build(ins, sales, s.basis), nil
}

// Report returns one page of the filtered ledger and refreshes the
// spreadsheet export whenever there is at least one row.
func (s *reportService) Report(ctx context.Context, actor session.Identity, f report.Filter, page int) (*ReportView, error) {
	f, err := scope(actor, f)
	if err != nil {
		return nil, err
	}
	r, err := s.build(ctx, f)
	if err != nil {
		return nil, err
	}

	view := &ReportView{
		Page:   report.Paginate(r.Rows, page),
		Totals: r.Totals,
		Filter: f,
	}
	if len(r.Rows) > 0 {
		if err := s.spreadsheet.Write(ctx, f.DairyID, r.Rows); err != nil {
			s.log.Errorw("write report export", "rows", len(r.Rows), "error", err)
		} else {
			view.ExportAvailable = true
		}
	}
	return view, nil
}

// ExportPath locates the latest export the actor may download. The dairy
// is scoped the same way as Report, so a dairy only reaches its own file.
func (s *reportService) ExportPath(ctx context.Context, actor session.Identity, dairyID *uuid.UUID) (string, error) {
	f, err := scope(actor, report.Filter{DairyID: dairyID})
	if err != nil {
		return "", err
	}
	if !s.spreadsheet.Exists(f.DairyID) {
		return "", ErrNoExport
	}
	return s.spreadsheet.Path(f.DairyID), nil
}

// RenderPDF writes the full filtered report as a PDF document.
func (s *reportService) RenderPDF(ctx context.Context, actor session.Identity, f report.Filter, w io.Writer) error {
	f, err := scope(actor, f)
	if err != nil {
		return err
	}
	r, err := s.build(ctx, f)
	if err != nil {
		return err
	}

	title, logo := actor.DairyName, ""
	if f.DairyID != nil {
		title, logo, err = s.dairyBranding(ctx, *f.DairyID, title)
		if err != nil {
			return err
		}
	}

	return internal(export.RenderPDF(w, export.PDFInput{
		Title:       title,
		From:        f.From,
		To:          f.To,
		Logo:        s.logos.Resolve(logo),
		Report:      r,
		GeneratedAt: s.now(),
	}))
}

func (s *reportService) dairyBranding(ctx context.Context, id uuid.UUID, fallback string) (string, string, error) {
	dairy, err := s.dairies.FindByID(ctx, id)
	if err != nil {
		return "", "", lookupErr(err, "dairy", id)
	}
	if dairy.Name == "" {
		return fallback, dairy.Logo(), nil
	}
	return dairy.Name, dairy.Logo(), nil
}

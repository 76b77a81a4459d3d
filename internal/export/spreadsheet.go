package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"go-dairy-ledger/internal/model"
	"go-dairy-ledger/internal/report"
)

const (
	SpreadsheetName = "report_v3.xlsx"
	sheet           = "Sheet1"
)

var spreadsheetHeader = []interface{}{
	"Dairy", "Logo", "Date", "Product", "Stock In", "Stock Out", "Cost Price", "Sell Price", "Profit", "Remarks",
}

// Spreadsheet keeps the most recent report export per scope under dir. A
// dairy's export lives in <dir>/<dairy id>/, the consolidated one in dir.
type Spreadsheet struct {
	dir    string
	locker Locker
}

func NewSpreadsheet(dir string, locker Locker) *Spreadsheet {
	return &Spreadsheet{dir: dir, locker: locker}
}

func (s *Spreadsheet) scopeDir(dairyID *uuid.UUID) string {
	if dairyID == nil {
		return s.dir
	}
	return filepath.Join(s.dir, dairyID.String())
}

// Path is the fixed location of the latest export for a scope.
func (s *Spreadsheet) Path(dairyID *uuid.UUID) string {
	return filepath.Join(s.scopeDir(dairyID), SpreadsheetName)
}

// Exists reports whether an export has been written for a scope.
func (s *Spreadsheet) Exists(dairyID *uuid.UUID) bool {
	info, err := os.Stat(s.Path(dairyID))
	return err == nil && !info.IsDir()
}

// Write replaces the scope's export with rows. Readers see either the
// previous file or the complete new one.
func (s *Spreadsheet) Write(ctx context.Context, dairyID *uuid.UUID, rows []report.Row) error {
	dir := s.scopeDir(dairyID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	key := "report-export"
	if dairyID != nil {
		key += ":" + dairyID.String()
	}
	release, err := s.locker.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(sheet, "A1", &spreadsheetHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "J1", bold); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.DairyName,
			r.DairyLogo,
			r.Date.Format(model.DateLayout),
			r.ProductName,
			r.InQty.InexactFloat64(),
			r.OutQty.InexactFloat64(),
			r.Cost.InexactFloat64(),
			optionalNumber(r.Sell),
			r.Profit.InexactFloat64(),
			r.Remarks,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheet, "A", "B", 22)
	_ = f.SetColWidth(sheet, "D", "D", 20)
	_ = f.SetColWidth(sheet, "J", "J", 30)

	tmp := filepath.Join(dir, fmt.Sprintf(".export-%s.xlsx", uuid.NewString()))
	if err := f.SaveAs(tmp); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save export: %w", err)
	}
	if err := os.Rename(tmp, s.Path(dairyID)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publish export: %w", err)
	}
	return nil
}

func optionalNumber(d *decimal.Decimal) interface{} {
	if d == nil {
		return ""
	}
	return d.InexactFloat64()
}

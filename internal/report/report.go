// Package report merges stock-in and sale events into one dated ledger with
// per-row profit and running totals.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindStockIn Kind = "stock_in"
	KindSale    Kind = "sale"
)

// ProfitBasis selects which cost a sale row is measured against.
type ProfitBasis string

const (
	// BasisCurrent uses the product's cost price at report time.
	BasisCurrent ProfitBasis = "current"
	// BasisHistorical uses the cost captured when the sale was recorded.
	BasisHistorical ProfitBasis = "historical"
)

func ParseProfitBasis(s string) (ProfitBasis, error) {
	switch ProfitBasis(s) {
	case "", BasisCurrent:
		return BasisCurrent, nil
	case BasisHistorical:
		return BasisHistorical, nil
	default:
		return "", fmt.Errorf("unknown profit cost basis %q", s)
	}
}

// Filter bounds a report. Nil fields are unconstrained; From and To are inclusive dates.
type Filter struct {
	From      *time.Time
	To        *time.Time
	DairyID   *uuid.UUID
	ProductID *uuid.UUID
}

type Row struct {
	Date        time.Time        `json:"date"`
	DairyName   string           `json:"dairy_name"`
	DairyLogo   string           `json:"dairy_logo,omitempty"`
	ProductName string           `json:"product_name"`
	InQty       decimal.Decimal  `json:"stock_in"`
	OutQty      decimal.Decimal  `json:"stock_out"`
	Cost        decimal.Decimal  `json:"cost_price"`
	Sell        *decimal.Decimal `json:"sell_price"` // nil on stock-in rows
	Profit      decimal.Decimal  `json:"profit"`
	Remarks     string           `json:"remarks"`
	Kind        Kind             `json:"kind"`
}

type Totals struct {
	InQty     decimal.Decimal `json:"total_in"`
	OutQty    decimal.Decimal `json:"total_out"`
	CostValue decimal.Decimal `json:"total_cost_value"`
	SellValue decimal.Decimal `json:"total_sell_value"`
	Profit    decimal.Decimal `json:"total_profit"`
}

type Report struct {
	Rows   []Row  `json:"rows"`
	Totals Totals `json:"totals"`
}

package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"go-dairy-ledger/internal/model"
)

// Build turns loaded events into report rows and totals. Products and dairies
// are expected to be preloaded on each event; missing ones render blank.
//
// Rows are emitted stock-ins first, then sales, and stably sorted by date
// descending, so same-day stock-ins precede same-day sales.
func Build(stockIns []model.StockIn, sales []model.Sale, basis ProfitBasis) Report {
	rows := make([]Row, 0, len(stockIns)+len(sales))
	totals := Totals{
		InQty:     decimal.Zero,
		OutQty:    decimal.Zero,
		CostValue: decimal.Zero,
		SellValue: decimal.Zero,
		Profit:    decimal.Zero,
	}

	for _, s := range stockIns {
		rows = append(rows, Row{
			Date:        s.Date,
			DairyName:   dairyName(s.Dairy),
			DairyLogo:   s.Dairy.Logo(),
			ProductName: productName(s.Product),
			InQty:       s.Qty,
			OutQty:      decimal.Zero,
			Cost:        s.CostPrice,
			Profit:      decimal.Zero,
			Remarks:     s.Remarks,
			Kind:        KindStockIn,
		})
		totals.InQty = totals.InQty.Add(s.Qty)
		totals.CostValue = totals.CostValue.Add(s.Qty.Mul(s.CostPrice))
	}

	for _, s := range sales {
		cost := saleCost(s, basis)
		sell := s.SellingPrice
		profit := s.Qty.Mul(sell.Sub(cost))
		rows = append(rows, Row{
			Date:        s.Date,
			DairyName:   dairyName(s.Dairy),
			DairyLogo:   s.Dairy.Logo(),
			ProductName: productName(s.Product),
			InQty:       decimal.Zero,
			OutQty:      s.Qty,
			Cost:        cost,
			Sell:        &sell,
			Profit:      profit,
			Remarks:     s.Remarks,
			Kind:        KindSale,
		})
		totals.OutQty = totals.OutQty.Add(s.Qty)
		totals.SellValue = totals.SellValue.Add(s.Qty.Mul(sell))
		totals.Profit = totals.Profit.Add(profit)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.After(rows[j].Date)
	})

	return Report{Rows: rows, Totals: totals}
}

func saleCost(s model.Sale, basis ProfitBasis) decimal.Decimal {
	if basis == BasisHistorical {
		return s.CostAtSale
	}
	if s.Product == nil {
		return decimal.Zero
	}
	return s.Product.CostPrice
}

func dairyName(d *model.Dairy) string {
	if d == nil {
		return ""
	}
	return d.Name
}

func productName(p *model.Product) string {
	if p == nil {
		return ""
	}
	return p.Name
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-dairy-ledger/internal/report"
	"go-dairy-ledger/internal/repository"
	"go-dairy-ledger/internal/session"
)

type ProductSummary struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	StockIn      decimal.Decimal `json:"stock_in"`
	StockOut     decimal.Decimal `json:"stock_out"`
	ClosingStock decimal.Decimal `json:"closing_stock"`
	LowStock     bool            `json:"low_stock"`
}

type DashboardSummary struct {
	From            time.Time        `json:"from"`
	To              time.Time        `json:"to"`
	TotalStockValue decimal.Decimal  `json:"total_stock_value"`
	TotalRevenue    decimal.Decimal  `json:"total_revenue"`
	TotalCOGS       decimal.Decimal  `json:"total_cogs"`
	Profit          decimal.Decimal  `json:"profit"`
	LowStockCount   int              `json:"low_stock_count"`
	Products        []ProductSummary `json:"products"`
}

type DashboardService interface {
	GetSummary(ctx context.Context, actor session.Identity, from, to time.Time) (*DashboardSummary, error)
}

type dashboardService struct {
	products repository.ProductRepository
	stockIns repository.StockInRepository
	sales    repository.SaleRepository
}

func NewDashboardService(products repository.ProductRepository, stockIns repository.StockInRepository, sales repository.SaleRepository) DashboardService {
	return &dashboardService{products: products, stockIns: stockIns, sales: sales}
}

// GetSummary values the acting dairy's stock and its trading between from and to.
// COGS uses each product's current cost price.
func (s *dashboardService) GetSummary(ctx context.Context, actor session.Identity, from, to time.Time) (*DashboardSummary, error) {
	dairyID, err := actingDairy(actor)
	if err != nil {
		return nil, err
	}

	products, err := s.products.FindByDairy(ctx, dairyID)
	if err != nil {
		return nil, internal(err)
	}
	f := report.Filter{From: &from, To: &to, DairyID: &dairyID}
	ins, err := s.stockIns.FindForReport(ctx, f)
	if err != nil {
		return nil, internal(err)
	}
	sales, err := s.sales.FindForReport(ctx, f)
	if err != nil {
		return nil, internal(err)
	}

	inByProduct := map[uuid.UUID]decimal.Decimal{}
	for _, e := range ins {
		inByProduct[e.ProductID] = inByProduct[e.ProductID].Add(e.Qty)
	}

	sum := &DashboardSummary{
		From:            from,
		To:              to,
		TotalStockValue: decimal.Zero,
		TotalRevenue:    decimal.Zero,
		TotalCOGS:       decimal.Zero,
		Products:        make([]ProductSummary, 0, len(products)),
	}

	outByProduct := map[uuid.UUID]decimal.Decimal{}
	for _, e := range sales {
		outByProduct[e.ProductID] = outByProduct[e.ProductID].Add(e.Qty)
		sum.TotalRevenue = sum.TotalRevenue.Add(e.Qty.Mul(e.SellingPrice))
		if e.Product != nil {
			sum.TotalCOGS = sum.TotalCOGS.Add(e.Qty.Mul(e.Product.CostPrice))
		}
	}
	sum.Profit = sum.TotalRevenue.Sub(sum.TotalCOGS)

	for _, p := range products {
		sum.TotalStockValue = sum.TotalStockValue.Add(p.CurrentStock.Mul(p.CostPrice))
		low := p.IsLowStock()
		if low {
			sum.LowStockCount++
		}
		sum.Products = append(sum.Products, ProductSummary{
			ProductID:    p.ID,
			Name:         p.Name,
			StockIn:      inByProduct[p.ID],
			StockOut:     outByProduct[p.ID],
			ClosingStock: p.CurrentStock,
			LowStock:     low,
		})
	}
	return sum, nil
}

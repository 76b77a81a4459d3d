package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-dairy-ledger/internal/model"
	"go-dairy-ledger/internal/repository"
	"go-dairy-ledger/internal/session"
	"go-dairy-ledger/pkg/apperror"
	"go-dairy-ledger/pkg/logger"
	"go-dairy-ledger/pkg/validator"
)

// StockInInput records goods received for a product.
type StockInInput struct {
	ProductID uuid.UUID       `validate:"uuid_required"`
	Qty       decimal.Decimal `validate:"decimal_gte0"`
	CostPrice decimal.Decimal `validate:"decimal_gte0"`
	Date      time.Time       `validate:"required"`
	Remarks   string          `validate:"max=255"`
}

// StockInUpdate edits a receipt. The product cannot change.
type StockInUpdate struct {
	Qty       decimal.Decimal `validate:"decimal_gte0"`
	CostPrice decimal.Decimal `validate:"decimal_gte0"`
	Date      time.Time       `validate:"required"`
	Remarks   string          `validate:"max=255"`
}

type SaleInput struct {
	ProductID    uuid.UUID       `validate:"uuid_required"`
	Qty          decimal.Decimal `validate:"decimal_gte0"`
	SellingPrice decimal.Decimal `validate:"decimal_gte0"`
	Date         time.Time       `validate:"required"`
	Remarks      string          `validate:"max=255"`
}

type SaleUpdate struct {
	Qty          decimal.Decimal `validate:"decimal_gte0"`
	SellingPrice decimal.Decimal `validate:"decimal_gte0"`
	Date         time.Time       `validate:"required"`
	Remarks      string          `validate:"max=255"`
}

// StockService records stock-in and sale events and keeps each product's
// running stock in step with them.
type StockService interface {
	ListStockIns(ctx context.Context, actor session.Identity) ([]model.StockIn, error)
	GetStockIn(ctx context.Context, actor session.Identity, id uuid.UUID) (*model.StockIn, error)
	CreateStockIn(ctx context.Context, actor session.Identity, in StockInInput) (*model.StockIn, error)
	UpdateStockIn(ctx context.Context, actor session.Identity, id uuid.UUID, in StockInUpdate) (*model.StockIn, error)
	DeleteStockIn(ctx context.Context, actor session.Identity, id uuid.UUID) error

	ListSales(ctx context.Context, actor session.Identity) ([]model.Sale, error)
	GetSale(ctx context.Context, actor session.Identity, id uuid.UUID) (*model.Sale, error)
	CreateSale(ctx context.Context, actor session.Identity, in SaleInput) (*model.Sale, error)
	UpdateSale(ctx context.Context, actor session.Identity, id uuid.UUID, in SaleUpdate) (*model.Sale, error)
	DeleteSale(ctx context.Context, actor session.Identity, id uuid.UUID) error
}

type stockService struct {
	tx       repository.TxManager
	products repository.ProductRepository
	stockIns repository.StockInRepository
	sales    repository.SaleRepository
	log      *logger.Logger
}

func NewStockService(
	tx repository.TxManager,
	products repository.ProductRepository,
	stockIns repository.StockInRepository,
	sales repository.SaleRepository,
	log *logger.Logger,
) StockService {
	return &stockService{
		tx:       tx,
		products: products,
		stockIns: stockIns,
		sales:    sales,
		log:      log.WithComponent("stock"),
	}
}

// lockOwnedProduct row-locks the product and checks it belongs to the actor.
func (s *stockService) lockOwnedProduct(ctx context.Context, actor session.Identity, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "product", id)
	}
	if err := requireOwner(actor, product.DairyID); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *stockService) setStock(ctx context.Context, product *model.Product, stock decimal.Decimal, cost, sell *decimal.Decimal) error {
	if err := s.products.UpdateStock(ctx, product.ID, repository.StockFields{
		CurrentStock: stock,
		CostPrice:    cost,
		SellPrice:    sell,
	}); err != nil {
		return err
	}
	product.CurrentStock = stock
	if cost != nil {
		product.CostPrice = *cost
	}
	if sell != nil {
		product.SellPrice = *sell
	}
	return nil
}

// ============ STOCK IN ============

func (s *stockService) ListStockIns(ctx context.Context, actor session.Identity) ([]model.StockIn, error) {
	dairyID, err := actingDairy(actor)
	if err != nil {
		return nil, err
	}
	events, err := s.stockIns.FindRecentByDairy(ctx, dairyID)
	if err != nil {
		return nil, internal(err)
	}
	return events, nil
}

func (s *stockService) GetStockIn(ctx context.Context, actor session.Identity, id uuid.UUID) (*model.StockIn, error) {
	event, err := s.stockIns.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "stock_in", id)
	}
	if err := requireOwner(actor, event.DairyID); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *stockService) CreateStockIn(ctx context.Context, actor session.Identity, in StockInInput) (*model.StockIn, error) {
	dairyID, err := actingDairy(actor)
	if err != nil {
		return nil, err
	}
	if msg := validator.FirstError(in); msg != "" {
		return nil, apperror.NewValidation(msg)
	}

	var created *model.StockIn
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		product, err := s.lockOwnedProduct(ctx, actor, in.ProductID)
		if err != nil {
			return err
		}

		event := &model.StockIn{
			DairyID:   dairyID,
			ProductID: product.ID,
			Qty:       in.Qty,
			CostPrice: in.CostPrice,
			Date:      in.Date,
			Remarks:   in.Remarks,
		}
		if err := s.stockIns.Create(ctx, event); err != nil {
			return err
		}

		// Last-cost policy: each receipt becomes the product's reference cost.
		cost := in.CostPrice
		if err := s.setStock(ctx, product, product.CurrentStock.Add(in.Qty), &cost, nil); err != nil {
			return err
		}

		event.Product = product
		created = event
		return nil
	})
	if err != nil {
		return nil, internal(err)
	}

	s.log.Infow("stock in recorded", "dairy_id", dairyID, "product_id", in.ProductID, "qty", in.Qty.String())
	return created, nil
}

// UpdateStockIn applies the quantity delta to the product. The product's
// reference cost is not touched on edit.
func (s *stockService) UpdateStockIn(ctx context.Context, actor session.Identity, id uuid.UUID, in StockInUpdate) (*model.StockIn, error) {
	if msg := validator.FirstError(in); msg != "" {
		return nil, apperror.NewValidation(msg)
	}

	var updated *model.StockIn
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		event, err := s.stockIns.FindByID(ctx, id)
		if err != nil {
			return lookupErr(err, "stock_in", id)
		}
		if err := requireOwner(actor, event.DairyID); err != nil {
			return err
		}
		product, err := s.lockOwnedProduct(ctx, actor, event.ProductID)
		if err != nil {
			return err
		}

		delta := in.Qty.Sub(event.Qty)
		event.Qty = in.Qty
		event.CostPrice = in.CostPrice
		event.Date = in.Date
		event.Remarks = in.Remarks
		if err := s.stockIns.Update(ctx, event); err != nil {
			return err
		}
		if err := s.setStock(ctx, product, product.CurrentStock.Add(delta), nil, nil); err != nil {
			return err
		}

		event.Product = product
		updated = event
		return nil
	})
	if err != nil {
		return nil, internal(err)
	}
	return updated, nil
}

func (s *stockService) DeleteStockIn(ctx context.Context, actor session.Identity, id uuid.UUID) error {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		event, err := s.stockIns.FindByID(ctx, id)
		if err != nil {
			return lookupErr(err, "stock_in", id)
		}
		if err := requireOwner(actor, event.DairyID); err != nil {
			return err
		}
		product, err := s.lockOwnedProduct(ctx, actor, event.ProductID)
		if err != nil {
			return err
		}

		if err := s.stockIns.Delete(ctx, event.ID); err != nil {
			return err
		}
		return s.setStock(ctx, product, product.CurrentStock.Sub(event.Qty), nil, nil)
	})
	return internal(err)
}

// ============ SALES ============

func (s *stockService) ListSales(ctx context.Context, actor session.Identity) ([]model.Sale, error) {
	dairyID, err := actingDairy(actor)
	if err != nil {
		return nil, err
	}
	events, err := s.sales.FindRecentByDairy(ctx, dairyID)
	if err != nil {
		return nil, internal(err)
	}
	return events, nil
}

func (s *stockService) GetSale(ctx context.Context, actor session.Identity, id uuid.UUID) (*model.Sale, error) {
	event, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "sale", id)
	}
	if err := requireOwner(actor, event.DairyID); err != nil {
		return nil, err
	}
	return event, nil
}

// CreateSale does not check availability; stock may go negative.
func (s *stockService) CreateSale(ctx context.Context, actor session.Identity, in SaleInput) (*model.Sale, error) {
	dairyID, err := actingDairy(actor)
	if err != nil {
		return nil, err
	}
	if msg := validator.FirstError(in); msg != "" {
		return nil, apperror.NewValidation(msg)
	}

	var created *model.Sale
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		product, err := s.lockOwnedProduct(ctx, actor, in.ProductID)
		if err != nil {
			return err
		}

		event := &model.Sale{
			DairyID:      dairyID,
			ProductID:    product.ID,
			Qty:          in.Qty,
			SellingPrice: in.SellingPrice,
			Date:         in.Date,
			Remarks:      in.Remarks,
			CostAtSale:   product.CostPrice,
		}
		if err := s.sales.Create(ctx, event); err != nil {
			return err
		}

		price := in.SellingPrice
		if err := s.setStock(ctx, product, product.CurrentStock.Sub(in.Qty), nil, &price); err != nil {
			return err
		}

		event.Product = product
		created = event
		return nil
	})
	if err != nil {
		return nil, internal(err)
	}

	s.log.Infow("sale recorded", "dairy_id", dairyID, "product_id", in.ProductID, "qty", in.Qty.String())
	return created, nil
}

func (s *stockService) UpdateSale(ctx context.Context, actor session.Identity, id uuid.UUID, in SaleUpdate) (*model.Sale, error) {
	if msg := validator.FirstError(in); msg != "" {
		return nil, apperror.NewValidation(msg)
	}

	var updated *model.Sale
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		event, err := s.sales.FindByID(ctx, id)
		if err != nil {
			return lookupErr(err, "sale", id)
		}
		if err := requireOwner(actor, event.DairyID); err != nil {
			return err
		}
		product, err := s.lockOwnedProduct(ctx, actor, event.ProductID)
		if err != nil {
			return err
		}

		delta := event.Qty.Sub(in.Qty)
		event.Qty = in.Qty
		event.SellingPrice = in.SellingPrice
		event.Date = in.Date
		event.Remarks = in.Remarks
		if err := s.sales.Update(ctx, event); err != nil {
			return err
		}
		if err := s.setStock(ctx, product, product.CurrentStock.Add(delta), nil, nil); err != nil {
			return err
		}

		event.Product = product
		updated = event
		return nil
	})
	if err != nil {
		return nil, internal(err)
	}
	return updated, nil
}

func (s *stockService) DeleteSale(ctx context.Context, actor session.Identity, id uuid.UUID) error {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		event, err := s.sales.FindByID(ctx, id)
		if err != nil {
			return lookupErr(err, "sale", id)
		}
		if err := requireOwner(actor, event.DairyID); err != nil {
			return err
		}
		product, err := s.lockOwnedProduct(ctx, actor, event.ProductID)
		if err != nil {
			return err
		}

		if err := s.sales.Delete(ctx, event.ID); err != nil {
			return err
		}
		return s.setStock(ctx, product, product.CurrentStock.Add(event.Qty), nil, nil)
	})
	return internal(err)
}

package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-dairy-ledger/internal/model"
	"go-dairy-ledger/internal/repository"
	"go-dairy-ledger/internal/session"
	"go-dairy-ledger/pkg/apperror"
	"go-dairy-ledger/pkg/validator"
)

type ProductInput struct {
	Name      string          `validate:"required,max=200"`
	Unit      string          `validate:"max=50"`
	CostPrice decimal.Decimal `validate:"decimal_gte0"`
	SellPrice decimal.Decimal `validate:"decimal_gte0"`
	MinStock  decimal.Decimal `validate:"decimal_gte0"`
}

var ErrProductInUse = apperror.NewConflict("Product has stock or sale records and cannot be deleted")

type ProductService interface {
	ListProducts(ctx context.Context, actor session.Identity) ([]model.Product, error)
	GetProduct(ctx context.Context, actor session.Identity, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, actor session.Identity, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, actor session.Identity, id uuid.UUID, in ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, actor session.Identity, id uuid.UUID) error
}

type productService struct {
	tx       repository.TxManager
	products repository.ProductRepository
}

func NewProductService(tx repository.TxManager, products repository.ProductRepository) ProductService {
	return &productService{tx: tx, products: products}
}

func normalizeProduct(in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	if in.Unit == "" {
		in.Unit = model.DefaultUnit
	}
	if msg := validator.FirstError(in); msg != "" {
		return apperror.NewValidation(msg)
	}
	return nil
}

func (s *productService) ListProducts(ctx context.Context, actor session.Identity) ([]model.Product, error) {
	dairyID, err := actingDairy(actor)
	if err != nil {
		return nil, err
	}
	products, err := s.products.FindByDairy(ctx, dairyID)
	if err != nil {
		return nil, internal(err)
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, actor session.Identity, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "product", id)
	}
	if err := requireOwner(actor, product.DairyID); err != nil {
		return nil, err
	}
	return product, nil
}

// CreateProduct starts the product with zero stock; stock only moves through events.
func (s *productService) CreateProduct(ctx context.Context, actor session.Identity, in ProductInput) (*model.Product, error) {
	dairyID, err := actingDairy(actor)
	if err != nil {
		return nil, err
	}
	if err := normalizeProduct(&in); err != nil {
		return nil, err
	}

	product := &model.Product{
		DairyID:      dairyID,
		Name:         in.Name,
		Unit:         in.Unit,
		CostPrice:    in.CostPrice,
		SellPrice:    in.SellPrice,
		MinStock:     in.MinStock,
		CurrentStock: decimal.Zero,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, internal(err)
	}
	return product, nil
}

// UpdateProduct edits descriptive fields and prices. Running stock is untouched.
func (s *productService) UpdateProduct(ctx context.Context, actor session.Identity, id uuid.UUID, in ProductInput) (*model.Product, error) {
	if err := normalizeProduct(&in); err != nil {
		return nil, err
	}

	var updated *model.Product
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		product, err := s.products.FindByIDForUpdate(ctx, id)
		if err != nil {
			return lookupErr(err, "product", id)
		}
		if err := requireOwner(actor, product.DairyID); err != nil {
			return err
		}

		product.Name = in.Name
		product.Unit = in.Unit
		product.CostPrice = in.CostPrice
		product.SellPrice = in.SellPrice
		product.MinStock = in.MinStock
		if err := s.products.Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, internal(err)
	}
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, actor session.Identity, id uuid.UUID) error {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		product, err := s.products.FindByIDForUpdate(ctx, id)
		if err != nil {
			return lookupErr(err, "product", id)
		}
		if err := requireOwner(actor, product.DairyID); err != nil {
			return err
		}

		n, err := s.products.CountEvents(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrProductInUse
		}
		return s.products.Delete(ctx, id)
	})
	return internal(err)
}

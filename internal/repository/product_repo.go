package repository

import (
	"context"

	"go-dairy-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByDairy(ctx context.Context, dairyID uuid.UUID) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateStock(ctx context.Context, id uuid.UUID, fields StockFields) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountEvents(ctx context.Context, id uuid.UUID) (int64, error)
}

// StockFields carries the columns a stock mutation writes. Nil prices are left untouched.
type StockFields struct {
	CurrentStock decimal.Decimal
	CostPrice    *decimal.Decimal
	SellPrice    *decimal.Decimal
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return conn(ctx, r.db).Create(product).Error
}

func (r *productRepo) FindByDairy(ctx context.Context, dairyID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := conn(ctx, r.db).Where("dairy_id = ?", dairyID).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := conn(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate locks the product row until the surrounding transaction ends.
func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Update writes the descriptive fields only; current_stock is owned by UpdateStock.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return conn(ctx, r.db).Model(product).
		Select("name", "unit", "cost_price", "sell_price", "min_stock").
		Updates(product).Error
}

func (r *productRepo) UpdateStock(ctx context.Context, id uuid.UUID, fields StockFields) error {
	updates := map[string]interface{}{
		"current_stock": fields.CurrentStock,
	}
	if fields.CostPrice != nil {
		updates["cost_price"] = *fields.CostPrice
	}
	if fields.SellPrice != nil {
		updates["sell_price"] = *fields.SellPrice
	}
	return conn(ctx, r.db).Model(&model.Product{}).Where("id = ?", id).Updates(updates).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&model.Product{}, "id = ?", id).Error
}

// CountEvents counts stock-in and sale events that reference the product.
func (r *productRepo) CountEvents(ctx context.Context, id uuid.UUID) (int64, error) {
	var ins, sales int64
	db := conn(ctx, r.db)
	if err := db.Model(&model.StockIn{}).Where("product_id = ?", id).Count(&ins).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&model.Sale{}).Where("product_id = ?", id).Count(&sales).Error; err != nil {
		return 0, err
	}
	return ins + sales, nil
}

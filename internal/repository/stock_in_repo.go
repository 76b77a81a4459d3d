package repository

import (
	"context"

	"go-dairy-ledger/internal/model"
	"go-dairy-ledger/internal/report"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockInRepository interface {
	Create(ctx context.Context, event *model.StockIn) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockIn, error)
	FindRecentByDairy(ctx context.Context, dairyID uuid.UUID) ([]model.StockIn, error)
	FindForReport(ctx context.Context, f report.Filter) ([]model.StockIn, error)
	Update(ctx context.Context, event *model.StockIn) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type stockInRepo struct {
	db *gorm.DB
}

func NewStockInRepo(db *gorm.DB) StockInRepository {
	return &stockInRepo{db}
}

func (r *stockInRepo) Create(ctx context.Context, event *model.StockIn) error {
	return conn(ctx, r.db).Omit("Product", "Dairy").Create(event).Error
}

func (r *stockInRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StockIn, error) {
	var event model.StockIn
	if err := conn(ctx, r.db).Preload("Product").First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *stockInRepo) FindRecentByDairy(ctx context.Context, dairyID uuid.UUID) ([]model.StockIn, error) {
	var events []model.StockIn
	err := conn(ctx, r.db).Preload("Product").
		Where("dairy_id = ?", dairyID).
		Order("date DESC").Order("created_at DESC").
		Limit(RecentLimit).
		Find(&events).Error
	return events, err
}

func (r *stockInRepo) FindForReport(ctx context.Context, f report.Filter) ([]model.StockIn, error) {
	var events []model.StockIn
	err := conn(ctx, r.db).Preload("Product").Preload("Dairy").
		Scopes(reportScope(f)).
		Order("date DESC").Order("created_at DESC").
		Find(&events).Error
	return events, err
}

func (r *stockInRepo) Update(ctx context.Context, event *model.StockIn) error {
	return conn(ctx, r.db).Omit("Product", "Dairy").Save(event).Error
}

func (r *stockInRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&model.StockIn{}, "id = ?", id).Error
}

package repository

import (
	"context"

	"go-dairy-ledger/internal/model"
	"go-dairy-ledger/internal/report"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, event *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindRecentByDairy(ctx context.Context, dairyID uuid.UUID) ([]model.Sale, error)
	FindForReport(ctx context.Context, f report.Filter) ([]model.Sale, error)
	Update(ctx context.Context, event *model.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// Create persists the sale including its cost snapshot.
func (r *saleRepo) Create(ctx context.Context, event *model.Sale) error {
	return conn(ctx, r.db).Omit("Product", "Dairy").Create(event).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var event model.Sale
	if err := conn(ctx, r.db).Preload("Product").First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *saleRepo) FindRecentByDairy(ctx context.Context, dairyID uuid.UUID) ([]model.Sale, error) {
	var events []model.Sale
	err := conn(ctx, r.db).Preload("Product").
		Where("dairy_id = ?", dairyID).
		Order("date DESC").Order("created_at DESC").
		Limit(RecentLimit).
		Find(&events).Error
	return events, err
}

func (r *saleRepo) FindForReport(ctx context.Context, f report.Filter) ([]model.Sale, error) {
	var events []model.Sale
	err := conn(ctx, r.db).Preload("Product").Preload("Dairy").
		Scopes(reportScope(f)).
		Order("date DESC").Order("created_at DESC").
		Find(&events).Error
	return events, err
}

func (r *saleRepo) Update(ctx context.Context, event *model.Sale) error {
	return conn(ctx, r.db).Omit("Product", "Dairy").Save(event).Error
}

func (r *saleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&model.Sale{}, "id = ?", id).Error
}

package repository

import (
	"context"

	"go-dairy-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DairyRepository interface {
	FindAll(ctx context.Context) ([]model.Dairy, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Dairy, error)
	FindByUsername(ctx context.Context, username string) (*model.Dairy, error)
	Create(ctx context.Context, dairy *model.Dairy) error
	UpdateLogo(ctx context.Context, id uuid.UUID, logoPath string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
}

type dairyRepo struct {
	db *gorm.DB
}

func NewDairyRepo(db *gorm.DB) DairyRepository {
	return &dairyRepo{db}
}

func (r *dairyRepo) FindAll(ctx context.Context) ([]model.Dairy, error) {
	var dairies []model.Dairy
	err := conn(ctx, r.db).Order("name ASC").Find(&dairies).Error
	return dairies, err
}

func (r *dairyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Dairy, error) {
	var dairy model.Dairy
	if err := conn(ctx, r.db).First(&dairy, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dairy, nil
}

func (r *dairyRepo) FindByUsername(ctx context.Context, username string) (*model.Dairy, error) {
	var dairy model.Dairy
	if err := conn(ctx, r.db).Where("username = ?", username).First(&dairy).Error; err != nil {
		return nil, err
	}
	return &dairy, nil
}

func (r *dairyRepo) Create(ctx context.Context, dairy *model.Dairy) error {
	return conn(ctx, r.db).Create(dairy).Error
}

func (r *dairyRepo) UpdateLogo(ctx context.Context, id uuid.UUID, logoPath string) error {
	return conn(ctx, r.db).Model(&model.Dairy{}).Where("id = ?", id).Update("logo_path", logoPath).Error
}

func (r *dairyRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	return conn(ctx, r.db).Model(&model.Dairy{}).Where("id = ?", id).Update("password", hashedPassword).Error
}

package repository

import (
	"context"

	"go-dairy-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Admin, error)
	Create(ctx context.Context, admin *model.Admin) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
}

type adminRepo struct {
	db *gorm.DB
}

func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db}
}

func (r *adminRepo) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	if err := conn(ctx, r.db).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Admin, error) {
	var admin model.Admin
	if err := conn(ctx, r.db).First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) Create(ctx context.Context, admin *model.Admin) error {
	return conn(ctx, r.db).Create(admin).Error
}

func (r *adminRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	return conn(ctx, r.db).Model(&model.Admin{}).Where("id = ?", id).Update("password", hashedPassword).Error
}

package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-dairy-ledger/internal/model"
	"go-dairy-ledger/internal/repository"
	"go-dairy-ledger/pkg/logger"
)

// SeedDefaults creates the default admin (admin/admin) and, on an empty
// ledger, a sample dairy (dairy/dairy). Existing rows are left alone.
func SeedDefaults(ctx context.Context, admins repository.AdminRepository, dairies repository.DairyRepository, log *logger.Logger) error {
	if _, err := admins.FindByUsername(ctx, "admin"); errors.Is(err, gorm.ErrRecordNotFound) {
		admin := &model.Admin{Username: "admin"}
		if err := admin.SetPassword("admin"); err != nil {
			return err
		}
		if err := admins.Create(ctx, admin); err != nil {
			return err
		}
		log.Infow("default admin created", "username", admin.Username)
	} else if err != nil {
		return err
	}

	existing, err := dairies.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	sample := &model.Dairy{Name: "Sample Dairy", Username: "dairy"}
	if err := sample.SetPassword("dairy"); err != nil {
		return err
	}
	if err := dairies.Create(ctx, sample); err != nil {
		return err
	}
	log.Infow("sample dairy created", "username", sample.Username)
	return nil
}

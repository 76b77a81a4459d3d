package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-dairy-ledger/internal/model"
	"go-dairy-ledger/internal/repository"
	"go-dairy-ledger/internal/session"
	"go-dairy-ledger/pkg/apperror"
	"go-dairy-ledger/pkg/logger"
	"go-dairy-ledger/pkg/validator"
)

// LogoStore persists uploaded logo images and returns the stored path.
type LogoStore interface {
	Save(r io.Reader, originalName string) (string, error)
}

// LogoUpload is an optional image sent with a dairy form.
type LogoUpload struct {
	Name   string
	Reader io.Reader
}

type DairyInput struct {
	Name     string `validate:"required,max=200"`
	Username string `validate:"required,max=100"`
	Password string `validate:"required,min=6"`
}

var ErrUsernameTaken = apperror.NewConflict("Username is already in use")

type DairyService interface {
	ListDairies(ctx context.Context, actor session.Identity) ([]model.Dairy, error)
	CreateDairy(ctx context.Context, actor session.Identity, in DairyInput, logo *LogoUpload) (*model.Dairy, error)
	UpdateLogo(ctx context.Context, actor session.Identity, id uuid.UUID, logo LogoUpload) (*model.Dairy, error)
}

type dairyService struct {
	dairies repository.DairyRepository
	admins  repository.AdminRepository
	logos   LogoStore
	log     *logger.Logger
}

func NewDairyService(dairies repository.DairyRepository, admins repository.AdminRepository, logos LogoStore, log *logger.Logger) DairyService {
	return &dairyService{
		dairies: dairies,
		admins:  admins,
		logos:   logos,
		log:     log.WithComponent("dairy"),
	}
}

func (s *dairyService) ListDairies(ctx context.Context, actor session.Identity) ([]model.Dairy, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	dairies, err := s.dairies.FindAll(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return dairies, nil
}

func (s *dairyService) usernameTaken(ctx context.Context, username string) (bool, error) {
	if _, err := s.dairies.FindByUsername(ctx, username); err == nil {
		return true, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if _, err := s.admins.FindByUsername(ctx, username); err == nil {
		return true, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return false, nil
}

func (s *dairyService) CreateDairy(ctx context.Context, actor session.Identity, in DairyInput, logo *LogoUpload) (*model.Dairy, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	if msg := validator.FirstError(in); msg != "" {
		return nil, apperror.NewValidation(msg)
	}

	taken, err := s.usernameTaken(ctx, in.Username)
	if err != nil {
		return nil, internal(err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	dairy := &model.Dairy{Name: in.Name, Username: in.Username}
	if err := dairy.SetPassword(in.Password); err != nil {
		return nil, apperror.NewInternal(err)
	}
	if logo != nil && logo.Reader != nil {
		path, err := s.logos.Save(logo.Reader, logo.Name)
		if err != nil {
			return nil, apperror.NewValidation("Logo must be a PNG, JPEG, GIF, BMP or TIFF image").WithCause(err)
		}
		dairy.LogoPath = &path
	}

	if err := s.dairies.Create(ctx, dairy); err != nil {
		return nil, internal(err)
	}
	s.log.Infow("dairy created", "dairy_id", dairy.ID, "name", dairy.Name)
	return dairy, nil
}

func (s *dairyService) UpdateLogo(ctx context.Context, actor session.Identity, id uuid.UUID, logo LogoUpload) (*model.Dairy, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if logo.Reader == nil {
		return nil, apperror.NewValidation("Logo file is required")
	}
	dairy, err := s.dairies.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "dairy", id)
	}

	path, err := s.logos.Save(logo.Reader, logo.Name)
	if err != nil {
		return nil, apperror.NewValidation("Logo must be a PNG, JPEG, GIF, BMP or TIFF image").WithCause(err)
	}
	if err := s.dairies.UpdateLogo(ctx, dairy.ID, path); err != nil {
		return nil, internal(err)
	}
	dairy.LogoPath = &path
	return dairy, nil
}

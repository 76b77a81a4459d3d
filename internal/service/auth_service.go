package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-dairy-ledger/internal/repository"
	"go-dairy-ledger/internal/session"
	"go-dairy-ledger/pkg/apperror"
	"go-dairy-ledger/pkg/jwt"
)

var (
	ErrInvalidCredentials = apperror.NewUnauthorized("Invalid username or password")
	ErrUserNotFound       = apperror.NewNotFound("user", nil)
	ErrWeakPassword       = apperror.NewValidation("Password must be at least 6 characters")
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*SessionResponse, error)
	Impersonate(ctx context.Context, actor session.Identity, dairyID uuid.UUID) (*SessionResponse, error)
	Return(ctx context.Context, actor session.Identity) (*SessionResponse, error)
	ResetPassword(ctx context.Context, username, newPassword string) error
	Describe(actor session.Identity) SessionInfo
}

// SessionInfo is the client-facing view of an identity.
type SessionInfo struct {
	State         string     `json:"state"`
	AdminID       *uuid.UUID `json:"admin_id,omitempty"`
	DairyID       *uuid.UUID `json:"dairy_id,omitempty"`
	DairyName     string     `json:"dairy_name,omitempty"`
	Username      string     `json:"username"`
	Impersonating bool       `json:"impersonating"`
}

type SessionResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Session   SessionInfo      `json:"session"`
	Identity  session.Identity `json:"-"`
}

type authService struct {
	admins  repository.AdminRepository
	dairies repository.DairyRepository
	signer  *jwt.Signer
}

func NewAuthService(admins repository.AdminRepository, dairies repository.DairyRepository, signer *jwt.Signer) AuthService {
	return &authService{
		admins:  admins,
		dairies: dairies,
		signer:  signer,
	}
}

func (s *authService) Describe(actor session.Identity) SessionInfo {
	return SessionInfo{
		State:         actor.State().String(),
		AdminID:       actor.AdminID,
		DairyID:       actor.DairyID,
		DairyName:     actor.DairyName,
		Username:      actor.Username,
		Impersonating: actor.IsImpersonating(),
	}
}

func (s *authService) issue(i session.Identity) (*SessionResponse, error) {
	token, err := session.Encode(s.signer, i)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return &SessionResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.signer.TTL()),
		Session:   s.Describe(i),
		Identity:  i,
	}, nil
}

// Login checks admin credentials first, then dairy credentials.
func (s *authService) Login(ctx context.Context, username, password string) (*SessionResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.NewValidation("Username and password are required")
	}

	admin, err := s.admins.FindByUsername(ctx, username)
	if err == nil && admin.CheckPassword(password) {
		return s.issue(session.LoginAdmin(admin.ID, admin.Username))
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewInternal(err)
	}

	dairy, err := s.dairies.FindByUsername(ctx, username)
	if err == nil && dairy.CheckPassword(password) {
		return s.issue(session.LoginDairy(dairy.ID, dairy.Name, dairy.Username))
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewInternal(err)
	}

	return nil, ErrInvalidCredentials
}

func (s *authService) Impersonate(ctx context.Context, actor session.Identity, dairyID uuid.UUID) (*SessionResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	dairy, err := s.dairies.FindByID(ctx, dairyID)
	if err != nil {
		return nil, lookupErr(err, "dairy", dairyID)
	}
	next, err := actor.Impersonate(dairy.ID, dairy.Name)
	if err != nil {
		return nil, ErrAdminOnly
	}
	return s.issue(next)
}

func (s *authService) Return(ctx context.Context, actor session.Identity) (*SessionResponse, error) {
	next, err := actor.Return()
	if err != nil {
		return nil, ErrAdminOnly
	}
	return s.issue(next)
}

// ResetPassword sets a new password for the admin or dairy with username.
func (s *authService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrWeakPassword
	}

	if admin, err := s.admins.FindByUsername(ctx, username); err == nil {
		if err := admin.SetPassword(newPassword); err != nil {
			return apperror.NewInternal(err)
		}
		return internal(s.admins.UpdatePassword(ctx, admin.ID, admin.Password))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewInternal(err)
	}

	dairy, err := s.dairies.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return apperror.NewInternal(err)
	}
	if err := dairy.SetPassword(newPassword); err != nil {
		return apperror.NewInternal(err)
	}
	return internal(s.dairies.UpdatePassword(ctx, dairy.ID, dairy.Password))
}

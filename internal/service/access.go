package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-dairy-ledger/internal/session"
	"go-dairy-ledger/pkg/apperror"
)

var (
	ErrNoActingDairy = apperror.NewForbidden("No dairy selected for this session")
	ErrNotOwner      = apperror.NewForbidden("You do not have access to this record")
	ErrAdminOnly     = apperror.NewForbidden("Administrator access required")
)

// actingDairy returns the dairy the actor operates on, or a forbidden error.
func actingDairy(actor session.Identity) (uuid.UUID, error) {
	id, ok := actor.ActingDairy()
	if !ok {
		return uuid.Nil, ErrNoActingDairy
	}
	return id, nil
}

// requireOwner checks a record's dairy against the actor.
func requireOwner(actor session.Identity, dairyID uuid.UUID) error {
	if !actor.Owns(dairyID) {
		return ErrNotOwner
	}
	return nil
}

// lookupErr translates a repository lookup failure.
func lookupErr(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFound(entity, id)
	}
	return apperror.NewInternal(err)
}

// internal wraps store errors that are not already AppErrors.
func internal(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.AsAppError(err); ok {
		return err
	}
	return apperror.NewInternal(err)
}

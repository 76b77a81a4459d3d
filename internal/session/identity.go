// Package session models who is acting on a request.
//
// Two authentication tracks share one session: an admin login and a dairy
// login. An admin may impersonate a dairy without giving up the admin
// login, so an Identity can carry both ids at once.
package session

import (
	"errors"

	"github.com/google/uuid"
)

type State int

const (
	Anonymous State = iota
	AdminAuthenticated
	TenantAuthenticated
)

func (s State) String() string {
	switch s {
	case AdminAuthenticated:
		return "admin"
	case TenantAuthenticated:
		return "tenant"
	default:
		return "anonymous"
	}
}

var ErrNotAdmin = errors.New("only an administrator can impersonate a dairy")

// Identity is the resolved, request-scoped session. The zero value is Anonymous.
type Identity struct {
	AdminID   *uuid.UUID
	DairyID   *uuid.UUID
	DairyName string
	Username  string
}

// State reports the session state. An impersonating admin is TenantAuthenticated.
func (i Identity) State() State {
	switch {
	case i.DairyID != nil:
		return TenantAuthenticated
	case i.AdminID != nil:
		return AdminAuthenticated
	default:
		return Anonymous
	}
}

func (i Identity) IsAdmin() bool {
	return i.AdminID != nil
}

func (i Identity) IsImpersonating() bool {
	return i.AdminID != nil && i.DairyID != nil
}

// ActingDairy returns the dairy the request operates on.
func (i Identity) ActingDairy() (uuid.UUID, bool) {
	if i.DairyID == nil {
		return uuid.Nil, false
	}
	return *i.DairyID, true
}

// Owns reports whether a record of dairyID may be mutated by this identity.
func (i Identity) Owns(dairyID uuid.UUID) bool {
	acting, ok := i.ActingDairy()
	return ok && acting == dairyID
}

// LoginAdmin moves to AdminAuthenticated, dropping any dairy.
func LoginAdmin(adminID uuid.UUID, username string) Identity {
	id := adminID
	return Identity{AdminID: &id, Username: username}
}

// LoginDairy moves to TenantAuthenticated through the dairy's own credentials.
func LoginDairy(dairyID uuid.UUID, dairyName, username string) Identity {
	id := dairyID
	return Identity{DairyID: &id, DairyName: dairyName, Username: username}
}

// Impersonate switches an admin session onto a dairy, keeping the admin login.
func (i Identity) Impersonate(dairyID uuid.UUID, dairyName string) (Identity, error) {
	if !i.IsAdmin() {
		return i, ErrNotAdmin
	}
	id := dairyID
	admin := *i.AdminID
	return Identity{AdminID: &admin, DairyID: &id, DairyName: dairyName, Username: i.Username}, nil
}

// Return drops the impersonated dairy from an admin session.
func (i Identity) Return() (Identity, error) {
	if !i.IsAdmin() {
		return i, ErrNotAdmin
	}
	admin := *i.AdminID
	return Identity{AdminID: &admin, Username: i.Username}, nil
}

// Logout clears all session-scoped identity.
func Logout() Identity {
	return Identity{}
}

package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"go-dairy-ledger/internal/middleware"
	"go-dairy-ledger/internal/service"
	"go-dairy-ledger/internal/session"
)

type AuthHandler struct {
	authService  service.AuthService
	secureCookie bool
}

func NewAuthHandler(authService service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

func (h *AuthHandler) setSession(c *fiber.Ctx, res *service.SessionResponse) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Login authenticates an admin or a dairy
// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	res, err := h.authService.Login(c.UserContext(), c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		return err
	}
	h.setSession(c, res)
	return c.JSON(fiber.Map{"message": "Logged in", "data": res})
}

// Logout clears the session
// POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearSession(c)
	return c.JSON(fiber.Map{"message": "Logged out", "data": h.authService.Describe(session.Logout())})
}

// Me describes the current session
// GET /me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.authService.Describe(middleware.Identity(c))})
}

// ViewDairy starts impersonating a dairy
// POST /admin/dairies/:id/view
func (h *AuthHandler) ViewDairy(c *fiber.Ctx) error {
	id, err := params{}.id(c)
	if err != nil {
		return err
	}
	res, err := h.authService.Impersonate(c.UserContext(), middleware.Identity(c), id)
	if err != nil {
		return err
	}
	h.setSession(c, res)
	return c.JSON(fiber.Map{"message": "Viewing " + res.Session.DairyName, "data": res})
}

// Return ends impersonation
// POST /admin/return
func (h *AuthHandler) Return(c *fiber.Ctx) error {
	res, err := h.authService.Return(c.UserContext(), middleware.Identity(c))
	if err != nil {
		return err
	}
	h.setSession(c, res)
	return c.JSON(fiber.Map{"message": "Returned to admin", "data": res})
}

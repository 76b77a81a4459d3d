package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"go-dairy-ledger/internal/session"
	"go-dairy-ledger/pkg/apperror"
	"go-dairy-ledger/pkg/jwt"
)

const localIdentity = "identity"

// LoginPath is where tenant pages send sessions without an acting dairy.
const LoginPath = "/login"

// tokenFrom reads the session cookie, falling back to "Authorization: Bearer <token>".
func tokenFrom(c *fiber.Ctx) string {
	if token := c.Cookies(session.CookieName); token != "" {
		return token
	}
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}

// Session resolves the request identity. Missing or invalid tokens leave the
// request anonymous; the gates below decide what anonymous may reach.
func Session(signer *jwt.Signer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := session.Identity{}
		if token := tokenFrom(c); token != "" {
			if decoded, err := session.Decode(signer, token); err == nil {
				identity = decoded
			} else {
				c.ClearCookie(session.CookieName)
			}
		}
		c.Locals(localIdentity, identity)
		return c.Next()
	}
}

// Identity returns the identity resolved by Session.
func Identity(c *fiber.Ctx) session.Identity {
	if i, ok := c.Locals(localIdentity).(session.Identity); ok {
		return i
	}
	return session.Identity{}
}

// RequireSession rejects anonymous requests.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Identity(c).State() == session.Anonymous {
			return c.Status(401).JSON(fiber.Map{"code": apperror.CodeUnauthorized, "message": "Login required"})
		}
		return c.Next()
	}
}

// RequireAdmin allows administrators only, impersonating or not.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Identity(c).IsAdmin() {
			return c.Status(403).JSON(fiber.Map{"code": apperror.CodeForbidden, "message": "Administrator access required"})
		}
		return c.Next()
	}
}

// RequireDairy redirects to the login page when no dairy is acting.
func RequireDairy() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := Identity(c).ActingDairy(); !ok {
			return c.Redirect(LoginPath, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

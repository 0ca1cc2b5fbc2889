package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/pkg/jwt"
)

const localIdentity = "identity"

// LoginURL is where an expired session is sent to sign in again.
const LoginURL = "/login"

// Authenticate resolves the caller from the session cookie, falling back to
// an "Authorization: Bearer" token. It never rejects; the Require* guards do.
func Authenticate(sessions *SessionManager, tokenSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, ok, err := sessions.Load(c)
		if err != nil {
			log.Warn().Err(err).Str("path", c.Path()).Msg("load session")
		}
		if !ok {
			who, ok = bearerIdentity(c, tokenSecret)
		}
		if ok {
			c.Locals(localIdentity, who)
		}
		return c.Next()
	}
}

func bearerIdentity(c *fiber.Ctx, secret string) (entity.Identity, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return entity.Identity{}, false
	}
	claims, err := jwt.Parse(secret, strings.TrimSpace(parts[1]))
	if err != nil {
		return entity.Identity{}, false
	}
	return entity.Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
	}, true
}

// CurrentIdentity returns the caller set by Authenticate, or the zero Identity.
func CurrentIdentity(c *fiber.Ctx) entity.Identity {
	who, _ := c.Locals(localIdentity).(entity.Identity)
	return who
}

// RequireAuthenticated answers anonymous callers with a relogin prompt.
// The status stays 200 so browser clients can follow login_url themselves.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentIdentity(c).IsZero() {
			return c.Status(fiber.StatusOK).JSON(dto.ErrorResponse{
				Code:     "SESSION_EXPIRED",
				Message:  "Session expired. Please log in again.",
				LoginURL: LoginURL,
			})
		}
		return c.Next()
	}
}

// RequireAdmin rejects callers without the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CurrentIdentity(c).IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "Access denied: admins only.",
			})
		}
		return c.Next()
	}
}

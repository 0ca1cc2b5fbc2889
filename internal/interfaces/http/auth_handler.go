package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/yarn-inventory/internal/application/auth"
	"github.com/jhoicas/yarn-inventory/internal/application/dto"
)

// AuthHandler login, logout and API tokens.
type AuthHandler struct {
	uc       *auth.AuthUseCase
	sessions *SessionManager
}

// NewAuthHandler builds the handler.
func NewAuthHandler(uc *auth.AuthUseCase, sessions *SessionManager) *AuthHandler {
	return &AuthHandler{uc: uc, sessions: sessions}
}

// Login godoc
// @Summary      Sign in
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      303
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	who, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.sessions.Start(c, who); err != nil {
		return respondError(c, err)
	}
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// Logout godoc
// @Summary      Sign out
// @Tags         auth
// @Success      303
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.uc.Logout(c.Context(), CurrentIdentity(c))
	if err := h.sessions.Destroy(c); err != nil {
		return respondError(c, err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Token godoc
// @Summary      Issue a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.TokenResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/token [post]
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.IssueToken(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

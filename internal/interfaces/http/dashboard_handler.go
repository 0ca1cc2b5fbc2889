package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/yarn-inventory/internal/application/analytics"
)

// DashboardHandler landing page figures.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler builds the handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Stock totals
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /dashboard [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.Context(), CurrentIdentity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Profile returns the session identity.
func (h *DashboardHandler) Profile(c *fiber.Ctx) error {
	return c.JSON(CurrentIdentity(c))
}

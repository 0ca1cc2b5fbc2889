package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/yarn-inventory/internal/application/audit"
	"github.com/jhoicas/yarn-inventory/internal/application/dto"
)

// LogHandler activity log for administrators.
type LogHandler struct {
	uc *audit.LogUseCase
}

// NewLogHandler builds the handler.
func NewLogHandler(uc *audit.LogUseCase) *LogHandler {
	return &LogHandler{uc: uc}
}

// List godoc
// @Summary      Activity log
// @Tags         logs
// @Produce      json
// @Param        username   query  string  false  "substring of the user name"
// @Param        action     query  string  false  "login | logout | create | update | delete | import | use | email"
// @Param        table      query  string  false  "users | suppliers | yarn_stock | yarn_usage"
// @Param        from_date  query  string  false  "YYYY-MM-DD, inclusive"
// @Param        to_date    query  string  false  "YYYY-MM-DD, inclusive"
// @Param        page       query  int     false  "1-based page"
// @Success      200  {object}  dto.LogListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /logs/user-logs [get]
func (h *LogHandler) List(c *fiber.Ctx) error {
	var q dto.LogListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

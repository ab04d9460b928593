package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Geraldo-Morris/tvriapp/internal/auth"
	"github.com/Geraldo-Morris/tvriapp/internal/service"
	"github.com/Geraldo-Morris/tvriapp/internal/stats"
	apperrors "github.com/Geraldo-Morris/tvriapp/pkg/util"
)

// StatsHandler serves dashboard summaries.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// Summary GET /stats/summary?window=week|month|year.
func (h *StatsHandler) Summary(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	window := stats.Window(c.Query("window", string(stats.WindowWeek)))

	summary, err := h.service.Summary(c.Context(), principal.User, window)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

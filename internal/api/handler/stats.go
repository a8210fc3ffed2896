package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

// StatsService interface for store-wide counters
type StatsService interface {
	Stats(ctx context.Context) (*domain.EngineStats, error)
}

// StatsHandler handles statistics requests
type StatsHandler struct {
	service StatsService
	logger  *slog.Logger
}

// NewStatsHandler creates a new StatsHandler instance
func NewStatsHandler(service StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger,
	}
}

// Get GET /v1/stats - store-wide statistics
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(stats)
}

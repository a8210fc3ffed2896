package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rodrigozago/sietch-faces/internal/clustering"
	"github.com/rodrigozago/sietch-faces/internal/domain"
)

// ClusterRunner interface for the clustering engine
type ClusterRunner interface {
	Cluster(ctx context.Context, scope domain.SearchScope, params clustering.Params, materialize bool) (*domain.ClusterResult, error)
}

// ClusterHandler handles clustering requests
type ClusterHandler struct {
	service ClusterRunner
	logger  *slog.Logger
}

// NewClusterHandler creates a new ClusterHandler instance
func NewClusterHandler(service ClusterRunner, logger *slog.Logger) *ClusterHandler {
	return &ClusterHandler{
		service: service,
		logger:  logger,
	}
}

// ClusterRequest body for the cluster endpoint
type ClusterRequest struct {
	Scope       string     `json:"scope"`
	PersonID    *uuid.UUID `json:"person_id,omitempty"`
	Eps         float64    `json:"eps"`
	MinSamples  int        `json:"min_samples"`
	Materialize bool       `json:"materialize"`
}

// ClusterResponse wraps the partition with its summary statistics
type ClusterResponse struct {
	Clusters []domain.Cluster    `json:"clusters"`
	Noise    []uuid.UUID         `json:"noise"`
	Stats    domain.ClusterStats `json:"stats"`
}

// Cluster POST /v1/cluster - partition in-scope faces into identity groups
func (h *ClusterHandler) Cluster(c *fiber.Ctx) error {
	var req ClusterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	scope, err := parseScope(req.Scope, req.PersonID)
	if err != nil {
		return err
	}

	params := clustering.Params{
		Eps:        req.Eps,
		MinSamples: req.MinSamples,
	}

	result, err := h.service.Cluster(c.Context(), scope, params, req.Materialize)
	if err != nil {
		return err
	}

	return c.JSON(ClusterResponse{
		Clusters: result.Clusters,
		Noise:    result.Noise,
		Stats:    result.Stats(),
	})
}

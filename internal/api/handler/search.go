package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

// SearchService interface for similarity search
type SearchService interface {
	FindSimilar(ctx context.Context, embedding []float64, scope domain.SearchScope, threshold float64, limit int) (*domain.SearchResult, error)
}

// SearchHandler handles similarity search requests
type SearchHandler struct {
	service          SearchService
	defaultThreshold float64
	logger           *slog.Logger
}

// NewSearchHandler creates a new SearchHandler instance
func NewSearchHandler(service SearchService, defaultThreshold float64, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service:          service,
		defaultThreshold: defaultThreshold,
		logger:           logger,
	}
}

// SearchRequest body for the search endpoint
type SearchRequest struct {
	Embedding []float64  `json:"embedding"`
	Scope     string     `json:"scope"`
	PersonID  *uuid.UUID `json:"person_id,omitempty"`
	Threshold *float64   `json:"threshold,omitempty"`
	Limit     int        `json:"limit"`
}

// Search POST /v1/search - rank stored faces by similarity to a query vector
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	scope, err := parseScope(req.Scope, req.PersonID)
	if err != nil {
		return err
	}

	threshold := h.defaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	result, err := h.service.FindSimilar(c.Context(), req.Embedding, scope, threshold, req.Limit)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// parseScope maps the wire scope representation to a SearchScope. An empty
// kind defaults to searching everything.
func parseScope(kind string, personID *uuid.UUID) (domain.SearchScope, error) {
	if kind == "" {
		kind = string(domain.ScopeAll)
	}

	scope := domain.SearchScope{Kind: domain.ScopeKind(kind)}
	if scope.Kind == domain.ScopePerson {
		if personID == nil {
			return scope, domain.ErrValidationFailed.WithError(fmt.Errorf("person_id is required for scope %q", kind))
		}
		scope.PersonID = *personID
	}

	if !scope.Valid() {
		return scope, domain.ErrValidationFailed.WithError(fmt.Errorf("unknown scope %q", kind))
	}

	return scope, nil
}

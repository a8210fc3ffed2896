package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

// FaceService interface for face lookups and removal
type FaceService interface {
	GetFace(ctx context.Context, id uuid.UUID) (*domain.Face, error)
	ListFaces(ctx context.Context, limit, offset int) ([]domain.Face, error)
	DeleteFace(ctx context.Context, id uuid.UUID) error
}

// FaceHandler handles face-related requests
type FaceHandler struct {
	service FaceService
	logger  *slog.Logger
}

// NewFaceHandler creates a new FaceHandler instance
func NewFaceHandler(service FaceService, logger *slog.Logger) *FaceHandler {
	return &FaceHandler{
		service: service,
		logger:  logger,
	}
}

// List GET /v1/faces - list stored faces
func (h *FaceHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > 500 {
		return domain.ErrValidationFailed.WithError(errors.New("limit must be between 1 and 500"))
	}
	if offset < 0 {
		return domain.ErrValidationFailed.WithError(errors.New("offset must not be negative"))
	}

	faces, err := h.service.ListFaces(c.Context(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"faces": faces})
}

// Get GET /v1/faces/:id - a single face
func (h *FaceHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	face, err := h.service.GetFace(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(face)
}

// Delete DELETE /v1/faces/:id - remove a face observation
func (h *FaceHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteFace(c.Context(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

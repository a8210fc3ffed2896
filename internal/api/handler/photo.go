package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rodrigozago/sietch-faces/internal/domain"
	"github.com/rodrigozago/sietch-faces/internal/provider"
	"github.com/rodrigozago/sietch-faces/internal/service"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// PhotoService interface for the association pipeline
type PhotoService interface {
	ProcessUpload(ctx context.Context, req service.UploadRequest) (*domain.PropagationResult, error)
	ProcessDetected(ctx context.Context, req service.UploadRequest, detected []provider.DetectedFace) (*domain.PropagationResult, error)
	Propagate(ctx context.Context, personID uuid.UUID) (int, error)
}

// PhotoHandler handles photo ingestion and propagation requests
type PhotoHandler struct {
	service PhotoService
	logger  *slog.Logger
}

// NewPhotoHandler creates a new PhotoHandler instance
func NewPhotoHandler(service PhotoService, logger *slog.Logger) *PhotoHandler {
	return &PhotoHandler{
		service: service,
		logger:  logger,
	}
}

// Upload POST /v1/photos - ingest a photo and auto-associate its faces
func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	accountRef, err := parseUUIDForm(c, "account_ref")
	if err != nil {
		return err
	}
	collectionRef, err := parseUUIDForm(c, "collection_ref")
	if err != nil {
		return err
	}

	// photo_ref is the caller's identifier for the photo; generated when absent
	photoRef := uuid.New()
	if raw := strings.TrimSpace(c.FormValue("photo_ref")); raw != "" {
		photoRef, err = uuid.Parse(raw)
		if err != nil {
			return domain.ErrValidationFailed.WithError(fmt.Errorf("invalid photo_ref: %w", err))
		}
	}

	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("upload photo: %w", err)
	}

	result, err := h.service.ProcessUpload(c.Context(), service.UploadRequest{
		PhotoRef:           domain.NewPhotoRef(photoRef),
		UploaderAccount:    domain.NewAccountRef(accountRef),
		UploaderCollection: domain.NewCollectionRef(collectionRef),
		Image:              imageBytes,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// DetectedFaceRequest is one pre-detected face supplied by the caller
type DetectedFaceRequest struct {
	X          int       `json:"x"`
	Y          int       `json:"y"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Confidence float64   `json:"confidence"`
	Embedding  []float64 `json:"embedding"`
}

// DetectedUploadRequest body for uploads where detection already happened
// upstream
type DetectedUploadRequest struct {
	PhotoRef      uuid.UUID             `json:"photo_ref"`
	AccountRef    uuid.UUID             `json:"account_ref"`
	CollectionRef uuid.UUID             `json:"collection_ref"`
	Faces         []DetectedFaceRequest `json:"faces"`
}

// UploadDetected POST /v1/photos/detected - associate faces detected upstream
func (h *PhotoHandler) UploadDetected(c *fiber.Ctx) error {
	var req DetectedUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}
	if req.PhotoRef == uuid.Nil {
		return domain.ErrValidationFailed.WithError(errors.New("photo_ref is required"))
	}
	if req.AccountRef == uuid.Nil {
		return domain.ErrValidationFailed.WithError(errors.New("account_ref is required"))
	}
	if req.CollectionRef == uuid.Nil {
		return domain.ErrValidationFailed.WithError(errors.New("collection_ref is required"))
	}

	detected := make([]provider.DetectedFace, 0, len(req.Faces))
	for _, f := range req.Faces {
		detected = append(detected, provider.DetectedFace{
			BoundingBox: provider.BoundingBox{
				X:      f.X,
				Y:      f.Y,
				Width:  f.Width,
				Height: f.Height,
			},
			Confidence: f.Confidence,
			Embedding:  f.Embedding,
		})
	}

	result, err := h.service.ProcessDetected(c.Context(), service.UploadRequest{
		PhotoRef:           domain.NewPhotoRef(req.PhotoRef),
		UploaderAccount:    domain.NewAccountRef(req.AccountRef),
		UploaderCollection: domain.NewCollectionRef(req.CollectionRef),
	}, detected)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// PropagateRequest body for the propagate endpoint
type PropagateRequest struct {
	PersonID uuid.UUID `json:"person_id"`
}

// PropagateResponse response for the propagate endpoint
type PropagateResponse struct {
	PersonID     uuid.UUID `json:"person_id"`
	PhotosLinked int       `json:"photos_linked"`
}

// Propagate POST /v1/photos/propagate - retroactively link a claimed
// person's photos into their own-face collection
func (h *PhotoHandler) Propagate(c *fiber.Ctx) error {
	var req PropagateRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}
	if req.PersonID == uuid.Nil {
		return domain.ErrValidationFailed.WithError(errors.New("person_id is required"))
	}

	linked, err := h.service.Propagate(c.Context(), req.PersonID)
	if err != nil {
		return err
	}

	return c.JSON(PropagateResponse{
		PersonID:     req.PersonID,
		PhotosLinked: linked,
	})
}

// parseUUIDForm extracts a required UUID form field
func parseUUIDForm(c *fiber.Ctx, field string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.FormValue(field))
	if raw == "" {
		return uuid.Nil, domain.ErrValidationFailed.WithError(fmt.Errorf("%s is required", field))
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrValidationFailed.WithError(fmt.Errorf("invalid %s: %w", field, err))
	}

	return id, nil
}

// extractAndValidateImage extracts and validates the image from the form
func extractAndValidateImage(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	if file.Size > maxImageSize {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	if file.Size == 0 {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return imageBytes, nil
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

// PersonService interface for the identity lifecycle
type PersonService interface {
	CreatePerson(ctx context.Context, name *string) (*domain.Person, error)
	GetPerson(ctx context.Context, id uuid.UUID) (*domain.Person, []domain.Face, error)
	ListPersons(ctx context.Context, limit, offset int) ([]domain.Person, error)
	RenamePerson(ctx context.Context, id uuid.UUID, name *string) error
	DeletePerson(ctx context.Context, id uuid.UUID) error
	ClaimPerson(ctx context.Context, personID uuid.UUID, account domain.AccountRef, collection domain.CollectionRef) (int, error)
	ListFacesByPerson(ctx context.Context, personID uuid.UUID) ([]domain.Face, error)
}

// MergeRunner interface for the merge transaction
type MergeRunner interface {
	Merge(ctx context.Context, targetID uuid.UUID, sourceIDs []uuid.UUID, keepName *string) (*domain.MergeResult, error)
}

// MergeSuggester interface for duplicate-person ranking
type MergeSuggester interface {
	SuggestMerges(ctx context.Context, personID uuid.UUID, limit int) ([]domain.MergeSuggestion, error)
}

// PersonHandler handles person-related requests
type PersonHandler struct {
	service   PersonService
	merger    MergeRunner
	suggester MergeSuggester
	logger    *slog.Logger
}

// NewPersonHandler creates a new PersonHandler instance
func NewPersonHandler(service PersonService, merger MergeRunner, suggester MergeSuggester, logger *slog.Logger) *PersonHandler {
	return &PersonHandler{
		service:   service,
		merger:    merger,
		suggester: suggester,
		logger:    logger,
	}
}

// PersonRequest body for create and rename
type PersonRequest struct {
	Name *string `json:"name"`
}

// PersonWithFacesResponse bundles a person with their faces
type PersonWithFacesResponse struct {
	Person *domain.Person `json:"person"`
	Faces  []domain.Face  `json:"faces"`
}

// List GET /v1/persons - list persons with face counts
func (h *PersonHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > 500 {
		return domain.ErrValidationFailed.WithError(errors.New("limit must be between 1 and 500"))
	}
	if offset < 0 {
		return domain.ErrValidationFailed.WithError(errors.New("offset must not be negative"))
	}

	persons, err := h.service.ListPersons(c.Context(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"persons": persons})
}

// Create POST /v1/persons - create a person, optionally named
func (h *PersonHandler) Create(c *fiber.Ctx) error {
	var req PersonRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	person, err := h.service.CreatePerson(c.Context(), req.Name)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(person)
}

// Get GET /v1/persons/:id - person with their faces
func (h *PersonHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	person, faces, err := h.service.GetPerson(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(PersonWithFacesResponse{
		Person: person,
		Faces:  faces,
	})
}

// Rename PUT /v1/persons/:id - update the display name
func (h *PersonHandler) Rename(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req PersonRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	if err := h.service.RenamePerson(c.Context(), id, req.Name); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Delete DELETE /v1/persons/:id - delete a person and their faces
func (h *PersonHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeletePerson(c.Context(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ClaimRequest body for the claim endpoint
type ClaimRequest struct {
	AccountRef    uuid.UUID `json:"account_ref"`
	CollectionRef uuid.UUID `json:"collection_ref"`
}

// ClaimResponse response for the claim endpoint
type ClaimResponse struct {
	PersonID     uuid.UUID `json:"person_id"`
	PhotosLinked int       `json:"photos_linked"`
}

// Claim POST /v1/persons/:id/claim - link a person to an owning account
func (h *PersonHandler) Claim(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}
	if req.AccountRef == uuid.Nil {
		return domain.ErrValidationFailed.WithError(errors.New("account_ref is required"))
	}
	if req.CollectionRef == uuid.Nil {
		return domain.ErrValidationFailed.WithError(errors.New("collection_ref is required"))
	}

	linked, err := h.service.ClaimPerson(c.Context(), id,
		domain.NewAccountRef(req.AccountRef),
		domain.NewCollectionRef(req.CollectionRef),
	)
	if err != nil {
		return err
	}

	return c.JSON(ClaimResponse{
		PersonID:     id,
		PhotosLinked: linked,
	})
}

// Faces GET /v1/persons/:id/faces - the person's faces
func (h *PersonHandler) Faces(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	faces, err := h.service.ListFacesByPerson(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"faces": faces})
}

// MergeRequest body for the merge endpoint
type MergeRequest struct {
	TargetPersonID  uuid.UUID   `json:"target_person_id"`
	SourcePersonIDs []uuid.UUID `json:"source_person_ids"`
	KeepName        *string     `json:"keep_name,omitempty"`
}

// Merge POST /v1/persons/merge - absorb source persons into the target
func (h *PersonHandler) Merge(c *fiber.Ctx) error {
	var req MergeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}
	if req.TargetPersonID == uuid.Nil {
		return domain.ErrValidationFailed.WithError(errors.New("target_person_id is required"))
	}

	result, err := h.merger.Merge(c.Context(), req.TargetPersonID, req.SourcePersonIDs, req.KeepName)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// MergeSuggestions GET /v1/persons/:id/merge-suggestions - likely duplicates
func (h *PersonHandler) MergeSuggestions(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		return domain.ErrValidationFailed.WithError(errors.New("limit must be between 1 and 100"))
	}

	suggestions, err := h.suggester.SuggestMerges(c.Context(), id, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"suggestions": suggestions})
}

// parseUUIDParam extracts a UUID path parameter
func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, domain.ErrValidationFailed.WithError(fmt.Errorf("invalid %s: %w", name, err))
	}
	return id, nil
}

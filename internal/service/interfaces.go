package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

type PersonRepositoryInterface interface {
	Create(ctx context.Context, person *domain.Person) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error)
	GetByAccountRef(ctx context.Context, account domain.AccountRef) (*domain.Person, error)
	List(ctx context.Context, limit, offset int) ([]domain.Person, error)
	UpdateName(ctx context.Context, id uuid.UUID, name *string) error
	Claim(ctx context.Context, id uuid.UUID, account domain.AccountRef) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteIfEmpty(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int, error)
	Largest(ctx context.Context) (*uuid.UUID, int, error)
}

type FaceRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Face, error)
	List(ctx context.Context, limit, offset int) ([]domain.Face, error)
	ListByPerson(ctx context.Context, personID uuid.UUID) ([]domain.Face, error)
	ListEmbeddings(ctx context.Context, scope domain.SearchScope) ([]domain.FaceEmbedding, error)
	SearchByEmbedding(ctx context.Context, embedding []float64, scope domain.SearchScope, threshold float64, limit int) ([]domain.SearchMatch, error)
	ListPhotoRefsByPersons(ctx context.Context, personIDs []uuid.UUID) ([]domain.PhotoRef, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	CountUnassigned(ctx context.Context) (int, error)
}

type CollectionRepositoryInterface interface {
	OwnFaceCollection(ctx context.Context, account domain.AccountRef) (domain.CollectionRef, error)
	SetOwnFaceCollection(ctx context.Context, account domain.AccountRef, collection domain.CollectionRef) error
	UpsertItem(ctx context.Context, collection domain.CollectionRef, photo domain.PhotoRef, autoAdded bool) (bool, error)
	ListItems(ctx context.Context, collection domain.CollectionRef) ([]domain.PhotoRef, error)
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

// PgxPool is the query surface shared by *pgxpool.Pool and pgx.Tx. Repositories
// only depend on it, so the same repository code runs against the pool or
// inside an explicit transaction.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// TxPool additionally opens transactions. Satisfied by *pgxpool.Pool.
type TxPool interface {
	PgxPool
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PersonRepositoryInterface defines operations for person data access
type PersonRepositoryInterface interface {
	Create(ctx context.Context, person *domain.Person) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error)
	GetByAccountRef(ctx context.Context, account domain.AccountRef) (*domain.Person, error)
	List(ctx context.Context, limit, offset int) ([]domain.Person, error)
	UpdateName(ctx context.Context, id uuid.UUID, name *string) error
	Claim(ctx context.Context, id uuid.UUID, account domain.AccountRef) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteIfEmpty(ctx context.Context, id uuid.UUID) (bool, error)
	LockForMerge(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	Count(ctx context.Context) (int, error)
	Largest(ctx context.Context) (*uuid.UUID, int, error)
}

// FaceRepositoryInterface defines operations for face data access
type FaceRepositoryInterface interface {
	Create(ctx context.Context, face *domain.Face) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Face, error)
	List(ctx context.Context, limit, offset int) ([]domain.Face, error)
	ListByPerson(ctx context.Context, personID uuid.UUID) ([]domain.Face, error)
	ListEmbeddings(ctx context.Context, scope domain.SearchScope) ([]domain.FaceEmbedding, error)
	SearchByEmbedding(ctx context.Context, embedding []float64, scope domain.SearchScope, threshold float64, limit int) ([]domain.SearchMatch, error)
	AssignPerson(ctx context.Context, faceID, personID uuid.UUID) error
	ReassignPerson(ctx context.Context, fromPersonIDs []uuid.UUID, toPersonID uuid.UUID) (int, error)
	ListPhotoRefsByPersons(ctx context.Context, personIDs []uuid.UUID) ([]domain.PhotoRef, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	CountUnassigned(ctx context.Context) (int, error)
}

// CollectionRepositoryInterface defines operations for the own-face collection
// resolver and idempotent collection membership.
type CollectionRepositoryInterface interface {
	OwnFaceCollection(ctx context.Context, account domain.AccountRef) (domain.CollectionRef, error)
	SetOwnFaceCollection(ctx context.Context, account domain.AccountRef, collection domain.CollectionRef) error
	UpsertItem(ctx context.Context, collection domain.CollectionRef, photo domain.PhotoRef, autoAdded bool) (bool, error)
	ListItems(ctx context.Context, collection domain.CollectionRef) ([]domain.PhotoRef, error)
}

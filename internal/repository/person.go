package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

type PersonRepository struct {
	pool PgxPool
}

func NewPersonRepository(pool PgxPool) *PersonRepository {
	return &PersonRepository{pool: pool}
}

const personColumns = `p.id, p.name, p.account_ref, p.created_at, p.updated_at, COUNT(f.id) AS face_count`

func (r *PersonRepository) Create(ctx context.Context, person *domain.Person) error {
	query := `
		INSERT INTO persons (id, name, account_ref, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if person.ID == uuid.Nil {
		person.ID = uuid.New()
	}

	var accountRef *uuid.UUID
	if person.AccountRef != nil {
		accountRef = &person.AccountRef.UUID
	}

	err := r.pool.QueryRow(ctx, query,
		person.ID,
		person.Name,
		accountRef,
	).Scan(&person.CreatedAt, &person.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAccountAlreadyClaimed
		}
		return fmt.Errorf("create person: %w", err)
	}

	return nil
}

func (r *PersonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM persons p
		LEFT JOIN faces f ON f.person_id = p.id
		WHERE p.id = $1
		GROUP BY p.id
	`

	person, err := scanPerson(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get person by id: %w", err)
	}

	return person, nil
}

func (r *PersonRepository) GetByAccountRef(ctx context.Context, account domain.AccountRef) (*domain.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM persons p
		LEFT JOIN faces f ON f.person_id = p.id
		WHERE p.account_ref = $1
		GROUP BY p.id
	`

	person, err := scanPerson(r.pool.QueryRow(ctx, query, account.UUID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get person by account_ref: %w", err)
	}

	return person, nil
}

func (r *PersonRepository) List(ctx context.Context, limit, offset int) ([]domain.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM persons p
		LEFT JOIN faces f ON f.person_id = p.id
		GROUP BY p.id
		ORDER BY p.created_at DESC, p.id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	persons := []domain.Person{}
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("list persons: %w", err)
		}
		persons = append(persons, *person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}

	return persons, nil
}

func (r *PersonRepository) UpdateName(ctx context.Context, id uuid.UUID, name *string) error {
	query := `
		UPDATE persons
		SET name = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, name)
	if err != nil {
		return fmt.Errorf("update person name: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrPersonNotFound
	}

	return nil
}

func (r *PersonRepository) Claim(ctx context.Context, id uuid.UUID, account domain.AccountRef) error {
	query := `
		UPDATE persons
		SET account_ref = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, account.UUID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAccountAlreadyClaimed
		}
		return fmt.Errorf("claim person: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrPersonNotFound
	}

	return nil
}

func (r *PersonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM persons
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrPersonNotFound
	}

	return nil
}

// DeleteIfEmpty removes the person only when no faces reference it anymore.
// Returns true when a row was deleted.
func (r *PersonRepository) DeleteIfEmpty(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		DELETE FROM persons
		WHERE id = $1
		AND NOT EXISTS (SELECT 1 FROM faces WHERE person_id = $1)
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete empty person: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// LockForMerge row-locks the given persons in a fixed id order so concurrent
// merges over overlapping sets serialize instead of deadlocking. Returns the
// ids that actually exist; the caller decides what a missing id means.
func (r *PersonRepository) LockForMerge(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM persons
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock persons for merge: %w", err)
	}
	defer rows.Close()

	locked := make([]uuid.UUID, 0, len(ids))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("lock persons for merge: %w", err)
		}
		locked = append(locked, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lock persons for merge: %w", err)
	}

	return locked, nil
}

func (r *PersonRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM persons`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count persons: %w", err)
	}
	return count, nil
}

// Largest returns the person with the most faces, or (nil, 0) when the store
// has no assigned faces.
func (r *PersonRepository) Largest(ctx context.Context) (*uuid.UUID, int, error) {
	query := `
		SELECT person_id, COUNT(*) AS face_count
		FROM faces
		WHERE person_id IS NOT NULL
		GROUP BY person_id
		ORDER BY face_count DESC, person_id
		LIMIT 1
	`

	var id uuid.UUID
	var count int
	err := r.pool.QueryRow(ctx, query).Scan(&id, &count)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("largest person: %w", err)
	}

	return &id, count, nil
}

func scanPerson(row pgx.Row) (*domain.Person, error) {
	var person domain.Person
	var accountRef *uuid.UUID

	err := row.Scan(
		&person.ID,
		&person.Name,
		&accountRef,
		&person.CreatedAt,
		&person.UpdatedAt,
		&person.FaceCount,
	)
	if err != nil {
		return nil, err
	}

	if accountRef != nil {
		ref := domain.NewAccountRef(*accountRef)
		person.AccountRef = &ref
	}

	return &person, nil
}

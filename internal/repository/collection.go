package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

type CollectionRepository struct {
	pool PgxPool
}

func NewCollectionRepository(pool PgxPool) *CollectionRepository {
	return &CollectionRepository{pool: pool}
}

// OwnFaceCollection resolves the canonical "photos I appear in" collection
// for an account.
func (r *CollectionRepository) OwnFaceCollection(ctx context.Context, account domain.AccountRef) (domain.CollectionRef, error) {
	query := `
		SELECT collection_ref
		FROM account_collections
		WHERE account_ref = $1
	`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query, account.UUID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CollectionRef{}, domain.ErrCollectionNotFound
	}
	if err != nil {
		return domain.CollectionRef{}, fmt.Errorf("resolve own-face collection: %w", err)
	}

	return domain.NewCollectionRef(id), nil
}

func (r *CollectionRepository) SetOwnFaceCollection(ctx context.Context, account domain.AccountRef, collection domain.CollectionRef) error {
	query := `
		INSERT INTO account_collections (account_ref, collection_ref)
		VALUES ($1, $2)
		ON CONFLICT (account_ref) DO UPDATE SET collection_ref = EXCLUDED.collection_ref
	`

	_, err := r.pool.Exec(ctx, query, account.UUID, collection.UUID)
	if err != nil {
		return fmt.Errorf("set own-face collection: %w", err)
	}

	return nil
}

// UpsertItem adds a photo to a collection. The (collection_ref, photo_ref)
// primary key makes re-adding a no-op, which is what keeps propagation
// idempotent under concurrency. Returns true when a new row was inserted.
func (r *CollectionRepository) UpsertItem(ctx context.Context, collection domain.CollectionRef, photo domain.PhotoRef, autoAdded bool) (bool, error) {
	query := `
		INSERT INTO collection_items (collection_ref, photo_ref, auto_added, added_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (collection_ref, photo_ref) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, collection.UUID, photo.UUID, autoAdded)
	if err != nil {
		return false, fmt.Errorf("upsert collection item: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *CollectionRepository) ListItems(ctx context.Context, collection domain.CollectionRef) ([]domain.PhotoRef, error) {
	query := `
		SELECT photo_ref
		FROM collection_items
		WHERE collection_ref = $1
		ORDER BY added_at, photo_ref
	`

	rows, err := r.pool.Query(ctx, query, collection.UUID)
	if err != nil {
		return nil, fmt.Errorf("list collection items: %w", err)
	}
	defer rows.Close()

	refs := []domain.PhotoRef{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list collection items: %w", err)
		}
		refs = append(refs, domain.NewPhotoRef(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list collection items: %w", err)
	}

	return refs, nil
}

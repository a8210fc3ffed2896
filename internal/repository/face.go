package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

type FaceRepository struct {
	pool PgxPool
}

func NewFaceRepository(pool PgxPool) *FaceRepository {
	return &FaceRepository{pool: pool}
}

const faceColumns = `f.id, f.person_id, f.embedding, f.bbox_x, f.bbox_y, f.bbox_width, f.bbox_height, f.confidence, f.photo_ref, f.detected_at`

func (r *FaceRepository) Create(ctx context.Context, face *domain.Face) error {
	query := `
		INSERT INTO faces (id, person_id, embedding, bbox_x, bbox_y, bbox_width, bbox_height, confidence, photo_ref, detected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING detected_at
	`

	if face.ID == uuid.Nil {
		face.ID = uuid.New()
	}

	embedding := toVector(face.Embedding)

	err := r.pool.QueryRow(ctx, query,
		face.ID,
		face.PersonID,
		embedding,
		face.Box.X,
		face.Box.Y,
		face.Box.Width,
		face.Box.Height,
		face.Confidence,
		face.PhotoRef.UUID,
	).Scan(&face.DetectedAt)

	if err != nil {
		return fmt.Errorf("create face: %w", err)
	}

	return nil
}

func (r *FaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Face, error) {
	query := `
		SELECT ` + faceColumns + `
		FROM faces f
		WHERE f.id = $1
	`

	face, err := scanFace(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get face by id: %w", err)
	}

	return face, nil
}

func (r *FaceRepository) List(ctx context.Context, limit, offset int) ([]domain.Face, error) {
	query := `
		SELECT ` + faceColumns + `
		FROM faces f
		ORDER BY f.detected_at DESC, f.id
		LIMIT $1 OFFSET $2
	`

	return r.queryFaces(ctx, "list faces", query, limit, offset)
}

func (r *FaceRepository) ListByPerson(ctx context.Context, personID uuid.UUID) ([]domain.Face, error) {
	query := `
		SELECT ` + faceColumns + `
		FROM faces f
		WHERE f.person_id = $1
		ORDER BY f.detected_at DESC, f.id
	`

	return r.queryFaces(ctx, "list faces by person", query, personID)
}

// ListEmbeddings loads the slim clustering projection for every face in scope.
func (r *FaceRepository) ListEmbeddings(ctx context.Context, scope domain.SearchScope) ([]domain.FaceEmbedding, error) {
	if !scope.Valid() {
		return nil, domain.ErrBadRequest
	}

	filter, args := scopeFilter(scope, 1)
	query := `
		SELECT f.id, f.person_id, f.photo_ref, f.embedding
		FROM faces f
		LEFT JOIN persons p ON p.id = f.person_id
		WHERE ` + filter + `
		ORDER BY f.id
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}
	defer rows.Close()

	embeddings := []domain.FaceEmbedding{}
	for rows.Next() {
		var fe domain.FaceEmbedding
		var vec *pgvector.Vector
		var photoRef uuid.UUID
		if err := rows.Scan(&fe.FaceID, &fe.PersonID, &photoRef, &vec); err != nil {
			return nil, fmt.Errorf("list embeddings: %w", err)
		}
		fe.PhotoRef = domain.NewPhotoRef(photoRef)
		fe.Embedding = fromVector(vec)
		embeddings = append(embeddings, fe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}

	return embeddings, nil
}

// SearchByEmbedding ranks in-scope faces by cosine similarity against the
// query vector. Ties break on face id so the ordering is reproducible.
func (r *FaceRepository) SearchByEmbedding(ctx context.Context, embedding []float64, scope domain.SearchScope, threshold float64, limit int) ([]domain.SearchMatch, error) {
	if !scope.Valid() {
		return nil, domain.ErrBadRequest
	}

	filter, extra := scopeFilter(scope, 4)
	query := `
		SELECT f.id, f.person_id, 1 - (f.embedding <=> $1) AS similarity
		FROM faces f
		LEFT JOIN persons p ON p.id = f.person_id
		WHERE 1 - (f.embedding <=> $1) >= $2 AND ` + filter + `
		ORDER BY similarity DESC, f.id ASC
		LIMIT $3
	`

	args := append([]interface{}{toVector(embedding), threshold, limit}, extra...)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search by embedding: %w", err)
	}
	defer rows.Close()

	matches := []domain.SearchMatch{}
	for rows.Next() {
		var match domain.SearchMatch
		if err := rows.Scan(&match.FaceID, &match.PersonID, &match.Similarity); err != nil {
			return nil, fmt.Errorf("search by embedding: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search by embedding: %w", err)
	}

	return matches, nil
}

func (r *FaceRepository) AssignPerson(ctx context.Context, faceID, personID uuid.UUID) error {
	query := `
		UPDATE faces
		SET person_id = $2
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, faceID, personID)
	if err != nil {
		return fmt.Errorf("assign person: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrFaceNotFound
	}

	return nil
}

// ReassignPerson moves every face of the source persons to the target and
// returns the number of faces transferred.
func (r *FaceRepository) ReassignPerson(ctx context.Context, fromPersonIDs []uuid.UUID, toPersonID uuid.UUID) (int, error) {
	query := `
		UPDATE faces
		SET person_id = $1
		WHERE person_id = ANY($2)
	`

	result, err := r.pool.Exec(ctx, query, toPersonID, fromPersonIDs)
	if err != nil {
		return 0, fmt.Errorf("reassign faces: %w", err)
	}

	return int(result.RowsAffected()), nil
}

// ListPhotoRefsByPersons returns the distinct photos the given persons appear
// in, in stable order.
func (r *FaceRepository) ListPhotoRefsByPersons(ctx context.Context, personIDs []uuid.UUID) ([]domain.PhotoRef, error) {
	query := `
		SELECT DISTINCT photo_ref
		FROM faces
		WHERE person_id = ANY($1)
		ORDER BY photo_ref
	`

	rows, err := r.pool.Query(ctx, query, personIDs)
	if err != nil {
		return nil, fmt.Errorf("list photo refs: %w", err)
	}
	defer rows.Close()

	refs := []domain.PhotoRef{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list photo refs: %w", err)
		}
		refs = append(refs, domain.NewPhotoRef(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list photo refs: %w", err)
	}

	return refs, nil
}

func (r *FaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM faces
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete face: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrFaceNotFound
	}

	return nil
}

func (r *FaceRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM faces`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count faces: %w", err)
	}
	return count, nil
}

func (r *FaceRepository) CountUnassigned(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM faces WHERE person_id IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unassigned faces: %w", err)
	}
	return count, nil
}

func (r *FaceRepository) queryFaces(ctx context.Context, op, query string, args ...interface{}) ([]domain.Face, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	faces := []domain.Face{}
	for rows.Next() {
		face, err := scanFace(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		faces = append(faces, *face)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return faces, nil
}

// scopeFilter renders the scope as a SQL predicate over faces f joined with
// persons p. nextArg is the first free placeholder index.
func scopeFilter(scope domain.SearchScope, nextArg int) (string, []interface{}) {
	switch scope.Kind {
	case domain.ScopeClaimed:
		return "p.account_ref IS NOT NULL", nil
	case domain.ScopeUnclaimed:
		return "(f.person_id IS NULL OR p.account_ref IS NULL)", nil
	case domain.ScopeAssigned:
		return "f.person_id IS NOT NULL", nil
	case domain.ScopePerson:
		return fmt.Sprintf("f.person_id = $%d", nextArg), []interface{}{scope.PersonID}
	default:
		return "TRUE", nil
	}
}

func scanFace(row pgx.Row) (*domain.Face, error) {
	var face domain.Face
	var vec *pgvector.Vector
	var photoRef uuid.UUID

	err := row.Scan(
		&face.ID,
		&face.PersonID,
		&vec,
		&face.Box.X,
		&face.Box.Y,
		&face.Box.Width,
		&face.Box.Height,
		&face.Confidence,
		&photoRef,
		&face.DetectedAt,
	)
	if err != nil {
		return nil, err
	}

	face.PhotoRef = domain.NewPhotoRef(photoRef)
	face.Embedding = fromVector(vec)
	return &face, nil
}

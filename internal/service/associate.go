package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rodrigozago/sietch-faces/internal/domain"
	"github.com/rodrigozago/sietch-faces/internal/embedding"
	"github.com/rodrigozago/sietch-faces/internal/provider"
	"github.com/rodrigozago/sietch-faces/internal/repository"
)

// indexCandidates is how many neighbors the claimed index is asked for per
// face before falling back to the SQL scan.
const indexCandidates = 5

// UploadRequest carries one uploaded photo through the association pipeline.
type UploadRequest struct {
	PhotoRef           domain.PhotoRef
	UploaderAccount    domain.AccountRef
	UploaderCollection domain.CollectionRef
	Image              []byte
}

// AssociationEngine runs the upload pipeline: detect faces, match them to
// known persons, and propagate the photo into every collection it belongs
// in. All storage steps of one upload share a transaction, so a photo never
// ends up with half its faces recorded.
type AssociationEngine struct {
	pool           repository.TxPool
	detector       provider.FaceDetector
	index          *ClaimedIndex
	matchThreshold float64
	embeddingDim   int
	logger         *slog.Logger
}

func NewAssociationEngine(pool repository.TxPool, detector provider.FaceDetector, index *ClaimedIndex, matchThreshold float64, embeddingDim int, logger *slog.Logger) *AssociationEngine {
	return &AssociationEngine{
		pool:           pool,
		detector:       detector,
		index:          index,
		matchThreshold: matchThreshold,
		embeddingDim:   embeddingDim,
		logger:         logger,
	}
}

// ProcessUpload ingests a photo: detects faces, stores them, auto-associates
// each face with the best matching person at or above the match threshold,
// and adds the photo to the uploader's collection plus the own-face
// collection of every matched claimed person. Re-processing the same photo
// adds nothing twice.
func (e *AssociationEngine) ProcessUpload(ctx context.Context, req UploadRequest) (*domain.PropagationResult, error) {
	detected, err := e.detector.DetectFaces(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	return e.associate(ctx, req, detected)
}

// ProcessDetected runs the association pipeline for faces an upstream caller
// already detected, skipping the detector. Same semantics as ProcessUpload,
// including the idempotent collection upserts.
func (e *AssociationEngine) ProcessDetected(ctx context.Context, req UploadRequest, detected []provider.DetectedFace) (*domain.PropagationResult, error) {
	return e.associate(ctx, req, detected)
}

func (e *AssociationEngine) associate(ctx context.Context, req UploadRequest, detected []provider.DetectedFace) (*domain.PropagationResult, error) {
	prepared, err := e.prepareFaces(detected, req.PhotoRef)
	if err != nil {
		return nil, err
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin upload: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	faceRepo := repository.NewFaceRepository(tx)
	personRepo := repository.NewPersonRepository(tx)
	collectionRepo := repository.NewCollectionRepository(tx)

	matched := []uuid.UUID{}
	matchedSet := map[uuid.UUID]struct{}{}
	for i := range prepared {
		personID, err := e.matchFace(ctx, faceRepo, prepared[i].Embedding)
		if err != nil {
			return nil, err
		}
		prepared[i].PersonID = personID

		if err := faceRepo.Create(ctx, &prepared[i]); err != nil {
			return nil, err
		}

		if personID != nil {
			if _, ok := matchedSet[*personID]; !ok {
				matchedSet[*personID] = struct{}{}
				matched = append(matched, *personID)
			}
		}
	}

	if _, err := collectionRepo.UpsertItem(ctx, req.UploaderCollection, req.PhotoRef, false); err != nil {
		return nil, err
	}

	added := []domain.CollectionRef{req.UploaderCollection}
	claimedOwners := map[uuid.UUID]bool{}
	for _, personID := range matched {
		person, err := personRepo.GetByID(ctx, personID)
		if err != nil {
			return nil, err
		}
		claimedOwners[personID] = person.Claimed()
		if !person.Claimed() {
			continue
		}

		collection, err := collectionRepo.OwnFaceCollection(ctx, *person.AccountRef)
		if err != nil {
			return nil, err
		}
		if _, err := collectionRepo.UpsertItem(ctx, collection, req.PhotoRef, true); err != nil {
			return nil, err
		}
		if collection != req.UploaderCollection {
			added = append(added, collection)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit upload: %w", err)
	}

	if e.index != nil {
		for _, face := range prepared {
			if face.PersonID != nil && claimedOwners[*face.PersonID] {
				e.index.Add(face.ID, *face.PersonID, face.Embedding)
			}
		}
	}

	e.logger.Info("photo processed",
		"photo_ref", req.PhotoRef,
		"faces", len(prepared),
		"matched_persons", len(matched),
		"collections", len(added),
	)

	return &domain.PropagationResult{
		PhotoRef:         req.PhotoRef,
		Faces:            prepared,
		MatchedPersonIDs: matched,
		AddedCollections: added,
	}, nil
}

// prepareFaces validates and normalizes the detector output.
func (e *AssociationEngine) prepareFaces(detected []provider.DetectedFace, photoRef domain.PhotoRef) ([]domain.Face, error) {
	faces := make([]domain.Face, 0, len(detected))
	for _, d := range detected {
		if len(d.Embedding) != e.embeddingDim {
			return nil, domain.ErrDimensionMismatch
		}
		normalized, err := embedding.Normalize(d.Embedding)
		if err != nil {
			return nil, err
		}

		faces = append(faces, domain.Face{
			Embedding: normalized,
			Box: domain.BoundingBox{
				X:      d.BoundingBox.X,
				Y:      d.BoundingBox.Y,
				Width:  d.BoundingBox.Width,
				Height: d.BoundingBox.Height,
			},
			Confidence: d.Confidence,
			PhotoRef:   photoRef,
		})
	}
	return faces, nil
}

// matchFace resolves the person a face belongs to, or nil when no assigned
// face reaches the match threshold. The SQL scan over assigned faces is
// authoritative; the claimed index only wins when it holds a strictly better
// candidate than the scan returned.
func (e *AssociationEngine) matchFace(ctx context.Context, faceRepo *repository.FaceRepository, vector []float64) (*uuid.UUID, error) {
	var indexed *IndexMatch
	if e.index != nil && e.index.Len() > 0 {
		for _, match := range e.index.Search(vector, indexCandidates) {
			if match.Similarity >= e.matchThreshold {
				indexed = &match
				break
			}
		}
	}

	matches, err := faceRepo.SearchByEmbedding(ctx, vector, domain.SearchScope{Kind: domain.ScopeAssigned}, e.matchThreshold, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 && matches[0].PersonID != nil {
		if indexed == nil || matches[0].Similarity >= indexed.Similarity {
			return matches[0].PersonID, nil
		}
	}
	if indexed != nil {
		personID := indexed.PersonID
		return &personID, nil
	}

	return nil, nil
}

// Propagate retroactively links every photo a claimed person appears in into
// their own-face collection. Safe to re-run; returns how many photos were
// newly linked.
func (e *AssociationEngine) Propagate(ctx context.Context, personID uuid.UUID) (int, error) {
	personRepo := repository.NewPersonRepository(e.pool)
	person, err := personRepo.GetByID(ctx, personID)
	if err != nil {
		return 0, err
	}
	if !person.Claimed() {
		return 0, domain.ErrBadRequest.WithError(fmt.Errorf("person %s is not claimed", personID))
	}

	faceRepo := repository.NewFaceRepository(e.pool)
	photoRefs, err := faceRepo.ListPhotoRefsByPersons(ctx, []uuid.UUID{personID})
	if err != nil {
		return 0, err
	}

	return e.propagatePhotos(ctx, *person.AccountRef, photoRefs)
}

func (e *AssociationEngine) propagatePhotos(ctx context.Context, account domain.AccountRef, photoRefs []domain.PhotoRef) (int, error) {
	collectionRepo := repository.NewCollectionRepository(e.pool)
	collection, err := collectionRepo.OwnFaceCollection(ctx, account)
	if err != nil {
		return 0, err
	}

	linked := 0
	for _, photoRef := range photoRefs {
		inserted, err := collectionRepo.UpsertItem(ctx, collection, photoRef, true)
		if err != nil {
			return linked, err
		}
		if inserted {
			linked++
		}
	}

	return linked, nil
}

// RebuildIndex reloads the claimed index from storage.
func (e *AssociationEngine) RebuildIndex(ctx context.Context) error {
	if e.index == nil {
		return nil
	}

	faceRepo := repository.NewFaceRepository(e.pool)
	faces, err := faceRepo.ListEmbeddings(ctx, domain.SearchScope{Kind: domain.ScopeClaimed})
	if err != nil {
		return err
	}

	e.index.Rebuild(faces)
	e.logger.Info("claimed index rebuilt", "faces", len(faces))
	return nil
}

// MergeCompleted keeps the index and the target's own-face collection in
// step with a committed merge. The merge itself already happened, so
// failures here are logged, not returned; Propagate can repair later.
func (e *AssociationEngine) MergeCompleted(ctx context.Context, target *domain.Person, result *domain.MergeResult) {
	if e.index != nil {
		e.index.Reassign(result.DeletedPersonIDs, target.ID)
	}

	if !target.Claimed() {
		return
	}

	linked, err := e.propagatePhotos(ctx, *target.AccountRef, result.PhotoRefs)
	if err != nil {
		e.logger.Error("post-merge propagation failed",
			"target_person_id", target.ID,
			"error", err,
		)
		return
	}

	e.logger.Info("post-merge propagation",
		"target_person_id", target.ID,
		"photos_linked", linked,
	)
}

var _ MergeCompletionHook = (*AssociationEngine)(nil)

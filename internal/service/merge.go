package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rodrigozago/sietch-faces/internal/domain"
	"github.com/rodrigozago/sietch-faces/internal/repository"
)

// MergeCompletionHook runs after a merge transaction commits. Hook failures
// must not undo the merge; implementations are expected to be idempotent and
// retryable.
type MergeCompletionHook interface {
	MergeCompleted(ctx context.Context, target *domain.Person, result *domain.MergeResult)
}

// MergeService collapses several persons into one, atomically.
type MergeService struct {
	pool   repository.TxPool
	hooks  []MergeCompletionHook
	logger *slog.Logger
}

func NewMergeService(pool repository.TxPool, logger *slog.Logger, hooks ...MergeCompletionHook) *MergeService {
	return &MergeService{
		pool:   pool,
		hooks:  hooks,
		logger: logger,
	}
}

// Merge transfers every face of the source persons to the target and deletes
// the sources, in a single transaction. Either all of it happens or none of
// it. keepName, when set, overwrites the target's name.
//
// Sources are locked together with the target in fixed id order; any id that
// does not exist aborts before mutation. Re-running an identical merge
// therefore fails on the now-missing sources instead of half-applying.
func (s *MergeService) Merge(ctx context.Context, targetID uuid.UUID, sourceIDs []uuid.UUID, keepName *string) (*domain.MergeResult, error) {
	if len(sourceIDs) == 0 {
		return nil, domain.ErrInvalidMergeRequest
	}

	seen := map[uuid.UUID]struct{}{targetID: {}}
	sources := make([]uuid.UUID, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		if id == targetID {
			return nil, domain.ErrInvalidMergeRequest
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		sources = append(sources, id)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin merge: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	persons := repository.NewPersonRepository(tx)
	faces := repository.NewFaceRepository(tx)

	all := append([]uuid.UUID{targetID}, sources...)
	locked, err := persons.LockForMerge(ctx, all)
	if err != nil {
		return nil, err
	}
	if len(locked) != len(all) {
		if !containsID(locked, targetID) {
			return nil, domain.ErrPersonNotFound
		}
		return nil, domain.ErrInvalidMergeRequest
	}

	target, err := persons.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	// Photo refs are collected before the reassignment so the completion
	// hooks see exactly the photos that changed hands.
	photoRefs, err := faces.ListPhotoRefsByPersons(ctx, sources)
	if err != nil {
		return nil, err
	}

	transferred, err := faces.ReassignPerson(ctx, sources, targetID)
	if err != nil {
		return nil, err
	}

	if keepName != nil {
		if err := persons.UpdateName(ctx, targetID, keepName); err != nil {
			return nil, err
		}
	}

	for _, sourceID := range sources {
		if err := persons.Delete(ctx, sourceID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit merge: %w", err)
	}

	result := &domain.MergeResult{
		TargetPersonID:   targetID,
		FacesTransferred: transferred,
		DeletedPersonIDs: sources,
		PhotoRefs:        photoRefs,
	}

	s.logger.Info("persons merged",
		"target_person_id", targetID,
		"faces_transferred", transferred,
		"sources_deleted", len(sources),
	)

	for _, hook := range s.hooks {
		hook.MergeCompleted(ctx, target, result)
	}

	return result, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

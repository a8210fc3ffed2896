package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rodrigozago/sietch-faces/internal/clustering"
	"github.com/rodrigozago/sietch-faces/internal/domain"
	"github.com/rodrigozago/sietch-faces/internal/repository"
)

// ClusterService partitions unidentified faces into identity clusters and
// can materialize each cluster into a new anonymous person.
type ClusterService struct {
	pool          repository.TxPool
	defaultParams clustering.Params
	logger        *slog.Logger
}

func NewClusterService(pool repository.TxPool, defaultParams clustering.Params, logger *slog.Logger) *ClusterService {
	return &ClusterService{
		pool:          pool,
		defaultParams: defaultParams,
		logger:        logger,
	}
}

// Cluster groups the in-scope faces. Zero-valued params fall back to the
// configured defaults. With materialize set, every cluster containing at
// least one unassigned face becomes a new anonymous person and its
// unassigned faces are attached to it, all within one transaction. Faces
// that already belong to a person are never reassigned here; that is what
// merge is for.
func (s *ClusterService) Cluster(ctx context.Context, scope domain.SearchScope, params clustering.Params, materialize bool) (*domain.ClusterResult, error) {
	if !scope.Valid() {
		return nil, domain.ErrBadRequest
	}
	if params.Eps <= 0 {
		params.Eps = s.defaultParams.Eps
	}
	if params.MinSamples < 1 {
		params.MinSamples = s.defaultParams.MinSamples
	}

	faceRepo := repository.NewFaceRepository(s.pool)
	faces, err := faceRepo.ListEmbeddings(ctx, scope)
	if err != nil {
		return nil, err
	}

	result, err := clustering.Cluster(faces, params)
	if err != nil {
		return nil, err
	}

	s.logger.Info("faces clustered",
		"scope", string(scope.Kind),
		"faces", len(faces),
		"clusters", len(result.Clusters),
		"noise", len(result.Noise),
	)

	if !materialize || len(result.Clusters) == 0 {
		return result, nil
	}

	if err := s.materialize(ctx, faces, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *ClusterService) materialize(ctx context.Context, faces []domain.FaceEmbedding, result *domain.ClusterResult) error {
	assigned := map[string]bool{}
	for _, face := range faces {
		assigned[face.FaceID.String()] = face.PersonID != nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin materialize: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	personRepo := repository.NewPersonRepository(tx)
	faceRepo := repository.NewFaceRepository(tx)

	created := 0
	for i := range result.Clusters {
		cluster := &result.Clusters[i]

		free := cluster.FaceIDs[:0:0]
		for _, faceID := range cluster.FaceIDs {
			if !assigned[faceID.String()] {
				free = append(free, faceID)
			}
		}
		if len(free) == 0 {
			continue
		}

		person := &domain.Person{}
		if err := personRepo.Create(ctx, person); err != nil {
			return err
		}
		for _, faceID := range free {
			if err := faceRepo.AssignPerson(ctx, faceID, person.ID); err != nil {
				return err
			}
		}

		cluster.PersonID = &person.ID
		created++
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit materialize: %w", err)
	}

	s.logger.Info("clusters materialized", "persons_created", created)
	return nil
}

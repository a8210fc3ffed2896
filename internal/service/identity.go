package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

// Propagator retroactively links a claimed person's photos into their
// own-face collection.
type Propagator interface {
	Propagate(ctx context.Context, personID uuid.UUID) (int, error)
}

// IdentityService covers the person and face lifecycle around the
// association pipeline: CRUD, claiming, and the bookkeeping that keeps the
// store free of dangling references.
type IdentityService struct {
	personRepo     PersonRepositoryInterface
	faceRepo       FaceRepositoryInterface
	collectionRepo CollectionRepositoryInterface
	propagator     Propagator
	index          *ClaimedIndex
	logger         *slog.Logger
}

func NewIdentityService(
	personRepo PersonRepositoryInterface,
	faceRepo FaceRepositoryInterface,
	collectionRepo CollectionRepositoryInterface,
	propagator Propagator,
	index *ClaimedIndex,
	logger *slog.Logger,
) *IdentityService {
	return &IdentityService{
		personRepo:     personRepo,
		faceRepo:       faceRepo,
		collectionRepo: collectionRepo,
		propagator:     propagator,
		index:          index,
		logger:         logger,
	}
}

func (s *IdentityService) CreatePerson(ctx context.Context, name *string) (*domain.Person, error) {
	person := &domain.Person{Name: name}
	if err := s.personRepo.Create(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

func (s *IdentityService) GetPerson(ctx context.Context, id uuid.UUID) (*domain.Person, []domain.Face, error) {
	person, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	faces, err := s.faceRepo.ListByPerson(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return person, faces, nil
}

func (s *IdentityService) ListPersons(ctx context.Context, limit, offset int) ([]domain.Person, error) {
	return s.personRepo.List(ctx, limit, offset)
}

func (s *IdentityService) RenamePerson(ctx context.Context, id uuid.UUID, name *string) error {
	return s.personRepo.UpdateName(ctx, id, name)
}

// DeletePerson removes a person and, through the cascade, all their faces.
func (s *IdentityService) DeletePerson(ctx context.Context, id uuid.UUID) error {
	faces, err := s.faceRepo.ListByPerson(ctx, id)
	if err != nil {
		return err
	}

	if err := s.personRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.index != nil {
		for _, face := range faces {
			s.index.Remove(face.ID)
		}
	}

	s.logger.Info("person deleted", "person_id", id, "faces_removed", len(faces))
	return nil
}

// ClaimPerson links a person to an owning account, registers the account's
// own-face collection, and retroactively propagates the person's photos into
// it.
func (s *IdentityService) ClaimPerson(ctx context.Context, personID uuid.UUID, account domain.AccountRef, collection domain.CollectionRef) (int, error) {
	if err := s.personRepo.Claim(ctx, personID, account); err != nil {
		return 0, err
	}
	if err := s.collectionRepo.SetOwnFaceCollection(ctx, account, collection); err != nil {
		return 0, err
	}

	linked, err := s.propagator.Propagate(ctx, personID)
	if err != nil {
		return 0, err
	}

	if s.index != nil {
		faces, err := s.faceRepo.ListEmbeddings(ctx, domain.SearchScope{Kind: domain.ScopePerson, PersonID: personID})
		if err != nil {
			return linked, err
		}
		for _, face := range faces {
			s.index.Add(face.FaceID, personID, face.Embedding)
		}
	}

	s.logger.Info("person claimed",
		"person_id", personID,
		"account_ref", account,
		"photos_linked", linked,
	)
	return linked, nil
}

func (s *IdentityService) GetFace(ctx context.Context, id uuid.UUID) (*domain.Face, error) {
	return s.faceRepo.GetByID(ctx, id)
}

func (s *IdentityService) ListFaces(ctx context.Context, limit, offset int) ([]domain.Face, error) {
	return s.faceRepo.List(ctx, limit, offset)
}

func (s *IdentityService) ListFacesByPerson(ctx context.Context, personID uuid.UUID) ([]domain.Face, error) {
	if _, err := s.personRepo.GetByID(ctx, personID); err != nil {
		return nil, err
	}
	return s.faceRepo.ListByPerson(ctx, personID)
}

// DeleteFace removes a face. When it was the person's last face, the
// now-empty person goes with it; an identity with no observations is not
// kept around.
func (s *IdentityService) DeleteFace(ctx context.Context, id uuid.UUID) error {
	face, err := s.faceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.faceRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.index != nil {
		s.index.Remove(id)
	}

	if face.PersonID != nil {
		deleted, err := s.personRepo.DeleteIfEmpty(ctx, *face.PersonID)
		if err != nil {
			return err
		}
		if deleted {
			s.logger.Info("empty person removed", "person_id", *face.PersonID)
		}
	}

	return nil
}

// Stats aggregates store-wide counters.
func (s *IdentityService) Stats(ctx context.Context) (*domain.EngineStats, error) {
	persons, err := s.personRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	faces, err := s.faceRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	unassigned, err := s.faceRepo.CountUnassigned(ctx)
	if err != nil {
		return nil, err
	}
	largestID, largestSize, err := s.personRepo.Largest(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.EngineStats{
		TotalPersons:      persons,
		TotalFaces:        faces,
		UnassignedFaces:   unassigned,
		LargestPersonID:   largestID,
		LargestPersonSize: largestSize,
	}
	if persons > 0 {
		stats.AvgFacesPerPerson = float64(faces-unassigned) / float64(persons)
	}

	return stats, nil
}

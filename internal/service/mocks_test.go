package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rodrigozago/sietch-faces/internal/domain"
	"github.com/rodrigozago/sietch-faces/internal/provider"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) Create(ctx context.Context, person *domain.Person) error {
	args := m.Called(ctx, person)
	return args.Error(0)
}

func (m *MockPersonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Person), args.Error(1)
}

func (m *MockPersonRepository) GetByAccountRef(ctx context.Context, account domain.AccountRef) (*domain.Person, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Person), args.Error(1)
}

func (m *MockPersonRepository) List(ctx context.Context, limit, offset int) ([]domain.Person, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Person), args.Error(1)
}

func (m *MockPersonRepository) UpdateName(ctx context.Context, id uuid.UUID, name *string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockPersonRepository) Claim(ctx context.Context, id uuid.UUID, account domain.AccountRef) error {
	args := m.Called(ctx, id, account)
	return args.Error(0)
}

func (m *MockPersonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPersonRepository) DeleteIfEmpty(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPersonRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPersonRepository) Largest(ctx context.Context) (*uuid.UUID, int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*uuid.UUID), args.Int(1), args.Error(2)
}

type MockFaceRepository struct {
	mock.Mock
}

func (m *MockFaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Face, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Face), args.Error(1)
}

func (m *MockFaceRepository) List(ctx context.Context, limit, offset int) ([]domain.Face, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Face), args.Error(1)
}

func (m *MockFaceRepository) ListByPerson(ctx context.Context, personID uuid.UUID) ([]domain.Face, error) {
	args := m.Called(ctx, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Face), args.Error(1)
}

func (m *MockFaceRepository) ListEmbeddings(ctx context.Context, scope domain.SearchScope) ([]domain.FaceEmbedding, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FaceEmbedding), args.Error(1)
}

func (m *MockFaceRepository) SearchByEmbedding(ctx context.Context, embedding []float64, scope domain.SearchScope, threshold float64, limit int) ([]domain.SearchMatch, error) {
	args := m.Called(ctx, embedding, scope, threshold, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchMatch), args.Error(1)
}

func (m *MockFaceRepository) ListPhotoRefsByPersons(ctx context.Context, personIDs []uuid.UUID) ([]domain.PhotoRef, error) {
	args := m.Called(ctx, personIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PhotoRef), args.Error(1)
}

func (m *MockFaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFaceRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockFaceRepository) CountUnassigned(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) OwnFaceCollection(ctx context.Context, account domain.AccountRef) (domain.CollectionRef, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(domain.CollectionRef), args.Error(1)
}

func (m *MockCollectionRepository) SetOwnFaceCollection(ctx context.Context, account domain.AccountRef, collection domain.CollectionRef) error {
	args := m.Called(ctx, account, collection)
	return args.Error(0)
}

func (m *MockCollectionRepository) UpsertItem(ctx context.Context, collection domain.CollectionRef, photo domain.PhotoRef, autoAdded bool) (bool, error) {
	args := m.Called(ctx, collection, photo, autoAdded)
	return args.Bool(0), args.Error(1)
}

func (m *MockCollectionRepository) ListItems(ctx context.Context, collection domain.CollectionRef) ([]domain.PhotoRef, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PhotoRef), args.Error(1)
}

type MockDetector struct {
	mock.Mock
}

func (m *MockDetector) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.DetectedFace), args.Error(1)
}

type MockPropagator struct {
	mock.Mock
}

func (m *MockPropagator) Propagate(ctx context.Context, personID uuid.UUID) (int, error) {
	args := m.Called(ctx, personID)
	return args.Int(0), args.Error(1)
}

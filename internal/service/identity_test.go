package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

func newIdentityService(personRepo *MockPersonRepository, faceRepo *MockFaceRepository, collectionRepo *MockCollectionRepository, propagator *MockPropagator, index *ClaimedIndex) *IdentityService {
	return NewIdentityService(personRepo, faceRepo, collectionRepo, propagator, index, testLogger())
}

func TestIdentityService_ClaimPerson(t *testing.T) {
	personID := uuid.New()
	account := domain.NewAccountRef(uuid.New())
	collection := domain.NewCollectionRef(uuid.New())
	faceID := uuid.New()

	personRepo := new(MockPersonRepository)
	collectionRepo := new(MockCollectionRepository)
	faceRepo := new(MockFaceRepository)
	propagator := new(MockPropagator)
	index := NewClaimedIndex()

	personRepo.On("Claim", mock.Anything, personID, account).Return(nil)
	collectionRepo.On("SetOwnFaceCollection", mock.Anything, account, collection).Return(nil)
	propagator.On("Propagate", mock.Anything, personID).Return(3, nil)
	faceRepo.On("ListEmbeddings", mock.Anything, domain.SearchScope{Kind: domain.ScopePerson, PersonID: personID}).
		Return([]domain.FaceEmbedding{
			{FaceID: faceID, PersonID: &personID, Embedding: []float64{1, 0, 0}},
		}, nil)

	svc := newIdentityService(personRepo, faceRepo, collectionRepo, propagator, index)
	linked, err := svc.ClaimPerson(context.Background(), personID, account, collection)

	require.NoError(t, err)
	assert.Equal(t, 3, linked)
	assert.Equal(t, 1, index.Len())

	personRepo.AssertExpectations(t)
	collectionRepo.AssertExpectations(t)
	propagator.AssertExpectations(t)
	faceRepo.AssertExpectations(t)
}

func TestIdentityService_ClaimPerson_AlreadyClaimed(t *testing.T) {
	personID := uuid.New()
	account := domain.NewAccountRef(uuid.New())
	collection := domain.NewCollectionRef(uuid.New())

	personRepo := new(MockPersonRepository)
	personRepo.On("Claim", mock.Anything, personID, account).Return(domain.ErrAccountAlreadyClaimed)

	svc := newIdentityService(personRepo, new(MockFaceRepository), new(MockCollectionRepository), new(MockPropagator), nil)
	_, err := svc.ClaimPerson(context.Background(), personID, account, collection)

	assert.ErrorIs(t, err, domain.ErrAccountAlreadyClaimed)
	personRepo.AssertExpectations(t)
}

func TestIdentityService_DeleteFace_RemovesEmptyPerson(t *testing.T) {
	faceID := uuid.New()
	personID := uuid.New()

	faceRepo := new(MockFaceRepository)
	personRepo := new(MockPersonRepository)
	index := NewClaimedIndex()
	index.Add(faceID, personID, []float64{1, 0, 0})

	faceRepo.On("GetByID", mock.Anything, faceID).
		Return(&domain.Face{ID: faceID, PersonID: &personID}, nil)
	faceRepo.On("Delete", mock.Anything, faceID).Return(nil)
	personRepo.On("DeleteIfEmpty", mock.Anything, personID).Return(true, nil)

	svc := newIdentityService(personRepo, faceRepo, new(MockCollectionRepository), new(MockPropagator), index)
	err := svc.DeleteFace(context.Background(), faceID)

	require.NoError(t, err)
	assert.Equal(t, 0, index.Len())
	faceRepo.AssertExpectations(t)
	personRepo.AssertExpectations(t)
}

func TestIdentityService_DeleteFace_UnassignedFace(t *testing.T) {
	faceID := uuid.New()

	faceRepo := new(MockFaceRepository)
	personRepo := new(MockPersonRepository)

	faceRepo.On("GetByID", mock.Anything, faceID).
		Return(&domain.Face{ID: faceID}, nil)
	faceRepo.On("Delete", mock.Anything, faceID).Return(nil)

	svc := newIdentityService(personRepo, faceRepo, new(MockCollectionRepository), new(MockPropagator), nil)
	err := svc.DeleteFace(context.Background(), faceID)

	require.NoError(t, err)
	faceRepo.AssertExpectations(t)
	personRepo.AssertNotCalled(t, "DeleteIfEmpty", mock.Anything, mock.Anything)
}

func TestIdentityService_DeletePerson_PurgesIndex(t *testing.T) {
	personID := uuid.New()
	face1 := uuid.New()
	face2 := uuid.New()

	faceRepo := new(MockFaceRepository)
	personRepo := new(MockPersonRepository)
	index := NewClaimedIndex()
	index.Add(face1, personID, []float64{1, 0, 0})
	index.Add(face2, personID, []float64{0, 1, 0})

	faceRepo.On("ListByPerson", mock.Anything, personID).
		Return([]domain.Face{{ID: face1, PersonID: &personID}, {ID: face2, PersonID: &personID}}, nil)
	personRepo.On("Delete", mock.Anything, personID).Return(nil)

	svc := newIdentityService(personRepo, faceRepo, new(MockCollectionRepository), new(MockPropagator), index)
	err := svc.DeletePerson(context.Background(), personID)

	require.NoError(t, err)
	assert.Equal(t, 0, index.Len())
	faceRepo.AssertExpectations(t)
	personRepo.AssertExpectations(t)
}

func TestIdentityService_ListFacesByPerson_UnknownPerson(t *testing.T) {
	personID := uuid.New()

	personRepo := new(MockPersonRepository)
	personRepo.On("GetByID", mock.Anything, personID).Return(nil, domain.ErrPersonNotFound)

	svc := newIdentityService(personRepo, new(MockFaceRepository), new(MockCollectionRepository), new(MockPropagator), nil)
	_, err := svc.ListFacesByPerson(context.Background(), personID)

	assert.ErrorIs(t, err, domain.ErrPersonNotFound)
}

func TestIdentityService_Stats(t *testing.T) {
	largest := uuid.New()

	personRepo := new(MockPersonRepository)
	faceRepo := new(MockFaceRepository)

	personRepo.On("Count", mock.Anything).Return(4, nil)
	faceRepo.On("Count", mock.Anything).Return(10, nil)
	faceRepo.On("CountUnassigned", mock.Anything).Return(2, nil)
	personRepo.On("Largest", mock.Anything).Return(&largest, 5, nil)

	svc := newIdentityService(personRepo, faceRepo, new(MockCollectionRepository), new(MockPropagator), nil)
	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalPersons)
	assert.Equal(t, 10, stats.TotalFaces)
	assert.Equal(t, 2, stats.UnassignedFaces)
	assert.InDelta(t, 2.0, stats.AvgFacesPerPerson, 1e-9)
	assert.Equal(t, &largest, stats.LargestPersonID)
	assert.Equal(t, 5, stats.LargestPersonSize)
}

func TestIdentityService_Stats_EmptyStore(t *testing.T) {
	personRepo := new(MockPersonRepository)
	faceRepo := new(MockFaceRepository)

	personRepo.On("Count", mock.Anything).Return(0, nil)
	faceRepo.On("Count", mock.Anything).Return(0, nil)
	faceRepo.On("CountUnassigned", mock.Anything).Return(0, nil)
	personRepo.On("Largest", mock.Anything).Return(nil, 0, nil)

	svc := newIdentityService(personRepo, faceRepo, new(MockCollectionRepository), new(MockPropagator), nil)
	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Zero(t, stats.AvgFacesPerPerson)
	assert.Nil(t, stats.LargestPersonID)
}

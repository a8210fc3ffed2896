package service

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

func TestSearchService_FindSimilar(t *testing.T) {
	faceID := uuid.New()
	personID := uuid.New()

	tests := []struct {
		name       string
		query      []float64
		scope      domain.SearchScope
		threshold  float64
		setupMocks func(fr *MockFaceRepository)
		wantErr    error
		wantCount  int
	}{
		{
			name:      "successful search",
			query:     []float64{3, 4, 0},
			scope:     domain.SearchScope{Kind: domain.ScopeAll},
			threshold: 0.6,
			setupMocks: func(fr *MockFaceRepository) {
				fr.On("SearchByEmbedding", mock.Anything, mock.MatchedBy(func(v []float64) bool {
					// Query must be normalized before it reaches storage.
					var norm float64
					for _, x := range v {
						norm += x * x
					}
					return math.Abs(math.Sqrt(norm)-1.0) < 1e-9
				}), domain.SearchScope{Kind: domain.ScopeAll}, 0.6, 20).
					Return([]domain.SearchMatch{
						{FaceID: faceID, PersonID: &personID, Similarity: 0.92},
					}, nil)
				fr.On("Count", mock.Anything).Return(7, nil)
			},
			wantCount: 1,
		},
		{
			name:      "dimension mismatch",
			query:     []float64{1, 2},
			scope:     domain.SearchScope{Kind: domain.ScopeAll},
			threshold: 0.6,
			wantErr:   domain.ErrDimensionMismatch,
		},
		{
			name:      "threshold out of range",
			query:     []float64{1, 0, 0},
			scope:     domain.SearchScope{Kind: domain.ScopeAll},
			threshold: 1.5,
			wantErr:   domain.ErrInvalidThreshold,
		},
		{
			name:      "invalid scope",
			query:     []float64{1, 0, 0},
			scope:     domain.SearchScope{Kind: domain.ScopePerson},
			threshold: 0.6,
			wantErr:   domain.ErrBadRequest,
		},
		{
			name:      "zero query vector",
			query:     []float64{0, 0, 0},
			scope:     domain.SearchScope{Kind: domain.ScopeAll},
			threshold: 0.6,
			wantErr:   domain.ErrDegenerateVector,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			faceRepo := new(MockFaceRepository)
			personRepo := new(MockPersonRepository)
			if tt.setupMocks != nil {
				tt.setupMocks(faceRepo)
			}

			svc := NewSearchService(faceRepo, personRepo, 3, 0.5, 20)
			result, err := svc.FindSimilar(context.Background(), tt.query, tt.scope, tt.threshold, 0)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Len(t, result.Matches, tt.wantCount)
			assert.Equal(t, 7, result.TotalFaces)
			faceRepo.AssertExpectations(t)
		})
	}
}

func TestSearchService_SuggestMerges(t *testing.T) {
	queryPerson := uuid.New()
	duplicate := uuid.New()
	stranger := uuid.New()
	name := "Jessica"

	faceRepo := new(MockFaceRepository)
	personRepo := new(MockPersonRepository)

	own := []domain.FaceEmbedding{
		{FaceID: uuid.New(), PersonID: &queryPerson, Embedding: []float64{1, 0, 0}},
	}
	all := []domain.FaceEmbedding{
		own[0],
		// Near-parallel to the query person's face: a likely duplicate.
		{FaceID: uuid.New(), PersonID: &duplicate, Embedding: []float64{0.995, 0.0998, 0}},
		// Orthogonal: unrelated.
		{FaceID: uuid.New(), PersonID: &stranger, Embedding: []float64{0, 1, 0}},
	}

	faceRepo.On("ListEmbeddings", mock.Anything, domain.SearchScope{Kind: domain.ScopePerson, PersonID: queryPerson}).
		Return(own, nil)
	faceRepo.On("ListEmbeddings", mock.Anything, domain.SearchScope{Kind: domain.ScopeAll}).
		Return(all, nil)
	personRepo.On("GetByID", mock.Anything, duplicate).
		Return(&domain.Person{ID: duplicate, Name: &name}, nil)

	svc := NewSearchService(faceRepo, personRepo, 3, 0.5, 20)
	suggestions, err := svc.SuggestMerges(context.Background(), queryPerson, 10)

	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, duplicate, suggestions[0].PersonID)
	assert.Equal(t, &name, suggestions[0].Name)
	assert.Greater(t, suggestions[0].Similarity, 0.9)
	assert.Equal(t, 1, suggestions[0].FaceCount)

	faceRepo.AssertExpectations(t)
	personRepo.AssertExpectations(t)
}

func TestSearchService_SuggestMerges_PersonWithoutFaces(t *testing.T) {
	personID := uuid.New()

	faceRepo := new(MockFaceRepository)
	personRepo := new(MockPersonRepository)

	faceRepo.On("ListEmbeddings", mock.Anything, domain.SearchScope{Kind: domain.ScopePerson, PersonID: personID}).
		Return([]domain.FaceEmbedding{}, nil)
	personRepo.On("GetByID", mock.Anything, personID).
		Return(&domain.Person{ID: personID}, nil)

	svc := NewSearchService(faceRepo, personRepo, 3, 0.5, 20)
	suggestions, err := svc.SuggestMerges(context.Background(), personID, 10)

	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSearchService_SuggestMerges_UnknownPerson(t *testing.T) {
	personID := uuid.New()

	faceRepo := new(MockFaceRepository)
	personRepo := new(MockPersonRepository)

	faceRepo.On("ListEmbeddings", mock.Anything, mock.Anything).
		Return([]domain.FaceEmbedding{}, nil)
	personRepo.On("GetByID", mock.Anything, personID).
		Return(nil, domain.ErrPersonNotFound)

	svc := NewSearchService(faceRepo, personRepo, 3, 0.5, 20)
	_, err := svc.SuggestMerges(context.Background(), personID, 10)

	assert.ErrorIs(t, err, domain.ErrPersonNotFound)
}

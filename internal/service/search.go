package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rodrigozago/sietch-faces/internal/domain"
	"github.com/rodrigozago/sietch-faces/internal/embedding"
)

// SearchService answers similarity queries over the stored faces.
type SearchService struct {
	faceRepo         FaceRepositoryInterface
	personRepo       PersonRepositoryInterface
	embeddingDim     int
	suggestThreshold float64
	defaultLimit     int
}

func NewSearchService(faceRepo FaceRepositoryInterface, personRepo PersonRepositoryInterface, embeddingDim int, suggestThreshold float64, defaultLimit int) *SearchService {
	return &SearchService{
		faceRepo:         faceRepo,
		personRepo:       personRepo,
		embeddingDim:     embeddingDim,
		suggestThreshold: suggestThreshold,
		defaultLimit:     defaultLimit,
	}
}

// FindSimilar ranks in-scope faces by cosine similarity against the query
// embedding. The query is normalized before searching; results come back
// ordered by similarity, ties broken by face id.
func (s *SearchService) FindSimilar(ctx context.Context, query []float64, scope domain.SearchScope, threshold float64, limit int) (*domain.SearchResult, error) {
	start := time.Now()

	if len(query) != s.embeddingDim {
		return nil, domain.ErrDimensionMismatch
	}
	if threshold < -1 || threshold > 1 {
		return nil, domain.ErrInvalidThreshold
	}
	if !scope.Valid() {
		return nil, domain.ErrBadRequest
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	normalized, err := embedding.Normalize(query)
	if err != nil {
		return nil, err
	}

	matches, err := s.faceRepo.SearchByEmbedding(ctx, normalized, scope, threshold, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.faceRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.SearchResult{
		Matches:    matches,
		TotalFaces: total,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}

// SuggestMerges ranks other persons as likely duplicates of the given one.
// Each candidate is scored by the maximum pairwise similarity between its
// faces and the query person's faces; candidates below the suggest threshold
// are dropped.
func (s *SearchService) SuggestMerges(ctx context.Context, personID uuid.UUID, limit int) ([]domain.MergeSuggestion, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	own, err := s.faceRepo.ListEmbeddings(ctx, domain.SearchScope{Kind: domain.ScopePerson, PersonID: personID})
	if err != nil {
		return nil, err
	}
	if len(own) == 0 {
		// Distinguish an absent person from one with no faces.
		if _, err := s.personRepo.GetByID(ctx, personID); err != nil {
			return nil, err
		}
		return []domain.MergeSuggestion{}, nil
	}

	all, err := s.faceRepo.ListEmbeddings(ctx, domain.SearchScope{Kind: domain.ScopeAll})
	if err != nil {
		return nil, err
	}

	best := map[uuid.UUID]float64{}
	counts := map[uuid.UUID]int{}
	for _, candidate := range all {
		if candidate.PersonID == nil || *candidate.PersonID == personID {
			continue
		}
		counts[*candidate.PersonID]++

		for _, mine := range own {
			sim, err := embedding.Similarity(mine.Embedding, candidate.Embedding)
			if err != nil {
				return nil, err
			}
			if sim > best[*candidate.PersonID] {
				best[*candidate.PersonID] = sim
			}
		}
	}

	suggestions := []domain.MergeSuggestion{}
	for candidateID, sim := range best {
		if sim < s.suggestThreshold {
			continue
		}
		person, err := s.personRepo.GetByID(ctx, candidateID)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, domain.MergeSuggestion{
			PersonID:   candidateID,
			Name:       person.Name,
			Similarity: sim,
			FaceCount:  counts[candidateID],
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Similarity != suggestions[j].Similarity {
			return suggestions[i].Similarity > suggestions[j].Similarity
		}
		return suggestions[i].PersonID.String() < suggestions[j].PersonID.String()
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	return suggestions, nil
}

package service

import (
	"sync"

	"github.com/coder/hnsw"
	"github.com/google/uuid"

	"github.com/rodrigozago/sietch-faces/internal/domain"
	"github.com/rodrigozago/sietch-faces/internal/embedding"
)

// indexMaxNeighbors is the HNSW M parameter.
const indexMaxNeighbors = 16

// IndexMatch is one approximate nearest-neighbor hit from the claimed index.
type IndexMatch struct {
	FaceID     uuid.UUID
	PersonID   uuid.UUID
	Similarity float64
}

// ClaimedIndex is an in-memory HNSW index over the faces of claimed persons.
// It accelerates the claimed-match lookup on upload; the SQL scan stays the
// authoritative search surface. HNSW has no true delete, so removals only
// drop the face from the lookup map and search results are filtered through
// it.
type ClaimedIndex struct {
	mu           sync.RWMutex
	graph        *hnsw.Graph[string]
	personByFace map[string]uuid.UUID
}

func NewClaimedIndex() *ClaimedIndex {
	return &ClaimedIndex{
		personByFace: make(map[string]uuid.UUID),
	}
}

func newGraph() *hnsw.Graph[string] {
	g := hnsw.NewGraph[string]()
	g.M = indexMaxNeighbors
	g.Ml = 1.0 / float64(indexMaxNeighbors)
	g.Distance = hnsw.CosineDistance
	return g
}

// Rebuild replaces the index contents with the given claimed-face embeddings.
// Faces without a person are skipped.
func (i *ClaimedIndex) Rebuild(faces []domain.FaceEmbedding) {
	i.mu.Lock()
	defer i.mu.Unlock()

	g := newGraph()
	i.personByFace = make(map[string]uuid.UUID, len(faces))

	for _, face := range faces {
		if face.PersonID == nil || len(face.Embedding) == 0 {
			continue
		}
		key := face.FaceID.String()
		g.Add(hnsw.MakeNode(key, embedding.ToFloat32(face.Embedding)))
		i.personByFace[key] = *face.PersonID
	}

	i.graph = g
}

// Add indexes a single face.
func (i *ClaimedIndex) Add(faceID, personID uuid.UUID, vector []float64) {
	if len(vector) == 0 {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.graph == nil {
		i.graph = newGraph()
	}

	key := faceID.String()
	i.graph.Add(hnsw.MakeNode(key, embedding.ToFloat32(vector)))
	i.personByFace[key] = personID
}

// Search returns up to k nearest faces with their persons, best first.
// Removed faces are filtered out, so fewer than k hits may come back.
func (i *ClaimedIndex) Search(vector []float64, k int) []IndexMatch {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.graph == nil || len(i.personByFace) == 0 {
		return nil
	}

	query := embedding.ToFloat32(vector)
	neighbors := i.graph.Search(query, k)

	matches := make([]IndexMatch, 0, len(neighbors))
	for _, n := range neighbors {
		personID, ok := i.personByFace[n.Key]
		if !ok {
			continue
		}
		faceID, err := uuid.Parse(n.Key)
		if err != nil {
			continue
		}
		sim, err := embedding.Similarity(vector, embedding.FromFloat32(n.Value))
		if err != nil {
			continue
		}
		matches = append(matches, IndexMatch{
			FaceID:     faceID,
			PersonID:   personID,
			Similarity: sim,
		})
	}

	return matches
}

// Reassign remaps the faces of the source persons onto the target, keeping
// the index consistent with a committed merge.
func (i *ClaimedIndex) Reassign(fromPersonIDs []uuid.UUID, toPersonID uuid.UUID) {
	from := make(map[uuid.UUID]struct{}, len(fromPersonIDs))
	for _, id := range fromPersonIDs {
		from[id] = struct{}{}
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	for key, personID := range i.personByFace {
		if _, ok := from[personID]; ok {
			i.personByFace[key] = toPersonID
		}
	}
}

// Remove drops a face from search results.
func (i *ClaimedIndex) Remove(faceID uuid.UUID) {
	i.mu.Lock()
	defer i.mu.Unlock()

	delete(i.personByFace, faceID.String())
}

// Len returns the number of live entries.
func (i *ClaimedIndex) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return len(i.personByFace)
}

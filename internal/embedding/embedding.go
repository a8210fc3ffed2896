// Package embedding holds the pure vector math the engine runs on face
// embeddings. All comparisons assume L2-normalized vectors, so cosine
// similarity reduces to a dot product. Threshold checks everywhere use a
// plain >= with no epsilon.
package embedding

import (
	"math"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

// degenerateNorm is the cutoff below which a vector cannot be normalized.
const degenerateNorm = 1e-10

// Similarity returns the cosine similarity of two equal-length vectors,
// in [-1, 1]. Vectors of differing lengths are a caller bug.
func Similarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, domain.ErrDimensionMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA < degenerateNorm || normB < degenerateNorm {
		return 0, domain.ErrDegenerateVector
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Distance returns the cosine distance 1 - similarity(a, b), the metric
// clustering runs on. Embeddings are directionally meaningful, so cosine
// distance is used instead of Euclidean.
func Distance(a, b []float64) (float64, error) {
	sim, err := Similarity(a, b)
	if err != nil {
		return 0, err
	}
	return 1 - sim, nil
}

// Normalize returns a copy of v scaled to unit length.
func Normalize(v []float64) ([]float64, error) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}

	norm := math.Sqrt(sum)
	if norm < degenerateNorm {
		return nil, domain.ErrDegenerateVector
	}

	normalized := make([]float64, len(v))
	for i, x := range v {
		normalized[i] = x / norm
	}
	return normalized, nil
}

// Dot returns the dot product of two equal-length vectors. For normalized
// vectors this equals their cosine similarity.
func Dot(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, domain.ErrDimensionMismatch
	}

	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot, nil
}

// BatchSimilarity scores a query vector against many candidates. The
// result has one entry per candidate, in the candidates' order.
func BatchSimilarity(query []float64, candidates [][]float64) ([]float64, error) {
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		sim, err := Similarity(query, c)
		if err != nil {
			return nil, err
		}
		scores[i] = sim
	}
	return scores, nil
}

// ToFloat32 converts an embedding for consumers that work on float32
// vectors (pgvector storage, the in-memory index).
func ToFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

// FromFloat32 converts a float32 vector back to the engine's float64
// representation.
func FromFloat32(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

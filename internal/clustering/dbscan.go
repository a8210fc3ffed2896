// Package clustering groups face embeddings into identity clusters using
// DBSCAN over cosine distance.
package clustering

import (
	"bytes"
	"sort"

	"github.com/google/uuid"

	"github.com/rodrigozago/sietch-faces/internal/domain"
	"github.com/rodrigozago/sietch-faces/internal/embedding"
)

// Params controls the density criterion. Eps is the maximum cosine
// distance (1 - similarity) between neighbors; MinSamples is the minimum
// neighborhood size to seed a cluster. Two photos of the same person
// should already form a group, hence the default of 2.
type Params struct {
	Eps        float64
	MinSamples int
}

// DefaultParams mirrors the service configuration defaults. The values
// are tuning constants for the embedding model in use, not semantically
// meaningful cutoffs.
func DefaultParams() Params {
	return Params{Eps: 0.4, MinSamples: 2}
}

const (
	labelUndefined = 0
	labelNoise     = -1
)

// Cluster partitions the given faces into identity clusters and noise.
// Faces that do not meet the density criterion are reported as noise,
// distinct from any numbered cluster. The partition is deterministic for
// a given input set and parameters: points are visited in face-id order,
// so insertion order never changes the result.
func Cluster(faces []domain.FaceEmbedding, params Params) (*domain.ClusterResult, error) {
	result := &domain.ClusterResult{
		Clusters: []domain.Cluster{},
		Noise:    []uuid.UUID{},
	}
	if len(faces) == 0 {
		return result, nil
	}

	points := make([]domain.FaceEmbedding, len(faces))
	copy(points, faces)
	sort.Slice(points, func(i, j int) bool {
		return bytes.Compare(points[i].FaceID[:], points[j].FaceID[:]) < 0
	})

	dim := len(points[0].Embedding)
	for _, p := range points {
		if len(p.Embedding) != dim {
			return nil, domain.ErrDimensionMismatch
		}
	}

	labels, err := run(points, params)
	if err != nil {
		return nil, err
	}

	byCluster := map[int][]int{}
	for i, label := range labels {
		if label == labelNoise {
			result.Noise = append(result.Noise, points[i].FaceID)
			continue
		}
		byCluster[label] = append(byCluster[label], i)
	}

	clusterIDs := make([]int, 0, len(byCluster))
	for id := range byCluster {
		clusterIDs = append(clusterIDs, id)
	}
	sort.Ints(clusterIDs)

	for _, id := range clusterIDs {
		members := byCluster[id]
		cluster := domain.Cluster{
			ID:      id,
			FaceIDs: make([]uuid.UUID, 0, len(members)),
			Size:    len(members),
		}
		for _, idx := range members {
			cluster.FaceIDs = append(cluster.FaceIDs, points[idx].FaceID)
		}

		medoid, avgSim, err := summarize(points, members)
		if err != nil {
			return nil, err
		}
		cluster.Medoid = medoid
		cluster.AvgSimilarity = avgSim

		result.Clusters = append(result.Clusters, cluster)
	}

	return result, nil
}

// run executes DBSCAN over the sorted point set and returns one label per
// point: 1..n for clusters, labelNoise for unassigned points.
func run(points []domain.FaceEmbedding, params Params) ([]int, error) {
	n := len(points)
	labels := make([]int, n)
	clusterID := 0

	for i := 0; i < n; i++ {
		if labels[i] != labelUndefined {
			continue
		}

		neighbors, err := rangeQuery(points, i, params.Eps)
		if err != nil {
			return nil, err
		}
		if len(neighbors) < params.MinSamples {
			labels[i] = labelNoise
			continue
		}

		clusterID++
		labels[i] = clusterID

		seed := make([]int, 0, len(neighbors))
		for _, j := range neighbors {
			if j != i {
				seed = append(seed, j)
			}
		}

		for len(seed) > 0 {
			q := seed[0]
			seed = seed[1:]

			if labels[q] == labelNoise {
				labels[q] = clusterID
			}
			if labels[q] != labelUndefined {
				continue
			}
			labels[q] = clusterID

			qNeighbors, err := rangeQuery(points, q, params.Eps)
			if err != nil {
				return nil, err
			}
			if len(qNeighbors) >= params.MinSamples {
				seed = append(seed, qNeighbors...)
			}
		}
	}

	return labels, nil
}

// rangeQuery returns the indices of all points within eps cosine distance
// of points[idx], including the point itself.
func rangeQuery(points []domain.FaceEmbedding, idx int, eps float64) ([]int, error) {
	var neighbors []int
	q := points[idx].Embedding
	for i, p := range points {
		dist, err := embedding.Distance(q, p.Embedding)
		if err != nil {
			return nil, err
		}
		if dist <= eps {
			neighbors = append(neighbors, i)
		}
	}
	return neighbors, nil
}

// summarize picks the medoid (the member with the highest average
// similarity to all others) and the average intra-cluster similarity.
func summarize(points []domain.FaceEmbedding, members []int) (uuid.UUID, float64, error) {
	if len(members) == 1 {
		return points[members[0]].FaceID, 1.0, nil
	}

	bestIdx := members[0]
	bestAvg := -2.0
	var total float64
	var pairs int

	for _, i := range members {
		var sum float64
		for _, j := range members {
			if i == j {
				continue
			}
			sim, err := embedding.Similarity(points[i].Embedding, points[j].Embedding)
			if err != nil {
				return uuid.Nil, 0, err
			}
			sum += sim
			if i < j {
				total += sim
				pairs++
			}
		}
		avg := sum / float64(len(members)-1)
		if avg > bestAvg {
			bestAvg = avg
			bestIdx = i
		}
	}

	return points[bestIdx].FaceID, total / float64(pairs), nil
}

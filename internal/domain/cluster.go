package domain

import (
	"github.com/google/uuid"
)

// Cluster is one group of faces the clustering engine believes belong to
// the same individual.
type Cluster struct {
	ID            int         `json:"id"`
	FaceIDs       []uuid.UUID `json:"face_ids"`
	Size          int         `json:"size"`
	Medoid        uuid.UUID   `json:"medoid"`
	AvgSimilarity float64     `json:"avg_similarity"`
	// PersonID is set when the cluster was materialized into a person.
	PersonID *uuid.UUID `json:"person_id,omitempty"`
}

// ClusterResult is the full partition: numbered clusters plus noise.
// Noise faces did not meet the density criterion and belong to no cluster;
// callers must not treat them as one-face clusters.
type ClusterResult struct {
	Clusters []Cluster   `json:"clusters"`
	Noise    []uuid.UUID `json:"noise"`
}

// ClusterStats summarizes a partition for ranking and UI.
type ClusterStats struct {
	TotalClusters  int     `json:"total_clusters"`
	FacesClustered int     `json:"faces_clustered"`
	MinClusterSize int     `json:"min_cluster_size"`
	MaxClusterSize int     `json:"max_cluster_size"`
	AvgClusterSize float64 `json:"avg_cluster_size"`
}

// Stats computes summary statistics over the partition.
func (r *ClusterResult) Stats() ClusterStats {
	stats := ClusterStats{TotalClusters: len(r.Clusters)}
	for _, c := range r.Clusters {
		stats.FacesClustered += c.Size
		if stats.MinClusterSize == 0 || c.Size < stats.MinClusterSize {
			stats.MinClusterSize = c.Size
		}
		if c.Size > stats.MaxClusterSize {
			stats.MaxClusterSize = c.Size
		}
	}
	if len(r.Clusters) > 0 {
		stats.AvgClusterSize = float64(stats.FacesClustered) / float64(len(r.Clusters))
	}
	return stats
}

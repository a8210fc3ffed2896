package domain

import (
	"time"

	"github.com/google/uuid"
)

// BoundingBox is the axis-aligned face area in the source image, in pixels.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Face is one detected face instance. Immutable after creation except for
// PersonID, which is reassigned by matching, clustering, or merge.
type Face struct {
	ID         uuid.UUID   `json:"id"`
	PersonID   *uuid.UUID  `json:"person_id,omitempty"`
	Embedding  []float64   `json:"-"`
	Box        BoundingBox `json:"bbox"`
	Confidence float64     `json:"confidence"`
	PhotoRef   PhotoRef    `json:"photo_ref"`
	DetectedAt time.Time   `json:"detected_at"`
}

// FaceEmbedding is the slim projection used by clustering and in-memory
// similarity work: just the identity linkage and the vector.
type FaceEmbedding struct {
	FaceID    uuid.UUID
	PersonID  *uuid.UUID
	PhotoRef  PhotoRef
	Embedding []float64
}

package domain

import (
	"github.com/google/uuid"
)

// EngineStats is an aggregate snapshot of the identity store.
type EngineStats struct {
	TotalPersons      int        `json:"total_persons"`
	TotalFaces        int        `json:"total_faces"`
	UnassignedFaces   int        `json:"unassigned_faces"`
	AvgFacesPerPerson float64    `json:"avg_faces_per_person"`
	LargestPersonID   *uuid.UUID `json:"largest_person_id,omitempty"`
	LargestPersonSize int        `json:"largest_person_size"`
}

package domain

import (
	"github.com/google/uuid"
)

// PropagationResult reports which collections a photo was associated with.
// A photo legitimately appears in many collections: the uploader's plus one
// per distinct identified person.
type PropagationResult struct {
	PhotoRef         PhotoRef        `json:"photo_ref"`
	Faces            []Face          `json:"faces"`
	MatchedPersonIDs []uuid.UUID     `json:"matched_person_ids"`
	AddedCollections []CollectionRef `json:"added_collections"`
}

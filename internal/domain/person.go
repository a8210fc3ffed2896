package domain

import (
	"time"

	"github.com/google/uuid"
)

// Person is an identity: a named or anonymous cluster of faces believed to
// be the same individual. A non-nil AccountRef means the identity has been
// claimed by an account.
type Person struct {
	ID         uuid.UUID   `json:"id"`
	Name       *string     `json:"name,omitempty"`
	AccountRef *AccountRef `json:"account_ref,omitempty"`
	FaceCount  int         `json:"face_count"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Claimed reports whether the person is linked to an owning account.
func (p *Person) Claimed() bool {
	return p.AccountRef != nil
}

// MergeResult summarizes a completed person merge.
type MergeResult struct {
	TargetPersonID   uuid.UUID   `json:"target_person_id"`
	FacesTransferred int         `json:"faces_transferred"`
	DeletedPersonIDs []uuid.UUID `json:"deleted_person_ids"`
	PhotoRefs        []PhotoRef  `json:"-"`
}

// MergeSuggestion ranks another person as a likely duplicate of a query
// person, scored by the maximum pairwise face similarity.
type MergeSuggestion struct {
	PersonID   uuid.UUID `json:"person_id"`
	Name       *string   `json:"name,omitempty"`
	Similarity float64   `json:"similarity"`
	FaceCount  int       `json:"face_count"`
}

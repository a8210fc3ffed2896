package domain

import (
	"github.com/google/uuid"
)

// ScopeKind selects which faces a similarity search runs over.
type ScopeKind string

const (
	// ScopeAll searches every stored face.
	ScopeAll ScopeKind = "all"
	// ScopeClaimed searches faces whose person is linked to an account.
	ScopeClaimed ScopeKind = "claimed"
	// ScopeUnclaimed searches faces with no person or an unclaimed person.
	ScopeUnclaimed ScopeKind = "unclaimed"
	// ScopeAssigned searches faces that belong to any person.
	ScopeAssigned ScopeKind = "assigned"
	// ScopePerson searches the faces of a single person.
	ScopePerson ScopeKind = "person"
)

// SearchScope is a filter over the candidate set, not an index structure.
type SearchScope struct {
	Kind     ScopeKind
	PersonID uuid.UUID // only for ScopePerson
}

func (s SearchScope) Valid() bool {
	switch s.Kind {
	case ScopeAll, ScopeClaimed, ScopeUnclaimed, ScopeAssigned:
		return true
	case ScopePerson:
		return s.PersonID != uuid.Nil
	}
	return false
}

// SearchMatch is one ranked similarity hit.
type SearchMatch struct {
	FaceID     uuid.UUID  `json:"face_id"`
	PersonID   *uuid.UUID `json:"person_id,omitempty"`
	Similarity float64    `json:"similarity"`
}

// SearchResult is the complete search response.
type SearchResult struct {
	Matches    []SearchMatch `json:"matches"`
	TotalFaces int           `json:"total_faces"`
	LatencyMs  int64         `json:"latency_ms"`
}

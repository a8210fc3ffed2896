package domain

import (
	"github.com/google/uuid"
)

// External references are typed wrappers so an account id can never be
// passed where a photo id is expected. The engine carries them through
// without interpreting them.

// PhotoRef identifies a photo in the surrounding application.
type PhotoRef struct {
	uuid.UUID
}

// AccountRef identifies an owning account in the surrounding application.
type AccountRef struct {
	uuid.UUID
}

// CollectionRef identifies a user-owned collection (album).
type CollectionRef struct {
	uuid.UUID
}

func NewPhotoRef(id uuid.UUID) PhotoRef           { return PhotoRef{id} }
func NewAccountRef(id uuid.UUID) AccountRef       { return AccountRef{id} }
func NewCollectionRef(id uuid.UUID) CollectionRef { return CollectionRef{id} }

func ParsePhotoRef(s string) (PhotoRef, error) {
	id, err := uuid.Parse(s)
	return PhotoRef{id}, err
}

func ParseAccountRef(s string) (AccountRef, error) {
	id, err := uuid.Parse(s)
	return AccountRef{id}, err
}

func ParseCollectionRef(s string) (CollectionRef, error) {
	id, err := uuid.Parse(s)
	return CollectionRef{id}, err
}

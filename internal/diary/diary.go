package diary

import (
	"errors"
	"strings"
	"time"
)

// PlaceholderContent is persisted when the LLM call fails or returns nothing.
// The entry is still created; the owner can edit the text later.
const PlaceholderContent = "AIが自動生成する"

var ErrNotFound = errors.New("diary: record not found")

// Record is one pet diary entry. ID and Author are fixed at creation.
// Optional fields are persisted as absent, not as empty strings.
type Record struct {
	ID                 string    `json:"id"`
	Author             string    `json:"author"`
	PetName            string    `json:"petName,omitempty"`
	ImageURL           string    `json:"imageUrl"`
	CreatedAt          time.Time `json:"createdAt"`
	Content            string    `json:"content"`
	PetCharacteristics string    `json:"petCharacteristics,omitempty"`
	FirstPersonPronoun string    `json:"firstPersonPronoun,omitempty"`
}

// Normalize trims optional fields so that whitespace-only values collapse
// to unset before persistence.
func (r *Record) Normalize() {
	r.PetName = strings.TrimSpace(r.PetName)
	r.PetCharacteristics = strings.TrimSpace(r.PetCharacteristics)
	r.FirstPersonPronoun = strings.TrimSpace(r.FirstPersonPronoun)
}

// Store abstracts persistence of the full diary collection.
// ReadAll returns an empty slice when nothing has been persisted yet.
// WriteAll replaces the whole collection. Implementations must be safe
// for concurrent use.
type Store interface {
	ReadAll() ([]Record, error)
	WriteAll(records []Record) error
}

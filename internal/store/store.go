package store

import (
	"fmt"

	"github.com/google/uuid"
)

// FieldID is the key under which a stored document carries its identifier.
// It never leaves the process: Serialize renames it to "id" for the wire.
const FieldID = "_id"

// Document is a schemaless record stored under a collection name.
type Document map[string]any

// DocID is the store-assigned document identifier, a canonical UUID string.
type DocID string

func NewDocID() DocID {
	return DocID(uuid.NewString())
}

// ParseDocID reports whether s is a syntactically well-formed identifier.
// Callers validate ids with it before issuing lookups.
func ParseDocID(s string) (DocID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid document id %q: %w", s, err)
	}

	return DocID(u.String()), nil
}

func (id DocID) String() string {
	return string(id)
}

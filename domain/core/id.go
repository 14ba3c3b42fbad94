package core

import (
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific identifier types.
//
// ModelID is a DepMap cell-line identifier (e.g. "ACH-000001"); it indexes
// fitness-matrix columns, expression-matrix rows, and annotation rows.
// GeneKey is a gene column/row label as it appears in the source matrices,
// typically "SYMBOL (EntrezID)".
type (
	RunID   ID
	ModelID string
	GeneKey string
)

func (id RunID) String() string   { return ID(id).String() }
func (id ModelID) String() string { return string(id) }
func (g GeneKey) String() string  { return string(g) }

// Symbol strips the trailing " (EntrezID)" annotation from a gene key,
// returning the bare HGNC symbol.
func (g GeneKey) Symbol() string {
	s := string(g)
	if i := strings.Index(s, " ("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// DiseaseLabel is an OncotreePrimaryDisease annotation value.
type DiseaseLabel string

func (d DiseaseLabel) String() string { return string(d) }

// Matches reports whether two labels refer to the same disease.
// Matching is case-insensitive exact, never fuzzy.
func (d DiseaseLabel) Matches(other DiseaseLabel) bool {
	return strings.EqualFold(string(d), string(other))
}

// FileSlug returns the label in a form safe for use inside a file name.
func (d DiseaseLabel) FileSlug() string {
	return strings.ReplaceAll(string(d), "/", "_")
}

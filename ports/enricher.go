package ports

import (
	"context"
)

// EnrichmentTerm is one functional term returned by an enrichment service.
type EnrichmentTerm struct {
	Source           string  `json:"source"`            // e.g. "GO:BP", "KEGG"
	TermID           string  `json:"native"`            // e.g. "GO:0002376"
	Name             string  `json:"name"`              // human-readable term name
	PValue           float64 `json:"p_value"`           // adjusted by the service
	TermSize         int     `json:"term_size"`         // genes in the term
	IntersectionSize int     `json:"intersection_size"` // query genes in the term
}

// Enricher queries a gene-set enrichment service for one gene list.
// Implementations are thin; failures are reported per call and callers are
// expected to log and continue rather than abort the run.
type Enricher interface {
	Profile(ctx context.Context, query []string) ([]EnrichmentTerm, error)
}

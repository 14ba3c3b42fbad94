package ports

import (
	"crisprtme/domain/assoc"
)

// ResultsWriter persists pipeline outputs. The production implementation
// writes flat files (CSV plus an Excel summary workbook); tests swap in an
// in-memory writer.
type ResultsWriter interface {
	// WriteAssociationTable persists one cancer type's ranked table.
	WriteAssociationTable(t *assoc.Table) error

	// WriteSummary persists the cross-cancer summary rows.
	WriteSummary(rows []assoc.Summary) error

	// WriteNamedMatrix persists a labeled numeric matrix (Jaccard, overlap
	// counts, presence/absence) under the given base name.
	WriteNamedMatrix(name string, rowLabels, colLabels []string, data [][]float64) error

	// WriteGeneCounts persists a gene -> count ranking under the base name.
	WriteGeneCounts(name string, counts []assoc.GeneCount) error

	// WriteGeneList persists a plain one-column gene list under the base name.
	WriteGeneList(name string, genes []string) error

	// WriteEnrichment persists one enrichment query's terms under the base name.
	WriteEnrichment(name string, terms []EnrichmentTerm) error

	// WriteReport persists the run report (markdown source and rendered HTML).
	WriteReport(name string, markdown, html []byte) error
}

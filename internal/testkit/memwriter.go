package testkit

import (
	"crisprtme/domain/assoc"
	"crisprtme/ports"
)

// InMemoryWriter captures everything the pipeline persists, for assertions.
type InMemoryWriter struct {
	Tables     map[string]*assoc.Table
	Summaries  []assoc.Summary
	Matrices   map[string]NamedMatrix
	Counts     map[string][]assoc.GeneCount
	Lists      map[string][]string
	Enrichment map[string][]ports.EnrichmentTerm
	Reports    map[string][]byte

	// Fail, when non-nil, is returned from every write. Used to exercise
	// error paths.
	Fail error
}

// NamedMatrix is one captured labeled matrix.
type NamedMatrix struct {
	RowLabels []string
	ColLabels []string
	Data      [][]float64
}

var _ ports.ResultsWriter = (*InMemoryWriter)(nil)

// NewInMemoryWriter creates an empty capture writer.
func NewInMemoryWriter() *InMemoryWriter {
	return &InMemoryWriter{
		Tables:     make(map[string]*assoc.Table),
		Matrices:   make(map[string]NamedMatrix),
		Counts:     make(map[string][]assoc.GeneCount),
		Lists:      make(map[string][]string),
		Enrichment: make(map[string][]ports.EnrichmentTerm),
		Reports:    make(map[string][]byte),
	}
}

func (w *InMemoryWriter) WriteAssociationTable(t *assoc.Table) error {
	if w.Fail != nil {
		return w.Fail
	}
	w.Tables[t.Label.String()] = t
	return nil
}

func (w *InMemoryWriter) WriteSummary(rows []assoc.Summary) error {
	if w.Fail != nil {
		return w.Fail
	}
	w.Summaries = append([]assoc.Summary(nil), rows...)
	return nil
}

func (w *InMemoryWriter) WriteNamedMatrix(name string, rowLabels, colLabels []string, data [][]float64) error {
	if w.Fail != nil {
		return w.Fail
	}
	w.Matrices[name] = NamedMatrix{RowLabels: rowLabels, ColLabels: colLabels, Data: data}
	return nil
}

func (w *InMemoryWriter) WriteGeneCounts(name string, counts []assoc.GeneCount) error {
	if w.Fail != nil {
		return w.Fail
	}
	w.Counts[name] = counts
	return nil
}

func (w *InMemoryWriter) WriteGeneList(name string, genes []string) error {
	if w.Fail != nil {
		return w.Fail
	}
	w.Lists[name] = genes
	return nil
}

func (w *InMemoryWriter) WriteEnrichment(name string, terms []ports.EnrichmentTerm) error {
	if w.Fail != nil {
		return w.Fail
	}
	w.Enrichment[name] = terms
	return nil
}

func (w *InMemoryWriter) WriteReport(name string, markdown, html []byte) error {
	if w.Fail != nil {
		return w.Fail
	}
	w.Reports[name+".md"] = markdown
	w.Reports[name+".html"] = html
	return nil
}

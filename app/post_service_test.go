package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crisprtme/domain/assoc"
	"crisprtme/internal/config"
	"crisprtme/internal/results"
	"crisprtme/internal/testkit"
	"crisprtme/ports"
)

// stubEnricher records queries and returns canned terms or a fixed error.
type stubEnricher struct {
	queries [][]string
	terms   []ports.EnrichmentTerm
	err     error
}

func (s *stubEnricher) Profile(_ context.Context, query []string) ([]ports.EnrichmentTerm, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.terms, nil
}

// postTestConfig narrows the top lists so the three-record fixtures produce
// distinct positive and negative sets.
func postTestConfig() config.AnalysisConfig {
	cfg := testAnalysisConfig()
	cfg.TopOverlap = 2
	return cfg
}

// seedResultsDir persists two per-cancer tables the way the analysis pass
// would, and returns the directory.
func seedResultsDir(t *testing.T) string {
	t.Helper()
	w, err := results.NewWriter(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.WriteAssociationTable(&assoc.Table{
		Label:      "Melanoma",
		CohortSize: 30,
		Records: []assoc.Record{
			{Gene: "IFNGR1 (3459)", Rho: 0.8, PValue: 0.001, QValue: 0.004},
			{Gene: "JAK1 (3716)", Rho: 0.6, PValue: 0.004, QValue: 0.008},
			{Gene: "PTPN2 (5771)", Rho: -0.7, PValue: 0.002, QValue: 0.006},
		},
	}))
	require.NoError(t, w.WriteAssociationTable(&assoc.Table{
		Label:      "Lung Adenocarcinoma",
		CohortSize: 40,
		Records: []assoc.Record{
			{Gene: "IFNGR1 (3459)", Rho: 0.5, PValue: 0.01, QValue: 0.03},
			{Gene: "B2M (567)", Rho: 0.4, PValue: 0.02, QValue: 0.04},
			{Gene: "ADAR (103)", Rho: -0.5, PValue: 0.015, QValue: 0.035},
		},
	}))
	return w.Dir
}

func TestPostRun_OverlapAndFrequencyOutputs(t *testing.T) {
	dir := seedResultsDir(t)
	writer := testkit.NewInMemoryWriter()
	svc := NewPostService(postTestConfig(), writer, nil)

	res, err := svc.Run(context.Background(), dir)
	require.NoError(t, err)

	// Files list alphabetically, so Lung comes first
	require.Equal(t, []string{"Lung Adenocarcinoma", "Melanoma"}, res.Cancers)
	assert.Equal(t, []string{"IFNGR1", "JAK1"}, res.TopPositive["Melanoma"], "descending by coefficient")
	assert.Equal(t, "PTPN2", res.TopNegative["Melanoma"][0], "most negative first")

	jaccard, ok := writer.Matrices["Jaccard_Positive_Matrix"]
	require.True(t, ok)
	assert.Equal(t, res.Cancers, jaccard.RowLabels)
	assert.InDelta(t, 1.0, jaccard.Data[0][0], 1e-12)
	// Positive lists share IFNGR1 out of {IFNGR1, JAK1, B2M}
	assert.InDelta(t, 1.0/3.0, jaccard.Data[0][1], 1e-12)
	assert.InDelta(t, jaccard.Data[0][1], jaccard.Data[1][0], 1e-12, "matrix is symmetric")

	overlap, ok := writer.Matrices["Overlap_Count_Positive"]
	require.True(t, ok)
	assert.Equal(t, 1.0, overlap.Data[0][1])

	counts, ok := writer.Counts["Global_Top_Positive_Genes"]
	require.True(t, ok)
	require.NotEmpty(t, counts)
	assert.Equal(t, assoc.GeneCount{Symbol: "IFNGR1", Count: 2}, counts[0])

	presence, ok := writer.Matrices["Presence_Absence_Positive"]
	require.True(t, ok)
	assert.Equal(t, "IFNGR1", presence.RowLabels[0])
	assert.Equal(t, res.Cancers, presence.ColLabels)
	assert.Equal(t, []float64{1, 1}, presence.Data[0])
}

func TestPostRun_EnrichmentPerCancerAndDirection(t *testing.T) {
	dir := seedResultsDir(t)
	writer := testkit.NewInMemoryWriter()
	enricher := &stubEnricher{terms: []ports.EnrichmentTerm{
		{Source: "GO:BP", TermID: "GO:0002376", Name: "immune system process", PValue: 1e-8},
	}}
	svc := NewPostService(postTestConfig(), writer, enricher)

	res, err := svc.Run(context.Background(), dir)
	require.NoError(t, err)

	// Two cancers, both directions populated
	assert.Equal(t, 4, res.EnrichmentQueries)
	assert.Equal(t, 0, res.EnrichmentFailed)
	assert.Contains(t, writer.Enrichment, "Enrichment_Positive_Melanoma")
	assert.Contains(t, writer.Enrichment, "Enrichment_Negative_Lung Adenocarcinoma")
	assert.Equal(t, enricher.terms, writer.Enrichment["Enrichment_Positive_Melanoma"])

	// Queries run in a fixed order: per cancer alphabetically, positive
	// before negative
	require.Equal(t, [][]string{
		{"IFNGR1", "B2M"},  // Lung positive
		{"ADAR", "B2M"},    // Lung negative
		{"IFNGR1", "JAK1"}, // Melanoma positive
		{"PTPN2", "JAK1"},  // Melanoma negative
	}, enricher.queries)
}

func TestPostRun_EnrichmentFailuresAreContained(t *testing.T) {
	dir := seedResultsDir(t)
	writer := testkit.NewInMemoryWriter()
	enricher := &stubEnricher{err: assert.AnError}
	svc := NewPostService(postTestConfig(), writer, enricher)

	res, err := svc.Run(context.Background(), dir)
	require.NoError(t, err, "a failing enrichment service must not abort the pass")
	assert.Equal(t, 4, res.EnrichmentQueries)
	assert.Equal(t, 4, res.EnrichmentFailed)
	assert.Empty(t, writer.Enrichment)

	// The overlap outputs are still produced
	assert.Contains(t, writer.Matrices, "Jaccard_Positive_Matrix")
	assert.Contains(t, writer.Counts, "Global_Top_Positive_Genes")
}

func TestPostRun_EmptyResultsDirIsError(t *testing.T) {
	svc := NewPostService(testAnalysisConfig(), testkit.NewInMemoryWriter(), nil)
	_, err := svc.Run(context.Background(), t.TempDir())
	require.Error(t, err)
}

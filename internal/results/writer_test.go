package results

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crisprtme/domain/assoc"
	"crisprtme/domain/core"
)

func TestAssociationTable_RoundTrip(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	table := &assoc.Table{
		Label:      "Ovarian Epithelial Tumor",
		CohortSize: 40,
		Records: []assoc.Record{
			{Gene: "TP53 (7157)", Rho: -0.62, PValue: 0.00001, QValue: 0.0004, NegLog10P: 5},
			{Gene: "MYC (4609)", Rho: 0.31, PValue: 0.02, QValue: 0.12, NegLog10P: 1.698},
			{Gene: "ZC3H3 (23144)", Rho: math.NaN(), PValue: math.NaN(), QValue: math.NaN()},
		},
	}
	require.NoError(t, w.WriteAssociationTable(table))

	files, err := ListAssociationTables(w.Dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "CRISPR_TME_Ovarian Epithelial Tumor_Results.csv", filepath.Base(files[0]))

	got, err := ReadAssociationTable(files[0])
	require.NoError(t, err)
	assert.Equal(t, table.Label, got.Label)
	require.Len(t, got.Records, 3)
	assert.Equal(t, table.Records[0].Gene, got.Records[0].Gene)
	assert.InDelta(t, -0.62, got.Records[0].Rho, 1e-12)
	assert.InDelta(t, 0.0004, got.Records[0].QValue, 1e-12)
	assert.True(t, math.IsNaN(got.Records[2].Rho), "NaN survives as empty cell")
}

func TestWriteAssociationTable_SanitizesSlashInLabel(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	table := &assoc.Table{
		Label:   "Acute Myeloid Leukemia/MDS",
		Records: []assoc.Record{{Gene: "FLT3 (2322)", Rho: 0.4, PValue: 0.01, QValue: 0.05}},
	}
	require.NoError(t, w.WriteAssociationTable(table))

	_, err = os.Stat(filepath.Join(w.Dir, "CRISPR_TME_Acute Myeloid Leukemia_MDS_Results.csv"))
	require.NoError(t, err)
}

func TestWriteSummary_ProducesCSVAndWorkbook(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.WriteSummary([]assoc.Summary{
		{
			Label:       "Melanoma",
			NModels:     48,
			TopPositive: []core.GeneKey{"A (1)", "B (2)"},
			TopNegative: []core.GeneKey{"C (3)"},
		},
	}))

	_, err = os.Stat(filepath.Join(w.Dir, "Cancerwise_Summary.csv"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(w.Dir, "Cancerwise_Summary.xlsx"))
	require.NoError(t, err)
}

func TestWriteNamedMatrixAndGeneCounts_RoundTrip(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.WriteNamedMatrix("Jaccard_Positive_Matrix",
		[]string{"A", "B"}, []string{"A", "B"},
		[][]float64{{1, 0.25}, {0.25, 1}}))
	_, err = os.Stat(filepath.Join(w.Dir, "Jaccard_Positive_Matrix.csv"))
	require.NoError(t, err)

	counts := []assoc.GeneCount{{Symbol: "TP53", Count: 7}, {Symbol: "MYC", Count: 3}}
	require.NoError(t, w.WriteGeneCounts("Global_Top_Positive_Genes", counts))

	got, err := ReadGeneCounts(filepath.Join(w.Dir, "Global_Top_Positive_Genes.csv"))
	require.NoError(t, err)
	assert.Equal(t, counts, got)
}

package assoc

import (
	"math"
	"sort"

	"crisprtme/domain/core"
)

// Record is one gene's association with the immune proxy inside one cohort.
// A record only exists when the gene had at least the minimum number of
// paired non-missing observations; skipped genes leave no record.
type Record struct {
	Gene       core.GeneKey `json:"gene"`
	Rho        float64      `json:"spearman_r"` // Spearman rank correlation
	PValue     float64      `json:"p"`          // raw two-sided p-value
	QValue     float64      `json:"fdr"`        // BH-adjusted, per cancer type
	NegLog10P  float64      `json:"neg_log10_p"`
	SampleSize int          `json:"sample_size"` // paired observations used
}

// Table holds the full association table for one cancer type. Tables are
// independent across cancer types; FDR correction never pools them.
type Table struct {
	Label      core.DiseaseLabel `json:"label"`
	CohortSize int               `json:"cohort_size"`
	CohortHash core.CohortHash   `json:"cohort_hash"`
	Records    []Record          `json:"records"`
}

// IsEmpty reports whether the table produced no records.
func (t *Table) IsEmpty() bool {
	return len(t.Records) == 0
}

// SortByQValue orders records ascending by adjusted p-value, NaN last.
// This is the persistence order.
func (t *Table) SortByQValue() {
	sort.SliceStable(t.Records, func(i, j int) bool {
		return lessNaNLast(t.Records[i].QValue, t.Records[j].QValue)
	})
}

// TopPositive returns up to k gene keys with the largest coefficients.
// NaN coefficients never rank.
func (t *Table) TopPositive(k int) []core.GeneKey {
	return t.topBy(k, func(a, b Record) bool {
		return lessNaNLast(b.Rho, a.Rho) // descending
	})
}

// TopNegative returns up to k gene keys with the smallest coefficients.
func (t *Table) TopNegative(k int) []core.GeneKey {
	return t.topBy(k, func(a, b Record) bool {
		return lessNaNLast(a.Rho, b.Rho) // ascending
	})
}

func (t *Table) topBy(k int, less func(a, b Record) bool) []core.GeneKey {
	ranked := make([]Record, 0, len(t.Records))
	for _, r := range t.Records {
		if !math.IsNaN(r.Rho) {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	if k > len(ranked) {
		k = len(ranked)
	}
	genes := make([]core.GeneKey, k)
	for i := 0; i < k; i++ {
		genes[i] = ranked[i].Gene
	}
	return genes
}

// lessNaNLast orders ascending with NaN sorted after every real value.
func lessNaNLast(a, b float64) bool {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	if aNaN {
		return false
	}
	if bNaN {
		return true
	}
	return a < b
}

// Summary is the one-row-per-cancer digest of a table: cohort size plus the
// top positive and negative association genes. A cancer type with an empty
// table gets no summary row.
type Summary struct {
	Label       core.DiseaseLabel `json:"label"`
	NModels     int               `json:"n_models"`
	TopPositive []core.GeneKey    `json:"top_positive"`
	TopNegative []core.GeneKey    `json:"top_negative"`
}

// NewSummary digests a non-empty table into its summary row. Returns nil
// for an empty table.
func NewSummary(t *Table, topK int) *Summary {
	if t.IsEmpty() {
		return nil
	}
	return &Summary{
		Label:       t.Label,
		NModels:     t.CohortSize,
		TopPositive: t.TopPositive(topK),
		TopNegative: t.TopNegative(topK),
	}
}

package immune

import (
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"crisprtme/domain/core"
)

// MarkerPanel is the fixed immune-activity marker set. The per-sample mean
// expression over this panel is the immune proxy score.
var MarkerPanel = []string{
	"CD274", "CXCL9", "CXCL10", "STAT1", "IRF1",
	"HLA-A", "HLA-B", "B2M", "TAP1", "TGFB1",
}

// MatchPanel returns the expression columns whose name contains any marker
// as a substring, in column order.
//
// Substring matching can pull in unintended genes whose names merely contain
// a marker (e.g. "HLA-B" also matches "HLA-B (3106)"-adjacent pseudogenes).
// That looseness is inherited from the upstream marker definition; callers
// log the matched panel so over-matches are visible.
func MatchPanel(columns []core.GeneKey) []core.GeneKey {
	matched := make([]core.GeneKey, 0, len(MarkerPanel))
	for _, col := range columns {
		name := string(col)
		for _, marker := range MarkerPanel {
			if strings.Contains(name, marker) {
				matched = append(matched, col)
				break
			}
		}
	}
	return matched
}

// ProxyScores computes the immune proxy for each sample row: the unweighted
// mean of the non-missing panel values in that row. A row with no usable
// panel values scores NaN.
//
// rows is sample-major: rows[i][j] is sample i's expression of panel gene j.
func ProxyScores(rows [][]float64) []float64 {
	scores := make([]float64, len(rows))
	for i, row := range rows {
		valid := make([]float64, 0, len(row))
		for _, v := range row {
			if !math.IsNaN(v) {
				valid = append(valid, v)
			}
		}
		if len(valid) == 0 {
			scores[i] = math.NaN()
			continue
		}
		mean, err := stats.Mean(valid)
		if err != nil {
			scores[i] = math.NaN()
			continue
		}
		scores[i] = mean
	}
	return scores
}

package stats

import (
	"math"

	mfstats "github.com/montanaflynn/stats"
)

// VectorProfile captures data characteristics of one vector that affect
// interpretation of its correlations: missingness and spread.
type VectorProfile struct {
	N           int     `json:"n"`
	Missing     int     `json:"missing"`
	MissingRate float64 `json:"missing_rate"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	Variance    float64 `json:"variance"`
}

// HighMissingThreshold flags vectors whose correlations deserve a warning.
const HighMissingThreshold = 0.30

// HighMissing reports whether the vector's missing rate clears the warning
// threshold.
func (p VectorProfile) HighMissing() bool {
	return p.MissingRate > HighMissingThreshold
}

// Constant reports whether the non-missing values have no spread, which
// makes rank correlation undefined.
func (p VectorProfile) Constant() bool {
	return p.N-p.Missing > 0 && p.Variance == 0
}

// Profile summarizes a vector's quality. Summary statistics cover the
// non-missing values only; an all-missing vector profiles as NaN throughout.
func Profile(values []float64) VectorProfile {
	prof := VectorProfile{N: len(values)}

	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			prof.Missing++
			continue
		}
		valid = append(valid, v)
	}
	if prof.N > 0 {
		prof.MissingRate = float64(prof.Missing) / float64(prof.N)
	}

	if len(valid) == 0 {
		prof.Mean = math.NaN()
		prof.Median = math.NaN()
		prof.Variance = math.NaN()
		return prof
	}

	prof.Mean, _ = mfstats.Mean(valid)
	prof.Median, _ = mfstats.Median(valid)
	prof.Variance, _ = mfstats.PopulationVariance(valid)
	return prof
}

package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinPairedObservations is the smallest number of paired non-missing
// observations for which a correlation is reported at all.
const MinPairedObservations = 5

// PairedComplete drops positions where either vector is missing and returns
// the aligned remainder. Inputs must be the same length.
func PairedComplete(x, y []float64) (xs, ys []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

// Spearman computes the rank correlation coefficient between two complete
// vectors and its two-sided p-value.
//
// Rho is the Pearson correlation of tie-averaged ranks, which handles ties
// correctly where the classical 6Σd² shortcut does not. The p-value uses the
// t approximation with n-2 degrees of freedom. A constant vector has zero
// rank variance, so rho and p come back NaN and propagate to the caller.
func Spearman(x, y []float64) (rho, p float64) {
	n := len(x)
	if n != len(y) || n < 3 {
		return math.NaN(), math.NaN()
	}

	rho = stat.Correlation(Ranks(x), Ranks(y), nil)
	if math.IsNaN(rho) {
		return math.NaN(), math.NaN()
	}

	// Clamp for floating point drift before the t transform
	if rho > 1 {
		rho = 1
	} else if rho < -1 {
		rho = -1
	}

	if rho == 1 || rho == -1 {
		return rho, 0
	}

	df := float64(n - 2)
	t := rho * math.Sqrt(df/(1-rho*rho))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * tDist.CDF(-math.Abs(t))
	if p > 1 {
		p = 1
	}
	return rho, p
}

// Ranks converts values to 1-based ranks, averaging ties.
func Ranks(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return []float64{}
	}

	type pair struct {
		value float64
		index int
	}

	pairs := make([]pair, n)
	for i, val := range data {
		pairs[i] = pair{value: val, index: i}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)

	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}

		// Tied values share the average of the ranks they span
		groupSize := j - i
		avgRank := float64(i+1) + float64(groupSize-1)/2.0
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}

		i = j
	}

	return ranks
}

package stats

import (
	"math"
	"sort"
)

// BenjaminiHochberg applies the BH false-discovery-rate step-up procedure to
// one family of raw p-values and returns the adjusted values in input order.
//
// The adjusted value for the i-th smallest p is min over j >= i of
// p_(j) * m / j, clamped to 1, which makes q-values monotonically
// non-decreasing along the raw-p order. NaN inputs stay NaN and do not count
// toward m. Each cancer type is its own family; families are never pooled.
func BenjaminiHochberg(pvalues []float64) []float64 {
	adjusted := make([]float64, len(pvalues))

	order := make([]int, 0, len(pvalues))
	for i, p := range pvalues {
		if math.IsNaN(p) {
			adjusted[i] = math.NaN()
			continue
		}
		order = append(order, i)
	}

	m := len(order)
	if m == 0 {
		return adjusted
	}

	sort.SliceStable(order, func(a, b int) bool {
		return pvalues[order[a]] < pvalues[order[b]]
	})

	// Step-up pass from the largest p: running minimum of p*m/rank
	minSoFar := 1.0
	for i := m - 1; i >= 0; i-- {
		rank := i + 1
		q := pvalues[order[i]] * float64(m) / float64(rank)
		if q < minSoFar {
			minSoFar = q
		}
		adjusted[order[i]] = minSoFar
	}

	return adjusted
}

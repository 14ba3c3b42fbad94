package assoc

import (
	"sort"
)

// GeneCount is a gene symbol with the number of cancer types whose top list
// contains it.
type GeneCount struct {
	Symbol string `json:"gene"`
	Count  int    `json:"count"`
}

// CountAcross tallies how many of the given per-cancer gene lists contain
// each symbol. Repeats inside one list count once. The result is sorted by
// count descending, then symbol ascending for a stable order.
func CountAcross(lists [][]string) []GeneCount {
	counts := make(map[string]int)
	for _, list := range lists {
		seen := make(map[string]struct{}, len(list))
		for _, g := range list {
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			counts[g]++
		}
	}

	out := make([]GeneCount, 0, len(counts))
	for g, c := range counts {
		out = append(out, GeneCount{Symbol: g, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// Jaccard computes |A∩B| / |A∪B| for two gene lists. Two empty lists have
// similarity zero.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, g := range a {
		setA[g] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, g := range b {
		setB[g] = struct{}{}
	}

	intersection := 0
	for g := range setA {
		if _, ok := setB[g]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// OverlapCount computes |A∩B| for two gene lists.
func OverlapCount(a, b []string) int {
	setA := make(map[string]struct{}, len(a))
	for _, g := range a {
		setA[g] = struct{}{}
	}
	count := 0
	seen := make(map[string]struct{}, len(b))
	for _, g := range b {
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		if _, ok := setA[g]; ok {
			count++
		}
	}
	return count
}

package cohort

import (
	"sort"

	"crisprtme/domain/core"
)

// DefaultMinSize is the smallest cohort worth testing. Below this the
// per-gene rank correlations are too unstable to rank.
const DefaultMinSize = 25

// Cohort is the set of models shared by the fitness matrix, the expression
// matrix, and the annotation rows carrying one disease label.
type Cohort struct {
	Label   core.DiseaseLabel `json:"label"`
	Members []core.ModelID    `json:"members"` // sorted, deduplicated
	Hash    core.CohortHash   `json:"hash"`
}

// Size returns the number of member models.
func (c *Cohort) Size() int {
	return len(c.Members)
}

// Selector intersects the three model universes for a disease label.
type Selector struct {
	MinSize int
}

// NewSelector creates a selector with the given minimum cohort size.
// A non-positive minimum falls back to DefaultMinSize.
func NewSelector(minSize int) *Selector {
	if minSize <= 0 {
		minSize = DefaultMinSize
	}
	return &Selector{MinSize: minSize}
}

// Select builds the cohort for one disease label from the three sources:
// fitness-matrix columns, expression-matrix rows, and the annotated models
// already filtered to the label. The returned member list is sorted and
// deduplicated, so identical inputs always yield an identical cohort.
//
// The second return value reports whether the cohort meets MinSize. A short
// cohort is still returned (for logging its size); callers skip it.
func (s *Selector) Select(label core.DiseaseLabel, fitnessModels, expressionModels, annotatedModels []core.ModelID) (*Cohort, bool) {
	inFitness := toSet(fitnessModels)
	inExpression := toSet(expressionModels)

	seen := make(map[core.ModelID]struct{})
	members := make([]core.ModelID, 0)
	for _, m := range annotatedModels {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		if _, ok := inFitness[m]; !ok {
			continue
		}
		if _, ok := inExpression[m]; !ok {
			continue
		}
		members = append(members, m)
	}

	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })

	c := &Cohort{
		Label:   label,
		Members: members,
		Hash:    core.ComputeCohortHash(label, members),
	}
	return c, len(members) >= s.MinSize
}

func toSet(ids []core.ModelID) map[core.ModelID]struct{} {
	set := make(map[core.ModelID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

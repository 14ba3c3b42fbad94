package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"crisprtme/adapters/depmap"
	"crisprtme/domain/core"
)

// Kit builds deterministic synthetic DepMap-style fixtures.
type Kit struct {
	rng    *rand.Rand
	nextID int
}

// New creates a kit seeded for reproducible fixtures.
func New(seed int64) *Kit {
	return &Kit{rng: rand.New(rand.NewSource(seed)), nextID: 1}
}

// CancerSpec declares one synthetic cancer type and its cohort size.
type CancerSpec struct {
	Label string
	N     int
}

// Dataset bundles the three synthetic input tables plus the per-model
// immune signal the fixtures were generated around.
type Dataset struct {
	Model      *depmap.ModelTable
	Fitness    *depmap.FitnessMatrix
	Expression *depmap.ExpressionMatrix

	// Signal holds the latent immune level per model. Gene fixtures are
	// derived from it.
	Signal map[core.ModelID]float64
}

// Fixture gene keys, in fitness-matrix row order.
const (
	GenePositive = core.GeneKey("FRIEND1 (101)") // tracks the immune signal
	GeneNegative = core.GeneKey("FOE1 (102)")    // perfectly anti-correlated
	GeneNoisy    = core.GeneKey("NOISE1 (103)")  // independent of the signal
	GeneSparse   = core.GeneKey("SPARSE1 (104)") // nearly all missing
)

// MarkerColumn is the single expression column the marker panel matches.
const MarkerColumn = core.GeneKey("CD274 (29126)")

// BystanderColumn is an expression column the panel must not match.
const BystanderColumn = core.GeneKey("ZZZ3 (26009)")

// BuildDataset generates aligned fixtures for the given cancer types. Every
// model appears in all three tables, so cohort size equals spec N.
func (k *Kit) BuildDataset(specs []CancerSpec) *Dataset {
	model := depmap.NewModelTable()
	var models []core.ModelID
	signal := make(map[core.ModelID]float64)

	for _, spec := range specs {
		for i := 0; i < spec.N; i++ {
			id := k.newModelID()
			model.Add(id, core.DiseaseLabel(spec.Label))
			models = append(models, id)
			signal[id] = k.rng.NormFloat64()
		}
	}

	fitness := k.buildFitness(models, signal)
	expression := k.buildExpression(models, signal)

	return &Dataset{Model: model, Fitness: fitness, Expression: expression, Signal: signal}
}

func (k *Kit) newModelID() core.ModelID {
	id := core.ModelID(fmt.Sprintf("ACH-%06d", k.nextID))
	k.nextID++
	return id
}

func (k *Kit) buildFitness(models []core.ModelID, signal map[core.ModelID]float64) *depmap.FitnessMatrix {
	genes := []core.GeneKey{GenePositive, GeneNegative, GeneNoisy, GeneSparse}
	data := make([][]float64, len(genes))
	for g := range data {
		data[g] = make([]float64, len(models))
	}

	for j, m := range models {
		s := signal[m]
		data[0][j] = s                   // monotone with the signal
		data[1][j] = -s                  // perfectly anti-correlated
		data[2][j] = k.rng.NormFloat64() // unrelated
		if j < 3 {
			data[3][j] = k.rng.NormFloat64() // only 3 valid pairs
		} else {
			data[3][j] = math.NaN()
		}
	}

	return depmap.NewFitnessMatrix(genes, models, data)
}

func (k *Kit) buildExpression(models []core.ModelID, signal map[core.ModelID]float64) *depmap.ExpressionMatrix {
	genes := []core.GeneKey{MarkerColumn, BystanderColumn}
	data := make([][]float64, len(models))
	for i, m := range models {
		// The marker column carries the signal directly, so the proxy (mean
		// of the one matched column) equals the signal.
		data[i] = []float64{signal[m], k.rng.NormFloat64()}
	}
	return depmap.NewExpressionMatrix(models, genes, data)
}

package depmap

import (
	"math"
	"sort"

	"crisprtme/domain/core"
)

// ModelTable maps DepMap model IDs to their primary-disease annotation.
// Rows without a disease label are dropped at load time.
type ModelTable struct {
	labels map[core.ModelID]core.DiseaseLabel
	order  []core.ModelID // insertion order, for deterministic iteration
}

// NewModelTable creates an empty annotation table.
func NewModelTable() *ModelTable {
	return &ModelTable{labels: make(map[core.ModelID]core.DiseaseLabel)}
}

// Add records one model's annotation. Duplicate model IDs keep the first
// annotation seen.
func (t *ModelTable) Add(id core.ModelID, label core.DiseaseLabel) {
	if _, dup := t.labels[id]; dup {
		return
	}
	t.labels[id] = label
	t.order = append(t.order, id)
}

// Len returns the number of annotated models.
func (t *ModelTable) Len() int {
	return len(t.order)
}

// DiseaseLabels returns the distinct labels, sorted. Distinctness is exact
// (case-sensitive), matching the annotation values as published.
func (t *ModelTable) DiseaseLabels() []core.DiseaseLabel {
	seen := make(map[core.DiseaseLabel]struct{})
	labels := make([]core.DiseaseLabel, 0)
	for _, id := range t.order {
		l := t.labels[id]
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// ModelsFor returns the models annotated with the label, matched
// case-insensitively, in table order.
func (t *ModelTable) ModelsFor(label core.DiseaseLabel) []core.ModelID {
	models := make([]core.ModelID, 0)
	for _, id := range t.order {
		if t.labels[id].Matches(label) {
			models = append(models, id)
		}
	}
	return models
}

// FitnessMatrix is the CRISPR gene-effect matrix oriented genes x models.
// Cells may be NaN where a knockout score is missing.
type FitnessMatrix struct {
	Genes  []core.GeneKey
	Models []core.ModelID
	Data   [][]float64 // Data[geneIdx][modelIdx]

	modelIndex map[core.ModelID]int
}

// NewFitnessMatrix builds the matrix and its model index. Data rows must
// align with genes and have one cell per model.
func NewFitnessMatrix(genes []core.GeneKey, models []core.ModelID, data [][]float64) *FitnessMatrix {
	idx := make(map[core.ModelID]int, len(models))
	for i, m := range models {
		idx[m] = i
	}
	return &FitnessMatrix{Genes: genes, Models: models, Data: data, modelIndex: idx}
}

// Row returns the gene's knockout scores restricted to the given models, in
// the given order. Models absent from the matrix yield NaN.
func (m *FitnessMatrix) Row(geneIdx int, models []core.ModelID) []float64 {
	row := m.Data[geneIdx]
	out := make([]float64, len(models))
	for i, id := range models {
		j, ok := m.modelIndex[id]
		if !ok || j >= len(row) {
			out[i] = math.NaN()
			continue
		}
		out[i] = row[j]
	}
	return out
}

// ExpressionMatrix is the log-TPM expression matrix oriented models x genes.
type ExpressionMatrix struct {
	Models []core.ModelID
	Genes  []core.GeneKey
	Data   [][]float64 // Data[modelIdx][geneIdx]

	modelIndex map[core.ModelID]int
	geneIndex  map[core.GeneKey]int
}

// NewExpressionMatrix builds the matrix and its indexes.
func NewExpressionMatrix(models []core.ModelID, genes []core.GeneKey, data [][]float64) *ExpressionMatrix {
	mIdx := make(map[core.ModelID]int, len(models))
	for i, m := range models {
		mIdx[m] = i
	}
	gIdx := make(map[core.GeneKey]int, len(genes))
	for i, g := range genes {
		gIdx[g] = i
	}
	return &ExpressionMatrix{Models: models, Genes: genes, Data: data, modelIndex: mIdx, geneIndex: gIdx}
}

// PanelRows extracts the submatrix models x panel for the given models, in
// the given order. Missing models or genes yield NaN cells.
func (m *ExpressionMatrix) PanelRows(models []core.ModelID, panel []core.GeneKey) [][]float64 {
	cols := make([]int, len(panel))
	for i, g := range panel {
		if j, ok := m.geneIndex[g]; ok {
			cols[i] = j
		} else {
			cols[i] = -1
		}
	}

	rows := make([][]float64, len(models))
	for i, id := range models {
		row := make([]float64, len(panel))
		src, ok := m.modelIndex[id]
		for k, j := range cols {
			if !ok || j < 0 || j >= len(m.Data[src]) {
				row[k] = math.NaN()
				continue
			}
			row[k] = m.Data[src][j]
		}
		rows[i] = row
	}
	return rows
}

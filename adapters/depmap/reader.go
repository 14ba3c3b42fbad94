package depmap

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"crisprtme/domain/core"
	"crisprtme/internal"
)

var log = internal.Component("depmap")

// ReadModelTable loads the model annotation CSV (ModelID,
// OncotreePrimaryDisease among other columns). Rows with an empty label are
// dropped, matching pandas dropna on the label column.
func ReadModelTable(path string) (*ModelTable, error) {
	records, err := readCSV(path, ',')
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, core.NewMatrixError(path, "need a header row and at least one data row")
	}

	header := records[0]
	idCol := findColumn(header, "ModelID")
	labelCol := findColumn(header, "OncotreePrimaryDisease")
	if idCol < 0 || labelCol < 0 {
		return nil, fmt.Errorf("%w: ModelID/OncotreePrimaryDisease in %s", core.ErrColumnNotFound, path)
	}

	table := NewModelTable()
	for _, row := range records[1:] {
		if idCol >= len(row) || labelCol >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[idCol])
		label := strings.TrimSpace(row[labelCol])
		if id == "" || label == "" {
			continue
		}
		table.Add(core.ModelID(id), core.DiseaseLabel(label))
	}

	log.Info("model table loaded: %d annotated models from %s", table.Len(), path)
	return table, nil
}

// ReadFitnessMatrix loads the CRISPR gene-effect CSV. The published file is
// models x genes; when the row index holds ACH- model IDs the matrix is
// transposed so the result is always genes x models.
func ReadFitnessMatrix(path string) (*FitnessMatrix, error) {
	records, err := readCSV(path, ',')
	if err != nil {
		return nil, err
	}
	if len(records) < 2 || len(records[0]) < 2 {
		return nil, core.NewMatrixError(path, "need a header row and at least one data row")
	}

	header := records[0]
	body := records[1:]

	transposed := strings.HasPrefix(strings.TrimSpace(body[0][0]), "ACH-")
	if transposed {
		log.Info("fitness matrix is models x genes, transposing")
		records = transpose(records)
		header = records[0]
		body = records[1:]
	}

	genes := make([]core.GeneKey, 0, len(body))
	data := make([][]float64, 0, len(body))
	models := make([]core.ModelID, len(header)-1)
	for j := 1; j < len(header); j++ {
		models[j-1] = core.ModelID(strings.TrimSpace(header[j]))
	}

	for _, row := range body {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		genes = append(genes, core.GeneKey(strings.TrimSpace(row[0])))
		values := make([]float64, len(models))
		for j := range models {
			if j+1 < len(row) {
				values[j] = parseCell(row[j+1])
			} else {
				values[j] = math.NaN()
			}
		}
		data = append(data, values)
	}

	log.Info("fitness matrix loaded: %d genes x %d models from %s", len(genes), len(models), path)
	return NewFitnessMatrix(genes, models, data), nil
}

// ReadExpressionMatrix loads the expression CSV (models x genes). The model
// ID comes from a ModelID column when present, otherwise from the unnamed
// leading index column. Duplicate model rows keep the first occurrence.
func ReadExpressionMatrix(path string) (*ExpressionMatrix, error) {
	records, err := readCSV(path, ',')
	if err != nil {
		return nil, err
	}
	if len(records) < 2 || len(records[0]) < 2 {
		return nil, core.NewMatrixError(path, "need a header row and at least one data row")
	}

	header := records[0]
	idCol := findColumn(header, "ModelID")
	if idCol < 0 {
		idCol = 0 // unnamed pandas index column
	}

	genes := make([]core.GeneKey, 0, len(header)-1)
	geneCols := make([]int, 0, len(header)-1)
	for j, name := range header {
		if j == idCol {
			continue
		}
		genes = append(genes, core.GeneKey(strings.TrimSpace(name)))
		geneCols = append(geneCols, j)
	}

	seen := make(map[core.ModelID]struct{})
	models := make([]core.ModelID, 0, len(records)-1)
	data := make([][]float64, 0, len(records)-1)
	duplicates := 0
	for _, row := range records[1:] {
		if idCol >= len(row) {
			continue
		}
		id := core.ModelID(strings.TrimSpace(row[idCol]))
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			duplicates++
			continue
		}
		seen[id] = struct{}{}

		values := make([]float64, len(geneCols))
		for k, j := range geneCols {
			if j < len(row) {
				values[k] = parseCell(row[j])
			} else {
				values[k] = math.NaN()
			}
		}
		models = append(models, id)
		data = append(data, values)
	}

	if duplicates > 0 {
		log.Warn("expression matrix: dropped %d duplicate model rows (kept first)", duplicates)
	}
	log.Info("expression matrix loaded: %d models x %d genes from %s", len(models), len(genes), path)
	return NewExpressionMatrix(models, genes, data), nil
}

func readCSV(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1 // ragged rows handled per cell
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

func findColumn(header []string, name string) int {
	for j, h := range header {
		if strings.TrimSpace(h) == name {
			return j
		}
	}
	return -1
}

// parseCell parses one numeric cell. Empty cells and the usual NA spellings
// parse to NaN rather than erroring out the whole file.
func parseCell(cell string) float64 {
	s := strings.TrimSpace(cell)
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "n/a":
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func transpose(records [][]string) [][]string {
	rows := len(records)
	cols := 0
	for _, r := range records {
		if len(r) > cols {
			cols = len(r)
		}
	}
	out := make([][]string, cols)
	for j := 0; j < cols; j++ {
		out[j] = make([]string, rows)
		for i := 0; i < rows; i++ {
			if j < len(records[i]) {
				out[j][i] = records[i][j]
			}
		}
	}
	return out
}

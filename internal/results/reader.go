package results

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"crisprtme/domain/assoc"
	"crisprtme/domain/core"
	"crisprtme/internal/errors"
)

// ListAssociationTables returns the per-cancer result files in dir, sorted
// by file name for a deterministic post-analysis order.
func ListAssociationTables(dir string) ([]string, error) {
	pattern := filepath.Join(dir, tablePrefix+"*"+tableSuffix)
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("glob %s", pattern), err)
	}
	sort.Strings(files)
	return files, nil
}

// LabelFromFileName recovers the cancer label slug from a result file path.
func LabelFromFileName(path string) core.DiseaseLabel {
	base := filepath.Base(path)
	base = strings.TrimPrefix(base, tablePrefix)
	base = strings.TrimSuffix(base, tableSuffix)
	return core.DiseaseLabel(base)
}

// ReadAssociationTable loads a persisted per-cancer table back into memory.
// The table label comes from the file name; cohort size and hash are not
// persisted in the CSV and stay zero.
func ReadAssociationTable(path string) (*assoc.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("open %s", path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("parse %s", path), err)
	}
	if len(rows) < 1 {
		return nil, errors.DataFormat(fmt.Sprintf("%s: missing header row", path))
	}

	table := &assoc.Table{Label: LabelFromFileName(path)}
	for _, row := range rows[1:] {
		if len(row) < 4 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		rec := assoc.Record{
			Gene:   core.GeneKey(strings.TrimSpace(row[0])),
			Rho:    parseFloat(row[1]),
			PValue: parseFloat(row[2]),
			QValue: parseFloat(row[3]),
		}
		if len(row) > 4 {
			rec.NegLog10P = parseFloat(row[4])
		}
		table.Records = append(table.Records, rec)
	}
	return table, nil
}

// ReadGeneCounts loads a gene -> count ranking previously written by the
// writer (Gene,Count header).
func ReadGeneCounts(path string) ([]assoc.GeneCount, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("open %s", path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("parse %s", path), err)
	}
	if len(rows) < 1 {
		return nil, errors.DataFormat(fmt.Sprintf("%s: missing header row", path))
	}

	counts := make([]assoc.GeneCount, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 1 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		c := assoc.GeneCount{Symbol: strings.TrimSpace(row[0])}
		if len(row) > 1 {
			c.Count, _ = strconv.Atoi(strings.TrimSpace(row[1]))
		}
		counts = append(counts, c)
	}
	return counts, nil
}

func parseFloat(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

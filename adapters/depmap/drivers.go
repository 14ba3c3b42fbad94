package depmap

import (
	"fmt"
	"strings"

	"crisprtme/domain/core"
)

// geneColumnCandidates are the header names checked, in order, when locating
// the gene-symbol column of an external driver table.
var geneColumnCandidates = []string{
	"SYMBOL", "symbol", "Gene", "gene", "Hugo_Symbol", "Gene_Symbol",
}

// DriverTable is an external cancer-driver reference list keyed by
// uppercased gene symbol.
type DriverTable struct {
	Path       string
	GeneColumn string
	symbols    map[string]struct{}
}

// Len returns the number of distinct symbols.
func (t *DriverTable) Len() int {
	return len(t.symbols)
}

// Contains reports whether the symbol (any case) is in the table.
func (t *DriverTable) Contains(symbol string) bool {
	_, ok := t.symbols[strings.ToUpper(strings.TrimSpace(symbol))]
	return ok
}

// ReadDriverTable loads a tab-separated driver reference (IntOGen style)
// and auto-detects its gene column from the usual candidate names.
func ReadDriverTable(path string) (*DriverTable, error) {
	records, err := readCSV(path, '\t')
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, core.NewMatrixError(path, "need a header row and at least one data row")
	}

	header := records[0]
	col := -1
	colName := ""
	for _, candidate := range geneColumnCandidates {
		if j := findColumn(header, candidate); j >= 0 {
			col = j
			colName = candidate
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w in %s (tried %s)", core.ErrNoGeneColumn, path, strings.Join(geneColumnCandidates, ", "))
	}

	symbols := make(map[string]struct{})
	for _, row := range records[1:] {
		if col >= len(row) {
			continue
		}
		s := strings.ToUpper(strings.TrimSpace(row[col]))
		if s == "" {
			continue
		}
		symbols[s] = struct{}{}
	}

	log.Info("driver table loaded: %d symbols from %s (column %q)", len(symbols), path, colName)
	return &DriverTable{Path: path, GeneColumn: colName, symbols: symbols}, nil
}

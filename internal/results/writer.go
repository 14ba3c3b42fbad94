package results

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"crisprtme/domain/assoc"
	"crisprtme/domain/core"
	"crisprtme/internal"
	"crisprtme/internal/errors"
	"crisprtme/ports"
)

var log = internal.Component("results")

// Association table file naming, shared with the reader.
const (
	tablePrefix = "CRISPR_TME_"
	tableSuffix = "_Results.csv"
)

// Writer persists pipeline outputs as flat files under one directory:
// CSV throughout, plus an Excel workbook for the cross-cancer summary.
type Writer struct {
	Dir string
}

var _ ports.ResultsWriter = (*Writer)(nil)

// NewWriter creates the output directory if needed and returns a writer.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.IOError(fmt.Sprintf("create output directory %s", dir), err)
	}
	return &Writer{Dir: dir}, nil
}

// WriteAssociationTable persists one cancer type's ranked table as
// CRISPR_TME_<label>_Results.csv.
func (w *Writer) WriteAssociationTable(t *assoc.Table) error {
	rows := make([][]string, 0, len(t.Records)+1)
	rows = append(rows, []string{"Gene", "Spearman_r", "P", "FDR", "-log10P"})
	for _, r := range t.Records {
		rows = append(rows, []string{
			r.Gene.String(),
			formatFloat(r.Rho),
			formatFloat(r.PValue),
			formatFloat(r.QValue),
			formatFloat(r.NegLog10P),
		})
	}

	name := tablePrefix + t.Label.FileSlug() + tableSuffix
	if err := w.writeCSV(name, rows); err != nil {
		return err
	}
	log.Debug("wrote %d association records for %s", len(t.Records), t.Label)
	return nil
}

// WriteSummary persists the cross-cancer summary as CSV and as an Excel
// workbook for spreadsheet consumers.
func (w *Writer) WriteSummary(summaries []assoc.Summary) error {
	header := []string{"Cancer", "N_Models", "Top_Positive", "Top_Negative"}
	rows := make([][]string, 0, len(summaries)+1)
	rows = append(rows, header)
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Label.String(),
			strconv.Itoa(s.NModels),
			joinGenes(s.TopPositive),
			joinGenes(s.TopNegative),
		})
	}

	if err := w.writeCSV("Cancerwise_Summary.csv", rows); err != nil {
		return err
	}
	return w.writeSummaryWorkbook(rows)
}

func (w *Writer) writeSummaryWorkbook(rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "summary workbook cell")
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return errors.Wrap(err, "summary workbook row")
		}
	}

	path := filepath.Join(w.Dir, "Cancerwise_Summary.xlsx")
	if err := f.SaveAs(path); err != nil {
		return errors.IOError("save summary workbook", err)
	}
	return nil
}

// WriteNamedMatrix persists a labeled numeric matrix as <name>.csv with row
// labels in the first column and column labels in the header.
func (w *Writer) WriteNamedMatrix(name string, rowLabels, colLabels []string, data [][]float64) error {
	rows := make([][]string, 0, len(data)+1)
	header := append([]string{""}, colLabels...)
	rows = append(rows, header)
	for i, rowLabel := range rowLabels {
		row := make([]string, 0, len(colLabels)+1)
		row = append(row, rowLabel)
		for j := range colLabels {
			v := math.NaN()
			if i < len(data) && j < len(data[i]) {
				v = data[i][j]
			}
			row = append(row, formatFloat(v))
		}
		rows = append(rows, row)
	}
	return w.writeCSV(name+".csv", rows)
}

// WriteGeneCounts persists a gene frequency ranking as <name>.csv.
func (w *Writer) WriteGeneCounts(name string, counts []assoc.GeneCount) error {
	rows := make([][]string, 0, len(counts)+1)
	rows = append(rows, []string{"Gene", "Count"})
	for _, c := range counts {
		rows = append(rows, []string{c.Symbol, strconv.Itoa(c.Count)})
	}
	return w.writeCSV(name+".csv", rows)
}

// WriteGeneList persists a one-column gene list as <name>.csv.
func (w *Writer) WriteGeneList(name string, genes []string) error {
	rows := make([][]string, 0, len(genes)+1)
	rows = append(rows, []string{"Gene"})
	for _, g := range genes {
		rows = append(rows, []string{g})
	}
	return w.writeCSV(name+".csv", rows)
}

// WriteEnrichment persists one enrichment query's terms as <name>.csv.
func (w *Writer) WriteEnrichment(name string, terms []ports.EnrichmentTerm) error {
	rows := make([][]string, 0, len(terms)+1)
	rows = append(rows, []string{"source", "native", "name", "p_value", "term_size", "intersection_size"})
	for _, t := range terms {
		rows = append(rows, []string{
			t.Source,
			t.TermID,
			t.Name,
			formatFloat(t.PValue),
			strconv.Itoa(t.TermSize),
			strconv.Itoa(t.IntersectionSize),
		})
	}
	return w.writeCSV(name+".csv", rows)
}

// WriteReport persists the run report as <name>.md and <name>.html.
func (w *Writer) WriteReport(name string, markdown, html []byte) error {
	mdPath := filepath.Join(w.Dir, name+".md")
	if err := os.WriteFile(mdPath, markdown, 0o644); err != nil {
		return errors.IOError("write report markdown", err)
	}
	htmlPath := filepath.Join(w.Dir, name+".html")
	if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
		return errors.IOError("write report html", err)
	}
	return nil
}

func (w *Writer) writeCSV(name string, rows [][]string) error {
	path := filepath.Join(w.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return errors.IOError(fmt.Sprintf("create %s", path), err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		return errors.IOError(fmt.Sprintf("write %s", path), err)
	}
	cw.Flush()
	return cw.Error()
}

// formatFloat renders a value for CSV. NaN renders as an empty cell, the
// same convention the input parsers accept.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func joinGenes(genes []core.GeneKey) string {
	names := make([]string, len(genes))
	for i, g := range genes {
		names[i] = g.String()
	}
	return strings.Join(names, "; ")
}

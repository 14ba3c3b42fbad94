package depmap

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"crisprtme/domain/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadModelTable(t *testing.T) {
	path := writeFile(t, "Model.csv",
		"ModelID,CellLineName,OncotreePrimaryDisease\n"+
			"ACH-000001,LINE1,Melanoma\n"+
			"ACH-000002,LINE2,\n"+ // no label, dropped
			"ACH-000003,LINE3,Lung Adenocarcinoma\n"+
			"ACH-000004,LINE4,melanoma\n") // case variant, distinct label

	table, err := ReadModelTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 3 {
		t.Fatalf("expected 3 annotated models, got %d", table.Len())
	}

	// Case-insensitive lookup finds both spellings
	if got := table.ModelsFor("MELANOMA"); len(got) != 2 {
		t.Fatalf("case-insensitive match: got %v", got)
	}

	labels := table.DiseaseLabels()
	if len(labels) != 3 {
		t.Fatalf("labels are distinct case-sensitively: got %v", labels)
	}
}

func TestReadFitnessMatrix_TransposesModelMajorFile(t *testing.T) {
	// Published orientation: rows are ACH- models, columns are genes
	path := writeFile(t, "CRISPRGeneEffect.csv",
		",TP53 (7157),MYC (4609)\n"+
			"ACH-000001,-0.1,0.3\n"+
			"ACH-000002,NA,0.5\n"+
			"ACH-000003,-0.4,\n")

	m, err := ReadFitnessMatrix(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Genes) != 2 || len(m.Models) != 3 {
		t.Fatalf("got %d genes x %d models after transpose", len(m.Genes), len(m.Models))
	}
	if m.Genes[0] != "TP53 (7157)" {
		t.Fatalf("gene order: %v", m.Genes)
	}

	row := m.Row(0, []core.ModelID{"ACH-000001", "ACH-000002", "ACH-000003"})
	if row[0] != -0.1 || !math.IsNaN(row[1]) || row[2] != -0.4 {
		t.Fatalf("TP53 row: %v", row)
	}

	// Unknown model yields NaN rather than an error
	if v := m.Row(1, []core.ModelID{"ACH-999999"}); !math.IsNaN(v[0]) {
		t.Fatalf("missing model should read NaN, got %v", v[0])
	}
}

func TestReadFitnessMatrix_GeneMajorFileKeptAsIs(t *testing.T) {
	path := writeFile(t, "effects.csv",
		"Gene,ACH-000001,ACH-000002\n"+
			"TP53 (7157),-0.1,-0.2\n"+
			"MYC (4609),0.3,0.4\n")

	m, err := ReadFitnessMatrix(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Genes) != 2 || len(m.Models) != 2 {
		t.Fatalf("got %d genes x %d models", len(m.Genes), len(m.Models))
	}
	row := m.Row(1, []core.ModelID{"ACH-000002"})
	if row[0] != 0.4 {
		t.Fatalf("MYC/ACH-000002: got %v", row[0])
	}
}

func TestReadExpressionMatrix_DropsDuplicateModels(t *testing.T) {
	path := writeFile(t, "expr.csv",
		"ModelID,CD274 (29126),STAT1 (6772)\n"+
			"ACH-000001,1.5,2.5\n"+
			"ACH-000001,9.9,9.9\n"+ // duplicate, dropped keep-first
			"ACH-000002,nan,3.5\n")

	m, err := ReadExpressionMatrix(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Models) != 2 {
		t.Fatalf("expected 2 models after dedupe, got %d", len(m.Models))
	}

	rows := m.PanelRows([]core.ModelID{"ACH-000001", "ACH-000002"}, []core.GeneKey{"CD274 (29126)"})
	if rows[0][0] != 1.5 {
		t.Fatalf("dedupe must keep first row, got %v", rows[0][0])
	}
	if !math.IsNaN(rows[1][0]) {
		t.Fatalf("nan cell must parse as NaN, got %v", rows[1][0])
	}
}

func TestReadDriverTable_DetectsGeneColumn(t *testing.T) {
	path := writeFile(t, "drivers.tsv",
		"COHORT\tSYMBOL\tROLE\n"+
			"PANCANCER\ttp53\tLoF\n"+
			"PANCANCER\tKRAS\tAct\n"+
			"PANCANCER\tKRAS\tAct\n")

	table, err := ReadDriverTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if table.GeneColumn != "SYMBOL" {
		t.Fatalf("detected column %q", table.GeneColumn)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 distinct symbols, got %d", table.Len())
	}
	if !table.Contains("TP53") || !table.Contains("tp53") {
		t.Fatal("matching must be case-insensitive")
	}
}

func TestReadDriverTable_NoGeneColumn(t *testing.T) {
	path := writeFile(t, "bad.tsv", "A\tB\nx\ty\n")
	if _, err := ReadDriverTable(path); err == nil {
		t.Fatal("expected an error for a table without a gene column")
	}
}

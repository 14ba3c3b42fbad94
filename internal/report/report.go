package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"crisprtme/domain/assoc"
	"crisprtme/domain/core"
)

// Run collects everything the report needs about one pipeline run.
type Run struct {
	RunID      core.RunID
	StartedAt  core.Timestamp
	FinishedAt core.Timestamp

	CancerTypesSeen int
	Processed       []assoc.Summary
	Skipped         []SkippedCancer

	PanelSize int // expression columns matched by the marker panel

	Validation *Validation // nil when the validate pass did not run
}

// SkippedCancer records a cancer type that fell below the cohort threshold.
type SkippedCancer struct {
	Label      core.DiseaseLabel
	CohortSize int
	MinSize    int
}

// Validation summarizes the driver-database cross-check.
type Validation struct {
	GenesChecked      int
	CompendiumMatches int
	UnfilteredMatches int
}

// Markdown renders the run report as a markdown document.
func Markdown(r *Run) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# CRISPR x Immune Proxy Run Report\n\n")
	fmt.Fprintf(&b, "- Run ID: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Started: %s\n", r.StartedAt)
	fmt.Fprintf(&b, "- Finished: %s\n", r.FinishedAt)
	fmt.Fprintf(&b, "- Cancer types seen: %d, processed: %d, skipped: %d\n",
		r.CancerTypesSeen, len(r.Processed), len(r.Skipped))
	fmt.Fprintf(&b, "- Immune marker panel matched %d expression columns\n\n", r.PanelSize)

	if len(r.Processed) > 0 {
		fmt.Fprintf(&b, "## Processed cancer types\n\n")
		fmt.Fprintf(&b, "| Cancer | Models | Top positive | Top negative |\n")
		fmt.Fprintf(&b, "|---|---|---|---|\n")
		for _, s := range r.Processed {
			fmt.Fprintf(&b, "| %s | %d | %s | %s |\n",
				s.Label, s.NModels, joinSymbols(s.TopPositive), joinSymbols(s.TopNegative))
		}
		fmt.Fprintf(&b, "\n")
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintf(&b, "## Skipped cancer types\n\n")
		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "- %s: %d models (minimum %d)\n", s.Label, s.CohortSize, s.MinSize)
		}
		fmt.Fprintf(&b, "\n")
	}

	if r.Validation != nil {
		fmt.Fprintf(&b, "## Driver-database validation\n\n")
		fmt.Fprintf(&b, "- Top genes checked: %d\n", r.Validation.GenesChecked)
		fmt.Fprintf(&b, "- Matches in IntOGen compendium: %d\n", r.Validation.CompendiumMatches)
		fmt.Fprintf(&b, "- Matches in unfiltered drivers: %d\n", r.Validation.UnfilteredMatches)
		fmt.Fprintf(&b, "\n")
	}

	return []byte(b.String())
}

// RenderHTML converts the markdown report to a standalone HTML fragment.
func RenderHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse(md)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

func joinSymbols(genes []core.GeneKey) string {
	names := make([]string, len(genes))
	for i, g := range genes {
		names[i] = g.Symbol()
	}
	return strings.Join(names, "; ")
}

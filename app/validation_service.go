package app

import (
	"context"
	"sort"
	"strings"

	"crisprtme/adapters/depmap"
	"crisprtme/domain/core"
	"crisprtme/internal"
	"crisprtme/internal/errors"
	"crisprtme/internal/report"
	"crisprtme/internal/results"
	"crisprtme/ports"
)

// ValidationService cross-checks the recurrent top genes against external
// cancer-driver reference tables.
type ValidationService struct {
	log    *internal.Logger
	writer ports.ResultsWriter
}

// ValidationRequest names the inputs: the global top-gene ranking produced
// by the post pass and the two driver TSVs.
type ValidationRequest struct {
	TopGenesFile   string
	CompendiumFile string
	DriversFile    string
}

// ValidationResult lists the matched symbols per reference table.
type ValidationResult struct {
	GenesChecked      int
	CompendiumMatched []string
	UnfilteredMatched []string
}

// NewValidationService creates the validation service.
func NewValidationService(writer ports.ResultsWriter) *ValidationService {
	return &ValidationService{log: internal.Component("validation"), writer: writer}
}

// Run intersects the uppercased top-gene set with each driver table,
// persists the matched lists, and writes a run report carrying the counts.
func (s *ValidationService) Run(ctx context.Context, req ValidationRequest) (*ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := core.Now()

	counts, err := results.ReadGeneCounts(req.TopGenesFile)
	if err != nil {
		return nil, errors.Wrapf(err, "load top genes from %s", req.TopGenesFile)
	}
	topGenes := make(map[string]struct{}, len(counts))
	for _, c := range counts {
		topGenes[strings.ToUpper(strings.TrimSpace(c.Symbol))] = struct{}{}
	}

	compendium, err := depmap.ReadDriverTable(req.CompendiumFile)
	if err != nil {
		return nil, errors.Wrapf(err, "load compendium from %s", req.CompendiumFile)
	}
	unfiltered, err := depmap.ReadDriverTable(req.DriversFile)
	if err != nil {
		return nil, errors.Wrapf(err, "load unfiltered drivers from %s", req.DriversFile)
	}

	result := &ValidationResult{
		GenesChecked:      len(topGenes),
		CompendiumMatched: intersect(topGenes, compendium),
		UnfilteredMatched: intersect(topGenes, unfiltered),
	}

	if err := s.writer.WriteGeneList("Matched_in_Compendium", result.CompendiumMatched); err != nil {
		return nil, errors.Wrap(err, "persist compendium matches")
	}
	if err := s.writer.WriteGeneList("Matched_in_Unfiltered", result.UnfilteredMatched); err != nil {
		return nil, errors.Wrap(err, "persist unfiltered matches")
	}

	run := &report.Run{
		RunID:      core.RunID(core.NewID()),
		StartedAt:  started,
		FinishedAt: core.Now(),
		Validation: result.Summary(),
	}
	md := report.Markdown(run)
	if err := s.writer.WriteReport("Validation_Report", md, report.RenderHTML(md)); err != nil {
		return nil, errors.Wrap(err, "persist validation report")
	}

	s.log.Info("validation: %d genes checked, %d in compendium, %d in unfiltered drivers",
		result.GenesChecked, len(result.CompendiumMatched), len(result.UnfilteredMatched))
	return result, nil
}

// Summary adapts the result for the run report.
func (r *ValidationResult) Summary() *report.Validation {
	return &report.Validation{
		GenesChecked:      r.GenesChecked,
		CompendiumMatches: len(r.CompendiumMatched),
		UnfilteredMatches: len(r.UnfilteredMatched),
	}
}

func intersect(genes map[string]struct{}, table *depmap.DriverTable) []string {
	matched := make([]string, 0)
	for g := range genes {
		if table.Contains(g) {
			matched = append(matched, g)
		}
	}
	sort.Strings(matched)
	return matched
}

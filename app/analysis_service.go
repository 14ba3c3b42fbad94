package app

import (
	"context"
	"math"

	"crisprtme/adapters/depmap"
	"crisprtme/adapters/stats"
	"crisprtme/domain/assoc"
	"crisprtme/domain/cohort"
	"crisprtme/domain/core"
	"crisprtme/domain/immune"
	"crisprtme/internal"
	"crisprtme/internal/config"
	"crisprtme/internal/errors"
	"crisprtme/internal/report"
	"crisprtme/ports"
)

// AnalysisService runs the correlation-and-ranking pass: per cancer type,
// cohort selection, immune proxy, per-gene Spearman against the proxy, BH
// correction, ranking, persistence. Cancer types are strictly sequential and
// share no state beyond the append-only summary collection.
type AnalysisService struct {
	log      *internal.Logger
	cfg      config.AnalysisConfig
	selector *cohort.Selector
	writer   ports.ResultsWriter
}

// AnalysisRequest carries the three loaded input tables.
type AnalysisRequest struct {
	Model      *depmap.ModelTable
	Fitness    *depmap.FitnessMatrix
	Expression *depmap.ExpressionMatrix
}

// AnalysisResult is the in-memory digest of one run; the tables themselves
// go through the writer.
type AnalysisResult struct {
	RunID           core.RunID
	CancerTypesSeen int
	Summaries       []assoc.Summary
	Skipped         []report.SkippedCancer
	PanelSize       int
	TablesWritten   int
}

// NewAnalysisService creates the analysis service.
func NewAnalysisService(cfg config.AnalysisConfig, writer ports.ResultsWriter) *AnalysisService {
	return &AnalysisService{
		log:      internal.Component("analysis"),
		cfg:      cfg,
		selector: cohort.NewSelector(cfg.MinCohortSize),
		writer:   writer,
	}
}

// Run executes the full pass. Per-item failures (short cohorts, sparse
// genes, empty tables) are contained and logged; only input-level problems
// (no marker columns, writer failures) abort the run.
func (s *AnalysisService) Run(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	started := core.Now()
	result := &AnalysisResult{RunID: core.RunID(core.NewID())}

	panel := immune.MatchPanel(req.Expression.Genes)
	if len(panel) == 0 {
		return nil, core.ErrEmptyMarkerPanel
	}
	result.PanelSize = len(panel)
	s.log.Info("marker panel matched %d expression columns", len(panel))

	labels := req.Model.DiseaseLabels()
	result.CancerTypesSeen = len(labels)
	s.log.Info("run %s: %d distinct cancer types", result.RunID, len(labels))

	for _, label := range labels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, skipped := s.analyzeCancer(label, req, panel)
		if skipped != nil {
			result.Skipped = append(result.Skipped, *skipped)
			continue
		}
		if table.IsEmpty() {
			s.log.Warn("no valid results for %s", label)
			continue
		}

		if err := s.writer.WriteAssociationTable(table); err != nil {
			return nil, errors.Wrapf(err, "persist association table for %s", label)
		}
		result.TablesWritten++

		summary := assoc.NewSummary(table, s.cfg.TopSummary)
		result.Summaries = append(result.Summaries, *summary)
		s.log.Info("%s: %d records, cohort %d", label, len(table.Records), table.CohortSize)
	}

	if len(result.Summaries) > 0 {
		if err := s.writer.WriteSummary(result.Summaries); err != nil {
			return nil, errors.Wrap(err, "persist cancerwise summary")
		}
	}

	run := &report.Run{
		RunID:           result.RunID,
		StartedAt:       started,
		FinishedAt:      core.Now(),
		CancerTypesSeen: result.CancerTypesSeen,
		Processed:       result.Summaries,
		Skipped:         result.Skipped,
		PanelSize:       result.PanelSize,
	}
	md := report.Markdown(run)
	if err := s.writer.WriteReport("Run_Report", md, report.RenderHTML(md)); err != nil {
		return nil, errors.Wrap(err, "persist run report")
	}

	s.log.Info("analysis complete: %d processed, %d skipped", len(result.Summaries), len(result.Skipped))
	return result, nil
}

// analyzeCancer builds the association table for one cancer type. A nil
// table with a non-nil skip record means the cohort fell below the minimum.
func (s *AnalysisService) analyzeCancer(label core.DiseaseLabel, req AnalysisRequest, panel []core.GeneKey) (*assoc.Table, *report.SkippedCancer) {
	annotated := req.Model.ModelsFor(label)
	c, ok := s.selector.Select(label, req.Fitness.Models, req.Expression.Models, annotated)
	if !ok {
		s.log.Info("skipping %s: only %d models (minimum %d)", label, c.Size(), s.selector.MinSize)
		return nil, &report.SkippedCancer{Label: label, CohortSize: c.Size(), MinSize: s.selector.MinSize}
	}

	proxy := immune.ProxyScores(req.Expression.PanelRows(c.Members, panel))
	if prof := stats.Profile(proxy); prof.HighMissing() {
		s.log.Warn("%s: immune proxy missing for %.0f%% of cohort", label, prof.MissingRate*100)
	}

	table := &assoc.Table{
		Label:      label,
		CohortSize: c.Size(),
		CohortHash: c.Hash,
	}

	for i := range req.Fitness.Genes {
		x, y := stats.PairedComplete(req.Fitness.Row(i, c.Members), proxy)
		if len(x) < s.cfg.MinPairs {
			continue
		}
		rho, p := stats.Spearman(x, y)
		table.Records = append(table.Records, assoc.Record{
			Gene:       req.Fitness.Genes[i],
			Rho:        rho,
			PValue:     p,
			NegLog10P:  -math.Log10(p),
			SampleSize: len(x),
		})
	}

	// FDR family is this cancer type only
	pvalues := make([]float64, len(table.Records))
	for i, r := range table.Records {
		pvalues[i] = r.PValue
	}
	for i, q := range stats.BenjaminiHochberg(pvalues) {
		table.Records[i].QValue = q
	}

	table.SortByQValue()
	return table, nil
}

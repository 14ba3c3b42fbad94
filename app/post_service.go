package app

import (
	"context"
	"fmt"

	"crisprtme/domain/assoc"
	"crisprtme/domain/core"
	"crisprtme/internal"
	"crisprtme/internal/config"
	"crisprtme/internal/errors"
	"crisprtme/internal/results"
	"crisprtme/ports"
)

// PostService runs the cross-cancer pass over the persisted per-cancer
// tables: top-gene lists, Jaccard and overlap matrices, gene frequency,
// presence/absence, and the optional enrichment lookups.
type PostService struct {
	log      *internal.Logger
	cfg      config.AnalysisConfig
	writer   ports.ResultsWriter
	enricher ports.Enricher // nil disables enrichment
}

// PostResult summarizes the overlap pass.
type PostResult struct {
	Cancers           []string
	TopPositive       map[string][]string
	TopNegative       map[string][]string
	EnrichmentQueries int
	EnrichmentFailed  int
}

// NewPostService creates the post-analysis service. Passing a nil enricher
// skips the enrichment step entirely.
func NewPostService(cfg config.AnalysisConfig, writer ports.ResultsWriter, enricher ports.Enricher) *PostService {
	return &PostService{
		log:      internal.Component("post"),
		cfg:      cfg,
		writer:   writer,
		enricher: enricher,
	}
}

// Run consumes the per-cancer result files in resultsDir. It is an error to
// run before the analysis pass has produced any tables.
func (s *PostService) Run(ctx context.Context, resultsDir string) (*PostResult, error) {
	files, err := results.ListAssociationTables(resultsDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("no result tables in %s; run the analysis pass first", resultsDir))
	}
	s.log.Info("found %d cancer-specific result files", len(files))

	res := &PostResult{
		TopPositive: make(map[string][]string),
		TopNegative: make(map[string][]string),
	}

	for _, path := range files {
		table, err := results.ReadAssociationTable(path)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", path)
		}
		cancer := table.Label.String()
		res.Cancers = append(res.Cancers, cancer)
		res.TopPositive[cancer] = cleanSymbols(table.TopPositive(s.cfg.TopOverlap))
		res.TopNegative[cancer] = cleanSymbols(table.TopNegative(s.cfg.TopOverlap))
	}

	s.runEnrichment(ctx, res)

	if err := s.writeOverlapMatrices(res); err != nil {
		return nil, err
	}
	if err := s.writeFrequency(res); err != nil {
		return nil, err
	}

	s.log.Info("post analysis complete: %d cancers, %d/%d enrichment queries failed",
		len(res.Cancers), res.EnrichmentFailed, res.EnrichmentQueries)
	return res, nil
}

// runEnrichment queries the enrichment service once per (cancer, direction)
// top list. Failures are logged per query and never abort the pass.
func (s *PostService) runEnrichment(ctx context.Context, res *PostResult) {
	if s.enricher == nil {
		s.log.Info("enrichment disabled, skipping")
		return
	}

	for _, cancer := range res.Cancers {
		// Fixed direction order keeps the query and log sequence
		// reproducible across runs
		for _, dir := range []struct {
			name string
			list []string
		}{
			{"Positive", res.TopPositive[cancer]},
			{"Negative", res.TopNegative[cancer]},
		} {
			if len(dir.list) == 0 {
				continue
			}
			res.EnrichmentQueries++
			terms, err := s.enricher.Profile(ctx, dir.list)
			if err != nil {
				res.EnrichmentFailed++
				s.log.Warn("enrichment failed for %s (%s): %v", cancer, dir.name, err)
				continue
			}
			name := fmt.Sprintf("Enrichment_%s_%s", dir.name, cancer)
			if err := s.writer.WriteEnrichment(name, terms); err != nil {
				res.EnrichmentFailed++
				s.log.Warn("persist enrichment for %s (%s): %v", cancer, dir.name, err)
			}
		}
	}
}

func (s *PostService) writeOverlapMatrices(res *PostResult) error {
	n := len(res.Cancers)
	jaccard := make([][]float64, n)
	overlap := make([][]float64, n)
	for i, a := range res.Cancers {
		jaccard[i] = make([]float64, n)
		overlap[i] = make([]float64, n)
		for j, b := range res.Cancers {
			jaccard[i][j] = assoc.Jaccard(res.TopPositive[a], res.TopPositive[b])
			overlap[i][j] = float64(assoc.OverlapCount(res.TopPositive[a], res.TopPositive[b]))
		}
	}

	if err := s.writer.WriteNamedMatrix("Jaccard_Positive_Matrix", res.Cancers, res.Cancers, jaccard); err != nil {
		return errors.Wrap(err, "persist Jaccard matrix")
	}
	if err := s.writer.WriteNamedMatrix("Overlap_Count_Positive", res.Cancers, res.Cancers, overlap); err != nil {
		return errors.Wrap(err, "persist overlap-count matrix")
	}
	return nil
}

func (s *PostService) writeFrequency(res *PostResult) error {
	lists := make([][]string, 0, len(res.Cancers))
	for _, cancer := range res.Cancers {
		lists = append(lists, res.TopPositive[cancer])
	}
	counts := assoc.CountAcross(lists)

	if err := s.writer.WriteGeneCounts("Global_Top_Positive_Genes", counts); err != nil {
		return errors.Wrap(err, "persist gene frequency")
	}

	// Presence/absence of the most recurrent genes across cancers
	m := s.cfg.PresenceGenes
	if m > len(counts) {
		m = len(counts)
	}
	genes := make([]string, m)
	for i := 0; i < m; i++ {
		genes[i] = counts[i].Symbol
	}

	member := make(map[string]map[string]struct{}, len(res.Cancers))
	for _, cancer := range res.Cancers {
		set := make(map[string]struct{}, len(res.TopPositive[cancer]))
		for _, g := range res.TopPositive[cancer] {
			set[g] = struct{}{}
		}
		member[cancer] = set
	}

	presence := make([][]float64, m)
	for i, g := range genes {
		presence[i] = make([]float64, len(res.Cancers))
		for j, cancer := range res.Cancers {
			if _, ok := member[cancer][g]; ok {
				presence[i][j] = 1
			}
		}
	}

	if err := s.writer.WriteNamedMatrix("Presence_Absence_Positive", genes, res.Cancers, presence); err != nil {
		return errors.Wrap(err, "persist presence/absence matrix")
	}
	return nil
}

// cleanSymbols strips the " (EntrezID)" suffixes for overlap and enrichment
// use, matching the cleaned lists the enrichment service expects.
func cleanSymbols(genes []core.GeneKey) []string {
	out := make([]string, len(genes))
	for i, g := range genes {
		out[i] = g.Symbol()
	}
	return out
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"crisprtme/adapters/depmap"
	"crisprtme/adapters/gprofiler"
	"crisprtme/app"
	"crisprtme/domain/core"
	"crisprtme/internal"
	"crisprtme/internal/config"
	"crisprtme/internal/errors"
	"crisprtme/internal/results"
	"crisprtme/ports"
)

var log = internal.Component("cli")

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "crisprtme",
		Short: "Multi-cancer CRISPR x immune-proxy correlation pipeline",
		Long: `crisprtme correlates genome-wide CRISPR knockout fitness effects with an
immune-activity proxy across cancer types, ranks genes by association, and
cross-validates recurrent hits against cancer-driver reference tables.`,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newPostCmd(),
		newValidateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", errors.GetCode(err), err)
		// Malformed input tables exit 2 so scripts can tell them from
		// environment failures
		if core.IsInputError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var modelFile, fitnessFile, expressionFile, outDir string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the per-cancer correlation and ranking pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyOverride(&cfg.Paths.ModelFile, modelFile)
			applyOverride(&cfg.Paths.FitnessFile, fitnessFile)
			applyOverride(&cfg.Paths.ExpressionFile, expressionFile)
			applyOverride(&cfg.Paths.ResultsDir, outDir)

			log.Info("loading input tables")
			model, err := depmap.ReadModelTable(cfg.Paths.ModelFile)
			if err != nil {
				return err
			}
			fitness, err := depmap.ReadFitnessMatrix(cfg.Paths.FitnessFile)
			if err != nil {
				return err
			}
			expression, err := depmap.ReadExpressionMatrix(cfg.Paths.ExpressionFile)
			if err != nil {
				return err
			}

			writer, err := results.NewWriter(cfg.Paths.ResultsDir)
			if err != nil {
				return err
			}

			svc := app.NewAnalysisService(cfg.Analysis, writer)
			res, err := svc.Run(cmd.Context(), app.AnalysisRequest{
				Model:      model,
				Fitness:    fitness,
				Expression: expression,
			})
			if err != nil {
				return err
			}

			fmt.Printf("run %s: %d cancer types processed, %d skipped, results in %s\n",
				res.RunID, len(res.Summaries), len(res.Skipped), cfg.Paths.ResultsDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&modelFile, "model", "", "model annotation CSV (default $MODEL_FILE)")
	cmd.Flags().StringVar(&fitnessFile, "crispr", "", "CRISPR gene-effect CSV (default $CRISPR_FILE)")
	cmd.Flags().StringVar(&expressionFile, "expression", "", "expression CSV (default $EXPRESSION_FILE)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default $RESULTS_DIR)")
	return cmd
}

func newPostCmd() *cobra.Command {
	var resultsDir, outDir string
	var noEnrich bool

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Run the cross-cancer overlap and enrichment pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyOverride(&cfg.Paths.ResultsDir, resultsDir)
			applyOverride(&cfg.Paths.PostDir, outDir)

			writer, err := results.NewWriter(cfg.Paths.PostDir)
			if err != nil {
				return err
			}

			svc := app.NewPostService(cfg.Analysis, writer, buildEnricher(cfg, noEnrich))
			res, err := svc.Run(cmd.Context(), cfg.Paths.ResultsDir)
			if err != nil {
				return err
			}

			fmt.Printf("post analysis: %d cancers, %d/%d enrichment queries failed, outputs in %s\n",
				len(res.Cancers), res.EnrichmentFailed, res.EnrichmentQueries, cfg.Paths.PostDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results", "", "per-cancer results directory (default $RESULTS_DIR)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default $POST_DIR)")
	cmd.Flags().BoolVar(&noEnrich, "no-enrichment", false, "skip the enrichment service calls")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var topGenesFile, compendiumFile, driversFile, outDir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Cross-check recurrent top genes against driver databases",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyOverride(&cfg.Paths.CompendiumFile, compendiumFile)
			applyOverride(&cfg.Paths.DriversFile, driversFile)
			applyOverride(&cfg.Paths.PostDir, outDir)

			if topGenesFile == "" {
				topGenesFile = filepath.Join(cfg.Paths.PostDir, "Global_Top_Positive_Genes.csv")
			}

			writer, err := results.NewWriter(cfg.Paths.PostDir)
			if err != nil {
				return err
			}

			svc := app.NewValidationService(writer)
			res, err := svc.Run(cmd.Context(), app.ValidationRequest{
				TopGenesFile:   topGenesFile,
				CompendiumFile: cfg.Paths.CompendiumFile,
				DriversFile:    cfg.Paths.DriversFile,
			})
			if err != nil {
				return err
			}

			fmt.Printf("validation: %d genes checked, %d in compendium, %d in unfiltered drivers\n",
				res.GenesChecked, len(res.CompendiumMatched), len(res.UnfilteredMatched))
			return nil
		},
	}

	cmd.Flags().StringVar(&topGenesFile, "top-genes", "", "global top-gene CSV (default <post-dir>/Global_Top_Positive_Genes.csv)")
	cmd.Flags().StringVar(&compendiumFile, "compendium", "", "IntOGen compendium TSV (default $COMPENDIUM_FILE)")
	cmd.Flags().StringVar(&driversFile, "drivers", "", "unfiltered drivers TSV (default $DRIVERS_FILE)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default $POST_DIR)")
	return cmd
}

func buildEnricher(cfg *config.Config, disabled bool) ports.Enricher {
	if disabled || !cfg.Enrichment.Enabled {
		return nil
	}
	return gprofiler.NewClient(
		cfg.Enrichment.BaseURL,
		cfg.Enrichment.Organism,
		cfg.Enrichment.Sources,
		cfg.Enrichment.Timeout,
	)
}

func applyOverride(target *string, value string) {
	if value != "" {
		*target = value
	}
}

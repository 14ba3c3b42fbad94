package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"crisprtme/adapters/stats"
	"crisprtme/domain/cohort"
	"crisprtme/internal/errors"
)

// Config represents the complete pipeline configuration
type Config struct {
	Paths      PathConfig
	Analysis   AnalysisConfig
	Enrichment EnrichmentConfig
}

// PathConfig holds input files and output directories
type PathConfig struct {
	ModelFile      string // model annotation CSV
	FitnessFile    string // CRISPR gene-effect CSV
	ExpressionFile string // log-TPM expression CSV
	ResultsDir     string // per-cancer association tables
	PostDir        string // overlap/enrichment outputs
	CompendiumFile string // IntOGen compendium TSV
	DriversFile    string // unfiltered drivers TSV
}

// AnalysisConfig holds the statistical thresholds
type AnalysisConfig struct {
	MinCohortSize int // cancer types below this are skipped
	MinPairs      int // genes below this are skipped
	TopSummary    int // genes per direction in the summary row
	TopOverlap    int // genes per direction in the overlap analysis
	PresenceGenes int // most recurrent genes in the presence matrix
}

// EnrichmentConfig holds g:Profiler settings
type EnrichmentConfig struct {
	Enabled  bool
	BaseURL  string
	Organism string
	Sources  []string
	Timeout  time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Paths: PathConfig{
			ModelFile:      getEnvOrDefault("MODEL_FILE", "Model.csv"),
			FitnessFile:    getEnvOrDefault("CRISPR_FILE", "CRISPRGeneEffect.csv"),
			ExpressionFile: getEnvOrDefault("EXPRESSION_FILE", "OmicsExpressionTPMLogp1HumanProteinCodingGenes.csv"),
			ResultsDir:     getEnvOrDefault("RESULTS_DIR", "Cancer_Specific_Results"),
			PostDir:        getEnvOrDefault("POST_DIR", "Enrichment_and_Overlap_Results"),
			CompendiumFile: getEnvOrDefault("COMPENDIUM_FILE", "Compendium_Cancer_Genes.tsv"),
			DriversFile:    getEnvOrDefault("DRIVERS_FILE", "Unfiltered_drivers.tsv"),
		},
		Analysis: AnalysisConfig{
			MinCohortSize: getEnvIntOrDefault("MIN_COHORT_SIZE", cohort.DefaultMinSize),
			MinPairs:      getEnvIntOrDefault("MIN_PAIRS", stats.MinPairedObservations),
			TopSummary:    getEnvIntOrDefault("TOP_SUMMARY", 3),
			TopOverlap:    getEnvIntOrDefault("TOP_OVERLAP", 100),
			PresenceGenes: getEnvIntOrDefault("PRESENCE_GENES", 60),
		},
		Enrichment: EnrichmentConfig{
			Enabled:  getEnvBoolOrDefault("ENRICHMENT_ENABLED", true),
			BaseURL:  getEnvOrDefault("GPROFILER_URL", "https://biit.cs.ut.ee/gprofiler"),
			Organism: getEnvOrDefault("GPROFILER_ORGANISM", "hsapiens"),
			Sources:  getEnvListOrDefault("GPROFILER_SOURCES", []string{"GO:BP", "KEGG"}),
			Timeout:  getEnvDurationOrDefault("GPROFILER_TIMEOUT", 30*time.Second),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Analysis.MinCohortSize < 1 {
		return errors.ConfigInvalid("MIN_COHORT_SIZE must be positive")
	}
	if config.Analysis.MinPairs < 3 {
		return errors.ConfigInvalid("MIN_PAIRS must be at least 3 for a defined p-value")
	}
	if config.Analysis.TopSummary < 1 || config.Analysis.TopOverlap < 1 {
		return errors.ConfigInvalid("top-gene counts must be positive")
	}
	if config.Enrichment.Enabled && config.Enrichment.BaseURL == "" {
		return errors.ConfigInvalid("GPROFILER_URL is required when enrichment is enabled")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

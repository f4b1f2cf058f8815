package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/config"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full story generation pipeline end-to-end",
	Long: `Orchestrates the entire generation process: exemplar ingestion -> guarded
multi-candidate drafting -> repair -> evaluation -> selection, repeated across
optimization rounds.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runGenerate,
}

var (
	genConfigPath  string
	genSpec        string
	genExemplar    string
	genExemplarURL string
	genOutDir      string
	genCandidates  int
	genRounds      int
	genMaxAttempts int
	genTemperature float64
	genAPIKey      string
	genUseBrowser  bool
	genVerbose     bool
	genParallel    bool
	genDatabaseURL string
)

func init() {
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	generateCmd.Flags().StringVarP(&genSpec, "spec", "s", "", "Path to story spec JSON file")
	generateCmd.Flags().StringVarP(&genExemplar, "exemplar", "e", "", "Path to exemplar text file (mutually exclusive with --exemplar-url)")
	generateCmd.Flags().StringVar(&genExemplarURL, "exemplar-url", "", "URL to fetch the exemplar from (mutually exclusive with --exemplar)")
	generateCmd.Flags().StringVarP(&genOutDir, "out", "o", "", "Output directory for run artifacts (defaults to runs/<story_id>)")
	generateCmd.Flags().IntVar(&genCandidates, "candidates", 0, "Candidates per optimization round")
	generateCmd.Flags().IntVar(&genRounds, "rounds", 0, "Maximum optimization rounds")
	generateCmd.Flags().IntVar(&genMaxAttempts, "max-attempts", 0, "Guard retry budget per beat")
	generateCmd.Flags().Float64Var(&genTemperature, "temperature", 0, "Initial sampling temperature")
	generateCmd.Flags().BoolVar(&genUseBrowser, "use-browser", false, "Use headless browser for script-rendered reading sites (requires Chrome)")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")
	generateCmd.Flags().BoolVar(&genParallel, "parallel", false, "Generate candidates concurrently")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	generateCmd.Flags().StringVar(&genAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for artifact persistence
	generateCmd.Flags().StringVar(&genDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Load config file if provided
	var cfg config.Config
	if genConfigPath != "" {
		loadedCfg, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
		if genVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", genConfigPath)
		}
	}

	// Apply CLI overrides; only flags the user actually set win over config
	if cmd.Flags().Changed("spec") {
		cfg.Spec = genSpec
	}
	if cmd.Flags().Changed("exemplar") {
		cfg.Exemplar = genExemplar
	}
	if cmd.Flags().Changed("exemplar-url") {
		cfg.ExemplarURL = genExemplarURL
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = genOutDir
	}
	if cmd.Flags().Changed("candidates") {
		cfg.Candidates = genCandidates
	}
	if cmd.Flags().Changed("rounds") {
		cfg.Rounds = genRounds
	}
	if cmd.Flags().Changed("max-attempts") {
		cfg.MaxAttempts = genMaxAttempts
	}
	if cmd.Flags().Changed("temperature") {
		cfg.Temperature = genTemperature
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = genAPIKey
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = genUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = genVerbose
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Parallel = genParallel
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = genDatabaseURL
	}

	// Fill unset knobs with defaults
	defaults := config.Config{
		Candidates:  3,
		Rounds:      3,
		MaxAttempts: 3,
		Temperature: 0.85,
	}
	cfg = cfg.MergeWithDefaults(defaults)

	// Validate required inputs
	if cfg.Spec == "" {
		return fmt.Errorf("--spec is required (via flag or config)")
	}
	if cfg.Exemplar == "" && cfg.ExemplarURL == "" {
		return fmt.Errorf("either --exemplar or --exemplar-url must be provided (via flag or config)")
	}
	if cfg.Exemplar != "" && cfg.ExemplarURL != "" {
		return fmt.Errorf("--exemplar and --exemplar-url are mutually exclusive; provide only one")
	}

	// API key handling
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	// Database URL is optional; runs persist to disk either way
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	opts := pipeline.RunOptions{
		SpecPath:     cfg.Spec,
		ExemplarPath: cfg.Exemplar,
		ExemplarURL:  cfg.ExemplarURL,
		OutputDir:    cfg.OutputDir,
		Candidates:   cfg.Candidates,
		Rounds:       cfg.Rounds,
		MaxAttempts:  cfg.MaxAttempts,
		Temperature:  cfg.Temperature,
		APIKey:       cfg.APIKey,
		UseBrowser:   cfg.UseBrowser,
		Verbose:      cfg.Verbose,
		Parallel:     cfg.Parallel,
		DatabaseURL:  cfg.DatabaseURL,
	}

	_, err := pipeline.RunPipeline(ctx, opts)
	return err
}

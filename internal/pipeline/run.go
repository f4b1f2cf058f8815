// Package pipeline provides the high-level orchestration for the story generation process.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/db"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/evaluation"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/generation"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/ingestion"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/llm"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/observability"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/optimization"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/pipeline/steps"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/schemas"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/selection"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	SpecPath     string
	ExemplarPath string
	ExemplarURL  string
	OutputDir    string
	Candidates   int
	Rounds       int
	MaxAttempts  int
	Temperature  float64
	APIKey       string
	UseBrowser   bool
	Verbose      bool
	Parallel     bool
	DatabaseURL  string
	OnProgress   ProgressCallback
}

// RunResult is what the pipeline hands back to the caller: the winning text,
// its evaluation, and where the artifacts were written.
type RunResult struct {
	RunID     uuid.UUID
	FinalText string
	Report    types.EvalReport
	Verdict   types.GuardVerdict
	History   []optimization.RoundSummary
	OutputDir string
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			Content: content,
		})
	}
}

// RunPipeline orchestrates the full story generation pipeline: exemplar
// ingestion, guarded multi-candidate generation across optimization rounds,
// and artifact output.
func RunPipeline(ctx context.Context, opts RunOptions) (*RunResult, error) {
	printer := observability.NewPrinter(os.Stdout)
	tracker := steps.NewTracker()

	// Initialize database connection if configured
	var database *db.DB
	var runID uuid.UUID
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
			database = nil
		} else {
			defer database.Close()
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Connected to database\n")
			}
		}
	}

	// Step 1: Ingest exemplar (from URL or file)
	if err := tracker.Start(steps.IngestExemplar); err != nil {
		return nil, err
	}
	var exemplar string
	var exemplarMeta *ingestion.Metadata
	var err error

	if opts.ExemplarURL != "" {
		fmt.Printf("Step 1/5: Ingesting exemplar from URL: %s...\n", opts.ExemplarURL)
		exemplar, exemplarMeta, err = ingestion.IngestFromURL(ctx, opts.ExemplarURL, opts.APIKey, opts.UseBrowser, opts.Verbose)
		if err != nil {
			return nil, fmt.Errorf("exemplar ingestion from URL failed: %w", err)
		}
	} else {
		fmt.Printf("Step 1/5: Ingesting exemplar from file: %s...\n", opts.ExemplarPath)
		exemplar, exemplarMeta, err = ingestion.IngestFromFile(opts.ExemplarPath)
		if err != nil {
			return nil, fmt.Errorf("exemplar ingestion from file failed: %w", err)
		}
	}
	tracker.Complete(steps.IngestExemplar)
	emitProgress(&opts, steps.IngestExemplar,
		fmt.Sprintf("Ingested exemplar: %d words", exemplarMeta.WordCount), nil)

	// Step 2: Load and validate the story spec
	if err := tracker.Start(steps.LoadSpec); err != nil {
		return nil, err
	}
	fmt.Printf("Step 2/5: Loading story spec: %s...\n", opts.SpecPath)
	spec, err := LoadStorySpec(opts.SpecPath)
	if err != nil {
		return nil, fmt.Errorf("loading story spec failed: %w", err)
	}
	if opts.Verbose {
		printer.PrintStorySpec(spec)
	}
	tracker.Complete(steps.LoadSpec)
	emitProgress(&opts, steps.LoadSpec,
		fmt.Sprintf("Loaded spec %s: %d beats", spec.Meta.StoryID, len(spec.Form.BeatMap)), nil)

	// Create the database run and save input artifacts
	if database != nil {
		runID, err = database.CreateRun(ctx, spec.Meta.StoryID, opts.ExemplarURL)
		if err != nil {
			fmt.Printf("Warning: Failed to create database run: %v\n", err)
		} else {
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Created database run: %s\n", runID)
			}
			_ = database.SaveTextArtifact(ctx, runID, db.StepExemplar, db.CategoryIngestion, exemplar)
			_ = database.SaveArtifact(ctx, runID, db.StepStorySpec, db.CategoryIngestion, spec)
		}
	}

	// Prepare the output directory and decision log before any generation.
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = filepath.Join("runs", spec.Meta.StoryID)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	decisionFile, err := os.Create(filepath.Join(outDir, "decisions.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to create decision log: %w", err)
	}
	defer func() { _ = decisionFile.Close() }()
	decisions := observability.NewDecisionLog(decisionFile)

	// LLM client shared across all rounds
	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), opts.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	// Step 3: Optimization rounds of guarded multi-candidate generation
	if err := tracker.Start(steps.GenerateRounds); err != nil {
		return nil, err
	}
	fmt.Printf("Step 3/5: Generating candidates (%d per round, up to %d rounds)...\n",
		opts.Candidates, opts.Rounds)

	thresholds := spec.Constraints.AntiPlagiarism
	round := 0

	selectRound := func(ctx context.Context, params types.ParameterVector) (types.SelectionResult, []*types.CandidateResult, error) {
		round++
		roundSpec := params.ApplyToSpec(spec)
		generator := generation.NewGenerator(client, roundSpec, params.Temperature)
		repairer := generation.NewRepairer(client, roundSpec)

		p := selection.Pipeline{
			GenerateBeat: generator.GenerateBeat,
			Stitch:       generation.Stitch,
			Repair:       repairer.Repair,
			Score: func(_ context.Context, text string) (types.EvalReport, error) {
				return evaluation.Evaluate(text, roundSpec, exemplar, params.ObjectiveWeights), nil
			},
		}

		result, candidates, err := selection.SelectBest(ctx, roundSpec, exemplar, p, selection.Options{
			Candidates:  opts.Candidates,
			Thresholds:  thresholds,
			MaxAttempts: opts.MaxAttempts,
			Parallel:    opts.Parallel,
		})
		if err != nil {
			return result, candidates, err
		}

		for _, cand := range candidates {
			if opts.Verbose {
				printer.PrintGuardVerdict(cand.ID, &cand.GuardVerdict)
				printer.PrintEvalReport(&cand.Score)
			}
			_ = decisions.Record("guard", cand.ID, verdictWord(cand.GuardVerdict.Passed), map[string]any{
				"round":            round,
				"max_shared_ngram": cand.GuardVerdict.MaxSharedNgram,
				"overlap_pct":      cand.GuardVerdict.OverlapPct,
				"simhash_distance": cand.GuardVerdict.HammingDistance,
				"attempts":         cand.AttemptCount,
			})
			if database != nil && runID != uuid.Nil {
				_ = database.SaveCandidate(ctx, runID, round, cand)
			}
		}

		if opts.Verbose {
			printer.PrintSelection(&result)
		}
		_ = decisions.Record("selection", result.WinnerID, result.TieBreakReason, map[string]any{
			"round":  round,
			"ranked": result.RankedIDs,
		})
		if database != nil && runID != uuid.Nil {
			_ = database.SaveSelection(ctx, runID, round, result)
		}

		return result, candidates, nil
	}

	initial := types.ParamsFromSpec(spec)
	if opts.Temperature > 0 {
		initial.Temperature = opts.Temperature
	}

	optResult, err := optimization.Run(ctx, initial, selectRound, optimization.Options{
		Rounds:             opts.Rounds,
		CandidatesPerRound: opts.Candidates,
	})
	if err != nil {
		return nil, fmt.Errorf("optimization loop failed: %w", err)
	}
	if optResult.Best == nil {
		return nil, fmt.Errorf("no candidate survived any round")
	}
	tracker.Complete(steps.GenerateRounds)

	for _, summary := range optResult.History {
		if opts.Verbose {
			printer.PrintRound(summary.Round, summary.WinnerID, summary.Overall, summary.Improvement)
		}
		_ = decisions.Record("round", summary.WinnerID, summary.TieBreakReason, map[string]any{
			"round":       summary.Round,
			"overall":     summary.Overall,
			"improvement": summary.Improvement,
		})
		if database != nil && runID != uuid.Nil {
			_ = database.SaveRound(ctx, runID, summary.Round, summary)
		}
	}

	// Step 4: Final selection across all rounds
	if err := tracker.Start(steps.SelectWinner); err != nil {
		return nil, err
	}
	fmt.Printf("Step 4/5: Selected %s (overall %.3f, stopped: %s)\n",
		optResult.Best.ID, optResult.Best.Score.Overall, optResult.Stopped)
	_ = decisions.Record("final", optResult.Best.ID, optResult.Stopped, map[string]any{
		"overall":   optResult.Best.Score.Overall,
		"freshness": optResult.Best.Score.Freshness,
		"rounds":    len(optResult.History),
	})
	tracker.Complete(steps.SelectWinner)

	// Step 5: Write artifacts
	if err := tracker.Start(steps.WriteOutput); err != nil {
		return nil, err
	}
	fmt.Printf("Step 5/5: Writing artifacts to %s...\n", outDir)
	if err := writeArtifacts(outDir, exemplar, exemplarMeta, optResult); err != nil {
		return nil, err
	}
	if database != nil && runID != uuid.Nil {
		_ = database.SaveTextArtifact(ctx, runID, db.StepFinalDraft, db.CategoryOutput, optResult.Best.FinalText())
		_ = database.SaveArtifact(ctx, runID, db.StepFinalReport, db.CategoryOutput, optResult.Best.Score)
		_ = database.CompleteRun(ctx, runID, db.RunStatusCompleted)
	}
	tracker.Complete(steps.WriteOutput)

	if !optResult.Best.GuardVerdict.Passed {
		fmt.Printf("⚠️ Warning: best candidate did not pass the plagiarism guard; output is best-effort.\n")
	} else {
		fmt.Printf("✅ Done! Final draft written to %s\n", filepath.Join(outDir, "final_draft.txt"))
	}

	return &RunResult{
		RunID:     runID,
		FinalText: optResult.Best.FinalText(),
		Report:    optResult.Best.Score,
		Verdict:   optResult.Best.GuardVerdict,
		History:   optResult.History,
		OutputDir: outDir,
	}, nil
}

// LoadStorySpec reads a story spec from disk, validates it against the JSON
// schema when the schema file can be found, and unmarshals it.
func LoadStorySpec(path string) (*types.StorySpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}

	if schemaPath := schemas.ResolveSchemaPath(filepath.Join("schemas", "story_spec.schema.json")); schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, path); err != nil {
			return nil, err
		}
	}

	var spec types.StorySpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse spec file: %w", err)
	}
	if len(spec.Form.BeatMap) == 0 {
		return nil, fmt.Errorf("spec has no beats in form.beat_map")
	}
	return &spec, nil
}

// writeArtifacts persists the run outputs: exemplar metadata, the final
// draft, its evaluation report, and the per-round history.
func writeArtifacts(outDir, exemplar string, meta *ingestion.Metadata, optResult optimization.Result) error {
	if err := ingestion.WriteOutput(outDir, exemplar, meta); err != nil {
		return err
	}

	best := optResult.Best
	if err := os.WriteFile(filepath.Join(outDir, "final_draft.txt"), []byte(best.FinalText()), 0644); err != nil {
		return fmt.Errorf("failed to write final draft: %w", err)
	}

	reportJSON, err := json.MarshalIndent(best.Score, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal eval report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "final_report.json"), reportJSON, 0644); err != nil {
		return fmt.Errorf("failed to write eval report: %w", err)
	}

	verdictJSON, err := json.MarshalIndent(best.GuardVerdict, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal guard verdict: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "guard_verdict.json"), verdictJSON, 0644); err != nil {
		return fmt.Errorf("failed to write guard verdict: %w", err)
	}

	historyJSON, err := json.MarshalIndent(optResult.History, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal round history: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "rounds.json"), historyJSON, 0644); err != nil {
		return fmt.Errorf("failed to write round history: %w", err)
	}

	return nil
}

func verdictWord(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}

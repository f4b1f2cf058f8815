package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

// Artifact step names for the generation pipeline
const (
	StepStorySpec   = "story_spec"
	StepExemplar    = "exemplar"
	StepFinalDraft  = "final_draft"
	StepFinalReport = "final_report"
	StepDecisionLog = "decision_log"
)

// Artifact categories group steps by pipeline stage
const (
	CategoryIngestion    = "ingestion"
	CategoryGeneration   = "generation"
	CategoryEvaluation   = "evaluation"
	CategoryOptimization = "optimization"
	CategoryOutput       = "output"
)

// SaveRound stores one optimization round's summary, keyed by round number.
func (db *DB) SaveRound(ctx context.Context, runID uuid.UUID, round int, summary any) error {
	jsonBytes, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal round summary: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO rounds (run_id, round, summary)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, round) DO UPDATE SET summary = $3`,
		runID, round, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save round %d: %w", round, err)
	}
	return nil
}

// SaveCandidate stores one candidate's final state for a round: text, guard
// verdict, and evaluation report.
func (db *DB) SaveCandidate(ctx context.Context, runID uuid.UUID, round int, cand *types.CandidateResult) error {
	verdictJSON, err := json.Marshal(cand.GuardVerdict)
	if err != nil {
		return fmt.Errorf("failed to marshal guard verdict: %w", err)
	}
	scoreJSON, err := json.Marshal(cand.Score)
	if err != nil {
		return fmt.Errorf("failed to marshal eval report: %w", err)
	}

	var candErr *string
	if cand.Err != "" {
		candErr = &cand.Err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO candidates (run_id, round, candidate_id, text, attempts, guard_verdict, eval_report, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (run_id, round, candidate_id)
		 DO UPDATE SET text = $4, attempts = $5, guard_verdict = $6, eval_report = $7, error = $8`,
		runID, round, cand.ID, cand.FinalText(), cand.AttemptCount, verdictJSON, scoreJSON, candErr,
	)
	if err != nil {
		return fmt.Errorf("failed to save candidate %s: %w", cand.ID, err)
	}
	return nil
}

// SaveSelection stores a round's selection outcome.
func (db *DB) SaveSelection(ctx context.Context, runID uuid.UUID, round int, sel types.SelectionResult) error {
	rankedJSON, err := json.Marshal(sel.RankedIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal ranking: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO selections (run_id, round, winner_id, ranked_ids, tie_break_reason)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (run_id, round)
		 DO UPDATE SET winner_id = $3, ranked_ids = $4, tie_break_reason = $5`,
		runID, round, sel.WinnerID, rankedJSON, sel.TieBreakReason,
	)
	if err != nil {
		return fmt.Errorf("failed to save selection for round %d: %w", round, err)
	}
	return nil
}

// Package optimization wraps the candidate selector in a multi-round loop
// that nudges the generation parameters between rounds and stops early once
// improvement plateaus.
package optimization

import (
	"context"
	"fmt"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

// Defaults for the optimization loop.
const (
	DefaultRounds             = 5
	DefaultEarlyStopDelta     = 0.01
	DefaultCandidatesPerRound = 3

	// plateauRounds is how many consecutive low-improvement rounds are needed
	// before stopping; one round alone can be noise.
	plateauRounds = 2

	// lowScore marks a sub-score as worth correcting.
	lowScore = 0.6
	// highFreshness marks freshness as high enough to trade some novelty for fit.
	highFreshness = 0.9
)

// Adjustment step sizes, all fixed-direction nudges.
const (
	beatTargetStep     = 0.10 // fraction of the current beat target
	avgSentenceLenStep = 1.5
	dialogueRatioStep  = 0.03
	temperatureStep    = 0.05
)

// SelectFunc runs one full selector round against a frozen parameter vector
// and returns the round's selection result plus every candidate.
type SelectFunc func(ctx context.Context, params types.ParameterVector) (types.SelectionResult, []*types.CandidateResult, error)

// RoundSummary records the outcome of one round.
type RoundSummary struct {
	Round          int                   `json:"round"`
	WinnerID       string                `json:"winner_id"`
	Overall        float64               `json:"overall"`
	Improvement    float64               `json:"improvement"`
	TieBreakReason string                `json:"tie_break_reason"`
	Params         types.ParameterVector `json:"params"`
}

// Result is the terminal state of an optimization run. Best is the best-ever
// candidate across all rounds, not necessarily the last round's winner, since
// later rounds can regress.
type Result struct {
	BestParams types.ParameterVector `json:"best_params"`
	Best       *types.CandidateResult `json:"best_candidate"`
	History    []RoundSummary        `json:"history"`
	Stopped    string                `json:"stopped"` // "plateau" or "rounds_exhausted"
}

// Options configures the loop.
type Options struct {
	Rounds             int
	EarlyStopDelta     float64
	CandidatesPerRound int
}

func (o *Options) setDefaults() {
	if o.Rounds <= 0 {
		o.Rounds = DefaultRounds
	}
	if o.EarlyStopDelta <= 0 {
		o.EarlyStopDelta = DefaultEarlyStopDelta
	}
	if o.CandidatesPerRound <= 0 {
		o.CandidatesPerRound = DefaultCandidatesPerRound
	}
}

// Run executes up to opts.Rounds selector rounds. Every candidate within a
// round observes the identical frozen parameter vector; adjustments happen
// only between rounds, on a fresh copy, and are clamped to documented bounds.
// The loop stops early after two consecutive rounds whose improvement over
// the prior round is below EarlyStopDelta.
func Run(ctx context.Context, initial types.ParameterVector, selectRound SelectFunc, opts Options) (Result, error) {
	opts.setDefaults()

	params := initial.Clone()
	params.Clamp()

	result := Result{Stopped: "rounds_exhausted"}
	prevScore := 0.0
	plateau := 0
	bestScore := -1.0

	for round := 1; round <= opts.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		frozen := params.Clone()
		selection, candidates, err := selectRound(ctx, frozen)
		if err != nil {
			return result, fmt.Errorf("round %d failed: %w", round, err)
		}

		winner := findCandidate(candidates, selection.WinnerID)
		if winner == nil {
			return result, fmt.Errorf("round %d: winner %s not in candidate list", round, selection.WinnerID)
		}

		improvement := 0.0
		if round > 1 {
			improvement = winner.Score.Overall - prevScore
		}
		prevScore = winner.Score.Overall

		result.History = append(result.History, RoundSummary{
			Round:          round,
			WinnerID:       selection.WinnerID,
			Overall:        winner.Score.Overall,
			Improvement:    improvement,
			TieBreakReason: selection.TieBreakReason,
			Params:         frozen,
		})

		if winner.Score.Overall > bestScore {
			bestScore = winner.Score.Overall
			result.Best = winner
			result.BestParams = frozen
		}

		if round > 1 && improvement < opts.EarlyStopDelta {
			plateau++
			if plateau >= plateauRounds {
				result.Stopped = "plateau"
				return result, nil
			}
		} else if round > 1 {
			plateau = 0
		}

		params = adjust(frozen, winner.Score)
	}

	return result, nil
}

func findCandidate(candidates []*types.CandidateResult, id string) *types.CandidateResult {
	for _, c := range candidates {
		if c != nil && c.ID == id {
			return c
		}
	}
	return nil
}

// adjust applies the fixed-direction heuristics to a fresh copy of params,
// driven by the winning candidate's sub-scores, and clamps the result.
func adjust(params types.ParameterVector, score types.EvalReport) types.ParameterVector {
	next := params.Clone()

	// Low formfit on a beat: move that beat's target toward what the
	// generator actually produced.
	for _, beat := range score.PerBeat {
		if beat.Formfit >= lowScore {
			continue
		}
		target, ok := next.BeatTargetWords[beat.ID]
		if !ok || target == 0 {
			continue
		}
		step := int(float64(target) * beatTargetStep)
		if step == 0 {
			step = 1
		}
		if beat.WordsDelta > 0 {
			next.BeatTargetWords[beat.ID] = target + step
		} else {
			next.BeatTargetWords[beat.ID] = target - step
		}
	}

	// Low stylefit: nudge the sentence-length target toward the measured value.
	if stylefit, ok := score.SubScore(types.MetricStylefit); ok && stylefit < lowScore {
		if delta, ok := score.SubScore("avg_sentence_len_delta"); ok && delta < 0 {
			next.AvgSentenceLen -= avgSentenceLenStep
		} else {
			next.AvgSentenceLen += avgSentenceLenStep
		}
	}

	// Low dialogue balance: nudge the ratio toward the measured value.
	if balance, ok := score.SubScore(types.MetricDialogueBalance); ok && balance < lowScore {
		if delta, ok := score.SubScore("dialogue_ratio_delta"); ok && delta < 0 {
			next.DialogueRatio -= dialogueRatioStep
		} else {
			next.DialogueRatio += dialogueRatioStep
		}
	}

	// Low freshness: sample hotter. Very high freshness: cool down and let the
	// other metrics catch up.
	if score.Freshness < lowScore {
		next.Temperature += temperatureStep
	} else if score.Freshness > highFreshness {
		next.Temperature -= temperatureStep
	}

	next.Clamp()
	return next
}

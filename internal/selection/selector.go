// Package selection runs the per-candidate generation pipeline across several
// independent candidates and picks a winner by a documented tie-break order.
package selection

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/guard"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

// scoreEpsilon is the float tolerance for an exact tie in overall score.
const scoreEpsilon = 1e-9

// Pipeline bundles the external collaborators one candidate flows through.
// All four are treated as black boxes; only the guard between stages is owned
// by this package.
type Pipeline struct {
	// GenerateBeat produces draft text for one beat. beatContext carries the
	// texts of the beats generated so far; feedback carries guard violation
	// descriptions from the prior attempt at this beat.
	GenerateBeat func(ctx context.Context, beat types.BeatSpec, beatContext []string, feedback []string) (string, error)
	// Stitch joins the ordered beat texts into one draft.
	Stitch func(beatTexts []string) string
	// Repair is an LLM cleanup pass over the stitched draft. It must return
	// text of comparable length and is re-guarded afterwards.
	Repair func(ctx context.Context, text string, violations []string) (string, error)
	// Score evaluates the final text and returns the multi-metric report.
	Score func(ctx context.Context, text string) (types.EvalReport, error)
}

// Options configures one selector invocation.
type Options struct {
	Candidates  int
	Thresholds  types.Thresholds
	MaxAttempts int
	// Parallel runs candidates concurrently. Candidates never interact and the
	// caller's parameters are frozen for the round, so this is safe.
	Parallel bool
}

// SelectBest generates opts.Candidates independent drafts of spec through the
// pipeline and selects a winner:
//
//  1. among guard-passing candidates, the highest overall score wins;
//  2. overall ties within epsilon fall back to the highest freshness;
//  3. if every candidate fails the guard, the one with the least severe
//     violation profile wins, so the system always produces a best-effort output.
//
// The applied rule is recorded in SelectionResult.TieBreakReason. The full
// candidate list is returned alongside the result; errored candidates are
// excluded from ranking but still present with Err set.
func SelectBest(ctx context.Context, spec *types.StorySpec, exemplar string, p Pipeline, opts Options) (types.SelectionResult, []*types.CandidateResult, error) {
	if opts.Candidates <= 0 {
		opts.Candidates = 3
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = guard.DefaultMaxAttempts
	}

	candidates := make([]*types.CandidateResult, opts.Candidates)
	run := func(i int) {
		candidates[i] = runCandidate(ctx, fmt.Sprintf("cand_%03d", i+1), spec, exemplar, p, opts)
	}

	if opts.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < opts.Candidates; i++ {
			i := i
			g.Go(func() error {
				_ = gctx // candidates keep the parent context; a sibling failure is not fatal
				run(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := 0; i < opts.Candidates; i++ {
			run(i)
		}
	}

	result, err := rank(candidates, opts.Thresholds)
	return result, candidates, err
}

// runCandidate takes one candidate through every pipeline stage. Stage
// failures are recorded on the result rather than aborting the round.
func runCandidate(ctx context.Context, id string, spec *types.StorySpec, exemplar string, p Pipeline, opts Options) *types.CandidateResult {
	cand := &types.CandidateResult{ID: id}

	// Per-beat generation through the retry controller. AttemptCount records
	// the worst retry depth any beat needed.
	for _, beat := range spec.Form.BeatMap {
		beat := beat
		beatContext := cand.BeatTexts
		gen := func(gctx context.Context, feedback []string) (string, error) {
			return p.GenerateBeat(gctx, beat, beatContext, feedback)
		}
		attempt, err := guard.GenerateWithGuard(ctx, gen, exemplar, opts.Thresholds, opts.MaxAttempts)
		if err != nil {
			cand.Err = fmt.Sprintf("beat %s: %v", beat.ID, err)
			return cand
		}
		if attempt.Attempts > cand.AttemptCount {
			cand.AttemptCount = attempt.Attempts
		}
		cand.BeatTexts = append(cand.BeatTexts, attempt.Text)
	}

	cand.StitchedText = p.Stitch(cand.BeatTexts)
	stitchedVerdict := guard.Evaluate(cand.StitchedText, exemplar, opts.Thresholds)

	// Repair always runs; even a passing draft gets the cleanup pass. A repair
	// failure falls back to the stitched draft rather than losing the candidate.
	repaired, err := p.Repair(ctx, cand.StitchedText, stitchedVerdict.ViolationDetails())
	if err != nil || repaired == "" {
		repaired = cand.StitchedText
	}
	cand.RepairedText = repaired

	// Repair must not reintroduce violations silently: re-check at the
	// original thresholds.
	cand.GuardVerdict = guard.Evaluate(cand.RepairedText, exemplar, opts.Thresholds)

	report, err := p.Score(ctx, cand.RepairedText)
	if err != nil {
		cand.Err = fmt.Sprintf("score: %v", err)
		return cand
	}
	report.CandidateID = cand.ID
	cand.Score = report
	return cand
}

// rank orders the candidates and applies the tie-break rules.
func rank(candidates []*types.CandidateResult, th types.Thresholds) (types.SelectionResult, error) {
	scored := make([]*types.CandidateResult, 0, len(candidates))
	for _, c := range candidates {
		if c.Err == "" {
			scored = append(scored, c)
		}
	}
	if len(scored) == 0 {
		return types.SelectionResult{}, ErrAllCandidatesErrored
	}

	var passing, failing []*types.CandidateResult
	for _, c := range scored {
		if c.GuardVerdict.Passed {
			passing = append(passing, c)
		} else {
			failing = append(failing, c)
		}
	}

	// Passing candidates rank by overall desc, freshness desc, ID asc.
	sort.SliceStable(passing, func(i, j int) bool {
		if math.Abs(passing[i].Score.Overall-passing[j].Score.Overall) > scoreEpsilon {
			return passing[i].Score.Overall > passing[j].Score.Overall
		}
		if math.Abs(passing[i].Score.Freshness-passing[j].Score.Freshness) > scoreEpsilon {
			return passing[i].Score.Freshness > passing[j].Score.Freshness
		}
		return passing[i].ID < passing[j].ID
	})
	// Failing candidates rank by least severe violation profile.
	sort.SliceStable(failing, func(i, j int) bool {
		return guard.Severity(failing[i].GuardVerdict, th) < guard.Severity(failing[j].GuardVerdict, th)
	})

	ranked := append(append([]*types.CandidateResult{}, passing...), failing...)
	rankedIDs := make([]string, len(ranked))
	for i, c := range ranked {
		rankedIDs[i] = c.ID
	}

	result := types.SelectionResult{
		WinnerID:  ranked[0].ID,
		RankedIDs: rankedIDs,
	}

	switch {
	case len(passing) == 0:
		result.TieBreakReason = types.TieBreakAllFailed
	case len(passing) > 1 && math.Abs(passing[0].Score.Overall-passing[1].Score.Overall) <= scoreEpsilon:
		result.TieBreakReason = types.TieBreakFreshness
	default:
		result.TieBreakReason = types.TieBreakScore
	}
	return result, nil
}

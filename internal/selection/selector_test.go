package selection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

const testExemplar = "the quick brown fox jumps over the lazy dog " +
	"the quick brown fox jumps over the lazy dog " +
	"the quick brown fox jumps over the lazy dog"

var testBeats = []types.BeatSpec{
	{ID: "cold_open", TargetWords: 40, Function: "hook", Cadence: "short"},
	{ID: "inciting_turn", TargetWords: 60, Function: "turn", Cadence: "mixed"},
}

func specWithBeats() *types.StorySpec {
	return &types.StorySpec{
		Meta:  types.MetaInfo{StoryID: "story_test"},
		Voice: types.Voice{Person: "third-limited", Tense: types.TenseStrategy{Primary: "past"}, Syntax: types.Syntax{AvgSentenceLen: 14}},
		Form:  types.Form{BeatMap: testBeats, DialogueRatio: 0.1},
	}
}

// cleanBeatText returns per-beat text that shares no vocabulary with the exemplar.
func cleanBeatText(beat types.BeatSpec) string {
	return fmt.Sprintf("inside beat %s machines hummed beneath corrugated panels while "+
		"technicians traded rumors and swapped gaskets during overnight maintenance windows", beat.ID)
}

// stubPipeline builds a pipeline whose scores are served per candidate in order.
func stubPipeline(t *testing.T, scores []types.EvalReport) (Pipeline, *int) {
	t.Helper()
	var mu sync.Mutex
	scoreCalls := 0
	p := Pipeline{
		GenerateBeat: func(_ context.Context, beat types.BeatSpec, _ []string, _ []string) (string, error) {
			return cleanBeatText(beat), nil
		},
		Stitch: func(beatTexts []string) string { return strings.Join(beatTexts, "\n\n") },
		Repair: func(_ context.Context, text string, _ []string) (string, error) { return text, nil },
		Score: func(_ context.Context, _ string) (types.EvalReport, error) {
			mu.Lock()
			defer mu.Unlock()
			report := scores[scoreCalls%len(scores)]
			scoreCalls++
			return report, nil
		},
	}
	return p, &scoreCalls
}

func TestSelectBestHighestOverallWins(t *testing.T) {
	p, _ := stubPipeline(t, []types.EvalReport{
		{Overall: 0.6, Freshness: 0.9},
		{Overall: 0.8, Freshness: 0.5},
		{Overall: 0.7, Freshness: 0.7},
	})
	result, candidates, err := SelectBest(context.Background(), specWithBeats(), testExemplar, p, Options{
		Candidates: 3, Thresholds: types.DefaultThresholds(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WinnerID != "cand_002" {
		t.Errorf("winner = %s, want cand_002", result.WinnerID)
	}
	if result.TieBreakReason != types.TieBreakScore {
		t.Errorf("tie break reason = %q, want %q", result.TieBreakReason, types.TieBreakScore)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	for _, c := range candidates {
		if !c.GuardVerdict.Passed {
			t.Errorf("candidate %s unexpectedly failed guard: %v", c.ID, c.GuardVerdict.ViolationDetails())
		}
		if len(c.BeatTexts) != len(testBeats) {
			t.Errorf("candidate %s has %d beat texts, want %d", c.ID, len(c.BeatTexts), len(testBeats))
		}
	}
}

func TestSelectBestFreshnessTiebreak(t *testing.T) {
	// Overall scores [0.7, 0.85, 0.85], freshness [0.5, 0.6, 0.9]:
	// second and third tie on overall, third wins on freshness.
	p, _ := stubPipeline(t, []types.EvalReport{
		{Overall: 0.7, Freshness: 0.5},
		{Overall: 0.85, Freshness: 0.6},
		{Overall: 0.85, Freshness: 0.9},
	})
	result, _, err := SelectBest(context.Background(), specWithBeats(), testExemplar, p, Options{
		Candidates: 3, Thresholds: types.DefaultThresholds(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WinnerID != "cand_003" {
		t.Errorf("winner = %s, want cand_003", result.WinnerID)
	}
	if result.TieBreakReason != types.TieBreakFreshness {
		t.Errorf("tie break reason = %q, want %q", result.TieBreakReason, types.TieBreakFreshness)
	}
	if result.RankedIDs[0] != "cand_003" || result.RankedIDs[1] != "cand_002" || result.RankedIDs[2] != "cand_001" {
		t.Errorf("unexpected ranking: %v", result.RankedIDs)
	}
}

func TestSelectBestAllFailedFallback(t *testing.T) {
	// Every candidate's repair returns the exemplar verbatim, so every final
	// guard check fails; the selector must still produce a winner.
	p, _ := stubPipeline(t, []types.EvalReport{{Overall: 0.9, Freshness: 0.9}})
	p.Repair = func(_ context.Context, _ string, _ []string) (string, error) {
		return testExemplar, nil
	}
	result, candidates, err := SelectBest(context.Background(), specWithBeats(), testExemplar, p, Options{
		Candidates: 3, Thresholds: types.DefaultThresholds(),
	})
	if err != nil {
		t.Fatalf("all-failed rounds are best-effort, not errors: %v", err)
	}
	if result.TieBreakReason != types.TieBreakAllFailed {
		t.Errorf("tie break reason = %q, want %q", result.TieBreakReason, types.TieBreakAllFailed)
	}
	if result.WinnerID == "" {
		t.Error("all-failed fallback must still name a winner")
	}
	for _, c := range candidates {
		if c.GuardVerdict.Passed {
			t.Errorf("candidate %s should have failed the final guard", c.ID)
		}
	}
}

func TestSelectBestRepairCannotSilentlyReintroduceViolations(t *testing.T) {
	// Beats pass the guard, but repair swaps in exemplar text. The final
	// verdict must reflect the repaired text, not the stitched one.
	p, _ := stubPipeline(t, []types.EvalReport{{Overall: 0.9, Freshness: 0.9}})
	p.Repair = func(_ context.Context, _ string, _ []string) (string, error) {
		return testExemplar, nil
	}
	_, candidates, err := SelectBest(context.Background(), specWithBeats(), testExemplar, p, Options{
		Candidates: 1, Thresholds: types.DefaultThresholds(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidates[0].GuardVerdict.Passed {
		t.Error("repaired text that copies the exemplar must fail the re-check")
	}
	if len(candidates[0].GuardVerdict.Violations) == 0 {
		t.Error("violations must be enumerated on the final verdict")
	}
}

func TestSelectBestRepairErrorFallsBackToStitched(t *testing.T) {
	p, _ := stubPipeline(t, []types.EvalReport{{Overall: 0.5, Freshness: 0.5}})
	p.Repair = func(_ context.Context, _ string, _ []string) (string, error) {
		return "", errors.New("repair model unavailable")
	}
	_, candidates, err := SelectBest(context.Background(), specWithBeats(), testExemplar, p, Options{
		Candidates: 1, Thresholds: types.DefaultThresholds(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := candidates[0]
	if c.RepairedText != c.StitchedText {
		t.Error("failed repair should fall back to the stitched text")
	}
	if !c.GuardVerdict.Passed {
		t.Errorf("fallback text should still pass: %v", c.GuardVerdict.ViolationDetails())
	}
}

func TestSelectBestAllErrored(t *testing.T) {
	p, _ := stubPipeline(t, []types.EvalReport{{}})
	p.GenerateBeat = func(_ context.Context, _ types.BeatSpec, _ []string, _ []string) (string, error) {
		return "", errors.New("model down")
	}
	_, candidates, err := SelectBest(context.Background(), specWithBeats(), testExemplar, p, Options{
		Candidates: 2, Thresholds: types.DefaultThresholds(),
	})
	if !errors.Is(err, ErrAllCandidatesErrored) {
		t.Fatalf("err = %v, want ErrAllCandidatesErrored", err)
	}
	for _, c := range candidates {
		if c.Err == "" {
			t.Errorf("candidate %s should carry its pipeline error", c.ID)
		}
	}
}

func TestSelectBestParallelMatchesSequentialShape(t *testing.T) {
	p, scoreCalls := stubPipeline(t, []types.EvalReport{{Overall: 0.7, Freshness: 0.7}})
	result, candidates, err := SelectBest(context.Background(), specWithBeats(), testExemplar, p, Options{
		Candidates: 4, Thresholds: types.DefaultThresholds(), Parallel: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(candidates))
	}
	if *scoreCalls != 4 {
		t.Errorf("score called %d times, want 4", *scoreCalls)
	}
	for i, c := range candidates {
		if c == nil {
			t.Fatalf("candidate slot %d not filled", i)
		}
		if c.ID != fmt.Sprintf("cand_%03d", i+1) {
			t.Errorf("candidate %d has ID %s; slots must be stable under parallelism", i, c.ID)
		}
	}
	if result.WinnerID == "" {
		t.Error("expected a winner")
	}
}

func TestSelectBestAttemptCountBounded(t *testing.T) {
	call := 0
	p, _ := stubPipeline(t, []types.EvalReport{{Overall: 0.7, Freshness: 0.7}})
	p.GenerateBeat = func(_ context.Context, beat types.BeatSpec, _ []string, _ []string) (string, error) {
		call++
		if call == 1 {
			return testExemplar, nil // first beat's first attempt fails the guard
		}
		return cleanBeatText(beat), nil
	}
	_, candidates, err := SelectBest(context.Background(), specWithBeats(), testExemplar, p, Options{
		Candidates: 1, Thresholds: types.DefaultThresholds(), MaxAttempts: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := candidates[0].AttemptCount; got != 2 {
		t.Errorf("AttemptCount = %d, want 2 (worst beat needed a retry)", got)
	}
}

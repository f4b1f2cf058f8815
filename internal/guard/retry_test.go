package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

const cleanText = "harbor cranes lifted rusted containers through thick morning fog while " +
	"dockworkers traded rumors about the new schedule nobody had actually read yet"

func TestGenerateWithGuardPassesFirstAttempt(t *testing.T) {
	exemplar := repeatedExemplar()
	calls := 0
	gen := func(_ context.Context, feedback []string) (string, error) {
		calls++
		if feedback != nil {
			t.Errorf("first attempt should receive nil feedback, got %v", feedback)
		}
		return cleanText, nil
	}

	result, err := GenerateWithGuard(context.Background(), gen, exemplar, types.DefaultThresholds(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Verdict.Passed {
		t.Errorf("expected pass, got violations %v", result.Verdict.ViolationDetails())
	}
	if result.Attempts != 1 || calls != 1 {
		t.Errorf("attempts = %d, calls = %d, want 1/1", result.Attempts, calls)
	}
}

func TestGenerateWithGuardAlwaysFailingExhaustsBound(t *testing.T) {
	exemplar := repeatedExemplar()
	calls := 0
	gen := func(_ context.Context, _ []string) (string, error) {
		calls++
		return exemplar, nil // verbatim copy fails every time
	}

	result, err := GenerateWithGuard(context.Background(), gen, exemplar, types.DefaultThresholds(), 3)
	if err != nil {
		t.Fatalf("exhaustion is best-effort, not an error: %v", err)
	}
	if calls != 3 {
		t.Errorf("generator called %d times, want exactly 3", calls)
	}
	if result.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", result.Attempts)
	}
	if result.Verdict.Passed {
		t.Error("exhausted result must carry Passed=false")
	}
	if result.Text == "" {
		t.Error("exhausted result must carry the best attempt's text")
	}
}

func TestGenerateWithGuardKeepsLeastSevereAttempt(t *testing.T) {
	exemplar := repeatedExemplar()
	// Attempt 1 is a full copy, attempt 2 lifts less, attempt 3 regresses to a
	// full copy again. The returned text must be attempt 2's.
	partial := "the quick brown fox jumps over something new entirely with " +
		"different phrasing carrying the rest of this attempt toward other subjects altogether"
	attempts := []string{exemplar, partial, exemplar}
	i := 0
	gen := func(_ context.Context, _ []string) (string, error) {
		text := attempts[i]
		i++
		return text, nil
	}

	result, err := GenerateWithGuard(context.Background(), gen, exemplar, types.Thresholds{MaxNgram: 3, OverlapPct: 0.001, HammingMin: 200}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != partial {
		t.Error("expected the least severe attempt to be returned, not the last one")
	}
}

func TestGenerateWithGuardFeedbackInjection(t *testing.T) {
	exemplar := repeatedExemplar()
	var secondFeedback []string
	call := 0
	gen := func(_ context.Context, feedback []string) (string, error) {
		call++
		if call == 1 {
			return exemplar, nil
		}
		secondFeedback = feedback
		return cleanText, nil
	}

	result, err := GenerateWithGuard(context.Background(), gen, exemplar, types.DefaultThresholds(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Verdict.Passed || result.Attempts != 2 {
		t.Fatalf("expected pass on attempt 2, got attempts=%d passed=%v", result.Attempts, result.Verdict.Passed)
	}
	if len(secondFeedback) == 0 {
		t.Error("second attempt should receive the prior attempt's violation descriptions")
	}
}

func TestGenerateWithGuardGeneratorErrorsAreRetried(t *testing.T) {
	exemplar := repeatedExemplar()
	call := 0
	gen := func(_ context.Context, _ []string) (string, error) {
		call++
		if call < 3 {
			return "", errors.New("model unavailable")
		}
		return cleanText, nil
	}

	result, err := GenerateWithGuard(context.Background(), gen, exemplar, types.DefaultThresholds(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Verdict.Passed || result.Attempts != 3 {
		t.Errorf("expected pass on attempt 3, got attempts=%d passed=%v", result.Attempts, result.Verdict.Passed)
	}
}

func TestGenerateWithGuardAllErrors(t *testing.T) {
	gen := func(_ context.Context, _ []string) (string, error) {
		return "", errors.New("model unavailable")
	}
	result, err := GenerateWithGuard(context.Background(), gen, repeatedExemplar(), types.DefaultThresholds(), 3)
	if !errors.Is(err, ErrNoAttemptProduced) {
		t.Fatalf("err = %v, want ErrNoAttemptProduced", err)
	}
	if result.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", result.Attempts)
	}
}

func TestGenerateWithGuardDefaultsAttemptBound(t *testing.T) {
	exemplar := repeatedExemplar()
	calls := 0
	gen := func(_ context.Context, _ []string) (string, error) {
		calls++
		return exemplar, nil
	}
	_, err := GenerateWithGuard(context.Background(), gen, exemplar, types.DefaultThresholds(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != DefaultMaxAttempts {
		t.Errorf("generator called %d times, want %d", calls, DefaultMaxAttempts)
	}
}

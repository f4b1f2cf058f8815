package guard

import (
	"context"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

// DefaultMaxAttempts bounds the regeneration loop: one initial attempt plus
// two retries.
const DefaultMaxAttempts = 3

// GenerateFunc produces one attempt at a piece of text. feedback carries the
// violation descriptions from the prior attempt (nil on the first call) so
// the generator can steer away from the exemplar's phrasing.
type GenerateFunc func(ctx context.Context, feedback []string) (string, error)

// RetryResult is the outcome of a bounded feedback-augmented retry loop.
type RetryResult struct {
	Text     string
	Verdict  types.GuardVerdict
	Attempts int
}

// GenerateWithGuard drives up to maxAttempts generation attempts, evaluating
// the guard after each. The first passing attempt is returned immediately.
// When every attempt fails the guard, the attempt with the lowest severity
// ratio is returned (best effort, Passed=false) rather than the last one.
// A generator error counts as a failed attempt, not a fatal error; only when
// no attempt at all produced text does GenerateWithGuard return
// ErrNoAttemptProduced alongside the attempt count.
func GenerateWithGuard(ctx context.Context, generate GenerateFunc, exemplar string, th types.Thresholds, maxAttempts int) (RetryResult, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var feedback []string
	best := RetryResult{}
	bestSeverity := 0.0
	haveBest := false

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if haveBest {
				best.Attempts = attempt - 1
				return best, nil
			}
			return RetryResult{Attempts: attempt - 1}, err
		}

		text, err := generate(ctx, feedback)
		if err != nil || text == "" {
			// Recoverable generation failure; retry with the same feedback.
			continue
		}

		verdict := Evaluate(text, exemplar, th)
		if verdict.Passed {
			return RetryResult{Text: text, Verdict: verdict, Attempts: attempt}, nil
		}

		severity := Severity(verdict, th)
		if !haveBest || severity < bestSeverity {
			best = RetryResult{Text: text, Verdict: verdict}
			bestSeverity = severity
			haveBest = true
		}
		feedback = verdict.ViolationDetails()
	}

	if !haveBest {
		return RetryResult{Attempts: maxAttempts}, ErrNoAttemptProduced
	}
	best.Attempts = maxAttempts
	return best, nil
}

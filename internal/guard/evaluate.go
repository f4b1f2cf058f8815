// Package guard enforces the anti-plagiarism limits on generated text. It
// combines n-gram overlap scanning with SimHash distance against the exemplar
// and produces a verdict enumerating every violated check.
package guard

import (
	"fmt"
	"strings"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/fingerprint"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/overlap"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

// scanMaxN extends the n-gram sweep past the threshold so a run longer than
// the limit is actually observable (a sweep capped at the threshold could
// never measure a value above it).
const scanMaxN = 20

// Evaluate checks candidate against exemplar under the given thresholds.
// All three checks run unconditionally so the verdict enumerates every
// violation, not just the first. A zero-length candidate always passes;
// there is nothing to guard against. Never errors on string input.
func Evaluate(candidate, exemplar string, th types.Thresholds) types.GuardVerdict {
	if strings.TrimSpace(candidate) == "" {
		return types.GuardVerdict{Passed: true}
	}

	report := overlap.Scan(candidate, exemplar, overlap.DefaultMinN, scanMaxN)
	distance := fingerprint.TextDistance(candidate, exemplar, fingerprint.DefaultWidth)

	verdict := types.GuardVerdict{
		MaxSharedNgram:  report.MaxSharedNgram,
		OverlapPct:      report.OverlapPct,
		HammingDistance: distance,
	}

	if report.MaxSharedNgram > th.MaxNgram {
		verdict.Violations = append(verdict.Violations, types.GuardViolation{
			Kind:      types.ViolationMaxNgram,
			Measured:  float64(report.MaxSharedNgram),
			Threshold: float64(th.MaxNgram),
			Details:   fmt.Sprintf("shared %d-gram with exemplar exceeds limit of %d tokens", report.MaxSharedNgram, th.MaxNgram),
		})
	}
	if report.OverlapPct > th.OverlapPct {
		verdict.Violations = append(verdict.Violations, types.GuardViolation{
			Kind:      types.ViolationOverlapPct,
			Measured:  report.OverlapPct,
			Threshold: th.OverlapPct,
			Details:   fmt.Sprintf("4-gram overlap %.3f exceeds limit %.3f", report.OverlapPct, th.OverlapPct),
		})
	}
	if distance < th.HammingMin {
		verdict.Violations = append(verdict.Violations, types.GuardViolation{
			Kind:      types.ViolationHamming,
			Measured:  float64(distance),
			Threshold: float64(th.HammingMin),
			Details:   fmt.Sprintf("SimHash distance %d below minimum %d", distance, th.HammingMin),
		})
	}

	verdict.Passed = len(verdict.Violations) == 0
	return verdict
}

// Severity ranks how badly a verdict misses the thresholds:
// max(overlap_pct/threshold, max_shared_ngram/threshold). Lower is better;
// a passing verdict scores at most 1. Used to pick the least-bad attempt or
// candidate when nothing passes.
func Severity(v types.GuardVerdict, th types.Thresholds) float64 {
	overlapRatio := 0.0
	if th.OverlapPct > 0 {
		overlapRatio = v.OverlapPct / th.OverlapPct
	}
	ngramRatio := 0.0
	if th.MaxNgram > 0 {
		ngramRatio = float64(v.MaxSharedNgram) / float64(th.MaxNgram)
	}
	if overlapRatio > ngramRatio {
		return overlapRatio
	}
	return ngramRatio
}

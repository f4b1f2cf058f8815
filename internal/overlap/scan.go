// Package overlap detects shared token n-grams between a candidate text and
// the source exemplar. It reports the longest shared n-gram and the fraction
// of candidate 4-grams that also appear in the exemplar.
package overlap

import (
	"strings"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/textutil"
)

const (
	// DefaultMinN and DefaultMaxN bound the n-gram sweep; shared runs shorter
	// than 3 tokens are not meaningful evidence of copying.
	DefaultMinN = 3
	DefaultMaxN = 12

	// overlapPctN fixes the n-gram size for the overlap percentage. This is
	// intentionally independent of the sweep range; tuning it would change
	// guard strictness.
	overlapPctN = 4
)

// Report holds the overlap measurements for one candidate/exemplar pair.
// Derived fresh per comparison and never cached, since candidate text mutates
// between retries.
type Report struct {
	MaxSharedNgram int     `json:"max_shared_ngram"`
	OverlapPct     float64 `json:"overlap_pct"`
	MinN           int     `json:"min_n"`
	MaxN           int     `json:"max_n"`
}

// Scan measures n-gram overlap between candidate and exemplar.
//
// MaxSharedNgram is the largest n in [minN, maxN] for which at least one
// candidate n-gram appears verbatim in the exemplar (0 if none at any size).
// OverlapPct is computed over 4-grams: the number of candidate 4-gram
// positions whose window appears in the exemplar's 4-gram set, divided by the
// total candidate 4-gram positions. Duplicate candidate windows count once
// per position, which favors sensitivity over leniency.
//
// An empty candidate yields a zero report; there is nothing to guard against.
func Scan(candidate, exemplar string, minN, maxN int) Report {
	if minN <= 0 {
		minN = DefaultMinN
	}
	if maxN < minN {
		maxN = DefaultMaxN
	}
	report := Report{MinN: minN, MaxN: maxN}

	candTokens := textutil.Tokenize(candidate)
	exemplarTokens := textutil.Tokenize(exemplar)
	if len(candTokens) == 0 || len(exemplarTokens) == 0 {
		return report
	}

	// Largest shared n-gram: sweep from the top so the first hit wins.
	for n := maxN; n >= minN; n-- {
		if n > len(candTokens) || n > len(exemplarTokens) {
			continue
		}
		exemplarSet := ngramSet(exemplarTokens, n)
		if anyNgramIn(candTokens, n, exemplarSet) {
			report.MaxSharedNgram = n
			break
		}
	}

	report.OverlapPct = overlapPct(candTokens, exemplarTokens)
	return report
}

// overlapPct counts candidate 4-gram positions found in the exemplar's
// 4-gram set, over all candidate 4-gram positions.
func overlapPct(candTokens, exemplarTokens []string) float64 {
	if len(candTokens) < overlapPctN || len(exemplarTokens) < overlapPctN {
		return 0
	}
	exemplarSet := ngramSet(exemplarTokens, overlapPctN)
	total := len(candTokens) - overlapPctN + 1
	hits := 0
	for i := 0; i < total; i++ {
		if _, ok := exemplarSet[joinWindow(candTokens[i:i+overlapPctN])]; ok {
			hits++
		}
	}
	return float64(hits) / float64(total)
}

func ngramSet(tokens []string, n int) map[string]struct{} {
	set := make(map[string]struct{})
	for i := 0; i+n <= len(tokens); i++ {
		set[joinWindow(tokens[i:i+n])] = struct{}{}
	}
	return set
}

func anyNgramIn(tokens []string, n int, set map[string]struct{}) bool {
	for i := 0; i+n <= len(tokens); i++ {
		if _, ok := set[joinWindow(tokens[i:i+n])]; ok {
			return true
		}
	}
	return false
}

func joinWindow(window []string) string {
	return strings.Join(window, "\x1f")
}

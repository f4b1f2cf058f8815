package evaluation

import (
	"math"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/fingerprint"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/overlap"
)

// Freshness weighting between the lexical (n-gram) and structural (SimHash)
// novelty signals.
const (
	freshnessOverlapWeight = 0.6
	freshnessHammingWeight = 0.4

	// overlapSaturation is the 4-gram overlap fraction at which lexical
	// novelty bottoms out at 0.
	overlapSaturation = 0.25
	// hammingSaturation is the SimHash distance at which structural novelty
	// tops out at 1.
	hammingSaturation = 64.0
)

// Freshness scores the novelty of text relative to the exemplar in 0..1,
// where 1 is maximally novel. A verbatim copy scores 0. Derived from the same
// overlap and fingerprint measurements the guard uses, but on a continuous
// scale rather than pass/fail.
func Freshness(text, exemplar string) float64 {
	report := overlap.Scan(text, exemplar, overlap.DefaultMinN, overlap.DefaultMaxN)
	lexical := 1.0 - math.Min(1.0, report.OverlapPct/overlapSaturation)

	distance := fingerprint.TextDistance(text, exemplar, fingerprint.DefaultWidth)
	structural := math.Min(1.0, float64(distance)/hammingSaturation)

	return freshnessOverlapWeight*lexical + freshnessHammingWeight*structural
}

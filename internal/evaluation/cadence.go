package evaluation

import (
	"math"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/textutil"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

// Paragraph-length classification thresholds, in words.
const (
	shortParagraph = 30
	longParagraph  = 60
)

// paragraphMix classifies paragraph lengths into short/mixed/long ratios.
func paragraphMix(text string) (short, mixed, long float64) {
	lengths := textutil.SplitParagraphs(text)
	if len(lengths) == 0 {
		return 0, 0, 0
	}
	var s, l int
	for _, p := range lengths {
		words := textutil.CountWords(p)
		switch {
		case words < shortParagraph:
			s++
		case words > longParagraph:
			l++
		}
	}
	total := float64(len(lengths))
	short = float64(s) / total
	long = float64(l) / total
	mixed = 1.0 - short - long
	return short, mixed, long
}

// targetMix derives the desired paragraph-length mix from the beats' cadence
// labels. Unlabeled beats count as mixed.
func targetMix(beatMap []types.BeatSpec) (short, mixed, long float64) {
	if len(beatMap) == 0 {
		return 1.0 / 3, 1.0 / 3, 1.0 / 3
	}
	var s, m, l int
	for _, beat := range beatMap {
		switch beat.Cadence {
		case "short":
			s++
		case "long":
			l++
		default:
			m++
		}
	}
	total := float64(len(beatMap))
	return float64(s) / total, float64(m) / total, float64(l) / total
}

// Cadence scores how closely the draft's paragraph-length distribution
// matches the mix implied by the beat cadence labels. 1 is a perfect match.
func Cadence(text string, beatMap []types.BeatSpec) float64 {
	ms, mm, ml := paragraphMix(text)
	ts, tm, tl := targetMix(beatMap)
	// Total variation distance between the two distributions.
	dist := (math.Abs(ms-ts) + math.Abs(mm-tm) + math.Abs(ml-tl)) / 2
	return 1.0 - dist
}

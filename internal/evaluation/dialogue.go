package evaluation

import (
	"math"
	"strings"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/textutil"
)

// measureDialogueRatio returns the fraction of words that sit inside
// double-quoted spans. An unterminated quote runs to the end of the text.
func measureDialogueRatio(text string) float64 {
	total := textutil.CountWords(text)
	if total == 0 {
		return 0
	}
	inQuote := 0
	for i, span := range strings.Split(text, `"`) {
		// Odd-indexed spans are quoted.
		if i%2 == 1 {
			inQuote += textutil.CountWords(span)
		}
	}
	return float64(inQuote) / float64(total)
}

// DialogueBalance scores adherence to the target dialogue ratio and returns
// the signed delta (measured - target). The score decays linearly and hits
// zero when the miss reaches 0.5.
func DialogueBalance(text string, targetRatio float64) (score, delta float64) {
	measured := measureDialogueRatio(text)
	delta = measured - targetRatio
	return math.Max(0, 1.0-math.Abs(delta)/0.5), delta
}

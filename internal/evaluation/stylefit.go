package evaluation

import (
	"math"
	"regexp"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/textutil"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

var (
	firstPersonRe  = regexp.MustCompile(`(?i)\b(i|me|my|mine|we|us|our|ours)\b`)
	secondPersonRe = regexp.MustCompile(`(?i)\byou\b`)
	thirdPersonRe  = regexp.MustCompile(`(?i)\b(he|him|his|she|her|hers|they|them|their)\b`)

	pastTenseRe    = regexp.MustCompile(`\b\w+ed\b|\b(?i:was|were|had)\b`)
	presentTenseRe = regexp.MustCompile(`(?i)\b(am|is|are|has|have)\b`)
)

// personConsistency scores how strongly the text's pronoun usage matches the
// target narrative person. Texts with no person markers score neutral.
func personConsistency(text, targetPerson string) float64 {
	first := len(firstPersonRe.FindAllString(text, -1))
	second := len(secondPersonRe.FindAllString(text, -1))
	third := len(thirdPersonRe.FindAllString(text, -1))

	total := first + second + third
	if total == 0 {
		return 0.5
	}

	var ratio float64
	switch targetPerson {
	case "first":
		ratio = float64(first) / float64(total)
	case "second":
		ratio = float64(second) / float64(total)
	case "third-limited", "omniscient":
		ratio = float64(third) / float64(total)
	default:
		return 0.5
	}
	return math.Min(1.0, ratio*1.5)
}

// tenseConsistency scores verb-form dominance against the target tense using
// coarse lexical cues.
func tenseConsistency(text, targetTense string) float64 {
	past := len(pastTenseRe.FindAllString(text, -1))
	present := len(presentTenseRe.FindAllString(text, -1))

	total := past + present
	if total == 0 {
		return 0.5
	}

	var ratio float64
	switch targetTense {
	case "past":
		ratio = float64(past) / float64(total)
	case "present":
		ratio = float64(present) / float64(total)
	default:
		return 0.5
	}
	return math.Min(1.0, ratio*1.3)
}

// sentenceLenAdherence scores how close the measured mean sentence length is
// to the target, and returns the signed delta (measured - target) so the
// optimizer knows which way to nudge.
func sentenceLenAdherence(text string, target float64) (score, delta float64) {
	if target <= 0 {
		return 0.5, 0
	}
	measured := textutil.AvgSentenceLen(text)
	if measured == 0 {
		return 0, -target
	}
	delta = measured - target
	relErr := math.Abs(delta) / target
	return math.Max(0, 1.0-relErr), delta
}

// Stylefit combines person, tense, and sentence-length conformance into one
// 0..1 score. The sentence-length delta is reported for tuning.
func Stylefit(text string, voice types.Voice) (score, sentenceLenDelta float64) {
	person := personConsistency(text, voice.Person)
	tense := tenseConsistency(text, voice.Tense.Primary)
	length, delta := sentenceLenAdherence(text, voice.Syntax.AvgSentenceLen)
	return (person + tense + length) / 3.0, delta
}

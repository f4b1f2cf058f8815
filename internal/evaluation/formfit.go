package evaluation

import (
	"math"
	"strings"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/textutil"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

// lengthTolerance is the allowed deviation from a beat's target word count,
// as a fraction of the target.
const lengthTolerance = 0.2

// splitIntoBeats divides the text's paragraphs evenly into numBeats segments.
// Beat boundaries are approximate; generated drafts carry no markers.
func splitIntoBeats(text string, numBeats int) []string {
	if numBeats <= 0 {
		return nil
	}
	paragraphs := textutil.SplitParagraphs(text)
	beats := make([]string, numBeats)
	if len(paragraphs) == 0 {
		return beats
	}

	perBeat := len(paragraphs) / numBeats
	if perBeat < 1 {
		perBeat = 1
	}
	for i := 0; i < numBeats; i++ {
		start := i * perBeat
		if start >= len(paragraphs) {
			break
		}
		end := start + perBeat
		if i == numBeats-1 || end > len(paragraphs) {
			end = len(paragraphs)
		}
		beats[i] = strings.Join(paragraphs[start:end], "\n\n")
	}
	return beats
}

// beatLengthScore maps the relative miss against the tolerance band to 0..1:
// inside the band is a perfect 1, and the score decays linearly to 0 at
// three tolerances out.
func beatLengthScore(words, target int) float64 {
	if target <= 0 {
		return 0.5
	}
	relErr := math.Abs(float64(words-target)) / float64(target)
	if relErr <= lengthTolerance {
		return 1.0
	}
	excess := (relErr - lengthTolerance) / (2 * lengthTolerance)
	return math.Max(0, 1.0-excess)
}

// Formfit measures structural adherence: per-beat word counts against each
// beat's target. Returns the mean score and the per-beat detail used by the
// optimizer to steer individual beat targets.
func Formfit(text string, beatMap []types.BeatSpec) (float64, []types.PerBeatScore) {
	if len(beatMap) == 0 {
		return 0.5, nil
	}
	beatTexts := splitIntoBeats(text, len(beatMap))

	perBeat := make([]types.PerBeatScore, len(beatMap))
	total := 0.0
	for i, spec := range beatMap {
		words := textutil.CountWords(beatTexts[i])
		score := beatLengthScore(words, spec.TargetWords)
		perBeat[i] = types.PerBeatScore{
			ID:         spec.ID,
			Formfit:    score,
			WordsDelta: words - spec.TargetWords,
		}
		total += score
	}
	return total / float64(len(beatMap)), perBeat
}

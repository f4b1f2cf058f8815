// Package evaluation scores generated drafts against a story spec and the
// source exemplar using deterministic heuristic metrics: stylefit, formfit,
// cadence, dialogue balance, and freshness. Scores are aggregated into a
// weighted overall value suitable for candidate selection and optimization.
package evaluation

import (
	"github.com/AndrewMichael2020/literary-structure-generator/internal/textutil"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/validation"
)

// redFlagScore marks a sub-score low enough to call out in the report.
const redFlagScore = 0.3

// Evaluate runs every heuristic metric over text and aggregates them into an
// EvalReport. weights maps metric names to their share of the overall score;
// missing or zero-total weights fall back to the defaults.
func Evaluate(text string, spec *types.StorySpec, exemplar string, weights map[string]float64) types.EvalReport {
	if len(weights) == 0 {
		weights = types.DefaultObjectiveWeights()
	}

	stylefit, sentenceLenDelta := Stylefit(text, spec.Voice)
	formfit, perBeat := Formfit(text, spec.Form.BeatMap)
	cadence := Cadence(text, spec.Form.BeatMap)
	dialogue, dialogueDelta := DialogueBalance(text, spec.Form.DialogueRatio)
	freshness := Freshness(text, exemplar)

	sub := map[string]float64{
		types.MetricStylefit:        stylefit,
		types.MetricFormfit:         formfit,
		types.MetricCadence:         cadence,
		types.MetricDialogueBalance: dialogue,
		types.MetricFreshness:       freshness,
		"avg_sentence_len_delta":    sentenceLenDelta,
		"dialogue_ratio_delta":      dialogueDelta,
	}

	report := types.EvalReport{
		Overall:   weightedOverall(sub, weights),
		Freshness: freshness,
		Sub:       sub,
		PerBeat:   perBeat,
		WordCount: textutil.CountWords(text),
	}

	for _, name := range []string{types.MetricStylefit, types.MetricFormfit, types.MetricCadence, types.MetricDialogueBalance, types.MetricFreshness} {
		if sub[name] < redFlagScore {
			report.RedFlags = append(report.RedFlags, name+" critically low")
		}
	}
	report.RedFlags = append(report.RedFlags, validation.CheckDraftArtifacts(text)...)
	return report
}

// weightedOverall averages the named metrics by weight, ignoring weight
// entries with no matching metric. Only true metrics participate; diagnostic
// deltas in the sub-score map carry no weight.
func weightedOverall(sub, weights map[string]float64) float64 {
	totalWeight := 0.0
	sum := 0.0
	for _, name := range []string{types.MetricStylefit, types.MetricFormfit, types.MetricCadence, types.MetricDialogueBalance, types.MetricFreshness} {
		w := weights[name]
		if w <= 0 {
			continue
		}
		totalWeight += w
		sum += w * sub[name]
	}
	if totalWeight == 0 {
		return 0
	}
	return sum / totalWeight
}

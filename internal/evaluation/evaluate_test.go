package evaluation

import (
	"math"
	"strings"
	"testing"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

// firstPersonPast is a small narrative sample with a consistent first-person,
// past-tense voice and roughly eight-word sentences.
const firstPersonPast = `I walked down to the old stone house. I opened the heavy door and stepped inside.
The hallway smelled of dust and cold rain. I waited there until my eyes adjusted slowly.

I found the letter where she had left it. My hands trembled as I unfolded the page.
I read every word twice before I understood. Then I sat down on the bottom stair.`

func TestStylefitPrefersMatchingVoice(t *testing.T) {
	matching := types.Voice{
		Person: "first",
		Tense:  types.TenseStrategy{Primary: "past"},
		Syntax: types.Syntax{AvgSentenceLen: 8},
	}
	mismatched := types.Voice{
		Person: "second",
		Tense:  types.TenseStrategy{Primary: "present"},
		Syntax: types.Syntax{AvgSentenceLen: 30},
	}

	matchScore, matchDelta := Stylefit(firstPersonPast, matching)
	missScore, _ := Stylefit(firstPersonPast, mismatched)

	if matchScore <= missScore {
		t.Errorf("matching voice scored %.3f, mismatched %.3f; want matching higher", matchScore, missScore)
	}
	if matchScore < 0.7 {
		t.Errorf("matching voice scored %.3f, want >= 0.7", matchScore)
	}
	if math.Abs(matchDelta) > 3 {
		t.Errorf("sentence length delta = %.2f, want within 3 words of target", matchDelta)
	}
}

func TestStylefitEmptyTextIsNeutralOnMarkers(t *testing.T) {
	voice := types.Voice{
		Person: "third-limited",
		Tense:  types.TenseStrategy{Primary: "past"},
		Syntax: types.Syntax{AvgSentenceLen: 12},
	}
	score, delta := Stylefit("", voice)
	// No person or tense markers score neutral; no sentences score zero.
	want := (0.5 + 0.5 + 0.0) / 3.0
	if math.Abs(score-want) > 1e-9 {
		t.Errorf("Stylefit(empty) = %.3f, want %.3f", score, want)
	}
	if delta != -12 {
		t.Errorf("delta = %.2f, want -12", delta)
	}
}

func paragraphOfWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = "word"
	}
	return strings.Join(words, " ")
}

func TestFormfitOnTargetBeats(t *testing.T) {
	beatMap := []types.BeatSpec{
		{ID: "opening", TargetWords: 10},
		{ID: "closing", TargetWords: 10},
	}
	text := paragraphOfWords(10) + "\n\n" + paragraphOfWords(10)

	score, perBeat := Formfit(text, beatMap)
	if score != 1.0 {
		t.Errorf("Formfit = %.3f, want 1.0", score)
	}
	if len(perBeat) != 2 {
		t.Fatalf("got %d per-beat scores, want 2", len(perBeat))
	}
	for i, pb := range perBeat {
		if pb.ID != beatMap[i].ID {
			t.Errorf("perBeat[%d].ID = %q, want %q", i, pb.ID, beatMap[i].ID)
		}
		if pb.WordsDelta != 0 {
			t.Errorf("perBeat[%d].WordsDelta = %d, want 0", i, pb.WordsDelta)
		}
	}
}

func TestFormfitOvershootPenalized(t *testing.T) {
	beatMap := []types.BeatSpec{{ID: "only", TargetWords: 10}}
	text := paragraphOfWords(30)

	score, perBeat := Formfit(text, beatMap)
	if score != 0 {
		t.Errorf("Formfit = %.3f, want 0 for a 3x overshoot", score)
	}
	if perBeat[0].WordsDelta != 20 {
		t.Errorf("WordsDelta = %d, want 20", perBeat[0].WordsDelta)
	}
}

func TestFormfitInsideToleranceIsPerfect(t *testing.T) {
	beatMap := []types.BeatSpec{{ID: "only", TargetWords: 100}}
	score, _ := Formfit(paragraphOfWords(115), beatMap)
	if score != 1.0 {
		t.Errorf("Formfit = %.3f, want 1.0 inside the 20%% band", score)
	}
}

func TestCadenceMatchAndMismatch(t *testing.T) {
	shortBeats := []types.BeatSpec{
		{ID: "a", TargetWords: 20, Cadence: "short"},
		{ID: "b", TargetWords: 20, Cadence: "short"},
	}
	shortText := paragraphOfWords(15) + "\n\n" + paragraphOfWords(20)
	longText := paragraphOfWords(80) + "\n\n" + paragraphOfWords(90)

	if got := Cadence(shortText, shortBeats); got != 1.0 {
		t.Errorf("Cadence(short text, short beats) = %.3f, want 1.0", got)
	}
	if got := Cadence(longText, shortBeats); got != 0.0 {
		t.Errorf("Cadence(long text, short beats) = %.3f, want 0.0", got)
	}
}

func TestDialogueBalance(t *testing.T) {
	allDialogue := `"every word here is spoken aloud"`
	noDialogue := "nobody says anything in this paragraph at all"

	if score, delta := DialogueBalance(allDialogue, 1.0); score != 1.0 || delta != 0 {
		t.Errorf("all-dialogue vs target 1.0: score %.3f delta %.3f, want 1.0 and 0", score, delta)
	}
	if score, delta := DialogueBalance(noDialogue, 0.0); score != 1.0 || delta != 0 {
		t.Errorf("no-dialogue vs target 0.0: score %.3f delta %.3f, want 1.0 and 0", score, delta)
	}
	if score, delta := DialogueBalance(noDialogue, 0.5); score != 0.0 || delta != -0.5 {
		t.Errorf("no-dialogue vs target 0.5: score %.3f delta %.3f, want 0.0 and -0.5", score, delta)
	}
}

func TestFreshnessVerbatimCopyScoresZero(t *testing.T) {
	if got := Freshness(firstPersonPast, firstPersonPast); got != 0 {
		t.Errorf("Freshness(copy) = %.3f, want 0", got)
	}
}

func TestFreshnessDisjointTextScoresHigh(t *testing.T) {
	exemplar := `The harbor was empty that morning. Gulls circled the rusted cranes while fog rolled in from the channel and swallowed the breakwater whole.`
	if got := Freshness(firstPersonPast, exemplar); got < 0.7 {
		t.Errorf("Freshness(disjoint) = %.3f, want >= 0.7", got)
	}
}

func evalSpec() *types.StorySpec {
	return &types.StorySpec{
		Voice: types.Voice{
			Person: "first",
			Tense:  types.TenseStrategy{Primary: "past"},
			Syntax: types.Syntax{AvgSentenceLen: 8},
		},
		Form: types.Form{
			BeatMap: []types.BeatSpec{
				{ID: "opening", TargetWords: 40, Cadence: "mixed"},
				{ID: "closing", TargetWords: 40, Cadence: "mixed"},
			},
			DialogueRatio: 0.0,
		},
	}
}

func TestEvaluateReportShape(t *testing.T) {
	exemplar := "An entirely unrelated passage about harbor cranes and morning fog over the channel."
	report := Evaluate(firstPersonPast, evalSpec(), exemplar, nil)

	if report.Overall < 0 || report.Overall > 1 {
		t.Errorf("Overall = %.3f, want within [0, 1]", report.Overall)
	}
	for _, name := range []string{
		types.MetricStylefit, types.MetricFormfit, types.MetricCadence,
		types.MetricDialogueBalance, types.MetricFreshness,
		"avg_sentence_len_delta", "dialogue_ratio_delta",
	} {
		if _, ok := report.SubScore(name); !ok {
			t.Errorf("missing sub-score %q", name)
		}
	}
	if len(report.PerBeat) != 2 {
		t.Errorf("got %d per-beat scores, want 2", len(report.PerBeat))
	}
	if report.WordCount == 0 {
		t.Error("WordCount = 0, want the draft's word count")
	}
	if report.Freshness != report.Sub[types.MetricFreshness] {
		t.Error("Freshness field and sub-score disagree")
	}
}

func TestEvaluateFlagsCriticallyLowFreshness(t *testing.T) {
	// A verbatim lift of the exemplar scores zero freshness.
	report := Evaluate(firstPersonPast, evalSpec(), firstPersonPast, nil)

	found := false
	for _, flag := range report.RedFlags {
		if strings.Contains(flag, types.MetricFreshness) {
			found = true
		}
	}
	if !found {
		t.Errorf("red flags %v missing a freshness entry", report.RedFlags)
	}
}

func TestEvaluateCustomWeights(t *testing.T) {
	exemplar := "An entirely unrelated passage about harbor cranes and morning fog."
	weights := map[string]float64{types.MetricFreshness: 1.0}

	report := Evaluate(firstPersonPast, evalSpec(), exemplar, weights)
	if report.Overall != report.Freshness {
		t.Errorf("Overall = %.3f with freshness-only weights, want %.3f", report.Overall, report.Freshness)
	}
}

package types

// Documented bounds for ParameterVector fields. The optimizer clamps to these
// after every adjustment.
const (
	TemperatureMin = 0.0
	TemperatureMax = 1.5

	DialogueRatioMin = 0.0
	DialogueRatioMax = 1.0

	AvgSentenceLenMin = 4.0
	AvgSentenceLenMax = 40.0

	BeatTargetWordsMin = 20
	BeatTargetWordsMax = 2000
)

// ParameterVector is the small set of tunable generation parameters adjusted
// between optimization rounds. A round always operates on a frozen copy;
// mutation happens only between rounds via Clone + adjust + Clamp.
type ParameterVector struct {
	BeatTargetWords  map[string]int     `json:"beat_target_words"`
	AvgSentenceLen   float64            `json:"avg_sentence_len"`
	DialogueRatio    float64            `json:"dialogue_ratio"`
	Temperature      float64            `json:"temperature"`
	ObjectiveWeights map[string]float64 `json:"objective_weights"`
}

// DefaultObjectiveWeights returns the standard metric weighting for the
// overall score.
func DefaultObjectiveWeights() map[string]float64 {
	return map[string]float64{
		MetricStylefit:        0.25,
		MetricFormfit:         0.25,
		MetricCadence:         0.15,
		MetricDialogueBalance: 0.10,
		MetricFreshness:       0.25,
	}
}

// ParamsFromSpec derives the initial parameter vector from a story spec.
func ParamsFromSpec(spec *StorySpec) ParameterVector {
	targets := make(map[string]int, len(spec.Form.BeatMap))
	for _, beat := range spec.Form.BeatMap {
		targets[beat.ID] = beat.TargetWords
	}
	return ParameterVector{
		BeatTargetWords:  targets,
		AvgSentenceLen:   spec.Voice.Syntax.AvgSentenceLen,
		DialogueRatio:    spec.Form.DialogueRatio,
		Temperature:      0.85,
		ObjectiveWeights: DefaultObjectiveWeights(),
	}
}

// Clone returns a deep copy. Rounds must never share map storage, otherwise
// a parallelized round could observe a later round's adjustments.
func (p ParameterVector) Clone() ParameterVector {
	out := p
	out.BeatTargetWords = make(map[string]int, len(p.BeatTargetWords))
	for k, v := range p.BeatTargetWords {
		out.BeatTargetWords[k] = v
	}
	out.ObjectiveWeights = make(map[string]float64, len(p.ObjectiveWeights))
	for k, v := range p.ObjectiveWeights {
		out.ObjectiveWeights[k] = v
	}
	return out
}

// Clamp forces every field back inside its documented bounds.
func (p *ParameterVector) Clamp() {
	p.Temperature = clampFloat(p.Temperature, TemperatureMin, TemperatureMax)
	p.DialogueRatio = clampFloat(p.DialogueRatio, DialogueRatioMin, DialogueRatioMax)
	p.AvgSentenceLen = clampFloat(p.AvgSentenceLen, AvgSentenceLenMin, AvgSentenceLenMax)
	for id, words := range p.BeatTargetWords {
		if words < BeatTargetWordsMin {
			p.BeatTargetWords[id] = BeatTargetWordsMin
		} else if words > BeatTargetWordsMax {
			p.BeatTargetWords[id] = BeatTargetWordsMax
		}
	}
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ApplyToSpec returns a copy of spec with the vector's targets written into
// the beat map, syntax, and dialogue ratio. The original spec is not modified.
func (p ParameterVector) ApplyToSpec(spec *StorySpec) *StorySpec {
	out := *spec
	out.Form.BeatMap = make([]BeatSpec, len(spec.Form.BeatMap))
	copy(out.Form.BeatMap, spec.Form.BeatMap)
	for i := range out.Form.BeatMap {
		if words, ok := p.BeatTargetWords[out.Form.BeatMap[i].ID]; ok {
			out.Form.BeatMap[i].TargetWords = words
		}
	}
	out.Voice.Syntax.AvgSentenceLen = p.AvgSentenceLen
	out.Form.DialogueRatio = p.DialogueRatio
	return &out
}

package types

// Metric names used in EvalReport sub-scores and objective weights.
const (
	MetricStylefit        = "stylefit"
	MetricFormfit         = "formfit"
	MetricCadence         = "cadence"
	MetricDialogueBalance = "dialogue_balance"
	MetricFreshness       = "freshness"
)

// PerBeatScore holds per-beat evaluation detail. WordsDelta is the measured
// word count minus the beat's target, kept so the optimizer can tell whether
// a beat over- or undershot.
type PerBeatScore struct {
	ID         string  `json:"id"`
	Formfit    float64 `json:"formfit"`
	WordsDelta int     `json:"words_delta"`
}

// EvalReport is a multi-metric evaluation of one candidate. Overall and
// Freshness are required; every other named metric lives in Sub so the report
// stays open to new evaluators without schema churn.
type EvalReport struct {
	RunID       string             `json:"run_id,omitempty"`
	CandidateID string             `json:"candidate_id,omitempty"`
	Overall     float64            `json:"overall"`
	Freshness   float64            `json:"freshness"`
	Sub         map[string]float64 `json:"sub_scores,omitempty"`
	PerBeat     []PerBeatScore     `json:"per_beat,omitempty"`
	RedFlags    []string           `json:"red_flags,omitempty"`
	WordCount   int                `json:"word_count,omitempty"`
}

// SubScore returns the named sub-score and whether it was reported.
func (r EvalReport) SubScore(name string) (float64, bool) {
	if r.Sub == nil {
		return 0, false
	}
	v, ok := r.Sub[name]
	return v, ok
}

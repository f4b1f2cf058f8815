package types

// Tie-break reasons recorded in SelectionResult.
const (
	TieBreakScore     = "score"
	TieBreakFreshness = "freshness_tiebreak"
	TieBreakAllFailed = "all_failed_fallback"
)

// CandidateResult tracks one candidate draft through the full pipeline.
// It is created empty at the start of a selector run-through, filled in as
// each stage completes, and treated as read-only once scoring finishes.
type CandidateResult struct {
	ID           string       `json:"id"`
	BeatTexts    []string     `json:"beat_texts"`
	StitchedText string       `json:"stitched_text"`
	RepairedText string       `json:"repaired_text"`
	GuardVerdict GuardVerdict `json:"guard_verdict"`
	Score        EvalReport   `json:"score_report"`
	AttemptCount int          `json:"attempt_count"`
	// Err records a pipeline failure for this candidate; errored candidates
	// are excluded from ranking but still surfaced to the caller.
	Err string `json:"error,omitempty"`
}

// FinalText returns the text that represents this candidate downstream:
// the repaired text when a repair pass produced one, otherwise the stitched text.
func (c *CandidateResult) FinalText() string {
	if c.RepairedText != "" {
		return c.RepairedText
	}
	return c.StitchedText
}

// SelectionResult names the winning candidate of one selector invocation and
// the rule that picked it.
type SelectionResult struct {
	WinnerID       string   `json:"winner_id"`
	RankedIDs      []string `json:"ranked_ids"`
	TieBreakReason string   `json:"tie_break_reason"`
}

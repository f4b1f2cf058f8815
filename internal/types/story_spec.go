// Package types provides type definitions for structured data used throughout the story generation system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// MetaInfo holds identifying metadata for a story specification.
type MetaInfo struct {
	StoryID string `json:"story_id"`
	Seed    int64  `json:"seed"`
	Version string `json:"version,omitempty"`
}

// TenseStrategy describes the temporal strategy of the narration.
type TenseStrategy struct {
	Primary         string `json:"primary"` // past|present
	AllowsFlashback bool   `json:"allows_flashback,omitempty"`
}

// Syntax holds sentence-level style targets.
type Syntax struct {
	AvgSentenceLen float64 `json:"avg_sentence_len"`
	Variance       float64 `json:"variance,omitempty"`
	FragmentOK     bool    `json:"fragment_ok,omitempty"`
}

// Voice holds narrative voice parameters.
type Voice struct {
	Person          string             `json:"person"` // first|second|third-limited|omniscient
	Tense           TenseStrategy      `json:"tense_strategy"`
	Distance        string             `json:"distance,omitempty"`
	RegisterSliders map[string]float64 `json:"register,omitempty"`
	Syntax          Syntax             `json:"syntax"`
}

// BeatSpec describes a single structural beat of the story.
type BeatSpec struct {
	ID          string `json:"id"`
	TargetWords int    `json:"target_words"`
	Function    string `json:"function"`
	Summary     string `json:"summary,omitempty"`
	Cadence     string `json:"cadence,omitempty"` // short|mixed|long
}

// Form holds structural parameters.
type Form struct {
	Structure     string     `json:"structure,omitempty"`
	BeatMap       []BeatSpec `json:"beat_map"`
	DialogueRatio float64    `json:"dialogue_ratio"`
}

// Setting describes where and when the story takes place.
type Setting struct {
	Place string `json:"place,omitempty"`
	Time  string `json:"time,omitempty"`
}

// Content holds content-level parameters fed into prompts.
type Content struct {
	Setting    Setting  `json:"setting,omitempty"`
	Characters []string `json:"characters,omitempty"`
	Motifs     []string `json:"motifs,omitempty"`
	Imagery    []string `json:"imagery_palette,omitempty"`
}

// LengthWords holds the overall length target.
type LengthWords struct {
	Target int `json:"target"`
	Min    int `json:"min,omitempty"`
	Max    int `json:"max,omitempty"`
}

// Constraints holds hard constraints on generated output.
type Constraints struct {
	AntiPlagiarism Thresholds  `json:"anti_plagiarism"`
	LengthWords    LengthWords `json:"length_words"`
}

// StorySpec is a complete, portable specification for story generation.
// It combines voice, form, and content parameters with anti-plagiarism
// constraints, and is the input consumed by the generation pipeline.
type StorySpec struct {
	Meta        MetaInfo    `json:"meta"`
	Voice       Voice       `json:"voice"`
	Form        Form        `json:"form"`
	Content     Content     `json:"content,omitempty"`
	Constraints Constraints `json:"constraints"`
}

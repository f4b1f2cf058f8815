package ingestion

import (
	"context"
	"fmt"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/llm"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/validation"
)

// BeatOutline is one structural beat observed in the exemplar.
type BeatOutline struct {
	Function  string  `json:"function"`             // e.g., "inciting incident", "turn", "denouement"
	Summary   string  `json:"summary"`              // One-sentence description of what happens
	WordShare float64 `json:"word_share,omitempty"` // Approximate fraction of the story's length
}

// ExtractedStructure is the structural outline the LLM reads off an exemplar.
// It describes shape, not content: beat functions, narration mode, pacing.
type ExtractedStructure struct {
	Title  string        `json:"title,omitempty"`
	Person string        `json:"person,omitempty"` // first, second, third
	Tense  string        `json:"tense,omitempty"`  // past, present
	Beats  []BeatOutline `json:"beats"`
	Motifs []string      `json:"motifs,omitempty"`
	Pacing string        `json:"pacing,omitempty"` // short, mixed, long paragraph tendency
}

// ExemplarStructureSchema describes the structural-outline extraction.
func ExemplarStructureSchema() llm.ExtractionSchema {
	return llm.ExtractionSchema{
		Name: "ExemplarStructure",
		Description: "You are a structural editor. Read the story below and describe its " +
			"STRUCTURE only: the sequence of narrative beats, the narration mode, and the " +
			"pacing. Do not summarize the plot beyond one sentence per beat, and do not " +
			"quote the text.",
		Fields: []llm.SchemaField{
			{Name: "title", Type: "string", Description: "Story title if evident"},
			{Name: "person", Type: "string", Description: "Narration person: first, second, or third", Required: true},
			{Name: "tense", Type: "string", Description: "Dominant tense: past or present", Required: true},
			{Name: "beats", Type: `[]{"function": string, "summary": string, "word_share": number}`,
				Description: "Structural beats in order; word_share is each beat's approximate fraction of total length", Required: true},
			{Name: "motifs", Type: "[]string", Description: "Recurring images or objects, if any"},
			{Name: "pacing", Type: "string", Description: "Paragraph tendency: short, mixed, or long"},
		},
	}
}

// ExtractStructure uses the LLM to read a structural outline off the exemplar.
func ExtractStructure(ctx context.Context, text string, apiKey string) (*ExtractedStructure, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required for structure extraction")
	}

	config := llm.DefaultGeminiConfig()
	client, err := llm.NewClient(ctx, config, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	var structure ExtractedStructure
	quoted := validation.QuoteExternalContent(text)
	if err := llm.Extract(ctx, client, ExemplarStructureSchema(), quoted, &structure); err != nil {
		return nil, err
	}

	return &structure, nil
}

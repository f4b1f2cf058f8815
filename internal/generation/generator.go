// Package generation drafts story text with an LLM: per-beat drafting,
// deterministic stitching, and a repair pass that rewrites flagged passages.
package generation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/llm"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/prompts"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

// Generator drafts individual beats for one story spec. Temperature comes
// from the optimizer's current parameter vector, not the spec.
type Generator struct {
	Client      llm.Client
	Spec        *types.StorySpec
	Temperature float64
}

// NewGenerator builds a beat generator for spec at the given sampling
// temperature.
func NewGenerator(client llm.Client, spec *types.StorySpec, temperature float64) *Generator {
	return &Generator{Client: client, Spec: spec, Temperature: temperature}
}

// GenerateBeat drafts one beat. beatContext carries the already-drafted beats
// so the model can continue the story; feedback carries guard violation
// descriptions from a rejected prior attempt at this beat.
func (g *Generator) GenerateBeat(ctx context.Context, beat types.BeatSpec, beatContext []string, feedback []string) (string, error) {
	prompt, err := prompts.Render("generation.json", "draft-beat", map[string]string{
		"BeatFunction":   beat.Function,
		"BeatSummary":    beat.Summary,
		"TargetWords":    strconv.Itoa(beat.TargetWords),
		"Cadence":        cadenceOrMixed(beat.Cadence),
		"Person":         g.Spec.Voice.Person,
		"Tense":          g.Spec.Voice.Tense.Primary,
		"AvgSentenceLen": strconv.FormatFloat(g.Spec.Voice.Syntax.AvgSentenceLen, 'f', 1, 64),
		"DialogueRatio":  strconv.FormatFloat(g.Spec.Form.DialogueRatio, 'f', 2, 64),
		"Setting":        describeSetting(g.Spec.Content.Setting),
		"Characters":     joinOrNone(g.Spec.Content.Characters),
		"Motifs":         joinOrNone(g.Spec.Content.Motifs),
		"PriorText":      priorText(beatContext),
		"Feedback":       feedbackBlock(feedback),
	})
	if err != nil {
		return "", fmt.Errorf("building beat prompt for %s: %w", beat.ID, err)
	}

	text, err := g.Client.GenerateContent(ctx, prompt, llm.TierDraft, llm.WithTemperature(g.Temperature))
	if err != nil {
		return "", fmt.Errorf("drafting beat %s: %w", beat.ID, err)
	}
	return llm.CleanProse(text), nil
}

// Stitch joins the ordered beat texts into one draft with paragraph breaks
// between beats. Seam smoothing is the repair pass's job.
func Stitch(beatTexts []string) string {
	nonEmpty := make([]string, 0, len(beatTexts))
	for _, t := range beatTexts {
		t = strings.TrimSpace(t)
		if t != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}

func cadenceOrMixed(cadence string) string {
	if cadence == "" {
		return "mixed"
	}
	return cadence
}

func describeSetting(s types.Setting) string {
	switch {
	case s.Place != "" && s.Time != "":
		return s.Place + ", " + s.Time
	case s.Place != "":
		return s.Place
	case s.Time != "":
		return s.Time
	default:
		return "writer's choice"
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "writer's choice"
	}
	return strings.Join(items, "; ")
}

func priorText(beatContext []string) string {
	joined := Stitch(beatContext)
	if joined == "" {
		return "(this is the opening beat)"
	}
	return joined
}

// feedbackBlock renders the revision-notes preamble, or an empty string on a
// first attempt.
func feedbackBlock(feedback []string) string {
	if len(feedback) == 0 {
		return ""
	}
	block, err := prompts.Render("generation.json", "feedback-preamble", map[string]string{
		"Notes": "- " + strings.Join(feedback, "\n- "),
	})
	if err != nil {
		// The preamble is embedded at compile time; a miss means a rename,
		// and the draft prompt still works without it.
		return "- " + strings.Join(feedback, "\n- ")
	}
	return block
}

package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/llm"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/prompts"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

// Repairer runs the post-stitch rewrite pass. When the guard flagged the
// draft it paraphrases the flagged resemblances; on a clean draft it only
// smooths the seams between beats.
type Repairer struct {
	Client llm.Client
	Spec   *types.StorySpec
}

// NewRepairer builds a repairer for spec.
func NewRepairer(client llm.Client, spec *types.StorySpec) *Repairer {
	return &Repairer{Client: client, Spec: spec}
}

// Repair rewrites text. violations holds the guard's violation descriptions;
// an empty list means the draft passed and only transitions need work. The
// caller re-guards whatever comes back.
func (r *Repairer) Repair(ctx context.Context, text string, violations []string) (string, error) {
	var (
		prompt string
		err    error
	)
	if len(violations) > 0 {
		prompt, err = prompts.Render("repair.json", "paraphrase-flagged", map[string]string{
			"Person":     r.Spec.Voice.Person,
			"Tense":      r.Spec.Voice.Tense.Primary,
			"Violations": "- " + strings.Join(violations, "\n- "),
			"Text":       text,
		})
	} else {
		prompt, err = prompts.Render("generation.json", "stitch-transitions", map[string]string{
			"Person": r.Spec.Voice.Person,
			"Tense":  r.Spec.Voice.Tense.Primary,
			"Text":   text,
		})
	}
	if err != nil {
		return "", fmt.Errorf("building repair prompt: %w", err)
	}

	out, err := r.Client.GenerateContent(ctx, prompt, llm.TierRepair, llm.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("repair pass: %w", err)
	}
	return llm.CleanProse(out), nil
}

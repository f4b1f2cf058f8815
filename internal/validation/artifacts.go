package validation

import (
	"regexp"
	"strings"
)

// Patterns that mark LLM scaffolding leaking into a finished draft. Prose
// should contain none of these.
var (
	markdownHeading = regexp.MustCompile(`(?m)^#{1,6}\s`)
	codeFence       = regexp.MustCompile("```")
	placeholder     = regexp.MustCompile(`\[(insert|todo|placeholder|your)[^\]]*\]|\{\{[^}]*\}\}`)
)

// metaOpenings are assistant-style preambles that sometimes survive prose
// cleanup. Checked case-insensitively against the start of the draft.
var metaOpenings = []string{
	"here is",
	"here's",
	"sure,",
	"certainly",
	"as an ai",
	"i have written",
	"below is",
}

// CheckDraftArtifacts scans a generated draft for machine scaffolding that
// should never appear in finished prose. Returns a human-readable description
// per artifact class found; nil when the draft is clean.
func CheckDraftArtifacts(text string) []string {
	var found []string

	if markdownHeading.MatchString(text) {
		found = append(found, "markdown heading in draft")
	}
	if codeFence.MatchString(text) {
		found = append(found, "code fence in draft")
	}
	if m := placeholder.FindString(strings.ToLower(text)); m != "" {
		found = append(found, "unfilled placeholder in draft: "+m)
	}

	opening := strings.ToLower(strings.TrimSpace(text))
	for _, meta := range metaOpenings {
		if strings.HasPrefix(opening, meta) {
			found = append(found, "assistant preamble in draft: "+strings.TrimRight(meta, ","))
			break
		}
	}

	return found
}

// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStorySpec outputs a human-readable summary of the loaded story spec.
func (p *Printer) PrintStorySpec(spec *types.StorySpec) {
	if spec == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Story:    %s\n", spec.Meta.StoryID))
	sb.WriteString(fmt.Sprintf("Voice:    %s person, %s tense\n", spec.Voice.Person, spec.Voice.Tense.Primary))
	sb.WriteString(fmt.Sprintf("Length:   %d words target\n", spec.Constraints.LengthWords.Target))
	sb.WriteString("\n")

	if len(spec.Form.BeatMap) > 0 {
		sb.WriteString("Beats:\n")
		count := min(len(spec.Form.BeatMap), maxItemsToShow)
		for i := 0; i < count; i++ {
			beat := spec.Form.BeatMap[i]
			sb.WriteString(fmt.Sprintf("  • %s (%d words)", beat.ID, beat.TargetWords))
			if beat.Cadence != "" {
				sb.WriteString(fmt.Sprintf(" [%s]", beat.Cadence))
			}
			sb.WriteString("\n")
		}
		if len(spec.Form.BeatMap) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(spec.Form.BeatMap)-maxItemsToShow))
		}
	}

	p.printBox("STORY SPEC", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGuardVerdict outputs the anti-plagiarism measurements for one draft.
func (p *Printer) PrintGuardVerdict(candidateID string, verdict *types.GuardVerdict) {
	if verdict == nil {
		return
	}

	var sb strings.Builder

	status := "PASSED"
	if !verdict.Passed {
		status = "FAILED"
	}
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", candidateID))
	sb.WriteString(fmt.Sprintf("Status:    %s\n", status))
	sb.WriteString(fmt.Sprintf("Max shared n-gram:  %d\n", verdict.MaxSharedNgram))
	sb.WriteString(fmt.Sprintf("4-gram overlap:     %.2f%%\n", verdict.OverlapPct*100))
	sb.WriteString(fmt.Sprintf("SimHash distance:   %d\n", verdict.HammingDistance))

	if len(verdict.Violations) > 0 {
		sb.WriteString("\nViolations:\n")
		for _, v := range verdict.Violations {
			sb.WriteString(fmt.Sprintf("  • %s\n", v.Details))
		}
	}

	p.printBox("PLAGIARISM GUARD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEvalReport outputs the evaluation scores for one candidate.
func (p *Printer) PrintEvalReport(report *types.EvalReport) {
	if report == nil {
		return
	}

	var sb strings.Builder

	if report.CandidateID != "" {
		sb.WriteString(fmt.Sprintf("Candidate: %s\n", report.CandidateID))
	}
	sb.WriteString(fmt.Sprintf("Overall:   %.3f\n", report.Overall))
	sb.WriteString(fmt.Sprintf("Freshness: %.3f\n", report.Freshness))
	sb.WriteString(fmt.Sprintf("Words:     %d\n", report.WordCount))

	for _, name := range []string{types.MetricStylefit, types.MetricFormfit, types.MetricCadence, types.MetricDialogueBalance} {
		if score, ok := report.SubScore(name); ok {
			sb.WriteString(fmt.Sprintf("  %-18s %.3f\n", name+":", score))
		}
	}

	if len(report.RedFlags) > 0 {
		sb.WriteString("\nRed flags:\n")
		count := min(len(report.RedFlags), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", report.RedFlags[i]))
		}
	}

	p.printBox("EVALUATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSelection outputs the winner and ranking of one selection round.
func (p *Printer) PrintSelection(result *types.SelectionResult) {
	if result == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Winner:    %s\n", result.WinnerID))
	sb.WriteString(fmt.Sprintf("Tie-break: %s\n", result.TieBreakReason))

	if len(result.RankedIDs) > 0 {
		sb.WriteString("\nRanking:\n")
		count := min(len(result.RankedIDs), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  #%d  %s\n", i+1, result.RankedIDs[i]))
		}
	}

	p.printBox("CANDIDATE SELECTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRound outputs one optimization round's outcome.
func (p *Printer) PrintRound(round int, winnerID string, overall, improvement float64) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Round:       %d\n", round))
	sb.WriteString(fmt.Sprintf("Winner:      %s\n", winnerID))
	sb.WriteString(fmt.Sprintf("Overall:     %.3f\n", overall))
	sb.WriteString(fmt.Sprintf("Improvement: %+.3f", improvement))

	p.printBox("OPTIMIZATION ROUND", sb.String())
}

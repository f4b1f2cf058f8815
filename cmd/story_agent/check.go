package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/guard"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/observability"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the plagiarism guard on a candidate text against an exemplar",
	Long: `Checks a candidate text file against an exemplar text file using the
anti-plagiarism guard: longest shared n-gram, 4-gram overlap percentage, and
SimHash distance. Exits non-zero when the candidate fails.`,
	RunE: runCheck,
}

var (
	checkCandidate  string
	checkExemplar   string
	checkMaxNgram   int
	checkOverlapPct float64
	checkHammingMin int
)

func init() {
	defaults := types.DefaultThresholds()

	checkCmd.Flags().StringVarP(&checkCandidate, "candidate", "c", "", "Path to candidate text file (required)")
	checkCmd.Flags().StringVarP(&checkExemplar, "exemplar", "e", "", "Path to exemplar text file (required)")
	checkCmd.Flags().IntVar(&checkMaxNgram, "max-ngram", defaults.MaxNgram, "Longest allowed shared n-gram in tokens")
	checkCmd.Flags().Float64Var(&checkOverlapPct, "overlap-pct", defaults.OverlapPct, "Maximum allowed 4-gram overlap fraction")
	checkCmd.Flags().IntVar(&checkHammingMin, "hamming-min", defaults.HammingMin, "Minimum required SimHash distance")

	_ = checkCmd.MarkFlagRequired("candidate")
	_ = checkCmd.MarkFlagRequired("exemplar")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, _ []string) error {
	candidate, err := os.ReadFile(checkCandidate)
	if err != nil {
		return fmt.Errorf("failed to read candidate: %w", err)
	}
	exemplar, err := os.ReadFile(checkExemplar)
	if err != nil {
		return fmt.Errorf("failed to read exemplar: %w", err)
	}

	thresholds := types.Thresholds{
		MaxNgram:   checkMaxNgram,
		OverlapPct: checkOverlapPct,
		HammingMin: checkHammingMin,
	}

	verdict := guard.Evaluate(string(candidate), string(exemplar), thresholds)

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintGuardVerdict(checkCandidate, &verdict)

	if !verdict.Passed {
		return fmt.Errorf("guard failed with %d violation(s)", len(verdict.Violations))
	}
	return nil
}

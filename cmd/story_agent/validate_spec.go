package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/observability"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/pipeline"
)

var validateSpecCmd = &cobra.Command{
	Use:   "validate-spec <spec.json>",
	Short: "Validate a story spec file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidateSpec,
}

func init() {
	rootCmd.AddCommand(validateSpecCmd)
}

func runValidateSpec(_ *cobra.Command, args []string) error {
	spec, err := pipeline.LoadStorySpec(args[0])
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintStorySpec(spec)
	fmt.Fprintf(os.Stdout, "Spec %s is valid: %d beats, %d target words\n",
		spec.Meta.StoryID, len(spec.Form.BeatMap), spec.Constraints.LengthWords.Target)
	return nil
}

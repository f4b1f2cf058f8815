// Package main provides the entry point for the story generation agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "story_agent",
	Short: "Structure-mimicking short story generator",
	Long:  "story_agent generates short stories that mimic an exemplar's structure while an anti-plagiarism guard keeps the surface text original.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

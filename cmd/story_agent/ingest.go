package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/ingestion"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest an exemplar story from a text file or URL",
	Long:  "Ingest an exemplar story from either a text file or URL, clean the prose, and output cleaned text with metadata.",
	RunE:  runIngest,
}

var (
	ingestFile       string
	ingestURL        string
	ingestOut        string
	ingestUseBrowser bool
	ingestVerbose    bool
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "text-file", "t", "", "Path to text file containing the exemplar")
	ingestCmd.Flags().StringVarP(&ingestURL, "url", "u", "", "URL to fetch the exemplar from")
	ingestCmd.Flags().StringVarP(&ingestOut, "out", "o", "", "Output directory (required)")
	ingestCmd.Flags().BoolVar(&ingestUseBrowser, "use-browser", false, "Use headless browser for script-rendered reading sites")
	ingestCmd.Flags().BoolVarP(&ingestVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = ingestCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, _ []string) error {
	if ingestFile == "" && ingestURL == "" {
		return fmt.Errorf("either --text-file or --url must be provided")
	}
	if ingestFile != "" && ingestURL != "" {
		return fmt.Errorf("--text-file and --url are mutually exclusive; provide only one")
	}

	var cleanedText string
	var metadata *ingestion.Metadata
	var err error

	if ingestFile != "" {
		cleanedText, metadata, err = ingestion.IngestFromFile(ingestFile)
		if err != nil {
			return fmt.Errorf("failed to ingest from file: %w", err)
		}
	} else {
		// Structure extraction is opt-in via GEMINI_API_KEY; ingestion works without it
		apiKey := os.Getenv("GEMINI_API_KEY")
		cleanedText, metadata, err = ingestion.IngestFromURL(context.Background(), ingestURL, apiKey, ingestUseBrowser, ingestVerbose)
		if err != nil {
			return fmt.Errorf("failed to ingest from URL: %w", err)
		}
	}

	if err := ingestion.WriteOutput(ingestOut, cleanedText, metadata); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Successfully ingested exemplar\n")
	fmt.Fprintf(os.Stdout, "Cleaned text: %s/exemplar.cleaned.txt\n", ingestOut)
	fmt.Fprintf(os.Stdout, "Metadata: %s/exemplar.meta.json\n", ingestOut)

	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/degree-tracker/internal/ingestion"
	"github.com/jonathan/degree-tracker/internal/observability"
	"github.com/jonathan/degree-tracker/internal/types"
)

var extractRequirementsCmd = &cobra.Command{
	Use:   "extract-requirements",
	Short: "Extract degree requirements from catalog pages or files",
	Long: `Extract degree requirements from text/HTML files or catalog URLs.

URLs are fetched in parallel. A URL that fails is reported and never stops the others.
Sources with no recognizable requirements yield a single placeholder flagged for manual review.`,
	RunE: runExtractRequirements,
}

var (
	extractTextFiles []string
	extractURLs      []string
	extractOut       string
	extractUseLLM    bool
)

func init() {
	extractRequirementsCmd.Flags().StringSliceVarP(&extractTextFiles, "text-file", "t", nil, "Text or HTML file with requirements (repeatable)")
	extractRequirementsCmd.Flags().StringSliceVarP(&extractURLs, "url", "u", nil, "Catalog URL to fetch (repeatable)")
	extractRequirementsCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Write requirements as JSON to this file")
	extractRequirementsCmd.Flags().BoolVar(&extractUseLLM, "use-llm", false, "Use Gemini for pages the pattern extractor cannot parse")
	rootCmd.AddCommand(extractRequirementsCmd)
}

func runExtractRequirements(cmd *cobra.Command, _ []string) error {
	if len(extractTextFiles) == 0 && len(extractURLs) == 0 {
		return fmt.Errorf("either --text-file or --url must be provided")
	}

	var reqs []types.Requirement
	var failures []types.SourceError

	for _, path := range extractTextFiles {
		fileReqs, _, err := ingestion.ReadRequirementsFile(path)
		if err != nil {
			return fmt.Errorf("failed to ingest from file: %w", err)
		}
		reqs = append(reqs, fileReqs...)
	}

	if len(extractURLs) > 0 {
		client, err := newLLMClient(cmd.Context(), extractUseLLM)
		if err != nil {
			return err
		}
		defer closeLLM(client)

		extractor := ingestion.NewExtractor(newFetcher(), &ingestion.ExtractorConfig{
			Concurrency: cfg.FetchConcurrency,
			LLM:         client,
			Logger:      logger,
		})
		batch := extractor.ExtractFromURLs(cmd.Context(), extractURLs)
		reqs = append(reqs, batch.Requirements()...)
		failures = batch.Errors()
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintRequirements(reqs)
	for _, f := range failures {
		fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: %s\n", f.Source, f.Message)
	}

	if extractOut != "" {
		if err := writeJSON(extractOut, reqs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Requirements: %s\n", extractOut)
	}

	if len(reqs) == 0 && len(failures) > 0 {
		return fmt.Errorf("all %d requirement sources failed", len(failures))
	}
	return nil
}

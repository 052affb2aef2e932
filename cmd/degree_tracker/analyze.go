package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/degree-tracker/internal/observability"
	"github.com/jonathan/degree-tracker/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Audit a transcript against degree requirements",
	Long: `Extract requirements from catalog URLs, files, or inline text, read a transcript,
and report which requirements are fulfilled, planned, or missing.

Requirement extraction and transcript parsing run concurrently. A requirement source that
fails is listed in the report; an unreadable transcript fails the run.`,
	RunE: runAnalyze,
}

var (
	analyzeURLs             []string
	analyzeRequirementFiles []string
	analyzeText             string
	analyzeTranscript       string
	analyzeFormat           string
	analyzeStrategy         string
	analyzeOut              string
	analyzeUseLLM           bool
)

func init() {
	analyzeCmd.Flags().StringSliceVarP(&analyzeURLs, "url", "u", nil, "Catalog URL with requirements (repeatable)")
	analyzeCmd.Flags().StringSliceVar(&analyzeRequirementFiles, "requirements-file", nil, "Text or HTML file with requirements (repeatable)")
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "Requirements as inline text")
	analyzeCmd.Flags().StringVarP(&analyzeTranscript, "transcript", "t", "", "Transcript or course list file")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "Transcript format: csv, transcript or text (detected when empty)")
	analyzeCmd.Flags().StringVarP(&analyzeStrategy, "strategy", "s", "", "Matching strategy: fuzzy or exact (defaults to config)")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the audit report as JSON to this file")
	analyzeCmd.Flags().BoolVar(&analyzeUseLLM, "use-llm", false, "Use Gemini for pages the pattern extractor cannot parse")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	strategy, err := resolveStrategy(analyzeStrategy)
	if err != nil {
		return err
	}

	client, err := newLLMClient(cmd.Context(), analyzeUseLLM)
	if err != nil {
		return err
	}
	defer closeLLM(client)

	out := cmd.OutOrStdout()
	opts := pipeline.Options{
		RequirementURLs:  analyzeURLs,
		RequirementFiles: analyzeRequirementFiles,
		RequirementsText: analyzeText,
		TranscriptPath:   analyzeTranscript,
		TranscriptFormat: analyzeFormat,
		Strategy:         strategy,
		Fetcher:          newFetcher(),
		Concurrency:      cfg.FetchConcurrency,
		LLM:              client,
		Logger:           logger,
	}
	if cfg.Verbose {
		opts.OnProgress = func(event pipeline.ProgressEvent) {
			fmt.Fprintf(out, "[%s] %s\n", event.Step, event.Message)
		}
	}

	report, err := pipeline.Run(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	observability.NewPrinter(out).PrintAnalysis(&report.Analysis)
	fmt.Fprintf(out, "Progress: %d/%d requirements (%d%%), %.1f/%.1f credits\n",
		report.Progress.Completed, report.Progress.Total, report.Progress.Percentage,
		report.Credits.Fulfilled, report.Credits.Required)

	if analyzeOut != "" {
		if err := writeJSON(analyzeOut, report); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report: %s\n", analyzeOut)
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/degree-tracker/internal/commentanalysis"
	"github.com/jonathan/degree-tracker/internal/observability"
)

var exportAnalysisCmd = &cobra.Command{
	Use:   "export-analysis",
	Short: "Export a YouTube comment analysis as a JSON snapshot",
	Long: `Build a snapshot from a saved analysis response, or request a new analysis of
--video-url from the configured analyzer endpoint, and write it as
youtube-analysis-<timestamp>.json.`,
	RunE: runExportAnalysis,
}

var (
	exportResponse string
	exportVideoURL string
	exportEndpoint string
	exportOutDir   string
)

func init() {
	exportAnalysisCmd.Flags().StringVarP(&exportResponse, "response", "r", "", "Saved analysis response JSON file")
	exportAnalysisCmd.Flags().StringVar(&exportVideoURL, "video-url", "", "YouTube video URL to analyze")
	exportAnalysisCmd.Flags().StringVar(&exportEndpoint, "endpoint", "", "Analyzer endpoint (defaults to config analyzer_endpoint)")
	exportAnalysisCmd.Flags().StringVarP(&exportOutDir, "out", "o", ".", "Output directory")
	rootCmd.AddCommand(exportAnalysisCmd)
}

func runExportAnalysis(cmd *cobra.Command, _ []string) error {
	if (exportResponse == "") == (exportVideoURL == "") {
		return fmt.Errorf("exactly one of --response or --video-url must be provided")
	}

	var resp *commentanalysis.Response
	if exportResponse != "" {
		f, err := os.Open(exportResponse)
		if err != nil {
			return fmt.Errorf("failed to open response file: %w", err)
		}
		defer f.Close()
		if resp, err = commentanalysis.DecodeResponse(f); err != nil {
			return err
		}
	} else {
		endpoint := exportEndpoint
		if endpoint == "" {
			endpoint = cfg.AnalyzerEndpoint
		}
		client, err := commentanalysis.NewClient(commentanalysis.Config{Endpoint: endpoint, Logger: logger})
		if err != nil {
			return err
		}
		if resp, err = client.Analyze(cmd.Context(), exportVideoURL); err != nil {
			return err
		}
	}

	snapshot := commentanalysis.NewSnapshot(resp, time.Now())
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("snapshot failed validation: %w", err)
	}

	path := filepath.Join(exportOutDir, snapshot.Filename())
	if err := writeJSON(path, snapshot); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	observability.NewPrinter(out).PrintSnapshot(snapshot)
	fmt.Fprintf(out, "Snapshot: %s\n", path)
	return nil
}

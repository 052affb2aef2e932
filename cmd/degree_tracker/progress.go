package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/degree-tracker/internal/ingestion"
	"github.com/jonathan/degree-tracker/internal/matching"
	"github.com/jonathan/degree-tracker/internal/observability"
	"github.com/jonathan/degree-tracker/internal/tracker"
	"github.com/jonathan/degree-tracker/internal/types"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show progress toward one or more programs",
	Long: `Evaluate built-in programs against a transcript or a saved state file and show
overall and per-category progress.`,
	RunE: runProgress,
}

var (
	progressPrograms    []string
	progressTranscript  string
	progressFormat      string
	progressState       string
	progressStrategy    string
	progressShowMissing bool
)

func init() {
	progressCmd.Flags().StringSliceVarP(&progressPrograms, "program", "p", nil, "Program ID to evaluate (repeatable; see 'programs list')")
	progressCmd.Flags().StringVarP(&progressTranscript, "transcript", "t", "", "Transcript or course list file")
	progressCmd.Flags().StringVar(&progressFormat, "format", "", "Transcript format: csv, transcript or text (detected when empty)")
	progressCmd.Flags().StringVar(&progressState, "state", "", "State file written by add-course")
	progressCmd.Flags().StringVarP(&progressStrategy, "strategy", "s", "", "Matching strategy: fuzzy or exact (defaults to config)")
	progressCmd.Flags().BoolVar(&progressShowMissing, "show-missing", false, "List requirements still missing")
	rootCmd.AddCommand(progressCmd)
}

func runProgress(cmd *cobra.Command, _ []string) error {
	if progressTranscript == "" && progressState == "" {
		return fmt.Errorf("either --transcript or --state must be provided")
	}

	strategy, err := resolveStrategy(progressStrategy)
	if err != nil {
		return err
	}
	t := tracker.New(matching.New(strategy))

	var state tracker.State
	if progressState != "" {
		if state, err = tracker.LoadState(progressState); err != nil {
			return err
		}
	}
	if progressTranscript != "" {
		courses, _, err := ingestion.ReadCourseFile(progressTranscript, progressFormat)
		if err != nil {
			return fmt.Errorf("failed to read transcript: %w", err)
		}
		state, _ = t.ImportCourses(state, courses)
	}

	programs, err := selectPrograms(progressPrograms)
	if err != nil {
		return err
	}
	if len(programs) == 0 && len(state.Programs) == 0 {
		return fmt.Errorf("--program is required when the state has no programs")
	}
	state = t.ActivatePrograms(state, programs...)

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	for _, pp := range t.Progress(state) {
		printer.PrintProgramProgress(pp)
	}
	fmt.Fprintf(out, "Completed credits: %.1f\n", state.CompletedCredits())

	if progressShowMissing {
		printer.PrintRequirements(t.Missing(state, false))
	}
	return nil
}

// selectPrograms looks up built-in programs by ID.
func selectPrograms(ids []string) ([]types.Program, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	registry, err := loadRegistry()
	if err != nil {
		return nil, err
	}
	programs := make([]types.Program, 0, len(ids))
	for _, id := range ids {
		p, err := registry.Get(id)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, nil
}

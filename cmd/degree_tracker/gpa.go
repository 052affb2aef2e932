package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/degree-tracker/internal/ingestion"
	"github.com/jonathan/degree-tracker/internal/observability"
	"github.com/jonathan/degree-tracker/internal/progress"
	"github.com/jonathan/degree-tracker/internal/tracker"
	"github.com/jonathan/degree-tracker/internal/types"
)

var gpaCmd = &cobra.Command{
	Use:   "gpa",
	Short: "Compute GPA from a transcript or state file",
	Long:  `Compute a credit-weighted GPA over completed, graded courses. Pass/fail, withdrawn and incomplete grades are excluded.`,
	RunE:  runGPA,
}

var (
	gpaTranscript string
	gpaFormat     string
	gpaState      string
)

func init() {
	gpaCmd.Flags().StringVarP(&gpaTranscript, "transcript", "t", "", "Transcript or course list file")
	gpaCmd.Flags().StringVar(&gpaFormat, "format", "", "Transcript format: csv, transcript or text (detected when empty)")
	gpaCmd.Flags().StringVar(&gpaState, "state", "", "State file written by add-course")
	rootCmd.AddCommand(gpaCmd)
}

func runGPA(cmd *cobra.Command, _ []string) error {
	var courses []types.Course
	switch {
	case gpaTranscript != "":
		parsed, _, err := ingestion.ReadCourseFile(gpaTranscript, gpaFormat)
		if err != nil {
			return fmt.Errorf("failed to read transcript: %w", err)
		}
		courses = parsed
	case gpaState != "":
		state, err := tracker.LoadState(gpaState)
		if err != nil {
			return err
		}
		courses = state.Courses
	default:
		return fmt.Errorf("either --transcript or --state must be provided")
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintGPA(progress.GPABreakdown(courses))
	return nil
}

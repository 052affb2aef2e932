package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/degree-tracker/internal/ingestion"
	"github.com/jonathan/degree-tracker/internal/observability"
)

var parseCoursesCmd = &cobra.Command{
	Use:   "parse-courses",
	Short: "Parse a transcript or course list into structured courses",
	Long: `Parse a CSV export, transcript, or free-text course list.

The format is detected from the file unless --format is given. Parsed courses are marked completed.`,
	RunE: runParseCourses,
}

var (
	parseCoursesFile   string
	parseCoursesFormat string
	parseCoursesOut    string
)

func init() {
	parseCoursesCmd.Flags().StringVarP(&parseCoursesFile, "file", "f", "", "Transcript or course list file (required)")
	parseCoursesCmd.Flags().StringVar(&parseCoursesFormat, "format", "", "csv, transcript or text (detected when empty)")
	parseCoursesCmd.Flags().StringVarP(&parseCoursesOut, "out", "o", "", "Write courses as JSON to this file")

	_ = parseCoursesCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(parseCoursesCmd)
}

func runParseCourses(cmd *cobra.Command, _ []string) error {
	courses, prov, err := ingestion.ReadCourseFile(parseCoursesFile, parseCoursesFormat)
	if err != nil {
		return fmt.Errorf("failed to read course file: %w", err)
	}

	if cfg.Verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Format: %s  Digest: %s\n", prov.Format, prov.Digest)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintCourses(courses)

	if parseCoursesOut != "" {
		if err := writeJSON(parseCoursesOut, courses); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Courses: %s\n", parseCoursesOut)
	}
	return nil
}

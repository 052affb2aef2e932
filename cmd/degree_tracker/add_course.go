package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/degree-tracker/internal/matching"
	"github.com/jonathan/degree-tracker/internal/tracker"
	"github.com/jonathan/degree-tracker/internal/types"
)

var addCourseCmd = &cobra.Command{
	Use:   "add-course",
	Short: "Add a course to a saved state file",
	Long: `Validate a course and add it to the state file, re-evaluating every tracked program.
The state file is created if it does not exist. Invalid input leaves it untouched.`,
	RunE: runAddCourse,
}

var (
	addCourseState    string
	addCoursePrograms []string
	addCourseInput    types.CourseInput
)

func init() {
	addCourseCmd.Flags().StringVar(&addCourseState, "state", "", "State file to update (required)")
	addCourseCmd.Flags().StringSliceVarP(&addCoursePrograms, "program", "p", nil, "Also track this program ID (repeatable)")
	addCourseCmd.Flags().StringVar(&addCourseInput.Code, "code", "", "Course code, e.g. CS 3000")
	addCourseCmd.Flags().StringVar(&addCourseInput.Title, "title", "", "Course title")
	addCourseCmd.Flags().Float64Var(&addCourseInput.Credits, "credits", 4, "Credit hours")
	addCourseCmd.Flags().StringVar(&addCourseInput.Status, "status", string(types.CourseCompleted), "completed, planned or in-progress")
	addCourseCmd.Flags().StringVar(&addCourseInput.Semester, "semester", "", "Semester, e.g. Fall 2025")
	addCourseCmd.Flags().StringVar(&addCourseInput.Grade, "grade", "", "Letter grade, e.g. A-")

	_ = addCourseCmd.MarkFlagRequired("state")

	rootCmd.AddCommand(addCourseCmd)
}

func runAddCourse(cmd *cobra.Command, _ []string) error {
	state, err := tracker.LoadState(addCourseState)
	if err != nil {
		return err
	}

	strategy, err := cfg.Strategy()
	if err != nil {
		return err
	}
	t := tracker.New(matching.New(strategy))

	programs, err := selectPrograms(addCoursePrograms)
	if err != nil {
		return err
	}
	state = t.ActivatePrograms(state, programs...)

	state, course, err := t.AddCourse(state, addCourseInput)
	if err != nil {
		return err
	}
	if err := tracker.SaveState(addCourseState, state); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Added %s %s (%.1f credits, %s)\n", course.Code, course.Title, course.Credits, course.Status)
	for _, pp := range t.Progress(state) {
		fmt.Fprintf(out, "%s: %d/%d requirements (%d%%)\n",
			pp.Name, pp.Overall.Completed, pp.Overall.Total, pp.Overall.Percentage)
	}
	return nil
}

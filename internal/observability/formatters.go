// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/degree-tracker/internal/commentanalysis"
	"github.com/jonathan/degree-tracker/internal/progress"
	"github.com/jonathan/degree-tracker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if r := []rune(line); len(r) > boxWidth-4 {
			line = string(r[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs the fulfilled/planned/missing partition of an analysis.
func (p *Printer) PrintAnalysis(analysis *types.AnalysisResult) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Requirements: %d  (fulfilled %d, planned %d, missing %d)\n",
		analysis.TotalRequirements(), len(analysis.Fulfilled), len(analysis.Planned), len(analysis.Missing)))
	sb.WriteString(fmt.Sprintf("Credits:      %g of %g\n", analysis.TotalCreditsFulfilled, analysis.TotalCreditsRequired))

	writeResults(&sb, "Fulfilled", "✓", analysis.Fulfilled)
	writeResults(&sb, "Planned", "◐", analysis.Planned)
	writeResults(&sb, "Missing", "✗", analysis.Missing)

	if len(analysis.SourceErrors) > 0 {
		sb.WriteString("\nSource errors:\n")
		for _, e := range analysis.SourceErrors {
			sb.WriteString(fmt.Sprintf("  ! %s: %s\n", e.Source, e.Message))
		}
	}

	p.printBox("REQUIREMENTS ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

func writeResults(sb *strings.Builder, heading, mark string, results []types.MatchResult) {
	if len(results) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", heading))
	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		sb.WriteString(fmt.Sprintf("  %s %s", mark, requirementLabel(r.Requirement)))
		if len(r.MatchedCourses) > 0 {
			codes := make([]string, len(r.MatchedCourses))
			for j, c := range r.MatchedCourses {
				codes[j] = c.Code
			}
			sb.WriteString(fmt.Sprintf(" [%s]", strings.Join(codes, ", ")))
		}
		if r.Requirement.NeedsReview {
			sb.WriteString(" (needs review)")
		}
		sb.WriteString("\n")
	}
	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(results)-maxItemsToShow))
	}
}

func requirementLabel(r types.Requirement) string {
	if r.Name != "" {
		return r.Name
	}
	return r.Description
}

// PrintRequirements outputs extracted requirements with their course lists.
func (p *Printer) PrintRequirements(reqs []types.Requirement) {
	if len(reqs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Extracted %d requirements:\n\n", len(reqs)))
	count := min(len(reqs), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := reqs[i]
		sb.WriteString(fmt.Sprintf("%d. %s (%g credits)\n", i+1, requirementLabel(r), r.Credits))
		if len(r.MatchingCourses) > 0 {
			sb.WriteString(fmt.Sprintf("   Courses: %s\n", strings.Join(r.MatchingCourses, ", ")))
		}
		if r.Note != "" {
			sb.WriteString(fmt.Sprintf("   Note: %s\n", r.Note))
		}
	}
	if len(reqs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(reqs)-maxItemsToShow))
	}

	p.printBox("EXTRACTED REQUIREMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCourses outputs a course list grouped as it was given.
func (p *Printer) PrintCourses(courses []types.Course) {
	if len(courses) == 0 {
		return
	}

	var sb strings.Builder
	credits := 0.0
	for _, c := range courses {
		credits += c.Credits
	}
	sb.WriteString(fmt.Sprintf("Courses: %d  (%g credits)\n\n", len(courses), credits))

	count := min(len(courses), maxItemsToShow*2)
	for i := 0; i < count; i++ {
		c := courses[i]
		sb.WriteString(fmt.Sprintf("%-10s %-28s %4g  %s", c.Code, c.Title, c.Credits, c.Status))
		if c.Grade != "" {
			sb.WriteString(" " + c.Grade)
		}
		sb.WriteString("\n")
	}
	if len(courses) > count {
		sb.WriteString(fmt.Sprintf("... and %d more", len(courses)-count))
	}

	p.printBox("COURSES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgramProgress outputs overall and per-category progress for one program.
func (p *Printer) PrintProgramProgress(pp progress.ProgramProgress) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Program:  %s (%s)\n", pp.Name, pp.Type))
	sb.WriteString(fmt.Sprintf("Overall:  %s %d/%d (%d%%)\n",
		progressBar(pp.Overall.Percentage), pp.Overall.Completed, pp.Overall.Total, pp.Overall.Percentage))

	if len(pp.Categories) > 0 {
		sb.WriteString("\n")
		for _, c := range pp.Categories {
			sb.WriteString(fmt.Sprintf("%-24s %d/%d (%d%%)\n", c.Category, c.Completed, c.Total, c.Percentage))
		}
	}

	p.printBox("PROGRAM PROGRESS", strings.TrimSuffix(sb.String(), "\n"))
}

// progressBar renders a percentage as a 20-cell bar.
func progressBar(pct int) string {
	filled := min(max(pct, 0), 100) / 5
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", 20-filled) + "]"
}

// PrintGPA outputs a GPA breakdown.
func (p *Printer) PrintGPA(r progress.GPAResult) {
	var sb strings.Builder
	if r.GradedCredits == 0 {
		sb.WriteString("No graded credits\n")
	} else {
		sb.WriteString(fmt.Sprintf("GPA:            %.2f\n", r.GPA))
		sb.WriteString(fmt.Sprintf("Graded credits: %g (%d courses)\n", r.GradedCredits, r.GradedCourses))
	}
	if r.NonGPACourses > 0 {
		sb.WriteString(fmt.Sprintf("Non-GPA grades: %d courses\n", r.NonGPACourses))
	}
	if grades := r.Grades(); len(grades) > 0 {
		sb.WriteString("\n")
		for _, g := range grades {
			sb.WriteString(fmt.Sprintf("  %-3s %d\n", g, r.Distribution[g]))
		}
	}

	p.printBox("GRADE POINT AVERAGE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSnapshot outputs the summary of an exported comment analysis.
func (p *Printer) PrintSnapshot(s commentanalysis.Snapshot) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Video:    %s\n", s.VideoInfo.Title))
	if s.VideoInfo.ChannelTitle != "" {
		sb.WriteString(fmt.Sprintf("Channel:  %s\n", s.VideoInfo.ChannelTitle))
	}
	sb.WriteString(fmt.Sprintf("Comments: %d\n\n", s.AnalysisSummary.TotalCommentsAnalyzed))

	k := s.AnalysisSummary.KeyInsights
	sb.WriteString(fmt.Sprintf("FAQs: %d  Pain points: %d  Requests: %d  Misconceptions: %d\n",
		k.FAQs, k.PainPoints, k.ContentRequests, k.Misconceptions))

	if len(s.VideoIdeas) > 0 {
		sb.WriteString("\nVideo ideas:\n")
		count := min(len(s.VideoIdeas), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", s.VideoIdeas[i].Title))
		}
		if len(s.VideoIdeas) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(s.VideoIdeas)-maxItemsToShow))
		}
	}

	p.printBox("COMMENT ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

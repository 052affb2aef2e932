package parsing

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/degree-tracker/internal/types"
)

const (
	// UploadedSemester is the semester recorded for courses read from a transcript
	UploadedSemester = "Uploaded"
	// UploadedGrade is the grade recorded for transcript courses with no grade column
	UploadedGrade = "P"
	// UploadedTitle is used when a transcript line has a code but no title
	UploadedTitle = "Uploaded Course"
)

// Course file formats accepted by ParseCourseFile.
const (
	FormatCSV        = "csv"
	FormatTranscript = "transcript"
	FormatText       = "text"
)

// csvCodePattern validates column 0 of a CSV course row.
var csvCodePattern = regexp.MustCompile(`(?i)[A-Z]{2,4}\s*\d{3,4}`)

// transcriptLine matches "CS 3000 (4.0 Hours) Algorithms" style lines.
var transcriptLine = regexp.MustCompile(
	`(?i)\b([A-Z]{2,4})\s*(\d{3,4})\b\s*(?:\(\s*(\d+(?:\.\d+)?)\s*(?:hours?|credits?|units?)\s*\))?\s*[-:]?\s*(.*)`)

// ParseCSVCourses reads courses from CSV content. The first row is a header and
// is skipped, as are blank rows and rows whose first column is not a course code.
//
// Columns: code, title, credits, then optional status, semester and grade.
// Credits default to 3 when absent, non-numeric or not positive; status
// defaults to completed.
func ParseCSVCourses(content string) []types.Course {
	var courses []types.Course
	for i, line := range splitLines(content) {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, ",")
		for j := range cols {
			cols[j] = strings.TrimSpace(strings.ReplaceAll(cols[j], `"`, ""))
		}
		if len(cols) < 2 || !csvCodePattern.MatchString(cols[0]) {
			continue
		}

		course := newCourse(cols[0], cols[1], SourceText.DefaultCredits())
		if len(cols) > 2 {
			if c, ok := parseCredits(cols[2]); ok {
				course.Credits = c
			}
		}
		if len(cols) > 3 {
			if status, err := types.ParseCourseStatus(cols[3]); err == nil {
				course.Status = status
			}
		}
		if len(cols) > 4 {
			course.Semester = cols[4]
		}
		if len(cols) > 5 {
			course.Grade = strings.ToUpper(cols[5])
		}
		courses = append(courses, course)
	}
	return courses
}

// ParseTextCourses reads every course mention in free text. Each gets the
// text-source default of 3 credits unless a parenthesized count is present.
func ParseTextCourses(content string) []types.Course {
	var courses []types.Course
	for fact := range Facts(content, SourceText) {
		if fact.Kind != FactCourse {
			continue
		}
		m := fact.Course
		courses = append(courses, newCourse(m.Code, m.Title, m.Credits))
	}
	return courses
}

// ParseTranscript reads one course per line from a plain-text transcript.
// Courses are recorded as completed in the "Uploaded" semester with grade P,
// with 4 credits unless the line gives "(N Hours)" or "(N Credits)".
func ParseTranscript(content string) []types.Course {
	var courses []types.Course
	for _, line := range splitLines(content) {
		loc := transcriptLine.FindStringSubmatchIndex(line)
		if loc == nil || nonSubjects[strings.ToUpper(group(line, loc, 1))] {
			continue
		}

		title := cleanTitle(group(line, loc, 4))
		if title == "" {
			title = UploadedTitle
		}
		credits := SourceTranscript.DefaultCredits()
		if c, ok := parseCredits(group(line, loc, 3)); ok {
			credits = c
		}

		course := newCourse(group(line, loc, 1)+" "+group(line, loc, 2), title, credits)
		course.Semester = UploadedSemester
		course.Grade = UploadedGrade
		courses = append(courses, course)
	}
	return courses
}

// ParseCourseFile dispatches on format: FormatCSV, FormatTranscript, or
// anything else as free text.
func ParseCourseFile(content, format string) []types.Course {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ParseCSVCourses(content)
	case FormatTranscript:
		return ParseTranscript(content)
	default:
		return ParseTextCourses(content)
	}
}

func newCourse(code, title string, credits float64) types.Course {
	canonical := CanonicalCode(code)
	return types.Course{
		ID:       uuid.New(),
		Code:     canonical,
		Title:    strings.TrimSpace(title),
		Credits:  credits,
		Status:   types.CourseCompleted,
		Category: CourseCategory(canonical),
	}
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(strings.ReplaceAll(content, "\r", "\n"), "\n")
}

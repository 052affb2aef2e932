package ingestion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jonathan/degree-tracker/internal/parsing"
	"github.com/jonathan/degree-tracker/internal/types"
)

// FormatHTML marks a file as an HTML page. The course formats are the
// parsing.Format constants.
const FormatHTML = "html"

// ErrUnsupportedFile is returned for files that are neither text, CSV nor HTML.
var ErrUnsupportedFile = errors.New("unsupported file type")

var (
	spaceRun      = regexp.MustCompile(`[ \t]+`)
	blankLineRuns = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes line endings and inline whitespace and collapses runs
// of blank lines, keeping one line per source line.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = spaceRun.ReplaceAllString(strings.TrimSpace(line), " ")
	}

	result := blankLineRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// DetectFormat decides how to read a file: by extension first, then by
// sniffing the content.
func DetectFormat(path string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parsing.FormatCSV, nil
	case ".txt", ".text":
		return parsing.FormatTranscript, nil
	case ".html", ".htm":
		return FormatHTML, nil
	}

	mt := mimetype.Detect(content)
	switch {
	case mt.Is("text/csv"):
		return parsing.FormatCSV, nil
	case mt.Is("text/html"):
		return FormatHTML, nil
	}
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return parsing.FormatTranscript, nil
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedFile, filepath.Base(path), mt.String())
}

// readFile reads path once, translating a missing file into a clear error.
func readFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// IngestFromFile reads a text or HTML file and returns its cleaned text with provenance.
func IngestFromFile(path string) (string, *Provenance, error) {
	content, err := readFile(path)
	if err != nil {
		return "", nil, err
	}
	format, err := DetectFormat(path, content)
	if err != nil {
		return "", nil, err
	}

	text := string(content)
	if format == FormatHTML {
		if text, err = parsing.HTMLText(text); err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
		}
	}

	cleanedText := CleanText(text)
	return cleanedText, newProvenance(path, format, cleanedText), nil
}

// ReadCourseFile reads a transcript or course export in one shot. An empty
// format is detected from the file. HTML files are read as free text.
func ReadCourseFile(path, format string) ([]types.Course, *Provenance, error) {
	content, err := readFile(path)
	if err != nil {
		return nil, nil, err
	}
	if format == "" {
		if format, err = DetectFormat(path, content); err != nil {
			return nil, nil, err
		}
	}

	text := string(content)
	if format == FormatHTML {
		if text, err = parsing.HTMLText(text); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
		}
		format = parsing.FormatText
	}

	return parsing.ParseCourseFile(text, format), newProvenance(path, format, text), nil
}

// ReadRequirementsFile extracts requirements from a text or HTML file. The
// result is the review placeholder when nothing is found.
func ReadRequirementsFile(path string) ([]types.Requirement, *Provenance, error) {
	text, prov, err := IngestFromFile(path)
	if err != nil {
		return nil, nil, err
	}
	return parsing.ExtractRequirements(text, path), prov, nil
}

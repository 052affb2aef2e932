// Package parsing extracts course and requirement facts from free text, HTML, CSV
// and transcript files, and canonicalizes course codes for comparison.
package parsing

import (
	"regexp"
	"strings"
)

// codePattern finds a subject prefix (2-4 letters) followed by a 3-4 digit number.
var codePattern = regexp.MustCompile(`(?i)\b([A-Z]{2,4})\s*(\d{3,4})`)

var whitespace = regexp.MustCompile(`\s+`)

// subjectCategories maps subject prefixes to display categories, checked in order.
var subjectCategories = []struct {
	prefix   string
	category string
}{
	{"CS", "Computer Science"},
	{"MATH", "Mathematics"},
	{"DS", "Data Science"},
	{"CY", "Cybersecurity"},
	{"ENGW", "English"},
}

// NormalizeCode extracts the first course code from raw and returns it as
// "SUBJECT NUMBER" with an upper-case subject and a single space.
// ok is false when raw contains no course code.
func NormalizeCode(raw string) (code string, ok bool) {
	m := codePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]) + " " + m[2], true
}

// CanonicalCode returns the comparable form of raw: the normalized code when one
// is present, otherwise the upper-cased text with all whitespace removed.
func CanonicalCode(raw string) string {
	if code, ok := NormalizeCode(raw); ok {
		return code
	}
	return strings.ToUpper(whitespace.ReplaceAllString(raw, ""))
}

// CodesEqual reports whether a and b have the same canonical form.
func CodesEqual(a, b string) bool {
	ca, cb := CanonicalCode(a), CanonicalCode(b)
	return ca != "" && ca == cb
}

// CodesMatch reports whether a and b refer to the same course under the loose
// rule: canonical forms are equal, or either contains the other.
//
// Containment tolerates lab and cross-listing variants but also produces false
// positives: "CS 250" matches "CS 2500".
func CodesMatch(a, b string) bool {
	ca, cb := CanonicalCode(a), CanonicalCode(b)
	if ca == "" || cb == "" {
		return false
	}
	return ca == cb || strings.Contains(ca, cb) || strings.Contains(cb, ca)
}

// CourseCategory returns the display category for a course code.
func CourseCategory(code string) string {
	upper := strings.ToUpper(strings.TrimSpace(code))
	for _, sc := range subjectCategories {
		if strings.HasPrefix(upper, sc.prefix) {
			return sc.category
		}
	}
	return "Other"
}

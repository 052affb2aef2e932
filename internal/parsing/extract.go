package parsing

import (
	"iter"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// SourceKind identifies where extracted text came from; it decides default credits.
type SourceKind int

const (
	// SourceText is free text or HTML-stripped catalog content
	SourceText SourceKind = iota
	// SourceTranscript is an uploaded transcript file
	SourceTranscript
)

// DefaultCredits returns the credit count assumed when a course mention has none.
func (k SourceKind) DefaultCredits() float64 {
	if k == SourceTranscript {
		return 4
	}
	return 3
}

// FactKind tags the variant held by a Fact.
type FactKind string

const (
	// FactCourse is a course mention
	FactCourse FactKind = "course"
	// FactRequirement is a credit requirement mention
	FactRequirement FactKind = "requirement"
)

// CourseMention is a course code found in text, with optional title and credits.
type CourseMention struct {
	Code            string  `json:"code"`
	Title           string  `json:"title"`
	Credits         float64 `json:"credits"`
	ExplicitCredits bool    `json:"explicit_credits"` // False when Credits is the source default
}

// RequirementMention is "N credits of <description>" found in text.
type RequirementMention struct {
	Credits     float64  `json:"credits"`
	Description string   `json:"description"`
	Courses     []string `json:"courses"` // Canonical codes embedded in the description
}

// Fact is one extracted item. Exactly one of Course or Requirement is set, per Kind.
type Fact struct {
	Kind        FactKind
	Offset      int // Byte offset of the match in the scanned text
	Course      *CourseMention
	Requirement *RequirementMention
}

const creditUnit = `(?:credits?|hours?|units?)`

// coursePattern: code, optional "(N credits)" before the title, optional
// separator, title up to "(" or newline, optional "(N credits)" after it.
var coursePattern = regexp.MustCompile(
	`(?i)\b([A-Z]{2,4})[ \t]*(\d{3,4})\b[ \t]*` +
		`(?:\([ \t]*(\d+(?:\.\d+)?)[ \t]*` + creditUnit + `[ \t]*\))?` +
		`[ \t]*[-:]?[ \t]*([^(\n]*)` +
		`(?:\([ \t]*(\d+(?:\.\d+)?)[ \t]*` + creditUnit + `[ \t]*\))?`)

// requirementPattern: integer, credit unit (optionally plural), optional "of"/"in",
// description up to sentence punctuation or newline.
var requirementPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:credit|unit|hour)s?\s*(?:of|in)?\s*([^.!?\n]+)`)

// embeddedCodePattern finds upper-case course codes inside a requirement description.
var embeddedCodePattern = regexp.MustCompile(`\b([A-Z]{2,4})\s*(\d{3,4})`)

// nonSubjects are ordinary words and term names that sit next to a number
// ("Fall 2026", "in 300 words") without being a subject prefix.
var nonSubjects = map[string]bool{
	"FALL": true,
	"TERM": true,
	"YEAR": true,
	"SEM":  true,
	"PAGE": true,
	"ROOM": true,
	"UNIT": true,
	"HOUR": true,
	"AND":  true,
	"FOR":  true,
	"THE":  true,
	"LAB":  true,
	"OF":   true,
	"IN":   true,
	"TO":   true,
	"AT":   true,
	"BY":   true,
	"ON":   true,
}

// Facts returns a lazy sequence of course and requirement mentions in text,
// ordered by offset. Malformed text yields fewer facts; it never fails.
func Facts(text string, kind SourceKind) iter.Seq[Fact] {
	return func(yield func(Fact) bool) {
		courses := &scanner{re: coursePattern, text: text}
		reqs := &scanner{re: requirementPattern, text: text}

		cLoc, cOK := courses.next()
		rLoc, rOK := reqs.next()
		for cOK || rOK {
			if cOK && (!rOK || cLoc[0] <= rLoc[0]) {
				f, resume, ok := courseFact(text, cLoc, kind)
				if ok && !yield(f) {
					return
				}
				switch {
				case !ok:
					// Rescan the rest of the line; the title may hold a real code.
					courses.seek(cLoc[5])
				case resume >= 0:
					courses.seek(resume)
				}
				cLoc, cOK = courses.next()
				continue
			}
			if f, ok := requirementFact(text, rLoc); ok {
				if !yield(f) {
					return
				}
			}
			rLoc, rOK = reqs.next()
		}
	}
}

// scanner walks successive non-overlapping matches of re over text.
type scanner struct {
	re   *regexp.Regexp
	text string
	pos  int
}

func (s *scanner) next() ([]int, bool) {
	if s.pos > len(s.text) {
		return nil, false
	}
	loc := s.re.FindStringSubmatchIndex(s.text[s.pos:])
	if loc == nil {
		s.pos = len(s.text) + 1
		return nil, false
	}
	for i := range loc {
		if loc[i] >= 0 {
			loc[i] += s.pos
		}
	}
	if loc[1] > loc[0] {
		s.pos = loc[1]
	} else {
		s.pos = loc[1] + 1
	}
	return loc, true
}

func (s *scanner) seek(pos int) {
	s.pos = pos
}

func group(text string, loc []int, n int) string {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return text[loc[2*n]:loc[2*n+1]]
}

// courseFact builds the mention for one coursePattern match. When the title
// runs into another course code ("CS 2500, CS 2510") the title stops there and
// resume is that code's offset; otherwise resume is -1.
func courseFact(text string, loc []int, kind SourceKind) (f Fact, resume int, ok bool) {
	subject := strings.ToUpper(group(text, loc, 1))
	if nonSubjects[subject] {
		return Fact{}, -1, false
	}

	title := group(text, loc, 4)
	creditGroups := []int{3, 5}
	resume = nextCodeIn(text, loc[8], loc[9])
	if resume >= 0 {
		title = text[loc[8]:resume]
		// A trailing "(N credits)" belongs to the later code.
		creditGroups = []int{3}
	}

	mention := &CourseMention{
		Code:    subject + " " + group(text, loc, 2),
		Title:   cleanTitle(title),
		Credits: kind.DefaultCredits(),
	}
	for _, g := range creditGroups {
		if c, ok := parseCredits(group(text, loc, g)); ok {
			mention.Credits = c
			mention.ExplicitCredits = true
			break
		}
	}

	return Fact{Kind: FactCourse, Offset: loc[0], Course: mention}, resume, true
}

// nextCodeIn returns the offset of the first course code in text[start:end]
// whose subject is not a term or filler word, or -1.
func nextCodeIn(text string, start, end int) int {
	if start < 0 {
		return -1
	}
	for start < end {
		m := coursePattern.FindStringSubmatchIndex(text[start:end])
		if m == nil {
			return -1
		}
		if !nonSubjects[strings.ToUpper(text[start+m[2]:start+m[3]])] {
			return start + m[0]
		}
		start += m[5]
	}
	return -1
}

func requirementFact(text string, loc []int) (Fact, bool) {
	// "4.0 hours" is a course credit count, not a requirement.
	if start := loc[2]; start > 0 && text[start-1] == '.' {
		return Fact{}, false
	}
	credits, err := strconv.Atoi(group(text, loc, 1))
	if err != nil {
		return Fact{}, false
	}
	description := strings.TrimSpace(strings.TrimLeft(group(text, loc, 2), ") \t"))
	if !strings.ContainsFunc(description, unicode.IsLetter) {
		return Fact{}, false
	}

	return Fact{
		Kind:   FactRequirement,
		Offset: loc[0],
		Requirement: &RequirementMention{
			Credits:     float64(credits),
			Description: description,
			Courses:     embeddedCodes(description),
		},
	}, true
}

// embeddedCodes returns the distinct canonical course codes in s, in order.
func embeddedCodes(s string) []string {
	codes := []string{}
	seen := make(map[string]bool)
	for _, m := range embeddedCodePattern.FindAllStringSubmatch(s, -1) {
		code := m[1] + " " + m[2]
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}

// parseCredits parses a positive credit count.
func parseCredits(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	c, err := strconv.ParseFloat(s, 64)
	if err != nil || c <= 0 {
		return 0, false
	}
	return c, true
}

func cleanTitle(s string) string {
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "-:,;"))
}

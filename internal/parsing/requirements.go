package parsing

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonathan/degree-tracker/internal/types"
)

// blockElements end a line when HTML is flattened to text.
const blockElements = "p, li, td, th, tr, div, br, h1, h2, h3, h4, h5, h6, section, article, dd, dt"

// ExtractRequirements collects every requirement mention in text. When none
// is found it returns exactly one placeholder flagged for manual review;
// callers must read that as "unparsed", not as "no requirements".
func ExtractRequirements(text, source string) []types.Requirement {
	var reqs []types.Requirement
	for fact := range Facts(text, SourceText) {
		if fact.Kind != FactRequirement {
			continue
		}
		m := fact.Requirement
		reqs = append(reqs, types.Requirement{
			Name:            m.Description,
			Description:     m.Description,
			Category:        types.GeneralRequirementCategory,
			Credits:         m.Credits,
			MatchingCourses: m.Courses,
			Source:          source,
		})
	}

	if len(reqs) == 0 {
		return []types.Requirement{types.NewPlaceholderRequirement(source)}
	}
	return reqs
}

// ExtractRequirementsFromHTML flattens an HTML page to text and extracts
// requirements from it. Unparseable HTML yields the placeholder.
func ExtractRequirementsFromHTML(page, source string) []types.Requirement {
	text, err := HTMLText(page)
	if err != nil {
		return []types.Requirement{types.NewPlaceholderRequirement(source)}
	}
	return ExtractRequirements(text, source)
}

// HTMLText returns the visible text of an HTML document with one line per
// block element, so sentence and line boundaries survive for extraction.
func HTMLText(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(&html.Node{Type: html.TextNode, Data: "\n"})
	})

	lines := strings.Split(doc.Text(), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = whitespace.ReplaceAllString(strings.TrimSpace(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), nil
}

package parsing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/degree-tracker/internal/types"
)

// DefaultCatalogCategory holds course lines that appear before any sub-heading.
const DefaultCatalogCategory = "General"

// catalogCourseLine matches "CS 1800 Discrete Structures (4 credits)".
var catalogCourseLine = regexp.MustCompile(
	`(?i)\b([A-Z]{2,4})\s*(\d{3,4})\b\s*[-:]?\s*([^\n(]*?)\s*\(\s*(\d+(?:\.\d+)?)\s*(?:credit|hour)`)

// CatalogPage is the structure read from a program requirements page.
type CatalogPage struct {
	Name          string
	Requirements  map[string][]types.Requirement
	CategoryOrder []string
	TotalCredits  float64
}

// ParseCatalogHTML walks a catalog page in document order. The first h1 or h2
// names the program, h3 and h4 headings open categories, and paragraph, list
// and table cells holding "CODE Title (N credits)" become requirements.
func ParseCatalogHTML(html, source string) (*CatalogPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog HTML: %w", err)
	}

	page := &CatalogPage{Requirements: make(map[string][]types.Requirement)}
	category := DefaultCatalogCategory

	doc.Find("h1, h2, h3, h4, p, li, td").Each(func(_ int, s *goquery.Selection) {
		text := whitespace.ReplaceAllString(strings.TrimSpace(s.Text()), " ")
		if text == "" {
			return
		}

		switch goquery.NodeName(s) {
		case "h1", "h2":
			if page.Name == "" {
				page.Name = strings.TrimSpace(strings.TrimSuffix(text, " Requirements"))
			}
			return
		case "h3", "h4":
			category = text
			return
		}

		// Container cells are visited again through their children.
		if s.Find("p, li, td").Length() > 0 {
			return
		}

		for _, m := range catalogCourseLine.FindAllStringSubmatch(text, -1) {
			if nonSubjects[strings.ToUpper(m[1])] {
				continue
			}
			credits, ok := parseCredits(m[4])
			if !ok {
				continue
			}
			page.add(category, catalogRequirement(m[1]+" "+m[2], cleanTitle(m[3]), credits, category, source))
		}
	})

	return page, nil
}

func (p *CatalogPage) add(category string, req types.Requirement) {
	if _, ok := p.Requirements[category]; !ok {
		p.CategoryOrder = append(p.CategoryOrder, category)
	}
	p.Requirements[category] = append(p.Requirements[category], req)
	p.TotalCredits += req.Credits
}

// catalogRequirement builds a requirement named "CODE - Title" whose only
// accepted course is the code itself.
func catalogRequirement(code, title string, credits float64, category, source string) types.Requirement {
	code = CanonicalCode(code)
	name := code
	if title != "" {
		name = code + " - " + title
	}
	return types.Requirement{
		Name:            name,
		Description:     title,
		Category:        category,
		Credits:         credits,
		MatchingCourses: []string{code},
		Source:          source,
	}
}

package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// boilerplate is removed from every page before text is read.
const boilerplate = "nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// DefaultTextSelectors are the content selectors tried on unknown sites.
func DefaultTextSelectors() []string {
	return []string{"main", "article", ".content", "#content", ".main-content", "#main-content"}
}

// ExtractMainText returns the text of the first element matching one of
// contentSelectors, or of <body> when none match. Boilerplate and anything
// matching noiseSelectors is dropped first.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(boilerplate).Remove()
	if noise := strings.Join(noiseSelectors, ", "); noise != "" {
		doc.Find(noise).Remove()
	}

	root := doc.Find("body")
	for _, sel := range contentSelectors {
		if match := doc.Find(sel); match.Length() > 0 {
			root = match.First()
			break
		}
	}
	return compactLines(root.Text()), nil
}

// extract reads main text with the catalog's own selectors.
func (c Catalog) extract(html string) (string, error) {
	return ExtractMainText(html, CatalogContentSelectors(c), CatalogNoiseSelectors(c)...)
}

// compactLines trims every line and drops blank ones.
func compactLines(text string) string {
	var b strings.Builder
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}

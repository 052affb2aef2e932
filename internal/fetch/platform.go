// Package fetch - platform.go recognizes university catalog sites and their selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Catalog identifies a university catalog site.
type Catalog struct {
	Domain     string
	University string
	// System is the catalog software, which decides the page layout.
	System CatalogSystem
}

// CatalogSystem is the publishing software behind a catalog site.
type CatalogSystem string

const (
	// SystemCourseLeaf is CourseLeaf (catalog.northeastern.edu, catalog.umd.edu)
	SystemCourseLeaf CatalogSystem = "courseleaf"
	// SystemAcalog is Acalog (bulletin.uncc.edu)
	SystemAcalog CatalogSystem = "acalog"
	// SystemUnknown is an unrecognized site
	SystemUnknown CatalogSystem = "unknown"
)

var supportedCatalogs = []Catalog{
	{Domain: "catalog.northeastern.edu", University: "Northeastern University", System: SystemCourseLeaf},
	{Domain: "bulletin.uncc.edu", University: "UNC Charlotte", System: SystemAcalog},
	{Domain: "catalog.umd.edu", University: "University of Maryland", System: SystemCourseLeaf},
}

// SupportedCatalogs returns the catalog sites programs can be imported from.
func SupportedCatalogs() []Catalog {
	return append([]Catalog{}, supportedCatalogs...)
}

// DetectCatalog identifies the catalog site a URL belongs to. Unsupported
// hosts get SystemUnknown.
func DetectCatalog(urlStr string) Catalog {
	c, _ := LookupCatalog(urlStr)
	return c
}

// LookupCatalog is DetectCatalog that also reports whether the host is supported.
func LookupCatalog(urlStr string) (Catalog, bool) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return Catalog{System: SystemUnknown}, false
	}

	host := strings.ToLower(parsed.Hostname())
	for _, c := range supportedCatalogs {
		if host == c.Domain {
			return c, true
		}
	}
	return Catalog{Domain: host, System: SystemUnknown}, false
}

// CatalogContentSelectors returns content selectors for a catalog's layout.
func CatalogContentSelectors(c Catalog) []string {
	switch c.System {
	case SystemCourseLeaf:
		return []string{
			"#programrequirementstextcontainer", // Program requirements tab
			"#requirementstextcontainer",
			"#textcontainer",
			".page_content",
			"main",
		}
	case SystemAcalog:
		return []string{
			".acalog-core",
			"#acalog-content",
			".block_content",
			"td.block_content",
			"main",
		}
	default:
		return DefaultTextSelectors()
	}
}

// CatalogExpandSelectors returns the tabs and toggles to click before reading
// a rendered page.
func CatalogExpandSelectors(c Catalog) []string {
	switch c.System {
	case SystemCourseLeaf:
		return []string{`a[href="#programrequirementstext"]`, `a[href="#requirementstext"]`}
	case SystemAcalog:
		return []string{`.acalog-core a[aria-expanded="false"]`}
	default:
		return nil
	}
}

// CatalogNoiseSelectors returns noise exclusion selectors for a catalog's layout.
func CatalogNoiseSelectors(c Catalog) []string {
	common := []string{
		".breadcrumb",
		".breadcrumbs",
		".skip-link",
		".print-options",
		".social-share",
		".cookie-consent",
		"form",
	}

	switch c.System {
	case SystemCourseLeaf:
		return append(common,
			"#cl-menu",
			"#sidebar",
			".courseblock .courseblockextra",
			"#print-dialog",
		)
	case SystemAcalog:
		return append(common,
			".acalog-navigation",
			"#acalog-navigation",
			".gateway-toolbar",
			"#gateway-page",
		)
	default:
		return common
	}
}

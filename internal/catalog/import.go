package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/degree-tracker/internal/fetch"
	"github.com/jonathan/degree-tracker/internal/metrics"
	"github.com/jonathan/degree-tracker/internal/parsing"
	"github.com/jonathan/degree-tracker/internal/types"
)

// UnknownProgramName names imported programs whose page has no h1 or h2.
const UnknownProgramName = "Unknown Program"

// PageFetcher retrieves a catalog page. *fetch.Fetcher implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// Importer builds programs from university catalog pages.
type Importer struct {
	fetcher PageFetcher
	logger  *zap.Logger
}

// NewImporter creates an Importer. A nil logger discards output.
func NewImporter(fetcher PageFetcher, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{fetcher: fetcher, logger: logger}
}

// Import fetches url and parses it into a program of the given type. Only
// hosts in fetch.SupportedCatalogs are accepted.
//
// Course lines of the form "CODE Title (N credits)" under h3/h4 headings
// become per-category requirements. When the page has none, the free-text
// extractor runs over the page and may yield the review placeholder.
func (i *Importer) Import(ctx context.Context, url string, programType types.ProgramType) (types.Program, error) {
	if programType == "" {
		programType = types.ProgramMajor
	}
	if _, err := types.ParseProgramType(string(programType)); err != nil {
		return types.Program{}, &ImportError{URL: url, Cause: err}
	}

	site, ok := fetch.LookupCatalog(url)
	if !ok {
		return types.Program{}, &ImportError{URL: url, Cause: fmt.Errorf("%w: %s", ErrUnsupportedDomain, site.Domain)}
	}

	result, err := i.fetcher.Fetch(ctx, url)
	if err != nil {
		return types.Program{}, &ImportError{URL: url, Cause: err}
	}

	page, err := parsing.ParseCatalogHTML(result.HTML, url)
	if err != nil {
		return types.Program{}, &ImportError{URL: url, Cause: err}
	}

	p := types.Program{
		Name:          page.Name,
		University:    site.University,
		Type:          programType,
		TotalCredits:  page.TotalCredits,
		SourceURL:     url,
		Requirements:  page.Requirements,
		CategoryOrder: page.CategoryOrder,
	}
	if p.Name == "" {
		p.Name = UnknownProgramName
	}

	method := "catalog"
	if len(p.Requirements) == 0 {
		method = "text"
		reqs := parsing.ExtractRequirementsFromHTML(result.HTML, url)
		if len(reqs) == 1 && reqs[0].NeedsReview {
			method = "placeholder"
		}
		p.Requirements = map[string][]types.Requirement{types.GeneralRequirementCategory: reqs}
		p.CategoryOrder = []string{types.GeneralRequirementCategory}
		for _, r := range reqs {
			p.TotalCredits += r.Credits
		}
	}
	p.ID = ProgramID(p.Name, p.University, p.Type)

	count := len(p.AllRequirements())
	metrics.RequirementsExtracted.WithLabelValues(method).Add(float64(count))
	i.logger.Info("imported program",
		zap.String("url", url),
		zap.String("id", p.ID),
		zap.String("method", method),
		zap.Int("requirements", count))
	return p, nil
}

// ImportInto imports a program and adds it to r, returning the stored copy.
func (i *Importer) ImportInto(ctx context.Context, r *Registry, url string, programType types.ProgramType) (types.Program, error) {
	p, err := i.Import(ctx, url, programType)
	if err != nil {
		return types.Program{}, err
	}
	r.Add(p)
	return p, nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/degree-tracker/internal/catalog"
	"github.com/jonathan/degree-tracker/internal/commentanalysis"
	"github.com/jonathan/degree-tracker/internal/db"
	"github.com/jonathan/degree-tracker/internal/ingestion"
	"github.com/jonathan/degree-tracker/internal/pipeline"
	"github.com/jonathan/degree-tracker/internal/tracker"
	"github.com/jonathan/degree-tracker/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		courseErr  *tracker.ValidationError
		notFound   *catalog.NotFoundError
		courseGone *tracker.NotFoundError
		importErr  *catalog.ImportError
		apiErr     *commentanalysis.APIError
		badCourse  *types.InvalidCourseError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.As(err, &courseErr), errors.As(err, &badCourse):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrNoRequirementSources),
		errors.Is(err, ingestion.ErrInvalidURL),
		errors.Is(err, catalog.ErrUnsupportedDomain),
		errors.Is(err, commentanalysis.ErrInvalidVideoURL):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &courseGone), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, ingestion.ErrHTTPRequestFailed),
		errors.Is(err, ingestion.ErrContentExtractionFailed),
		errors.As(err, &apiErr),
		errors.As(err, &importErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

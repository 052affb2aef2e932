package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/degree-tracker/internal/catalog"
	"github.com/jonathan/degree-tracker/internal/commentanalysis"
	"github.com/jonathan/degree-tracker/internal/db"
	"github.com/jonathan/degree-tracker/internal/ingestion"
	"github.com/jonathan/degree-tracker/internal/pipeline"
	"github.com/jonathan/degree-tracker/internal/tracker"
	"github.com/jonathan/degree-tracker/internal/types"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "url", Message: "is required"}
	assert.Equal(t, "validation error: url - is required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"course validation", &tracker.ValidationError{Cause: errors.New("bad")}, http.StatusBadRequest},
		{"no sources", pipeline.ErrNoRequirementSources, http.StatusBadRequest},
		{
			"invalid course record",
			fmt.Errorf("courses[0]: %w", &types.InvalidCourseError{Code: "CS 3000", Field: "credits", Reason: "-4 must be greater than 0"}),
			http.StatusBadRequest,
		},
		{"invalid url", fmt.Errorf("%w: %q", ingestion.ErrInvalidURL, "x"), http.StatusBadRequest},
		{"invalid video url", commentanalysis.ErrInvalidVideoURL, http.StatusBadRequest},
		{
			"unsupported domain inside import error",
			&catalog.ImportError{URL: "https://example.com", Cause: fmt.Errorf("%w: example.com", catalog.ErrUnsupportedDomain)},
			http.StatusBadRequest,
		},
		{"program not found", &catalog.NotFoundError{ID: "x"}, http.StatusNotFound},
		{"course not found", &tracker.NotFoundError{ID: uuid.New()}, http.StatusNotFound},
		{"stored report not found", fmt.Errorf("%w: audit x", db.ErrNotFound), http.StatusNotFound},
		{"timeout", fmt.Errorf("requirements branch failed: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"upstream fetch", fmt.Errorf("%w: status 503", ingestion.ErrHTTPRequestFailed), http.StatusBadGateway},
		{"import fetch", &catalog.ImportError{URL: "u", Cause: errors.New("connection refused")}, http.StatusBadGateway},
		{"analysis endpoint", &commentanalysis.APIError{StatusCode: 500, Message: "boom"}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

package schemas

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/degree-tracker/internal/types"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer"}
	}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateJSON(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "person.schema.json", personSchema)

	tests := []struct {
		name      string
		document  string
		wantError bool
	}{
		{name: "valid", document: `{"name": "Ada", "age": 36}`},
		{name: "missing required field", document: `{"age": 36}`, wantError: true},
		{name: "wrong type", document: `{"name": "Ada", "age": "thirty"}`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonPath := writeFile(t, t.TempDir(), "doc.json", tt.document)
			err := ValidateJSON(schemaPath, jsonPath)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateJSON_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "person.schema.json", personSchema)
	jsonPath := writeFile(t, dir, "doc.json", `{"name": "Ada"}`)

	err := ValidateJSON(filepath.Join(dir, "nope.schema.json"), jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(schemaPath, filepath.Join(dir, "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedDocument(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "person.schema.json", personSchema)
	jsonPath := writeFile(t, dir, "malformed.json", "{ invalid json }")

	assert.Error(t, ValidateJSON(schemaPath, jsonPath))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed against")
	assert.Contains(t, msg, "1. name: is required")
	assert.Contains(t, msg, "2. age: must be a number")
}

func TestValidateDocument_Program(t *testing.T) {
	program := types.Program{
		ID:         "northeastern-university-computer-science-bs-major",
		Name:       "Computer Science BS",
		University: "Northeastern University",
		Type:       types.ProgramMajor,
		Requirements: map[string][]types.Requirement{
			"Core": {{Name: "CS 3000 - Algorithms", MatchingCourses: []string{"CS 3000"}, Credits: 4}},
		},
		CategoryOrder: []string{"Core"},
	}
	assert.NoError(t, ValidateDocument(Program, program))

	program.Type = "certificate"
	var validationErr *ValidationError
	require.ErrorAs(t, ValidateDocument(Program, program), &validationErr)
	assert.Equal(t, "type", validationErr.Errors[0].Field)
}

func TestValidateDocument_SnapshotKeyInsights(t *testing.T) {
	doc := map[string]any{
		"video_info": map[string]any{"title": "Intro to Go"},
		"analysis_summary": map[string]any{
			"total_comments_analyzed": 10,
			"key_insights": map[string]any{
				"faqs":             2,
				"pain_points":      1,
				"content_requests": 0,
				"misconceptions":   0,
			},
		},
		"video_ideas": []any{},
		"export_date": time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	assert.NoError(t, ValidateDocument(AnalysisSnapshot, doc))

	delete(doc, "export_date")
	assert.Error(t, ValidateDocument(AnalysisSnapshot, doc))
}

func TestValidateDocument_UnknownSchema(t *testing.T) {
	err := ValidateDocument("missing.schema.json", struct{}{})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "missing.schema.json", loadErr.Schema)
}

func TestEmbedded_CompiledOnce(t *testing.T) {
	first, err := Embedded(AuditReport)
	require.NoError(t, err)
	second, err := Embedded(AuditReport)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestFromFile_BadSchema(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.schema.json", `{"type": 12}`)
	_, err := FromFile(path)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, path, loadErr.Schema)
	assert.Contains(t, err.Error(), "failed to compile")
}

func TestSchema_ValidateReportsSchemaName(t *testing.T) {
	schema, err := FromFile(writeFile(t, t.TempDir(), "person.schema.json", personSchema))
	require.NoError(t, err)

	err = schema.Validate([]byte(`{}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Schema, "person.schema.json")
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidateFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "program.json",
		`{"name": "Data Science Minor", "type": "minor", "requirements": {}}`)
	assert.NoError(t, ValidateFile(Program, path))

	bad := writeFile(t, t.TempDir(), "program.json", `{"type": "minor"}`)
	assert.Error(t, ValidateFile(Program, bad))
}

func TestLookup(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"audit_report", AuditReport, true},
		{"analysis_snapshot.schema.json", AnalysisSnapshot, true},
		{"program", Program, true},
		{"job_profile", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Lookup(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, name := range EmbeddedNames() {
		_, ok := Lookup(name)
		assert.True(t, ok, name)
	}
}

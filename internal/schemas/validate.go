// Package schemas validates exported documents against JSON Schemas, either
// the ones embedded in the binary or a schema file on disk.
package schemas

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/degree-tracker/schemas"
)

// Names of the embedded schemas.
const (
	AuditReport      = "audit_report.schema.json"
	AnalysisSnapshot = "analysis_snapshot.schema.json"
	Program          = "program.schema.json"
)

const schemaSuffix = ".schema.json"

// builtin compiles each embedded schema on first use.
var builtin = map[string]func() (*Schema, error){}

func init() {
	for _, name := range []string{AuditReport, AnalysisSnapshot, Program} {
		builtin[name] = sync.OnceValues(func() (*Schema, error) {
			data, err := fs.ReadFile(schemafiles.FS, name)
			if err != nil {
				return nil, &LoadError{Schema: name, Reason: "schema not embedded", Err: err}
			}
			return compile(name, data)
		})
	}
}

// Schema is a compiled JSON Schema.
type Schema struct {
	name     string
	compiled *gojsonschema.Schema
}

// FieldError is one schema violation. Field is "(root)" for the document itself.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "validation failed against %s:\n", e.Schema)
	for i, fe := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// LoadError means the schema itself could not be read or compiled.
type LoadError struct {
	Schema string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load schema %s: %s: %v", e.Schema, e.Reason, e.Err)
	}
	return fmt.Sprintf("load schema %s: %s", e.Schema, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Lookup resolves a short schema name such as "audit_report" to its embedded
// file name.
func Lookup(name string) (string, bool) {
	if !strings.HasSuffix(name, schemaSuffix) {
		name += schemaSuffix
	}
	if _, ok := builtin[name]; !ok {
		return "", false
	}
	return name, true
}

// EmbeddedNames lists the short names Lookup accepts, sorted.
func EmbeddedNames() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, strings.TrimSuffix(name, schemaSuffix))
	}
	slices.Sort(names)
	return names
}

// Embedded returns the named embedded schema.
func Embedded(name string) (*Schema, error) {
	load, ok := builtin[name]
	if !ok {
		return nil, &LoadError{Schema: name, Reason: "schema not embedded"}
	}
	return load()
}

// FromFile reads and compiles a schema file.
func FromFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Schema: path, Reason: "schema file not found", Err: err}
	}
	return compile(path, data)
}

func compile(name string, data []byte) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &LoadError{Schema: name, Reason: "schema failed to compile", Err: err}
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// Validate checks a JSON document. Violations are returned as a
// *ValidationError; a document that is not JSON is a plain error.
func (s *Schema) Validate(doc []byte) error {
	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to validate document against %s: %w", s.name, err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: s.name, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}

// ValidateDocument marshals v and validates it against the named embedded schema.
func ValidateDocument(name string, v any) error {
	schema, err := Embedded(name)
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	return schema.Validate(data)
}

// ValidateFile validates a JSON file against the named embedded schema.
func ValidateFile(name, jsonPath string) error {
	schema, err := Embedded(name)
	if err != nil {
		return err
	}
	return validateFileWith(schema, jsonPath)
}

// ValidateJSON validates a JSON file against a schema file.
func ValidateJSON(schemaPath, jsonPath string) error {
	schema, err := FromFile(schemaPath)
	if err != nil {
		return err
	}
	return validateFileWith(schema, jsonPath)
}

func validateFileWith(schema *Schema, jsonPath string) error {
	doc, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("JSON file not found: %w", err)
	}
	return schema.Validate(doc)
}

package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ValidationError reports manual course input that failed validation.
// The state is never modified when it is returned.
type ValidationError struct {
	Fields map[string]string // JSON field name -> message
	Cause  error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("invalid course: %v", e.Cause)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, name := range fieldOrder {
		if msg, ok := e.Fields[name]; ok {
			parts = append(parts, name+": "+msg)
		}
	}
	return "invalid course: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NotFoundError reports a course ID that is not on the record.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("course %s not found", e.ID)
}

var fieldOrder = []string{"code", "title", "credits", "status", "semester", "grade"}

// newValidationError translates validator field errors into form messages.
func newValidationError(err error) *ValidationError {
	ve := &ValidationError{Fields: make(map[string]string), Cause: err}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ve
	}
	for _, fe := range fieldErrs {
		ve.Fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "coursecode":
		return "must look like SUBJ 1234"
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

package parsing

import "fmt"

// Stages of model-assisted requirement extraction.
const (
	StageRequest  = "request"
	StageDecode   = "decode"
	StageValidate = "validate"
)

// LLMError reports where model-assisted extraction of one source failed.
type LLMError struct {
	Stage  string
	Source string
	Field  string // offending field, for StageValidate
	Err    error
}

func (e *LLMError) Error() string {
	where := e.Stage
	if e.Field != "" {
		where += " " + e.Field
	}
	return fmt.Sprintf("llm extraction of %s failed at %s: %v", e.Source, where, e.Err)
}

func (e *LLMError) Unwrap() error {
	return e.Err
}

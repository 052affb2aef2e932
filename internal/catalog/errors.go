package catalog

import (
	"errors"
	"fmt"
)

// ErrUnsupportedDomain is returned when importing from a host outside the
// supported catalog list.
var ErrUnsupportedDomain = errors.New("unsupported catalog domain")

// NotFoundError reports a program ID that is not in the registry.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("program not found: %s", e.ID)
}

// ImportError wraps a failure while importing a program from a catalog URL.
type ImportError struct {
	URL   string
	Cause error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("failed to import program from %s: %v", e.URL, e.Cause)
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

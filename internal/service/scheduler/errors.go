package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation reports malformed input to a facade operation. It is
	// surfaced synchronously and never retried.
	ErrValidation = errors.New("validation error")

	// ErrNotFoundOrForbidden reports that a record does not exist or is not
	// owned by the caller. The two cases are deliberately indistinguishable.
	ErrNotFoundOrForbidden = errors.New("content not found or not owned by caller")
)

// SchemaIncompleteError is fatal at startup: the scheduler refuses to run
// against a store missing any column it depends on.
type SchemaIncompleteError struct {
	Missing []string
}

func (e *SchemaIncompleteError) Error() string {
	return fmt.Sprintf("content table schema incomplete, missing columns: %s",
		strings.Join(e.Missing, ", "))
}

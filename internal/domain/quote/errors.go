package quote

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation targets a quote id that does not
// exist. Writes that hit it leave no side effects behind.
var ErrNotFound = errors.New("quote not found")

// ValidationError reports caller input rejected before any write happened.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

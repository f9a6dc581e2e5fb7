package ingestion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// Structural preconditions a report must meet before any row is read
var (
	ErrEmptyInput     = errors.New("file is empty")
	ErrHeaderNotFound = errors.New("queue column not found")
	ErrNoDataRows     = errors.New("no data rows after header")
	ErrTooFewColumns  = errors.New("too few columns")
	ErrMissingColumn  = errors.New("required column not found")
	ErrNoValidRows    = errors.New("no valid rows")
	ErrUnknownSource  = errors.New("unknown source")
)

// StructuralError reports that a whole input is unreadable. It lists every
// violated precondition so one message tells the operator what to fix.
type StructuralError struct {
	Source   types.Source
	Problems []error
}

func (e *StructuralError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("%s: %s", e.Source, strings.Join(msgs, "; "))
}

func (e *StructuralError) Unwrap() []error {
	return e.Problems
}

func structural(source types.Source, problems ...error) *StructuralError {
	return &StructuralError{Source: source, Problems: problems}
}

// IsStructural reports whether err is a whole-input failure
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

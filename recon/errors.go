/*
errors.go - Error kinds for the reconciliation run

Two hard failure kinds live here; both abort the run:
  - ErrConnection: the database session cannot be established
  - ErrReadFailure / ReadError: a table or paysheet file could not be read

Soft data-quality failures (a value that will not parse) never surface as
errors; they become nulls and an info-level log line. Missing-column
failures are frame.SchemaError, raised by the component that required the
columns.
*/
package recon

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection is returned when the database session cannot be
	// established. Fatal; retrying a database that is down is an
	// operational action, not a programmatic one.
	ErrConnection = errors.New("database connection failed")

	// ErrReadFailure is the stable kind for any failed table or file
	// read. Match with errors.Is; the concrete error is a *ReadError
	// wrapping the underlying cause.
	ErrReadFailure = errors.New("database read failed")
)

// ReadError reports a failed read of one source (a staging table or a
// paysheet file) and chains the underlying cause for diagnostics.
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrReadFailure) true for every ReadError.
func (e *ReadError) Is(target error) bool { return target == ErrReadFailure }

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/emupack/emupack/pkg/catalog"
)

const (
	// ExitFailure is the generic failure exit code.
	ExitFailure ExitCode = 1
	// ExitInvalidCatalog is returned when the catalog is rejected.
	ExitInvalidCatalog ExitCode = 2
)

type (
	// ExitCode is a process exit status.
	ExitCode int

	// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
	ExitError struct {
		Code ExitCode
		Err  error
	}

	// displayError renders its cause the way the CLI shows errors to users.
	displayError struct {
		err     error
		verbose bool
	}
)

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

func (e *displayError) Error() string { return formatErrorForDisplay(e.err, e.verbose) }

func (e *displayError) Unwrap() error { return e.err }

// exitErrorFor classifies err into an ExitError whose message is formatted
// for display.
func exitErrorFor(err error, verbose bool) *ExitError {
	code := ExitFailure
	if errors.Is(err, catalog.ErrMalformedCatalog) {
		code = ExitInvalidCatalog
	}
	return &ExitError{Code: code, Err: &displayError{err: err, verbose: verbose}}
}

// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedCatalog is the sentinel wrapped by every MalformedCatalogError.
	ErrMalformedCatalog = errors.New("malformed catalog")
	// ErrDanglingReference is the sentinel wrapped by DanglingReferenceError.
	ErrDanglingReference = errors.New("dangling reference")
)

type (
	// MalformedCatalogError reports a structural, type or vocabulary violation.
	// A catalog that produces one is rejected as a whole.
	MalformedCatalogError struct {
		// File is the catalog being loaded ("<input>" when unknown).
		File string
		// Path is the JSON path of the offending field (e.g., "apps[2].id").
		Path string
		// Value is the offending value, when one is known.
		Value string
		// Reason is the human-readable description of the violation.
		Reason string
		// Cause is an optional more specific error (e.g., *DanglingReferenceError).
		Cause error
	}

	// DanglingReferenceError reports a value that points at something that
	// does not exist: an apk index past the end of apkUrls, or a category
	// missing from settings.categories while grouping. The former is fatal;
	// the latter is recovered from by the table renderer.
	DanglingReferenceError struct {
		// AppID is the id of the app holding the reference.
		AppID string
		// Path is the JSON path of the reference.
		Path string
		// Reference is the dangling value.
		Reference string
		// Target names what the reference should resolve into.
		Target string
		// Fatal is true when the reference cannot be recovered from.
		Fatal bool
	}
)

// Error implements the error interface.
func (e *MalformedCatalogError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.File)
	if e.Path != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Path)
	}
	msg.WriteString(": ")
	msg.WriteString(e.Reason)
	if e.Value != "" {
		fmt.Fprintf(&msg, " (got %s)", e.Value)
	}
	return msg.String()
}

// Unwrap returns ErrMalformedCatalog and, when set, the more specific cause.
func (e *MalformedCatalogError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrMalformedCatalog}
	}
	return []error{ErrMalformedCatalog, e.Cause}
}

// Error implements the error interface.
func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("app %q: %s: %s does not resolve to any %s", e.AppID, e.Path, e.Reference, e.Target)
}

// Unwrap returns ErrDanglingReference for errors.Is() compatibility.
func (e *DanglingReferenceError) Unwrap() error { return ErrDanglingReference }

// MalformedIssues flattens err into the MalformedCatalogErrors it carries.
// It returns nil when err holds none.
func MalformedIssues(err error) []*MalformedCatalogError {
	if err == nil {
		return nil
	}

	var out []*MalformedCatalogError
	var walk func(error)
	walk = func(e error) {
		if m, ok := e.(*MalformedCatalogError); ok {
			out = append(out, m)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			if inner := u.Unwrap(); inner != nil {
				walk(inner)
			}
		}
	}
	walk(err)
	return out
}

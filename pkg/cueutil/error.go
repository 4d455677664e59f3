// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
)

const (
	// disjunctionSummary ends the header CUE puts before the per-branch
	// errors of a failed disjunction.
	disjunctionSummary = "errors in empty disjunction:"

	noAlternativeMessage = "value matches none of the allowed alternatives"
)

type (
	// Issue is a single schema violation.
	Issue struct {
		// Path is the JSON path to the invalid value (e.g., "apps[0].name").
		// Empty for errors that are not tied to a field, such as syntax errors.
		Path string

		// Message is the validation error message.
		Message string

		// Value is the offending value as written in the source, in JSON
		// notation. Empty when the field is absent or not a scalar.
		Value string
	}

	// SchemaError reports every violation found while validating one file.
	SchemaError struct {
		// FilePath is the file being validated.
		FilePath string

		// Issues holds one entry per offending location, in CUE's reporting order.
		Issues []Issue
	}
)

// String renders the issue as "<path>: <message>".
func (i Issue) String() string {
	msg := i.Message
	if i.Value != "" {
		msg = fmt.Sprintf("%s (got %s)", msg, i.Value)
	}
	if i.Path != "" {
		return fmt.Sprintf("%s: %s", i.Path, msg)
	}
	return msg
}

// Error implements the error interface.
//
// Error format: <file-path>: <json-path>: <message>, with one indented line
// per issue when there is more than one.
func (e *SchemaError) Error() string {
	switch len(e.Issues) {
	case 0:
		return fmt.Sprintf("%s: validation failed", e.FilePath)
	case 1:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Issues[0])
	}

	lines := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		lines = append(lines, issue.String())
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
}

// FormatError converts a CUE error into a *SchemaError with JSON path issues.
//
// Examples of rendered issues:
//   - catalog.json: apps[0].categories[1]: value matches none of the allowed alternatives
//   - config.cue: table.heading_level: invalid value 9 (out of bound <=6)
//
// Errors that are not CUE errors are wrapped with the file path as-is.
// Each field path is reported once: a disjunction that fails on every
// branch becomes a single issue.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	var cueErr errors.Error
	if !errors.As(err, &cueErr) {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	schemaErr := &SchemaError{FilePath: filePath}
	seen := make(map[string]int)
	for _, e := range errors.Errors(err) {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		issue := Issue{
			Path:    formatPath(e.Path()),
			Message: strings.TrimSuffix(msg, ":"),
		}
		disjunction := strings.HasSuffix(msg, disjunctionSummary)
		if disjunction {
			issue.Message = noAlternativeMessage
		}

		key := issue.Path
		if key == "" {
			key = "\x00" + issue.Message
		}
		if i, ok := seen[key]; ok {
			if disjunction {
				schemaErr.Issues[i].Message = issue.Message
			}
			continue
		}
		seen[key] = len(schemaErr.Issues)
		schemaErr.Issues = append(schemaErr.Issues, issue)
	}

	return schemaErr
}

// withValues fills Issue.Value from source, the user data before
// unification, when err is a *SchemaError. Other errors are returned as-is.
func withValues(err error, source cue.Value) error {
	var e *SchemaError
	if !errors.As(err, &e) {
		return err
	}

	for i := range e.Issues {
		if e.Issues[i].Path == "" {
			continue
		}
		p := cue.ParsePath(e.Issues[i].Path)
		if p.Err() != nil {
			continue
		}
		v := source.LookupPath(p)
		if !v.Exists() {
			continue
		}
		switch v.Kind() {
		case cue.NullKind, cue.BoolKind, cue.IntKind, cue.FloatKind, cue.StringKind:
			if data, err := v.MarshalJSON(); err == nil {
				e.Issues[i].Value = string(data)
			}
		}
	}
	return e
}

// formatPath converts a CUE error path to JSON-path notation for user-facing messages.
// CUE provides error paths as flat string slices (e.g., ["#Catalog", "apps", "0", "name"])
// where numeric elements represent array indices; the result is "apps[0].name".
// Leading definition selectors name the schema, not the document, and are dropped.
func formatPath(path []string) string {
	for len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	if len(path) == 0 {
		return ""
	}

	var result strings.Builder
	for i, part := range path {
		if isIndex(part) && i > 0 {
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
			continue
		}
		if i > 0 {
			result.WriteString(".")
		}
		result.WriteString(part)
	}

	return result.String()
}

func isIndex(part string) bool {
	if part == "" {
		return false
	}
	for _, c := range part {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize verifies that data does not exceed the specified maximum size.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}

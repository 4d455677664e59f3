// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// TableMarker is the readme.sections entry replaced by the rendered table.
	TableMarker = "@table"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidOutputPath is returned when an OutputPath value is whitespace-only.
	ErrInvalidOutputPath = errors.New("invalid output path")
	// ErrInvalidHeadingLevel is returned when a HeadingLevel is outside 1..6.
	ErrInvalidHeadingLevel = errors.New("invalid heading level")
	// ErrInvalidBaseURL is returned when link.base_url is not an absolute URL.
	ErrInvalidBaseURL = errors.New("invalid link base URL")
	// ErrInvalidReadmeSections is returned when readme.sections is inconsistent.
	ErrInvalidReadmeSections = errors.New("invalid readme sections")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// OutputPath is the destination of a generated artifact.
	// The zero value ("") is valid and means "do not write this artifact".
	OutputPath string

	// InvalidOutputPathError is returned when an OutputPath value is
	// non-empty but whitespace-only.
	InvalidOutputPathError struct {
		Field string
		Value OutputPath
	}

	// HeadingLevel is the Markdown heading level of table group titles.
	HeadingLevel int

	// InvalidHeadingLevelError is returned when a HeadingLevel is outside 1..6.
	InvalidHeadingLevelError struct {
		Value HeadingLevel
	}

	// InvalidBaseURLError is returned when link.base_url cannot be used.
	InvalidBaseURLError struct {
		Value  string
		Reason string
	}

	// InvalidReadmeSectionsError is returned when readme.sections has an
	// empty entry or more than one table marker.
	InvalidReadmeSectionsError struct {
		Reason string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Catalog is the catalog document to load.
		Catalog string `json:"catalog" mapstructure:"catalog"`
		// Link configures deep link generation.
		Link LinkConfig `json:"link" mapstructure:"link"`
		// Output configures the generated artifacts.
		Output OutputConfig `json:"output" mapstructure:"output"`
		// Readme configures README assembly.
		Readme ReadmeConfig `json:"readme" mapstructure:"readme"`
		// Table configures the rendered table.
		Table TableConfig `json:"table" mapstructure:"table"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// LinkConfig configures deep link generation.
	LinkConfig struct {
		// BaseURL is the address the encoded payload is appended to.
		BaseURL string `json:"base_url" mapstructure:"base_url"`
	}

	// OutputConfig lists the artifact paths.
	OutputConfig struct {
		Export OutputPath `json:"export" mapstructure:"export"`
		Readme OutputPath `json:"readme" mapstructure:"readme"`
		// Table writes the bare table fragment when set.
		Table OutputPath `json:"table" mapstructure:"table"`
		// Checksum writes <export>.sha256 next to the export.
		Checksum bool `json:"checksum" mapstructure:"checksum"`
	}

	// ReadmeConfig configures README assembly.
	ReadmeConfig struct {
		// Sections are concatenated in order; TableMarker is replaced by the table.
		Sections []string `json:"sections" mapstructure:"sections"`
	}

	// TableConfig configures the rendered table.
	TableConfig struct {
		HeadingLevel  HeadingLevel `json:"heading_level" mapstructure:"heading_level"`
		FallbackGroup string       `json:"fallback_group" mapstructure:"fallback_group"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the ColorScheme is one of the defined schemes,
// and a list of validation errors if it is not.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// String returns the string representation of the OutputPath.
func (p OutputPath) String() string { return string(p) }

// Enabled reports whether the artifact should be written.
func (p OutputPath) Enabled() bool { return p != "" }

// IsValid returns whether the OutputPath is valid.
// The zero value is valid; non-zero values must not be whitespace-only.
func (p OutputPath) IsValid() (bool, []error) {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidOutputPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidOutputPathError.
func (e *InvalidOutputPathError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: invalid output path %q: non-empty value must not be whitespace-only", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid output path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidOutputPath for errors.Is() compatibility.
func (e *InvalidOutputPathError) Unwrap() error { return ErrInvalidOutputPath }

// IsValid returns whether the HeadingLevel is a Markdown heading level.
func (l HeadingLevel) IsValid() (bool, []error) {
	if l < 1 || l > 6 {
		return false, []error{&InvalidHeadingLevelError{Value: l}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHeadingLevelError.
func (e *InvalidHeadingLevelError) Error() string {
	return fmt.Sprintf("invalid heading level %d: must be between 1 and 6", e.Value)
}

// Unwrap returns ErrInvalidHeadingLevel for errors.Is() compatibility.
func (e *InvalidHeadingLevelError) Unwrap() error { return ErrInvalidHeadingLevel }

// IsValid returns whether BaseURL is an absolute URL.
func (c LinkConfig) IsValid() (bool, []error) {
	u, err := url.Parse(c.BaseURL)
	switch {
	case err != nil:
		return false, []error{&InvalidBaseURLError{Value: c.BaseURL, Reason: err.Error()}}
	case u.Scheme == "":
		return false, []error{&InvalidBaseURLError{Value: c.BaseURL, Reason: "missing scheme"}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBaseURLError.
func (e *InvalidBaseURLError) Error() string {
	return fmt.Sprintf("invalid link base URL %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidBaseURL for errors.Is() compatibility.
func (e *InvalidBaseURLError) Unwrap() error { return ErrInvalidBaseURL }

// IsValid returns whether every output path is valid.
func (c OutputConfig) IsValid() (bool, []error) {
	var errs []error
	for _, out := range []struct {
		field string
		path  OutputPath
	}{
		{"output.export", c.Export},
		{"output.readme", c.Readme},
		{"output.table", c.Table},
	} {
		if valid, _ := out.path.IsValid(); !valid {
			errs = append(errs, &InvalidOutputPathError{Field: out.field, Value: out.path})
		}
	}
	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

// IsValid returns whether the sections are non-empty and hold at most one
// table marker.
func (c ReadmeConfig) IsValid() (bool, []error) {
	markers := 0
	for i, s := range c.Sections {
		if strings.TrimSpace(s) == "" {
			return false, []error{&InvalidReadmeSectionsError{Reason: fmt.Sprintf("readme.sections[%d] is empty", i)}}
		}
		if s == TableMarker {
			markers++
		}
	}
	if markers > 1 {
		return false, []error{&InvalidReadmeSectionsError{Reason: fmt.Sprintf("%q appears %d times", TableMarker, markers)}}
	}
	return true, nil
}

// HasTable reports whether the table is spliced into the README.
func (c ReadmeConfig) HasTable() bool {
	for _, s := range c.Sections {
		if s == TableMarker {
			return true
		}
	}
	return false
}

// Error implements the error interface for InvalidReadmeSectionsError.
func (e *InvalidReadmeSectionsError) Error() string {
	return "invalid readme sections: " + e.Reason
}

// Unwrap returns ErrInvalidReadmeSections for errors.Is() compatibility.
func (e *InvalidReadmeSectionsError) Unwrap() error { return ErrInvalidReadmeSections }

// IsValid returns whether the TableConfig has valid fields.
func (c TableConfig) IsValid() (bool, []error) {
	return c.HeadingLevel.IsValid()
}

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	return c.ColorScheme.IsValid()
}

// IsValid returns whether the Config has valid fields, collecting the
// errors of every sub-component.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Catalog) == "" {
		errs = append(errs, errors.New("catalog must not be empty"))
	}
	for _, v := range []interface{ IsValid() (bool, []error) }{c.Link, c.Output, c.Readme, c.Table, c.UI} {
		if valid, fieldErrs := v.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s): %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

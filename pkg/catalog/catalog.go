// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

const (
	CategoryEmulator    Category = "Emulator"
	CategoryPCEmulation Category = "PC Emulation"
	CategoryDualScreen  Category = "Dual Screen"
	CategoryStreaming   Category = "Streaming"
	CategoryUtilities   Category = "Utilities"
	CategoryFrontend    Category = "Frontend"
	CategoryTrackOnly   Category = "Track Only"

	OverrideGitHub        OverrideSource = "GitHub"
	OverrideGitLab        OverrideSource = "GitLab"
	OverrideCodeberg      OverrideSource = "Codeberg"
	OverrideForgejo       OverrideSource = "Forgejo"
	OverrideHTML          OverrideSource = "HTML"
	OverrideFDroid        OverrideSource = "FDroid"
	OverrideFDroidRepo    OverrideSource = "FDroidRepo"
	OverrideSourceForge   OverrideSource = "SourceForge"
	OverrideSourceHut     OverrideSource = "SourceHut"
	OverrideAPKMirror     OverrideSource = "APKMirror"
	OverrideDirectAPKLink OverrideSource = "DirectAPKLink"
)

var (
	// ErrInvalidCategory is returned when a Category is outside the vocabulary.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidOverrideSource is returned when an OverrideSource is not recognized.
	ErrInvalidOverrideSource = errors.New("invalid override source")

	vocabulary = []Category{
		CategoryEmulator,
		CategoryPCEmulation,
		CategoryDualScreen,
		CategoryStreaming,
		CategoryUtilities,
		CategoryFrontend,
		CategoryTrackOnly,
	}

	overrideSources = []OverrideSource{
		OverrideGitHub,
		OverrideGitLab,
		OverrideCodeberg,
		OverrideForgejo,
		OverrideHTML,
		OverrideFDroid,
		OverrideFDroidRepo,
		OverrideSourceForge,
		OverrideSourceHut,
		OverrideAPKMirror,
		OverrideDirectAPKLink,
	}
)

type (
	// Category is a tag from the controlled catalog vocabulary.
	Category string

	// InvalidCategoryError is returned when a Category value is not in the vocabulary.
	// It wraps ErrInvalidCategory for errors.Is() compatibility.
	InvalidCategoryError struct {
		Value Category
	}

	// OverrideSource tells the installer how to interpret an app's url.
	OverrideSource string

	// InvalidOverrideSourceError is returned when an OverrideSource value is not recognized.
	// It wraps ErrInvalidOverrideSource for errors.Is() compatibility.
	InvalidOverrideSourceError struct {
		Value OverrideSource
	}

	// Meta holds build-tool only fields. They never reach the installer.
	Meta struct {
		NameOverride      string `json:"nameOverride,omitempty"`
		URLOverride       string `json:"urlOverride,omitempty"`
		ExcludeFromExport bool   `json:"excludeFromExport,omitempty"`
		ExcludeFromTable  bool   `json:"excludeFromTable,omitempty"`
	}

	// App is one catalog record.
	//
	// Optional fields use nil to mean "absent" so that consumers can tell an
	// absent value from a zero value. AdditionalSettings is a JSON object kept
	// in its authored key order.
	App struct {
		ID                 string          `json:"id"`
		URL                string          `json:"url"`
		Author             string          `json:"author"`
		Name               string          `json:"name"`
		Categories         []Category      `json:"categories"`
		OtherAssetURLs     []string        `json:"otherAssetUrls,omitempty"`
		APKURLs            []string        `json:"apkUrls,omitempty"`
		PreferredAPKIndex  *int            `json:"preferredApkIndex,omitempty"`
		AdditionalSettings json.RawMessage `json:"additionalSettings,omitempty"`
		OverrideSource     *OverrideSource `json:"overrideSource,omitempty"`
		AllowIDChange      *bool           `json:"allowIdChange,omitempty"`
		Meta               *Meta           `json:"meta,omitempty"`
	}

	// CategorySetting is one entry of the settings.categories object.
	CategorySetting struct {
		Name  Category
		Color int64
	}

	// CategorySettings is the ordered settings.categories object. It is
	// encoded as a JSON object whose key order is the slice order.
	CategorySettings []CategorySetting

	// Settings is the global rendering and import configuration.
	Settings struct {
		GroupByCategory bool             `json:"groupByCategory"`
		Categories      CategorySettings `json:"categories"`
	}

	// Catalog is the top-level document.
	Catalog struct {
		Apps     []App    `json:"apps"`
		Settings Settings `json:"settings"`
	}
)

// Vocabulary returns the controlled category vocabulary in declaration order.
func Vocabulary() []Category {
	return slices.Clone(vocabulary)
}

// OverrideSources returns every recognized override source.
func OverrideSources() []OverrideSource {
	return slices.Clone(overrideSources)
}

// Error implements the error interface for InvalidCategoryError.
func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid category %q (valid: %v)", e.Value, vocabulary)
}

// Unwrap returns ErrInvalidCategory for errors.Is() compatibility.
func (e *InvalidCategoryError) Unwrap() error { return ErrInvalidCategory }

// IsValid returns whether the Category belongs to the vocabulary,
// and a list of validation errors if it does not.
func (c Category) IsValid() (bool, []error) {
	if slices.Contains(vocabulary, c) {
		return true, nil
	}
	return false, []error{&InvalidCategoryError{Value: c}}
}

// String returns the string representation of the Category.
func (c Category) String() string { return string(c) }

// Error implements the error interface for InvalidOverrideSourceError.
func (e *InvalidOverrideSourceError) Error() string {
	return fmt.Sprintf("invalid override source %q", e.Value)
}

// Unwrap returns ErrInvalidOverrideSource for errors.Is() compatibility.
func (e *InvalidOverrideSourceError) Unwrap() error { return ErrInvalidOverrideSource }

// IsValid returns whether the OverrideSource is recognized,
// and a list of validation errors if it is not.
func (s OverrideSource) IsValid() (bool, []error) {
	if slices.Contains(overrideSources, s) {
		return true, nil
	}
	return false, []error{&InvalidOverrideSourceError{Value: s}}
}

// String returns the string representation of the OverrideSource.
func (s OverrideSource) String() string { return string(s) }

// ExcludedFromExport reports whether meta.excludeFromExport is true.
func (a App) ExcludedFromExport() bool {
	return a.Meta != nil && a.Meta.ExcludeFromExport
}

// ExcludedFromTable reports whether meta.excludeFromTable is true.
func (a App) ExcludedFromTable() bool {
	return a.Meta != nil && a.Meta.ExcludeFromTable
}

// EncodedSettings returns additionalSettings as the compact JSON string the
// installer reads, or nil when the app has none.
func (a App) EncodedSettings() (*string, error) {
	if len(a.AdditionalSettings) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, a.AdditionalSettings); err != nil {
		return nil, fmt.Errorf("app %q: additionalSettings: %w", a.ID, err)
	}
	settings := buf.String()
	return &settings, nil
}

// WithoutMeta returns a copy of the app with the meta block removed.
// The receiver is left untouched.
func (a App) WithoutMeta() App {
	a.Meta = nil
	return a
}

// Has reports whether name is one of the configured categories.
func (s CategorySettings) Has(name Category) bool {
	return s.Index(name) >= 0
}

// Index returns the display position of name, or -1 if it is not configured.
func (s CategorySettings) Index(name Category) int {
	return slices.IndexFunc(s, func(c CategorySetting) bool { return c.Name == name })
}

// MarshalJSON encodes the settings as a JSON object in slice order.
func (s CategorySettings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(string(c.Name)); err != nil {
			return nil, err
		}
		// Encode terminates with a newline.
		buf.Truncate(buf.Len() - 1)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", c.Color)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping its key order.
func (s *CategorySettings) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("categories: expected object, got %v", tok)
	}

	out := CategorySettings{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("categories: expected string key, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return fmt.Errorf("categories.%s: expected integer colour, got %v", key, valTok)
		}
		color, err := num.Int64()
		if err != nil {
			return fmt.Errorf("categories.%s: %w", key, err)
		}
		out = append(out, CategorySetting{Name: Category(key), Color: color})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

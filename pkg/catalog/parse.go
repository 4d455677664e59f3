// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/emupack/emupack/pkg/cueutil"
)

const (
	// FormatJSON is a JSON catalog document.
	FormatJSON Format = "json"
	// FormatCUE is a catalog written in CUE.
	FormatCUE Format = "cue"
	// FormatYAML is a YAML catalog document.
	FormatYAML Format = "yaml"

	defaultFilename = "<input>"
)

var (
	//go:embed catalog_schema.cue
	catalogSchema string

	// ErrUnknownFormat is returned by FormatFromPath for unsupported extensions.
	ErrUnknownFormat = errors.New("unknown catalog format")
)

type (
	// Format is the source format of a catalog document.
	Format string

	parseOptions struct {
		filename string
		format   Format
		maxSize  int64
	}

	// ParseOption configures Parse.
	ParseOption func(*parseOptions)
)

// WithFilename sets the name reported in errors.
func WithFilename(name string) ParseOption {
	return func(o *parseOptions) { o.filename = name }
}

// WithFormat sets the source format. Default is FormatJSON.
func WithFormat(format Format) ParseOption {
	return func(o *parseOptions) { o.format = format }
}

// WithMaxSize caps the accepted document size in bytes.
// Default is cueutil.DefaultMaxFileSize.
func WithMaxSize(size int64) ParseOption {
	return func(o *parseOptions) { o.maxSize = size }
}

// FormatFromPath picks the catalog format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".cue":
		return FormatCUE, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Parse validates data and returns the catalog it describes.
//
// Validation happens in two stages: the embedded CUE schema checks shape,
// types and vocabularies, then Validate checks the cross-entry rules. Any
// violation yields an error matching ErrMalformedCatalog; nothing is returned
// alongside it.
func Parse(data []byte, opts ...ParseOption) (*Catalog, error) {
	o := parseOptions{
		filename: defaultFilename,
		format:   FormatJSON,
		maxSize:  cueutil.DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	cueFormat := cueutil.FormatCUE
	switch o.format {
	case FormatJSON, FormatCUE:
	case FormatYAML:
		cueFormat = cueutil.FormatYAML
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, o.format)
	}

	validated, err := cueutil.Validate(
		[]byte(catalogSchema),
		data,
		"#Catalog",
		cueutil.WithFilename(o.filename),
		cueutil.WithFormat(cueFormat),
		cueutil.WithMaxFileSize(o.maxSize),
	)
	if err != nil {
		return nil, malformedFromSchema(err, o.filename)
	}

	// Decode from the source value rather than the unified one: the source
	// keeps authored key order for settings.categories and additionalSettings.
	raw, err := validated.Source.MarshalJSON()
	if err != nil {
		return nil, &MalformedCatalogError{File: o.filename, Reason: "cannot export document", Cause: err}
	}

	var c Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, &MalformedCatalogError{File: o.filename, Reason: err.Error(), Cause: err}
	}

	for i := range c.Apps {
		// A JSON null decodes into a RawMessage verbatim.
		if string(c.Apps[i].AdditionalSettings) == "null" {
			c.Apps[i].AdditionalSettings = nil
		}
	}

	if err := c.validate(o.filename); err != nil {
		return nil, err
	}

	return &c, nil
}

// malformedFromSchema converts schema failures into MalformedCatalogErrors.
func malformedFromSchema(err error, filename string) error {
	var schemaErr *cueutil.SchemaError
	if !errors.As(err, &schemaErr) || len(schemaErr.Issues) == 0 {
		return &MalformedCatalogError{File: filename, Reason: err.Error(), Cause: err}
	}

	errs := make([]error, 0, len(schemaErr.Issues))
	for _, issue := range schemaErr.Issues {
		errs = append(errs, &MalformedCatalogError{
			File:   filename,
			Path:   issue.Path,
			Value:  issue.Value,
			Reason: issue.Message,
		})
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

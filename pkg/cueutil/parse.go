// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

type (
	// Validated contains the values produced by a successful Validate call.
	Validated struct {
		// Unified is the user data unified with the schema definition.
		Unified cue.Value

		// Source is the user data on its own. Its fields keep the order in
		// which they were written, which callers rely on when the order
		// carries meaning (for example display order of categories).
		Source cue.Value
	}

	// ParseResult contains the result of a successful CUE parse operation.
	ParseResult[T any] struct {
		// Value is the decoded Go value.
		Value *T

		// Unified is the unified CUE value, available for advanced use cases
		// such as extracting additional metadata or performing custom validation.
		Unified cue.Value
	}
)

// Validate performs steps 1 and 2 of the parsing flow and validates the result:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with the definition at schemaPath
//  3. Validate (concrete by default)
//
// Schema problems are reported as internal errors; problems with the user data
// are reported as *SchemaError.
func Validate(schema, data []byte, schemaPath string, opts ...Option) (*Validated, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	// Early file size check to prevent OOM attacks from large files
	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue, err := compileUserData(ctx, data, filename, options.format)
	if err != nil {
		return nil, err
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return nil, withValues(FormatError(err, filename), userValue)
	}

	return &Validated{Unified: unified, Source: userValue}, nil
}

// ParseAndDecode runs Validate and decodes the unified value into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	validated, err := Validate(schema, data, schemaPath, opts...)
	if err != nil {
		return nil, err
	}

	var result T
	if err := validated.Unified.Decode(&result); err != nil {
		return nil, FormatError(err, filenameFor(opts))
	}

	return &ParseResult[T]{
		Value:   &result,
		Unified: validated.Unified,
	}, nil
}

// compileUserData turns raw bytes into a CUE value according to format.
func compileUserData(ctx *cue.Context, data []byte, filename string, format Format) (cue.Value, error) {
	switch format {
	case FormatYAML:
		file, err := cueyaml.Extract(filename, data)
		if err != nil {
			return cue.Value{}, FormatError(err, filename)
		}
		v := ctx.BuildFile(file)
		if v.Err() != nil {
			return cue.Value{}, FormatError(v.Err(), filename)
		}
		return v, nil
	case FormatCUE:
		v := ctx.CompileBytes(data, cue.Filename(filename))
		if v.Err() != nil {
			return cue.Value{}, FormatError(v.Err(), filename)
		}
		return v, nil
	default:
		return cue.Value{}, fmt.Errorf("%s: unsupported source format %q", filename, format)
	}
}

func filenameFor(opts []Option) string {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.filename == "" {
		return "<input>"
	}
	return options.filename
}

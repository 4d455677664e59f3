// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// The package consolidates the 3-step CUE parsing pattern used by the catalog
// and config packages:
//
//  1. Compile the embedded schema
//  2. Compile user data (CUE, JSON or YAML) and unify with schema
//  3. Validate, then decode to a Go value
//
// # Usage
//
//	//go:embed catalog_schema.cue
//	var schema string
//
//	result, err := cueutil.Validate(
//	    []byte(schema),
//	    userFileBytes,
//	    "#Catalog",
//	    cueutil.WithFilename("catalog.json"),
//	)
//	if err != nil {
//	    return nil, err // *SchemaError with one Issue per offending path
//	}
//
// Validation failures are reported as *SchemaError values whose Issues carry
// JSON-path style locations such as "apps[3].categories[0]".
package cueutil

// SPDX-License-Identifier: MPL-2.0

// Package export produces the installer import document from a catalog.
//
// The export keeps every app not flagged meta.excludeFromExport, drops the
// meta block from each, and keeps the source settings. It is serialized
// compactly with a fixed key order, so exporting the same catalog always
// yields the same bytes. additionalSettings is written as a JSON string,
// the shape the installer imports and the one its deep links carry.
package export

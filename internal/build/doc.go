// SPDX-License-Identifier: MPL-2.0

// Package build runs the emupack pipeline: load the catalog, derive every
// artifact in memory, then write them.
//
// Writes are all-or-nothing per run. Every artifact is first written to a
// temporary file beside its destination; only when all of them are staged
// are they renamed into place. A run that fails at any earlier point leaves
// the previous artifacts untouched.
package build

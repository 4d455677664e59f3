// SPDX-License-Identifier: MPL-2.0

// Package table renders the catalog as a Markdown table for the README.
//
// Apps are listed either in one flat table or in one section per category,
// following the order of settings.categories. Rows are sorted by the
// case-folded effective name with the app id as tie breaker, and each name
// links to the app's installer deep link.
package table

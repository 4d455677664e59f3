// SPDX-License-Identifier: MPL-2.0

// Package catalog defines the application catalog model and its loader.
//
// A catalog is a single authored document listing emulator applications and
// the global settings used to present them. Parse is the only way in: it
// validates the document against an embedded CUE schema (required fields,
// types, category vocabulary, override sources) and then applies the
// cross-entry rules the schema does not express (unique ids, apk index
// bounds). Every failure is reported as a *MalformedCatalogError carrying
// the JSON path of the offending field, and no partial catalog is returned.
//
// Downstream packages (deeplink, export, table) take the validated values
// as given and never mutate them.
package catalog

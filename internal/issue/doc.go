// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries what emupack was doing when it failed, the file
// involved and suggestions. An error may link to an Issue, a Markdown guide
// rendered with glamour when the command fails.
package issue

// SPDX-License-Identifier: MPL-2.0

// Package deeplink builds installer deep links for catalog apps.
//
// A link has the form <base>/<payload>, where payload is the app's installer
// fields serialized as compact JSON and percent-encoded so that no character
// of a name or URL can be read as part of the surrounding query string or
// markup. The payload always carries the same key set: fields the app does
// not have are sent as null rather than left out, because the installer
// applies different defaults to missing keys.
package deeplink

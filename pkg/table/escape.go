// SPDX-License-Identifier: MPL-2.0

package table

import "strings"

var (
	textEscaper = strings.NewReplacer(
		`\`, `\\`,
		"`", "\\`",
		`*`, `\*`,
		`_`, `\_`,
		`[`, `\[`,
		`]`, `\]`,
		`<`, `\<`,
		`>`, `\>`,
		`|`, `\|`,
		`~`, `\~`,
		`&`, `\&`,
		"\r\n", " ",
		"\r", " ",
		"\n", " ",
	)

	targetEscaper = strings.NewReplacer(
		" ", "%20",
		"(", "%28",
		")", "%29",
		"<", "%3C",
		">", "%3E",
		"|", "%7C",
	)
)

// EscapeText makes s safe to embed as inline Markdown inside a table cell.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeTarget makes s safe to use as a Markdown link destination.
func EscapeTarget(s string) string {
	return targetEscaper.Replace(s)
}

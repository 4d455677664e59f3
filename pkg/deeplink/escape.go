// SPDX-License-Identifier: MPL-2.0

package deeplink

import "strings"

const upperhex = "0123456789ABCDEF"

// Escape percent-encodes every byte of s outside the RFC 3986 unreserved
// set (ALPHA / DIGIT / "-" / "." / "_" / "~"). Unlike url.QueryEscape it
// never emits "+" for a space and it escapes every sub-delimiter.
func Escape(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

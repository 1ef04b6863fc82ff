// Package wire implements the on-the-wire encodings shared by every
// backend: application/x-www-form-urlencoded fields, multipart/form-data
// bodies, and chunked transfer-encoding framing. Keeping these in one
// place is what lets libcurl, WinHTTP and NSURLSession agree on bytes
// for the facade's round-trip laws (spec.md §8) without duplicating the
// escaping rules three times.
package wire

import (
	"strings"

	"github.com/nyquest-go/nyquest/internal/core"
)

// formSafe reports whether b passes through form encoding unescaped:
// ASCII letters, digits, and -_.~ (spec.md §6 "Form encoding").
func formSafe(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	case b == '-' || b == '_' || b == '.' || b == '~':
		return true
	default:
		return false
	}
}

// EncodeFormComponent percent-encodes s for use in an
// application/x-www-form-urlencoded body: spaces become '+', the safe
// set passes through unescaped, and all other bytes become uppercase
// %XX escapes.
func EncodeFormComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case formSafe(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperHex(c >> 4))
			b.WriteByte(upperHex(c & 0xf))
		}
	}
	return b.String()
}

func upperHex(nibble byte) byte {
	if nibble < 10 {
		return '0' + nibble
	}
	return 'A' + (nibble - 10)
}

// EncodeForm renders fields as an application/x-www-form-urlencoded
// body, preserving field order (spec.md's round-trip law only demands
// equality "modulo iteration order" on decode, but a deterministic
// encode order makes the wire bytes reproducible for tests).
func EncodeForm(fields []core.Header) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = EncodeFormComponent(f.Name) + "=" + EncodeFormComponent(f.Value)
	}
	return strings.Join(parts, "&")
}

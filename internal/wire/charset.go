package wire

import (
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
)

// DecodeText converts body into a string using the charset named by
// contentType's "charset" parameter, falling back to UTF-8 with lossy
// replacement when the parameter is absent or names an unrecognized
// encoding, per spec.md §4.1 ("text applies charset conversion when
// possible... falls back to UTF-8 with lossy replacement").
func DecodeText(body []byte, contentType string) string {
	charset := charsetOf(contentType)
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return lossyUTF8(body)
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return lossyUTF8(body)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return lossyUTF8(body)
	}
	return string(decoded)
}

func charsetOf(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

// lossyUTF8 replaces invalid UTF-8 sequences with the Unicode
// replacement character, mirroring Rust's String::from_utf8_lossy that
// original_source relies on for the same fallback.
func lossyUTF8(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	var b strings.Builder
	b.Grow(len(body))
	for len(body) > 0 {
		r, size := utf8.DecodeRune(body)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
			body = body[1:]
			continue
		}
		b.WriteRune(r)
		body = body[size:]
	}
	return b.String()
}

package nyquest

import (
	"encoding/json"
	"io"

	"github.com/nyquest-go/nyquest/internal/core"
)

// Body is a request or part body, generic in spirit over the byte,
// form, multipart and stream variants spec.md §3 describes. Values are
// built with the constructors below and consumed at most once, by
// Request.WithBody or Part.WithBody.
type Body struct {
	inner core.Body
}

// PlainText builds a body from a string of content type "text/plain".
func PlainText(text string) Body {
	return Text(text, "text/plain")
}

// Text builds a body from a string of the given content type.
func Text(text, contentType string) Body {
	return Body{inner: core.Body{
		Kind:             core.BodyKindBytes,
		BytesContent:     []byte(text),
		BytesContentType: contentType,
	}}
}

// BinaryBytes builds a body from a byte slice of content type
// "application/octet-stream".
func BinaryBytes(content []byte) Body {
	return Bytes(content, "application/octet-stream")
}

// Bytes builds a body from a byte slice of the given content type.
func Bytes(content []byte, contentType string) Body {
	return Body{inner: core.Body{
		Kind:             core.BodyKindBytes,
		BytesContent:     content,
		BytesContentType: contentType,
	}}
}

// JSONBytes builds a body from pre-encoded JSON bytes, content type
// "application/json".
func JSONBytes(content []byte) Body {
	return Bytes(content, "application/json")
}

// JSON serializes value and builds a body of content type
// "application/json".
func JSON(value any) (Body, error) {
	content, err := json.Marshal(value)
	if err != nil {
		return Body{}, newError(KindJSON, err)
	}
	return JSONBytes(content), nil
}

// Form builds a urlencoded form body ("application/x-www-form-urlencoded")
// from ordered key-value pairs.
func Form(fields [][2]string) Body {
	headers := make([]core.Header, len(fields))
	for i, f := range fields {
		headers[i] = core.Header{Name: f[0], Value: f[1]}
	}
	return Body{inner: core.Body{Kind: core.BodyKindForm, FormFields: headers}}
}

// BodyForm is the Go-idiomatic stand-in for original_source's
// body_form! macro: it builds a Form body from literal "k", "v", "k2",
// "v2", ... pairs. It panics if given an odd number of arguments,
// matching the macro's compile-time pairing guarantee as closely as a
// runtime helper can.
func BodyForm(pairs ...string) Body {
	if len(pairs)%2 != 0 {
		panic("nyquest: BodyForm requires an even number of key/value arguments")
	}
	fields := make([][2]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		fields = append(fields, [2]string{pairs[i], pairs[i+1]})
	}
	return Form(fields)
}

// Multipart builds a multipart/form-data body from an ordered list of
// parts.
func Multipart(parts []Part) Body {
	inner := make([]core.Part, len(parts))
	for i, p := range parts {
		inner[i] = p.inner
	}
	return Body{inner: core.Body{Kind: core.BodyKindMultipart, MultipartParts: inner}}
}

// Stream builds a streaming body from a seekable stream with a known
// content length. A sized stream never triggers chunked transfer
// encoding (spec.md §3).
func Stream(stream io.Reader, contentType string, contentLength int64) Body {
	seeker, _ := stream.(io.Seeker)
	return Body{inner: core.Body{
		Kind:              core.BodyKindStream,
		Stream:            stream,
		StreamSeeker:      seeker,
		StreamContentType: contentType,
		StreamLength:      contentLength,
	}}
}

// StreamUnsized builds a streaming body from a non-seekable stream.
// This enables chunked transfer encoding (spec.md §3).
func StreamUnsized(stream io.Reader, contentType string) Body {
	return Body{inner: core.Body{
		Kind:              core.BodyKindStream,
		Stream:            stream,
		StreamContentType: contentType,
		StreamLength:      -1,
	}}
}

package nyquest

import (
	"io"

	"github.com/nyquest-go/nyquest/internal/core"
)

// Part is one field of a multipart/form-data body: a name, optional
// filename, content type, advisory header overrides, and a body.
// Per-part header support is best-effort; see spec.md §9.
type Part struct {
	inner core.Part
}

// PartBody is the body of a multipart Part: bytes or a stream.
type PartBody struct {
	kind     core.PartBodyKind
	bytes    []byte
	stream   io.Reader
	length   int64
	seekable bool
}

// PartText builds a part body from a string.
func PartText(text string) PartBody {
	return PartBytes([]byte(text))
}

// PartBytes builds a part body from a byte slice.
func PartBytes(content []byte) PartBody {
	return PartBody{kind: core.PartBodyKindBytes, bytes: content}
}

// PartStream builds a part body from a seekable stream with a known
// content length.
func PartStream(stream io.Reader, contentLength int64) PartBody {
	_, seekable := stream.(io.Seeker)
	return PartBody{kind: core.PartBodyKindStream, stream: stream, length: contentLength, seekable: seekable}
}

// PartStreamUnsized builds a part body from a non-seekable stream. This
// enables chunked transfer encoding for the whole enclosing request
// body (spec.md §3).
func PartStreamUnsized(stream io.Reader) PartBody {
	return PartBody{kind: core.PartBodyKindStream, stream: stream, length: -1}
}

// NewPart builds a part with the given name, content type and body.
func NewPart(name, contentType string, body PartBody) Part {
	p := core.Part{
		Name:        name,
		ContentType: contentType,
		BodyKind:    body.kind,
	}
	switch body.kind {
	case core.PartBodyKindBytes:
		p.BytesContent = body.bytes
	case core.PartBodyKindStream:
		p.Stream = body.stream
		p.StreamLength = body.length
	}
	return Part{inner: p}
}

// WithHeader attaches an advisory header to the part. Support is
// subject to the underlying backend (spec.md §9).
func (p Part) WithHeader(name, value string) Part {
	p.inner.Headers = append(p.inner.Headers, core.Header{Name: name, Value: value})
	return p
}

// WithFilename sets the part's filename.
func (p Part) WithFilename(filename string) Part {
	p.inner.Filename = filename
	return p
}

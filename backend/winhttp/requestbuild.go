//go:build windows

package winhttp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nyquest-go/nyquest/internal/core"
	"github.com/nyquest-go/nyquest/internal/streamio"
	"github.com/nyquest-go/nyquest/internal/wire"
)

// targetURL resolves a request against the session's base URL and
// parses it with net/url so WinHttpConnect/OpenRequest get the host,
// port, and path+query pieces they need. Malformed URLs become
// core.NewInvalidURLError per spec.md §4.1, same taxonomy entry
// backend/libcurl's easy-handle setup reports for the same condition.
func targetURL(opts *core.ClientOptions, req core.Request) (*url.URL, error) {
	full := core.JoinURL(opts.BaseURL, req.RelativeURI)
	u, err := url.Parse(full)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, core.NewInvalidURLError()
	}
	return u, nil
}

func portOf(u *url.URL) uint16 {
	if p := u.Port(); p != "" {
		var port int
		fmt.Sscanf(p, "%d", &port)
		return uint16(port)
	}
	if u.Scheme == "https" {
		return 443
	}
	return 80
}

func pathAndQuery(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return p
}

// bodyPlan is the outcome of translating a core.Body into what the
// WinHTTP send path needs: a content-type header to add, and either a
// fully-buffered byte slice or an internal/streamio.Writer for a
// streamed (unsized-or-not) upload. Exactly one of bytes/writer is
// non-nil, mirroring backend/libcurl/request_build.go's split between
// applyBytesBody and the stream/multipart paths.
type bodyPlan struct {
	contentType string
	bytes       []byte
	writer      *streamio.Writer
	length      int64 // -1 means chunked transfer
	chunked     bool
}

func planBody(body *core.Body) (*bodyPlan, error) {
	if body == nil {
		return nil, nil
	}
	switch body.Kind {
	case core.BodyKindBytes:
		return &bodyPlan{contentType: body.BytesContentType, bytes: body.BytesContent, length: int64(len(body.BytesContent))}, nil

	case core.BodyKindForm:
		encoded := []byte(wire.EncodeForm(body.FormFields))
		return &bodyPlan{contentType: "application/x-www-form-urlencoded", bytes: encoded, length: int64(len(encoded))}, nil

	case core.BodyKindMultipart:
		boundary := wire.NewBoundary()
		contentType := "multipart/form-data; boundary=" + boundary
		if !anyPartIsStream(body.MultipartParts) {
			encoded, err := wire.EncodeMultipartBytes(boundary, body.MultipartParts)
			if err != nil {
				return nil, core.NewIOError(err)
			}
			return &bodyPlan{contentType: contentType, bytes: encoded, length: int64(len(encoded))}, nil
		}
		segments := make([]streamio.Segment, 0, len(body.MultipartParts)*3+1)
		for _, p := range body.MultipartParts {
			segments = append(segments, streamio.Segment{Bytes: wire.PartPreamble(boundary, p)})
			if p.BodyKind == core.PartBodyKindStream {
				segments = append(segments, streamio.Segment{Stream: p.Stream, Seekable: false})
			} else {
				segments = append(segments, streamio.Segment{Bytes: p.BytesContent})
			}
			segments = append(segments, streamio.Segment{Bytes: wire.PartTerminator()})
		}
		segments = append(segments, streamio.Segment{Bytes: wire.FinalBoundary(boundary)})
		return &bodyPlan{contentType: contentType, writer: streamio.NewWriter(segments), length: -1, chunked: true}, nil

	case core.BodyKindStream:
		seekable := body.StreamSeeker != nil
		segs := []streamio.Segment{{Stream: body.Stream, Seekable: seekable}}
		if body.IsUnsizedStream() {
			return &bodyPlan{contentType: body.StreamContentType, writer: streamio.NewWriter(segs), length: -1, chunked: true}, nil
		}
		return &bodyPlan{contentType: body.StreamContentType, writer: streamio.NewWriter(segs), length: body.StreamLength}, nil

	default:
		return nil, core.NewIOError(fmt.Errorf("winhttp: unknown body kind %d", body.Kind))
	}
}

func anyPartIsStream(parts []core.Part) bool {
	for _, p := range parts {
		if p.BodyKind == core.PartBodyKindStream {
			return true
		}
	}
	return false
}

// buildHeaderBlock renders the CRLF-joined header block
// WinHttpAddRequestHeaders expects: per-request additional headers
// first, then default headers (the first occurrence of a name wins, so
// an additional header shadows a default of the same name, as in
// backend/libcurl/driveloop.go's buildHeaders), then a synthesized
// Content-Type/Content-Length/Transfer-Encoding for the body plan.
// User-Agent is set separately via WinHttpOpen, not here.
func buildHeaderBlock(opts *core.ClientOptions, req core.Request, plan *bodyPlan) string {
	seen := map[string]bool{}
	var b strings.Builder
	write := func(name, value string) {
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		fmt.Fprintf(&b, "%s: %s\r\n", name, value)
	}
	for _, h := range req.AdditionalHeaders {
		write(h.Name, h.Value)
	}
	for _, h := range opts.DefaultHeaders {
		write(h.Name, h.Value)
	}
	if plan != nil {
		if plan.contentType != "" {
			write("Content-Type", plan.contentType)
		}
		if plan.chunked {
			write("Transfer-Encoding", "chunked")
		} else if plan.length >= 0 {
			write("Content-Length", fmt.Sprintf("%d", plan.length))
		}
	}
	return b.String()
}

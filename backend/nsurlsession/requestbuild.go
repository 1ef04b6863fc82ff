//go:build darwin

package nsurlsession

import (
	"fmt"
	"strings"

	"github.com/nyquest-go/nyquest/internal/core"
	"github.com/nyquest-go/nyquest/internal/streamio"
	"github.com/nyquest-go/nyquest/internal/wire"
)

// targetURL resolves a request against the session's base URL. Unlike
// backend/winhttp it doesn't need a parsed *url.URL (NSURL does its own
// parsing on the Objective-C side); it only needs a validated absolute
// string to hand across the bridge.
func targetURL(opts *core.ClientOptions, req core.Request) (string, error) {
	full := core.JoinURL(opts.BaseURL, req.RelativeURI)
	lower := strings.ToLower(full)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "", core.NewInvalidURLError()
	}
	return full, nil
}

// bodyPlan mirrors backend/winhttp/requestbuild.go's type of the same
// name: translating a core.Body into a content-type header plus either
// a fully-buffered byte slice or a streamio.Writer. session.construct
// drains the writer into a byte slice (materialize in session.go) and
// sends that as the request body; no input-stream adapter is used.
type bodyPlan struct {
	contentType string
	bytes       []byte
	writer      *streamio.Writer
	chunked     bool
}

func planBody(body *core.Body) (*bodyPlan, error) {
	if body == nil {
		return nil, nil
	}
	switch body.Kind {
	case core.BodyKindBytes:
		return &bodyPlan{contentType: body.BytesContentType, bytes: body.BytesContent}, nil

	case core.BodyKindForm:
		encoded := []byte(wire.EncodeForm(body.FormFields))
		return &bodyPlan{contentType: "application/x-www-form-urlencoded", bytes: encoded}, nil

	case core.BodyKindMultipart:
		boundary := wire.NewBoundary()
		contentType := "multipart/form-data; boundary=" + boundary
		if !anyPartIsStream(body.MultipartParts) {
			encoded, err := wire.EncodeMultipartBytes(boundary, body.MultipartParts)
			if err != nil {
				return nil, core.NewIOError(err)
			}
			return &bodyPlan{contentType: contentType, bytes: encoded}, nil
		}
		segments := make([]streamio.Segment, 0, len(body.MultipartParts)*3+1)
		for _, p := range body.MultipartParts {
			segments = append(segments, streamio.Segment{Bytes: wire.PartPreamble(boundary, p)})
			if p.BodyKind == core.PartBodyKindStream {
				segments = append(segments, streamio.Segment{Stream: p.Stream})
			} else {
				segments = append(segments, streamio.Segment{Bytes: p.BytesContent})
			}
			segments = append(segments, streamio.Segment{Bytes: wire.PartTerminator()})
		}
		segments = append(segments, streamio.Segment{Bytes: wire.FinalBoundary(boundary)})
		return &bodyPlan{contentType: contentType, writer: streamio.NewWriter(segments), chunked: true}, nil

	case core.BodyKindStream:
		seekable := body.StreamSeeker != nil
		segs := []streamio.Segment{{Stream: body.Stream, Seekable: seekable}}
		return &bodyPlan{contentType: body.StreamContentType, writer: streamio.NewWriter(segs), chunked: body.IsUnsizedStream()}, nil

	default:
		return nil, core.NewIOError(fmt.Errorf("nsurlsession: unknown body kind %d", body.Kind))
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

// buildHeaderBlock renders the "Name: Value\n"-joined block
// nyquest_send_request splits back apart on the Objective-C side.
// Override order matches backend/winhttp/backend/libcurl: additional
// headers first, then default headers, then the body's content type.
func buildHeaderBlock(opts *core.ClientOptions, req core.Request, plan *bodyPlan) string {
	seen := map[string]bool{}
	var b strings.Builder
	write := func(name, value string) {
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		fmt.Fprintf(&b, "%s: %s\n", name, value)
	}
	for _, h := range req.AdditionalHeaders {
		write(h.Name, h.Value)
	}
	for _, h := range opts.DefaultHeaders {
		write(h.Name, h.Value)
	}
	if plan != nil && plan.contentType != "" {
		write("Content-Type", plan.contentType)
	}
	if plan != nil && plan.chunked {
		write("Transfer-Encoding", "chunked")
	}
	return b.String()
}

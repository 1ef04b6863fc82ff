package libcurl

import (
	"io"

	"github.com/nyquest-go/nyquest/internal/core"
	"github.com/nyquest-go/nyquest/internal/streamio"
	"github.com/nyquest-go/nyquest/internal/wire"
)

// newEasyHandleFor allocates a fresh curl easy handle and applies the
// session-wide (as opposed to per-request) options: impersonation
// target, per spec.md §4.2's "Client construction" step. Per-request
// options (URL, method, headers, timeout...) are layered on by
// buildEasyHandle.
func newEasyHandleFor(opts *core.ClientOptions) (EasyHandle, error) {
	e, err := newCurlEasy()
	if err != nil {
		return nil, core.NewIOError(err)
	}
	if opts.ImpersonateTarget != "" {
		e.SetImpersonateTarget(opts.ImpersonateTarget, opts.ImpersonateDefaultHeaders)
	}
	return e, nil
}

// applyBody encodes a core.Body onto an EasyHandle and wires an
// uploadBridge into the requestContext so the read callback can serve
// it, per spec.md §4.2 "Upload streaming" and §6's wire formats.
func applyBody(easy EasyHandle, ctx *requestContext, body core.Body, boundary string) error {
	switch body.Kind {
	case core.BodyKindBytes:
		return applyBytesBody(easy, ctx, body.BytesContent)

	case core.BodyKindForm:
		encoded := wire.EncodeForm(body.FormFields)
		return applyBytesBody(easy, ctx, []byte(encoded))

	case core.BodyKindMultipart:
		return applyMultipartBody(easy, ctx, boundary, body.MultipartParts)

	case core.BodyKindStream:
		return applyStreamBody(easy, ctx, body)

	default:
		return nil
	}
}

func applyBytesBody(easy EasyHandle, ctx *requestContext, data []byte) error {
	easy.SetUploadSize(int64(len(data)))
	bridge := newBytesUploadBridge(data)
	ctx.uploadSeg = bridge
	easy.SetReadFunc(bridge.read)
	easy.SetSeekFunc(func(offset int64, whence int) error {
		return bridge.seek(data, offset, whence)
	})
	return nil
}

func applyMultipartBody(easy EasyHandle, ctx *requestContext, boundary string, parts []core.Part) error {
	// A multipart body with every part bytes-backed is encoded fully up
	// front (the common case: form fields and small file uploads); a
	// body with any stream-backed part is assembled as a sequence of
	// byte preambles and pass-through stream reads instead, so a large
	// file part is never buffered in memory.
	if !anyPartIsStream(parts) {
		encoded, err := wire.EncodeMultipartBytes(boundary, parts)
		if err != nil {
			return core.NewIOError(err)
		}
		return applyBytesBody(easy, ctx, encoded)
	}

	segments := make([]streamio.Segment, 0, len(parts)*2+1)
	for _, p := range parts {
		segments = append(segments, streamio.Segment{Bytes: wire.PartPreamble(boundary, p)})
		if p.BodyKind == core.PartBodyKindStream {
			segments = append(segments, streamio.Segment{Stream: p.Stream})
		} else {
			segments = append(segments, streamio.Segment{Bytes: p.BytesContent})
		}
		segments = append(segments, streamio.Segment{Bytes: wire.PartTerminator()})
	}
	segments = append(segments, streamio.Segment{Bytes: wire.FinalBoundary(boundary)})

	easy.SetUploadSize(-1)
	bridge := newStreamUploadBridge(&writerReader{w: streamio.NewWriter(segments)}, false, ctx.requestMoreSend)
	ctx.uploadSeg = bridge
	easy.SetReadFunc(bridge.read)
	return nil
}

// writerReader adapts a streamio.Writer (poll-fill-buffer) to io.Reader
// so a multipart body with stream-backed parts can be fed through the
// same uploadBridge feeder goroutine as any other stream body.
type writerReader struct{ w *streamio.Writer }

func (r *writerReader) Read(buf []byte) (int, error) {
	n, done, err := r.w.Fill(buf)
	if err != nil {
		return n, err
	}
	if n == 0 && done {
		return 0, io.EOF
	}
	return n, nil
}

func applyStreamBody(easy EasyHandle, ctx *requestContext, body core.Body) error {
	easy.SetUploadSize(body.StreamLength)
	seekable := body.StreamSeeker != nil
	bridge := newStreamUploadBridge(body.Stream, seekable, ctx.requestMoreSend)
	ctx.uploadSeg = bridge
	easy.SetReadFunc(bridge.read)
	if seekable {
		easy.SetSeekFunc(func(offset int64, whence int) error {
			_, err := body.StreamSeeker.Seek(offset, whence)
			return err
		})
	}
	return nil
}

func anyPartIsStream(parts []core.Part) bool {
	for _, p := range parts {
		if p.BodyKind == core.PartBodyKindStream {
			return true
		}
	}
	return false
}

// Package streamio implements the stream-writer helper spec.md §4.5
// describes as shared between the WinHTTP and NSURLSession backends: an
// ordered sequence of body segments (owned bytes or a caller-supplied
// stream), drained by repeated poll-fill-buffer calls, with an optional
// chunked transfer-encoding wrap.
//
// The libcurl backend uses a Writer only for multipart bodies with
// streamed parts, wrapped as an io.Reader (writerReader in
// backend/libcurl/request_build.go) and fed through libcurl's read
// callback and the pause/unpause protocol (backend/libcurl/upload.go).
package streamio

import (
	"context"
	"errors"
	"io"
)

// Segment is one piece of a Writer's ordered body: either a fixed byte
// slice (a multipart preamble, a part's in-memory body, the final
// boundary) or a caller-supplied stream (a multipart part's streamed
// body, or the entire body for a non-multipart streamed request).
type Segment struct {
	// Bytes, if non-nil, is served in full before Stream is consulted.
	Bytes []byte
	// Stream, if non-nil, is read until EOF.
	Stream io.Reader
	// Seekable reports whether Stream supports Seek; only seekable
	// streams may be retried (spec.md §4.2 "Seek requests... succeed
	// only for sized streams").
	Seekable bool
}

func (s Segment) reader() io.Reader {
	if s.Stream != nil {
		return s.Stream
	}
	return &sliceReader{data: s.Bytes}
}

type sliceReader struct {
	data []byte
	pos  int
}

func (r *sliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// ErrNotSeekable is returned by Writer.Seek when the active segment is
// an unsized stream.
var ErrNotSeekable = errors.New("streamio: stream is not seekable")

// Writer sequences a list of Segments, presenting them as one
// logical stream via repeated Fill calls. It is not safe for
// concurrent use; callers (the WinHTTP send/write-complete callbacks,
// NSURLSession's construct, which drains it into bytes, and libcurl's
// writerReader) serialize access themselves.
type Writer struct {
	segments []Segment
	index    int
	current  io.Reader
	done     bool
}

// NewWriter builds a Writer over the given segments, in order.
func NewWriter(segments []Segment) *Writer {
	return &Writer{segments: segments}
}

// Fill reads up to len(buf) bytes into buf, advancing through segments
// as each is exhausted. It returns n>0 with done==false when more data
// remains, n>=0 with done==true once the final segment has been fully
// drained (the caller should treat a 0-length final read plus done as
// clean completion, matching spec.md §4.5 "The writer signals
// completion when the final part is drained").
func (w *Writer) Fill(buf []byte) (n int, done bool, err error) {
	if w.done {
		return 0, true, nil
	}
	for n == 0 {
		if w.current == nil {
			if w.index >= len(w.segments) {
				w.done = true
				return 0, true, nil
			}
			w.current = w.segments[w.index].reader()
		}
		var rn int
		rn, err = w.current.Read(buf)
		n += rn
		if err == io.EOF {
			err = nil
			w.current = nil
			w.index++
			if n > 0 {
				return n, false, nil
			}
			continue
		}
		if err != nil {
			return n, false, err
		}
		if n > 0 {
			return n, false, nil
		}
	}
	return n, false, nil
}

// Seek rewinds the writer to the beginning of its segment list. It only
// succeeds when every stream segment in the list, drained or not, is
// seekable; per
// spec.md §4.2 an unsized stream fails the seek with an IO error
// (ErrNotSeekable here, which callers wrap as Error.Io).
func (w *Writer) Seek() error {
	for _, s := range w.segments {
		if s.Stream != nil && !s.Seekable {
			return ErrNotSeekable
		}
		if seeker, ok := s.Stream.(io.Seeker); ok {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return err
			}
		}
	}
	w.index = 0
	w.current = nil
	w.done = false
	return nil
}

// Done reports whether every segment has been fully drained.
func (w *Writer) Done() bool { return w.done }

// FillContext is Fill with a cancellation check: it returns ctx.Err()
// without reading if ctx is already done, and otherwise calls Fill,
// which a later cancellation does not interrupt.
func (w *Writer) FillContext(ctx context.Context, buf []byte) (n int, done bool, err error) {
	select {
	case <-ctx.Done():
		return 0, false, ctx.Err()
	default:
	}
	return w.Fill(buf)
}

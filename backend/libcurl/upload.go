package libcurl

import (
	"errors"
	"io"
	"sync"
)

var errNotSeekable = errors.New("libcurl: upload stream is not seekable")

// uploadBridge feeds an outgoing request body to libcurl's read
// callback. Bytes-backed bodies (plain text, JSON, form, in-memory
// multipart) are fully encoded up front and served directly: the read
// callback never has to pause for them. A true core.BodyKindStream
// body is pulled from the caller's io.Reader on a dedicated feeder
// goroutine instead, since calling Read on an arbitrary user stream
// from the driver goroutine could stall every other in-flight request
// behind it; the read callback serves whatever the feeder has buffered
// and pauses when it has nothing, exactly the credit-of-one
// backpressure protocol spec.md §4.2 describes for uploads.
type uploadBridge struct {
	seekable bool

	mu      sync.Mutex
	pending []byte
	eof     bool
	err     error

	feederStarted bool
	start         func()
}

// newBytesUploadBridge wraps an already-encoded payload; it never
// pauses since all bytes are available immediately.
func newBytesUploadBridge(data []byte) *uploadBridge {
	return &uploadBridge{pending: data, eof: true, seekable: true}
}

// newStreamUploadBridge wraps an arbitrary io.Reader. onData is called
// (from the feeder goroutine) each time a new chunk is buffered, so the
// caller can enqueue an unpauseSendTask; it is never called concurrently
// with itself.
func newStreamUploadBridge(src io.Reader, seekable bool, onData func()) *uploadBridge {
	b := &uploadBridge{seekable: seekable}
	b.start = func() {
		go b.feed(src, onData)
	}
	return b
}

func (b *uploadBridge) feed(src io.Reader, onData func()) {
	buf := make([]byte, 32*1024)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			b.mu.Lock()
			b.pending = append(b.pending, chunk...)
			b.mu.Unlock()
			if onData != nil {
				onData()
			}
		}
		if err != nil {
			b.mu.Lock()
			b.eof = true
			if err != io.EOF {
				b.err = err
			}
			b.mu.Unlock()
			if onData != nil {
				onData()
			}
			return
		}
	}
}

// ensureStarted lazily launches the feeder goroutine on the first Read
// call instead of at construction time, so a request that is dropped
// before it ever reaches the wire never spawns one.
func (b *uploadBridge) ensureStarted() {
	b.mu.Lock()
	started := b.feederStarted
	b.feederStarted = true
	b.mu.Unlock()
	if !started && b.start != nil {
		b.start()
	}
}

// read implements ReadFunc's contract: fill buf, report pause when no
// data is currently available but more may arrive, and report (0,
// false) at true end of stream.
func (b *uploadBridge) read(buf []byte) (n int, pause bool) {
	b.ensureStarted()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) > 0 {
		n = copy(buf, b.pending)
		b.pending = b.pending[n:]
		return n, false
	}
	if b.eof {
		return 0, false
	}
	return 0, true
}

func (b *uploadBridge) lastErr() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// seek resets the bridge to replay from the start; only meaningful for
// the bytes-backed, seekable case (spec.md §4.2 "Seek requests succeed
// only for sized streams").
func (b *uploadBridge) seek(original []byte, offset int64, whence int) error {
	if !b.seekable {
		return errNotSeekable
	}
	if whence != 0 || offset < 0 || offset > int64(len(original)) {
		return errNotSeekable
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = original[offset:]
	b.eof = true
	return nil
}

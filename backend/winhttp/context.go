//go:build windows

package winhttp

import (
	"sync"

	"github.com/nyquest-go/nyquest/internal/core"
	"github.com/nyquest-go/nyquest/internal/streamio"
)

// requestState mirrors backend/libcurl's state cluster: Idle ->
// Sending -> HeaderFinished -> Completed | Failed. WinHTTP's callback
// delivers WINHTTP_CALLBACK_STATUS_DATA_AVAILABLE /
// WINHTTP_CALLBACK_STATUS_READ_COMPLETE pairs instead of libcurl's
// pause/unpause, but the state names line up one-for-one so the rest
// of the backend (and its blocking adapter) reads the same way.
type requestState int32

const (
	stateIdle requestState = iota
	stateSending
	stateHeaderFinished
	stateCompleted
	stateFailed
)

// requestCtx is the per-request object the status callback mutates and
// the waiting goroutine polls, analogous to backend/libcurl's
// requestContext. hRequest is WinHTTP's own HINTERNET handle for this
// request; it must be closed exactly once, from whichever side
// observes the terminal state first.
type requestCtx struct {
	token    uintptr
	hRequest uintptr

	mu           sync.Mutex
	state        requestState
	meta         core.ResponseMeta
	bodyBuf      []byte
	pendingRead  bool // a WinHttpReadData call is outstanding
	readScratch  []byte
	termErr      error
	closed       bool

	upload   *streamio.Writer
	chunked  bool // true: wrap each upload.Fill result in wire.ChunkFrame
	writeBuf []byte // in-flight chunk handed to the last WinHttpWriteData call

	notifyCh chan struct{}
}

func newRequestCtx(token uintptr, hRequest uintptr) *requestCtx {
	return &requestCtx{token: token, hRequest: hRequest, notifyCh: make(chan struct{}, 1)}
}

func (rc *requestCtx) notify() {
	select {
	case rc.notifyCh <- struct{}{}:
	default:
	}
}

func (rc *requestCtx) waitCh() <-chan struct{} { return rc.notifyCh }

func (rc *requestCtx) setHeaderFinished(meta core.ResponseMeta) {
	rc.mu.Lock()
	rc.state = stateHeaderFinished
	rc.meta = meta
	rc.mu.Unlock()
	rc.notify()
}

func (rc *requestCtx) appendBody(chunk []byte) {
	rc.mu.Lock()
	rc.bodyBuf = append(rc.bodyBuf, chunk...)
	rc.pendingRead = false
	rc.mu.Unlock()
	rc.notify()
}

func (rc *requestCtx) takeBody() []byte {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.bodyBuf) == 0 {
		return nil
	}
	b := rc.bodyBuf
	rc.bodyBuf = nil
	return b
}

func (rc *requestCtx) setTerminal(err error) {
	rc.mu.Lock()
	if err != nil {
		rc.state = stateFailed
		rc.termErr = err
	} else {
		rc.state = stateCompleted
	}
	rc.mu.Unlock()
	rc.notify()
}

func (rc *requestCtx) snapshot() (state requestState, meta core.ResponseMeta, bodyLen int, err error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.state, rc.meta, len(rc.bodyBuf), rc.termErr
}

// requestRegistry recovers a *requestCtx from the DWORD_PTR context
// value the status callback receives, the same "can't carry a Go
// pointer across a native boundary safely" problem backend/libcurl's
// easyRegistry solves for *curl.CURL.
type requestRegistry struct {
	mu      sync.Mutex
	next    uintptr
	entries map[uintptr]*requestCtx
}

var registry = &requestRegistry{entries: make(map[uintptr]*requestCtx)}

func (r *requestRegistry) register(ctx *requestCtx) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	token := r.next
	ctx.token = token
	r.entries[token] = ctx
	return token
}

func (r *requestRegistry) lookup(token uintptr) *requestCtx {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[token]
}

func (r *requestRegistry) unregister(token uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, token)
}

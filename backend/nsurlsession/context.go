//go:build darwin

package nsurlsession

import (
	"sync"
	"unsafe"

	"github.com/nyquest-go/nyquest/internal/core"
	"github.com/nyquest-go/nyquest/internal/streamio"
)

// requestState mirrors the cluster shared across every nyquest backend:
// Idle -> Sending -> HeaderFinished -> Completed | Failed. NSURLSession
// reaches HeaderFinished from didReceiveResponse and Completed/Failed
// from didCompleteWithError, the delegate callbacks bridge_darwin.m
// forwards into goOnDidReceiveResponse/goOnDidCompleteWithError in
// bridge_darwin.go.
type requestState int32

const (
	stateIdle requestState = iota
	stateSending
	stateHeaderFinished
	stateCompleted
	stateFailed
)

// requestCtx is spec.md §4.4's SharedRequestStates, translated into Go:
// a waker (notifyCh) plus, all guarded by mu, a completion flag
// (state), a response buffer (bodyBuf), a response slot (meta), and a
// latched client-error slot (termErr). The upload field has room for a
// single *streamio.Writer, since a Go request has at most one body;
// session.construct materializes stream bodies up front and never sets
// it.
type requestCtx struct {
	token uintptr
	task  unsafe.Pointer // opaque NSURLSessionDataTask handle (see bridge_darwin.m)

	mu      sync.Mutex
	state   requestState
	meta    core.ResponseMeta
	bodyBuf []byte
	termErr error
	closed  bool

	upload *streamio.Writer

	notifyCh chan struct{}
}

func newRequestCtx() *requestCtx {
	return &requestCtx{notifyCh: make(chan struct{}, 1)}
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

func (rc *requestCtx) snapshot() (state requestState, meta core.ResponseMeta, err error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.state, rc.meta, rc.termErr
}

// registry recovers a *requestCtx from the token handed to Objective-C
// as the data task's associated object, the same "can't carry a Go
// pointer across the cgo boundary safely" problem backend/winhttp's
// requestRegistry and backend/libcurl's easyRegistry solve for their own
// native handle types.
type registryT struct {
	mu      sync.Mutex
	next    uintptr
	entries map[uintptr]*requestCtx
}

var registry = &registryT{entries: make(map[uintptr]*requestCtx)}

func (r *registryT) register(ctx *requestCtx) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	token := r.next
	ctx.token = token
	r.entries[token] = ctx
	return token
}

func (r *registryT) lookup(token uintptr) *requestCtx {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[token]
}

func (r *registryT) unregister(token uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, token)
}

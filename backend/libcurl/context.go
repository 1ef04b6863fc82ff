package libcurl

import (
	"sync"

	"github.com/nyquest-go/nyquest/internal/core"
)

// requestState is the per-request lifecycle spec.md §3 describes:
//
//	Idle -> Sending -> HeaderFinished -> (DataReadable <-> Paused)* -> Completed | Failed
//
// DataReadable/Paused are not distinct enum values here: whether the
// native receive side is paused is implied by pausedRecv, and whether
// data is readable is implied by len(bodyBuf) > 0. Folding them into
// requestContext's other fields keeps the state machine's "repeats
// until completion" cluster from needing its own transition table.
type requestState int32

const (
	stateIdle requestState = iota
	stateSending
	stateHeaderFinished
	stateCompleted
	stateFailed
)

// requestContext is the per-request shared state co-owned by the
// driver loop and the awaiting future/blocking call (spec.md §3
// "RequestContext"). Exactly one waiter registers notifyCh at a time;
// the loop sends on it (non-blocking) whenever state that the waiter
// cares about changes, and the waiter always re-checks state after
// registering before parking, per spec.md §9's waker-race discipline.
type requestContext struct {
	token uint64
	easy  EasyHandle
	loop  *driveLoop

	mu sync.Mutex

	state requestState
	meta  core.ResponseMeta

	headerLines     [][]byte
	pausedRecv      bool
	bodyBuf         []byte
	terminalErr     error // set once state reaches Failed
	droppedByCaller bool

	// uploadSeg streams an outgoing request body; nil for requests
	// without a body. In-memory bodies (bytes, form, all-bytes
	// multipart) get a bytes-backed bridge that never pauses.
	uploadSeg  *uploadBridge
	pausedSend bool

	notifyCh chan struct{}
}

func newRequestContext(token uint64, easy EasyHandle) *requestContext {
	return &requestContext{
		token:    token,
		easy:     easy,
		state:    stateIdle,
		notifyCh: make(chan struct{}, 1),
	}
}

// notify wakes whatever goroutine is parked on notifyCh, if any. Safe
// to call from the driver loop goroutine while holding or not holding
// mu; callers take mu themselves around the state mutation this
// follows.
func (rc *requestContext) notify() {
	select {
	case rc.notifyCh <- struct{}{}:
	default:
	}
}

// waitCh returns the channel a waiter should select on. The waiter
// must re-read whatever state it cares about after a receive (or after
// registering, before parking) since a send racing the registration is
// still observed as a no-op select due to the buffered channel: a
// notify that lands between the waiter's check and its select is
// queued in the buffer and the select fires immediately instead of
// blocking, which is exactly the "double-check" spec.md §9 calls for.
func (rc *requestContext) waitCh() <-chan struct{} { return rc.notifyCh }

func (rc *requestContext) setHeaderFinished(meta core.ResponseMeta) {
	rc.mu.Lock()
	rc.state = stateHeaderFinished
	rc.meta = meta
	rc.mu.Unlock()
	rc.notify()
}

func (rc *requestContext) appendBody(chunk []byte) {
	rc.mu.Lock()
	rc.bodyBuf = append(rc.bodyBuf, chunk...)
	rc.mu.Unlock()
	rc.notify()
}

func (rc *requestContext) takeBody() []byte {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.bodyBuf) == 0 {
		return nil
	}
	chunk := rc.bodyBuf
	rc.bodyBuf = nil
	return chunk
}

func (rc *requestContext) setTerminal(err error) {
	rc.mu.Lock()
	if err != nil {
		rc.state = stateFailed
		rc.terminalErr = err
	} else {
		rc.state = stateCompleted
	}
	rc.mu.Unlock()
	rc.notify()
}

// requestMoreData enqueues an unpause-recv task so the driver loop
// resumes delivering body chunks. Best-effort: if the loop's task
// channel is momentarily full the request simply stays paused until
// the next notify, which happens harmlessly since the caller re-checks
// state on every wake.
func (rc *requestContext) requestMoreData() {
	if rc.loop == nil {
		return
	}
	select {
	case rc.loop.tasks <- unpauseRecvTask{ctx: rc}:
		rc.loop.wakeup()
	default:
	}
}

// requestMoreSend enqueues an unpause-send task so the driver loop
// resumes pulling from this request's upload bridge. It is passed as
// the onData callback to newStreamUploadBridge: the feeder goroutine
// calls it every time it buffers a new chunk (or hits EOF/an error),
// which is the only thing that can end a READFUNC_PAUSE the read
// callback returned while the feeder's buffer was empty.
func (rc *requestContext) requestMoreSend() {
	if rc.loop == nil {
		return
	}
	select {
	case rc.loop.tasks <- unpauseSendTask{ctx: rc}:
		rc.loop.wakeup()
	default:
	}
}

// drop tells the driver loop to remove and clean up this request's
// native handle, used when a caller abandons a response before EOF.
func (rc *requestContext) drop() {
	if rc.loop == nil {
		return
	}
	select {
	case rc.loop.tasks <- dropTask{ctx: rc}:
		rc.loop.wakeup()
	default:
	}
}

func (rc *requestContext) snapshot() (state requestState, meta core.ResponseMeta, bodyLen int, termErr error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.state, rc.meta, len(rc.bodyBuf), rc.terminalErr
}

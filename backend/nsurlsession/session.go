//go:build darwin

package nsurlsession

import (
	"log/slog"
	"sync"
	"unsafe"

	"github.com/nyquest-go/nyquest/internal/core"
)

// session owns one NSURLSession handle, the same role
// backend/libcurl/session.go and backend/winhttp/session.go play for
// their native handles.
type session struct {
	opts   core.ClientOptions
	logger *slog.Logger

	mu      sync.Mutex
	handle  unsafe.Pointer
	closed  bool
}

func newSession(opts core.ClientOptions, logger *slog.Logger) (*session, error) {
	h := createSession(opts)
	if h == nil {
		return nil, core.NewIOError(errCreateSessionFailed)
	}
	return &session{opts: opts, logger: logger, handle: h}, nil
}

// construct builds a requestCtx, registers it, and starts the data
// task. For a streamed body it does not attempt NSURLSession's native
// upload-progress delegate; the streamio.Writer is drained up front
// into the same byte slice a bytes-body would use, since the bridge
// layer here models the simpler (and much more common) bounded-body
// case. A fully faithful input-stream adapter is noted as a known
// simplification in the module's design notes.
func (s *session) construct(req core.Request) (*requestCtx, error) {
	url, err := targetURL(&s.opts, req)
	if err != nil {
		return nil, err
	}
	plan, err := planBody(req.Body)
	if err != nil {
		return nil, err
	}
	bodyBytes, err := materialize(plan)
	if err != nil {
		return nil, err
	}
	headerBlock := buildHeaderBlock(&s.opts, req, plan)

	rc := newRequestCtx()
	token := registry.register(rc)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		registry.unregister(token)
		return nil, core.NewIOError(errSessionClosed)
	}
	handle := s.handle
	s.mu.Unlock()

	rc.mu.Lock()
	rc.state = stateSending
	rc.mu.Unlock()

	task := sendRequest(handle, token, req.Method.String(), url, headerBlock, bodyBytes, false)
	if task == nil {
		registry.unregister(token)
		return nil, core.NewIOError(errSendRequestFailed)
	}
	rc.task = task
	return rc, nil
}

// materialize drains a bodyPlan's writer eagerly into a byte slice.
// See construct's comment: this trades true streaming upload for a
// simpler, fully-grounded bridge surface.
func materialize(plan *bodyPlan) ([]byte, error) {
	if plan == nil {
		return nil, nil
	}
	if plan.bytes != nil {
		return plan.bytes, nil
	}
	if plan.writer == nil {
		return nil, nil
	}
	var out []byte
	buf := make([]byte, 32*1024)
	for {
		n, done, err := plan.writer.Fill(buf)
		if err != nil {
			return nil, core.NewIOError(err)
		}
		out = append(out, buf[:n]...)
		if done {
			return out, nil
		}
	}
}

func (s *session) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	closeSession(s.handle)
	return nil
}

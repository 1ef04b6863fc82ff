package libcurl

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nyquest-go/nyquest/internal/core"
)

// session is the per-Client state: frozen options, an optional share
// handle (cookies/DNS/TLS session cache shared across every request
// the client issues, per spec.md §4.2 "Multi-request sharing"), and a
// lazily (re)spawned driveLoop. Exactly one requestContext is ever
// in flight per token; the session itself is safe for concurrent use
// from many goroutines issuing requests at once.
type session struct {
	opts   core.ClientOptions
	share  ShareHandle
	logger *slog.Logger

	mu      sync.Mutex
	loop    *driveLoop
	backoff *backoff.ExponentialBackOff
	closed  bool
}

func newSession(opts core.ClientOptions, logger *slog.Logger) (*session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &session{opts: opts, logger: logger}
	if opts.UseCookies {
		s.share = newCurlShare()
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	s.backoff = b
	return s, nil
}

// getLoop returns the live driveLoop, spawning a fresh one if none
// exists yet or the previous one died (spec.md §4.2 "Failure handling:
// the loop respawns and every in-flight request observes a terminal
// IO error").
func (s *session) getLoop() *driveLoop {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loop == nil || s.loop.isDead() {
		s.loop = newDriveLoop(newCurlMulti(), s.share, s.logger)
	}
	return s.loop
}

// construct asks the driver loop to build and register a native easy
// handle for req, respawning the loop and retrying exactly once if the
// first attempt's loop had already died (or dies mid-call) before
// accepting the task.
func (s *session) construct(req core.Request) (*requestContext, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			time.Sleep(s.backoff.NextBackOff())
		}
		loop := s.getLoop()
		reply := make(chan constructResult, 1)
		select {
		case loop.tasks <- constructTask{req: req, opts: &s.opts, reply: reply}:
			loop.wakeup()
		case <-time.After(5 * time.Second):
			loop.dead.Store(true)
			lastErr = core.NewIOError(fmt.Errorf("libcurl: driver loop did not accept request"))
			continue
		}
		select {
		case res := <-reply:
			if res.err != nil {
				return nil, res.err
			}
			s.backoff.Reset()
			return res.ctx, nil
		case <-time.After(30 * time.Second):
			loop.dead.Store(true)
			lastErr = core.NewTimeoutError()
			continue
		}
	}
	return nil, lastErr
}

func (s *session) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.loop != nil && !s.loop.isDead() {
		s.loop.shutdown()
	}
	if s.share != nil {
		s.share.Cleanup()
	}
	return nil
}

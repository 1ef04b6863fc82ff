//go:build windows

package winhttp

import (
	"context"

	"github.com/nyquest-go/nyquest/internal/core"
)

// asyncClient is WinHTTP's core.AsyncClient: every request goes through
// the one session it wraps, exactly as backend/libcurl/asyncresponse.go
// funnels requests through a shared driveLoop.
type asyncClient struct{ s *session }

func (c *asyncClient) Do(ctx context.Context, req core.Request) (core.AsyncResponse, error) {
	rc, err := c.s.construct(req)
	if err != nil {
		return nil, err
	}
	if err := waitForHeaders(ctx, rc); err != nil {
		rc.drop()
		return nil, err
	}
	return &asyncResponse{rc: rc}, nil
}

func (c *asyncClient) Close() error { return c.s.close() }

// waitForHeaders parks until rc reaches stateHeaderFinished (or a
// terminal state), the same suspension point backend/libcurl's
// asyncClient.Do blocks on before returning a response.
func waitForHeaders(ctx context.Context, rc *requestCtx) error {
	for {
		state, _, _, termErr := rc.snapshot()
		switch state {
		case stateHeaderFinished, stateCompleted:
			return nil
		case stateFailed:
			return termErr
		}
		select {
		case <-rc.waitCh():
		case <-ctx.Done():
			return core.NewTimeoutError()
		}
	}
}

type asyncResponse struct{ rc *requestCtx }

func (r *asyncResponse) Meta() core.ResponseMeta {
	_, meta, _, _ := r.rc.snapshot()
	return meta
}

func (r *asyncResponse) ReadBody(ctx context.Context) ([]byte, bool, error) {
	for {
		if chunk := r.rc.takeBody(); chunk != nil {
			r.rc.requestMoreData()
			return chunk, true, nil
		}
		state, _, _, termErr := r.rc.snapshot()
		switch state {
		case stateFailed:
			return nil, false, termErr
		case stateCompleted:
			return nil, false, nil
		}
		r.rc.requestMoreData()
		select {
		case <-r.rc.waitCh():
		case <-ctx.Done():
			return nil, false, core.NewTimeoutError()
		}
	}
}

func (r *asyncResponse) Close() error {
	r.rc.drop()
	return nil
}

// drop tears down the request's native handle and registry entry. It is
// safe to call more than once; only the first call does anything.
func (rc *requestCtx) drop() {
	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		return
	}
	rc.closed = true
	rc.mu.Unlock()
	registry.unregister(rc.token)
	winHttpCloseHandle(rc.hRequest)
}

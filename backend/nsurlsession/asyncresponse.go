//go:build darwin

package nsurlsession

import (
	"context"

	"github.com/nyquest-go/nyquest/internal/core"
)

// asyncClient is NSURLSession's core.AsyncClient, mirroring the shape
// backend/winhttp/asyncresponse.go and backend/libcurl/asyncresponse.go
// share: funnel every request through one session, park until headers
// land, hand back a response that streams the rest of the body.
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

func waitForHeaders(ctx context.Context, rc *requestCtx) error {
	for {
		state, _, termErr := rc.snapshot()
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
	_, meta, _ := r.rc.snapshot()
	return meta
}

// ReadBody drains whatever didReceiveData has appended so far, then
// waits for more. Unlike backend/winhttp/backend/libcurl there is no
// native pause/unpause primitive to hold back; NSURLSession's delegate
// callbacks arrive unconditionally, so backpressure here is purely
// "don't call ReadBody again until you're ready", same as any ordinary
// buffered reader.
func (r *asyncResponse) ReadBody(ctx context.Context) ([]byte, bool, error) {
	for {
		if chunk := r.rc.takeBody(); chunk != nil {
			return chunk, true, nil
		}
		state, _, termErr := r.rc.snapshot()
		switch state {
		case stateFailed:
			return nil, false, termErr
		case stateCompleted:
			return nil, false, nil
		}
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

func (rc *requestCtx) drop() {
	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		return
	}
	rc.closed = true
	task := rc.task
	rc.mu.Unlock()
	registry.unregister(rc.token)
	if task != nil {
		cancelTask(task)
	}
}

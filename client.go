package nyquest

import (
	"context"

	"github.com/nyquest-go/nyquest/internal/core"
)

func toCoreRequest(r Request) core.Request { return r.inner }

// AsyncClient issues requests asynchronously: Do suspends the calling
// goroutine only until response headers are available (spec.md §5).
// Build one with ClientBuilder.BuildAsync.
type AsyncClient struct {
	inner         core.AsyncClient
	maxBufferSize int64
}

// Do sends req and suspends until headers are received.
func (c *AsyncClient) Do(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.inner.Do(ctx, toCoreRequest(req))
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	return &Response{async: resp, ctx: ctx, maxBufferSize: c.maxBufferSize}, nil
}

// Close releases the client's session and any backend resources (e.g.
// the libcurl backend's driver-loop thread, which each client owns
// alone).
func (c *AsyncClient) Close() error { return c.inner.Close() }

// BlockingClient issues requests synchronously: Do parks the calling
// goroutine until response headers are received, and reading the body
// parks it again until the body has arrived. Build one with
// ClientBuilder.BuildBlocking.
type BlockingClient struct {
	inner         core.BlockingClient
	maxBufferSize int64
}

// Do sends req and blocks until headers are received.
func (c *BlockingClient) Do(req Request) (*Response, error) {
	resp, err := c.inner.Do(toCoreRequest(req))
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	return &Response{blocking: resp, maxBufferSize: c.maxBufferSize}, nil
}

// Close releases the client's session and any backend resources.
func (c *BlockingClient) Close() error { return c.inner.Close() }

package libcurl

import (
	"context"

	"github.com/nyquest-go/nyquest/internal/core"
)

// blockingClient is the core.BlockingClient this backend hands back
// from NewBlockingClient. It is a thin adapter over asyncClient: the
// driver loop is always asynchronous under the hood (spec.md §5's
// "blocking is async plus a parked caller"), so Do simply calls the
// async path with context.Background() and the calling goroutine parks
// on the same wait loop an async caller would use.
type blockingClient struct{ s *session }

func (c *blockingClient) Do(req core.Request) (core.BlockingResponse, error) {
	rc, err := c.s.construct(req)
	if err != nil {
		return nil, err
	}
	if err := waitForHeaders(context.Background(), rc); err != nil {
		rc.drop()
		return nil, err
	}
	return &blockingResponse{rc: rc}, nil
}

func (c *blockingClient) Close() error { return c.s.close() }

type blockingResponse struct{ rc *requestContext }

func (r *blockingResponse) Meta() core.ResponseMeta {
	_, meta, _, _ := r.rc.snapshot()
	return meta
}

func (r *blockingResponse) ReadBody() ([]byte, bool, error) {
	ar := asyncResponse{rc: r.rc}
	return ar.ReadBody(context.Background())
}

func (r *blockingResponse) Close() error {
	r.rc.drop()
	return nil
}

package core

import "context"

// BlockingFromAsync adapts any AsyncClient into a BlockingClient by
// calling the async path with context.Background() and letting the
// calling goroutine park on it. WinHTTP and NSURLSession only
// implement AsyncBackend natively (their platform callback models are
// inherently async, per spec.md §5); this lets either one satisfy
// BlockingBackend too without duplicating the request/response
// plumbing a second time.
type BlockingFromAsync struct{ Inner AsyncClient }

func (b BlockingFromAsync) Do(req Request) (BlockingResponse, error) {
	resp, err := b.Inner.Do(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return blockingFromAsyncResponse{resp}, nil
}

func (b BlockingFromAsync) Close() error { return b.Inner.Close() }

type blockingFromAsyncResponse struct{ inner AsyncResponse }

func (r blockingFromAsyncResponse) Meta() ResponseMeta { return r.inner.Meta() }

func (r blockingFromAsyncResponse) ReadBody() ([]byte, bool, error) {
	return r.inner.ReadBody(context.Background())
}

func (r blockingFromAsyncResponse) Close() error { return r.inner.Close() }

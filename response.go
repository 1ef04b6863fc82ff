package nyquest

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/nyquest-go/nyquest/internal/core"
	"github.com/nyquest-go/nyquest/internal/wire"
)

// Response is a completed HTTP response: status and headers are
// immediately readable; the body is consumable at most once via
// Text, Bytes or JSON (spec.md §3, §4.1).
//
// The underlying backend capability set uses pointer receivers for
// object-safety (spec.md §9), but Response enforces one-shot semantics
// itself: calling Text/Bytes/JSON more than once returns an error
// instead of silently re-reading (there is nothing left to read — the
// native handle is closed after the first call).
type Response struct {
	async    core.AsyncResponse
	blocking core.BlockingResponse
	ctx      context.Context

	maxBufferSize int64
	consumed      atomic.Bool
}

func (r *Response) meta() core.ResponseMeta {
	if r.async != nil {
		return r.async.Meta()
	}
	return r.blocking.Meta()
}

// Status returns the response's status code. Repeatable.
func (r *Response) Status() StatusCode {
	return StatusCode(r.meta().StatusCode)
}

// ContentLength returns the advertised content length, or -1 if
// unknown. Repeatable.
func (r *Response) ContentLength() int64 {
	return r.meta().ContentLength
}

// GetHeader returns the first captured response header with the given
// name (case-sensitive match against what the backend captured), and
// whether one was found. Repeatable.
func (r *Response) GetHeader(name string) (string, bool) {
	for _, h := range r.meta().Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

// WithSuccessfulStatus returns an error wrapping
// Error{Kind: KindNonSuccessfulStatusCode} unless the status classifies
// as successful (2xx), otherwise returns r unchanged for chaining.
func (r *Response) WithSuccessfulStatus() (*Response, error) {
	if !r.Status().IsSuccessful() {
		return nil, NonSuccessfulStatus(r.Status())
	}
	return r, nil
}

// Bytes consumes the response and returns the full body. It returns
// Error{Kind: KindResponseTooLarge} if the body exceeds the client's
// MaxResponseBufferSize, discarding the partial buffer.
func (r *Response) Bytes() ([]byte, error) {
	if !r.consumed.CompareAndSwap(false, true) {
		return nil, newError(KindIO, errAlreadyConsumed)
	}
	defer r.closeNative()

	var buf []byte
	for {
		var chunk []byte
		var ok bool
		var err error
		if r.async != nil {
			chunk, ok, err = r.async.ReadBody(r.ctxOrBackground())
		} else {
			chunk, ok, err = r.blocking.ReadBody()
		}
		if err != nil {
			return nil, wrapBackendErr(err)
		}
		if len(chunk) > 0 {
			buf = append(buf, chunk...)
			if r.maxBufferSize > 0 && int64(len(buf)) > r.maxBufferSize {
				return nil, newError(KindResponseTooLarge, nil)
			}
		}
		if !ok {
			break
		}
	}
	return buf, nil
}

// Text consumes the response and decodes it as text, applying the
// content-type charset parameter when present and falling back to
// lossy UTF-8 otherwise (spec.md §4.1).
func (r *Response) Text() (string, error) {
	contentType, _ := r.GetHeader("Content-Type")
	body, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return wire.DecodeText(body, contentType), nil
}

// JSON consumes the response and decodes it as JSON into v.
func (r *Response) JSON(v any) error {
	body, err := r.Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return newError(KindJSON, err)
	}
	return nil
}

// Close releases the native handle without draining the body. Safe to
// call even after Bytes/Text/JSON has already consumed the response.
func (r *Response) Close() error {
	if !r.consumed.CompareAndSwap(false, true) {
		return nil
	}
	return r.closeNative()
}

func (r *Response) closeNative() error {
	if r.async != nil {
		return r.async.Close()
	}
	return r.blocking.Close()
}

func (r *Response) ctxOrBackground() context.Context {
	if r.ctx != nil {
		return r.ctx
	}
	return context.Background()
}

var errAlreadyConsumed = errConsumed{}

type errConsumed struct{}

func (errConsumed) Error() string { return "nyquest: response body already consumed" }

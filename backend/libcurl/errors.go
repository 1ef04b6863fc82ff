package libcurl

import (
	"context"
	"errors"

	"github.com/nyquest-go/nyquest/internal/core"
)

// wrapNativeErr translates an error surfaced by the curl multi message
// queue (or a context cancellation) into the internal core.Error kinds
// the facade understands. libcurl's own timeout code
// (CURLE_OPERATION_TIMEDOUT) is not distinguishable through the
// MultiHandle interface as modeled here, so timeouts are recognized
// via context deadline exceeded instead; a real binding would also
// special-case the curl result code.
func wrapNativeErr(err error) error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*core.Error); ok {
		return ce
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return core.NewTimeoutError()
	}
	return core.NewIOError(err)
}

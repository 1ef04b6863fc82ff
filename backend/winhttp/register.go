//go:build windows

package winhttp

import (
	"log/slog"

	"github.com/nyquest-go/nyquest/internal/core"
)

// backendImpl is registered process-wide via Register/RegisterWithLogger,
// the same one-shot pattern backend/libcurl/register.go uses. WinHTTP's
// callback model is natively async; blocking support is layered on via
// core.BlockingFromAsync instead of a second request/response machine.
type backendImpl struct{ logger *slog.Logger }

func (b backendImpl) Name() string { return "winhttp" }

func (b backendImpl) NewAsyncClient(opts core.ClientOptions) (core.AsyncClient, error) {
	s, err := newSession(opts, b.resolveLogger(opts))
	if err != nil {
		return nil, err
	}
	return &asyncClient{s: s}, nil
}

// resolveLogger prefers the logger set on the ClientBuilder (opts.Logger)
// over the one this backend was registered with, so ClientBuilder.Logger
// actually takes effect instead of being a decorative setter.
func (b backendImpl) resolveLogger(opts core.ClientOptions) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return b.logger
}

func (b backendImpl) NewBlockingClient(opts core.ClientOptions) (core.BlockingClient, error) {
	asyncC, err := b.NewAsyncClient(opts)
	if err != nil {
		return nil, err
	}
	return core.BlockingFromAsync{Inner: asyncC}, nil
}

// Register installs the WinHTTP backend as the process-wide nyquest
// backend using slog's default logger. Panics if a backend is already
// registered (core.Register's documented one-shot contract).
func Register() { core.Register(backendImpl{logger: slog.Default()}) }

// RegisterWithLogger is Register with an explicit logger, for callers
// that don't want slog.Default()'s handler.
func RegisterWithLogger(logger *slog.Logger) { core.Register(backendImpl{logger: logger}) }

//go:build darwin

package nsurlsession

import (
	"log/slog"

	"github.com/nyquest-go/nyquest/internal/core"
)

// backendImpl is registered process-wide via Register/RegisterWithLogger.
// Like backend/winhttp, NSURLSession's callback model is natively async
// only; blocking support comes from core.BlockingFromAsync.
type backendImpl struct{ logger *slog.Logger }

func (b backendImpl) Name() string { return "nsurlsession" }

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

// Register installs the NSURLSession backend as the process-wide
// nyquest backend using slog's default logger. Panics if a backend is
// already registered (core.Register's documented one-shot contract).
func Register() { core.Register(backendImpl{logger: slog.Default()}) }

// RegisterWithLogger is Register with an explicit logger.
func RegisterWithLogger(logger *slog.Logger) { core.Register(backendImpl{logger: logger}) }

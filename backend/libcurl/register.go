package libcurl

import (
	"log/slog"

	"github.com/nyquest-go/nyquest/internal/core"
)

// backendImpl is the process-wide libcurl core.Backend: it implements
// both capability sets (core.AsyncBackend and core.BlockingBackend),
// since a single driver loop happily serves both kinds of Client.
type backendImpl struct{ logger *slog.Logger }

func (backendImpl) Name() string { return "libcurl" }

func (b backendImpl) NewAsyncClient(opts core.ClientOptions) (core.AsyncClient, error) {
	s, err := newSession(opts, b.resolveLogger(opts))
	if err != nil {
		return nil, err
	}
	return &asyncClient{s: s}, nil
}

func (b backendImpl) NewBlockingClient(opts core.ClientOptions) (core.BlockingClient, error) {
	s, err := newSession(opts, b.resolveLogger(opts))
	if err != nil {
		return nil, err
	}
	return &blockingClient{s: s}, nil
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

// Register installs the libcurl backend as the process-wide nyquest
// backend. Per spec.md §3 "Backend registration", this may only be
// called once per process; a second call panics.
func Register() {
	core.Register(backendImpl{logger: slog.Default()})
}

// RegisterWithLogger is Register but lets the caller supply the
// *slog.Logger used for driver-loop lifecycle diagnostics, instead of
// slog.Default().
func RegisterWithLogger(logger *slog.Logger) {
	core.Register(backendImpl{logger: logger})
}

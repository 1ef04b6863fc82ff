package nyquest

import (
	"log/slog"
	"time"

	"github.com/nyquest-go/nyquest/internal/core"
)

// CachingBehavior controls how aggressively a backend may reuse a
// platform HTTP cache.
type CachingBehavior int

const (
	// CachingDefault leaves the decision to the platform's default
	// policy.
	CachingDefault CachingBehavior = iota
	// CachingDisabled forces every request to bypass any cache.
	CachingDisabled
	// CachingGoodToHave prefers a cache hit but does not require one.
	CachingGoodToHave
)

func (c CachingBehavior) toCore() core.CachingBehavior {
	switch c {
	case CachingDisabled:
		return core.CachingDisabled
	case CachingGoodToHave:
		return core.CachingGoodToHave
	default:
		return core.CachingDefault
	}
}

// ClientBuilder builds a frozen ClientOptions and, from it, a Client.
// Every setter is chainable and mirrors a ClientOptions field
// one-for-one, per spec.md §4.1.
type ClientBuilder struct {
	opts   core.ClientOptions
	logger *slog.Logger
}

// NewClientBuilder returns a builder with the zero ClientOptions and no
// logger of its own: unless Logger is called, the backend uses the
// logger it was registered with (see SPEC_FULL.md §3 "Logging").
func NewClientBuilder() *ClientBuilder {
	return &ClientBuilder{}
}

// BaseURL sets the base URL relative requests are resolved against.
func (b *ClientBuilder) BaseURL(url string) *ClientBuilder {
	b.opts.BaseURL = url
	return b
}

// UserAgent sets the User-Agent header value.
func (b *ClientBuilder) UserAgent(ua string) *ClientBuilder {
	b.opts.UserAgent = ua
	return b
}

// WithHeader appends a default header sent with every request unless
// overridden per-request. Duplicates are preserved.
func (b *ClientBuilder) WithHeader(name, value string) *ClientBuilder {
	b.opts.DefaultHeaders = append(b.opts.DefaultHeaders, core.Header{Name: name, Value: value})
	return b
}

// RequestTimeout sets the per-request wall-clock timeout.
func (b *ClientBuilder) RequestTimeout(d time.Duration) *ClientBuilder {
	b.opts.RequestTimeout = d.Milliseconds()
	return b
}

// MaxResponseBufferSize sets the response body size ceiling, in bytes.
// Exceeding it surfaces Error{Kind: KindResponseTooLarge}.
func (b *ClientBuilder) MaxResponseBufferSize(n int64) *ClientBuilder {
	b.opts.MaxResponseBufferSize = n
	return b
}

// Caching sets the caching policy.
func (b *ClientBuilder) Caching(behavior CachingBehavior) *ClientBuilder {
	b.opts.CachingBehavior = behavior.toCore()
	return b
}

// NoCaching is shorthand for Caching(CachingDisabled), named after
// spec.md's scenario 1 ("With no_caching() the counter increments
// twice").
func (b *ClientBuilder) NoCaching() *ClientBuilder {
	return b.Caching(CachingDisabled)
}

// UseDefaultProxy sets whether the backend's platform default proxy is
// honored.
func (b *ClientBuilder) UseDefaultProxy(use bool) *ClientBuilder {
	b.opts.UseDefaultProxy = use
	return b
}

// UseCookies sets whether the backend maintains a cookie jar across
// requests on the built client.
func (b *ClientBuilder) UseCookies(use bool) *ClientBuilder {
	b.opts.UseCookies = use
	return b
}

// FollowRedirects sets whether the backend transparently follows
// redirect responses.
func (b *ClientBuilder) FollowRedirects(follow bool) *ClientBuilder {
	b.opts.FollowRedirects = follow
	return b
}

// IgnoreCertificateErrors sets whether TLS certificate validation
// errors are ignored. Intended for test environments only.
func (b *ClientBuilder) IgnoreCertificateErrors(ignore bool) *ClientBuilder {
	b.opts.IgnoreCertificateErrors = ignore
	return b
}

// Impersonate asks a backend that supports TLS/HTTP fingerprint
// impersonation (backend/libcurl, via go-curl-impersonate) to present
// as the named browser target, e.g. "chrome120". useDefaultHeaders
// additionally applies that target's default header set/order.
// Backends without impersonation support ignore this option.
func (b *ClientBuilder) Impersonate(target string, useDefaultHeaders bool) *ClientBuilder {
	b.opts.ImpersonateTarget = target
	b.opts.ImpersonateDefaultHeaders = useDefaultHeaders
	return b
}

// Logger overrides the slog.Logger used for driver-loop lifecycle and
// per-request failure diagnostics (SPEC_FULL.md §3). Never passed
// header or body content. Threaded through ClientOptions.Logger at
// Build time, so it takes precedence over whatever logger the backend
// was registered with.
func (b *ClientBuilder) Logger(logger *slog.Logger) *ClientBuilder {
	b.logger = logger
	return b
}

// BuildAsync looks up the registered backend and builds an AsyncClient
// from the frozen options. It fails with KindNoBackend if no backend
// has been registered.
func (b *ClientBuilder) BuildAsync() (*AsyncClient, error) {
	backend := core.Registered()
	if backend == nil {
		return nil, newError(KindNoBackend, nil)
	}
	ab, ok := backend.(core.AsyncBackend)
	if !ok {
		return nil, newError(KindNoBackend, nil)
	}
	opts := b.opts
	opts.Logger = b.logger
	client, err := ab.NewAsyncClient(opts)
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	return &AsyncClient{inner: client, maxBufferSize: b.opts.MaxResponseBufferSize}, nil
}

// BuildBlocking looks up the registered backend and builds a
// BlockingClient from the frozen options. It fails with KindNoBackend
// if no backend has been registered.
func (b *ClientBuilder) BuildBlocking() (*BlockingClient, error) {
	backend := core.Registered()
	if backend == nil {
		return nil, newError(KindNoBackend, nil)
	}
	bb, ok := backend.(core.BlockingBackend)
	if !ok {
		return nil, newError(KindNoBackend, nil)
	}
	opts := b.opts
	opts.Logger = b.logger
	client, err := bb.NewBlockingClient(opts)
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	return &BlockingClient{inner: client, maxBufferSize: b.opts.MaxResponseBufferSize}, nil
}

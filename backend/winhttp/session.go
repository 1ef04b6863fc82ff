//go:build windows

package winhttp

import (
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/nyquest-go/nyquest/internal/core"
)

var errSessionClosed = errors.New("winhttp: session is closed")

// session owns the one hSession handle a nyquest Client maps to,
// mirroring backend/libcurl/session.go's role: it is the thing
// NewAsyncClient/NewBlockingClient hand back, and construct() is the
// single entry point every request goes through.
type session struct {
	opts   core.ClientOptions
	logger *slog.Logger

	mu        sync.Mutex
	hSession  uintptr
	connCache map[string]uintptr // "host:port" -> hConnect, reused across requests
	closed    bool
}

func newSession(opts core.ClientOptions, logger *slog.Logger) (*session, error) {
	accessType := uint32(winhttpAccessTypeNamedProxy)
	if opts.UseDefaultProxy {
		accessType = winhttpAccessTypeAutomaticProxy
	}
	hSession, err := winHttpOpen(opts.UserAgent, accessType)
	if err != nil {
		return nil, err
	}
	if err := winHttpSetStatusCallback(hSession, statusCallbackPtr); err != nil {
		winHttpCloseHandle(hSession)
		return nil, err
	}
	return &session{
		opts:      opts,
		logger:    logger,
		hSession:  hSession,
		connCache: make(map[string]uintptr),
	}, nil
}

func (s *session) connectHandle(host string, port uint16) (uintptr, error) {
	key := host + ":" + strconv.Itoa(int(port))
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, core.NewIOError(errSessionClosed)
	}
	if h, ok := s.connCache[key]; ok {
		return h, nil
	}
	h, err := winHttpConnect(s.hSession, host, port)
	if err != nil {
		return 0, err
	}
	s.connCache[key] = h
	return h, nil
}

// construct builds, configures and sends one request, returning the
// requestCtx the caller waits on for headers. It is the WinHTTP
// equivalent of backend/libcurl/session.go's construct(), minus the
// retry/respawn logic: a single hSession handle doesn't wedge the way
// libcurl's driver-loop goroutine can, so there is no loop to restart.
func (s *session) construct(req core.Request) (*requestCtx, error) {
	u, err := targetURL(&s.opts, req)
	if err != nil {
		return nil, err
	}
	hConnect, err := s.connectHandle(u.Hostname(), portOf(u))
	if err != nil {
		return nil, err
	}

	plan, err := planBody(req.Body)
	if err != nil {
		return nil, err
	}

	hRequest, err := winHttpOpenRequest(hConnect, req.Method.String(), pathAndQuery(u), u.Scheme == "https")
	if err != nil {
		return nil, err
	}

	if s.opts.IgnoreCertificateErrors {
		if err := setIgnoreCertErrors(hRequest); err != nil {
			winHttpCloseHandle(hRequest)
			return nil, err
		}
	}
	if !s.opts.FollowRedirects {
		if err := disableRedirects(hRequest); err != nil {
			winHttpCloseHandle(hRequest)
			return nil, err
		}
	}
	if s.opts.RequestTimeout > 0 {
		ms := int32(s.opts.RequestTimeout)
		if err := winHttpSetTimeouts(hRequest, ms, ms, ms, ms); err != nil {
			winHttpCloseHandle(hRequest)
			return nil, err
		}
	}

	headerBlock := buildHeaderBlock(&s.opts, req, plan)
	if err := winHttpAddRequestHeaders(hRequest, headerBlock); err != nil {
		winHttpCloseHandle(hRequest)
		return nil, err
	}

	rc := newRequestCtx(0, hRequest)
	if plan != nil {
		rc.upload = plan.writer
		rc.chunked = plan.chunked
	}
	token := registry.register(rc)
	if err := winHttpSetContextValue(hRequest, token); err != nil {
		registry.unregister(token)
		winHttpCloseHandle(hRequest)
		return nil, err
	}

	rc.mu.Lock()
	rc.state = stateSending
	rc.mu.Unlock()

	var totalLen int64 = 0
	if plan != nil {
		totalLen = plan.length
	}
	if err := winHttpSendRequest(hRequest, totalLen, token); err != nil {
		registry.unregister(token)
		winHttpCloseHandle(hRequest)
		return nil, err
	}
	if plan != nil && plan.bytes != nil {
		if err := winHttpWriteData(hRequest, plan.bytes); err != nil {
			registry.unregister(token)
			winHttpCloseHandle(hRequest)
			return nil, err
		}
	}
	return rc, nil
}

func (s *session) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for _, h := range s.connCache {
		winHttpCloseHandle(h)
	}
	winHttpCloseHandle(s.hSession)
	return nil
}

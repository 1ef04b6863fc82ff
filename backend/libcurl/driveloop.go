package libcurl

import (
	"bytes"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nyquest-go/nyquest/internal/core"
	"github.com/nyquest-go/nyquest/internal/wire"
)

// pollInterval bounds how long the driver loop waits between checks of
// its task channel: in MultiHandle.Poll while transfers are active, and
// in a select on the task channel itself when none are. Real
// libcurl's curl_multi_wakeup lets a producer interrupt a blocked poll
// immediately; our MultiHandle interface exposes Wakeup for the same
// purpose, and this interval is only the fallback for implementations
// where Wakeup is a best-effort hint.
const pollInterval = 200 * time.Millisecond

// driverTask is the enum of task messages spec.md §4.2 describes:
// Construct, Unpause (recv and send are modeled as two variants), Drop,
// and Shutdown. "Query response metadata" from the spec is folded into
// the header callback itself (see headerCallback in driveloop.go):
// because this Go port runs every libcurl call on one goroutine, the
// header callback can call StatusCode/ContentLength inline instead of
// round-tripping through a second task, which only existed in the
// original design to cross an async-task/driver-thread boundary that a
// single Go goroutine doesn't have.
type driverTask interface{ isDriverTask() }

type constructTask struct {
	req   core.Request
	opts  *core.ClientOptions
	reply chan constructResult
}

type constructResult struct {
	ctx *requestContext
	err error
}

type unpauseRecvTask struct{ ctx *requestContext }
type unpauseSendTask struct{ ctx *requestContext }
type dropTask struct{ ctx *requestContext }
type shutdownTask struct{ done chan struct{} }

func (constructTask) isDriverTask()   {}
func (unpauseRecvTask) isDriverTask() {}
func (unpauseSendTask) isDriverTask() {}
func (dropTask) isDriverTask()        {}
func (shutdownTask) isDriverTask()    {}

// driveLoop is the single dedicated goroutine that owns a curl multi
// handle and a slab of in-flight requests keyed by token (spec.md §3
// "DriveLoop / LoopManager").
type driveLoop struct {
	multi  MultiHandle
	share  ShareHandle
	tasks  chan driverTask
	logger *slog.Logger

	slab      map[uint64]*requestContext
	nextToken uint64

	dead atomic.Bool
	wg   sync.WaitGroup
}

func newDriveLoop(multi MultiHandle, share ShareHandle, logger *slog.Logger) *driveLoop {
	d := &driveLoop{
		multi:  multi,
		share:  share,
		tasks:  make(chan driverTask, 64),
		logger: logger,
		slab:   make(map[uint64]*requestContext),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// isDead reports whether a loop-fatal error has killed this loop; the
// session respawns a fresh driveLoop when this is true.
func (d *driveLoop) isDead() bool { return d.dead.Load() }

// wakeup interrupts a blocked multi.Poll so a just-enqueued task is
// handled immediately instead of waiting out pollInterval, per
// spec.md §4.2's "producers enqueue by lock + native wakeup". Errors
// are ignored: worst case the loop falls back to the poll timeout.
func (d *driveLoop) wakeup() {
	_ = d.multi.Wakeup()
}

func (d *driveLoop) shutdown() {
	done := make(chan struct{})
	select {
	case d.tasks <- shutdownTask{done: done}:
		d.wakeup()
		<-done
	default:
		// Task channel full or loop already dead; nothing more we can
		// do from the caller's side.
	}
	d.wg.Wait()
}

// run is the body of the dedicated driver goroutine. Per spec.md §5
// "the libcurl multi + its easy handles must be dropped on the same
// thread", it pins itself to an OS thread for its entire lifetime.
func (d *driveLoop) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer d.wg.Done()
	defer d.multi.Cleanup()

	for {
		drained := d.drainTasks()
		if drained == errLoopShutdown {
			return
		}

		running, err := d.multi.Perform()
		if err != nil {
			d.failLoop(fmt.Errorf("libcurl: multi perform: %w", err))
			return
		}
		d.drainMessages()

		if running == 0 && len(d.slab) == 0 {
			select {
			case t, ok := <-d.tasks:
				if !ok {
					return
				}
				if d.handleTask(t) == errLoopShutdown {
					return
				}
			case <-time.After(pollInterval):
			}
			continue
		}

		if err := d.multi.Poll(pollInterval); err != nil {
			d.failLoop(fmt.Errorf("libcurl: multi poll: %w", err))
			return
		}
	}
}

type loopSignal int

const (
	errLoopContinue loopSignal = iota
	errLoopShutdown
)

func (d *driveLoop) drainTasks() loopSignal {
	for {
		select {
		case t := <-d.tasks:
			if d.handleTask(t) == errLoopShutdown {
				return errLoopShutdown
			}
		default:
			return errLoopContinue
		}
	}
}

func (d *driveLoop) handleTask(t driverTask) loopSignal {
	switch task := t.(type) {
	case constructTask:
		d.handleConstruct(task)
	case unpauseRecvTask:
		if task.ctx.easy != nil {
			task.ctx.mu.Lock()
			task.ctx.pausedRecv = false
			task.ctx.mu.Unlock()
			_ = task.ctx.easy.Unpause(PauseRecv)
		}
	case unpauseSendTask:
		if task.ctx.easy != nil {
			task.ctx.mu.Lock()
			task.ctx.pausedSend = false
			task.ctx.mu.Unlock()
			_ = task.ctx.easy.Unpause(PauseSend)
		}
	case dropTask:
		d.handleDrop(task.ctx)
	case shutdownTask:
		for _, ctx := range d.slab {
			ctx.setTerminal(core.NewIOError(fmt.Errorf("libcurl: client closed")))
			if ctx.easy != nil {
				_ = d.multi.RemoveHandle(ctx.easy)
				ctx.easy.Cleanup()
			}
		}
		d.slab = make(map[uint64]*requestContext)
		close(task.done)
		return errLoopShutdown
	}
	return errLoopContinue
}

func (d *driveLoop) handleConstruct(t constructTask) {
	easy, ctx, err := d.buildEasyHandle(t.req, t.opts)
	if err != nil {
		t.reply <- constructResult{err: err}
		return
	}
	if err := d.multi.AddHandle(easy); err != nil {
		easy.Cleanup()
		t.reply <- constructResult{err: core.NewIOError(err)}
		return
	}
	d.nextToken++
	ctx.token = d.nextToken
	ctx.loop = d
	d.slab[ctx.token] = ctx
	ctx.mu.Lock()
	ctx.state = stateSending
	ctx.mu.Unlock()
	t.reply <- constructResult{ctx: ctx}
}

func (d *driveLoop) handleDrop(ctx *requestContext) {
	if _, ok := d.slab[ctx.token]; !ok {
		return
	}
	delete(d.slab, ctx.token)
	if ctx.easy != nil {
		_ = d.multi.RemoveHandle(ctx.easy)
		ctx.easy.Cleanup()
	}
}

// drainMessages pops every completed-transfer notification the multi
// handle has queued and marks the corresponding requestContext
// terminal, per spec.md §4.2 "Per-request native errors are captured at
// completion time from the multi's message queue".
func (d *driveLoop) drainMessages() {
	for {
		easy, result, ok := d.multi.NextMessage()
		if !ok {
			return
		}
		ctx := d.findByEasy(easy)
		if ctx == nil {
			continue
		}
		ctx.setTerminal(result)
		if result != nil {
			d.logger.Warn("libcurl: request failed", "token", ctx.token, "error", result)
		}
	}
}

func (d *driveLoop) findByEasy(e EasyHandle) *requestContext {
	for _, ctx := range d.slab {
		if ctx.easy == e {
			return ctx
		}
	}
	return nil
}

// failLoop aborts every active request with the same IO error and
// marks the loop dead so the session respawns a fresh one and retries
// construction once (spec.md §4.2 "Failure handling").
func (d *driveLoop) failLoop(err error) {
	d.dead.Store(true)
	d.logger.Warn("libcurl: driver loop failed, will respawn", "error", err)
	for _, ctx := range d.slab {
		ctx.setTerminal(core.NewIOError(err))
	}
	d.slab = nil
}

// buildEasyHandle translates a core.Request into a configured
// EasyHandle plus its fresh requestContext, wiring the header/write/
// read/seek callbacks that implement the pause/unpause protocol.
func (d *driveLoop) buildEasyHandle(req core.Request, opts *core.ClientOptions) (EasyHandle, *requestContext, error) {
	easy, err := newEasyHandleFor(opts)
	if err != nil {
		return nil, nil, err
	}

	url := core.JoinURL(opts.BaseURL, req.RelativeURI)
	if url == "" {
		easy.Cleanup()
		return nil, nil, core.NewInvalidURLError()
	}
	easy.SetURL(url)
	easy.SetMethod(req.Method.String(), req.Method.String())

	var boundary string
	if req.Body != nil && req.Body.Kind == core.BodyKindMultipart {
		boundary = wire.NewBoundary()
	}
	headers := buildHeaders(opts, req, boundary, needsChunkedTransfer(req.Body))
	easy.SetRequestHeaders(headers)

	if opts.RequestTimeout > 0 {
		easy.SetTimeout(time.Duration(opts.RequestTimeout) * time.Millisecond)
	}
	easy.SetFollowRedirects(opts.FollowRedirects)
	easy.SetUseDefaultProxy(opts.UseDefaultProxy)
	easy.SetIgnoreCertificateErrors(opts.IgnoreCertificateErrors)
	if d.share != nil {
		easy.SetShare(d.share)
	}

	ctx := newRequestContext(0, easy)

	if req.Body != nil {
		if err := applyBody(easy, ctx, *req.Body, boundary); err != nil {
			easy.Cleanup()
			return nil, nil, err
		}
	}

	easy.SetHeaderFunc(headerCallback(ctx))
	easy.SetWriteFunc(writeCallback(ctx))

	return easy, ctx, nil
}

// headerCallback parses the status line and header lines, and on the
// blank line that ends headers (for a non-redirect, non-CONNECT
// response) computes ResponseMeta, pauses the receive side, and wakes
// the awaiter — all inline, since header callbacks run on the driver
// goroutine (spec.md §4.2 "Headers").
func headerCallback(ctx *requestContext) HeaderFunc {
	// connectReply is set while the current hop is a proxy's
	// "Connection established" reply to CONNECT; its headers are
	// discarded since the real response follows through the tunnel.
	connectReply := false
	return func(line []byte) bool {
		trimmed := bytes.TrimRight(line, "\r\n")
		if len(trimmed) == 0 {
			ctx.mu.Lock()
			already := ctx.state != stateSending
			ctx.mu.Unlock()
			if already {
				return true
			}
			if connectReply {
				connectReply = false
				ctx.mu.Lock()
				ctx.headerLines = nil
				ctx.mu.Unlock()
				return true
			}
			code, _ := ctx.easy.StatusCode()
			if code >= 300 && code < 400 {
				// Redirect: libcurl will transparently follow when
				// FOLLOWLOCATION is set and consumes these headers
				// itself; discard our buffered lines and keep waiting
				// for the next status line.
				ctx.mu.Lock()
				ctx.headerLines = nil
				ctx.mu.Unlock()
				return true
			}
			contentLength, _ := ctx.easy.ContentLength()
			meta := core.ResponseMeta{
				StatusCode:    uint16(code),
				ContentLength: contentLength,
				Headers:       parseHeaderLines(ctx.headerLines),
			}
			ctx.setHeaderFinished(meta)
			ctx.mu.Lock()
			ctx.pausedRecv = true
			ctx.mu.Unlock()
			_ = ctx.easy.Pause(PauseRecv)
			return true
		}
		if bytes.HasPrefix(trimmed, []byte("HTTP/")) {
			// Status line of a (possibly redirected-through) response;
			// reset accumulated lines for this hop.
			connectReply = bytes.Contains(bytes.ToLower(trimmed), []byte(" connection established"))
			ctx.mu.Lock()
			ctx.headerLines = nil
			ctx.mu.Unlock()
			return true
		}
		ctx.mu.Lock()
		ctx.headerLines = append(ctx.headerLines, append([]byte(nil), trimmed...))
		ctx.mu.Unlock()
		return true
	}
}

// writeCallback appends a response chunk, pauses the receive side, and
// wakes whoever is waiting on body data (spec.md §4.2 "Body reads" /
// the pause/unpause credit-of-one protocol).
func writeCallback(ctx *requestContext) WriteFunc {
	return func(chunk []byte) bool {
		buf := append([]byte(nil), chunk...)
		ctx.appendBody(buf)
		ctx.mu.Lock()
		ctx.pausedRecv = true
		ctx.mu.Unlock()
		_ = ctx.easy.Pause(PauseRecv)
		return true
	}
}

func parseHeaderLines(lines [][]byte) []core.Header {
	headers := make([]core.Header, 0, len(lines))
	for _, line := range lines {
		idx := bytes.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(string(line[:idx]))
		value := strings.TrimSpace(string(line[idx+1:]))
		headers = append(headers, core.Header{Name: name, Value: value})
	}
	return headers
}

func buildHeaders(opts *core.ClientOptions, req core.Request, boundary string, chunked bool) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name, value string) {
		out = append(out, name+": "+value)
		seen[strings.ToLower(name)] = true
	}
	for _, h := range req.AdditionalHeaders {
		add(h.Name, h.Value)
	}
	// A default is dropped only when the request itself sets that name;
	// repeated defaults are all sent.
	fromRequest := make(map[string]bool, len(seen))
	for name := range seen {
		fromRequest[name] = true
	}
	for _, h := range opts.DefaultHeaders {
		if fromRequest[strings.ToLower(h.Name)] {
			continue
		}
		add(h.Name, h.Value)
	}
	if opts.UserAgent != "" && !seen["user-agent"] {
		add("User-Agent", opts.UserAgent)
	}
	if req.Body != nil {
		if ct := contentTypeOf(*req.Body, boundary); ct != "" && !seen["content-type"] {
			add("Content-Type", ct)
		}
	}
	if chunked && !seen["transfer-encoding"] {
		add("Transfer-Encoding", "chunked")
	}
	return out
}

// needsChunkedTransfer reports whether body must be sent without a
// Content-Length: either an explicitly unsized stream, or a multipart
// body with any stream-backed part (applyMultipartBody in
// request_build.go assembles those lazily, so their total length isn't
// known up front either).
func needsChunkedTransfer(body *core.Body) bool {
	if body == nil {
		return false
	}
	if body.Kind == core.BodyKindStream {
		return body.IsUnsizedStream()
	}
	if body.Kind == core.BodyKindMultipart {
		return anyPartIsStream(body.MultipartParts)
	}
	return false
}

func contentTypeOf(b core.Body, boundary string) string {
	switch b.Kind {
	case core.BodyKindBytes:
		return b.BytesContentType
	case core.BodyKindForm:
		return "application/x-www-form-urlencoded"
	case core.BodyKindMultipart:
		return "multipart/form-data; boundary=" + boundary
	case core.BodyKindStream:
		return b.StreamContentType
	default:
		return ""
	}
}

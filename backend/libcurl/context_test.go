package libcurl

import (
	"testing"
	"time"

	"github.com/nyquest-go/nyquest/internal/core"
)

// fakeEasy is a minimal EasyHandle good enough to exercise the header
// and write callbacks without cgo or a real libcurl.
type fakeEasy struct {
	statusCode    int
	contentLength int64
	paused        int
}

func (f *fakeEasy) SetURL(string)                                  {}
func (f *fakeEasy) SetMethod(string, string)                        {}
func (f *fakeEasy) SetRequestHeaders([]string)                      {}
func (f *fakeEasy) SetUploadSize(int64)                             {}
func (f *fakeEasy) SetWriteFunc(WriteFunc)                          {}
func (f *fakeEasy) SetHeaderFunc(HeaderFunc)                        {}
func (f *fakeEasy) SetReadFunc(ReadFunc)                            {}
func (f *fakeEasy) SetSeekFunc(SeekFunc)                            {}
func (f *fakeEasy) SetTimeout(time.Duration)                        {}
func (f *fakeEasy) SetFollowRedirects(bool)                         {}
func (f *fakeEasy) SetUseDefaultProxy(bool)                         {}
func (f *fakeEasy) SetIgnoreCertificateErrors(bool)                 {}
func (f *fakeEasy) SetShare(ShareHandle)                            {}
func (f *fakeEasy) SetImpersonateTarget(string, bool)               {}
func (f *fakeEasy) Pause(bitmask int) error                         { f.paused |= bitmask; return nil }
func (f *fakeEasy) Unpause(bitmask int) error                       { f.paused &^= bitmask; return nil }
func (f *fakeEasy) StatusCode() (int, error)                        { return f.statusCode, nil }
func (f *fakeEasy) ContentLength() (int64, error)                   { return f.contentLength, nil }
func (f *fakeEasy) Reset()                                          {}
func (f *fakeEasy) Cleanup()                                        {}

func TestHeaderCallbackParsesStatusAndPauses(t *testing.T) {
	easy := &fakeEasy{statusCode: 200, contentLength: 13}
	ctx := newRequestContext(1, easy)
	ctx.mu.Lock()
	ctx.state = stateSending
	ctx.mu.Unlock()
	cb := headerCallback(ctx)

	for _, line := range []string{
		"HTTP/1.1 200 OK\r\n",
		"Content-Type: text/plain\r\n",
		"X-Custom: value\r\n",
		"\r\n",
	} {
		if !cb([]byte(line)) {
			t.Fatalf("header callback aborted on %q", line)
		}
	}

	state, meta, _, _ := ctx.snapshot()
	if state != stateHeaderFinished {
		t.Fatalf("state = %v, want stateHeaderFinished", state)
	}
	if meta.StatusCode != 200 || meta.ContentLength != 13 {
		t.Fatalf("meta = %+v, want status 200 content-length 13", meta)
	}
	if len(meta.Headers) != 2 {
		t.Fatalf("headers = %+v, want 2 entries", meta.Headers)
	}
	if meta.Headers[0].Name != "Content-Type" || meta.Headers[0].Value != "text/plain" {
		t.Errorf("headers[0] = %+v", meta.Headers[0])
	}
	if easy.paused&PauseRecv == 0 {
		t.Error("expected PauseRecv to be set after headers finish")
	}
}

func TestHeaderCallbackSkipsRedirectHeaders(t *testing.T) {
	easy := &fakeEasy{statusCode: 302}
	ctx := newRequestContext(1, easy)
	ctx.mu.Lock()
	ctx.state = stateSending
	ctx.mu.Unlock()
	cb := headerCallback(ctx)

	cb([]byte("HTTP/1.1 302 Found\r\n"))
	cb([]byte("Location: /next\r\n"))
	cb([]byte("\r\n"))

	state, _, _, _ := ctx.snapshot()
	if state != stateSending {
		t.Fatalf("state = %v, want stateSending (redirect headers should not finish the response)", state)
	}
	if easy.paused != 0 {
		t.Errorf("redirect headers should not pause the transfer, paused = %d", easy.paused)
	}
}

func TestWriteCallbackAppendsAndPauses(t *testing.T) {
	easy := &fakeEasy{}
	ctx := newRequestContext(1, easy)
	cb := writeCallback(ctx)

	if !cb([]byte("hello ")) {
		t.Fatal("write callback aborted")
	}
	if !cb([]byte("world")) {
		t.Fatal("write callback aborted")
	}

	got := ctx.takeBody()
	if string(got) != "hello world" {
		t.Fatalf("takeBody() = %q, want %q", got, "hello world")
	}
	if easy.paused&PauseRecv == 0 {
		t.Error("expected PauseRecv to be set after delivering a chunk")
	}
	if rest := ctx.takeBody(); rest != nil {
		t.Errorf("takeBody() after drain = %v, want nil", rest)
	}
}

func TestRequestContextNotifyIsBuffered(t *testing.T) {
	ctx := newRequestContext(1, &fakeEasy{})

	// A notify that lands before anyone is selecting on waitCh must
	// still be observed: the channel buffers exactly one pending wake,
	// which is what lets a waiter register-then-recheck without racing
	// a notify that fires in between (spec.md §9).
	ctx.notify()

	select {
	case <-ctx.waitCh():
	case <-time.After(time.Second):
		t.Fatal("buffered notify was not observed")
	}
}

func TestSetTerminalRecordsFailure(t *testing.T) {
	ctx := newRequestContext(1, &fakeEasy{})
	cause := core.NewIOError(nil)
	ctx.setTerminal(cause)

	state, _, _, err := ctx.snapshot()
	if state != stateFailed {
		t.Fatalf("state = %v, want stateFailed", state)
	}
	if err != cause {
		t.Fatalf("terminalErr = %v, want %v", err, cause)
	}
}

func TestSetTerminalSuccessRecordsCompleted(t *testing.T) {
	ctx := newRequestContext(1, &fakeEasy{})
	ctx.setTerminal(nil)

	state, _, _, err := ctx.snapshot()
	if state != stateCompleted {
		t.Fatalf("state = %v, want stateCompleted", state)
	}
	if err != nil {
		t.Fatalf("terminalErr = %v, want nil", err)
	}
}

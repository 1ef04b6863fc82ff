//go:build windows

package winhttp

import "testing"

func TestParseRawHeadersSkipsStatusLine(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nX-Foo: bar\r\n\r\n"
	got := parseRawHeaders(raw)
	if len(got) != 2 {
		t.Fatalf("got %d headers, want 2: %#v", len(got), got)
	}
	if got[0].Name != "Content-Type" || got[0].Value != "text/plain" {
		t.Errorf("got[0] = %#v", got[0])
	}
	if got[1].Name != "X-Foo" || got[1].Value != "bar" {
		t.Errorf("got[1] = %#v", got[1])
	}
}

func TestParseRawHeadersEmptyInput(t *testing.T) {
	if got := parseRawHeaders(""); got != nil {
		t.Fatalf("got %#v, want nil", got)
	}
}

func TestParseRawHeadersSkipsStatusLineWithMultiWordReason(t *testing.T) {
	raw := "HTTP/1.1 404 Not Found\r\nAllow: GET, HEAD\r\n\r\n"
	got := parseRawHeaders(raw)
	if len(got) != 1 || got[0].Name != "Allow" {
		t.Fatalf("got %#v", got)
	}
}

func TestRequestCtxNotifyBuffersOneSignal(t *testing.T) {
	rc := newRequestCtx(0, 0)
	rc.notify()
	rc.notify() // second notify must not block
	select {
	case <-rc.waitCh():
	default:
		t.Fatal("expected a buffered notification")
	}
	select {
	case <-rc.waitCh():
		t.Fatal("expected at most one buffered notification")
	default:
	}
}

func TestSetTerminalFailureRecordsError(t *testing.T) {
	rc := newRequestCtx(0, 0)
	rc.setTerminal(errBoom)
	state, _, _, err := rc.snapshot()
	if state != stateFailed || err != errBoom {
		t.Fatalf("state=%v err=%v", state, err)
	}
}

func TestSetTerminalSuccessRecordsCompleted(t *testing.T) {
	rc := newRequestCtx(0, 0)
	rc.setTerminal(nil)
	state, _, _, err := rc.snapshot()
	if state != stateCompleted || err != nil {
		t.Fatalf("state=%v err=%v", state, err)
	}
}

func TestAppendBodyClearsPendingReadAndIsDrainedOnce(t *testing.T) {
	rc := newRequestCtx(0, 0)
	rc.pendingRead = true
	rc.appendBody([]byte("abc"))
	if rc.pendingRead {
		t.Error("expected pendingRead to be cleared")
	}
	if got := string(rc.takeBody()); got != "abc" {
		t.Fatalf("takeBody = %q", got)
	}
	if got := rc.takeBody(); got != nil {
		t.Fatalf("second takeBody = %q, want nil", got)
	}
}

var errBoom = &boomErr{}

type boomErr struct{}

func (*boomErr) Error() string { return "boom" }

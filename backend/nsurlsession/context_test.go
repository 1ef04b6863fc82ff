//go:build darwin

package nsurlsession

import (
	"testing"

	"github.com/nyquest-go/nyquest/internal/core"
)

func TestRequestCtxSetHeaderFinishedNotifies(t *testing.T) {
	rc := newRequestCtx()
	rc.setHeaderFinished(okMeta())
	state, meta, _ := rc.snapshot()
	if state != stateHeaderFinished || meta.StatusCode != 200 {
		t.Fatalf("state=%v meta=%#v", state, meta)
	}
	select {
	case <-rc.waitCh():
	default:
		t.Fatal("expected a notification")
	}
}

func TestRequestCtxAppendAndTakeBody(t *testing.T) {
	rc := newRequestCtx()
	rc.appendBody([]byte("ab"))
	rc.appendBody([]byte("cd"))
	if got := string(rc.takeBody()); got != "abcd" {
		t.Fatalf("got %q", got)
	}
	if got := rc.takeBody(); got != nil {
		t.Fatalf("second takeBody = %q, want nil", got)
	}
}

func TestRequestCtxSetTerminalFailure(t *testing.T) {
	rc := newRequestCtx()
	rc.setTerminal(errBoom)
	state, _, err := rc.snapshot()
	if state != stateFailed || err != errBoom {
		t.Fatalf("state=%v err=%v", state, err)
	}
}

func TestRegistryRegisterLookupUnregister(t *testing.T) {
	rc := newRequestCtx()
	token := registry.register(rc)
	if registry.lookup(token) != rc {
		t.Fatal("lookup did not return the registered ctx")
	}
	registry.unregister(token)
	if registry.lookup(token) != nil {
		t.Fatal("expected nil after unregister")
	}
}

var errBoom = boomErr{}

type boomErr struct{}

func (boomErr) Error() string { return "boom" }

func okMeta() core.ResponseMeta { return core.ResponseMeta{StatusCode: 200, ContentLength: -1} }

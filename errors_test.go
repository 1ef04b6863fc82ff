package nyquest

import (
	"errors"
	"testing"

	"github.com/nyquest-go/nyquest/internal/core"
)

func TestNonSuccessfulStatusPredicates(t *testing.T) {
	err := NonSuccessfulStatus(StatusCode(404))

	status, ok := IsNonSuccessfulStatusCode(err)
	if !ok {
		t.Fatal("IsNonSuccessfulStatusCode returned ok=false")
	}
	if status != 404 {
		t.Fatalf("status = %d, want 404", status)
	}
	if IsIO(err) {
		t.Error("a NonSuccessfulStatus error should not classify as IO")
	}
}

func TestWrapBackendErrTranslatesKind(t *testing.T) {
	backendErr := core.NewTimeoutError()
	wrapped := wrapBackendErr(backendErr)

	if !IsRequestTimeout(wrapped) {
		t.Fatalf("wrapped error %v is not classified as RequestTimeout", wrapped)
	}
}

func TestWrapBackendErrFallsBackToIO(t *testing.T) {
	wrapped := wrapBackendErr(errors.New("boom"))
	if !IsIO(wrapped) {
		t.Fatalf("wrapped error %v is not classified as IO", wrapped)
	}
}

func TestWrapBackendErrNilIsNil(t *testing.T) {
	if wrapBackendErr(nil) != nil {
		t.Fatal("wrapBackendErr(nil) should be nil")
	}
}

func TestErrorUnwrapExposesCause(t *testing.T) {
	cause := errors.New("root cause")
	err := newError(KindIO, cause)
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is should see through Error.Unwrap to the cause")
	}
}

package nyquest

import (
	"strings"
	"testing"

	"github.com/nyquest-go/nyquest/internal/core"
)

func TestPlainTextDefaultsContentType(t *testing.T) {
	b := PlainText("hello")
	if b.inner.BytesContentType != "text/plain" {
		t.Errorf("content type = %q, want text/plain", b.inner.BytesContentType)
	}
	if string(b.inner.BytesContent) != "hello" {
		t.Errorf("content = %q, want hello", b.inner.BytesContent)
	}
}

func TestJSONMarshalsAndSetsContentType(t *testing.T) {
	b, err := JSON(map[string]int{"n": 1})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if b.inner.BytesContentType != "application/json" {
		t.Errorf("content type = %q, want application/json", b.inner.BytesContentType)
	}
	if string(b.inner.BytesContent) != `{"n":1}` {
		t.Errorf("content = %q, want %q", b.inner.BytesContent, `{"n":1}`)
	}
}

func TestBodyFormBuildsPairs(t *testing.T) {
	b := BodyForm("a", "1", "b", "2")
	if b.inner.Kind != core.BodyKindForm {
		t.Fatalf("kind = %v, want BodyKindForm", b.inner.Kind)
	}
	if len(b.inner.FormFields) != 2 {
		t.Fatalf("fields = %+v, want 2 entries", b.inner.FormFields)
	}
	if b.inner.FormFields[0].Name != "a" || b.inner.FormFields[0].Value != "1" {
		t.Errorf("fields[0] = %+v", b.inner.FormFields[0])
	}
}

func TestBodyFormPanicsOnOddArgs(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected BodyForm to panic on an odd argument count")
		}
	}()
	BodyForm("a", "1", "b")
}

func TestStreamUnsizedHasNegativeLength(t *testing.T) {
	b := StreamUnsized(strings.NewReader("x"), "application/octet-stream")
	if !b.inner.IsUnsizedStream() {
		t.Error("expected IsUnsizedStream() to be true")
	}
	if b.inner.StreamLength != -1 {
		t.Errorf("StreamLength = %d, want -1", b.inner.StreamLength)
	}
}

func TestStreamWithSizeIsNotUnsized(t *testing.T) {
	b := Stream(strings.NewReader("x"), "application/octet-stream", 1)
	if b.inner.IsUnsizedStream() {
		t.Error("expected IsUnsizedStream() to be false for a sized stream")
	}
}

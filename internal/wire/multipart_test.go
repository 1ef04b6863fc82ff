package wire

import (
	"strings"
	"testing"

	"github.com/nyquest-go/nyquest/internal/core"
)

func TestEscapeFilenameReplacesUnsafeCharacters(t *testing.T) {
	got := EscapeFilename(`a"b\c/d`)
	if got != "a_b_c_d" {
		t.Fatalf("got %q, want %q", got, "a_b_c_d")
	}
}

func TestEscapeHeaderNameEscapesColon(t *testing.T) {
	got := EscapeHeaderName("X-My:Header")
	if got != "X-My%3AHeader" {
		t.Fatalf("got %q, want %q", got, "X-My%3AHeader")
	}
}

func TestEscapeHeaderValueEscapesNewlines(t *testing.T) {
	got := EscapeHeaderValue("line1\r\nline2")
	if got != `line1\nline2` {
		t.Fatalf("got %q, want %q", got, `line1\nline2`)
	}
}

func TestEncodeMultipartBytesRendersBoundaryFraming(t *testing.T) {
	parts := []core.Part{
		{Name: "field", BodyKind: core.PartBodyKindBytes, BytesContent: []byte("value")},
		{
			Name:         "file",
			Filename:     "a.txt",
			ContentType:  "text/plain",
			BodyKind:     core.PartBodyKindBytes,
			BytesContent: []byte("contents"),
		},
	}
	encoded, err := EncodeMultipartBytes("BOUNDARY", parts)
	if err != nil {
		t.Fatalf("EncodeMultipartBytes: %v", err)
	}
	body := string(encoded)

	if !strings.HasPrefix(body, "--BOUNDARY\r\n") {
		t.Fatalf("body does not start with the opening boundary: %q", body)
	}
	if !strings.Contains(body, `name="field"`) {
		t.Error("missing field part's Content-Disposition name")
	}
	if !strings.Contains(body, `name="file"; filename="a.txt"`) {
		t.Error("missing file part's Content-Disposition filename")
	}
	if !strings.Contains(body, "Content-Type: text/plain\r\n") {
		t.Error("missing file part's Content-Type")
	}
	if !strings.HasSuffix(body, "--BOUNDARY--\r\n") {
		t.Fatalf("body does not end with the closing boundary: %q", body)
	}
}

func TestEncodeMultipartBytesRejectsStreamParts(t *testing.T) {
	parts := []core.Part{{Name: "f", BodyKind: core.PartBodyKindStream}}
	if _, err := EncodeMultipartBytes("BOUNDARY", parts); err == nil {
		t.Fatal("expected an error for a stream-backed part")
	}
}

func TestNewBoundaryIsUnpredictableAndPrefixed(t *testing.T) {
	a, b := NewBoundary(), NewBoundary()
	if a == b {
		t.Fatal("two boundaries collided")
	}
	if !strings.HasPrefix(a, "nyquest-") {
		t.Fatalf("boundary %q missing expected prefix", a)
	}
}

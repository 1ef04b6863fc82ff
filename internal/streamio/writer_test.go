package streamio

import (
	"io"
	"strings"
	"testing"
)

func drain(t *testing.T, w *Writer) []byte {
	t.Helper()
	var out []byte
	buf := make([]byte, 3)
	for {
		n, done, err := w.Fill(buf)
		if err != nil {
			t.Fatalf("Fill: %v", err)
		}
		out = append(out, buf[:n]...)
		if done {
			break
		}
	}
	return out
}

func TestWriterDrainsBytesAndStreamSegmentsInOrder(t *testing.T) {
	w := NewWriter([]Segment{
		{Bytes: []byte("abc")},
		{Stream: strings.NewReader("defgh")},
		{Bytes: []byte("ij")},
	})
	got := drain(t, w)
	if string(got) != "abcdefghij" {
		t.Fatalf("got %q, want %q", got, "abcdefghij")
	}
	if !w.Done() {
		t.Error("expected Done() to be true after full drain")
	}
}

func TestWriterEmptySegmentListIsImmediatelyDone(t *testing.T) {
	w := NewWriter(nil)
	buf := make([]byte, 4)
	n, done, err := w.Fill(buf)
	if err != nil || n != 0 || !done {
		t.Fatalf("Fill on empty writer = (%d, %v, %v), want (0, true, nil)", n, done, err)
	}
}

func TestWriterSeekRewindsSeekableStream(t *testing.T) {
	w := NewWriter([]Segment{
		{Stream: strings.NewReader("hello"), Seekable: true},
	})
	first := drain(t, w)
	if string(first) != "hello" {
		t.Fatalf("first drain = %q", first)
	}
	if err := w.Seek(); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	second := drain(t, w)
	if string(second) != "hello" {
		t.Fatalf("second drain after seek = %q", second)
	}
}

func TestWriterSeekFailsForUnsizedUnseekableStream(t *testing.T) {
	w := NewWriter([]Segment{
		{Stream: io.MultiReader(strings.NewReader("x")), Seekable: false},
	})
	if err := w.Seek(); err != ErrNotSeekable {
		t.Fatalf("Seek() = %v, want ErrNotSeekable", err)
	}
}

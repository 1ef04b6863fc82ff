package libcurl

import (
	"bytes"
	"io"
	"testing"
	"time"
)

func TestBytesUploadBridgeServesAllDataThenEOF(t *testing.T) {
	b := newBytesUploadBridge([]byte("hello world"))

	var got []byte
	buf := make([]byte, 4)
	for {
		n, pause := b.read(buf)
		if pause {
			t.Fatal("bytes bridge should never pause")
		}
		if n == 0 {
			break
		}
		got = append(got, buf[:n]...)
	}
	if string(got) != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
}

func TestBytesUploadBridgeSeek(t *testing.T) {
	data := []byte("0123456789")
	b := newBytesUploadBridge(data)

	buf := make([]byte, 4)
	n, _ := b.read(buf)
	if n != 4 {
		t.Fatalf("first read n = %d, want 4", n)
	}

	if err := b.seek(data, 2, 0); err != nil {
		t.Fatalf("seek: %v", err)
	}
	var got []byte
	for {
		n, pause := b.read(buf)
		if pause {
			t.Fatal("unexpected pause after seek on a bytes body")
		}
		if n == 0 {
			break
		}
		got = append(got, buf[:n]...)
	}
	if string(got) != "23456789" {
		t.Fatalf("got %q after seeking to offset 2, want %q", got, "23456789")
	}
}

func TestStreamUploadBridgePausesUntilDataArrives(t *testing.T) {
	pr, pw := io.Pipe()
	notified := make(chan struct{}, 1)
	b := newStreamUploadBridge(pr, false, func() {
		select {
		case notified <- struct{}{}:
		default:
		}
	})

	buf := make([]byte, 16)
	n, pause := b.read(buf)
	if n != 0 || !pause {
		t.Fatalf("read before any data = (%d, %v), want (0, true)", n, pause)
	}

	go func() {
		pw.Write([]byte("payload"))
		pw.Close()
	}()

	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatal("feeder never signaled new data")
	}

	var got []byte
	for {
		n, pause := b.read(buf)
		if n > 0 {
			got = append(got, buf[:n]...)
			continue
		}
		if !pause {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !bytes.Equal(got, []byte("payload")) {
		t.Fatalf("got %q, want %q", got, "payload")
	}
}

func TestStreamUploadBridgePropagatesReadError(t *testing.T) {
	b := newStreamUploadBridge(&erroringReader{}, false, nil)
	buf := make([]byte, 8)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.lastErr() != nil {
			break
		}
		b.read(buf)
		time.Sleep(time.Millisecond)
	}
	if b.lastErr() == nil {
		t.Fatal("expected the feeder to record the stream's read error")
	}
}

type erroringReader struct{}

func (erroringReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

package wire

import "testing"

func TestChunkFrameFormatsHexSizeAndCRLF(t *testing.T) {
	got := string(ChunkFrame([]byte("hello")))
	want := "5\r\nhello\r\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestChunkFrameEmptyChunk(t *testing.T) {
	got := string(ChunkFrame(nil))
	if got != "0\r\n\r\n" {
		t.Fatalf("got %q, want %q", got, "0\r\n\r\n")
	}
}

func TestChunkTerminator(t *testing.T) {
	if string(ChunkTerminator()) != "0\r\n\r\n" {
		t.Fatalf("got %q, want %q", ChunkTerminator(), "0\r\n\r\n")
	}
}

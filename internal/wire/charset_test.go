package wire

import "testing"

func TestDecodeTextPlainUTF8(t *testing.T) {
	got := DecodeText([]byte("héllo"), "text/plain; charset=utf-8")
	if got != "héllo" {
		t.Fatalf("got %q, want %q", got, "héllo")
	}
}

func TestDecodeTextNoContentTypeFallsBackToUTF8(t *testing.T) {
	got := DecodeText([]byte("plain text"), "")
	if got != "plain text" {
		t.Fatalf("got %q, want %q", got, "plain text")
	}
}

func TestDecodeTextInvalidUTF8IsLossy(t *testing.T) {
	got := DecodeText([]byte{'a', 0xff, 'b'}, "")
	want := "a�b"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecodeTextUnknownCharsetFallsBack(t *testing.T) {
	got := DecodeText([]byte("hello"), "text/plain; charset=not-a-real-charset")
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestDecodeTextLatin1(t *testing.T) {
	// 0xe9 is 'é' in ISO-8859-1/Latin-1.
	got := DecodeText([]byte{'c', 0xe9}, "text/plain; charset=iso-8859-1")
	if got != "cé" {
		t.Fatalf("got %q, want %q", got, "cé")
	}
}

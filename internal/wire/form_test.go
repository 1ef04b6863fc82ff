package wire

import (
	"testing"

	"github.com/nyquest-go/nyquest/internal/core"
)

func TestEncodeFormComponentSpaceBecomesPlus(t *testing.T) {
	got := EncodeFormComponent("a b")
	if got != "a+b" {
		t.Fatalf("got %q, want %q", got, "a+b")
	}
}

func TestEncodeFormComponentSafeSetPassesThrough(t *testing.T) {
	got := EncodeFormComponent("abcXYZ019-_.~")
	if got != "abcXYZ019-_.~" {
		t.Fatalf("got %q, want it unchanged", got)
	}
}

func TestEncodeFormComponentEscapesUppercaseHex(t *testing.T) {
	got := EncodeFormComponent("a&b=c")
	if got != "a%26b%3Dc" {
		t.Fatalf("got %q, want %q", got, "a%26b%3Dc")
	}
}

func TestEncodeFormJoinsFieldsWithAmpersand(t *testing.T) {
	got := EncodeForm([]core.Header{
		{Name: "q", Value: "hello world"},
		{Name: "lang", Value: "en"},
	})
	want := "q=hello+world&lang=en"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

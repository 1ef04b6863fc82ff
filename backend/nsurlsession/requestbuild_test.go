//go:build darwin

package nsurlsession

import (
	"strings"
	"testing"

	"github.com/nyquest-go/nyquest/internal/core"
)

func TestTargetURLRejectsNonHTTPScheme(t *testing.T) {
	opts := &core.ClientOptions{}
	if _, err := targetURL(opts, core.Request{RelativeURI: "ftp://example.com/x"}); err == nil {
		t.Fatal("expected an error for a non-http(s) scheme")
	}
}

func TestTargetURLJoinsAgainstBase(t *testing.T) {
	opts := &core.ClientOptions{BaseURL: "https://example.com/api/"}
	got, err := targetURL(opts, core.Request{RelativeURI: "widgets/1"})
	if err != nil {
		t.Fatalf("targetURL: %v", err)
	}
	if got != "https://example.com/api/widgets/1" {
		t.Fatalf("got %q", got)
	}
}

func TestPlanBodyBytesPassesThroughContentType(t *testing.T) {
	plan, err := planBody(&core.Body{Kind: core.BodyKindBytes, BytesContent: []byte("x"), BytesContentType: "text/plain"})
	if err != nil {
		t.Fatalf("planBody: %v", err)
	}
	if string(plan.bytes) != "x" || plan.contentType != "text/plain" {
		t.Fatalf("got %#v", plan)
	}
}

func TestPlanBodyMultipartFastPathWhenAllBytes(t *testing.T) {
	plan, err := planBody(&core.Body{Kind: core.BodyKindMultipart, MultipartParts: []core.Part{
		{Name: "a", BodyKind: core.PartBodyKindBytes, BytesContent: []byte("v")},
	}})
	if err != nil {
		t.Fatalf("planBody: %v", err)
	}
	if plan.writer != nil {
		t.Fatalf("expected fast path, got a writer")
	}
}

func TestBuildHeaderBlockJoinsWithNewlines(t *testing.T) {
	opts := &core.ClientOptions{DefaultHeaders: []core.Header{{Name: "Accept", Value: "*/*"}}}
	block := buildHeaderBlock(opts, core.Request{}, nil)
	if block != "Accept: */*\n" {
		t.Fatalf("got %q", block)
	}
}

func TestBuildHeaderBlockAdditionalOverridesDefault(t *testing.T) {
	opts := &core.ClientOptions{DefaultHeaders: []core.Header{{Name: "X-Foo", Value: "default"}}}
	req := core.Request{AdditionalHeaders: []core.Header{{Name: "X-Foo", Value: "override"}}}
	block := buildHeaderBlock(opts, req, nil)
	if !strings.Contains(block, "override") || strings.Contains(block, "default") {
		t.Fatalf("got %q", block)
	}
}

func TestParseHeaderBlockRoundTrip(t *testing.T) {
	got := parseHeaderBlock("Content-Type: text/plain\nX-Foo: bar\n")
	if len(got) != 2 || got[0].Name != "Content-Type" || got[1].Value != "bar" {
		t.Fatalf("got %#v", got)
	}
}

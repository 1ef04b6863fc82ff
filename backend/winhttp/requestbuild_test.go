//go:build windows

package winhttp

import (
	"strings"
	"testing"

	"github.com/nyquest-go/nyquest/internal/core"
)

func TestTargetURLJoinsAgainstBase(t *testing.T) {
	opts := &core.ClientOptions{BaseURL: "https://example.com/api/"}
	u, err := targetURL(opts, core.Request{RelativeURI: "widgets/1"})
	if err != nil {
		t.Fatalf("targetURL: %v", err)
	}
	if u.Host != "example.com" || u.Path != "/api/widgets/1" {
		t.Fatalf("got host=%q path=%q", u.Host, u.Path)
	}
}

func TestTargetURLRejectsNonHTTPScheme(t *testing.T) {
	opts := &core.ClientOptions{}
	_, err := targetURL(opts, core.Request{RelativeURI: "ftp://example.com/x"})
	if err == nil {
		t.Fatal("expected an error for a non-http(s) scheme")
	}
}

func TestPortOfDefaultsByScheme(t *testing.T) {
	opts := &core.ClientOptions{}
	httpsURL, _ := targetURL(opts, core.Request{RelativeURI: "https://example.com/x"})
	if got := portOf(httpsURL); got != 443 {
		t.Errorf("https default port = %d, want 443", got)
	}
	httpURL, _ := targetURL(opts, core.Request{RelativeURI: "http://example.com/x"})
	if got := portOf(httpURL); got != 80 {
		t.Errorf("http default port = %d, want 80", got)
	}
	explicitURL, _ := targetURL(opts, core.Request{RelativeURI: "http://example.com:8080/x"})
	if got := portOf(explicitURL); got != 8080 {
		t.Errorf("explicit port = %d, want 8080", got)
	}
}

func TestPathAndQueryIncludesQueryString(t *testing.T) {
	opts := &core.ClientOptions{}
	u, _ := targetURL(opts, core.Request{RelativeURI: "http://example.com/a/b?x=1&y=2"})
	if got := pathAndQuery(u); got != "/a/b?x=1&y=2" {
		t.Fatalf("got %q", got)
	}
}

func TestPathAndQueryDefaultsToRootPath(t *testing.T) {
	opts := &core.ClientOptions{}
	u, _ := targetURL(opts, core.Request{RelativeURI: "http://example.com"})
	if got := pathAndQuery(u); got != "/" {
		t.Fatalf("got %q, want \"/\"", got)
	}
}

func TestPlanBodyBytes(t *testing.T) {
	body := &core.Body{Kind: core.BodyKindBytes, BytesContent: []byte("hello"), BytesContentType: "text/plain"}
	plan, err := planBody(body)
	if err != nil {
		t.Fatalf("planBody: %v", err)
	}
	if string(plan.bytes) != "hello" || plan.contentType != "text/plain" || plan.length != 5 || plan.chunked {
		t.Fatalf("got %#v", plan)
	}
}

func TestPlanBodyFormEncodesAndSetsContentType(t *testing.T) {
	body := &core.Body{Kind: core.BodyKindForm, FormFields: []core.Header{{Name: "a", Value: "b c"}}}
	plan, err := planBody(body)
	if err != nil {
		t.Fatalf("planBody: %v", err)
	}
	if string(plan.bytes) != "a=b+c" || plan.contentType != "application/x-www-form-urlencoded" {
		t.Fatalf("got %#v", plan)
	}
}

func TestPlanBodyMultipartAllBytesTakesFastPath(t *testing.T) {
	body := &core.Body{Kind: core.BodyKindMultipart, MultipartParts: []core.Part{
		{Name: "field", BodyKind: core.PartBodyKindBytes, BytesContent: []byte("v")},
	}}
	plan, err := planBody(body)
	if err != nil {
		t.Fatalf("planBody: %v", err)
	}
	if plan.writer != nil || plan.chunked {
		t.Fatalf("expected the fully-buffered fast path, got %#v", plan)
	}
	if !strings.Contains(plan.contentType, "multipart/form-data; boundary=") {
		t.Fatalf("content type = %q", plan.contentType)
	}
}

func TestPlanBodyMultipartWithStreamPartUsesWriter(t *testing.T) {
	body := &core.Body{Kind: core.BodyKindMultipart, MultipartParts: []core.Part{
		{Name: "file", Filename: "a.txt", BodyKind: core.PartBodyKindStream, Stream: strings.NewReader("data")},
	}}
	plan, err := planBody(body)
	if err != nil {
		t.Fatalf("planBody: %v", err)
	}
	if plan.writer == nil || !plan.chunked {
		t.Fatalf("expected a streamed, chunked plan, got %#v", plan)
	}
}

func TestPlanBodyUnsizedStreamIsChunked(t *testing.T) {
	body := &core.Body{Kind: core.BodyKindStream, Stream: strings.NewReader("x"), StreamLength: -1, StreamContentType: "application/octet-stream"}
	plan, err := planBody(body)
	if err != nil {
		t.Fatalf("planBody: %v", err)
	}
	if !plan.chunked || plan.contentType != "application/octet-stream" {
		t.Fatalf("got %#v", plan)
	}
}

func TestBuildHeaderBlockOverridesAndDedupes(t *testing.T) {
	opts := &core.ClientOptions{DefaultHeaders: []core.Header{{Name: "X-Foo", Value: "default"}}}
	req := core.Request{AdditionalHeaders: []core.Header{{Name: "X-Foo", Value: "override"}}}
	plan := &bodyPlan{contentType: "text/plain", length: 3}
	block := buildHeaderBlock(opts, req, plan)
	if !strings.Contains(block, "X-Foo: override\r\n") {
		t.Fatalf("expected override to win, got %q", block)
	}
	if strings.Contains(block, "default") {
		t.Fatalf("default header should have been shadowed: %q", block)
	}
	if !strings.Contains(block, "Content-Type: text/plain\r\n") || !strings.Contains(block, "Content-Length: 3\r\n") {
		t.Fatalf("missing body headers: %q", block)
	}
}

func TestBuildHeaderBlockChunkedOmitsContentLength(t *testing.T) {
	plan := &bodyPlan{contentType: "application/octet-stream", chunked: true, length: -1}
	block := buildHeaderBlock(&core.ClientOptions{}, core.Request{}, plan)
	if strings.Contains(block, "Content-Length") {
		t.Fatalf("chunked body must not set Content-Length: %q", block)
	}
	if !strings.Contains(block, "Transfer-Encoding: chunked\r\n") {
		t.Fatalf("missing Transfer-Encoding: %q", block)
	}
}

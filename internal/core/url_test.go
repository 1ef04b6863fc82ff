package core

import "testing"

func TestJoinURLAbsoluteRelativeWins(t *testing.T) {
	got := JoinURL("http://example.com/api", "https://other.example/x")
	if got != "https://other.example/x" {
		t.Fatalf("got %q", got)
	}
}

func TestJoinURLEmptyBasePassesThrough(t *testing.T) {
	got := JoinURL("", "/status/200")
	if got != "/status/200" {
		t.Fatalf("got %q", got)
	}
}

func TestJoinURLDoubleSlashInheritsScheme(t *testing.T) {
	got := JoinURL("https://example.com/api", "//cdn.example.com/asset.js")
	if got != "https://cdn.example.com/asset.js" {
		t.Fatalf("got %q", got)
	}
}

func TestJoinURLAbsolutePathReplacesPath(t *testing.T) {
	got := JoinURL("https://example.com/api/v1/users", "/healthz")
	if got != "https://example.com/healthz" {
		t.Fatalf("got %q", got)
	}
}

func TestJoinURLRelativeAppendsAfterStrippingLastSegment(t *testing.T) {
	got := JoinURL("http://example.com/api/v1", "users")
	if got != "http://example.com/api/users" {
		t.Fatalf("got %q", got)
	}
}

func TestJoinURLRelativeWithTrailingSlashBase(t *testing.T) {
	got := JoinURL("http://example.com/api/", "users")
	if got != "http://example.com/api/users" {
		t.Fatalf("got %q", got)
	}
}

func TestJoinURLStripsBaseQueryBeforeAbsolutePathReplace(t *testing.T) {
	got := JoinURL("http://a.com?q=1", "/c")
	if got != "http://a.com/c" {
		t.Fatalf("got %q", got)
	}
}

func TestJoinURLStripsBaseQueryBeforeSegmentStrip(t *testing.T) {
	got := JoinURL("http://a.com?q=1", "c")
	if got != "http://a.com/c" {
		t.Fatalf("got %q", got)
	}
}

package utils

import "testing"

func TestExtractURLs(t *testing.T) {
	urls := ExtractURLs("see https://example.com/a and http://other.net")
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(urls))
	}
	if urls[0] != "https://example.com/a" {
		t.Fatalf("unexpected url %q", urls[0])
	}
}

func TestContainsInvite(t *testing.T) {
	if !ContainsInvite("join discord.gg/abc123") {
		t.Fatalf("expected invite match")
	}
	if !ContainsInvite("https://DISCORD.com/invite/xyz") {
		t.Fatalf("expected case-insensitive invite match")
	}
	if ContainsInvite("https://example.com") {
		t.Fatalf("unexpected invite match")
	}
}

func TestNormalizeURL(t *testing.T) {
	normalized, host, err := NormalizeURL("https://EXAMPLE.com/Path?x=1#frag")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if host != "example.com" {
		t.Fatalf("expected example.com, got %q", host)
	}
	if normalized != "https://example.com/Path?x=1" {
		t.Fatalf("unexpected normalized url %q", normalized)
	}

	_, host, err = NormalizeURL("https://exämple.com")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if host != "xn--exmple-cua.com" {
		t.Fatalf("expected punycode host, got %q", host)
	}
}

package relay

import "testing"

func TestPageTitlePrefersTitleTag(t *testing.T) {
	body := []byte(`<html><head><title> 502 Bad Gateway </title></head><body><h1>nginx</h1></body></html>`)
	if got := pageTitle(body, "text/html; charset=utf-8"); got != "502 Bad Gateway" {
		t.Fatalf("pageTitle = %q", got)
	}
}

func TestPageTitleFallsBackToHeading(t *testing.T) {
	body := []byte(`<html><body><h1>Service Unavailable</h1><p>try later</p></body></html>`)
	if got := pageTitle(body, "text/html"); got != "Service Unavailable" {
		t.Fatalf("pageTitle = %q", got)
	}
}

func TestPageTitleIgnoresNonHTML(t *testing.T) {
	if got := pageTitle([]byte(`{"title":"not html"}`), "application/json"); got != "" {
		t.Fatalf("non-HTML body should yield nothing, got %q", got)
	}
	if got := pageTitle([]byte("<html><title>x</title></html>"), ""); got != "" {
		t.Fatalf("missing content type should yield nothing, got %q", got)
	}
}

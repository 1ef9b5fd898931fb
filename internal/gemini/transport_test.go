package gemini

import (
	"net/http"
	"net/url"
	"testing"
	"time"
)

func TestNewHTTPClient_HTTPProxy(t *testing.T) {
	hc, err := newHTTPClient(3*time.Second, "http://127.0.0.1:7890")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hc.Timeout != 3*time.Second {
		t.Fatalf("unexpected timeout: %v", hc.Timeout)
	}
	tr, ok := hc.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", hc.Transport)
	}
	pu, err := tr.Proxy(&http.Request{URL: &url.URL{Scheme: "https", Host: "generativelanguage.googleapis.com"}})
	if err != nil {
		t.Fatalf("unexpected proxy error: %v", err)
	}
	if pu == nil || pu.Scheme != "http" || pu.Host != "127.0.0.1:7890" {
		t.Fatalf("unexpected proxy url: %#v", pu)
	}
}

func TestNewHTTPClient_SOCKS5(t *testing.T) {
	hc, err := newHTTPClient(time.Second, "socks5://127.0.0.1:1080")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr, ok := hc.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", hc.Transport)
	}
	if tr.DialContext == nil {
		t.Fatalf("expected DialContext to be set for socks5")
	}
	if tr.Proxy != nil {
		t.Fatalf("expected Proxy func to be nil for socks5 (use dialer instead)")
	}
}

func TestNewHTTPClient_NoProxyKeepsEnvironment(t *testing.T) {
	hc, err := newHTTPClient(0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr := hc.Transport.(*http.Transport)
	if tr.Proxy == nil {
		t.Fatalf("expected environment proxy func")
	}
}

func TestNewHTTPClient_InvalidProxy(t *testing.T) {
	if _, err := newHTTPClient(time.Second, "socks4://127.0.0.1:7890"); err == nil {
		t.Fatalf("expected error")
	}
}

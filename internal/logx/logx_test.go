package logx

import (
	"strings"
	"testing"
	"time"
)

func TestFormatRequestLine(t *testing.T) {
	ts := time.Date(2026, 1, 26, 17, 44, 22, 0, time.UTC)
	out := FormatRequestLine(ts, 500, 12*time.Millisecond, " 127.0.0.1 ", "POST", "/ask-ai", map[string]any{
		"request_id":          "rid-1",
		"outcome":             "upstream_error",
		"upstream_latency_ms": int64(11),
		"empty":               "  ",
		"nil":                 nil,
	}, false)

	want := `[ECHOPAL] 2026/01/26 - 17:44:22 | 500 | 12ms | 127.0.0.1 | POST "/ask-ai" | outcome=upstream_error request_id=rid-1 upstream_latency_ms=11`
	if out != want {
		t.Fatalf("got  %q\nwant %q", out, want)
	}
}

func TestFormatRequestLine_NoFields(t *testing.T) {
	out := FormatRequestLine(time.Now(), 204, time.Millisecond, "::1", "OPTIONS", "/ask-ai", nil, false)
	if strings.Contains(out, " | |") || strings.HasSuffix(out, "| ") {
		t.Fatalf("unexpected trailing separator: %q", out)
	}
}

func TestColorizeStatusWith(t *testing.T) {
	if got := ColorizeStatusWith(200, false); got != "200" {
		t.Fatalf("plain status=%q", got)
	}
	cases := map[int]string{
		200: "\x1b[32m",
		301: "\x1b[36m",
		400: "\x1b[33m",
		500: "\x1b[31m",
	}
	for status, prefix := range cases {
		got := ColorizeStatusWith(status, true)
		if !strings.HasPrefix(got, prefix) || !strings.HasSuffix(got, "\x1b[0m") {
			t.Fatalf("status %d colorized as %q", status, got)
		}
	}
}

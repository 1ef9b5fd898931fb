package gemini

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	xproxy "golang.org/x/net/proxy"
)

func newHTTPClient(timeout time.Duration, proxyURL string) (*http.Client, error) {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if err := applyProxy(tr, proxyURL); err != nil {
		return nil, err
	}
	return &http.Client{Timeout: timeout, Transport: tr}, nil
}

// applyProxy routes tr through raw. http(s) proxies use tr.Proxy; socks5
// replaces the dialer and clears tr.Proxy.
func applyProxy(tr *http.Transport, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid upstream proxy %q: %w", raw, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		tr.Proxy = http.ProxyURL(u)
		return nil
	case "socks5", "socks5h":
		d, err := xproxy.FromURL(u, xproxy.Direct)
		if err != nil {
			return fmt.Errorf("invalid upstream proxy %q: %w", raw, err)
		}
		tr.Proxy = nil
		if cd, ok := d.(xproxy.ContextDialer); ok {
			tr.DialContext = cd.DialContext
			return nil
		}
		tr.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return d.Dial(network, addr)
		}
		return nil
	default:
		return fmt.Errorf("unsupported upstream proxy scheme %q (supported: http, https, socks5)", u.Scheme)
	}
}

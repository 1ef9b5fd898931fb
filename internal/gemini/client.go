package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxErrorBody bounds how much of a failed upstream body ends up in StatusError.
const maxErrorBody = 512

type Options struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
	Proxy   string
}

type Client struct {
	HTTP     *http.Client
	Timeout  time.Duration
	endpoint string
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini: api key is empty")
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("gemini: base url is empty")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("gemini: invalid base url: %w", err)
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		return nil, errors.New("gemini: model is empty")
	}
	hc, err := newHTTPClient(opts.Timeout, opts.Proxy)
	if err != nil {
		return nil, err
	}
	return &Client{
		HTTP:     hc,
		Timeout:  opts.Timeout,
		endpoint: base + "/v1beta/models/" + url.PathEscape(model) + ":generateContent?key=" + url.QueryEscape(strings.TrimSpace(opts.APIKey)),
	}, nil
}

// Endpoint returns the full generateContent URL, API key included.
func (c *Client) Endpoint() string { return c.endpoint }

func (c *Client) GenerateContent(ctx context.Context, in *GenerateContentRequest) (*GenerateContentResponse, error) {
	if in == nil {
		return nil, errors.New("gemini: nil request")
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("gemini: encode request: %w", err)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, redactError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, redactError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(strings.TrimSpace(string(raw)), maxErrorBody)}
	}

	var out GenerateContentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	return &out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}

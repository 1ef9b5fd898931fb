package gemini

import (
	"errors"
	"net/url"
	"strings"
)

const redacted = "[REDACTED]"

// RedactURL masks credential-like query parameters. Gemini takes its API key
// as `key=...`, which net/http repeats verbatim in transport errors.
func RedactURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if len(q) == 0 {
		return rawURL
	}
	changed := false
	for k := range q {
		if isSecretParam(k) {
			q.Set(k, redacted)
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	u.RawQuery = q.Encode()
	// keep the marker readable instead of %5BREDACTED%5D
	return strings.ReplaceAll(u.String(), url.QueryEscape(redacted), redacted)
}

func isSecretParam(k string) bool {
	lk := strings.ToLower(strings.TrimSpace(k))
	if lk == "" {
		return false
	}
	if lk == "key" || lk == "api_key" || lk == "apikey" {
		return true
	}
	return strings.Contains(lk, "token") || strings.Contains(lk, "secret")
}

// redactError rewrites the URL carried by a *url.Error.
func redactError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return &url.Error{Op: ue.Op, URL: RedactURL(ue.URL), Err: ue.Err}
	}
	return err
}

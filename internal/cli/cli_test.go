package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/r9s-ai/echopal-relay/internal/relay"
)

func TestRunAsk_Response(t *testing.T) {
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ask-ai" {
			http.NotFound(w, r)
			return
		}
		var req relay.AskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt != "hello pip" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Prompt is required"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Squawk! Hi there!"}`))
	}))
	t.Cleanup(relaySrv.Close)

	var out bytes.Buffer
	err := runAsk(context.Background(), &out, askOptions{url: relaySrv.URL + "/", timeout: 5 * time.Second}, "hello pip")
	require.NoError(t, err)
	require.Contains(t, out.String(), "Pip:")
	require.Contains(t, out.String(), "Squawk! Hi there!")
}

func TestRunAsk_ErrorReply(t *testing.T) {
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to get response from AI."}`))
	}))
	t.Cleanup(relaySrv.Close)

	var out bytes.Buffer
	err := runAsk(context.Background(), &out, askOptions{url: relaySrv.URL, timeout: 5 * time.Second}, "hi")
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
	require.Contains(t, out.String(), "Failed to get response from AI.")
}

func TestRunAsk_NotJSON(t *testing.T) {
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	t.Cleanup(relaySrv.Close)

	err := runAsk(context.Background(), &bytes.Buffer{}, askOptions{url: relaySrv.URL, timeout: time.Second}, "hi")
	require.Error(t, err)
}

func TestCheckCmd(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ECHOPAL_UPSTREAM_PROXY", "")
	path := filepath.Join(t.TempDir(), "echopal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
upstream:
  api_key: "secret-key"
`), 0o600))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"check", "-c", path})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "configuration ok")
	require.Contains(t, out.String(), "key=[REDACTED]")
	require.NotContains(t, out.String(), "secret-key")
}

func TestCheckCmd_MissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"check"})
	require.Error(t, root.Execute())
}

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "echopal-relay")
}

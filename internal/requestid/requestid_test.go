package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Middleware())
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(HeaderKey)) })

	t.Run("generates uuid", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))
		got := w.Header().Get(HeaderKey)
		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("expected uuid, got %q", got)
		}
		if w.Body.String() != got {
			t.Fatalf("context id %q != header id %q", w.Body.String(), got)
		}
	})

	t.Run("honors client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set(HeaderKey, "rid-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if got := w.Header().Get(HeaderKey); got != "rid-123" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set(HeaderKey, strings.Repeat("a", maxLen+1))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if got := w.Header().Get(HeaderKey); len(got) > maxLen {
			t.Fatalf("oversized id echoed: %d bytes", len(got))
		}
	})
}

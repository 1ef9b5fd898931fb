package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/echopal-relay/internal/logx"
	"github.com/r9s-ai/echopal-relay/internal/relay"
	"github.com/r9s-ai/echopal-relay/internal/requestid"
)

func requestLogger(l *log.Logger, color bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]any{}
		if v := c.GetString(requestid.HeaderKey); v != "" {
			fields["request_id"] = v
		}
		if v, ok := c.Get(relay.CtxOutcome); ok {
			fields["outcome"] = v
		}
		if v, ok := c.Get(relay.CtxUpstreamLatencyMs); ok {
			fields["upstream_latency_ms"] = v
		}

		l.Println(logx.FormatRequestLine(time.Now(), c.Writer.Status(), time.Since(start), c.ClientIP(), c.Request.Method, c.Request.URL.Path, fields, color))
	}
}

// recovery keeps panics inside the relay's error shape.
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("panic recovered: request_id=%s err=%v", c.GetString(requestid.HeaderKey), recovered)
		c.Set(relay.CtxOutcome, "panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, relay.ErrorResponse{Error: relay.MsgUpstreamFailed})
	})
}

const corsAllowMethods = "GET,HEAD,PUT,PATCH,POST,DELETE"

// corsMiddleware allows every origin. Preflight requests are answered here
// with 204 and the requested headers reflected back.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Expose-Headers", requestid.HeaderKey)
		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		if reqHeaders := c.GetHeader("Access-Control-Request-Headers"); reqHeaders != "" {
			h.Set("Access-Control-Allow-Headers", reqHeaders)
			h.Add("Vary", "Access-Control-Request-Headers")
		}
		h.Set("Content-Length", "0")
		c.AbortWithStatus(http.StatusNoContent)
	}
}

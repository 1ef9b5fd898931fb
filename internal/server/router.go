package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/echopal-relay/internal/relay"
	"github.com/r9s-ai/echopal-relay/internal/requestid"
)

// NewRouter wires the relay behind request-id, access log, recovery and CORS middleware.
// A nil accessLogger disables the access log.
func NewRouter(svc *relay.Service, accessLogger *log.Logger, accessColor bool) *gin.Engine {
	r := gin.New()
	r.Use(requestid.Middleware())
	if accessLogger != nil {
		r.Use(requestLogger(accessLogger, accessColor))
	}
	r.Use(recovery())
	r.Use(corsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/ask-ai", svc.Handle)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, relay.ErrorResponse{Error: "Not Found"})
	})
	return r
}

package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/echopal-relay/internal/requestid"
)

const (
	MsgPromptRequired = "Prompt is required"
	MsgUpstreamFailed = "Failed to get response from AI."
	MsgBodyTooLarge   = "Request body too large"
)

// Context keys read by the access logger.
const (
	CtxUpstreamLatencyMs = "echopal.upstream_latency_ms"
	CtxOutcome           = "echopal.outcome"
)

type AskRequest struct {
	Prompt string `json:"prompt"`
}

type AskResponse struct {
	Response string `json:"response"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

var errBodyTooLarge = errors.New("request body too large")

// Handle serves POST /ask-ai.
func (s *Service) Handle(c *gin.Context) {
	prompt, err := s.readPrompt(c)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			writeError(c, http.StatusRequestEntityTooLarge, MsgBodyTooLarge, "too_large")
			return
		}
		writeError(c, http.StatusBadRequest, MsgPromptRequired, "invalid_request")
		return
	}

	start := time.Now()
	text, err := s.Ask(c.Request.Context(), prompt)
	c.Set(CtxUpstreamLatencyMs, time.Since(start).Milliseconds())
	switch {
	case err == nil:
		c.Set(CtxOutcome, "ok")
		c.JSON(http.StatusOK, AskResponse{Response: text})
	case errors.Is(err, ErrPromptRequired):
		writeError(c, http.StatusBadRequest, MsgPromptRequired, "invalid_request")
	default:
		log.Printf("Error calling Gemini AI: request_id=%s err=%v", c.GetString(requestid.HeaderKey), err)
		writeError(c, http.StatusInternalServerError, MsgUpstreamFailed, "upstream_error")
	}
}

// readPrompt returns "" for bodies that decode but carry no prompt; Ask turns
// that into ErrPromptRequired.
func (s *Service) readPrompt(c *gin.Context) (string, error) {
	if c.Request == nil || c.Request.Body == nil {
		return "", nil
	}
	b, err := readAllLimit(c.Request.Body, s.maxBodyBytes)
	if err != nil {
		return "", err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return "", nil
	}
	var req AskRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return "", err
	}
	return req.Prompt, nil
}

func writeError(c *gin.Context, status int, msg, outcome string) {
	c.Set(CtxOutcome, outcome)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

func readAllLimit(rc io.ReadCloser, limit int64) ([]byte, error) {
	defer func() { _ = rc.Close() }()
	if limit <= 0 {
		return io.ReadAll(rc)
	}
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, rc, limit+1); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if int64(buf.Len()) > limit {
		return nil, errBodyTooLarge
	}
	return buf.Bytes(), nil
}

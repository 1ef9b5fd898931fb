package gemini

import (
	"errors"
	"fmt"
)

// GenerateContentRequest is the generateContent request body.
type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

// GenerateContentResponse is the subset of the generateContent reply the relay reads.
type GenerateContentResponse struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *UsageMetadata  `json:"usageMetadata,omitempty"`
	ModelVersion   string          `json:"modelVersion,omitempty"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

var (
	ErrNoCandidates = errors.New("gemini: response has no candidates")
	ErrNoParts      = errors.New("gemini: first candidate has no content parts")
	ErrEmptyText    = errors.New("gemini: first content part has no text")
)

// FirstText returns candidates[0].content.parts[0].text.
func (r *GenerateContentResponse) FirstText() (string, error) {
	if r == nil || len(r.Candidates) == 0 {
		if r != nil && r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w (blockReason=%s)", ErrNoCandidates, r.PromptFeedback.BlockReason)
		}
		return "", ErrNoCandidates
	}
	c := r.Candidates[0]
	if len(c.Content.Parts) == 0 {
		if c.FinishReason != "" {
			return "", fmt.Errorf("%w (finishReason=%s)", ErrNoParts, c.FinishReason)
		}
		return "", ErrNoParts
	}
	text := c.Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// StatusError reports a non-2xx upstream reply.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("gemini: upstream responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("gemini: upstream responded with status %d: %s", e.StatusCode, e.Body)
}

package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/r9s-ai/echopal-relay/internal/gemini"
)

// Persona is prepended to every prompt as the first content part.
const Persona = "You are EchoPal, a friendly, cheerful, and patient robot parrot named Pip. You are talking to a child. Keep your answers short, encouraging, and easy to understand. Never say you are an AI model. Start your very first response with a cheerful greeting."

var ErrPromptRequired = errors.New("prompt is required")

// Generator is the upstream generateContent call. *gemini.Client satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, req *gemini.GenerateContentRequest) (*gemini.GenerateContentResponse, error)
}

type Service struct {
	gen          Generator
	persona      string
	maxBodyBytes int64
}

type Option func(*Service)

// WithMaxBodyBytes caps the inbound request body read by Handle. Zero disables the cap.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Service) { s.maxBodyBytes = n }
}

func NewService(gen Generator, opts ...Option) *Service {
	s := &Service{gen: gen, persona: Persona}
	for _, o := range opts {
		o(s)
	}
	return s
}

// BuildRequest returns one content entry holding the persona and the prompt, in that order.
func BuildRequest(persona, prompt string) *gemini.GenerateContentRequest {
	return &gemini.GenerateContentRequest{
		Contents: []gemini.Content{{
			Parts: []gemini.Part{
				{Text: persona},
				{Text: prompt},
			},
		}},
	}
}

// Ask sends prompt upstream and returns the first candidate text.
// An empty prompt returns ErrPromptRequired without calling upstream.
func (s *Service) Ask(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrPromptRequired
	}
	if s.gen == nil {
		return "", errors.New("relay: no generator configured")
	}
	resp, err := s.gen.GenerateContent(ctx, BuildRequest(s.persona, prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text, err := resp.FirstText()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	return text, nil
}

// Package llm defines the text-generation backend contract shared by all
// roles, along with the two concrete variants: a remote Groq client speaking
// the OpenAI-compatible chat completions API, and a local Ollama client.
//
// Backends are deliberately dumb: they send one request, return one string,
// and perform no retries. Retry/backoff policy belongs to callers or to
// infrastructure in front of the backend.
package llm

import (
	"context"
	"errors"
)

// Chat message roles understood by both backend variants.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ErrEmptyCompletion signals that the backend answered successfully at the
// transport level but produced no usable text (no choices, or empty content).
var ErrEmptyCompletion = errors.New("backend returned an empty completion")

// Message is a single entry in the chat context sent to a backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerationConfig holds the normalized generation parameters. Each backend
// maps these onto its own wire format; unrecognized combinations are simply
// ignored by the variant that does not support them.
type GenerationConfig struct {
	Temperature float64
	TopP        float64
	Stop        []string
	Stream      bool
	MaxTokens   int
}

// DefaultGenerationConfig returns the stock parameters used when the caller
// does not override them.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature: 0.7,
		TopP:        1.0,
		MaxTokens:   2048,
	}
}

// TextGenerator is the single capability a role needs from its backend.
// The concrete variant is chosen once at role construction and never
// branched on afterwards.
type TextGenerator interface {
	Generate(ctx context.Context, messages []Message, cfg GenerationConfig) (string, error)
}

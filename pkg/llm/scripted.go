package llm

import (
	"context"
	"fmt"
)

// ScriptedCall records one Generate invocation seen by a ScriptedGenerator.
type ScriptedCall struct {
	Messages []Message
	Config   GenerationConfig
}

// ScriptedGenerator is a TextGenerator for tests. It records every call and
// answers either through GenerateFunc, from the Responses queue, or with a
// numbered placeholder.
type ScriptedGenerator struct {
	// Calls records all invocations in order.
	Calls []ScriptedCall

	// GenerateFunc, when set, computes the reply for each call.
	GenerateFunc func(messages []Message, cfg GenerationConfig) (string, error)

	// Responses, when GenerateFunc is nil, is consumed one entry per call.
	// Once exhausted, placeholder replies are produced instead.
	Responses []string
}

// Generate implements TextGenerator.
func (s *ScriptedGenerator) Generate(_ context.Context, messages []Message, cfg GenerationConfig) (string, error) {
	s.Calls = append(s.Calls, ScriptedCall{Messages: messages, Config: cfg})

	if s.GenerateFunc != nil {
		return s.GenerateFunc(messages, cfg)
	}
	if n := len(s.Calls) - 1; n < len(s.Responses) {
		return s.Responses[n], nil
	}
	return fmt.Sprintf("scripted response %d", len(s.Calls)), nil
}

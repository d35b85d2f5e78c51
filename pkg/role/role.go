// Package role implements the four narrative roles (narrator, worldsim,
// character, editor). Each role wraps one text-generation backend, holds its
// default system prompt and an append-only memory of everything it has
// produced during the run.
package role

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/0xbeedee/weaver/pkg/llm"
)

// Role names, which double as system prompt filenames (<name>.txt).
const (
	NameNarrator  = "narrator"
	NameWorldSim  = "worldsim"
	NameCharacter = "character"
	NameEditor    = "editor"
)

// memoryEntryPrefix marks memory entries; it is part of the persisted memory
// format consumed by the editor at compile time.
const memoryEntryPrefix = "Generated Output: "

// Reasoning spans emitted by thinking models are never part of the story.
var thinkingRE = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Role is the shared generation and memory contract. Concrete roles embed it
// and add their prompt-framing operations.
type Role struct {
	name         string
	systemPrompt string
	memory       []string
	backend      llm.TextGenerator
	config       llm.GenerationConfig
	logger       *logrus.Logger
}

// New constructs a role. The system prompt is read once from
// <promptDir>/<name>.txt and never reloaded. A nil logger disables logging.
func New(name, promptDir string, backend llm.TextGenerator, cfg llm.GenerationConfig, logger *logrus.Logger) (*Role, error) {
	if backend == nil {
		return nil, fmt.Errorf("role %s: backend is required", name)
	}

	promptPath := filepath.Join(promptDir, name+".txt")
	data, err := os.ReadFile(promptPath)
	if err != nil {
		return nil, fmt.Errorf("role %s: load system prompt: %w", name, err)
	}

	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	r := &Role{
		name:         name,
		systemPrompt: strings.TrimSpace(string(data)),
		backend:      backend,
		config:       cfg,
		logger:       logger,
	}
	r.logger.WithFields(logrus.Fields{
		"role":   name,
		"prompt": promptPath,
	}).Info("role initialized")
	return r, nil
}

// GenerateOptions tunes a single Generate call.
type GenerateOptions struct {
	// SystemPrompt replaces the role's default system prompt for this call
	// only. Role state is not mutated.
	SystemPrompt string

	// SkipMemory suppresses the default append of the generated output to
	// the role's memory log.
	SkipMemory bool
}

// Generate sends a two-message context (system + user) to the backend and
// returns the generated text with any <think>...</think> spans stripped.
// Unless opts.SkipMemory is set, the output is appended to the role's memory;
// this is the only mutation path for memory. Backend failures and empty
// completions propagate to the caller unretried.
func (r *Role) Generate(ctx context.Context, userPrompt string, opts GenerateOptions) (string, error) {
	if strings.TrimSpace(userPrompt) == "" {
		return "", fmt.Errorf("role %s: user prompt is required", r.name)
	}

	system := r.systemPrompt
	if opts.SystemPrompt != "" {
		system = opts.SystemPrompt
	}
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: userPrompt},
	}

	r.logger.WithFields(logrus.Fields{
		"role":   r.name,
		"prompt": preview(userPrompt),
	}).Info("generating")

	raw, err := r.backend.Generate(ctx, messages, r.config)
	if err != nil {
		return "", fmt.Errorf("role %s: generate: %w", r.name, err)
	}

	text := strings.TrimSpace(thinkingRE.ReplaceAllString(raw, ""))
	if text == "" {
		return "", fmt.Errorf("role %s: generate: %w", r.name, llm.ErrEmptyCompletion)
	}

	r.logger.WithFields(logrus.Fields{
		"role":   r.name,
		"output": preview(text),
	}).Info("generated")

	if !opts.SkipMemory {
		r.memory = append(r.memory, memoryEntryPrefix+text)
		r.logger.WithFields(logrus.Fields{
			"role":        r.name,
			"memory_size": len(r.memory),
		}).Debug("saved to memory")
	}

	return text, nil
}

// Name returns the role's identity.
func (r *Role) Name() string {
	return r.name
}

// Memory returns a snapshot of the memory log. Mutating the returned slice
// does not affect the role.
func (r *Role) Memory() []string {
	out := make([]string, len(r.memory))
	copy(out, r.memory)
	return out
}

// ClearMemory resets the memory log. The system prompt is not part of memory
// and survives untouched.
func (r *Role) ClearMemory() {
	r.memory = nil
	r.logger.WithField("role", r.name).Info("memory cleared")
}

// preview truncates long texts for log lines.
func preview(s string) string {
	const max = 120
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

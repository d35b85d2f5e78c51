package role

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xbeedee/weaver/pkg/llm"
)

// writePrompts creates a prompt directory holding system prompts for all four
// roles and returns its path.
func writePrompts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prompts := map[string]string{
		NameNarrator:  "You are the narrator.",
		NameWorldSim:  "You simulate the world.",
		NameCharacter: "You are the character.",
		NameEditor:    "You are the editor.",
	}
	for name, text := range prompts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".txt"), []byte(text), 0644))
	}
	return dir
}

func TestNew_MissingSystemPrompt(t *testing.T) {
	_, err := New(NameNarrator, t.TempDir(), &llm.ScriptedGenerator{}, llm.DefaultGenerationConfig(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load system prompt")
}

func TestGenerate_UsesSystemPrompt(t *testing.T) {
	gen := &llm.ScriptedGenerator{Responses: []string{"output"}}
	r, err := New(NameNarrator, writePrompts(t), gen, llm.DefaultGenerationConfig(), nil)
	require.NoError(t, err)

	_, err = r.Generate(context.Background(), "tell a story", GenerateOptions{})
	require.NoError(t, err)

	require.Len(t, gen.Calls, 1)
	require.Len(t, gen.Calls[0].Messages, 2)
	assert.Equal(t, llm.RoleSystem, gen.Calls[0].Messages[0].Role)
	assert.Equal(t, "You are the narrator.", gen.Calls[0].Messages[0].Content)
	assert.Equal(t, llm.RoleUser, gen.Calls[0].Messages[1].Role)
	assert.Equal(t, "tell a story", gen.Calls[0].Messages[1].Content)
}

func TestGenerate_SystemPromptOverrideIsCallLocal(t *testing.T) {
	gen := &llm.ScriptedGenerator{}
	r, err := New(NameNarrator, writePrompts(t), gen, llm.DefaultGenerationConfig(), nil)
	require.NoError(t, err)

	_, err = r.Generate(context.Background(), "first", GenerateOptions{SystemPrompt: "override"})
	require.NoError(t, err)
	_, err = r.Generate(context.Background(), "second", GenerateOptions{})
	require.NoError(t, err)

	require.Len(t, gen.Calls, 2)
	assert.Equal(t, "override", gen.Calls[0].Messages[0].Content)
	assert.Equal(t, "You are the narrator.", gen.Calls[1].Messages[0].Content)
}

func TestGenerate_StripsThinkingSpans(t *testing.T) {
	gen := &llm.ScriptedGenerator{
		Responses: []string{"<think>internal notes</think>Final answer."},
	}
	r, err := New(NameNarrator, writePrompts(t), gen, llm.DefaultGenerationConfig(), nil)
	require.NoError(t, err)

	out, err := r.Generate(context.Background(), "go", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Final answer.", out)
	assert.Equal(t, []string{"Generated Output: Final answer."}, r.Memory())
}

func TestGenerate_StripsMultilineThinkingSpans(t *testing.T) {
	gen := &llm.ScriptedGenerator{
		Responses: []string{"<think>line one\nline two</think>Kept.<think>more\nnotes</think>"},
	}
	r, err := New(NameNarrator, writePrompts(t), gen, llm.DefaultGenerationConfig(), nil)
	require.NoError(t, err)

	out, err := r.Generate(context.Background(), "go", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Kept.", out)
}

func TestGenerate_MemoryAppendAndSkip(t *testing.T) {
	gen := &llm.ScriptedGenerator{Responses: []string{"one", "two", "three"}}
	r, err := New(NameNarrator, writePrompts(t), gen, llm.DefaultGenerationConfig(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = r.Generate(ctx, "a", GenerateOptions{})
	require.NoError(t, err)
	_, err = r.Generate(ctx, "b", GenerateOptions{SkipMemory: true})
	require.NoError(t, err)
	_, err = r.Generate(ctx, "c", GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Generated Output: one",
		"Generated Output: three",
	}, r.Memory())
}

func TestMemory_ReturnsSnapshot(t *testing.T) {
	gen := &llm.ScriptedGenerator{Responses: []string{"entry"}}
	r, err := New(NameNarrator, writePrompts(t), gen, llm.DefaultGenerationConfig(), nil)
	require.NoError(t, err)

	_, err = r.Generate(context.Background(), "go", GenerateOptions{})
	require.NoError(t, err)

	snapshot := r.Memory()
	snapshot[0] = "tampered"
	assert.Equal(t, []string{"Generated Output: entry"}, r.Memory())
}

func TestClearMemory_KeepsSystemPrompt(t *testing.T) {
	gen := &llm.ScriptedGenerator{}
	r, err := New(NameNarrator, writePrompts(t), gen, llm.DefaultGenerationConfig(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = r.Generate(ctx, "before clear", GenerateOptions{})
	require.NoError(t, err)

	r.ClearMemory()
	assert.Empty(t, r.Memory())

	// The default system prompt still applies after clearing.
	_, err = r.Generate(ctx, "after clear", GenerateOptions{})
	require.NoError(t, err)
	last := gen.Calls[len(gen.Calls)-1]
	assert.Equal(t, "You are the narrator.", last.Messages[0].Content)
}

func TestGenerate_EmptyCompletionFails(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"empty string", ""},
		{"whitespace only", "   \n\t"},
		{"thinking only", "<think>all reasoning, no answer</think>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &llm.ScriptedGenerator{Responses: []string{tt.response}}
			r, err := New(NameNarrator, writePrompts(t), gen, llm.DefaultGenerationConfig(), nil)
			require.NoError(t, err)

			_, err = r.Generate(context.Background(), "go", GenerateOptions{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, llm.ErrEmptyCompletion))
			assert.Empty(t, r.Memory())
		})
	}
}

func TestGenerate_BackendErrorPropagates(t *testing.T) {
	backendErr := errors.New("backend exploded")
	gen := &llm.ScriptedGenerator{
		GenerateFunc: func([]llm.Message, llm.GenerationConfig) (string, error) {
			return "", backendErr
		},
	}
	r, err := New(NameWorldSim, writePrompts(t), gen, llm.DefaultGenerationConfig(), nil)
	require.NoError(t, err)

	_, err = r.Generate(context.Background(), "go", GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, backendErr))
	assert.Contains(t, err.Error(), NameWorldSim)
	// Only one attempt: no internal retries.
	assert.Len(t, gen.Calls, 1)
}

func TestGenerate_EmptyUserPromptRejected(t *testing.T) {
	gen := &llm.ScriptedGenerator{}
	r, err := New(NameNarrator, writePrompts(t), gen, llm.DefaultGenerationConfig(), nil)
	require.NoError(t, err)

	_, err = r.Generate(context.Background(), "  ", GenerateOptions{})
	require.Error(t, err)
	assert.Empty(t, gen.Calls)
}

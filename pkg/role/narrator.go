package role

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/0xbeedee/weaver/pkg/llm"
)

// Narrator turns raw seeds, world events and character actions into coherent
// narrative prose. Every loop prompt-state update flows through it.
type Narrator struct {
	*Role
}

// NewNarrator constructs the narrator role.
func NewNarrator(promptDir string, backend llm.TextGenerator, cfg llm.GenerationConfig, logger *logrus.Logger) (*Narrator, error) {
	base, err := New(NameNarrator, promptDir, backend, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Narrator{Role: base}, nil
}

// EditInput normalizes a raw seed or checkpoint text into a scene-setting
// prompt for the loop's first iteration.
func (n *Narrator) EditInput(ctx context.Context, initial string) (string, error) {
	prompt := fmt.Sprintf(
		"Edit the following text into a vivid scene-setting prompt that a story can grow from. Keep every established fact.\n\n%s",
		initial,
	)
	out, err := n.Generate(ctx, prompt, GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("edit input: %w", err)
	}
	return out, nil
}

// EditSimulationOutput merges a raw world event with the running prompt
// context into a coherent scene description.
func (n *Narrator) EditSimulationOutput(ctx context.Context, simOutput, priorPrompt string) (string, error) {
	prompt := fmt.Sprintf(
		"Weave the following world event into the current scene, producing a single coherent scene description.\n\nCurrent scene:\n%s\n\nWorld event:\n%s",
		priorPrompt, simOutput,
	)
	out, err := n.Generate(ctx, prompt, GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("edit simulation output: %w", err)
	}
	return out, nil
}

// NarrateAction merges a character's chosen action into narrative prose,
// producing the prompt state for the next iteration.
func (n *Narrator) NarrateAction(ctx context.Context, action, priorPrompt string) (string, error) {
	prompt := fmt.Sprintf(
		"Narrate the following action as it unfolds in the current scene, moving the story forward.\n\nCurrent scene:\n%s\n\nAction:\n%s",
		priorPrompt, action,
	)
	out, err := n.Generate(ctx, prompt, GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("narrate action: %w", err)
	}
	return out, nil
}

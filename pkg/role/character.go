package role

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/0xbeedee/weaver/pkg/llm"
)

// Character decides what the protagonist does next in the current scene.
type Character struct {
	*Role
}

// NewCharacter constructs the character role.
func NewCharacter(promptDir string, backend llm.TextGenerator, cfg llm.GenerationConfig, logger *logrus.Logger) (*Character, error) {
	base, err := New(NameCharacter, promptDir, backend, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Character{Role: base}, nil
}

// DecideAction describes the action the character takes in response to the
// current scene. In multichar mode the framing addresses several protagonists
// instead of one; the call mechanics are unchanged.
func (c *Character) DecideAction(ctx context.Context, prompt string, multichar bool) (string, error) {
	framing := "Decide what your character does next in this scene, and describe the action."
	if multichar {
		framing = "Decide what each of your characters does next in this scene, and describe their actions."
	}
	out, err := c.Generate(ctx, fmt.Sprintf("%s\n\nScene:\n%s", framing, prompt), GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("decide action: %w", err)
	}
	return out, nil
}

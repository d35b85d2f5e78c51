package role

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/0xbeedee/weaver/pkg/llm"
)

// WorldSim produces environmental events for the current scene. It never
// touches the loop's prompt state directly; its output is handed to the
// narrator for integration.
type WorldSim struct {
	*Role
}

// NewWorldSim constructs the world-simulation role.
func NewWorldSim(promptDir string, backend llm.TextGenerator, cfg llm.GenerationConfig, logger *logrus.Logger) (*WorldSim, error) {
	base, err := New(NameWorldSim, promptDir, backend, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &WorldSim{Role: base}, nil
}

// SimulateWorldEvent describes an environmental or world event that plausibly
// follows from the current scene.
func (w *WorldSim) SimulateWorldEvent(ctx context.Context, prompt string) (string, error) {
	out, err := w.Generate(ctx, prompt, GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("simulate world event: %w", err)
	}
	return out, nil
}

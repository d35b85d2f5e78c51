// Package orchestration drives the fixed-iteration weaving loop: it threads
// the single prompt-state value through the four roles, assembles the memory
// bundle, and hands the compiled story to the writer.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/0xbeedee/weaver/pkg/role"
)

// Phase is the loop's lifecycle state.
type Phase string

const (
	PhaseSeeding    Phase = "seeding"
	PhaseIterating  Phase = "iterating"
	PhaseFinalizing Phase = "finalizing"
	PhaseDone       Phase = "done"
)

// ErrLoopDone rejects role calls on a loop instance that already ran.
var ErrLoopDone = errors.New("loop already completed")

// Logger is the minimal progress-reporting interface the loop needs.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	Debug(msg string, keysAndValues ...any)
}

// Roles bundles the four role instances owned by the loop for one run.
type Roles struct {
	Narrator  *role.Narrator
	WorldSim  *role.WorldSim
	Character *role.Character
	Editor    *role.Editor
}

// SeedSource supplies the initial text when no direct input is given.
// *story.Loader satisfies it.
type SeedSource interface {
	Load(model string, multichar bool) (string, error)
}

// StoryWriter persists the compiled story. *story.Writer satisfies it.
type StoryWriter interface {
	Write(text, model string, multichar bool, now time.Time) (string, error)
}

// Config parameterizes one run of the loop.
type Config struct {
	Model         string
	MaxIterations int
	Multichar     bool

	// InitialText, when non-empty, takes precedence over the seed source.
	InitialText string

	// Now stamps the story file; defaults to time.Now.
	Now func() time.Time
}

// Result is the outcome of a completed run.
type Result struct {
	Story string
	Path  string
}

// Loop is the orchestration state machine. It owns the prompt state and the
// four role instances for the duration of a run; single-threaded, no
// suspension points besides the blocking backend calls.
type Loop struct {
	roles  Roles
	seeds  SeedSource
	writer StoryWriter
	cfg    Config
	logger Logger
	phase  Phase
}

// New validates the wiring and returns a loop ready to run once.
func New(roles Roles, seeds SeedSource, writer StoryWriter, cfg Config, logger Logger) (*Loop, error) {
	if roles.Narrator == nil || roles.WorldSim == nil || roles.Character == nil || roles.Editor == nil {
		return nil, fmt.Errorf("all four roles are required")
	}
	if writer == nil {
		return nil, fmt.Errorf("story writer is required")
	}
	if cfg.MaxIterations < 0 {
		return nil, fmt.Errorf("max iterations must be non-negative, got %d", cfg.MaxIterations)
	}
	if cfg.InitialText == "" && seeds == nil {
		return nil, fmt.Errorf("either initial text or a seed source is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Loop{
		roles:  roles,
		seeds:  seeds,
		writer: writer,
		cfg:    cfg,
		logger: logger,
		phase:  PhaseSeeding,
	}, nil
}

// Phase reports the loop's current lifecycle state.
func (l *Loop) Phase() Phase {
	return l.phase
}

// Run executes the full state machine: seeding, MaxIterations fixed
// four-call cycles, then finalization. Any role failure aborts immediately
// with no retries and no story written. A loop instance runs exactly once.
func (l *Loop) Run(ctx context.Context) (*Result, error) {
	if l.phase != PhaseSeeding {
		return nil, ErrLoopDone
	}
	// A failed run is spent too; partial reuse would corrupt the memory
	// counts the editor relies on.
	defer func() { l.phase = PhaseDone }()

	prompt, err := l.seed(ctx)
	if err != nil {
		return nil, err
	}

	l.phase = PhaseIterating
	for i := 0; i < l.cfg.MaxIterations; i++ {
		l.logger.Info("iteration", "current", i+1, "total", l.cfg.MaxIterations)

		prompt, err = l.iterate(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", i+1, err)
		}
	}

	l.phase = PhaseFinalizing
	return l.finalize(ctx)
}

// seed obtains the initial text and passes it through the narrator. Direct
// input takes precedence over the checkpoint store.
func (l *Loop) seed(ctx context.Context) (string, error) {
	initial := l.cfg.InitialText
	if initial == "" {
		l.logger.Info("loading checkpoint", "model", l.cfg.Model, "multichar", l.cfg.Multichar)
		var err error
		initial, err = l.seeds.Load(l.cfg.Model, l.cfg.Multichar)
		if err != nil {
			return "", fmt.Errorf("seeding: %w", err)
		}
	}

	l.logger.Info("initialising the narrator")
	prompt, err := l.roles.Narrator.EditInput(ctx, initial)
	if err != nil {
		return "", fmt.Errorf("seeding: %w", err)
	}
	return prompt, nil
}

// iterate runs one fixed four-call cycle. The prompt state updates twice,
// each time through the narrator; the intermediate merge paces the story
// between the world event and the character's reaction.
func (l *Loop) iterate(ctx context.Context, prompt string) (string, error) {
	l.logger.Debug("worldsim: simulating")
	simOut, err := l.roles.WorldSim.SimulateWorldEvent(ctx, prompt)
	if err != nil {
		return "", err
	}

	l.logger.Debug("narrator: editing simulation output")
	prompt, err = l.roles.Narrator.EditSimulationOutput(ctx, simOut, prompt)
	if err != nil {
		return "", err
	}

	l.logger.Debug("character: deciding action")
	action, err := l.roles.Character.DecideAction(ctx, prompt, l.cfg.Multichar)
	if err != nil {
		return "", err
	}

	l.logger.Debug("narrator: narrating action")
	prompt, err = l.roles.Narrator.NarrateAction(ctx, action, prompt)
	if err != nil {
		return "", err
	}
	return prompt, nil
}

// finalize assembles the memory bundle (editor excluded), compiles the story
// and persists it. The bundle is built only after all iterations complete.
func (l *Loop) finalize(ctx context.Context) (*Result, error) {
	l.logger.Info("finalising the story")

	bundle := role.MemoryBundle{
		role.NameNarrator:  l.roles.Narrator.Memory(),
		role.NameWorldSim:  l.roles.WorldSim.Memory(),
		role.NameCharacter: l.roles.Character.Memory(),
	}

	story, err := l.roles.Editor.CompileStory(ctx, bundle)
	if err != nil {
		return nil, fmt.Errorf("finalizing: %w", err)
	}

	path, err := l.writer.Write(story, l.cfg.Model, l.cfg.Multichar, l.cfg.Now())
	if err != nil {
		return nil, fmt.Errorf("finalizing: %w", err)
	}

	l.logger.Info("story saved", "path", path)
	return &Result{Story: story, Path: path}, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}

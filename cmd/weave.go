package cmd

import (
	"bufio"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/0xbeedee/weaver/pkg/config"
	"github.com/0xbeedee/weaver/pkg/llm"
	"github.com/0xbeedee/weaver/pkg/orchestration"
	"github.com/0xbeedee/weaver/pkg/role"
	"github.com/0xbeedee/weaver/pkg/story"
)

var (
	weaveMaxIterations    int
	weaveMultichar        bool
	weaveCheckpoint       bool
	weaveLocal            bool
	weaveTemperature      float64
	weaveCompletionTokens int
	weaveSettingsFile     string
)

// NewWeaveCmd builds the main weaving command.
func NewWeaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weave",
		Short: "Run a full weaving loop and save the compiled story",
		Long: `Runs the orchestration loop: seeds the narrator, cycles worldsim ->
narrator -> character -> narrator for the requested number of iterations,
then lets the editor compile all accumulated memories into the final story.

The model identifier and (unless --checkpoint is set) the initial prompt are
read interactively.`,
		RunE: runWeave,
	}

	cmd.Flags().IntVarP(&weaveMaxIterations, "max-iterations", "m", 0, "Number of iterations to weave (required, positive)")
	cmd.Flags().BoolVar(&weaveMultichar, "multichar", false, "Enable multi-character mode")
	cmd.Flags().BoolVar(&weaveCheckpoint, "checkpoint", false, "Seed from the most recent story for this model/mode")
	cmd.Flags().BoolVar(&weaveLocal, "local", false, "Use a local Ollama backend instead of Groq")
	cmd.Flags().Float64VarP(&weaveTemperature, "temperature", "t", 0.7, "Sampling temperature")
	cmd.Flags().IntVarP(&weaveCompletionTokens, "completion-tokens", "c", 2048, "Maximum tokens per completion")
	cmd.Flags().StringVar(&weaveSettingsFile, "settings", "weaver.yml", "Path to the optional settings file")
	cmd.MarkFlagRequired("max-iterations")

	return cmd
}

func runWeave(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())
	console := consoleLogger{out: out}

	settings, err := config.LoadFile(weaveSettingsFile)
	if err != nil {
		return err
	}

	// The model and seed come from the terminal; a prompt makes for a
	// cleaner interface than more flags.
	options := "any model available on Groq will do"
	if weaveLocal {
		options = "any model pulled into the local Ollama instance will do"
	}
	model, err := promptLine(in, out, fmt.Sprintf("LLM to use (%s)", options))
	if err != nil {
		return err
	}

	var initialText string
	if !weaveCheckpoint {
		initialText, err = promptLine(in, out, "Insert initial prompt")
		if err != nil {
			return err
		}
	}

	run := settings.Apply(config.Run{
		Model:            model,
		MaxIterations:    weaveMaxIterations,
		Multichar:        weaveMultichar,
		Checkpoint:       weaveCheckpoint,
		Local:            weaveLocal,
		Temperature:      weaveTemperature,
		CompletionTokens: weaveCompletionTokens,
	})
	if err := run.Validate(); err != nil {
		return err
	}

	backend, err := newBackend(run)
	if err != nil {
		return err
	}

	rc, err := orchestration.NewRunContext(run.LogsDir, time.Now())
	if err != nil {
		return err
	}
	defer rc.Close()

	console.Info("instantiating the roles", "run", rc.ID, "logs", rc.LogDir)
	roles, err := newRoles(run, backend, rc)
	if err != nil {
		return err
	}

	loop, err := orchestration.New(
		roles,
		&story.Loader{BaseDir: run.StoriesDir},
		&story.Writer{BaseDir: run.StoriesDir},
		orchestration.Config{
			Model:         run.Model,
			MaxIterations: run.MaxIterations,
			Multichar:     run.Multichar,
			InitialText:   initialText,
		},
		console,
	)
	if err != nil {
		return err
	}

	result, err := loop.Run(cmd.Context())
	if err != nil {
		return err
	}

	console.Info("all done", "story", result.Path)
	return nil
}

// newBackend selects the backend variant once; roles never branch on it.
func newBackend(run config.Run) (llm.TextGenerator, error) {
	if run.Local {
		return llm.NewOllamaClient(run.OllamaURL, run.Model)
	}
	key, err := config.LoadGroqKey()
	if err != nil {
		return nil, err
	}
	return llm.NewGroqClient(key, run.Model)
}

// newRoles instantiates the four roles against one backend, each with its
// own file-backed logger from the run context.
func newRoles(run config.Run, backend llm.TextGenerator, rc *orchestration.RunContext) (orchestration.Roles, error) {
	genCfg := run.GenerationConfig()

	narratorLog, err := rc.RoleLogger(role.NameNarrator)
	if err != nil {
		return orchestration.Roles{}, err
	}
	narrator, err := role.NewNarrator(run.PromptsDir, backend, genCfg, narratorLog)
	if err != nil {
		return orchestration.Roles{}, err
	}

	worldsimLog, err := rc.RoleLogger(role.NameWorldSim)
	if err != nil {
		return orchestration.Roles{}, err
	}
	worldsim, err := role.NewWorldSim(run.PromptsDir, backend, genCfg, worldsimLog)
	if err != nil {
		return orchestration.Roles{}, err
	}

	characterLog, err := rc.RoleLogger(role.NameCharacter)
	if err != nil {
		return orchestration.Roles{}, err
	}
	character, err := role.NewCharacter(run.PromptsDir, backend, genCfg, characterLog)
	if err != nil {
		return orchestration.Roles{}, err
	}

	editorLog, err := rc.RoleLogger(role.NameEditor)
	if err != nil {
		return orchestration.Roles{}, err
	}
	editor, err := role.NewEditor(run.PromptsDir, backend, genCfg, editorLog)
	if err != nil {
		return orchestration.Roles{}, err
	}

	return orchestration.Roles{
		Narrator:  narrator,
		WorldSim:  worldsim,
		Character: character,
		Editor:    editor,
	}, nil
}

package role

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/0xbeedee/weaver/pkg/llm"
)

// MemoryBundle maps role names to their ordered memory logs. It is assembled
// once after all iterations complete and treated as immutable from then on.
type MemoryBundle map[string][]string

// bundleOrder fixes the serialization order of the contributing roles; any
// extra keys follow alphabetically.
var bundleOrder = []string{NameNarrator, NameWorldSim, NameCharacter}

// Editor compiles the accumulated role memories into the final story. It is
// the only role that reduces over the whole run rather than transforming one
// step, and its output is terminal: nothing is saved to its own memory.
type Editor struct {
	*Role
}

// NewEditor constructs the editor role.
func NewEditor(promptDir string, backend llm.TextGenerator, cfg llm.GenerationConfig, logger *logrus.Logger) (*Editor, error) {
	base, err := New(NameEditor, promptDir, backend, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Editor{Role: base}, nil
}

// CompileStory serializes the bundle into one document and asks the backend
// for the final coherent narrative. Runs exactly once per loop.
func (e *Editor) CompileStory(ctx context.Context, bundle MemoryBundle) (string, error) {
	if len(bundle) == 0 {
		return "", fmt.Errorf("compile story: memory bundle is empty")
	}

	prompt := "Compile the following role memories into one coherent, complete story.\n\n" + SerializeBundle(bundle)
	out, err := e.Generate(ctx, prompt, GenerateOptions{SkipMemory: true})
	if err != nil {
		return "", fmt.Errorf("compile story: %w", err)
	}
	return out, nil
}

// SerializeBundle renders a bundle as a single document, one section per
// role, entries numbered in production order.
func SerializeBundle(bundle MemoryBundle) string {
	var keys []string
	seen := make(map[string]bool)
	for _, name := range bundleOrder {
		if _, ok := bundle[name]; ok {
			keys = append(keys, name)
			seen[name] = true
		}
	}
	var extras []string
	for name := range bundle {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	keys = append(keys, extras...)

	var b strings.Builder
	for _, name := range keys {
		fmt.Fprintf(&b, "== %s ==\n", name)
		for i, entry := range bundle[name] {
			fmt.Fprintf(&b, "%d. %s\n", i+1, entry)
		}
		b.WriteString("\n")
	}
	return b.String()
}

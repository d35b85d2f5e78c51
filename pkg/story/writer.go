package story

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// timestampLayout names story files down to whole seconds. Two runs for the
// same model/mode within one second collide; known gap, accepted.
const timestampLayout = "20060102_150405"

// Writer persists compiled stories into the store.
type Writer struct {
	BaseDir string
}

// Write stores the story under the model/mode directory with a timestamped
// filename and returns the path. Called exactly once per successful run.
func (w *Writer) Write(text, model string, multichar bool, now time.Time) (string, error) {
	dir := Dir(w.BaseDir, model, multichar)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create story directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("story_%s.txt", now.Format(timestampLayout)))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("write story: %w", err)
	}
	return path, nil
}

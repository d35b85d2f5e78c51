package story

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Write_RoundTrip(t *testing.T) {
	w := &Writer{BaseDir: t.TempDir()}
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	text := "The traveler left the forest.\n\nThe end.\n"
	path, err := w.Write(text, "test-model", false, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.BaseDir, "test-model", "story_20250314_150926.txt"), path)

	read, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, text, string(read))
}

func TestWriter_Write_MulticharPath(t *testing.T) {
	w := &Writer{BaseDir: t.TempDir()}
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	path, err := w.Write("story", "test-model", true, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.BaseDir, "test-model", "multichar", "story_20250314_150926.txt"), path)
}

func TestWriter_Write_DistinctTimestampsDoNotCollide(t *testing.T) {
	w := &Writer{BaseDir: t.TempDir()}
	t1 := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	t2 := t1.Add(time.Second)

	p1, err := w.Write("first", "m", false, t1)
	require.NoError(t, err)
	p2, err := w.Write("second", "m", false, t2)
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)

	first, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.Equal(t, "first", string(first))
}

func TestWriter_ThenLoader(t *testing.T) {
	base := t.TempDir()
	w := &Writer{BaseDir: base}

	_, err := w.Write("compiled story", "m", false, time.Now())
	require.NoError(t, err)

	loader := &Loader{BaseDir: base}
	content, err := loader.Load("m", false)
	require.NoError(t, err)
	assert.Equal(t, "compiled story", content)
}

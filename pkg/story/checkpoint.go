// Package story handles the on-disk story store: writing compiled stories
// and loading the most recent one as a checkpoint seed for a new run.
//
// Store layout: <base>/<model>/[multichar/]story_<timestamp>.txt
package story

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ErrNoCheckpoint signals that a checkpoint was requested but no prior story
// exists for the given model/mode.
var ErrNoCheckpoint = errors.New("no checkpoint found")

// FileInfo pairs a story file path with its modification time.
type FileInfo struct {
	Path    string
	ModTime time.Time
}

// Lister enumerates story files in a directory. Injectable so that selection
// stays testable without a real filesystem.
type Lister func(dir string) ([]FileInfo, error)

// Dir returns the store directory for a model/mode pair.
func Dir(base, model string, multichar bool) string {
	dir := filepath.Join(base, model)
	if multichar {
		dir = filepath.Join(dir, "multichar")
	}
	return dir
}

// MostRecent selects the file with the latest modification time. Pure over
// its input; empty input yields ErrNoCheckpoint.
func MostRecent(files []FileInfo) (FileInfo, error) {
	if len(files) == 0 {
		return FileInfo{}, ErrNoCheckpoint
	}
	best := files[0]
	for _, f := range files[1:] {
		if f.ModTime.After(best.ModTime) {
			best = f
		}
	}
	return best, nil
}

// Loader reads checkpoint seeds from the story store.
type Loader struct {
	BaseDir string
	List    Lister // defaults to reading the real filesystem
}

// Load returns the content of the most recent story for the model/mode, or
// ErrNoCheckpoint if none exists.
func (l *Loader) Load(model string, multichar bool) (string, error) {
	dir := Dir(l.BaseDir, model, multichar)
	files, err := l.list(dir)
	if err != nil {
		return "", fmt.Errorf("list stories in %s: %w", dir, err)
	}

	latest, err := MostRecent(files)
	if err != nil {
		return "", fmt.Errorf("%w for %s", err, dir)
	}

	data, err := os.ReadFile(latest.Path)
	if err != nil {
		return "", fmt.Errorf("read checkpoint %s: %w", latest.Path, err)
	}
	return string(data), nil
}

// Stories returns all stories for the model/mode, newest first.
func (l *Loader) Stories(model string, multichar bool) ([]FileInfo, error) {
	files, err := l.list(Dir(l.BaseDir, model, multichar))
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

func (l *Loader) list(dir string) ([]FileInfo, error) {
	if l.List != nil {
		return l.List(dir)
	}
	return listDir(dir)
}

// listDir is the default Lister. A missing directory is an empty store, not
// an error.
func listDir(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(dir, entry.Name()),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

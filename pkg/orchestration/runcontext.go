package orchestration

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// logDirLayout timestamps one directory per run; second resolution, same
// collision caveat as story filenames.
const logDirLayout = "20060102_150405"

// RunContext carries the per-run logging state: a run ID, a fresh timestamped
// log directory, and one file-backed logger per role. It is created once at
// orchestration start and handed to role constructors explicitly; there is no
// ambient logger registry.
type RunContext struct {
	ID        string
	StartedAt time.Time
	LogDir    string

	loggers map[string]*logrus.Logger
	files   []io.Closer
}

// NewRunContext creates the run's log directory under baseDir.
func NewRunContext(baseDir string, now time.Time) (*RunContext, error) {
	dir := filepath.Join(baseDir, now.Format(logDirLayout))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	return &RunContext{
		ID:        "run-" + uuid.New().String()[:8],
		StartedAt: now,
		LogDir:    dir,
		loggers:   make(map[string]*logrus.Logger),
	}, nil
}

// RoleLogger returns the logger writing to <LogDir>/<name>.log, creating it
// on first use. Repeated calls for the same name share one logger.
func (rc *RunContext) RoleLogger(name string) (*logrus.Logger, error) {
	if logger, ok := rc.loggers[name]; ok {
		return logger, nil
	}

	path := filepath.Join(rc.LogDir, name+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open role log %s: %w", path, err)
	}

	logger := logrus.New()
	logger.SetOutput(f)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableColors:   true,
	})

	rc.loggers[name] = logger
	rc.files = append(rc.files, f)
	return logger, nil
}

// Close releases the underlying log files.
func (rc *RunContext) Close() error {
	var errs []error
	for _, f := range rc.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	rc.files = nil
	return errors.Join(errs...)
}

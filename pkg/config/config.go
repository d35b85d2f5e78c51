// Package config builds the immutable per-run configuration from CLI flags,
// an optional weaver.yml, and environment credentials.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/0xbeedee/weaver/pkg/llm"
)

// Defaults for the optional weaver.yml settings.
const (
	DefaultStoriesDir = "stories"
	DefaultLogsDir    = "logs"
	DefaultPromptsDir = "system_prompts"
)

const groqKeyEnv = "GROQ_API_KEY"

// legacy key file, still honored when the environment has no key.
const groqKeyFile = "groq.key"

// Run is the complete, immutable configuration for one weaving run.
// Constructed once in cmd/ and passed by value; never mutated afterwards.
type Run struct {
	Model            string
	MaxIterations    int
	Multichar        bool
	Checkpoint       bool
	Local            bool
	Temperature      float64
	CompletionTokens int

	StoriesDir string
	LogsDir    string
	PromptsDir string
	OllamaURL  string
}

// Validate checks the caller-supplied parts of the configuration.
func (r Run) Validate() error {
	if r.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be a positive integer, got %d", r.MaxIterations)
	}
	if strings.TrimSpace(r.Model) == "" {
		return fmt.Errorf("model identifier is required")
	}
	if r.CompletionTokens <= 0 {
		return fmt.Errorf("completion tokens must be a positive integer, got %d", r.CompletionTokens)
	}
	return nil
}

// GenerationConfig maps the run parameters onto the normalized backend shape.
func (r Run) GenerationConfig() llm.GenerationConfig {
	cfg := llm.DefaultGenerationConfig()
	cfg.Temperature = r.Temperature
	cfg.MaxTokens = r.CompletionTokens
	return cfg
}

// File mirrors the optional weaver.yml settings file.
type File struct {
	StoriesDir string `yaml:"stories_dir,omitempty"`
	LogsDir    string `yaml:"logs_dir,omitempty"`
	PromptsDir string `yaml:"prompts_dir,omitempty"`
	OllamaURL  string `yaml:"ollama_url,omitempty"`
}

// LoadFile reads a settings file. A missing file yields the zero value.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("read settings file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	return f, nil
}

// Apply fills the directory settings of a Run from the file, with package
// defaults for anything left unset.
func (f File) Apply(r Run) Run {
	r.StoriesDir = firstNonEmpty(f.StoriesDir, DefaultStoriesDir)
	r.LogsDir = firstNonEmpty(f.LogsDir, DefaultLogsDir)
	r.PromptsDir = firstNonEmpty(f.PromptsDir, DefaultPromptsDir)
	r.OllamaURL = f.OllamaURL
	return r
}

// LoadGroqKey resolves the Groq API key: .env is loaded if present, then the
// GROQ_API_KEY variable wins, then the legacy groq.key file.
func LoadGroqKey() (string, error) {
	// Missing .env is fine; the variable may come from the environment.
	_ = godotenv.Load()

	if key := strings.TrimSpace(os.Getenv(groqKeyEnv)); key != "" {
		return key, nil
	}

	data, err := os.ReadFile(groqKeyFile)
	if err != nil {
		return "", fmt.Errorf("groq credentials: set %s or provide %s: %w", groqKeyEnv, groqKeyFile, err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("groq credentials: %s is empty", groqKeyFile)
	}
	return key, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient is the remote backend variant. Groq exposes an OpenAI-compatible
// chat completions endpoint, so the request and response bodies follow that
// wire format.
type GroqClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// GroqOption customizes a GroqClient at construction time.
type GroqOption func(*GroqClient)

// WithGroqBaseURL overrides the API base URL. Used by tests and by
// OpenAI-compatible proxies.
func WithGroqBaseURL(url string) GroqOption {
	return func(c *GroqClient) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithGroqHTTPClient overrides the underlying HTTP client.
func WithGroqHTTPClient(hc *http.Client) GroqOption {
	return func(c *GroqClient) { c.httpClient = hc }
}

// NewGroqClient creates a remote backend for the given model.
func NewGroqClient(apiKey, model string, opts ...GroqOption) (*GroqClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq: api key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("groq: model is required")
	}
	c := &GroqClient{
		baseURL: defaultGroqBaseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type groqRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
	Stream      bool      `json:"stream"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Generate implements TextGenerator.
func (c *GroqClient) Generate(ctx context.Context, messages []Message, cfg GenerationConfig) (string, error) {
	body, err := json.Marshal(groqRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		Stop:        cfg.Stop,
		Stream:      false,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("groq: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("groq: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq: api call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("groq: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq: api error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp groqResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("groq: unmarshal response: %w", err)
	}
	if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("groq: model %s: %w", c.model, ErrEmptyCompletion)
	}
	return apiResp.Choices[0].Message.Content, nil
}

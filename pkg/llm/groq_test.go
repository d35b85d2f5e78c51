package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroqClient_Generate(t *testing.T) {
	var gotReq groqRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Once upon a time."}},
			},
		})
	}))
	defer server.Close()

	client, err := NewGroqClient("test-key", "llama-3.3-70b-versatile", WithGroqBaseURL(server.URL))
	require.NoError(t, err)

	messages := []Message{
		{Role: RoleSystem, Content: "You are a narrator."},
		{Role: RoleUser, Content: "Begin."},
	}
	cfg := GenerationConfig{Temperature: 0.7, TopP: 0.9, MaxTokens: 2048}

	text, err := client.Generate(context.Background(), messages, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time.", text)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "llama-3.3-70b-versatile", gotReq.Model)
	assert.Equal(t, messages, gotReq.Messages)
	assert.Equal(t, 0.7, gotReq.Temperature)
	assert.Equal(t, 0.9, gotReq.TopP)
	assert.Equal(t, 2048, gotReq.MaxTokens)
	assert.False(t, gotReq.Stream)
}

func TestGroqClient_Generate_EmptyCompletion(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no choices", `{"choices":[]}`},
		{"empty content", `{"choices":[{"message":{"content":""}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewGroqClient("test-key", "test-model", WithGroqBaseURL(server.URL))
			require.NoError(t, err)

			_, err = client.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, DefaultGenerationConfig())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEmptyCompletion))
		})
	}
}

func TestGroqClient_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewGroqClient("test-key", "bogus-model", WithGroqBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, DefaultGenerationConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.False(t, errors.Is(err, ErrEmptyCompletion))
}

func TestNewGroqClient_Validation(t *testing.T) {
	_, err := NewGroqClient("", "model")
	assert.Error(t, err)

	_, err = NewGroqClient("key", "")
	assert.Error(t, err)
}

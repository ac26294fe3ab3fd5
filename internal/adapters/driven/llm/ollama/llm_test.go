package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func TestNewLLMService_Defaults(t *testing.T) {
	s := NewLLMService(LLMConfig{})
	assert.Equal(t, DefaultBaseURL, s.baseURL)
	assert.Equal(t, DefaultLLMModel, s.ModelName())
	assert.NoError(t, s.Close())
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.Equal(t, "Say hi", req.Prompt)
		assert.False(t, req.Stream)
		require.NotNil(t, req.Options)
		assert.Equal(t, 64, req.Options.NumPredict)
		assert.Equal(t, 4096, req.Options.NumCtx)
		require.NotNil(t, req.Options.Temperature)
		assert.Zero(t, *req.Options.Temperature)

		_ = json.NewEncoder(w).Encode(generateResponse{Response: "hi", Done: true})
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL + "/", ContextLength: 4096})
	out, err := s.Generate(context.Background(), "Say hi", driven.GenerateOptions{MaxTokens: 64})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}

func TestGenerate_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model 'x' not found", http.StatusNotFound)
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL})
	_, err := s.Generate(context.Background(), "p", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:latest","model":"llama3.2:latest"},{"name":"mistral:7b"}]}`))
	}))
	defer server.Close()

	tests := []struct {
		model   string
		wantErr bool
	}{
		{"llama3.2", false},
		{"llama3.2:latest", false},
		{"mistral:7b", false},
		{"mistral", true},
		{"phi3", true},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			err := NewLLMService(LLMConfig{BaseURL: server.URL, Model: tt.model}).Ping(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "ollama pull "+tt.model)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

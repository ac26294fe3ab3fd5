package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		provider AIProvider
		expected bool
	}{
		{AIProviderOllama, true},
		{AIProviderOpenAI, true},
		{AIProviderLocal, true},
		{AIProvider(""), false},
		{AIProvider("anthropic"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Properties(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOllama.IsLocal())
	assert.True(t, AIProviderLocal.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		expected bool
	}{
		{"ollama", LLMSettings{Provider: AIProviderOllama}, true},
		{"openai with key", LLMSettings{Provider: AIProviderOpenAI, APIKey: "sk"}, true},
		{"openai without key", LLMSettings{Provider: AIProviderOpenAI}, false},
		{"local cannot generate", LLMSettings{Provider: AIProviderLocal}, false},
		{"empty", LLMSettings{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestLLMSettings_PromptBudget(t *testing.T) {
	assert.Equal(t, 3584, LLMSettings{ContextLength: 4096, MaxTokens: 512}.PromptBudget())
	assert.Equal(t, 0, LLMSettings{ContextLength: 100, MaxTokens: 512}.PromptBudget())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.True(t, EmbeddingSettings{Provider: AIProviderLocal}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.False(t, EmbeddingSettings{}.IsConfigured())
}

func TestIndexBackend_IsValid(t *testing.T) {
	assert.True(t, IndexBackendSQLite.IsValid())
	assert.True(t, IndexBackendPostgres.IsValid())
	assert.False(t, IndexBackend("chroma").IsValid())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, AIProviderOllama, s.LLM.Provider)
	assert.Equal(t, "llama3.2", s.LLM.Model)
	assert.Equal(t, 4096, s.LLM.ContextLength)
	assert.Equal(t, 512, s.LLM.MaxTokens)
	assert.InDelta(t, 0.7, s.LLM.Temperature, 1e-9)
	assert.Equal(t, 120*time.Second, s.LLM.Timeout)

	assert.Equal(t, "all-minilm", s.Embedding.Model)
	assert.Equal(t, 384, s.Embedding.Dimensions)

	assert.Equal(t, IndexBackendSQLite, s.Index.Backend)
	assert.Equal(t, "documents", s.Index.Collection)

	assert.Equal(t, 1000, s.Ingest.ChunkSize)
	assert.Equal(t, 200, s.Ingest.ChunkOverlap)
	assert.Equal(t, int64(200*1024*1024), s.Ingest.MaxFileSize())
	assert.Equal(t, []Format{FormatPDF, FormatText, FormatDOCX}, s.Ingest.SupportedFormats)

	assert.Equal(t, 150, s.Generation.SummaryMaxWords)
	assert.Len(t, s.Generation.QuestionTypes, 4)
	assert.Equal(t, 3, s.Generation.RetrievalK)
}

func TestEmbeddingDimensions(t *testing.T) {
	dims := EmbeddingDimensions()
	assert.Equal(t, 384, dims["all-minilm"])
	assert.Equal(t, 1536, dims["text-embedding-3-small"])
}

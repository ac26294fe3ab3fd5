package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API or a compatible server.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderLocal is the in-process hashing embedder. Embeddings only.
	AIProviderLocal AIProvider = "local"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderLocal:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs on this machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderLocal:
		return "Hashing embedder (offline)"
	default:
		return unknownDescription
	}
}

// IndexBackend identifies the storage behind the embedding index.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendSQLite stores vectors in a local SQLite file.
	IndexBackendSQLite IndexBackend = "sqlite"

	// IndexBackendPostgres stores vectors in PostgreSQL with pgvector.
	IndexBackendPostgres IndexBackend = "postgres"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	return b == IndexBackendSQLite || b == IndexBackendPostgres
}

// String returns the string representation.
func (b IndexBackend) String() string {
	return string(b)
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// ContextLength is the model context window in tokens.
	ContextLength int

	// MaxTokens is the maximum number of tokens generated per call.
	MaxTokens int

	// Temperature controls randomness.
	Temperature float64

	// Timeout bounds each generator call.
	Timeout time.Duration

	// RequestsPerSecond limits call rate. Zero disables limiting.
	RequestsPerSecond float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if l.Provider != AIProviderOllama && l.Provider != AIProviderOpenAI {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// PromptBudget returns the number of tokens left for the prompt.
func (l LLMSettings) PromptBudget() int {
	budget := l.ContextLength - l.MaxTokens
	if budget < 0 {
		return 0
	}
	return budget
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the embedding vector size.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// IndexSettings holds embedding index configuration.
type IndexSettings struct {
	// Backend selects the storage implementation.
	Backend IndexBackend

	// Collection is the fixed collection name entries are stored under.
	Collection string

	// DSN is the PostgreSQL connection string (postgres backend only).
	DSN string
}

// IngestSettings holds validation and chunking configuration.
type IngestSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int

	// MaxFileSizeMB rejects uploads above this size.
	MaxFileSizeMB int

	// SupportedFormats lists the accepted format tags.
	SupportedFormats []Format
}

// MaxFileSize returns the size limit in bytes.
func (i IngestSettings) MaxFileSize() int64 {
	return int64(i.MaxFileSizeMB) * 1024 * 1024
}

// GenerationSettings holds prompt parameters.
type GenerationSettings struct {
	// SummaryMaxWords is the word budget for summaries.
	SummaryMaxWords int

	// QuestionTypes is the taxonomy used by mixed mode.
	QuestionTypes []QuestionType

	// RetrievalK is the number of chunks retrieved per question.
	RetrievalK int
}

// AppSettings holds all application settings.
// They are fixed at process start.
type AppSettings struct {
	LLM        LLMSettings
	Embedding  EmbeddingSettings
	Index      IndexSettings
	Ingest     IngestSettings
	Generation GenerationSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Provider:      AIProviderOllama,
			Model:         DefaultLLMModels()[AIProviderOllama],
			ContextLength: 4096,
			MaxTokens:     512,
			Temperature:   0.7,
			Timeout:       120 * time.Second,
		},
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      DefaultEmbeddingModels()[AIProviderOllama],
			Dimensions: 384,
		},
		Index: IndexSettings{
			Backend:    IndexBackendSQLite,
			Collection: "documents",
		},
		Ingest: IngestSettings{
			ChunkSize:        1000,
			ChunkOverlap:     200,
			MaxFileSizeMB:    200,
			SupportedFormats: AllFormats(),
		},
		Generation: GenerationSettings{
			SummaryMaxWords: 150,
			QuestionTypes:   QuestionTaxonomy(),
			RetrievalK:      DefaultRetrievalK,
		},
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderLocal:  "feature-hash",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

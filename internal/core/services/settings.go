package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMContext      = "llm.context_length"
	keyLLMMaxTokens    = "llm.max_tokens"
	keyLLMTemperature  = "llm.temperature"
	keyLLMTimeout      = "llm.timeout_seconds"
	keyLLMRate         = "llm.requests_per_second"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDims       = "embedding.dimensions"
	keyIndexBackend    = "index.backend"
	keyIndexCollection = "index.collection"
	keyIndexDSN        = "index.dsn"
	keyChunkSize       = "ingest.chunk_size"
	keyChunkOverlap    = "ingest.chunk_overlap"
	keyMaxFileSize     = "ingest.max_file_size_mb"
	keyFormats         = "ingest.supported_formats"
	keySummaryWords    = "generation.summary_max_words"
	keyQuestionTypes   = "generation.question_types"
	keyRetrievalK      = "generation.retrieval_k"
)

const (
	maskedValue     = "********"
	listSeparator   = ","
	secretKeySuffix = ".api_key"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindList
)

// settingKinds lists every writable key and how its value is parsed.
var settingKinds = map[string]valueKind{
	keyLLMProvider:     kindString,
	keyLLMModel:        kindString,
	keyLLMBaseURL:      kindString,
	keyLLMAPIKey:       kindString,
	keyLLMContext:      kindInt,
	keyLLMMaxTokens:    kindInt,
	keyLLMTemperature:  kindFloat,
	keyLLMTimeout:      kindInt,
	keyLLMRate:         kindFloat,
	keyEmbedProvider:   kindString,
	keyEmbedModel:      kindString,
	keyEmbedBaseURL:    kindString,
	keyEmbedAPIKey:     kindString,
	keyEmbedDims:       kindInt,
	keyIndexBackend:    kindString,
	keyIndexCollection: kindString,
	keyIndexDSN:        kindString,
	keyChunkSize:       kindInt,
	keyChunkOverlap:    kindInt,
	keyMaxFileSize:     kindInt,
	keyFormats:         kindList,
	keySummaryWords:    kindInt,
	keyQuestionTypes:   kindList,
	keyRetrievalK:      kindInt,
}

// SettingsService resolves application settings from configuration and defaults.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	llmProvider := s.getProvider(keyLLMProvider, d.LLM.Provider)
	if llmProvider == domain.AIProviderLocal {
		llmProvider = d.LLM.Provider
	}
	embedProvider := s.getProvider(keyEmbedProvider, d.Embedding.Provider)

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider:          llmProvider,
			Model:             s.getString(keyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:           s.configStore.GetString(keyLLMBaseURL), // No default - empty uses the provider's
			APIKey:            s.configStore.GetString(keyLLMAPIKey),
			ContextLength:     s.getInt(keyLLMContext, d.LLM.ContextLength),
			MaxTokens:         s.getInt(keyLLMMaxTokens, d.LLM.MaxTokens),
			Temperature:       s.getFloat(keyLLMTemperature, d.LLM.Temperature),
			Timeout:           time.Duration(s.getInt(keyLLMTimeout, int(d.LLM.Timeout/time.Second))) * time.Second,
			RequestsPerSecond: s.getFloat(keyLLMRate, d.LLM.RequestsPerSecond),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   embedProvider,
			Model:      s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[embedProvider]),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL),
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.getInt(keyEmbedDims, d.Embedding.Dimensions),
		},
		Index: domain.IndexSettings{
			Backend:    s.getBackend(d.Index.Backend),
			Collection: s.getString(keyIndexCollection, d.Index.Collection),
			DSN:        s.configStore.GetString(keyIndexDSN),
		},
		Ingest: domain.IngestSettings{
			ChunkSize:        s.getInt(keyChunkSize, d.Ingest.ChunkSize),
			ChunkOverlap:     s.getNonNegative(keyChunkOverlap, d.Ingest.ChunkOverlap),
			MaxFileSizeMB:    s.getInt(keyMaxFileSize, d.Ingest.MaxFileSizeMB),
			SupportedFormats: s.getFormats(d.Ingest.SupportedFormats),
		},
		Generation: domain.GenerationSettings{
			SummaryMaxWords: s.getInt(keySummaryWords, d.Generation.SummaryMaxWords),
			QuestionTypes:   s.getQuestionTypes(d.Generation.QuestionTypes),
			RetrievalK:      s.getInt(keyRetrievalK, d.Generation.RetrievalK),
		},
	}

	// OpenAI keys are commonly shared between the two clients.
	if settings.Embedding.APIKey == "" && settings.Embedding.Provider == domain.AIProviderOpenAI {
		settings.Embedding.APIKey = settings.LLM.APIKey
	}

	return settings, nil
}

// Set validates a value and persists it under key.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	parsed, err := parseSetting(key, kind, strings.TrimSpace(value))
	if err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func parseSetting(key string, kind valueKind, value string) (any, error) {
	invalid := func(reason string) error {
		return fmt.Errorf("%s: %s: %w", key, reason, domain.ErrInvalidInput)
	}

	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, invalid("expected an integer")
		}
		if n < 0 || (n == 0 && key != keyChunkOverlap) {
			return nil, invalid("must be positive")
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return nil, invalid("expected a non-negative number")
		}
		return f, nil
	case kindList:
		var items []string
		for _, item := range strings.Split(value, listSeparator) {
			if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
				items = append(items, item)
			}
		}
		if err := validateList(key, items); err != nil {
			return nil, invalid(err.Error())
		}
		return items, nil
	default:
		if err := validateString(key, value); err != nil {
			return nil, invalid(err.Error())
		}
		return value, nil
	}
}

func validateString(key, value string) error {
	switch key {
	case keyLLMProvider:
		p := domain.AIProvider(value)
		if p != domain.AIProviderOllama && p != domain.AIProviderOpenAI {
			return fmt.Errorf("unknown llm provider %q", value)
		}
	case keyEmbedProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("unknown embedding provider %q", value)
		}
	case keyIndexBackend:
		if !domain.IndexBackend(value).IsValid() {
			return fmt.Errorf("unknown index backend %q", value)
		}
	}
	return nil
}

func validateList(key string, items []string) error {
	if len(items) == 0 {
		return fmt.Errorf("empty list")
	}
	for _, item := range items {
		switch key {
		case keyFormats:
			if !domain.Format(item).IsValid() {
				return fmt.Errorf("unknown format %q", item)
			}
		case keyQuestionTypes:
			qt := domain.QuestionType(item)
			if !qt.IsValid() || qt == domain.QuestionMixed {
				return fmt.Errorf("unknown question type %q", item)
			}
		}
	}
	return nil
}

// Entries returns the effective value of every known key, sorted by key.
// Secrets are masked.
func (s *SettingsService) Entries() ([]driving.SettingEntry, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	values := map[string]string{
		keyLLMProvider:     settings.LLM.Provider.String(),
		keyLLMModel:        settings.LLM.Model,
		keyLLMBaseURL:      settings.LLM.BaseURL,
		keyLLMAPIKey:       settings.LLM.APIKey,
		keyLLMContext:      strconv.Itoa(settings.LLM.ContextLength),
		keyLLMMaxTokens:    strconv.Itoa(settings.LLM.MaxTokens),
		keyLLMTemperature:  strconv.FormatFloat(settings.LLM.Temperature, 'g', -1, 64),
		keyLLMTimeout:      strconv.Itoa(int(settings.LLM.Timeout / time.Second)),
		keyLLMRate:         strconv.FormatFloat(settings.LLM.RequestsPerSecond, 'g', -1, 64),
		keyEmbedProvider:   settings.Embedding.Provider.String(),
		keyEmbedModel:      settings.Embedding.Model,
		keyEmbedBaseURL:    settings.Embedding.BaseURL,
		keyEmbedAPIKey:     s.configStore.GetString(keyEmbedAPIKey),
		keyEmbedDims:       strconv.Itoa(settings.Embedding.Dimensions),
		keyIndexBackend:    settings.Index.Backend.String(),
		keyIndexCollection: settings.Index.Collection,
		keyIndexDSN:        settings.Index.DSN,
		keyChunkSize:       strconv.Itoa(settings.Ingest.ChunkSize),
		keyChunkOverlap:    strconv.Itoa(settings.Ingest.ChunkOverlap),
		keyMaxFileSize:     strconv.Itoa(settings.Ingest.MaxFileSizeMB),
		keyFormats:         joinFormats(settings.Ingest.SupportedFormats),
		keySummaryWords:    strconv.Itoa(settings.Generation.SummaryMaxWords),
		keyQuestionTypes:   joinQuestionTypes(settings.Generation.QuestionTypes),
		keyRetrievalK:      strconv.Itoa(settings.Generation.RetrievalK),
	}

	entries := make([]driving.SettingEntry, 0, len(values))
	for key, value := range values {
		if isSecret(key) && value != "" {
			value = maskedValue
		}
		entries = append(entries, driving.SettingEntry{Key: key, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func isSecret(key string) bool {
	return strings.HasSuffix(key, secretKeySuffix) || key == keyIndexDSN
}

func joinFormats(formats []domain.Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, listSeparator)
}

func joinQuestionTypes(types []domain.QuestionType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, listSeparator)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getNonNegative(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if val := s.configStore.GetFloat(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	if p := domain.AIProvider(s.configStore.GetString(key)); p.IsValid() {
		return p
	}
	return defaultVal
}

func (s *SettingsService) getBackend(defaultVal domain.IndexBackend) domain.IndexBackend {
	if b := domain.IndexBackend(s.configStore.GetString(keyIndexBackend)); b.IsValid() {
		return b
	}
	return defaultVal
}

func (s *SettingsService) getFormats(defaultVal []domain.Format) []domain.Format {
	var formats []domain.Format
	for _, name := range s.configStore.GetStringSlice(keyFormats) {
		if f := domain.Format(strings.ToLower(name)); f.IsValid() {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return defaultVal
	}
	return formats
}

func (s *SettingsService) getQuestionTypes(defaultVal []domain.QuestionType) []domain.QuestionType {
	var types []domain.QuestionType
	for _, name := range s.configStore.GetStringSlice(keyQuestionTypes) {
		if qt := domain.QuestionType(strings.ToLower(name)); qt.IsValid() && qt != domain.QuestionMixed {
			types = append(types, qt)
		}
	}
	if len(types) == 0 {
		return defaultVal
	}
	return types
}

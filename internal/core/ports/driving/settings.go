package driving

import "github.com/custodia-labs/docqa/internal/core/domain"

// SettingsService exposes application settings.
type SettingsService interface {
	// Get resolves current settings from configuration and defaults.
	Get() (*domain.AppSettings, error)

	// Set validates and persists one configuration key.
	Set(key, value string) error

	// Entries returns every effective setting as a flat key/value list for display.
	// API keys are masked.
	Entries() ([]SettingEntry, error)
}

// SettingEntry is one effective configuration value.
type SettingEntry struct {
	Key   string
	Value string
}

package driven

// ConfigStore provides access to application configuration.
// Keys use dot notation that mirrors TOML tables (e.g. "llm.model").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" if missing or mistyped.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 if missing or mistyped.
	GetInt(key string) int

	// GetFloat retrieves a float value, accepting integers, or 0 if missing.
	GetFloat(key string) float64

	// GetStringSlice retrieves a string slice value, or nil if missing.
	GetStringSlice(key string) []string

	// Set stores a configuration value and persists it immediately.
	Set(key string, value any) error

	// Keys returns every key currently set, sorted.
	Keys() []string

	// Path returns the configuration file path.
	Path() string
}

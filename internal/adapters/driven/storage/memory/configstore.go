package memory

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a map. It converts values the way the TOML
// store does, including string values standing in for environment overrides.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore returns a store holding a copy of each seed map, later maps winning.
func NewConfigStore(seeds ...map[string]any) *ConfigStore {
	s := &ConfigStore{values: make(map[string]any)}
	for _, seed := range seeds {
		maps.Copy(s.values, seed)
	}
	return s
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

func (s *ConfigStore) GetInt(key string) int {
	return int(s.number(key, func(v string) (float64, error) {
		n, err := strconv.Atoi(v)
		return float64(n), err
	}))
}

func (s *ConfigStore) GetFloat(key string) float64 {
	return s.number(key, func(v string) (float64, error) {
		return strconv.ParseFloat(v, 64)
	})
}

// number widens any numeric value to float64. Strings go through parse;
// anything unparseable reads as zero.
func (s *ConfigStore) number(key string, parse func(string) (float64, error)) float64 {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	case string:
		f, err := parse(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// GetStringSlice accepts []string, []any (non-strings dropped) or a
// comma-separated string.
func (s *ConfigStore) GetStringSlice(key string) []string {
	v, ok := s.Get(key)
	if !ok {
		return nil
	}
	var items []string
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		items = make([]string, 0, len(list))
		for _, item := range list {
			if str, ok := item.(string); ok {
				items = append(items, str)
			}
		}
		return items
	case string:
		for _, item := range strings.Split(list, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

// Set never fails.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.values))
}

// Path reports ":memory:".
func (s *ConfigStore) Path() string {
	return ":memory:"
}

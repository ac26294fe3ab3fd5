package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimator(t *testing.T) {
	e := Estimator{}
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"héllo wörld", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.Count(tt.text), tt.text)
	}

	assert.Equal(t, "abcdefgh", e.Truncate("abcdefghij", 2))
	assert.Equal(t, "short", e.Truncate("short", 10))
	assert.Empty(t, e.Truncate("anything", 0))
	assert.Equal(t, "éééé", e.Truncate("éééééé", 1))
}

func TestTiktoken(t *testing.T) {
	counter, err := NewTiktoken()
	if err != nil {
		t.Skipf("encoding unavailable: %v", err)
	}

	text := strings.Repeat("hello world ", 50)
	n := counter.Count(text)
	require.Positive(t, n)

	cut := counter.Truncate(text, 10)
	assert.Equal(t, 10, counter.Count(cut))
	assert.True(t, strings.HasPrefix(text, cut))
	assert.Equal(t, text, counter.Truncate(text, n))
	assert.Empty(t, counter.Truncate(text, 0))
}

func TestNew(t *testing.T) {
	assert.NotNil(t, New())
}

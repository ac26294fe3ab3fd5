// Package tokens counts and trims text in model tokens.
package tokens

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Encoding is the BPE encoding used for counting. Local models use other
// vocabularies; cl100k_base is close enough for budgeting.
const Encoding = "cl100k_base"

// charsPerToken is the ratio used when no encoding is available.
const charsPerToken = 4

var (
	_ driven.TokenCounter = (*Tiktoken)(nil)
	_ driven.TokenCounter = Estimator{}
)

// Tiktoken counts tokens with a BPE encoding.
type Tiktoken struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktoken loads the encoding. It may need network access on first use
// unless TIKTOKEN_CACHE_DIR holds the vocabulary.
func NewTiktoken() (*Tiktoken, error) {
	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding: %w", err)
	}
	return &Tiktoken{encoding: enc}, nil
}

// Count returns the number of tokens in text.
func (t *Tiktoken) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// Truncate returns the longest token prefix of text within maxTokens.
func (t *Tiktoken) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	ids := t.encoding.Encode(text, nil, nil)
	if len(ids) <= maxTokens {
		return text
	}
	return t.encoding.Decode(ids[:maxTokens])
}

// Estimator approximates tokens as four characters each.
type Estimator struct{}

// Count returns the estimated number of tokens in text.
func (Estimator) Count(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + charsPerToken - 1) / charsPerToken
}

// Truncate returns the first maxTokens*4 runes of text.
func (Estimator) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	limit := maxTokens * charsPerToken
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}

// New returns a Tiktoken counter, or the Estimator when the encoding
// cannot be loaded.
func New() driven.TokenCounter {
	t, err := NewTiktoken()
	if err != nil {
		logger.Warn("token counting falls back to estimates: %v", err)
		return Estimator{}
	}
	return t
}

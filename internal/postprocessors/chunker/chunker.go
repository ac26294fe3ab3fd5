// Package chunker splits document text into overlapping chunks.
//
// Splits prefer paragraph breaks, then line breaks, then spaces, and fall
// back to a hard cut. Every chunk after the first repeats exactly the
// configured overlap from its predecessor, so the input can always be
// rebuilt from the chunks.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 200

// DefaultSeparators are the boundaries tried in order of preference.
var DefaultSeparators = []string{"\n\n", "\n", " "}

// Chunker splits text into fixed-size, overlapping chunks.
type Chunker struct {
	chunkSize  int
	overlap    int
	separators [][]rune
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// WithSeparators replaces the boundary preference list.
func WithSeparators(seps ...string) Option {
	return func(c *Chunker) {
		c.separators = c.separators[:0]
		for _, s := range seps {
			if s != "" {
				c.separators = append(c.separators, []rune(s))
			}
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
	for _, s := range DefaultSeparators {
		c.separators = append(c.separators, []rune(s))
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Name returns the chunker name.
func (c *Chunker) Name() string {
	return "chunker"
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int { return c.chunkSize }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits doc.RawText into chunks with contiguous indices.
func (c *Chunker) Chunk(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("chunk: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spans := c.spans([]rune(doc.RawText))
	chunks := make([]domain.Chunk, 0, len(spans))
	for i, sp := range spans {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Index:      i,
			Content:    sp.text,
			Overlap:    sp.overlap,
		})
	}
	return chunks, nil
}

// Split returns the chunk texts for text.
func (c *Chunker) Split(text string) []string {
	spans := c.spans([]rune(text))
	out := make([]string, len(spans))
	for i, sp := range spans {
		out[i] = sp.text
	}
	return out
}

// Join rebuilds the text that produced chunks.
func Join(chunks []domain.Chunk) string {
	var b strings.Builder
	for i, ch := range chunks {
		if i == 0 {
			b.WriteString(ch.Content)
			continue
		}
		r := []rune(ch.Content)
		if ch.Overlap <= len(r) {
			b.WriteString(string(r[ch.Overlap:]))
		}
	}
	return b.String()
}

type span struct {
	text    string
	overlap int
}

func (c *Chunker) spans(r []rune) []span {
	n := len(r)
	if n == 0 {
		return nil
	}

	var out []span
	start, overlap := 0, 0
	for {
		end := start + c.chunkSize
		if end >= n {
			out = append(out, span{text: string(r[start:n]), overlap: overlap})
			return out
		}
		end = c.boundary(r, start, end)
		out = append(out, span{text: string(r[start:end]), overlap: overlap})

		overlap = c.overlap
		start = end - overlap
	}
}

// boundary picks the end of the window [start, limit). The split lands just
// after the last preferred separator that still leaves room for the overlap,
// so the next window always starts past start.
func (c *Chunker) boundary(r []rune, start, limit int) int {
	floor := start + c.overlap + 1
	for _, sep := range c.separators {
		for i := limit - len(sep); i+len(sep) >= floor && i >= start; i-- {
			if hasPrefix(r[i:], sep) {
				return i + len(sep)
			}
		}
	}
	return limit
}

func hasPrefix(r, prefix []rune) bool {
	if len(r) < len(prefix) {
		return false
	}
	for i := range prefix {
		if r[i] != prefix[i] {
			return false
		}
	}
	return true
}

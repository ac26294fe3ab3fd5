// Package index implements the embedding index on top of an embedding
// service and a vector store.
package index

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/vecmath"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.EmbeddingIndex = (*Index)(nil)

// Index embeds chunks and stores them, normalised, in a vector store.
// Writes are serialised; reads may run concurrently with each other.
type Index struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore

	mu sync.RWMutex
}

// New creates an Index.
func New(embedder driven.EmbeddingService, store driven.VectorStore) *Index {
	return &Index{embedder: embedder, store: store}
}

// Index embeds every chunk of doc and appends it with enriched metadata.
func (i *Index) Index(ctx context.Context, doc *domain.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("index document: %w", domain.ErrInvalidInput)
	}
	defer logger.Timed("index " + doc.Filename)()

	texts := make([]string, len(doc.Chunks))
	for n, c := range doc.Chunks {
		texts[n] = c.Content
	}

	var vectors [][]float32
	if len(texts) > 0 {
		var err error
		vectors, err = i.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return "", fmt.Errorf("embed chunks: %w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		if len(vectors) != len(texts) {
			return "", fmt.Errorf("embed chunks: got %d vectors for %d chunks: %w",
				len(vectors), len(texts), domain.ErrEmbeddingUnavailable)
		}
	}

	records := make([]driven.VectorRecord, len(doc.Chunks))
	for n, c := range doc.Chunks {
		records[n] = driven.VectorRecord{
			ChunkID:    c.ID,
			DocumentID: doc.ID,
			Position:   c.Index,
			Content:    c.Content,
			Metadata:   chunkMetadata(doc, c),
			Embedding:  vecmath.Normalize(vectors[n]),
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.store.Add(ctx, records); err != nil {
		return "", fmt.Errorf("store embeddings: %w: %w", domain.ErrIndexUnavailable, err)
	}

	logger.Debug("indexed %d chunks of %s", len(records), doc.Filename)
	return domain.DocumentHandle(doc.Filename, len(records)), nil
}

// Retrieve returns the k chunks most similar to query, best first.
func (i *Index) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		k = domain.DefaultRetrievalK
	}

	vector, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	i.mu.RLock()
	hits, err := i.store.Search(ctx, vecmath.Normalize(vector), k)
	i.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("search index: %w: %w", domain.ErrIndexUnavailable, err)
	}

	chunks := make([]domain.RetrievedChunk, len(hits))
	for n, h := range hits {
		chunks[n] = domain.RetrievedChunk{
			Content:  h.Record.Content,
			Metadata: h.Record.Metadata,
			Score:    h.Similarity,
		}
	}
	return chunks, nil
}

// Chunks returns the stored chunks of one document in order.
func (i *Index) Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	i.mu.RLock()
	records, err := i.store.ByDocument(ctx, documentID)
	i.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("load chunks of %s: %w: %w", documentID, domain.ErrIndexUnavailable, err)
	}

	chunks := make([]domain.Chunk, len(records))
	for n, r := range records {
		chunks[n] = domain.Chunk{
			ID:         r.ChunkID,
			DocumentID: r.DocumentID,
			Index:      r.Position,
			Content:    r.Content,
		}
	}
	return chunks, nil
}

// Count returns the number of indexed chunks.
func (i *Index) Count(ctx context.Context) (int, error) {
	return i.store.Count(ctx)
}

// Close closes the vector store and the embedder.
func (i *Index) Close() error {
	return errors.Join(i.store.Close(), i.embedder.Close())
}

func chunkMetadata(doc *domain.Document, c domain.Chunk) map[string]any {
	return map[string]any{
		domain.MetaDocumentID: doc.ID,
		domain.MetaFilename:   doc.Filename,
		domain.MetaFileType:   string(doc.Format),
		domain.MetaChunkID:    c.ID,
		domain.MetaChunkIndex: c.Index,
		domain.MetaChunkText:  domain.Preview(c.Content, domain.ChunkPreviewLength),
	}
}

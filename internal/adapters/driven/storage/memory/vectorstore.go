package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/vecmath"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory, brute-force vector store.
type VectorStore struct {
	mu      sync.RWMutex
	records []driven.VectorRecord
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

// Add appends records.
func (s *VectorStore) Add(_ context.Context, records []driven.VectorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

// Search scans every record and returns the k most similar.
func (s *VectorStore) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scores := make([]vecmath.Scored, len(s.records))
	for i, r := range s.records {
		scores[i] = vecmath.Scored{Index: i, Score: vecmath.Cosine(query, r.Embedding)}
	}

	top := vecmath.TopK(scores, k)
	hits := make([]driven.VectorHit, len(top))
	for i, sc := range top {
		rec := s.records[sc.Index]
		rec.Embedding = nil
		hits[i] = driven.VectorHit{Record: rec, Similarity: sc.Score}
	}
	return hits, nil
}

// ByDocument returns a document's records ordered by position.
func (s *VectorStore) ByDocument(_ context.Context, documentID string) ([]driven.VectorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []driven.VectorRecord
	for _, r := range s.records {
		if r.DocumentID == documentID {
			r.Embedding = nil
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// Count returns the number of records.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}

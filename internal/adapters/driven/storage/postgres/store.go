package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS docqa_embeddings (
	id          BIGSERIAL PRIMARY KEY,
	collection  TEXT NOT NULL,
	chunk_id    TEXT NOT NULL,
	document_id TEXT NOT NULL,
	position    INTEGER NOT NULL,
	content     TEXT NOT NULL,
	metadata    JSONB NOT NULL DEFAULT '{}',
	embedding   vector NOT NULL
);
CREATE INDEX IF NOT EXISTS docqa_embeddings_collection_idx ON docqa_embeddings (collection);
CREATE INDEX IF NOT EXISTS docqa_embeddings_document_idx ON docqa_embeddings (collection, document_id, position);
`

// VectorStore implements driven.VectorStore on a pgvector table.
// Similarity is 1 minus the cosine distance operator.
type VectorStore struct {
	pool       *pgxpool.Pool
	collection string

	mu         sync.Mutex
	dimensions int
}

var _ driven.VectorStore = (*VectorStore)(nil)

// New connects to dsn, ensures the schema exists and returns the store
// for collection. Failures wrap domain.ErrIndexUnavailable.
func New(ctx context.Context, dsn, collection string) (*VectorStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn: %w: %w", domain.ErrIndexUnavailable, domain.ErrInvalidInput)
	}
	if collection == "" {
		return nil, fmt.Errorf("collection name: %w", domain.ErrInvalidInput)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w: %w", domain.ErrIndexUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w: %w", domain.ErrIndexUnavailable, err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w: %w", domain.ErrIndexUnavailable, err)
	}

	s := &VectorStore{pool: pool, collection: collection}

	row := pool.QueryRow(ctx,
		"SELECT COALESCE(MAX(vector_dims(embedding)), 0) FROM docqa_embeddings WHERE collection = $1", collection)
	if err := row.Scan(&s.dimensions); err != nil {
		pool.Close()
		return nil, fmt.Errorf("read dimensions: %w: %w", domain.ErrIndexUnavailable, err)
	}
	return s, nil
}

// Add appends records in one batch transaction.
func (s *VectorStore) Add(ctx context.Context, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dims := s.dimensions
	if dims == 0 {
		dims = len(records[0].Embedding)
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		if len(r.Embedding) == 0 || len(r.Embedding) != dims {
			return fmt.Errorf("embedding for chunk %s has %d dimensions, want %d: %w",
				r.ChunkID, len(r.Embedding), dims, domain.ErrInvalidInput)
		}
		meta, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		batch.Queue(`
			INSERT INTO docqa_embeddings (collection, chunk_id, document_id, position, content, metadata, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, s.collection, r.ChunkID, r.DocumentID, r.Position, r.Content, meta, pgvector.NewVector(r.Embedding))
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("insert embeddings: %w", err)
	}
	s.dimensions = dims
	return nil
}

// Search returns up to k records nearest to query, best first.
func (s *VectorStore) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	hits := []driven.VectorHit{}
	if k <= 0 || len(query) == 0 {
		return hits, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT chunk_id, document_id, position, content, metadata, 1 - (embedding <=> $2) AS similarity
		FROM docqa_embeddings
		WHERE collection = $1
		ORDER BY embedding <=> $2, id
		LIMIT $3
	`, s.collection, pgvector.NewVector(query), k)
	if err != nil {
		return nil, fmt.Errorf("search embeddings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			hit  driven.VectorHit
			meta []byte
		)
		r := &hit.Record
		if err := rows.Scan(&r.ChunkID, &r.DocumentID, &r.Position, &r.Content, &meta, &hit.Similarity); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		if err := decodeMetadata(meta, r); err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// ByDocument returns one document's records ordered by position.
func (s *VectorStore) ByDocument(ctx context.Context, documentID string) ([]driven.VectorRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT chunk_id, document_id, position, content, metadata
		FROM docqa_embeddings
		WHERE collection = $1 AND document_id = $2
		ORDER BY position
	`, s.collection, documentID)
	if err != nil {
		return nil, fmt.Errorf("query document %s: %w", documentID, err)
	}
	defer rows.Close()

	var records []driven.VectorRecord
	for rows.Next() {
		var (
			r    driven.VectorRecord
			meta []byte
		)
		if err := rows.Scan(&r.ChunkID, &r.DocumentID, &r.Position, &r.Content, &meta); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := decodeMetadata(meta, &r); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of records in the collection.
func (s *VectorStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM docqa_embeddings WHERE collection = $1", s.collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count embeddings: %w", err)
	}
	return n, nil
}

// Close closes the connection pool.
func (s *VectorStore) Close() error {
	s.pool.Close()
	return nil
}

func decodeMetadata(raw []byte, r *driven.VectorRecord) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &r.Metadata); err != nil {
		return errors.Join(fmt.Errorf("unmarshalling metadata for chunk %s", r.ChunkID), err)
	}
	return nil
}

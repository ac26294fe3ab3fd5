package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/vecmath"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// vectorStore implements driven.VectorStore over the embeddings table.
// Vectors are compared by brute-force cosine similarity.
type vectorStore struct {
	store        *Store
	collectionID int64

	mu         sync.RWMutex
	dimensions int
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Add appends records in one transaction. The first write fixes the
// collection's dimensions; later records must match them.
func (v *vectorStore) Add(ctx context.Context, records []driven.VectorRecord) (err error) {
	if len(records) == 0 {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	dims := v.dimensions
	if dims == 0 {
		dims = len(records[0].Embedding)
	}
	for _, r := range records {
		if len(r.Embedding) == 0 || len(r.Embedding) != dims {
			return fmt.Errorf("embedding for chunk %s has %d dimensions, want %d: %w",
				r.ChunkID, len(r.Embedding), dims, domain.ErrInvalidInput)
		}
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (collection_id, chunk_id, document_id, position, content, metadata, vector)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		meta, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			v.collectionID, r.ChunkID, r.DocumentID, r.Position, r.Content, string(meta), vecmath.Encode(r.Embedding),
		); err != nil {
			return fmt.Errorf("insert chunk %s: %w", r.ChunkID, err)
		}
	}

	if v.dimensions == 0 {
		if _, err := tx.ExecContext(ctx,
			"UPDATE collections SET dimensions = ? WHERE id = ?", dims, v.collectionID,
		); err != nil {
			return fmt.Errorf("record dimensions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	v.dimensions = dims
	return nil
}

// Search scores every record in the collection and returns the best k.
func (v *vectorStore) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	rows, err := v.store.db.QueryContext(ctx, `
		SELECT chunk_id, document_id, position, content, metadata, vector
		FROM embeddings WHERE collection_id = ? ORDER BY id
	`, v.collectionID)
	if err != nil {
		return nil, fmt.Errorf("query embeddings: %w", err)
	}
	defer rows.Close()

	var (
		records []driven.VectorRecord
		scores  []vecmath.Scored
	)
	for rows.Next() {
		var blob []byte
		r, err := scanRecord(rows, &blob)
		if err != nil {
			return nil, err
		}
		scores = append(scores, vecmath.Scored{
			Index: len(records),
			Score: vecmath.Cosine(query, vecmath.Decode(blob)),
		})
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate embeddings: %w", err)
	}

	top := vecmath.TopK(scores, k)
	hits := make([]driven.VectorHit, len(top))
	for i, sc := range top {
		hits[i] = driven.VectorHit{Record: records[sc.Index], Similarity: sc.Score}
	}
	return hits, nil
}

// ByDocument returns one document's records ordered by position.
func (v *vectorStore) ByDocument(ctx context.Context, documentID string) ([]driven.VectorRecord, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	rows, err := v.store.db.QueryContext(ctx, `
		SELECT chunk_id, document_id, position, content, metadata, vector
		FROM embeddings WHERE collection_id = ? AND document_id = ? ORDER BY position
	`, v.collectionID, documentID)
	if err != nil {
		return nil, fmt.Errorf("query document %s: %w", documentID, err)
	}
	defer rows.Close()

	var records []driven.VectorRecord
	for rows.Next() {
		var blob []byte
		r, err := scanRecord(rows, &blob)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of records in the collection.
func (v *vectorStore) Count(ctx context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var n int
	row := v.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM embeddings WHERE collection_id = ?", v.collectionID)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count embeddings: %w", err)
	}
	return n, nil
}

// Close is a no-op; the owning Store closes the database.
func (v *vectorStore) Close() error {
	return nil
}

// scanRecord reads one embeddings row. The raw vector is left in blob.
func scanRecord(rows *sql.Rows, blob *[]byte) (driven.VectorRecord, error) {
	var (
		r    driven.VectorRecord
		meta string
	)
	if err := rows.Scan(&r.ChunkID, &r.DocumentID, &r.Position, &r.Content, &meta, blob); err != nil {
		return r, fmt.Errorf("scan embedding: %w", err)
	}
	if err := json.Unmarshal([]byte(meta), &r.Metadata); err != nil {
		return r, fmt.Errorf("unmarshalling metadata for chunk %s: %w", r.ChunkID, err)
	}
	return r, nil
}

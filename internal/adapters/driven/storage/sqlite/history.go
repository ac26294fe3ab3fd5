package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure historyStore implements the interface.
var _ driven.HistoryStore = (*historyStore)(nil)

type historyStore struct {
	store *Store
}

// HistoryStore returns a HistoryStore backed by this store.
func (s *Store) HistoryStore() driven.HistoryStore {
	return &historyStore{store: s}
}

func (h *historyStore) Append(ctx context.Context, entries ...domain.QAEntry) (err error) {
	if len(entries) == 0 {
		return nil
	}

	tx, err := h.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history append: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO history (question, answer, sources, asked_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err = stmt.ExecContext(ctx, e.Question, e.Answer, e.Sources, e.Timestamp); err != nil {
			return fmt.Errorf("insert history entry: %w", err)
		}
	}
	return tx.Commit()
}

func (h *historyStore) List(ctx context.Context) ([]domain.QAEntry, error) {
	rows, err := h.store.db.QueryContext(ctx,
		"SELECT question, answer, sources, asked_at FROM history ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.QAEntry, 0)
	for rows.Next() {
		var e domain.QAEntry
		if err := rows.Scan(&e.Question, &e.Answer, &e.Sources, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

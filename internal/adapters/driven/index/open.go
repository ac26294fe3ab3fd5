package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Backend is an opened index together with its document catalogue and
// transcript history.
type Backend struct {
	Index     *Index
	Documents driven.DocumentStore
	History   driven.HistoryStore

	closers []func() error
}

// Close releases the index and any database it owns.
func (b *Backend) Close() error {
	errs := []error{b.Index.Close()}
	for _, c := range b.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// OpenOptions selects where the index lives.
type OpenOptions struct {
	// DataDir holds the SQLite database.
	DataDir string

	// Ephemeral keeps everything in memory for the life of the process.
	Ephemeral bool
}

// Open builds the index for settings. The SQLite database always holds the
// document catalogue and history; with the postgres backend it holds nothing else.
// Failures wrap domain.ErrIndexUnavailable.
func Open(
	ctx context.Context,
	settings domain.IndexSettings,
	embedder driven.EmbeddingService,
	opts OpenOptions,
) (*Backend, error) {
	if opts.Ephemeral {
		return &Backend{
			Index:     New(embedder, memory.NewVectorStore()),
			Documents: memory.NewDocumentStore(),
			History:   memory.NewHistoryStore(),
		}, nil
	}

	store, err := sqlite.NewStore(opts.DataDir)
	if err != nil {
		return nil, err
	}

	var vectors driven.VectorStore
	switch settings.Backend {
	case domain.IndexBackendPostgres:
		vectors, err = postgres.New(ctx, settings.DSN, settings.Collection)
	case domain.IndexBackendSQLite, "":
		vectors, err = store.VectorStore(ctx, settings.Collection)
	default:
		err = fmt.Errorf("unknown index backend %q", settings.Backend)
	}
	if err != nil {
		_ = store.Close()
		if errors.Is(err, domain.ErrIndexUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("open vector store: %w: %w", domain.ErrIndexUnavailable, err)
	}

	return &Backend{
		Index:     New(embedder, vectors),
		Documents: store.DocumentStore(),
		History:   store.HistoryStore(),
		closers:   []func() error{store.Close},
	}, nil
}

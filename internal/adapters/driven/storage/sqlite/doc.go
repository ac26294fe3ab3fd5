// Package sqlite provides a unified SQLite-based implementation of the
// storage ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements two store interfaces
// through a single database connection:
//
//   - VectorStore: append-only embedding records searched by cosine similarity
//   - DocumentStore: the catalogue of ingested documents
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// The database lives at {data_dir}/vectorstore/docqa.db. The default data
// directory is ./data.
//
// # Thread Safety
//
// All operations are thread-safe. Searches take a read lock and appends a
// write lock; SQLite runs in WAL mode so readers do not block each other.
package sqlite

// Package postgres provides a PostgreSQL vector store using the pgvector
// extension. It is selected with index.backend = "postgres" and shares the
// append-only contract of the SQLite store.
package postgres

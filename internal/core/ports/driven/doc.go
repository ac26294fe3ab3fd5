// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Extractor: Turns an upload into plain text for one or more formats
//   - Chunker: Splits document text into overlapping chunks
//   - EmbeddingService: Generates vector embeddings
//   - VectorStore: Durable storage and similarity search over embedding records
//   - EmbeddingIndex: Index/retrieve over an EmbeddingService and a VectorStore
//   - DocumentStore: Catalogue of ingested documents
//   - LLMService: Single-prompt text generation
//   - PromptStore: Prompt templates
//   - TokenCounter: Prompt budget enforcement
//   - ConfigStore: Application configuration
//
// The LLM, embedding service and index are required. Startup fails if any
// of them cannot be initialised.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoDocument indicates an operation needs a document but none is selected.
	ErrNoDocument = errors.New("no document selected")

	// Ingestion Errors.

	// ErrValidation indicates an upload was rejected before extraction.
	ErrValidation = errors.New("validation failed")

	// ErrUnsupportedFormat indicates the declared format has no extractor.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtraction indicates every extraction method failed for a document.
	ErrExtraction = errors.New("extraction failed")

	// ErrEncoding indicates no text encoding in the fallback list could decode the content.
	ErrEncoding = errors.New("no usable text encoding")

	// ErrNoTextExtracted indicates extraction succeeded but produced no text.
	ErrNoTextExtracted = errors.New("no text extracted")

	// Generation Errors.

	// ErrGeneration indicates the language model call failed.
	// Callers convert it to a fixed fallback value and never show it raw.
	ErrGeneration = errors.New("generation failed")

	// Initialisation Errors.

	// ErrLLMUnavailable indicates the LLM service could not be reached at startup.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service could not be reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexUnavailable indicates the embedding index storage could not be opened or written.
	ErrIndexUnavailable = errors.New("embedding index unavailable")
)

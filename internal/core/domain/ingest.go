package domain

// IngestResult is the outcome of ingesting one upload.
// Exactly one of Document and Err is set.
type IngestResult struct {
	// Document is the registered document on success.
	Document *Document

	// Err is the failure, matching one of the domain sentinels.
	Err error

	// Message is a short user-facing description of the outcome.
	Message string
}

// OK returns true when ingestion succeeded.
func (r IngestResult) OK() bool {
	return r.Err == nil && r.Document != nil
}

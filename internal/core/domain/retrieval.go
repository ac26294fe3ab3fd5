package domain

// Metadata keys stored with every embedding record.
const (
	MetaDocumentID = "document_id"
	MetaFilename   = "filename"
	MetaFileType   = "file_type"
	MetaChunkID    = "chunk_id"
	MetaChunkIndex = "chunk_index"
	MetaChunkText  = "chunk_text"
)

// ChunkPreviewLength is the length of the chunk_text preview stored in the index.
const ChunkPreviewLength = 100

// SourcePreviewLength is the length of source previews shown with answers.
const SourcePreviewLength = 300

// DefaultRetrievalK is the number of chunks retrieved when k is unset.
const DefaultRetrievalK = 3

// RetrievedChunk is one result of a similarity search.
type RetrievedChunk struct {
	// Content is the full chunk text.
	Content string `json:"content" yaml:"content"`

	// Metadata is the enriched per-chunk metadata stored at index time.
	Metadata map[string]any `json:"metadata" yaml:"metadata"`

	// Score is the cosine similarity to the query, higher is better.
	Score float64 `json:"score" yaml:"score"`
}

// Filename returns the source filename from metadata.
func (r RetrievedChunk) Filename() string {
	s, _ := r.Metadata[MetaFilename].(string)
	return s
}

// ChunkIndex returns the chunk index from metadata, or -1 when unknown.
func (r RetrievedChunk) ChunkIndex() int {
	switch v := r.Metadata[MetaChunkIndex].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return -1
	}
}

// Source is a retrieved chunk as cited alongside an answer.
type Source struct {
	// Preview is the chunk text truncated for display.
	Preview string `json:"preview" yaml:"preview"`

	// Chunk is the exact retrieved chunk.
	Chunk RetrievedChunk `json:"chunk" yaml:"chunk"`
}

// Answer is a generated answer with the sources it was conditioned on.
type Answer struct {
	// Question is the question asked.
	Question string `json:"question" yaml:"question"`

	// Text is the generated answer.
	Text string `json:"answer" yaml:"answer"`

	// Sources are the retrieved chunks in rank order.
	Sources []Source `json:"sources" yaml:"sources"`
}

// NewSources wraps retrieved chunks with display previews.
func NewSources(chunks []RetrievedChunk) []Source {
	sources := make([]Source, len(chunks))
	for i, c := range chunks {
		sources[i] = Source{
			Preview: Preview(c.Content, SourcePreviewLength),
			Chunk:   c,
		}
	}
	return sources
}

package domain

// Upload is a file handed to the ingestion pipeline.
// It is the input to validation and extraction.
type Upload struct {
	// Filename is the original file name, used for display and the document handle.
	Filename string

	// Format is the declared format tag.
	Format Format

	// Content is the raw bytes.
	Content []byte

	// Size is the declared size in bytes. Zero means len(Content).
	Size int64
}

// DeclaredSize returns the declared size, falling back to the content length.
func (u *Upload) DeclaredSize() int64 {
	if u.Size > 0 {
		return u.Size
	}
	return int64(len(u.Content))
}

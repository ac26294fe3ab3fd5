package domain

import (
	"path/filepath"
	"strings"
)

// Format is the declared type of an uploaded document.
type Format string

// Supported document formats.
const (
	// FormatPDF is a Portable Document Format file.
	FormatPDF Format = "pdf"

	// FormatDOCX is an Office Open XML word processing document.
	FormatDOCX Format = "docx"

	// FormatText is a plain text file.
	FormatText Format = "txt"
)

// IsValid returns true if the format is recognised.
func (f Format) IsValid() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatText:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f Format) String() string {
	return string(f)
}

// MIMEType returns the canonical MIME type for the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatText:
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// FormatFromFilename derives the format tag from a file extension.
// The result may be invalid; callers validate it against the supported list.
func FormatFromFilename(name string) Format {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "text" {
		return FormatText
	}
	return Format(ext)
}

// AllFormats returns every format docqa can extract.
func AllFormats() []Format {
	return []Format{FormatPDF, FormatText, FormatDOCX}
}

package pdf

import (
	"fmt"
	"os"

	lpdf "github.com/ledongthuc/pdf"
)

// ledongthucPages reads pages with github.com/ledongthuc/pdf.
type ledongthucPages struct {
	file   *os.File
	reader *lpdf.Reader
}

func openPages(path string) (pageSource, error) {
	f, r, err := lpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &ledongthucPages{file: f, reader: r}, nil
}

func (p *ledongthucPages) NumPage() int {
	return p.reader.NumPage()
}

// PageText returns the plain text of page n (1-based).
// The reader panics on some malformed content streams; that is reported as an error.
func (p *ledongthucPages) PageText(n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", n, r)
		}
	}()

	page := p.reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func (p *ledongthucPages) Close() error {
	return p.file.Close()
}

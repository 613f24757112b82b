// Package document extracts chunked plain text from PDF documents.
//
// Extraction is page-oriented: each page's text is split into consecutive
// non-overlapping slices of at most the configured chunk size, so that
// concatenating a page's chunks reproduces the page text exactly.
package document

import (
	"errors"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// ErrDecode indicates the input byte stream is not a valid PDF.
var ErrDecode = errors.New("invalid PDF document")

// Chunk is one bounded slice of extracted page text.
type Chunk struct {
	Text string
	Page int // 0-based page number
}

// SplitPage splits page text into consecutive non-overlapping slices of at
// most chunkSize characters (runes). The last slice may be shorter. Empty
// text yields no slices.
func SplitPage(text string, chunkSize int) []string {
	if chunkSize <= 0 || text == "" {
		return nil
	}
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+chunkSize-1)/chunkSize)
	for i := 0; i < len(runes); i += chunkSize {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// Extract decodes a PDF from raw bytes and yields its chunks in document
// order: pages first (0-based), then chunk position within the page.
//
// The bytes are staged in a temporary file for the decoder; the file is
// removed when extraction returns, whether it succeeded or failed.
//
// yield is called once per chunk; returning an error from yield stops
// extraction and propagates that error unchanged.
func Extract(data []byte, chunkSize int, yield func(Chunk) error) (err error) {
	if chunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}

	tmp, err := os.CreateTemp("", "gtutor-*.pdf")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && err == nil {
			err = fmt.Errorf("removing temp file: %w", rmErr)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	// The pdf package panics on some malformed inputs instead of returning
	// an error. Fold both failure modes into ErrDecode.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrDecode, r)
		}
	}()

	f, reader, err := pdf.Open(tmpName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer func() { _ = f.Close() }()

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, textErr := page.GetPlainText(nil)
		if textErr != nil {
			return fmt.Errorf("%w: extracting page %d: %v", ErrDecode, pageNum-1, textErr)
		}

		for _, slice := range SplitPage(text, chunkSize) {
			if yieldErr := yield(Chunk{Text: slice, Page: pageNum - 1}); yieldErr != nil {
				return yieldErr
			}
		}
	}

	return nil
}

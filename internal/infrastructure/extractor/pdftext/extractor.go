package pdftext

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor reads the embedded text layer of PDF files. Scanned PDFs yield
// blank text and are left to OCR.
type Extractor struct {
	maxPages int
}

// New returns an extractor reading at most maxPages pages; 0 means all.
func New(maxPages int) *Extractor {
	return &Extractor{maxPages: maxPages}
}

func (e *Extractor) ExtractText(ctx context.Context, fullPath string) (text string, err error) {
	// The parser panics on some malformed xref tables.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("parse pdf %s: %v", fullPath, rec)
		}
	}()

	f, r, err := pdf.Open(fullPath)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages := r.NumPage()
	if e.maxPages > 0 && pages > e.maxPages {
		pages = e.maxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read page %d: %w", i, err)
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}

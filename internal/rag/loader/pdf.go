package loader

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"github.com/rgia/raglab/internal/config"
)

// extractPDF pulls the embedded text layer out of a PDF, page by page.
// A page that fails to parse is dropped; the remaining pages still count.
// An image-only PDF comes back as the empty string, which is the loader's
// cue to try OCR.
func (l *Loader) extractPDF(path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var text strings.Builder
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			l.logger.Error("Error parsing page content", "path", path, "page", i, "error", err)
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n")
		}
		text.WriteString(content)
	}
	return text.String(), nil
}

// protectExtract runs GetPlainText on its own goroutine because the pdf
// library can hang on malformed cross-reference tables.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(config.PageExtractTimeout):
		return "", errors.New("page extraction timeout")
	}
}

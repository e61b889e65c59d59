package ocr

import "context"

// Engine extracts text from an image-only PDF. Implementations are used by
// the loader as a fallback when direct text extraction comes back empty.
type Engine interface {
	ExtractPDF(ctx context.Context, path string) (string, error)
}

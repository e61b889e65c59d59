package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rgia/raglab/pkg/logger_i"
)

// TesseractEngine rasterizes PDF pages with pdftoppm and runs tesseract on
// each page image. Both binaries have to be on PATH; the installer ships
// them alongside the platform.
type TesseractEngine struct {
	Languages string //tesseract language set, e.g. "spa" or "spa+eng"
	logger    *logger_i.Logger
}

func NewTesseractEngine(languages string) *TesseractEngine {
	return &TesseractEngine{
		Languages: languages,
		logger:    logger_i.NewLogger("OCR"),
	}
}

func (e *TesseractEngine) ExtractPDF(ctx context.Context, path string) (string, error) {
	workDir, err := os.MkdirTemp("", "raglab-ocr-*")
	if err != nil {
		return "", fmt.Errorf("creating ocr work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	prefix := filepath.Join(workDir, "page")
	rasterize := exec.CommandContext(ctx, "pdftoppm", "-r", "300", "-png", path, prefix)
	if out, err := rasterize.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdftoppm failed for %s: %w: %s", path, err, strings.TrimSpace(string(out)))
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return "", err
	}
	// pdftoppm zero-pads page numbers, lexical order is page order
	sort.Strings(pages)

	var text strings.Builder
	for _, page := range pages {
		recognize := exec.CommandContext(ctx, "tesseract", page, "stdout", "-l", e.Languages)
		out, err := recognize.Output()
		if err != nil {
			// one bad page should not sink the whole document
			e.logger.Error("tesseract failed on page", "page", page, "error", err)
			continue
		}
		text.Write(out)
	}
	return text.String(), nil
}

package loader

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/lu4p/cat"
	"github.com/schollz/progressbar/v3"

	"github.com/rgia/raglab/internal/domain/ragModel"
	"github.com/rgia/raglab/internal/rag/ocr"
	"github.com/rgia/raglab/pkg/logger_i"
)

// Loader discovers a tenant's ingestible files and turns each one into a
// Document. A broken file is skipped and reported on the failure side
// channel; the run carries on with the rest.
type Loader struct {
	ocrEngine    ocr.Engine //nil when OCR is disabled
	showProgress bool
	logger       *logger_i.Logger

	//swappable in tests, defaults to dslipak/pdf extraction
	pdfText func(path string) (string, error)
}

func New(ocrEngine ocr.Engine, showProgress bool) *Loader {
	l := &Loader{
		ocrEngine:    ocrEngine,
		showProgress: showProgress,
		logger:       logger_i.NewLogger("Document Loader"),
	}
	l.pdfText = l.extractPDF
	return l
}

func matchesExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".md", ".txt":
		return true
	}
	return false
}

// Load walks root recursively and loads every pdf/md/txt file found.
// Zero matching files is not an error: the caller gets an empty slice and
// decides that the run has nothing to do.
func (l *Loader) Load(ctx context.Context, root string) ([]ragModel.Document, []ragModel.LoadFailure, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && matchesExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if len(files) == 0 {
		l.logger.Warn("No matching files found", "root", root)
		return nil, nil, nil
	}

	var bar *progressbar.ProgressBar
	if l.showProgress {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Cargando documentos"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var docs []ragModel.Document
	var failures []ragModel.LoadFailure
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		doc, err := l.loadFile(ctx, path)
		if bar != nil {
			bar.Add(1)
		}
		if err != nil {
			l.logger.Error("Skipping unreadable document", "path", path, "error", err)
			failures = append(failures, ragModel.LoadFailure{Path: path, Err: err})
			continue
		}
		if strings.TrimSpace(doc.Text) == "" {
			l.logger.Warn("Document has no extractable text, skipping", "path", path)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, failures, nil
}

func (l *Loader) loadFile(ctx context.Context, path string) (ragModel.Document, error) {
	meta := ragModel.Metadata{SourcePath: path}

	var text string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = l.pdfText(path)
		if err != nil {
			return ragModel.Document{}, err
		}
		if strings.TrimSpace(text) == "" && l.ocrEngine != nil {
			l.logger.Warn("PDF has no detectable text, attempting OCR", "path", path)
			text, err = l.ocrEngine.ExtractPDF(ctx, path)
			if err != nil {
				return ragModel.Document{}, err
			}
			meta.Extra = map[string]string{"ocr": "true"}
		}
	default: //.md and .txt are both plain text
		text, err = cat.File(path)
		if err != nil {
			return ragModel.Document{}, err
		}
	}

	return ragModel.Document{Text: text, Metadata: meta}, nil
}

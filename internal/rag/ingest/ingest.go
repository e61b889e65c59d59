package ingest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/rgia/raglab/internal/config"
	"github.com/rgia/raglab/internal/domain/ragModel"
	"github.com/rgia/raglab/internal/metrics"
	"github.com/rgia/raglab/internal/rag/chunker"
	"github.com/rgia/raglab/internal/rag/embedding"
	"github.com/rgia/raglab/internal/rag/vectorDB"
	"github.com/rgia/raglab/pkg/logger_i"
)

// DocumentLoader is what the pipeline needs from the loader; satisfied by
// loader.Loader and by test mocks.
type DocumentLoader interface {
	Load(ctx context.Context, root string) ([]ragModel.Document, []ragModel.LoadFailure, error)
}

// Summary is the success outcome of one ingestion run.
type Summary struct {
	Documents int
	Points    int
	Skipped   []ragModel.LoadFailure
	// NothingToDo is the distinct "no documents found" success, not an error.
	NothingToDo bool
}

// Pipeline runs one tenant's ingestion end to end:
// ensure collection -> load -> chunk -> embed -> upsert.
type Pipeline struct {
	cfg          config.Config
	loader       DocumentLoader
	chunker      *chunker.Chunker
	embedder     embedding.Embedder
	store        vectorDB.Store
	showProgress bool
	logger       *logger_i.Logger
}

func NewPipeline(cfg config.Config, l DocumentLoader, e embedding.Embedder, s vectorDB.Store, showProgress bool) *Pipeline {
	return &Pipeline{
		cfg:          cfg,
		loader:       l,
		chunker:      chunker.New(config.ChunkSize, config.ChunkOverlap),
		embedder:     e,
		store:        s,
		showProgress: showProgress,
		logger:       logger_i.NewLogger("Ingestion"),
	}
}

// Run ingests one tenant. Collaborator failures (vector store, embedding
// service) are fatal for the run and come back as errors; per-file load
// problems are already absorbed by the loader and only show up in
// Summary.Skipped. A point is never upserted without its vector: any
// embedding failure aborts the run before the single upsert call.
func (p *Pipeline) Run(ctx context.Context, tenant string) (Summary, error) {
	log := p.logger.With("tenant", tenant)
	log.Info("--- Iniciando ingesta ---")

	docsDir := p.cfg.TenantDocsDir(tenant)
	if info, err := os.Stat(docsDir); err != nil || !info.IsDir() {
		return Summary{}, fmt.Errorf("tenant document directory %q does not exist", docsDir)
	}

	collection := p.cfg.CollectionName(tenant)
	dim := uint64(p.embedder.Dimension())
	if err := p.store.EnsureCollection(ctx, collection, dim); err != nil {
		return Summary{}, fmt.Errorf("ensuring collection: %w", err)
	}

	start := time.Now()
	docs, skipped, err := p.loader.Load(ctx, docsDir)
	metrics.CaptureExecutionMetrics("document_load", time.Since(start))
	if err != nil {
		return Summary{}, fmt.Errorf("loading documents: %w", err)
	}
	for range docs {
		metrics.CountDocumentLoaded(tenant)
	}
	for _, f := range skipped {
		log.Error("Documento omitido", "path", f.Path, "error", f.Err)
		metrics.CountDocumentSkipped(tenant)
	}

	if len(docs) == 0 {
		log.Info("No se encontraron documentos nuevos o legibles para procesar")
		return Summary{Skipped: skipped, NothingToDo: true}, nil
	}

	chunks := p.chunker.SplitAll(docs)
	log.Info("Documentos troceados", "documents", len(docs), "chunks", len(chunks))

	vectors, err := p.embedChunks(ctx, tenant, chunks)
	if err != nil {
		return Summary{}, err
	}

	points := buildPoints(chunks, vectors)
	start = time.Now()
	if err := p.store.Upsert(ctx, collection, points); err != nil {
		return Summary{}, fmt.Errorf("upserting points: %w", err)
	}
	metrics.CaptureExecutionMetrics("vector_upsert", time.Since(start))
	metrics.CountPointsUpserted(tenant, len(points))

	log.Info("--- Ingesta completada ---", "points", len(points), "skipped", len(skipped))
	return Summary{Documents: len(docs), Points: len(points), Skipped: skipped}, nil
}

// embedChunks embeds every chunk before anything is written. The batches
// only slice the embedding calls; a single failing batch aborts the run.
func (p *Pipeline) embedChunks(ctx context.Context, tenant string, chunks []ragModel.Chunk) ([][]float32, error) {
	var bar *progressbar.ProgressBar
	if p.showProgress {
		bar = progressbar.NewOptions(len(chunks),
			progressbar.OptionSetDescription("Embeddings para "+tenant),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	dim := p.embedder.Dimension()
	vectors := make([][]float32, 0, len(chunks))
	for i := 0; i < len(chunks); i += config.EmbedBatchSize {
		end := i + config.EmbedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		texts := make([]string, len(batch))
		for j, c := range batch {
			texts[j] = c.Text
		}

		start := time.Now()
		batchVectors, err := p.embedder.BatchEmbedding(ctx, texts)
		metrics.CaptureExecutionMetrics("embedding", time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("embedding batch failed: %w", err)
		}
		if len(batchVectors) != len(batch) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(batchVectors), len(batch))
		}
		if err := embedding.CheckDimensions(batchVectors, dim); err != nil {
			return nil, fmt.Errorf("embedding dimension mismatch: %w", err)
		}

		vectors = append(vectors, batchVectors...)
		if bar != nil {
			bar.Add(len(batch))
		}
	}
	return vectors, nil
}

// buildPoints pairs chunks with their vectors under content-hash ids, so
// re-ingesting identical text lands on the same point.
func buildPoints(chunks []ragModel.Chunk, vectors [][]float32) []ragModel.Point {
	points := make([]ragModel.Point, len(chunks))
	for i, c := range chunks {
		points[i] = ragModel.Point{
			ID:          ragModel.DerivePointID(c.Text),
			Vector:      vectors[i],
			Text:        c.Text,
			Metadata:    c.Metadata,
			ContentHash: ragModel.ContentHash(c.Text),
		}
	}
	return points
}

package embedding

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/rgia/raglab/internal/config"
	"github.com/rgia/raglab/internal/rag/embedding/googleEmbedding"
	"github.com/rgia/raglab/internal/rag/embedding/ollamaEmbedding"
	"github.com/rgia/raglab/internal/rag/embedding/openaiEmbedding"
)

// NewEmbedder builds the deployment's embedder from config and wraps it in
// the shared rate limiter.
func NewEmbedder(ctx context.Context, cfg config.Config) (Embedder, error) {
	var inner Embedder
	switch cfg.EmbeddingProvider {
	case "ollama":
		inner = ollamaEmbedding.NewClient(cfg.OllamaBaseURL(), cfg.EmbeddingModel, cfg.EmbeddingDim)

	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		inner = openaiEmbedding.NewClient(cfg.OpenAIKey, cfg.EmbeddingModel, cfg.EmbeddingDim)

	case "google":
		c, err := googleEmbedding.NewClient(ctx, cfg.GoogleKey, cfg.EmbeddingModel, cfg.EmbeddingDim)
		if err != nil {
			return nil, err
		}
		inner = c

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbeddingProvider)
	}

	limiter := rate.NewLimiter(rate.Limit(config.EmbedRequestsPerSecond), config.EmbedBurst)
	return &limitedEmbedder{inner: inner, limiter: limiter}, nil
}

// limitedEmbedder throttles calls to the embedding service. Batch
// ingestion fires requests in a tight loop and local Ollama in particular
// has no server-side admission control.
type limitedEmbedder struct {
	inner   Embedder
	limiter *rate.Limiter
}

func (l *limitedEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.inner.GetEmbedding(ctx, query)
}

func (l *limitedEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.inner.BatchEmbedding(ctx, chunks)
}

func (l *limitedEmbedder) Dimension() int {
	return l.inner.Dimension()
}

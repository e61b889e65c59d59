package embedding

import (
	"context"
	"testing"

	"golang.org/x/time/rate"

	"github.com/rgia/raglab/internal/config"
)

func TestCheckDimensions(t *testing.T) {
	tests := []struct {
		name    string
		vectors [][]float32
		dim     int
		wantErr bool
	}{
		{"All_Match", [][]float32{{1, 2, 3}, {4, 5, 6}}, 3, false},
		{"Empty_Batch", nil, 3, false},
		{"One_Short", [][]float32{{1, 2, 3}, {4, 5}}, 3, true},
		{"One_Long", [][]float32{{1, 2, 3, 4}}, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDimensions(tt.vectors, tt.dim)
			if (err != nil) != tt.wantErr {
				t.Errorf("got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewEmbedder(t *testing.T) {
	base := config.Config{
		EmbeddingModel: "nomic-embed-text",
		EmbeddingDim:   384,
		OllamaHost:     "127.0.0.1",
		OllamaPort:     11434,
	}

	t.Run("Ollama_Default", func(t *testing.T) {
		cfg := base
		cfg.EmbeddingProvider = "ollama"
		e, err := NewEmbedder(context.Background(), cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.Dimension() != 384 {
			t.Errorf("Dimension got %d", e.Dimension())
		}
		if _, ok := e.(*limitedEmbedder); !ok {
			t.Error("embedder is not rate limited")
		}
	})

	t.Run("OpenAI_Requires_Key", func(t *testing.T) {
		cfg := base
		cfg.EmbeddingProvider = "openai"
		if _, err := NewEmbedder(context.Background(), cfg); err == nil {
			t.Fatal("expected an error without OPENAI_API_KEY")
		}
	})

	t.Run("Unknown_Provider", func(t *testing.T) {
		cfg := base
		cfg.EmbeddingProvider = "word2vec"
		if _, err := NewEmbedder(context.Background(), cfg); err == nil {
			t.Fatal("expected an error for an unknown provider")
		}
	})
}

type countingEmbedder struct {
	calls int
}

func (c *countingEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	c.calls++
	return []float32{1}, nil
}

func (c *countingEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	c.calls++
	return [][]float32{{1}}, nil
}

func (c *countingEmbedder) Dimension() int { return 1 }

func TestLimitedEmbedder_CancelledContextSkipsTheCall(t *testing.T) {
	inner := &countingEmbedder{}
	l := &limitedEmbedder{inner: inner, limiter: rate.NewLimiter(rate.Limit(config.EmbedRequestsPerSecond), config.EmbedBurst)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.GetEmbedding(ctx, "q"); err == nil {
		t.Fatal("expected the limiter to surface the cancelled context")
	}
	if inner.calls != 0 {
		t.Errorf("inner embedder was called %d times after cancellation", inner.calls)
	}
}

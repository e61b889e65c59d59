package rag

import (
	"context"

	"github.com/rgia/raglab/internal/config"
	"github.com/rgia/raglab/internal/rag/embedding"
	"github.com/rgia/raglab/internal/rag/ingest"
	"github.com/rgia/raglab/internal/rag/llm"
	"github.com/rgia/raglab/internal/rag/query"
	"github.com/rgia/raglab/internal/rag/vectorDB"
)

// Service is the public contract of the pipeline core. The CLI (or any
// other invoker) only ever talks to this interface; the concrete
// embedder, store and model provider stay private to the implementation
// so they can be swapped for mocks in tests.
type Service interface {
	Ingest(ctx context.Context, tenant string) (ingest.Summary, error)
	Query(ctx context.Context, tenant string, question string, emit func(token string) error) (query.Result, error)
}

type service struct {
	ingestion *ingest.Pipeline
	querying  *query.Pipeline
}

// NewService wires both pipelines over one shared set of collaborators.
func NewService(cfg config.Config, l ingest.DocumentLoader, e embedding.Embedder, s vectorDB.Store, p llm.Provider, showProgress bool) Service {
	return &service{
		ingestion: ingest.NewPipeline(cfg, l, e, s, showProgress),
		querying:  query.NewPipeline(cfg, e, s, p),
	}
}

func (s *service) Ingest(ctx context.Context, tenant string) (ingest.Summary, error) {
	return s.ingestion.Run(ctx, tenant)
}

func (s *service) Query(ctx context.Context, tenant string, question string, emit func(token string) error) (query.Result, error) {
	return s.querying.Answer(ctx, tenant, question, emit)
}

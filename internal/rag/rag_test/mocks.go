package ragtest

import (
	"context"

	"github.com/rgia/raglab/internal/domain/ragModel"
)

// MockStore implements vectorDB.Store
type MockStore struct {
	// Control fields to simulate different behaviors
	OnEnsureCollection func(ctx context.Context, name string, dim uint64) error
	OnUpsert           func(ctx context.Context, collection string, points []ragModel.Point) error
	OnSearch           func(ctx context.Context, collection string, vector []float32, limit uint64) ([]ragModel.SearchResult, error)

	EnsureCalls []string
	UpsertCalls int
	Upserted    []ragModel.Point
}

func (m *MockStore) EnsureCollection(ctx context.Context, name string, dim uint64) error {
	m.EnsureCalls = append(m.EnsureCalls, name)
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx, name, dim)
	}
	return nil
}

func (m *MockStore) Upsert(ctx context.Context, collection string, points []ragModel.Point) error {
	m.UpsertCalls++
	m.Upserted = append(m.Upserted, points...)
	if m.OnUpsert != nil {
		return m.OnUpsert(ctx, collection, points)
	}
	return nil
}

func (m *MockStore) Search(ctx context.Context, collection string, vector []float32, limit uint64) ([]ragModel.SearchResult, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, collection, vector, limit)
	}
	return nil, nil
}

func (m *MockStore) Close() error { return nil }

// MockEmbedder implements embedding.Embedder with a fixed dimension.
type MockEmbedder struct {
	Dim              int
	OnGetEmbedding   func(ctx context.Context, query string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) Dimension() int {
	if m.Dim == 0 {
		return 3
	}
	return m.Dim
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return make([]float32, m.Dimension()), nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	vectors := make([][]float32, len(chunks))
	for i := range vectors {
		vectors[i] = make([]float32, m.Dimension())
	}
	return vectors, nil
}

// MockLoader implements ingest.DocumentLoader
type MockLoader struct {
	OnLoad func(ctx context.Context, root string) ([]ragModel.Document, []ragModel.LoadFailure, error)
}

func (m *MockLoader) Load(ctx context.Context, root string) ([]ragModel.Document, []ragModel.LoadFailure, error) {
	if m.OnLoad != nil {
		return m.OnLoad(ctx, root)
	}
	return nil, nil, nil
}

// MockProvider implements llm.Provider
type MockProvider struct {
	OnStream    func(ctx context.Context, prompt string, emit func(token string) error) error
	StreamCalls int
	LastPrompt  string
}

func (m *MockProvider) Stream(ctx context.Context, prompt string, emit func(token string) error) error {
	m.StreamCalls++
	m.LastPrompt = prompt
	if m.OnStream != nil {
		return m.OnStream(ctx, prompt, emit)
	}
	return emit("mocked llm response")
}

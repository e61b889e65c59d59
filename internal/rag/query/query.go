package query

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rgia/raglab/internal/config"
	"github.com/rgia/raglab/internal/domain/ragModel"
	"github.com/rgia/raglab/internal/metrics"
	"github.com/rgia/raglab/internal/rag/embedding"
	"github.com/rgia/raglab/internal/rag/llm"
	"github.com/rgia/raglab/internal/rag/vectorDB"
	"github.com/rgia/raglab/pkg/logger_i"
)

// MsgInsufficientInfo is the fixed response when retrieval finds nothing
// relevant. It doubles as the fallback sentence the prompt instructs the
// model to emit, so the user sees the same wording either way.
const MsgInsufficientInfo = "No tengo suficiente información en mis documentos para responder a esa pregunta."

// ErrLLMUnavailable marks a language-model connection failure. Callers
// surface it with their own apology text; it must never be confused with
// the no-relevant-documents outcome.
var ErrLLMUnavailable = errors.New("language model unavailable")

const promptTemplate = `Eres un asistente experto que responde preguntas basándose únicamente en el contexto proporcionado.
Si la respuesta no se encuentra en el contexto, di explícitamente: "%s"

Contexto Proporcionado:
%s

Pregunta del Usuario: %s

Respuesta Precisa y Basada en el Contexto:
`

const contextSeparator = "\n---\n"

// Source attributes part of the answer to a document, basename only.
type Source struct {
	File  string
	Score float32
}

// Result is what remains after the stream has finished.
type Result struct {
	Sources []Source
	// NoContext marks the fixed insufficient-information outcome: retrieval
	// came back empty and the model was never contacted.
	NoContext bool
}

// Pipeline answers one tenant's question from its own collection.
type Pipeline struct {
	cfg      config.Config
	embedder embedding.Embedder
	store    vectorDB.Store
	provider llm.Provider
	logger   *logger_i.Logger
}

func NewPipeline(cfg config.Config, e embedding.Embedder, s vectorDB.Store, p llm.Provider) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		embedder: e,
		store:    s,
		provider: p,
		logger:   logger_i.NewLogger("Query"),
	}
}

// Answer embeds the question, searches the tenant collection and streams
// the model's completion through emit. Emitted text is never retracted;
// cancelling ctx aborts the stream mid-way.
func (p *Pipeline) Answer(ctx context.Context, tenant string, question string, emit func(token string) error) (Result, error) {
	log := p.logger.With("tenant", tenant)
	collection := p.cfg.CollectionName(tenant)
	log.Info("Realizando consulta", "collection", collection)

	start := time.Now()
	queryVector, err := p.embedder.GetEmbedding(ctx, question)
	metrics.CaptureExecutionMetrics("query_embedding", time.Since(start))
	if err != nil {
		metrics.CountQuery(tenant, "embed_error")
		return Result{}, fmt.Errorf("embedding query: %w", err)
	}

	start = time.Now()
	hits, err := p.store.Search(ctx, collection, queryVector, config.SearchTopK)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(start))
	if err != nil {
		metrics.CountQuery(tenant, "search_error")
		return Result{}, fmt.Errorf("searching collection: %w", err)
	}

	if len(hits) == 0 {
		log.Info("Sin resultados relevantes, no se contacta al modelo")
		metrics.CountQuery(tenant, "no_context")
		if err := emit(MsgInsufficientInfo); err != nil {
			return Result{}, err
		}
		return Result{NoContext: true}, nil
	}

	prompt := buildPrompt(hits, question)
	log.Debug("Enviando prompt al modelo", "context_chunks", len(hits))

	start = time.Now()
	err = p.provider.Stream(ctx, prompt, emit)
	metrics.CaptureExecutionMetrics("llm_stream", time.Since(start))
	if err != nil {
		log.Error("Error al comunicarse con el modelo de lenguaje", "error", err)
		metrics.CountQuery(tenant, "llm_error")
		return Result{}, fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}

	metrics.CountQuery(tenant, "answered")
	return Result{Sources: collectSources(hits)}, nil
}

func buildPrompt(hits []ragModel.SearchResult, question string) string {
	contexts := make([]string, len(hits))
	for i, h := range hits {
		contexts[i] = h.Text
	}
	return fmt.Sprintf(promptTemplate, MsgInsufficientInfo, strings.Join(contexts, contextSeparator), question)
}

// collectSources lists each contributing file once, basename only, in
// search-result order with the file's best score.
func collectSources(hits []ragModel.SearchResult) []Source {
	seen := make(map[string]bool)
	var sources []Source
	for _, h := range hits {
		name := filepath.Base(h.Metadata.SourcePath)
		if name == "." || seen[name] {
			continue
		}
		seen[name] = true
		sources = append(sources, Source{File: name, Score: h.Score})
	}
	return sources
}

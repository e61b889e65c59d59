package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// CollectionPrefix + tenant id = qdrant collection name. Tenant
	// isolation hangs off this being a pure function of the tenant id.
	CollectionPrefix = "rag_coll_"

	DefaultEmbeddingDim = 384
	SearchTopK          = 5

	ChunkSize    = 512
	ChunkOverlap = 50

	DefaultQdrantHost     = "127.0.0.1"
	DefaultQdrantGrpcPort = 6334
	QdrantPoolSize        = 1
	QdrantUseTLS          = false

	DefaultOllamaHost = "127.0.0.1"
	DefaultOllamaPort = 11434

	DefaultOCRLanguages = "spa"

	// Embedding calls per second against the embedding service. Local
	// Ollama chokes on unthrottled batch traffic, metered APIs bill for it.
	EmbedRequestsPerSecond = 4
	EmbedBurst             = 8

	EmbedBatchSize = 100

	PageExtractTimeout = 10 * time.Second

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second
)

// Config is built once at process entry and handed to every component
// constructor. Pipeline components never read the environment themselves.
type Config struct {
	//lab layout
	LabDir string //RAG_LAB_DIR, root of documents/, logs/ and locks/

	//vector store
	QdrantHost string
	QdrantPort int
	StoreKind  string //"qdrant" (default) or "memory" for dry runs

	//embedding
	EmbeddingProvider string //"ollama" (default), "openai", "google"
	EmbeddingModel    string
	EmbeddingDim      int

	//llm
	LLMProvider    string //"ollama" (default), "openai", "google"
	LLMModelChoice string //alias, resolved per provider
	OllamaHost     string
	OllamaPort     int
	OpenAIKey      string
	GoogleKey      string

	//ocr
	EnableOCR    bool
	OCRLanguages string

	//metrics
	MetricsGateway string //optional pushgateway address

	IsProd bool
}

// Load reads the environment into a Config. It does not validate; callers
// run Validate once flags have been merged in.
func Load() Config {
	cfg := Config{
		LabDir:            os.Getenv("RAG_LAB_DIR"),
		QdrantHost:        envOr("QDRANT_HOST", DefaultQdrantHost),
		QdrantPort:        envIntOr("QDRANT_GRPC_PORT", DefaultQdrantGrpcPort),
		StoreKind:         envOr("VECTOR_STORE", "qdrant"),
		EmbeddingProvider: envOr("EMBEDDING_PROVIDER", "ollama"),
		EmbeddingModel:    os.Getenv("EMBEDDING_MODEL"),
		EmbeddingDim:      envIntOr("EMBEDDING_DIM", DefaultEmbeddingDim),
		LLMProvider:       envOr("LLM_PROVIDER", "ollama"),
		LLMModelChoice:    envOr("LLM_MODEL_CHOICE", "phi3"),
		OllamaHost:        envOr("OLLAMA_BIND", DefaultOllamaHost),
		OllamaPort:        envIntOr("OLLAMA_PORT", DefaultOllamaPort),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		GoogleKey:         os.Getenv("GOOGLE_API_KEY"),
		EnableOCR:         envOr("ENABLE_OCR", "false") == "true",
		OCRLanguages:      envOr("OCR_LANGUAGES", DefaultOCRLanguages),
		MetricsGateway:    os.Getenv("METRICS_GATEWAY"),
		IsProd:            envOr("RAG_ENV", "dev") == "prod",
	}
	return cfg
}

// Validate reports configuration errors before any side effect happens.
func (c Config) Validate() error {
	if c.LabDir == "" {
		return fmt.Errorf("RAG_LAB_DIR is not set")
	}
	if info, err := os.Stat(c.LabDir); err != nil || !info.IsDir() {
		return fmt.Errorf("RAG_LAB_DIR %q is not a reachable directory", c.LabDir)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("EMBEDDING_MODEL is not set")
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("EMBEDDING_DIM must be positive, got %d", c.EmbeddingDim)
	}
	switch c.EmbeddingProvider {
	case "ollama", "openai", "google":
	default:
		return fmt.Errorf("unknown EMBEDDING_PROVIDER %q", c.EmbeddingProvider)
	}
	switch c.LLMProvider {
	case "ollama", "openai", "google":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	return nil
}

// TenantDocsDir is where a tenant's ingestible files live.
func (c Config) TenantDocsDir(tenant string) string {
	return filepath.Join(c.LabDir, "documents", tenant)
}

// LogsDir holds the per-tenant, per-operation run logs.
func (c Config) LogsDir() string {
	return filepath.Join(c.LabDir, "logs")
}

// LocksDir holds the per-tenant ingest lock files.
func (c Config) LocksDir() string {
	return filepath.Join(c.LabDir, "locks")
}

// CollectionName derives the tenant's collection. Deterministic on the
// tenant id alone.
func (c Config) CollectionName(tenant string) string {
	return CollectionPrefix + tenant
}

func (c Config) OllamaBaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.OllamaHost, c.OllamaPort)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

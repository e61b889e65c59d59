package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rgia/raglab/internal/config"
	"github.com/rgia/raglab/pkg/logger_i"
)

var (
	tenant    string
	verbose   bool
	storeKind string
)

var rootCmd = &cobra.Command{
	Use:   "raglab",
	Short: "Multi-tenant RAG ingestion and query pipelines",
	Long: `raglab runs the document pipelines of the RAG platform: ingestion
loads a tenant's documents into its vector collection, query retrieves
relevant chunks and streams an answer from the language model. Each
invocation handles exactly one tenant operation.`,
	SilenceUsage: true,
}

// ExecuteContext runs the CLI; the context carries process signal
// cancellation into both pipelines.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(loadDotenv)
	rootCmd.PersistentFlags().StringVarP(&tenant, "tenant", "t", "", "tenant identifier (required)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "vector store backend: qdrant or memory (overrides VECTOR_STORE)")
	rootCmd.MarkPersistentFlagRequired("tenant")
}

// loadDotenv layers the installation's .env over the process environment,
// the same file the rest of the platform reads.
func loadDotenv() {
	_ = godotenv.Load()
	if dir := os.Getenv("RAG_LAB_DIR"); dir != "" {
		_ = godotenv.Load(filepath.Join(dir, "config", ".env"))
	}
}

// setup validates configuration and points the process logger at the
// per-tenant, per-operation log file. The returned file stays open for the
// lifetime of the run.
func setup(operation string, tenant string) (config.Config, *os.File, error) {
	cfg := config.Load()
	if storeKind != "" {
		cfg.StoreKind = storeKind
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, fmt.Errorf("configuration error: %w", err)
	}

	if err := os.MkdirAll(cfg.LogsDir(), 0o755); err != nil {
		return config.Config{}, nil, fmt.Errorf("creating logs directory: %w", err)
	}
	logPath := filepath.Join(cfg.LogsDir(), fmt.Sprintf("%s_%s.log", operation, tenant))
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("opening log file: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger_i.Init(cfg.IsProd, level, logFile)
	return cfg, logFile, nil
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/rgia/raglab/internal/metrics"
	"github.com/rgia/raglab/internal/rag"
	"github.com/rgia/raglab/internal/rag/embedding"
	"github.com/rgia/raglab/internal/rag/loader"
	"github.com/rgia/raglab/internal/rag/ocr"
	"github.com/rgia/raglab/pkg/logger_i"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a tenant's documents into its vector collection",
	Long: `Discovers pdf, md and txt files under the tenant's document
directory, chunks and embeds them, and upserts the vectors into the
tenant's collection. Re-running over unchanged content is a no-op thanks
to content-hash point ids.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, logFile, err := setup("ingest", tenant)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logger_i.NewLogger("CLI")

	// at most one concurrent ingestion per tenant; queries stay lock-free
	if err := os.MkdirAll(cfg.LocksDir(), 0o755); err != nil {
		return fmt.Errorf("creating locks directory: %w", err)
	}
	lock := flock.New(filepath.Join(cfg.LocksDir(), "ingest_"+tenant+".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring ingest lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another ingestion is already running for tenant %q", tenant)
	}
	defer lock.Unlock()

	ctx := cmd.Context()

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	embedder, err := embedding.NewEmbedder(ctx, cfg)
	if err != nil {
		return err
	}

	var ocrEngine ocr.Engine
	if cfg.EnableOCR {
		ocrEngine = ocr.NewTesseractEngine(cfg.OCRLanguages)
	}
	docLoader := loader.New(ocrEngine, true)

	service := rag.NewService(cfg, docLoader, embedder, store, nil, true)
	summary, err := service.Ingest(ctx, tenant)

	if pushErr := metrics.PushToGateway(cfg.MetricsGateway, "raglab_ingest", tenant); pushErr != nil {
		log.Warn("Could not push metrics", "error", pushErr)
	}

	if err != nil {
		return fmt.Errorf("ingestion for tenant %q failed: %w", tenant, err)
	}

	if summary.NothingToDo {
		fmt.Printf("Nada que hacer para el tenant '%s': no se encontraron documentos.\n", tenant)
		return nil
	}
	fmt.Printf("Ingesta para tenant '%s' completada. %d chunks procesados de %d documentos.\n",
		tenant, summary.Points, summary.Documents)
	if len(summary.Skipped) > 0 {
		fmt.Printf("Archivos omitidos (%d):\n", len(summary.Skipped))
		for _, f := range summary.Skipped {
			fmt.Printf("  - %s: %v\n", f.Path, f.Err)
		}
	}
	return nil
}

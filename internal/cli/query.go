package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgia/raglab/internal/metrics"
	"github.com/rgia/raglab/internal/rag"
	"github.com/rgia/raglab/internal/rag/embedding"
	"github.com/rgia/raglab/internal/rag/llm"
	"github.com/rgia/raglab/internal/rag/query"
	"github.com/rgia/raglab/pkg/logger_i"
)

// msgLLMUnavailable is what the user sees when the language model cannot
// be reached. Deliberately different wording from the no-relevant-documents
// response so the two cannot be confused.
const msgLLMUnavailable = "Error: No se pudo obtener una respuesta del modelo de lenguaje. Asegúrate de que el servicio esté corriendo y sea accesible."

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question against a tenant's documents",
	Long: `Embeds the question, retrieves the most relevant chunks from the
tenant's collection and streams an answer from the language model,
followed by the list of source files it drew from.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := args[0]

	cfg, logFile, err := setup("query", tenant)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logger_i.NewLogger("CLI")

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
	provider, err := llm.NewProvider(ctx, cfg)
	if err != nil {
		return err
	}

	service := rag.NewService(cfg, nil, embedder, store, provider, false)

	fmt.Println("\n--- 🤖 Respuesta del Agente RAG ---")
	fmt.Println()
	result, err := service.Query(ctx, tenant, question, func(token string) error {
		fmt.Print(token)
		return nil
	})
	fmt.Println()

	if pushErr := metrics.PushToGateway(cfg.MetricsGateway, "raglab_query", tenant); pushErr != nil {
		log.Warn("Could not push metrics", "error", pushErr)
	}

	if err != nil {
		if errors.Is(err, query.ErrLLMUnavailable) {
			fmt.Println(msgLLMUnavailable)
		}
		return fmt.Errorf("query for tenant %q failed: %w", tenant, err)
	}

	if len(result.Sources) > 0 {
		fmt.Println("\n--- 📚 Fuentes Utilizadas ---")
		for _, src := range result.Sources {
			fmt.Printf("- %s (Puntuación de Relevancia: %.4f)\n", src.File, src.Score)
		}
	}
	return nil
}

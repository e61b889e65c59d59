package llm

import (
	"context"
	"fmt"

	"github.com/rgia/raglab/internal/config"
	"github.com/rgia/raglab/internal/rag/llm/googleLLM"
	"github.com/rgia/raglab/internal/rag/llm/ollamaLLM"
	"github.com/rgia/raglab/internal/rag/llm/openaiLLM"
)

// ollamaModels maps the short model choice from configuration to the full
// ollama tag the deployment ships with.
var ollamaModels = map[string]string{
	"phi3":   "phi3:3.8b-mini-4k-instruct-q4_K_M",
	"llama3": "llama3:8b-instruct-q4_K_M",
	"gemma":  "gemma:7b-instruct-q4_K_M",
}

// ResolveOllamaModel turns a model choice into an ollama tag, falling back
// to phi3 for unknown choices.
func ResolveOllamaModel(choice string) string {
	if tag, ok := ollamaModels[choice]; ok {
		return tag
	}
	return ollamaModels["phi3"]
}

// NewProvider builds the deployment's language-model client from config.
func NewProvider(ctx context.Context, cfg config.Config) (Provider, error) {
	switch cfg.LLMProvider {
	case "ollama":
		return ollamaLLM.NewClient(cfg.OllamaBaseURL(), ResolveOllamaModel(cfg.LLMModelChoice)), nil

	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return openaiLLM.NewClient(cfg.OpenAIKey, cfg.LLMModelChoice), nil

	case "google":
		return googleLLM.NewClient(ctx, cfg.GoogleKey, cfg.LLMModelChoice)

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLMProvider)
	}
}

package openaiEmbedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Client embeds text through the OpenAI embeddings API.
type Client struct {
	client *openai.Client
	model  string
	dim    int
}

func NewClient(apiKey string, model string, dim int) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
		model:  model,
		dim:    dim,
	}
}

func (c *Client) Dimension() int {
	return c.dim
}

func (c *Client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *Client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input:      chunks,
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: c.dim,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings call failed: %w", err)
	}
	if len(resp.Data) != len(chunks) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(resp.Data), len(chunks))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

package googleEmbedding

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rgia/raglab/pkg/logger_i"
)

// Client embeds text through the Gemini embedding API with the output
// dimensionality pinned to the collection's.
type Client struct {
	genAi  *genai.Client
	model  string
	dim    int32
	logger *logger_i.Logger
}

func NewClient(ctx context.Context, apiKey string, model string, dim int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is not set")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating google embedding client: %w", err)
	}
	return &Client{
		genAi:  c,
		model:  model,
		dim:    int32(dim),
		logger: logger_i.NewLogger("google_embedding"),
	}, nil
}

func (c *Client) Dimension() int {
	return int(c.dim)
}

func (c *Client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	result, err := c.doCall(ctx, genai.Text(query))
	if err != nil {
		return nil, fmt.Errorf("google embedding call failed: %w", err)
	}
	return result.Embeddings[0].Values, nil
}

func (c *Client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	res, err := c.doCall(ctx, getContent(chunks))
	if err != nil {
		if !isRateLimited(err) {
			return nil, fmt.Errorf("google embedding call failed: %w", err)
		}
		c.logger.Warn("Rate limit hit, retrying in 5 seconds", "error", err)
		time.Sleep(5 * time.Second)
		res, err = c.doCall(ctx, getContent(chunks))
		if err != nil {
			return nil, fmt.Errorf("google embedding retry failed: %w", err)
		}
	}

	var vectors [][]float32
	for _, r := range res.Embeddings {
		vectors = append(vectors, r.Values)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("google returned %d embeddings for %d inputs", len(vectors), len(chunks))
	}
	return vectors, nil
}

func (c *Client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content,
		&genai.EmbedContentConfig{OutputDimensionality: &c.dim, TaskType: "RETRIEVAL_DOCUMENT"})
}

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

func isRateLimited(err error) bool {
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	return false
}

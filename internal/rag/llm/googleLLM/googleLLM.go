package googleLLM

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Client streams chat completions from the Gemini API.
type Client struct {
	genAi *genai.Client
	model string
}

func NewClient(ctx context.Context, apiKey string, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is not set")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Client{genAi: c, model: model}, nil
}

func (c *Client) Stream(ctx context.Context, prompt string, emit func(token string) error) error {
	for result, err := range c.genAi.Models.GenerateContentStream(ctx, c.model, genai.Text(prompt), nil) {
		if err != nil {
			return fmt.Errorf("gemini stream failed: %w", err)
		}
		if token := result.Text(); token != "" {
			if err := emit(token); err != nil {
				return err
			}
		}
	}
	return nil
}

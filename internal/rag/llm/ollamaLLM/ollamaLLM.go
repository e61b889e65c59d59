package ollamaLLM

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rgia/raglab/internal/customHttpClient"
)

// Client streams chat completions from the Ollama /api/chat endpoint.
type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewClient(baseURL string, model string) *Client {
	return &Client{
		baseURL: baseURL,
		model:   model,
		client:  customHttpClient.NewPooledClient(),
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
	Error   string      `json:"error,omitempty"`
}

// Stream sends the prompt as a single user message and forwards each
// fragment of the line-delimited JSON response to emit as it arrives.
func (c *Client) Stream(ctx context.Context, prompt string, emit func(token string) error) error {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("ollama request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		return fmt.Errorf("ollama returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	decoder := json.NewDecoder(httpResp.Body)
	for {
		var frame chatResponse
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to decode ollama stream: %w", err)
		}
		if frame.Error != "" {
			return fmt.Errorf("ollama stream error: %s", frame.Error)
		}
		if frame.Message.Content != "" {
			if err := emit(frame.Message.Content); err != nil {
				return err
			}
		}
		if frame.Done {
			return nil
		}
	}
}

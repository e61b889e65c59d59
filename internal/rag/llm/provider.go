package llm

import "context"

// Provider streams a chat completion for a fully assembled prompt.
//
// emit receives each text fragment in arrival order. The stream is finite
// and non-restartable; if emit returns an error the provider stops and
// returns it, and whatever was already emitted stands. Cancelling ctx has
// the same effect.
type Provider interface {
	Stream(ctx context.Context, prompt string, emit func(token string) error) error
}

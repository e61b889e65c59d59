package embedding

import (
	"context"
	"fmt"
)

// Embedder maps text onto the fixed-dimension vector space of the deployed
// model. One model per deployment; Dimension never changes at runtime.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
	Dimension() int
}

// CheckDimensions rejects vectors that do not match the configured
// collection dimensionality. This runs before any upsert; a mismatched
// model is a deployment error, not something to paper over.
func CheckDimensions(vectors [][]float32, dim int) error {
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("embedding %d has dimension %d, collection expects %d", i, len(v), dim)
		}
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/rgia/raglab/internal/config"
	"github.com/rgia/raglab/internal/rag/vectorDB"
	"github.com/rgia/raglab/internal/rag/vectorDB/memoryDB"
	"github.com/rgia/raglab/internal/rag/vectorDB/qdrantDB"
)

// newStore picks the vector store backend. "memory" exists for dry runs
// and local experiments; everything real goes to qdrant.
func newStore(cfg config.Config) (vectorDB.Store, error) {
	switch cfg.StoreKind {
	case "qdrant":
		return qdrantDB.NewClient(cfg)
	case "memory":
		return memoryDB.New(), nil
	default:
		return nil, fmt.Errorf("unknown vector store %q", cfg.StoreKind)
	}
}

package vectorDB

import (
	"context"

	"github.com/rgia/raglab/internal/domain/ragModel"
)

// Store is the per-tenant vector index contract. Collections are named by
// the caller; every method operates on exactly one collection so tenant
// isolation reduces to never deriving the wrong name.
type Store interface {
	// EnsureCollection creates the collection with the given vector size
	// and cosine distance if it does not exist yet. Idempotent.
	EnsureCollection(ctx context.Context, name string, dim uint64) error

	// Upsert writes the batch so that points sharing an id are replaced,
	// and returns only once the write is visible to subsequent searches.
	Upsert(ctx context.Context, collection string, points []ragModel.Point) error

	// Search returns up to limit nearest points, best first. An empty
	// collection yields an empty slice and no error; a missing collection
	// yields ragModel.ErrCollectionNotFound.
	Search(ctx context.Context, collection string, vector []float32, limit uint64) ([]ragModel.SearchResult, error)

	Close() error
}

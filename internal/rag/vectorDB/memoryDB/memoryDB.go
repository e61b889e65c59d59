package memoryDB

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rgia/raglab/internal/domain/ragModel"
)

// Store keeps collections in process memory with the same contract as the
// qdrant client. It backs tests and --store memory dry runs; nothing here
// survives a restart.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	dim    uint64
	points map[string]ragModel.Point
}

func New() *Store {
	return &Store{collections: make(map[string]*collection)}
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) EnsureCollection(_ context.Context, name string, dim uint64) error {
	if name == "" {
		return fmt.Errorf("empty collection name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.collections[name]; ok {
		if existing.dim != dim {
			return fmt.Errorf("collection %q exists with dimension %d, requested %d", name, existing.dim, dim)
		}
		return nil
	}
	s.collections[name] = &collection{dim: dim, points: make(map[string]ragModel.Point)}
	return nil
}

func (s *Store) Upsert(_ context.Context, name string, points []ragModel.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("%w: %s", ragModel.ErrCollectionNotFound, name)
	}
	for _, p := range points {
		if uint64(len(p.Vector)) != coll.dim {
			return fmt.Errorf("point %s has dimension %d, collection expects %d", p.ID, len(p.Vector), coll.dim)
		}
		coll.points[p.ID] = p
	}
	return nil
}

func (s *Store) Search(_ context.Context, name string, vector []float32, limit uint64) ([]ragModel.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coll, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ragModel.ErrCollectionNotFound, name)
	}

	results := make([]ragModel.SearchResult, 0, len(coll.points))
	for _, p := range coll.points {
		results = append(results, ragModel.SearchResult{
			Text:     p.Text,
			Metadata: p.Metadata,
			Score:    cosineSimilarity(vector, p.Vector),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if uint64(len(results)) > limit {
		results = results[:limit]
	}
	return results, nil
}

// PointCount reports the number of stored points, which is what the
// idempotence tests assert on.
func (s *Store) PointCount(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if coll, ok := s.collections[name]; ok {
		return len(coll.points)
	}
	return 0
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

package memoryDB

import (
	"context"
	"errors"
	"testing"

	"github.com/rgia/raglab/internal/domain/ragModel"
)

func point(id, text string, vector []float32) ragModel.Point {
	return ragModel.Point{
		ID:       id,
		Vector:   vector,
		Text:     text,
		Metadata: ragModel.Metadata{SourcePath: "/docs/" + id + ".txt"},
	}
}

func TestEnsureCollection(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.EnsureCollection(ctx, "rag_coll_acme", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// creating again with the same dimension is a no-op
	if err := s.EnsureCollection(ctx, "rag_coll_acme", 3); err != nil {
		t.Fatalf("re-ensure failed: %v", err)
	}
	// but a conflicting dimension is rejected
	if err := s.EnsureCollection(ctx, "rag_coll_acme", 5); err == nil {
		t.Fatal("expected a dimension conflict error")
	}
	if err := s.EnsureCollection(ctx, "", 3); err == nil {
		t.Fatal("expected an error for an empty collection name")
	}
}

func TestUpsert_MissingCollection(t *testing.T) {
	s := New()
	err := s.Upsert(context.Background(), "rag_coll_ghost", []ragModel.Point{point("a", "x", []float32{1, 0, 0})})
	if !errors.Is(err, ragModel.ErrCollectionNotFound) {
		t.Fatalf("got %v, want ErrCollectionNotFound", err)
	}
}

func TestUpsert_RejectsWrongDimension(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.EnsureCollection(ctx, "rag_coll_acme", 3); err != nil {
		t.Fatal(err)
	}
	err := s.Upsert(ctx, "rag_coll_acme", []ragModel.Point{point("a", "x", []float32{1, 0})})
	if err == nil {
		t.Fatal("expected a dimension error")
	}
}

func TestUpsert_SameIDOverwritesInsteadOfDuplicating(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.EnsureCollection(ctx, "rag_coll_acme", 3); err != nil {
		t.Fatal(err)
	}

	batch := []ragModel.Point{
		point("a", "first", []float32{1, 0, 0}),
		point("b", "second", []float32{0, 1, 0}),
	}
	for i := 0; i < 3; i++ {
		if err := s.Upsert(ctx, "rag_coll_acme", batch); err != nil {
			t.Fatalf("upsert %d failed: %v", i, err)
		}
	}
	if got := s.PointCount("rag_coll_acme"); got != 2 {
		t.Errorf("PointCount got %d, want 2 after repeated upserts", got)
	}
}

func TestSearch_RanksByCosineSimilarity(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.EnsureCollection(ctx, "rag_coll_acme", 3); err != nil {
		t.Fatal(err)
	}
	err := s.Upsert(ctx, "rag_coll_acme", []ragModel.Point{
		point("exact", "exact match", []float32{1, 0, 0}),
		point("close", "close match", []float32{1, 0.2, 0}),
		point("far", "orthogonal", []float32{0, 0, 1}),
	})
	if err != nil {
		t.Fatal(err)
	}

	results, err := s.Search(ctx, "rag_coll_acme", []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Text != "exact match" || results[1].Text != "close match" || results[2].Text != "orthogonal" {
		t.Errorf("wrong ranking: %q, %q, %q", results[0].Text, results[1].Text, results[2].Text)
	}
	if results[0].Score <= results[1].Score || results[1].Score <= results[2].Score {
		t.Errorf("scores not descending: %v, %v, %v", results[0].Score, results[1].Score, results[2].Score)
	}
}

func TestSearch_HonorsLimit(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.EnsureCollection(ctx, "rag_coll_acme", 2); err != nil {
		t.Fatal(err)
	}
	err := s.Upsert(ctx, "rag_coll_acme", []ragModel.Point{
		point("a", "a", []float32{1, 0}),
		point("b", "b", []float32{0.9, 0.1}),
		point("c", "c", []float32{0.8, 0.2}),
	})
	if err != nil {
		t.Fatal(err)
	}

	results, err := s.Search(ctx, "rag_coll_acme", []float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestSearch_MissingCollection(t *testing.T) {
	s := New()
	_, err := s.Search(context.Background(), "rag_coll_ghost", []float32{1, 0}, 5)
	if !errors.Is(err, ragModel.ErrCollectionNotFound) {
		t.Fatalf("got %v, want ErrCollectionNotFound", err)
	}
}

func TestCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, name := range []string{"rag_coll_acme", "rag_coll_globex"} {
		if err := s.EnsureCollection(ctx, name, 2); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Upsert(ctx, "rag_coll_acme", []ragModel.Point{point("a", "acme secret", []float32{1, 0})}); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search(ctx, "rag_coll_globex", []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("a tenant's search leaked %d points from another collection", len(results))
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"Orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"Opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"Zero_Vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"Length_Mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-6 || diff < -1e-6 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

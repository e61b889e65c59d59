package ragModel

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

// Metadata travels with a document into every chunk cut from it.
// SourcePath is the one guaranteed field; Extra keeps the payload open for
// loaders that know more (page counts, OCR flags).
type Metadata struct {
	SourcePath string            `json:"source_path"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Document is a loaded file's text plus metadata. Immutable once produced
// by the loader.
type Document struct {
	Text     string
	Metadata Metadata
}

// Chunk is the unit of embedding and retrieval: a bounded span of a
// document's text with the parent metadata inherited unchanged.
type Chunk struct {
	Text     string
	Metadata Metadata
	Order    int //position within the source document
}

// Point is the persisted (id, vector, payload) triple.
type Point struct {
	ID          string
	Vector      []float32
	Text        string
	Metadata    Metadata
	ContentHash string
}

// SearchResult is one retrieved point with its relevance score. Results
// arrive ordered descending by score.
type SearchResult struct {
	Text     string
	Metadata Metadata
	Score    float32
}

// LoadFailure records a file the loader had to skip.
type LoadFailure struct {
	Path string
	Err  error
}

// ErrCollectionNotFound distinguishes "no collection for this tenant" from
// an empty collection, which searches report as zero results and no error.
var ErrCollectionNotFound = errors.New("collection does not exist")

// DerivePointID hashes the chunk text and renders the digest's first 16
// bytes as a UUID, which is the only string id shape qdrant accepts.
// Identity depends on the text alone, so re-ingesting identical content
// overwrites the same point instead of duplicating it.
func DerivePointID(text string) string {
	sum := sha256.Sum256([]byte(text))
	id, err := uuid.FromBytes(sum[:16])
	if err != nil {
		// FromBytes only fails on length != 16, which cannot happen here.
		panic(err)
	}
	return id.String()
}

// ContentHash is the full hex digest carried in the point payload for
// traceability.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

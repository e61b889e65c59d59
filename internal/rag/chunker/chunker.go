package chunker

import (
	"strings"

	"github.com/rgia/raglab/internal/domain/ragModel"
)

// Chunker cuts document text into overlapping windows of whitespace-split
// units. The overlap guarantees that any span shorter than it survives
// intact inside at least one chunk even when it straddles a boundary.
type Chunker struct {
	size    int
	overlap int
}

func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = 512
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split returns the document's chunks in text order, each inheriting the
// parent metadata unchanged. An empty or whitespace-only document yields
// no chunks.
func (c *Chunker) Split(doc ragModel.Document) []ragModel.Chunk {
	words := strings.Fields(doc.Text)
	if len(words) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []ragModel.Chunk
	for start := 0; start < len(words); start += step {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, ragModel.Chunk{
			Text:     strings.Join(words[start:end], " "),
			Metadata: doc.Metadata,
			Order:    len(chunks),
		})
		if end == len(words) {
			break
		}
	}
	return chunks
}

// SplitAll flattens the chunks of many documents, preserving per-document
// order.
func (c *Chunker) SplitAll(docs []ragModel.Document) []ragModel.Chunk {
	var all []ragModel.Chunk
	for _, doc := range docs {
		all = append(all, c.Split(doc)...)
	}
	return all
}

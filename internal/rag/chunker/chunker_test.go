package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rgia/raglab/internal/domain/ragModel"
)

func numberedWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestSplit_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		overlap    int
		text       string
		wantChunks int
	}{
		{
			name:       "Empty_Document",
			size:       10,
			overlap:    2,
			text:       "",
			wantChunks: 0,
		},
		{
			name:       "Whitespace_Only_Document",
			size:       10,
			overlap:    2,
			text:       "   \n\t  ",
			wantChunks: 0,
		},
		{
			name:       "Fits_In_One_Chunk",
			size:       10,
			overlap:    2,
			text:       numberedWords(7),
			wantChunks: 1,
		},
		{
			name:       "Exactly_One_Window",
			size:       10,
			overlap:    2,
			text:       numberedWords(10),
			wantChunks: 1,
		},
		{
			name:    "Two_Windows_With_Overlap",
			size:    10,
			overlap: 2,
			text:    numberedWords(12),
			// step 8: [0,10) then [8,12)
			wantChunks: 2,
		},
		{
			name:       "Many_Windows",
			size:       10,
			overlap:    2,
			text:       numberedWords(50),
			wantChunks: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.size, tt.overlap)
			doc := ragModel.Document{Text: tt.text, Metadata: ragModel.Metadata{SourcePath: "/docs/a.txt"}}
			chunks := c.Split(doc)

			if len(chunks) != tt.wantChunks {
				t.Fatalf("got %d chunks, want %d", len(chunks), tt.wantChunks)
			}
			for i, ch := range chunks {
				if ch.Order != i {
					t.Errorf("chunk %d has Order %d", i, ch.Order)
				}
				if ch.Metadata.SourcePath != "/docs/a.txt" {
					t.Errorf("chunk %d lost its metadata: %+v", i, ch.Metadata)
				}
				if words := strings.Fields(ch.Text); len(words) > tt.size {
					t.Errorf("chunk %d has %d words, limit is %d", i, len(words), tt.size)
				}
			}
		})
	}
}

func TestSplit_ConsecutiveChunksShareTheOverlap(t *testing.T) {
	c := New(10, 3)
	doc := ragModel.Document{Text: numberedWords(30)}

	chunks := c.Split(doc)
	if len(chunks) < 2 {
		t.Fatalf("need at least two chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1].Text)
		cur := strings.Fields(chunks[i].Text)
		tail := strings.Join(prev[len(prev)-3:], " ")
		head := strings.Join(cur[:3], " ")
		if tail != head {
			t.Errorf("chunks %d/%d do not overlap: %q vs %q", i-1, i, tail, head)
		}
	}
}

func TestSplit_EveryWordAppears(t *testing.T) {
	c := New(10, 2)
	doc := ragModel.Document{Text: numberedWords(43)}

	joined := " "
	for _, ch := range c.Split(doc) {
		joined += ch.Text + " "
	}
	for i := 0; i < 43; i++ {
		if !strings.Contains(joined, fmt.Sprintf(" w%d ", i)) {
			t.Errorf("word w%d missing from the chunked output", i)
		}
	}
}

func TestNew_ClampsBadParameters(t *testing.T) {
	tests := []struct {
		name          string
		size, overlap int
	}{
		{"Zero_Size", 0, 50},
		{"Negative_Overlap", 100, -1},
		{"Overlap_Equals_Size", 100, 100},
		{"Overlap_Exceeds_Size", 100, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.size, tt.overlap)
			// a long document must still terminate and make progress
			doc := ragModel.Document{Text: numberedWords(1000)}
			chunks := c.Split(doc)
			if len(chunks) == 0 {
				t.Fatal("expected chunks")
			}
			if len(chunks) > 1000 {
				t.Fatalf("suspiciously many chunks (%d), the window is not advancing", len(chunks))
			}
		})
	}
}

func TestSplitAll_PreservesDocumentOrder(t *testing.T) {
	c := New(5, 1)
	docs := []ragModel.Document{
		{Text: numberedWords(8), Metadata: ragModel.Metadata{SourcePath: "/docs/first.txt"}},
		{Text: "solo", Metadata: ragModel.Metadata{SourcePath: "/docs/second.txt"}},
	}

	all := c.SplitAll(docs)
	if len(all) != 3 {
		t.Fatalf("got %d chunks, want 3", len(all))
	}
	if all[0].Metadata.SourcePath != "/docs/first.txt" || all[2].Metadata.SourcePath != "/docs/second.txt" {
		t.Errorf("document order not preserved: %+v", all)
	}
	// Order restarts per document
	if all[2].Order != 0 {
		t.Errorf("second document's first chunk has Order %d, want 0", all[2].Order)
	}
}

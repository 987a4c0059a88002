package corpus

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunkerEmptyInput(t *testing.T) {
	c := NewChunker(100, 10)
	if got := c.Split(""); got != nil {
		t.Errorf("expected no chunks for empty input, got %v", got)
	}
	if got := c.Split("\n\n  \n"); got != nil {
		t.Errorf("expected no chunks for whitespace input, got %v", got)
	}
}

func TestChunkerSingleChunk(t *testing.T) {
	c := NewChunker(100, 10)
	got := c.Split("one line\nanother line")
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if got[0] != "one line\nanother line" {
		t.Errorf("unexpected chunk: %q", got[0])
	}
}

func TestChunkerRespectsSizeLimit(t *testing.T) {
	c := NewChunker(50, 10)
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "a sentence of text")
	}

	chunks := c.Split(strings.Join(lines, "\n"))
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if n := utf8.RuneCountInString(ch); n > 50+1 {
			t.Errorf("chunk %d exceeds size limit: %d runes", i, n)
		}
	}
}

func TestChunkerOverlapCarriedForward(t *testing.T) {
	c := NewChunker(20, 10)
	chunks := c.Split("alpha1\nbravo2\ncharl3\ndelta4\necho05\nfoxtr6")
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d: %v", len(chunks), chunks)
	}

	// Each chunk holds two lines and the last line reappears at the start
	// of the next chunk.
	for i := 1; i < len(chunks); i++ {
		prevLines := strings.Split(chunks[i-1], "\n")
		tail := prevLines[len(prevLines)-1]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with the previous tail %q: %q", i, tail, chunks[i])
		}
	}
}

func TestChunkerHardSplitsOversizedLines(t *testing.T) {
	c := NewChunker(10, 0)
	chunks := c.Split(strings.Repeat("x", 25))
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != strings.Repeat("x", 10) || chunks[2] != strings.Repeat("x", 5) {
		t.Errorf("unexpected hard split: %v", chunks)
	}
}

func TestChunkerNoDuplicateOnlyChunks(t *testing.T) {
	// Overlap close to the chunk size must not produce chunks consisting
	// solely of carried-over text.
	c := NewChunker(20, 15)
	chunks := c.Split("aaaa\nbbbb\ncccc\ndddd\neeee\nffff")

	for i := 1; i < len(chunks); i++ {
		if strings.Contains(chunks[i-1], chunks[i]) {
			t.Errorf("chunk %d is a pure repeat of chunk %d: %q", i, i-1, chunks[i])
		}
	}
}

func TestChunkerInvalidArgsFallBack(t *testing.T) {
	c := NewChunker(0, -1)
	if c.chunkSize != 1000 {
		t.Errorf("expected default chunk size 1000, got %d", c.chunkSize)
	}
	if c.overlap != 100 {
		t.Errorf("expected default overlap 100, got %d", c.overlap)
	}

	c = NewChunker(50, 60) // overlap >= chunkSize
	if c.overlap != 5 {
		t.Errorf("expected overlap fallback chunkSize/10, got %d", c.overlap)
	}
}

func TestChunkerUnicode(t *testing.T) {
	c := NewChunker(10, 0)
	chunks := c.Split(strings.Repeat("я", 15))
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if utf8.RuneCountInString(chunks[0]) != 10 {
		t.Errorf("rune-based split expected, got %d runes", utf8.RuneCountInString(chunks[0]))
	}
}

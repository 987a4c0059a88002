package corpus

import (
	"strings"
	"unicode/utf8"
)

// Chunker splits extracted text into bounded chunks, carrying a tail of the
// previous chunk forward so passages are not cut mid-thought.
type Chunker struct {
	chunkSize int // max chunk length in runes
	overlap   int // runes of context carried between consecutive chunks
}

// NewChunker creates a chunker. Invalid arguments fall back to 1000/100.
func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 10
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Split breaks text into chunks along line boundaries. Lines longer than the
// chunk size are hard-split. Empty input yields no chunks.
func (c *Chunker) Split(text string) []string {
	segments := c.segments(text)
	if len(segments) == 0 {
		return nil
	}

	var (
		chunks []string
		cur    []string
		curLen int
		fresh  int // segments added since the last flush (overlap tail excluded)
	)

	for _, seg := range segments {
		segLen := utf8.RuneCountInString(seg)

		if curLen > 0 && curLen+1+segLen > c.chunkSize {
			if fresh > 0 {
				chunks = append(chunks, strings.Join(cur, "\n"))
				cur, curLen = c.overlapTail(cur)
			} else {
				// The overlap tail alone cannot absorb this segment;
				// drop it rather than emit a duplicate-only chunk.
				cur, curLen = nil, 0
			}
			fresh = 0
		}

		cur = append(cur, seg)
		curLen += segLen + 1
		fresh++
	}

	if fresh > 0 {
		chunks = append(chunks, strings.Join(cur, "\n"))
	}
	return chunks
}

// segments splits text into non-empty lines, hard-splitting oversized ones.
func (c *Chunker) segments(text string) []string {
	var segments []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for utf8.RuneCountInString(line) > c.chunkSize {
			runes := []rune(line)
			segments = append(segments, string(runes[:c.chunkSize]))
			line = string(runes[c.chunkSize:])
		}
		if line != "" {
			segments = append(segments, line)
		}
	}
	return segments
}

// overlapTail returns the trailing segments that fit the overlap budget.
func (c *Chunker) overlapTail(cur []string) ([]string, int) {
	var (
		tail    []string
		tailLen int
	)
	for i := len(cur) - 1; i >= 0; i-- {
		l := utf8.RuneCountInString(cur[i])
		if tailLen+l+1 > c.overlap {
			break
		}
		tail = append([]string{cur[i]}, tail...)
		tailLen += l + 1
	}
	return tail, tailLen
}

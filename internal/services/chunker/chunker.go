package chunker

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
)

// Chunker splits extracted document text into overlapping windows small
// enough for a single LLM prompt. Windows are cut at newline boundaries
// when one falls inside the window, and consecutive chunks overlap by at
// most the configured overlap so QA pairs spanning a cut are not lost.
type Chunker struct {
	windowSize int
	overlap    int
	logger     arbor.ILogger
}

// NewChunker creates a chunker. The overlap must be strictly smaller than
// the window size, otherwise chunking could not make forward progress.
func NewChunker(windowSize, overlap int, logger arbor.ILogger) (*Chunker, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", windowSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap must be non-negative, got %d", overlap)
	}
	if overlap >= windowSize {
		return nil, fmt.Errorf("overlap (%d) must be smaller than window size (%d)", overlap, windowSize)
	}

	return &Chunker{
		windowSize: windowSize,
		overlap:    overlap,
		logger:     logger,
	}, nil
}

// Chunk splits text into ordered windows of at most windowSize runes.
// Window and overlap arithmetic is done on runes, never bytes, so a
// boundary cannot land inside a multibyte character. Whitespace-only
// input yields no chunks; input shorter than the window yields exactly one.
func (c *Chunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)

	var chunks []string
	start := 0
	for {
		if len(runes)-start <= c.windowSize {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := start + c.windowSize
		// Prefer ending the window just after the last newline inside it
		if idx := lastNewline(runes[start:cut]); idx > 0 {
			cut = start + idx + 1
		}

		chunks = append(chunks, string(runes[start:cut]))

		// Step back by the overlap, then forward to the next line start so
		// the shared region begins on a separator boundary
		next := cut - c.overlap
		if next <= start {
			next = cut
		} else if idx := firstNewline(runes[next:cut]); idx >= 0 {
			next += idx + 1
		}
		if next >= len(runes) {
			break
		}
		start = next
	}

	// Drop windows that carry no content
	filtered := chunks[:0]
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) != "" {
			filtered = append(filtered, chunk)
		}
	}

	c.logger.Debug().
		Int("text_length", len(text)).
		Int("chunk_count", len(filtered)).
		Msg("Chunked document text")

	return filtered
}

func lastNewline(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	return -1
}

func firstNewline(runes []rune) int {
	for i, r := range runes {
		if r == '\n' {
			return i
		}
	}
	return -1
}

// WindowSize returns the configured window size
func (c *Chunker) WindowSize() int {
	return c.windowSize
}

// Overlap returns the configured overlap
func (c *Chunker) Overlap() int {
	return c.overlap
}

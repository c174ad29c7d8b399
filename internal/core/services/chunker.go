package services

import (
	"fmt"
	"strings"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

// Chunking defaults, matched to the embedding model's input budget.
const (
	DefaultChunkSize = 512
	DefaultOverlap   = 50
)

// separators is the boundary preference order: paragraph, line, sentence,
// word, then single characters as the last resort.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunker splits extracted text into overlapping segments suitable for
// embedding. Splitting is a pure function: the same text and configuration
// always yield the same sequence.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a chunker. Zero values take the defaults.
// An overlap that reaches the chunk size can never make progress, so it is
// rejected here instead of looping at split time.
func NewChunker(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidInput, overlap, chunkSize)
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// ChunkSize returns the configured maximum chunk length in characters.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap length in characters.
func (c *Chunker) Overlap() int { return c.overlap }

// Split divides text into chunks of at most the configured size, preferring
// to break on the largest semantic boundary available and carrying the
// configured overlap between consecutive chunks. Empty input yields an
// empty sequence.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}
	return c.assemble(c.fragment(text, separators))
}

// fragment recursively splits text on the boundary hierarchy until every
// piece fits within the chunk size. Lengths are counted in runes so
// multi-byte characters are never cut.
func (c *Chunker) fragment(text string, seps []string) []string {
	if runeLen(text) <= c.chunkSize {
		return []string{text}
	}

	sep := seps[0]
	if sep == "" {
		return c.splitRunes(text)
	}

	var fragments []string
	for _, part := range splitAfter(text, sep) {
		if runeLen(part) <= c.chunkSize {
			fragments = append(fragments, part)
		} else {
			fragments = append(fragments, c.fragment(part, seps[1:])...)
		}
	}
	return fragments
}

// splitRunes is the character-level last resort for text with no usable
// boundaries.
func (c *Chunker) splitRunes(text string) []string {
	runes := []rune(text)
	var out []string
	for i := 0; i < len(runes); i += c.chunkSize {
		end := i + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}

// assemble greedily merges fragments into chunks, starting each new chunk
// with the tail of the previous one so context survives across chunk edges.
func (c *Chunker) assemble(fragments []string) []string {
	var chunks []string
	var current []rune

	emit := func() {
		if text := strings.TrimSpace(string(current)); text != "" {
			chunks = append(chunks, text)
		}
	}

	for _, frag := range fragments {
		fr := []rune(frag)
		if len(current) > 0 && len(current)+len(fr) > c.chunkSize {
			emit()

			// Carry overlap into the next chunk, shrinking it if the
			// incoming fragment would not fit alongside.
			keep := c.overlap
			if keep > c.chunkSize-len(fr) {
				keep = c.chunkSize - len(fr)
			}
			if keep > len(current) {
				keep = len(current)
			}
			if keep < 0 {
				keep = 0
			}
			current = append([]rune{}, current[len(current)-keep:]...)
		}
		current = append(current, fr...)
	}
	emit()

	return chunks
}

// splitAfter splits on sep keeping the separator attached, dropping the
// empty tail strings.SplitAfter produces for trailing separators.
func splitAfter(text, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

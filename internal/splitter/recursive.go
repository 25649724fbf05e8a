// ABOUTME: Fixed-size recursive splitter with configurable size and overlap
// ABOUTME: Wraps langchaingo's recursive splitter and maps its chunks back to source lines
package splitter

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/harper/fluency-checker/internal/models"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the default maximum number of characters per chunk
	DefaultChunkSize = 500
	// DefaultChunkOverlap is the default number of characters repeated between chunks
	DefaultChunkOverlap = 50
)

// DefaultSeparators returns separators from coarsest to finest.
// The empty separator cuts between characters.
func DefaultSeparators() []string {
	return []string{"\n\n", "\n", " ", ""}
}

// span is a half-open byte range of the source document
type span struct {
	start, end int
}

// Recursive splits text into chunks of at most size characters, ignoring
// markdown structure. Sizes are counted in runes.
type Recursive struct {
	size       int
	overlap    int
	separators []string
	splitter   textsplitter.RecursiveCharacter
}

// RecursiveOption configures a Recursive splitter
type RecursiveOption func(*Recursive)

// WithSeparators overrides the separator hierarchy. Leaving out the empty
// separator means a unit larger than the chunk size is emitted whole.
func WithSeparators(separators ...string) RecursiveOption {
	return func(r *Recursive) {
		r.separators = append([]string(nil), separators...)
	}
}

// NewRecursive creates a fixed-size splitter
func NewRecursive(size, overlap int, opts ...RecursiveOption) (*Recursive, error) {
	if size <= 0 {
		return nil, &ConfigurationError{Field: "chunk_size", Reason: fmt.Sprintf("must be positive, got %d", size)}
	}
	if overlap < 0 {
		return nil, &ConfigurationError{Field: "chunk_overlap", Reason: fmt.Sprintf("cannot be negative, got %d", overlap)}
	}
	if overlap >= size {
		return nil, &ConfigurationError{
			Field:  "chunk_overlap",
			Reason: fmt.Sprintf("%d must be smaller than chunk_size %d", overlap, size),
		}
	}

	r := &Recursive{
		size:       size,
		overlap:    overlap,
		separators: DefaultSeparators(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if len(r.separators) == 0 {
		return nil, &ConfigurationError{Field: "separators", Reason: "must not be empty"}
	}

	r.splitter = textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
		textsplitter.WithSeparators(r.separators),
		textsplitter.WithKeepSeparator(true),
		textsplitter.WithLenFunc(utf8.RuneCountInString),
	)
	return r, nil
}

// SplitText returns the chunk contents in document order
func (r *Recursive) SplitText(text string) ([]string, error) {
	chunks, err := r.Split(text)
	if err != nil {
		return nil, err
	}
	return contents(chunks), nil
}

// Split returns the chunks with the number of source lines each accounts for.
// Blank lines between chunks belong to the following chunk; the last chunk
// runs to the end of the document. A chunk that ends on a line already
// attributed to the previous chunk (possible with overlap or when one long
// line is cut) gets Lines == 0 and shares that line.
func (r *Recursive) Split(text string) ([]models.Chunk, error) {
	parts, err := r.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("recursive split: %w", err)
	}

	spans, err := r.locate(text, parts)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, nil
	}

	lines := newLineIndex(text)
	total := models.LineCount(text)
	chunks := make([]models.Chunk, 0, len(spans))
	prevEnd := 0

	for i, s := range spans {
		last := lines.lineOf(s.end - 1)
		if i == len(spans)-1 {
			last = total
		}
		count := 0
		if last > prevEnd {
			count = last - prevEnd
			prevEnd = last
		}

		start := s.start
		if i > 0 {
			start = r.widen(text, spans[i-1], s)
		}
		chunks = append(chunks, models.Chunk{
			ChunkType: models.ChunkTypeWindow,
			Content:   text[start:s.end],
			Lines:     count,
		})
	}

	return chunks, nil
}

// locate finds each trimmed part in the source, in order. A part starts no
// earlier than overlap runes before the previous part's end, and ends after
// it unless the part only repeats carried text.
func (r *Recursive) locate(text string, parts []string) ([]span, error) {
	spans := make([]span, 0, len(parts))
	prev := span{start: -1}

	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		from := max(backRunes(text, prev.end, r.overlap), prev.start+1)
		first := -1
		found := -1
		for pos := from; pos <= len(text); {
			idx := strings.Index(text[pos:], part)
			if idx < 0 {
				break
			}
			at := pos + idx
			if first < 0 {
				first = at
			}
			if at+len(part) > prev.end {
				found = at
				break
			}
			pos = at + 1
		}
		if found < 0 {
			found = first
		}
		if found < 0 {
			return nil, fmt.Errorf("recursive split: chunk %d not found in source", i)
		}

		prev = span{start: found, end: found + len(part)}
		spans = append(spans, prev)
	}
	return spans, nil
}

// widen moves the start of cur back so it repeats at least overlap runes of
// prev, when the widened chunk still fits. A word boundary is tried first.
func (r *Recursive) widen(text string, prev, cur span) int {
	if r.overlap == 0 {
		return cur.start
	}
	if cur.start < prev.end && utf8.RuneCountInString(text[cur.start:prev.end]) >= r.overlap {
		return cur.start
	}

	exact := max(backRunes(text, prev.end, r.overlap), prev.start)
	word := exact
	for word > prev.start {
		c, size := utf8.DecodeLastRuneInString(text[:word])
		if unicode.IsSpace(c) {
			break
		}
		word -= size
	}

	for _, start := range []int{word, exact} {
		if start >= cur.start {
			continue
		}
		first, _ := utf8.DecodeRuneInString(text[start:])
		if unicode.IsSpace(first) {
			continue
		}
		if utf8.RuneCountInString(text[start:cur.end]) > r.size {
			continue
		}
		if utf8.RuneCountInString(text[start:prev.end]) < r.overlap {
			continue
		}
		return start
	}
	return cur.start
}

// backRunes steps n runes back from offset
func backRunes(text string, offset, n int) int {
	for ; n > 0 && offset > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(text[:offset])
		offset -= size
	}
	return max(offset, 0)
}

// lineIndex maps byte offsets to 1-based line numbers
type lineIndex []int

func newLineIndex(text string) lineIndex {
	var idx lineIndex
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			idx = append(idx, i)
		}
	}
	return idx
}

func (li lineIndex) lineOf(offset int) int {
	return sort.SearchInts(li, offset) + 1
}

// ABOUTME: Chunk represents one splitter output before it is sent to the model
// ABOUTME: Carries the number of source document lines the chunk accounts for
package models

import "strings"

// ChunkType records which splitter strategy produced a chunk
type ChunkType string

const (
	ChunkTypeSection ChunkType = "SECTION"
	ChunkTypeWindow  ChunkType = "WINDOW"
)

// IsValid reports whether the chunk type is a known constant
func (ct ChunkType) IsValid() bool {
	switch ct {
	case ChunkTypeSection, ChunkTypeWindow:
		return true
	}
	return false
}

// Chunk is an ordered piece of a document produced by a splitter.
// Lines is the count of source document lines attributed to the chunk, which
// can differ from LineCount(Content) when a heading was re-attached or
// surrounding blank lines were trimmed. Zero means the chunk lies on a line
// already covered by the previous chunk.
type Chunk struct {
	ChunkType ChunkType `json:"chunk_type"`
	Content   string    `json:"content"`
	Lines     int       `json:"lines"`
	Heading   string    `json:"heading,omitempty"`

	// Headings maps heading labels to the heading text active at the chunk
	Headings map[string]string `json:"headings,omitempty"`
}

// LineCount returns the number of newline-delimited lines in s
func LineCount(s string) int {
	return strings.Count(s, "\n") + 1
}

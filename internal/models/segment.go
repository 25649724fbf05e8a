// ABOUTME: Segment is one analyzed span of a markdown document with its fluency verdict
// ABOUTME: Line numbers are 1-based and inclusive, spans are ordered by document position
package models

// Segment is an immutable analysis result for a contiguous span of the input document
type Segment struct {
	StartLine   int      `json:"start_line"`
	EndLine     int      `json:"end_line"`
	Content     string   `json:"content"`
	Grammatical bool     `json:"grammatical"`
	Natural     bool     `json:"natural"`
	Suggestions []string `json:"suggestions"`
}

// NewSegment builds a segment from a chunk's content and its verdict
func NewSegment(startLine, endLine int, content string, v Verdict) Segment {
	return Segment{
		StartLine:   startLine,
		EndLine:     endLine,
		Content:     content,
		Grammatical: v.Grammatical,
		Natural:     v.Natural,
		Suggestions: cloneSuggestions(v.Suggestions),
	}
}

// Lines returns the number of document lines the segment spans
func (s Segment) Lines() int {
	return s.EndLine - s.StartLine + 1
}

// Fluent is true when the model judged the segment both grammatical and natural
func (s Segment) Fluent() bool {
	return s.Grammatical && s.Natural
}

func cloneSuggestions(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

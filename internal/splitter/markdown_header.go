// ABOUTME: Header-aware splitter that cuts a markdown document on heading lines
// ABOUTME: Re-attaches the section heading to each chunk so chunks stay self-describing
package splitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harper/fluency-checker/internal/models"
)

// Header maps a heading marker such as "##" to a metadata label
type Header struct {
	Marker string
	Label  string
}

// DefaultHeaders returns the six ATX heading levels
func DefaultHeaders() []Header {
	return []Header{
		{Marker: "#", Label: "Header 1"},
		{Marker: "##", Label: "Header 2"},
		{Marker: "###", Label: "Header 3"},
		{Marker: "####", Label: "Header 4"},
		{Marker: "#####", Label: "Header 5"},
		{Marker: "######", Label: "Header 6"},
	}
}

// MarkdownHeader splits a document into one chunk per heading section.
//
// Every recognised heading starts a new section that runs until the next
// recognised heading. A section's content is its heading line, a blank line
// and the trimmed body. The heading used is the one that opened the section,
// which is always the deepest level active there. Headings inside fenced code
// blocks are ignored.
type MarkdownHeader struct {
	headers []Header
}

type heading struct {
	header Header
	text   string
}

func (h heading) line() string {
	if h.text == "" {
		return h.header.Marker
	}
	return h.header.Marker + " " + h.text
}

type section struct {
	heading   *heading
	path      map[string]string
	startLine int
	body      []string
}

// NewMarkdownHeader creates a header-aware splitter for the given markers
func NewMarkdownHeader(headers []Header) (*MarkdownHeader, error) {
	if len(headers) == 0 {
		return nil, &ConfigurationError{Field: "headers", Reason: "at least one heading marker is required"}
	}

	sorted := make([]Header, len(headers))
	copy(sorted, headers)
	for _, h := range sorted {
		if strings.TrimSpace(h.Marker) == "" {
			return nil, &ConfigurationError{Field: "headers", Reason: fmt.Sprintf("empty marker for label %q", h.Label)}
		}
	}
	// Longest marker first so "##" is not read as "#"
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Marker) > len(sorted[j].Marker)
	})

	return &MarkdownHeader{headers: sorted}, nil
}

// SplitText returns the chunk contents in document order
func (m *MarkdownHeader) SplitText(text string) ([]string, error) {
	chunks, err := m.Split(text)
	if err != nil {
		return nil, err
	}
	return contents(chunks), nil
}

// Split returns one chunk per section. Lines counts every source line of the
// section including its heading; a whitespace-only preamble is folded into
// the first chunk.
func (m *MarkdownHeader) Split(text string) ([]models.Chunk, error) {
	lines := strings.Split(text, "\n")

	var (
		chunks  []models.Chunk
		stack   []heading
		pending int
		open    fence
	)
	current := section{startLine: 0}

	flush := func(endLine int) {
		n := endLine - current.startLine
		if n <= 0 {
			return
		}
		body := strings.TrimSpace(strings.Join(current.body, "\n"))
		if current.heading == nil && body == "" {
			pending += n
			return
		}

		chunk := models.Chunk{
			ChunkType: models.ChunkTypeSection,
			Lines:     n + pending,
			Headings:  current.path,
		}
		pending = 0

		switch {
		case current.heading == nil:
			chunk.Content = body
		case body == "":
			chunk.Heading = current.heading.line()
			chunk.Content = chunk.Heading
		default:
			chunk.Heading = current.heading.line()
			chunk.Content = chunk.Heading + "\n\n" + body
		}
		chunks = append(chunks, chunk)
	}

	for i, line := range lines {
		stripped := strings.TrimSpace(line)

		if open.n > 0 {
			if open.closedBy(stripped) {
				open = fence{}
			}
			current.body = append(current.body, line)
			continue
		}
		if f, ok := fenceRun(stripped); ok {
			open = f
			current.body = append(current.body, line)
			continue
		}

		h, ok := m.match(stripped)
		if !ok {
			current.body = append(current.body, line)
			continue
		}

		flush(i)

		depth := len(h.header.Marker)
		for len(stack) > 0 && len(stack[len(stack)-1].header.Marker) >= depth {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, h)

		opened := h
		current = section{
			heading:   &opened,
			path:      headingPath(stack),
			startLine: i,
		}
	}
	flush(len(lines))

	return chunks, nil
}

// fence is an open code fence: its character and run length
type fence struct {
	char byte
	n    int
}

// fenceRun reports whether a trimmed line opens a code fence, which takes
// at least three backticks or tildes
func fenceRun(stripped string) (fence, bool) {
	if stripped == "" || (stripped[0] != '`' && stripped[0] != '~') {
		return fence{}, false
	}
	n := 0
	for n < len(stripped) && stripped[n] == stripped[0] {
		n++
	}
	if n < 3 {
		return fence{}, false
	}
	return fence{char: stripped[0], n: n}, true
}

// closedBy reports whether a trimmed line closes f: a run of the same
// character at least as long as the opener with nothing after it
func (f fence) closedBy(stripped string) bool {
	run, ok := fenceRun(stripped)
	if !ok || run.char != f.char || run.n < f.n {
		return false
	}
	return strings.TrimSpace(stripped[run.n:]) == ""
}

// match reports whether a trimmed line is a recognised heading
func (m *MarkdownHeader) match(stripped string) (heading, bool) {
	for _, h := range m.headers {
		if !strings.HasPrefix(stripped, h.Marker) {
			continue
		}
		if len(stripped) == len(h.Marker) || stripped[len(h.Marker)] == ' ' {
			return heading{header: h, text: strings.TrimSpace(stripped[len(h.Marker):])}, true
		}
	}
	return heading{}, false
}

func headingPath(stack []heading) map[string]string {
	path := make(map[string]string, len(stack))
	for _, h := range stack {
		path[h.header.Label] = h.text
	}
	return path
}

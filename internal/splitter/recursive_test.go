package splitter

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/harper/fluency-checker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecursive_Configuration(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		field   string
	}{
		{"zero size", 0, 0, "chunk_size"},
		{"negative overlap", 10, -1, "chunk_overlap"},
		{"overlap equals size", 10, 10, "chunk_overlap"},
		{"overlap exceeds size", 10, 20, "chunk_overlap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRecursive(tt.size, tt.overlap)
			require.Error(t, err)
			assert.Nil(t, r)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}

	_, err := NewRecursive(10, 2, WithSeparators())
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "separators", cfgErr.Field)
}

func TestRecursive_ShortTextIsOneChunk(t *testing.T) {
	r, err := NewRecursive(100, 10)
	require.NoError(t, err)

	chunks, err := r.SplitText("  Hello world.  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello world."}, chunks)
}

func TestRecursive_EmptyText(t *testing.T) {
	r, err := NewRecursive(100, 10)
	require.NoError(t, err)

	chunks, err := r.Split(" \n\n \n")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestRecursive_PrefersParagraphBoundaries(t *testing.T) {
	r, err := NewRecursive(30, 0)
	require.NoError(t, err)

	text := "First paragraph is here.\n\nSecond paragraph too.\n\nThird one."
	chunks, err := r.SplitText(text)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"First paragraph is here.",
		"Second paragraph too.",
		"Third one.",
	}, chunks)
}

func TestRecursive_ChunksRespectSize(t *testing.T) {
	r, err := NewRecursive(40, 8)
	require.NoError(t, err)

	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20) +
		"\n\n" + strings.Repeat("Pack my box with five dozen liquor jugs.\n", 10)
	chunks, err := r.SplitText(text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 40, "chunk %d too long: %q", i, c)
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}

func TestRecursive_CharacterOverlap(t *testing.T) {
	r, err := NewRecursive(10, 3)
	require.NoError(t, err)

	chunks, err := r.SplitText("abcdefghijklmnopqrst")
	require.NoError(t, err)

	assert.Equal(t, []string{"abcdefghij", "hijklmnopq", "opqrst"}, chunks)
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		assert.True(t, strings.HasPrefix(chunks[i], prev[len(prev)-3:]),
			"chunk %d should start with the last 3 characters of chunk %d", i, i-1)
	}
}

func TestRecursive_CountsRunes(t *testing.T) {
	r, err := NewRecursive(4, 0)
	require.NoError(t, err)

	chunks, err := r.SplitText("ééééé")
	require.NoError(t, err)
	assert.Equal(t, []string{"éééé", "é"}, chunks)
}

func TestRecursive_OversizedUnitKeptWhole(t *testing.T) {
	r, err := NewRecursive(10, 0, WithSeparators("\n\n", "\n"))
	require.NoError(t, err)

	long := "averyveryverylongline"
	chunks, err := r.SplitText("short\n" + long + "\nend")
	require.NoError(t, err)

	assert.Contains(t, chunks, long)
}

func TestRecursive_Deterministic(t *testing.T) {
	r, err := NewRecursive(25, 5)
	require.NoError(t, err)

	text := strings.Repeat("Some words to split up nicely.\n", 12)
	first, err := r.SplitText(text)
	require.NoError(t, err)
	second, err := r.SplitText(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecursive_LineSpansCoverDocument(t *testing.T) {
	r, err := NewRecursive(40, 0)
	require.NoError(t, err)

	text := "\nFirst paragraph is here.\n\nSecond paragraph\nspans two lines.\n\n\nThird one.\n"
	chunks, err := r.Split(text)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	total := 0
	for _, c := range chunks {
		assert.Equal(t, models.ChunkTypeWindow, c.ChunkType)
		assert.Positive(t, c.Lines)
		total += c.Lines
	}
	assert.Equal(t, models.LineCount(text), total)

	// Leading blank line belongs to the first chunk
	assert.Equal(t, 2, chunks[0].Lines)
	assert.Equal(t, 3, chunks[1].Lines)
}

func TestRecursive_LongLineSharesLine(t *testing.T) {
	r, err := NewRecursive(10, 0)
	require.NoError(t, err)

	chunks, err := r.Split("abcdefghijklmnopqrst")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, 1, chunks[0].Lines)
	assert.Equal(t, 0, chunks[1].Lines)
}

func TestRecursive_WordOverlapReachesOverlap(t *testing.T) {
	r, err := NewRecursive(34, 10)
	require.NoError(t, err)

	chunks, err := r.Split("alpha beta gamma delta epsilon zeta eta theta iota")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "alpha beta gamma delta epsilon", chunks[0].Content)
	assert.Equal(t, "delta epsilon zeta eta theta iota", chunks[1].Content)
	assert.True(t, strings.HasSuffix(chunks[0].Content, "delta epsilon"))
	assert.GreaterOrEqual(t, utf8.RuneCountInString("delta epsilon"), 10)

	assert.Equal(t, 1, chunks[0].Lines)
	assert.Equal(t, 0, chunks[1].Lines)
}

func TestRecursive_OverlapNeverExceedsSize(t *testing.T) {
	r, err := NewRecursive(30, 10)
	require.NoError(t, err)

	chunks, err := r.SplitText("alpha beta gamma delta epsilon zeta eta theta iota")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// Widening to a word boundary would not fit, so the chunk starts mid-word
	assert.Equal(t, "ta epsilon zeta eta theta iota", chunks[1])
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 30)
	}
}

func TestRecursive_RepeatedLinesKeepTheirLines(t *testing.T) {
	r, err := NewRecursive(10, 0)
	require.NoError(t, err)

	text := "same line\nsame line\nsame line\nsame line"
	chunks, err := r.Split(text)
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	for _, c := range chunks {
		assert.Equal(t, "same line", c.Content)
		assert.Equal(t, 1, c.Lines)
	}
}

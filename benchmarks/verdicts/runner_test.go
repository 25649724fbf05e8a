// ABOUTME: Tests for the verdict benchmark runner and metrics
// ABOUTME: Uses scripted models so no network access is needed

package verdicts

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// labelModel answers with the labelled verdict of whichever sample the prompt contains
type labelModel struct{}

func (labelModel) Complete(_ context.Context, prompt string) (string, error) {
	for _, s := range Samples() {
		body := s.Text[strings.Index(s.Text, "\n\n")+2:]
		if strings.Contains(prompt, body) {
			data, _ := json.Marshal(map[string]interface{}{
				"grammatical": s.Grammatical,
				"natural":     s.Natural,
			})
			return string(data), nil
		}
	}
	return "unknown sample", nil
}

type proseModel struct{}

func (proseModel) Complete(context.Context, string) (string, error) {
	return "Looks good to me.", nil
}

func TestSamples_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Samples() {
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
		assert.Contains(t, s.Text, "\n\n")
	}

	s, ok := SampleByID("modal_error")
	require.True(t, ok)
	assert.False(t, s.Grammatical)

	_, ok = SampleByID("nope")
	assert.False(t, ok)
}

func TestRunner_PerfectModel(t *testing.T) {
	runner, err := NewRunner(labelModel{}, "text", nil, false)
	require.NoError(t, err)

	results, err := runner.RunAll(context.Background(), Samples())
	require.NoError(t, err)
	require.Len(t, results, len(Samples()))

	for _, r := range results {
		assert.True(t, r.Pass(), r.Sample.ID)
		assert.False(t, r.Degraded, r.Sample.ID)
	}

	score := Summarize(results)
	assert.Equal(t, 1.0, score.Overall())
	assert.Zero(t, score.Degraded)
}

func TestRunner_DegradedReplies(t *testing.T) {
	runner, err := NewRunner(proseModel{}, "schema", nil, false)
	require.NoError(t, err)

	sample, _ := SampleByID("clean_prose")
	result := runner.RunSample(context.Background(), sample)

	assert.True(t, result.Degraded)
	assert.False(t, result.Pass())
	assert.Equal(t, []string{"Looks good to me."}, result.Suggestions)
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Sample: Sample{Grammatical: true, Natural: true}, GotGrammatical: true, GotNatural: false},
		{Sample: Sample{Grammatical: false, Natural: false}, GotGrammatical: false, GotNatural: false, Degraded: true},
	}

	score := Summarize(results)
	assert.Equal(t, 2, score.Samples)
	assert.Equal(t, 1.0, score.GrammaticalAccuracy)
	assert.Equal(t, 0.5, score.NaturalAccuracy)
	assert.Equal(t, 1, score.Degraded)
	assert.Equal(t, 0.75, score.Overall())

	assert.Equal(t, Score{}, Summarize(nil))
}

func TestExportResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	results := []Result{{Sample: Sample{ID: "a"}, GotGrammatical: false}}

	require.NoError(t, ExportResults(results, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 1.0, got["overall"])
}

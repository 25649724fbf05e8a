// ABOUTME: Accuracy metrics comparing model verdicts with labelled expectations
// ABOUTME: Counts agreement per verdict field and the rate of degraded replies

package verdicts

// Score summarises how well a model's verdicts match the labels
type Score struct {
	Samples             int     `json:"samples"`
	GrammaticalAccuracy float64 `json:"grammatical_accuracy"`
	NaturalAccuracy     float64 `json:"natural_accuracy"`
	// Degraded counts samples where the reply could not be read as JSON
	Degraded int `json:"degraded"`
}

// Overall is the mean of both field accuracies
func (s Score) Overall() float64 {
	return (s.GrammaticalAccuracy + s.NaturalAccuracy) / 2
}

// Summarize scores a set of results
func Summarize(results []Result) Score {
	score := Score{Samples: len(results)}
	if len(results) == 0 {
		return score
	}

	var grammatical, natural int
	for _, r := range results {
		if r.GotGrammatical == r.Sample.Grammatical {
			grammatical++
		}
		if r.GotNatural == r.Sample.Natural {
			natural++
		}
		if r.Degraded {
			score.Degraded++
		}
	}

	n := float64(len(results))
	score.GrammaticalAccuracy = float64(grammatical) / n
	score.NaturalAccuracy = float64(natural) / n
	return score
}

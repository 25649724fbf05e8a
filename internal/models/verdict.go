// ABOUTME: Verdict and Interpretation model the model's judgment of one segment
// ABOUTME: Interpretation is a tagged result, either parsed fields or the degraded raw reply
package models

// Verdict is the structured answer expected from the model
type Verdict struct {
	Grammatical bool     `json:"grammatical" jsonschema:"description=Whether the text is grammatically correct"`
	Natural     bool     `json:"natural" jsonschema:"description=Whether the text reads naturally and idiomatically"`
	Suggestions []string `json:"suggestions" jsonschema:"description=Alternative phrasings for the text; may be empty"`
}

// InterpretationKind tags how a model reply was interpreted
type InterpretationKind string

const (
	InterpretationParsed   InterpretationKind = "PARSED"
	InterpretationDegraded InterpretationKind = "DEGRADED"
)

// Interpretation is the outcome of reading one model reply
type Interpretation struct {
	Kind    InterpretationKind
	Parsed  Verdict
	RawText string
}

// Parsed wraps a verdict that was read from structured output
func Parsed(v Verdict) Interpretation {
	if v.Suggestions == nil {
		v.Suggestions = []string{}
	}
	return Interpretation{Kind: InterpretationParsed, Parsed: v}
}

// Degraded wraps a reply that could not be read as structured output
func Degraded(raw string) Interpretation {
	return Interpretation{Kind: InterpretationDegraded, RawText: raw}
}

// IsDegraded reports whether the reply fell back to the degrade path
func (i Interpretation) IsDegraded() bool {
	return i.Kind == InterpretationDegraded
}

// Verdict collapses the interpretation into a verdict.
// A degraded reply is reported as neither grammatical nor natural, with the
// raw text kept as the only suggestion so nothing is silently lost.
func (i Interpretation) Verdict() Verdict {
	if i.IsDegraded() {
		return Verdict{Suggestions: []string{i.RawText}}
	}
	v := i.Parsed
	if v.Suggestions == nil {
		v.Suggestions = []string{}
	}
	return v
}

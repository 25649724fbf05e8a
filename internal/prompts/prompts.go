// ABOUTME: Prompt builders that embed a markdown segment into a fluency instruction
// ABOUTME: Two strategies, a plain editor prompt and a technical-writer prompt with a JSON schema
package prompts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/harper/fluency-checker/internal/models"
	"github.com/invopop/jsonschema"
)

// Strategy names accepted by New
const (
	StrategyText   = "text"
	StrategySchema = "schema"
)

const editorTemplate = `You are an expert English editor.

Analyze the following markdown text:

{{ .Text }}

Provide a JSON object with:
- grammatical: boolean
- natural: boolean
- suggestions: list of alternative phrasings (may be empty)

Return ONLY valid JSON.
`

const technicalWriterTemplate = `You are a technical writer who uses a professional yet friendly tone.
Given the following text

{{ .Text }}

Judge whether it is grammatical and whether it reads naturally, and propose
alternative phrasings where it could be improved.

Reply using only the following instructions.

{{ .FormatInstructions | trim }}
`

// Builder renders the prompt sent to the model for one segment
type Builder interface {
	Build(text string) (string, error)
}

// TemplateBuilder renders a fixed template around the segment text
type TemplateBuilder struct {
	tmpl         *template.Template
	instructions string
}

type templateData struct {
	Text               string
	FormatInstructions string
}

// NewTextBuilder returns the plain editor prompt
func NewTextBuilder() (*TemplateBuilder, error) {
	return newTemplateBuilder(StrategyText, editorTemplate, "")
}

// NewSchemaBuilder returns the technical-writer prompt with format instructions
func NewSchemaBuilder() (*TemplateBuilder, error) {
	instructions, err := FormatInstructions()
	if err != nil {
		return nil, err
	}
	return newTemplateBuilder(StrategySchema, technicalWriterTemplate, instructions)
}

// New returns the builder for the named strategy
func New(strategy string) (*TemplateBuilder, error) {
	switch strategy {
	case StrategyText, "":
		return NewTextBuilder()
	case StrategySchema:
		return NewSchemaBuilder()
	default:
		return nil, fmt.Errorf("unknown prompt strategy %q", strategy)
	}
}

func newTemplateBuilder(name, src, instructions string) (*TemplateBuilder, error) {
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s prompt template: %w", name, err)
	}
	return &TemplateBuilder{tmpl: tmpl, instructions: instructions}, nil
}

// Build embeds text verbatim into the template
func (b *TemplateBuilder) Build(text string) (string, error) {
	var buf bytes.Buffer
	err := b.tmpl.Execute(&buf, templateData{
		Text:               text,
		FormatInstructions: b.instructions,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

// FormatInstructions describes the expected reply as a JSON schema generated
// from models.Verdict.
func FormatInstructions() (string, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(&models.Verdict{})
	schema.Version = ""

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling verdict schema: %w", err)
	}

	return "The output should be formatted as a JSON instance that conforms to the JSON schema below.\n\n" +
		"Here is the output schema:\n```\n" + string(data) + "\n```\n" +
		"Return only the JSON object, with no surrounding text.", nil
}

// ABOUTME: Interpreter turns a raw model reply into a fluency verdict
// ABOUTME: Strips code fences, coerces loose JSON fields and degrades on anything unparseable
package core

import (
	"strings"

	"github.com/harper/fluency-checker/internal/models"
	"github.com/tidwall/gjson"
)

var fences = []string{"```", "~~~"}

// Interpret reads a model reply. It never fails: replies that are not a JSON
// object come back as a degraded interpretation carrying the cleaned text.
func Interpret(raw string) models.Interpretation {
	cleaned := stripFence(raw)

	if !gjson.Valid(cleaned) {
		return models.Degraded(cleaned)
	}
	reply := gjson.Parse(cleaned)
	if !reply.IsObject() {
		return models.Degraded(cleaned)
	}

	return models.Parsed(models.Verdict{
		Grammatical: reply.Get("grammatical").Bool(),
		Natural:     reply.Get("natural").Bool(),
		Suggestions: suggestions(reply.Get("suggestions")),
	})
}

// stripFence removes a surrounding fenced code block, with or without a
// language tag, and trims the result. Text after the closing fence is dropped.
func stripFence(raw string) string {
	text := strings.TrimSpace(raw)

	for _, fence := range fences {
		if !strings.HasPrefix(text, fence) {
			continue
		}
		body := text[len(fence):]
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			body = body[nl+1:]
		} else if start := strings.IndexAny(body, "{["); start >= 0 {
			body = body[start:]
		}
		return strings.TrimSpace(body[:closingFence(body, fence)])
	}

	return text
}

// closingFence returns the offset where the fenced body ends: the first line
// that starts with fence, else the last fence in body, else its end. Anything
// after the closing fence is dropped.
func closingFence(body, fence string) int {
	offset := 0
	for _, line := range strings.SplitAfter(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), fence) {
			return offset
		}
		offset += len(line)
	}
	if idx := strings.LastIndex(body, fence); idx >= 0 {
		return idx
	}
	return len(body)
}

func suggestions(field gjson.Result) []string {
	out := []string{}

	switch {
	case !field.Exists(), field.Type == gjson.Null:
		return out
	case field.IsArray():
		for _, item := range field.Array() {
			if item.Type == gjson.Null {
				continue
			}
			out = append(out, item.String())
		}
	default:
		if s := strings.TrimSpace(field.String()); s != "" {
			out = append(out, s)
		}
	}

	return out
}

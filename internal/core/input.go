// ABOUTME: Input tells the analyzer whether it was given document text or a file path
// ABOUTME: Also defines the file loader collaborator and its os-backed implementation
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

type inputKind int

const (
	inputText inputKind = iota
	inputFile
)

// Input is either literal document text or a path to load
type Input struct {
	kind  inputKind
	value string
}

// TextInput wraps literal markdown text
func TextInput(text string) Input {
	return Input{kind: inputText, value: text}
}

// FileInput wraps a path whose contents are loaded before analysis
func FileInput(path string) Input {
	return Input{kind: inputFile, value: path}
}

// DetectInput treats s as text when it contains a newline and as a path otherwise
func DetectInput(s string) Input {
	if strings.Contains(s, "\n") {
		return TextInput(s)
	}
	return FileInput(s)
}

// IsFile reports whether the input names a file
func (in Input) IsFile() bool {
	return in.kind == inputFile
}

// String returns the text or the path
func (in Input) String() string {
	return in.value
}

// Loader reads a document given its path
type Loader interface {
	Load(ctx context.Context, path string) (string, error)
}

// ErrNotUTF8 is returned when a loaded file is not valid UTF-8
var ErrNotUTF8 = errors.New("file is not valid UTF-8")

// OSLoader reads documents from the local filesystem
type OSLoader struct{}

// Load returns the file contents. Errors from the filesystem are returned as-is.
func (OSLoader) Load(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", path, ErrNotUTF8)
	}
	return string(data), nil
}

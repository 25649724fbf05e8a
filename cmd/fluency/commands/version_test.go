// ABOUTME: Tests for version command
// ABOUTME: Verifies version info display and SetVersion functionality

package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func withVersion(t *testing.T, version, commit, date string) {
	t.Helper()
	original := versionInfo
	t.Cleanup(func() { versionInfo = original })
	SetVersion(version, commit, date)
}

func TestNewVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}

	if cmd.Short == "" || cmd.Long == "" {
		t.Error("descriptions should not be empty")
	}
}

func TestVersionCmd_Output(t *testing.T) {
	withVersion(t, "1.2.3", "abc123", "2026-01-31")

	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, expected := range []string{"fluency 1.2.3", "Commit: abc123", "Built:  2026-01-31"} {
		if !strings.Contains(output.String(), expected) {
			t.Errorf("output missing %q, got:\n%s", expected, output.String())
		}
	}
}

func TestVersionCmd_JSON(t *testing.T) {
	withVersion(t, "1.2.3", "abc123", "2026-01-31")

	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetArgs([]string{"--format", "json", "version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(output.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["version"] != "1.2.3" || got["commit"] != "abc123" {
		t.Errorf("got %v", got)
	}
}

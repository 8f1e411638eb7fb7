// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestOutput_PlainHasNoEscapes(t *testing.T) {
	var buffer bytes.Buffer
	output := newOutput(&buffer, false, 0)

	output.Field("kind", "blake3")
	output.Status(true, "OK")
	output.Status(false, "MISMATCH")
	if err := output.JSON(map[string]int{"chunks": 3}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	got := buffer.String()
	if strings.Contains(got, "\x1b[") {
		t.Errorf("plain output contains escape sequences: %q", got)
	}
	for _, want := range []string{"kind:", "blake3", "OK\n", "MISMATCH\n", `"chunks": 3`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestOutput_ColoredMatchesPlainText(t *testing.T) {
	var plain, colored bytes.Buffer
	newOutput(&plain, false, 0).Field("canonical", "sha256:00ff")
	newOutput(&colored, true, 0).Field("canonical", "sha256:00ff")

	if colored.String() == plain.String() {
		t.Error("colored output should differ from plain output")
	}
	if ansi.Strip(colored.String()) != plain.String() {
		t.Errorf("visible text changed:\ngot:  %q\nwant: %q", ansi.Strip(colored.String()), plain.String())
	}
}

func TestOutput_ColoredJSONStaysValid(t *testing.T) {
	var buffer bytes.Buffer
	output := newOutput(&buffer, true, 0)
	value := map[string]any{"offset": 0, "length": 4096, "fingerprint": "fingerprint:0011223344556677"}
	if err := output.JSON(value); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(ansi.Strip(buffer.String())), &decoded); err != nil {
		t.Fatalf("highlighted JSON is not valid once stripped: %v\n%s", err, buffer.String())
	}
	if decoded["fingerprint"] != "fingerprint:0011223344556677" {
		t.Errorf("fingerprint = %v", decoded["fingerprint"])
	}
}

func TestOutput_JSONNilSlice(t *testing.T) {
	var buffer bytes.Buffer
	var chunks []string
	if err := newOutput(&buffer, false, 0).JSON(chunks); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if got := strings.TrimSpace(buffer.String()); got != "[]" {
		t.Errorf("nil slice encoded as %q, want []", got)
	}
}

func TestOutput_Path(t *testing.T) {
	long := "/very/long/path/to/some/deeply/nested/directory/with/a/file.bin"

	if got := newOutput(&bytes.Buffer{}, false, 0).Path(long); got != long {
		t.Errorf("unknown width should not truncate, got %q", got)
	}
	if got := newOutput(&bytes.Buffer{}, false, 200).Path(long); got != long {
		t.Errorf("wide terminal should not truncate, got %q", got)
	}

	got := newOutput(&bytes.Buffer{}, false, 40).Path(long)
	if ansi.StringWidth(got) > 40-13 {
		t.Errorf("truncated path %q is %d columns wide", got, ansi.StringWidth(got))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated path %q should end with an ellipsis", got)
	}
}

func TestNewOutput_NonTerminalIsPlain(t *testing.T) {
	if NewOutput(&bytes.Buffer{}, true).Colored() {
		t.Error("output to a buffer should never be colored")
	}
}

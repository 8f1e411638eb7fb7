// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var jsonBuffer bytes.Buffer
	NewLogger(&jsonBuffer, false, false).Info("chunked", "chunks", 4)
	var record map[string]any
	if err := json.Unmarshal(jsonBuffer.Bytes(), &record); err != nil {
		t.Fatalf("non-terminal logger should write JSON: %v (%q)", err, jsonBuffer.String())
	}
	if record["msg"] != "chunked" {
		t.Errorf("msg = %v, want chunked", record["msg"])
	}

	var textBuffer bytes.Buffer
	logger := NewLogger(&textBuffer, true, false)
	logger.Debug("hidden")
	logger.Info("shown", "chunks", 4)
	text := textBuffer.String()
	if strings.Contains(text, "hidden") {
		t.Error("debug records should be filtered without verbose")
	}
	if !strings.Contains(text, "msg=shown") || !strings.Contains(text, "chunks=4") {
		t.Errorf("terminal logger should write text records, got %q", text)
	}

	var verboseBuffer bytes.Buffer
	NewLogger(&verboseBuffer, true, true).Debug("detail")
	if !strings.Contains(verboseBuffer.String(), "msg=detail") {
		t.Errorf("verbose logger should emit debug records, got %q", verboseBuffer.String())
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/okid/lib/chunker"
	"github.com/bureau-foundation/okid/lib/manifest"
	"github.com/bureau-foundation/okid/lib/okid"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Chunker != chunker.DefaultConfig() {
		t.Errorf("expected default chunker config, got %+v", cfg.Chunker)
	}
	if cfg.Output.Form != FormCanonical {
		t.Errorf("expected form=canonical, got %s", cfg.Output.Form)
	}
	if cfg.Manifest.Compression != manifest.CompressionZstd {
		t.Errorf("expected compression=zstd, got %s", cfg.Manifest.Compression)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_WithoutOkidConfig(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Output.Form != FormCanonical {
		t.Errorf("expected defaults, got form=%s", cfg.Output.Form)
	}
}

func TestLoad_WithOkidConfig(t *testing.T) {
	configPath := writeConfig(t, "okid.yaml", `
output:
  form: display
`)
	t.Setenv(EnvironmentVariable, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Output.Form != FormDisplay {
		t.Errorf("expected form=display, got %s", cfg.Output.Form)
	}
	// Unmentioned fields keep their defaults.
	if cfg.Chunker != chunker.DefaultConfig() {
		t.Errorf("expected default chunker config, got %+v", cfg.Chunker)
	}
}

func TestLoadFile_YAML(t *testing.T) {
	configPath := writeConfig(t, "okid.yaml", `
chunker:
  chunk_size: 8192
  min_size: 2048
  max_size: 32768
  content_kind: sha256

output:
  form: path
  color: false

manifest:
  compression: lz4
  directory: /var/lib/okid/manifests
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	want := chunker.Config{ChunkSize: 8192, MinSize: 2048, MaxSize: 32768, ContentKind: okid.KindSHA256}
	if cfg.Chunker != want {
		t.Errorf("expected chunker=%+v, got %+v", want, cfg.Chunker)
	}
	if cfg.Output.Form != FormPath || cfg.Output.Color {
		t.Errorf("expected output={path false}, got %+v", cfg.Output)
	}
	if cfg.Manifest.Compression != manifest.CompressionLZ4 {
		t.Errorf("expected compression=lz4, got %s", cfg.Manifest.Compression)
	}
	if cfg.Manifest.Directory != "/var/lib/okid/manifests" {
		t.Errorf("expected directory=/var/lib/okid/manifests, got %s", cfg.Manifest.Directory)
	}
}

func TestLoadFile_JSONC(t *testing.T) {
	configPath := writeConfig(t, "okid.jsonc", `{
  // Smaller chunks for a test corpus.
  "chunker": {"chunk_size": 4096, "min_size": 1024, "max_size": 16384, "content_kind": "blake3"},
  "output": {"form": "json"},
  "manifest": {"compression": "none",},
}`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Chunker.ChunkSize != 4096 || cfg.Chunker.ContentKind != okid.KindBLAKE3 {
		t.Errorf("unexpected chunker config %+v", cfg.Chunker)
	}
	if cfg.Output.Form != FormJSON {
		t.Errorf("expected form=json, got %s", cfg.Output.Form)
	}
	if cfg.Manifest.Compression != manifest.CompressionNone {
		t.Errorf("expected compression=none, got %s", cfg.Manifest.Compression)
	}
}

func TestLoadFile_Empty(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "okid.yaml", ""))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Chunker != chunker.DefaultConfig() {
		t.Errorf("expected defaults from empty file, got %+v", cfg.Chunker)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"unknown yaml key", "okid.yaml", "output:\n  colour: true\n", "colour"},
		{"unknown json key", "okid.json", `{"outptu": {}}`, "outptu"},
		{"bad content kind", "okid.yaml", "chunker:\n  content_kind: md5\n", "unknown kind"},
		{"bad compression", "okid.yaml", "manifest:\n  compression: gzip\n", "gzip"},
		{"bad form", "okid.yaml", "output:\n  form: base64\n", "output.form"},
		{"invalid chunker", "okid.yaml", "chunker:\n  chunk_size: 1000\n", "chunk_size"},
		{"empty directory", "okid.yaml", "manifest:\n  directory: \"\"\n", "manifest.directory"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, test.file, test.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), test.contains) {
				t.Errorf("expected error mentioning %q, got %v", test.contains, err)
			}
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist for missing file, got %v", err)
	}
}

func TestValidateReportsEverything(t *testing.T) {
	cfg := Default()
	cfg.Chunker.MinSize = 0
	cfg.Output.Form = "hex"
	cfg.Manifest.Compression = 7

	err := cfg.Validate()
	if !errors.Is(err, chunker.ErrInvalidConfig) {
		t.Errorf("expected chunker.ErrInvalidConfig in %v", err)
	}
	for _, fragment := range []string{"output.form", "manifest.compression"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("expected %q in %v", fragment, err)
		}
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("OKID_TEST_DIR", "/from/env")
	vars := map[string]string{"HOME": "/home/tester"}

	tests := []struct {
		input string
		want  string
	}{
		{"${HOME}/manifests", "/home/tester/manifests"},
		{"${OKID_TEST_DIR}/x", "/from/env/x"},
		{"${OKID_UNSET_VARIABLE:-/fallback}", "/fallback"},
		{"${OKID_UNSET_VARIABLE}", ""},
		{"plain/path", "plain/path"},
	}
	for _, test := range tests {
		if got := expandVars(test.input, vars); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestManifestDirectoryExpansion(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg, err := LoadFile(writeConfig(t, "okid.yaml", "manifest:\n  directory: ${HOME}/okm\n"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Manifest.Directory != "/home/tester/okm" {
		t.Errorf("expected directory=/home/tester/okm, got %s", cfg.Manifest.Directory)
	}

	root := okid.FromBLAKE3([]byte("root"))
	want := "/home/tester/okm/" + root.PathSafe() + ".okm"
	if got := cfg.ManifestPath(root.PathSafe()); got != want {
		t.Errorf("ManifestPath = %q, want %q", got, want)
	}
}

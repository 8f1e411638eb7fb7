// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/okid/lib/chunker"
	"github.com/bureau-foundation/okid/lib/manifest"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "OKID_CONFIG"

// Output forms accepted by [OutputConfig].Form.
const (
	FormCanonical    = "canonical"
	FormPath         = "path"
	FormDisplay      = "display"
	FormBubblebabble = "bubblebabble"
	FormJSON         = "json"
)

// Forms lists every valid output form.
var Forms = []string{FormCanonical, FormPath, FormDisplay, FormBubblebabble, FormJSON}

// Config is the okid command configuration.
type Config struct {
	// Chunker holds the chunking parameters used by "okid chunk".
	Chunker chunker.Config `yaml:"chunker" json:"chunker"`

	// Output configures how identifiers are printed.
	Output OutputConfig `yaml:"output" json:"output"`

	// Manifest configures manifests written by "okid chunk".
	Manifest ManifestConfig `yaml:"manifest" json:"manifest"`
}

// OutputConfig configures identifier printing.
type OutputConfig struct {
	// Form is the default string form: canonical, path, display,
	// bubblebabble or json.
	Form string `yaml:"form" json:"form"`

	// Color enables styled output on terminals. Output to pipes and
	// files is never styled.
	Color bool `yaml:"color" json:"color"`
}

// ManifestConfig configures manifest output.
type ManifestConfig struct {
	// Compression is applied to manifest bodies: none, lz4 or zstd.
	Compression manifest.Compression `yaml:"compression" json:"compression"`

	// Directory receives manifests named after their root when no
	// explicit manifest path is given.
	Directory string `yaml:"directory" json:"directory"`
}

// Default returns the built-in configuration: default chunker
// parameters, canonical output, zstd manifests in the working
// directory.
func Default() *Config {
	return &Config{
		Chunker: chunker.DefaultConfig(),
		Output: OutputConfig{
			Form:  FormCanonical,
			Color: true,
		},
		Manifest: ManifestConfig{
			Compression: manifest.CompressionZstd,
			Directory:   ".",
		},
	}
}

// Load loads configuration from the file named by OKID_CONFIG, or
// returns [Default] when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Fields the
// file does not mention keep their [Default] values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFile decodes a single configuration file over the current
// values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		return decoder.Decode(c)
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		err := decoder.Decode(c)
		// An empty YAML file leaves the defaults in place.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Manifest.Directory = expandVars(c.Manifest.Directory, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Chunker.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("chunker: %w", err))
	}

	if !slices.Contains(Forms, c.Output.Form) {
		errs = append(errs, fmt.Errorf("output.form must be one of %v, got %q", Forms, c.Output.Form))
	}

	if _, err := c.Manifest.Compression.MarshalText(); err != nil {
		errs = append(errs, fmt.Errorf("manifest.compression: %w", err))
	}

	if c.Manifest.Directory == "" {
		errs = append(errs, errors.New("manifest.directory is required"))
	}

	return errors.Join(errs...)
}

// ManifestPath returns where a manifest with the given root is written
// when no explicit path is given: <directory>/<path-safe root>.okm.
func (c *Config) ManifestPath(rootPathSafe string) string {
	return filepath.Join(c.Manifest.Directory, rootPathSafe+".okm")
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the okid command.
//
// Configuration is loaded from a single file specified by either the
// OKID_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic
// file search: without either, [Load] returns [Default].
//
// Files ending in .json or .jsonc are read as JSON with comments and
// trailing commas allowed; every other file is YAML. Both reject
// unknown keys so a typo fails loudly instead of silently keeping a
// default.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No environment
// variable overrides a value directly.
//
// Key exports:
//
//   - [Config] -- chunker parameters, output form, manifest settings
//   - [Default] -- the built-in configuration
//   - [Load] and [LoadFile] -- the two entry points for loading
package config

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/bureau-foundation/okid/lib/okid"
)

func TestDefaultConfigIsValid(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate(): %v", err)
	}
	if config.ChunkSize != 64*1024 || config.MinSize != 16*1024 || config.MaxSize != 256*1024 {
		t.Errorf("DefaultConfig() = %+v", config)
	}
	if config.ContentKind != okid.KindBLAKE3 {
		t.Errorf("default content kind = %s, want blake3", config.ContentKind)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		field  string
	}{
		{"zero min", Config{ChunkSize: 64, MinSize: 0, MaxSize: 128}, "min_size"},
		{"negative min", Config{ChunkSize: 64, MinSize: -1, MaxSize: 128}, "min_size"},
		{"max below min", Config{ChunkSize: 64, MinSize: 64, MaxSize: 32}, "max_size"},
		{"chunk not power of two", Config{ChunkSize: 100, MinSize: 16, MaxSize: 1000}, "chunk_size"},
		{"zero chunk", Config{ChunkSize: 0, MinSize: 16, MaxSize: 1000}, "chunk_size"},
		{"chunk below min", Config{ChunkSize: 8, MinSize: 16, MaxSize: 1000}, "chunk_size"},
		{"chunk above max", Config{ChunkSize: 2048, MinSize: 16, MaxSize: 1000}, "chunk_size"},
		{"uuid content", Config{ChunkSize: 64, MinSize: 16, MaxSize: 128, ContentKind: okid.KindUUID}, "content_kind"},
		{"fingerprint content", Config{ChunkSize: 64, MinSize: 16, MaxSize: 128, ContentKind: okid.KindFingerprint}, "content_kind"},
		{"unknown content", Config{ChunkSize: 64, MinSize: 16, MaxSize: 128, ContentKind: 77}, "content_kind"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.config.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate(%+v) = %v, want ErrInvalidConfig", test.config, err)
			}
			var configError *ConfigError
			if !errors.As(err, &configError) {
				t.Fatalf("err is %T, want *ConfigError", err)
			}
			if configError.Field != test.field {
				t.Errorf("Field = %q, want %q", configError.Field, test.field)
			}
			if !strings.Contains(err.Error(), test.field) {
				t.Errorf("error %q does not name %s", err, test.field)
			}
		})
	}
}

func TestConfigAcceptsEdges(t *testing.T) {
	valid := []Config{
		{ChunkSize: 1, MinSize: 1, MaxSize: 1},
		{ChunkSize: 64, MinSize: 64, MaxSize: 64},
		{ChunkSize: 64, MinSize: 16, MaxSize: 64, ContentKind: okid.KindSHA256},
		{ChunkSize: 1024, MinSize: 1000, MaxSize: 1 << 20},
	}
	for _, config := range valid {
		if err := config.Validate(); err != nil {
			t.Errorf("Validate(%+v): %v", config, err)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := NewFromBytes([]byte("data"), Config{ChunkSize: 3, MinSize: 1, MaxSize: 4})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewFromBytes: err = %v, want ErrInvalidConfig", err)
	}
	_, err = Open("/nonexistent", Config{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Open with zero config: err = %v, want ErrInvalidConfig", err)
	}
}

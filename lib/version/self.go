// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/okid/lib/okid"
)

// SelfID returns the BLAKE3 OkId and absolute path of the running
// binary. The path comes from os.Executable, which on Linux reads
// /proc/self/exe and so names the original binary even if the file
// has since been replaced on disk.
func SelfID() (okid.OkId, string, error) {
	executable, err := os.Executable()
	if err != nil {
		return okid.OkId{}, "", fmt.Errorf("resolving own executable path: %w", err)
	}
	id, err := FileID(executable)
	if err != nil {
		return okid.OkId{}, "", fmt.Errorf("hashing own binary: %w", err)
	}
	return id, executable, nil
}

// FileID returns the BLAKE3 OkId of the file at path.
func FileID(path string) (okid.OkId, error) {
	file, err := os.Open(path)
	if err != nil {
		return okid.OkId{}, err
	}
	defer file.Close()
	id, err := okid.HashReader(okid.KindBLAKE3, file)
	if err != nil {
		return okid.OkId{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return id, nil
}

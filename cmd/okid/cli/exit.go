// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ExitError signals a non-zero exit code without printing an extra
// error message. When a command handler returns an ExitError, main
// exits with the specified code without printing the error string:
// the command is expected to have already written its own output.
//
// "okid verify" uses this to exit 1 on a mismatch it has already
// reported, keeping 64 and up for usage and system errors.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// ExitCodeOf returns the exit code for an error returned from the
// command tree and whether main should print the error: 0 for nil,
// the error's own code when it implements ExitCode, otherwise 1.
func ExitCodeOf(err error) (code int, printMessage bool) {
	if err == nil {
		return 0, false
	}
	var exitError *ExitError
	if errors.As(err, &exitError) {
		return exitError.Code, false
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode(), true
	}
	return 1, true
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bubblebabble implements the Bubble Babble binary encoding
// (Antti Huima, 2000): bytes become pronounceable five-letter words
// such as "xesef-disof-gytuf-katof-movif-baxux", with a running
// checksum folded into the vowels so that most typing errors are
// caught on decode.
//
// Every encoding starts and ends with 'x'. Each full word carries two
// input bytes; the final word carries the odd byte, if any, or only
// checksum.
package bubblebabble

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package chunker splits a byte stream into content-defined chunks and
// describes each one with two OkIds: the rolling fingerprint at the
// boundary and a content hash of the chunk's bytes.
//
// A boundary falls after the byte where the chunk has reached MaxSize,
// or where it has reached MinSize and the low log2(ChunkSize) bits of
// the 64-byte window hash are all ones. The window and both hashes
// restart at every boundary, so a boundary depends only on the bytes
// of the chunk it ends. Inserting or deleting bytes disturbs at most
// the chunks around the edit; boundaries further along re-synchronize
// with the unedited stream.
//
// Iteration is pull-based and lazy:
//
//	c, err := chunker.Open(path, chunker.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//	for result, err := range c.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(result.Offset, result.Length, result.ContentHash)
//	}
//
// Chunk payloads are hashed as they stream past and never retained.
// Memory per chunker is one read buffer plus constant hash state.
//
// A Chunker is not safe for concurrent use. Independent chunkers over
// independent sources need no coordination. The package never logs.
package chunker

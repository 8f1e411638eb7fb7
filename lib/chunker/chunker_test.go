// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/okid/lib/okid"
	"github.com/bureau-foundation/okid/lib/rollinghash"
)

// smallConfig produces many chunks from a few hundred KiB of input.
var smallConfig = Config{ChunkSize: 1024, MinSize: 256, MaxSize: 4096}

// pseudoRandom returns size deterministic bytes derived from seed.
func pseudoRandom(size int, seed uint64) []byte {
	source := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(source.Uint32())
	}
	return data
}

// collect drains a chunker, failing the test on any error.
func collect(t *testing.T, chunker *Chunker) []ChunkResult {
	t.Helper()
	var results []ChunkResult
	for {
		result, err := chunker.Next()
		if err == io.EOF {
			return results
		}
		if err != nil {
			t.Fatalf("Next after %d chunks: %v", len(results), err)
		}
		results = append(results, result)
	}
}

func chunkBytes(t *testing.T, data []byte, config Config) []ChunkResult {
	t.Helper()
	chunker, err := NewFromBytes(data, config)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer chunker.Close()
	return collect(t, chunker)
}

// checkLayout verifies the ordering, coverage and size bounds of a
// chunk listing for a source of total bytes.
func checkLayout(t *testing.T, results []ChunkResult, total int, config Config) {
	t.Helper()
	var offset uint64
	for i, result := range results {
		if result.Offset != offset {
			t.Fatalf("chunk %d: Offset = %d, want %d", i, result.Offset, offset)
		}
		if result.Length == 0 {
			t.Fatalf("chunk %d is empty", i)
		}
		if int(result.Length) > config.MaxSize {
			t.Errorf("chunk %d: Length %d exceeds max %d", i, result.Length, config.MaxSize)
		}
		if i < len(results)-1 && int(result.Length) < config.MinSize {
			t.Errorf("chunk %d: Length %d below min %d", i, result.Length, config.MinSize)
		}
		offset = result.End()
	}
	if offset != uint64(total) {
		t.Errorf("chunks cover %d bytes, want %d", offset, total)
	}
}

func TestAllZeroSource(t *testing.T) {
	config := Config{ChunkSize: 64 * 1024, MinSize: 16 * 1024, MaxSize: 256 * 1024}
	data := make([]byte, 1<<20)
	results := chunkBytes(t, data, config)
	if len(results) == 0 {
		t.Fatal("no chunks emitted")
	}
	checkLayout(t, results, len(data), config)
	for i := 1; i < len(results); i++ {
		if results[i].Offset <= results[i-1].Offset {
			t.Errorf("offsets not strictly increasing at chunk %d", i)
		}
	}
}

func TestDeterministicAcrossCopies(t *testing.T) {
	config := DefaultConfig()
	first := pseudoRandom(10<<20, 42)
	second := pseudoRandom(10<<20, 42)

	a := chunkBytes(t, first, config)
	b := chunkBytes(t, second, config)
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("chunk %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
	checkLayout(t, a, len(first), config)
	// 10 MiB at a 64 KiB average cannot be covered by a handful of
	// forced 256 KiB cuts alone.
	if len(a) < 40 {
		t.Errorf("only %d chunks for 10 MiB of random input", len(a))
	}
}

func TestChunkOkIds(t *testing.T) {
	data := pseudoRandom(300_000, 7)
	for _, kind := range []okid.Kind{okid.KindBLAKE3, okid.KindSHA256} {
		config := smallConfig
		config.ContentKind = kind
		results := chunkBytes(t, data, config)
		checkLayout(t, results, len(data), config)

		for i, result := range results {
			payload := data[result.Offset:result.End()]

			want, err := okid.HashReader(kind, bytes.NewReader(payload))
			if err != nil {
				t.Fatalf("HashReader: %v", err)
			}
			if result.ContentHash != want {
				t.Errorf("chunk %d: ContentHash = %s, want %s", i, result.ContentHash, want)
			}
			if result.ContentHash.Kind() != kind {
				t.Errorf("chunk %d: content kind = %s, want %s", i, result.ContentHash.Kind(), kind)
			}
			if result.Fingerprint.Kind() != okid.KindFingerprint {
				t.Errorf("chunk %d: fingerprint kind = %s", i, result.Fingerprint.Kind())
			}
			if want := okid.Fingerprint(payload); result.Fingerprint != want {
				t.Errorf("chunk %d: Fingerprint = %s, want %s", i, result.Fingerprint, want)
			}
		}
	}
}

func TestZeroContentKindMeansBLAKE3(t *testing.T) {
	config := smallConfig
	config.ContentKind = 0
	results := chunkBytes(t, []byte("short"), config)
	if len(results) != 1 {
		t.Fatalf("got %d chunks, want 1", len(results))
	}
	if want := okid.FromBLAKE3([]byte("short")); results[0].ContentHash != want {
		t.Errorf("ContentHash = %s, want %s", results[0].ContentHash, want)
	}
}

// referenceBoundaries chunks data one byte at a time with a fresh
// rolling hash per chunk and returns the chunk lengths.
func referenceBoundaries(data []byte, config Config) []int {
	var lengths []int
	mask := uint64(config.ChunkSize - 1)
	var rolling rollinghash.Hash
	length := 0
	for _, in := range data {
		state := rolling.Update(in)
		length++
		if length >= config.MaxSize || (length >= config.MinSize && state&mask == mask) {
			lengths = append(lengths, length)
			rolling.Reset()
			length = 0
		}
	}
	if length > 0 {
		lengths = append(lengths, length)
	}
	return lengths
}

func TestBoundariesMatchReference(t *testing.T) {
	data := pseudoRandom(1<<20, 3)
	for _, config := range []Config{smallConfig, DefaultConfig(), {ChunkSize: 64, MinSize: 1, MaxSize: 64}} {
		results := chunkBytes(t, data, config)
		want := referenceBoundaries(data, config)
		if len(results) != len(want) {
			t.Fatalf("config %+v: %d chunks, reference has %d", config, len(results), len(want))
		}
		for i, result := range results {
			if int(result.Length) != want[i] {
				t.Fatalf("config %+v: chunk %d length %d, reference %d", config, i, result.Length, want[i])
			}
		}
	}
}

func TestBoundaryCondition(t *testing.T) {
	data := pseudoRandom(500_000, 11)
	results := chunkBytes(t, data, smallConfig)
	mask := uint64(smallConfig.ChunkSize - 1)
	for i, result := range results[:len(results)-1] {
		if int(result.Length) == smallConfig.MaxSize {
			continue
		}
		value, err := result.Fingerprint.FingerprintValue()
		if err != nil {
			t.Fatalf("FingerprintValue: %v", err)
		}
		if value&mask != mask {
			t.Errorf("chunk %d ends at a non-hit: fingerprint %016x", i, value)
		}
	}
}

func TestLocalEditResynchronizes(t *testing.T) {
	original := pseudoRandom(4<<20, 5)
	edited := make([]byte, 0, len(original)+100)
	edited = append(edited, original[:2<<20]...)
	edited = append(edited, bytes.Repeat([]byte("inserted"), 12)...)
	edited = append(edited, original[2<<20:]...)

	before := chunkBytes(t, original, DefaultConfig())
	after := chunkBytes(t, edited, DefaultConfig())

	// Every chunk that ends before the edit is unchanged.
	for i, result := range before {
		if result.End() > 2<<20 {
			break
		}
		if after[i] != result {
			t.Fatalf("chunk %d before the edit changed", i)
		}
	}

	shared := make(map[okid.OkId]bool, len(before))
	for _, result := range before {
		shared[result.ContentHash] = true
	}
	if !shared[after[len(after)-1].ContentHash] {
		t.Error("final chunk did not re-synchronize after the edit")
	}
}

func TestShortAndEmptySources(t *testing.T) {
	results := chunkBytes(t, nil, DefaultConfig())
	if len(results) != 0 {
		t.Errorf("empty source produced %d chunks", len(results))
	}

	short := []byte("shorter than the minimum chunk size")
	results = chunkBytes(t, short, DefaultConfig())
	if len(results) != 1 {
		t.Fatalf("short source produced %d chunks, want 1", len(results))
	}
	if results[0].Offset != 0 || int(results[0].Length) != len(short) {
		t.Errorf("short chunk = %+v", results[0])
	}
}

func TestExactlyMaxSizedChunks(t *testing.T) {
	config := Config{ChunkSize: 64, MinSize: 64, MaxSize: 64}
	data := pseudoRandom(64*10, 1)
	results := chunkBytes(t, data, config)
	if len(results) != 10 {
		t.Fatalf("got %d chunks, want 10", len(results))
	}
	for i, result := range results {
		if result.Length != 64 || result.Offset != uint64(64*i) {
			t.Errorf("chunk %d = %+v", i, result)
		}
	}
}

func TestNextAfterEOF(t *testing.T) {
	chunker, err := NewFromBytes([]byte("abc"), smallConfig)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	if _, err := chunker.Next(); err != nil {
		t.Fatalf("first Next: %v", err)
	}
	for range 3 {
		if _, err := chunker.Next(); err != io.EOF {
			t.Fatalf("Next after end = %v, want io.EOF", err)
		}
	}
	if chunker.Offset() != 3 {
		t.Errorf("Offset() = %d, want 3", chunker.Offset())
	}
}

// failingReader serves data and then fails every read with err.
type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(buffer []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(buffer, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestSourceErrorIsTerminal(t *testing.T) {
	errDisk := errors.New("disk on fire")
	data := pseudoRandom(100_000, 9)
	chunker, err := New(&failingReader{data: data, err: errDisk}, smallConfig)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var emitted uint64
	for {
		result, err := chunker.Next()
		if err == nil {
			emitted = result.End()
			continue
		}
		if err == io.EOF {
			t.Fatal("reached EOF without a source error")
		}
		if !errors.Is(err, ErrSource) || !errors.Is(err, errDisk) {
			t.Fatalf("err = %v, want SourceError wrapping the read error", err)
		}
		var sourceError *SourceError
		if !errors.As(err, &sourceError) {
			t.Fatalf("err is %T, want *SourceError", err)
		}
		if sourceError.Offset != uint64(len(data)) {
			t.Errorf("SourceError.Offset = %d, want %d", sourceError.Offset, len(data))
		}
		break
	}
	if emitted > uint64(len(data)) {
		t.Errorf("chunks cover %d bytes of a %d byte source", emitted, len(data))
	}

	if _, err := chunker.Next(); err != io.EOF {
		t.Errorf("Next after SourceError = %v, want io.EOF", err)
	}
}

func TestAllMatchesNext(t *testing.T) {
	data := pseudoRandom(200_000, 13)
	want := chunkBytes(t, data, smallConfig)

	chunker, err := NewFromBytes(data, smallConfig)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	var got []ChunkResult
	for result, err := range chunker.All() {
		if err != nil {
			t.Fatalf("All: %v", err)
		}
		got = append(got, result)
	}
	if len(got) != len(want) {
		t.Fatalf("All yielded %d chunks, Next yielded %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("chunk %d differs", i)
		}
	}
}

func TestAllStopsEarly(t *testing.T) {
	chunker, err := NewFromBytes(pseudoRandom(200_000, 13), smallConfig)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	var first ChunkResult
	for result, err := range chunker.All() {
		if err != nil {
			t.Fatalf("All: %v", err)
		}
		first = result
		break
	}
	// Breaking out of the loop leaves the chunker positioned after the
	// first chunk.
	second, err := chunker.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if second.Offset != first.End() {
		t.Errorf("second chunk Offset = %d, want %d", second.Offset, first.End())
	}
}

func TestNextContextCancellation(t *testing.T) {
	chunker, err := NewFromBytes(pseudoRandom(100_000, 17), smallConfig)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := chunker.NextContext(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("NextContext(cancelled) = %v, want context.Canceled", err)
	}
	if _, err := chunker.Next(); err != io.EOF {
		t.Errorf("Next after cancellation = %v, want io.EOF", err)
	}

	chunker, err = NewFromBytes(pseudoRandom(100_000, 17), smallConfig)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	var yielded int
	for _, err := range chunker.AllContext(ctx) {
		yielded++
		if !errors.Is(err, context.Canceled) {
			t.Errorf("AllContext yielded %v, want context.Canceled", err)
		}
	}
	if yielded != 1 {
		t.Errorf("AllContext yielded %d values, want 1", yielded)
	}
}

// closeTracker records whether Close was called.
type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestCloseDoesNotCloseBorrowedSource(t *testing.T) {
	source := &closeTracker{Reader: bytes.NewReader(pseudoRandom(50_000, 19))}
	chunker, err := New(source, smallConfig)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := chunker.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := chunker.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if source.closed {
		t.Error("Close closed a source the chunker does not own")
	}
	if _, err := chunker.Next(); err != io.EOF {
		t.Errorf("Next after Close = %v, want io.EOF", err)
	}
}

func TestOpenFile(t *testing.T) {
	data := pseudoRandom(150_000, 23)
	path := filepath.Join(t.TempDir(), "source.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	chunker, err := Open(path, smallConfig)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	fromFile := collect(t, chunker)
	if err := chunker.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := chunker.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	fromBytes := chunkBytes(t, data, smallConfig)
	if len(fromFile) != len(fromBytes) {
		t.Fatalf("file produced %d chunks, bytes produced %d", len(fromFile), len(fromBytes))
	}
	for i := range fromFile {
		if fromFile[i] != fromBytes[i] {
			t.Errorf("chunk %d differs between file and byte sources", i)
		}
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing"), smallConfig); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(missing): err = %v, want os.ErrNotExist", err)
	}
}

// oneByteReader returns at most one byte per Read.
type oneByteReader struct{ data []byte }

func (r *oneByteReader) Read(buffer []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	if len(buffer) == 0 {
		return 0, nil
	}
	buffer[0] = r.data[0]
	r.data = r.data[1:]
	return 1, nil
}

func TestReadGranularityDoesNotMatter(t *testing.T) {
	data := pseudoRandom(60_000, 29)
	chunker, err := New(&oneByteReader{data: data}, smallConfig)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := collect(t, chunker)
	want := chunkBytes(t, data, smallConfig)
	if len(got) != len(want) {
		t.Fatalf("one-byte reads produced %d chunks, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("chunk %d differs under one-byte reads", i)
		}
	}
}

func BenchmarkChunker(b *testing.B) {
	data := pseudoRandom(8<<20, 31)
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		chunker, err := NewFromBytes(data, DefaultConfig())
		if err != nil {
			b.Fatal(err)
		}
		for _, err := range chunker.All() {
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/osmem"
	"github.com/joshuapare/heapkit/internal/writer"
)

func TestRunDumpAndCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")

	_, err := executeCmd(t, "run", "--dump", path, "a:64", "a:64", "f:0")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 4096)

	out, err := executeCmd(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "region.bin layout (3 chunks)")
}

func TestCheckPoolDumpNeedsLazy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.bin")

	_, err := executeCmd(t, "pool", "--size", "256", "--dump", path, "a:64", "a:64", "a:80", "f:0", "f:1")
	require.NoError(t, err)

	_, err = executeCmd(t, "check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Coalescing")

	out, err := executeCmd(t, "check", "--lazy", path)
	require.NoError(t, err)
	assert.Contains(t, out, "pool.bin layout (3 chunks)")
}

func TestCheckRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.bin")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xAA}, 64), 0o644))

	_, err := executeCmd(t, "check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ChunkHeader")

	_, err = executeCmd(t, "check", filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
}

func TestCheckWarnsOnStaleChunk(t *testing.T) {
	data := make([]byte, 64)
	require.NoError(t, format.PutHeader(data, 0, format.Header{Size: 0, InUse: true, Next: 16}))
	require.NoError(t, format.PutHeader(data, 16, format.Header{Size: 32, Next: format.NoChunk}))
	path := filepath.Join(t.TempDir(), "stale.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	var out, errOut bytes.Buffer
	require.NoError(t, runCheck(&out, &errOut, path))
	assert.Contains(t, errOut.String(), "StaleChunk")
	assert.Contains(t, out.String(), "stale.bin layout (2 chunks)")
}

func TestDumpWithMemWriter(t *testing.T) {
	r, err := alloc.NewRegion(256, alloc.WithSource(osmem.Heap()))
	require.NoError(t, err)
	defer r.Close()
	_, _, err = r.Alloc(8)
	require.NoError(t, err)

	var mw writer.MemWriter
	require.NoError(t, dumpWith(&mw, r))
	assert.Equal(t, r.Bytes(), mw.Buf)

	chunks, err := chunksOf(mw.Buf)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.True(t, chunks[0].InUse)
}

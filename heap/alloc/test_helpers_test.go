package alloc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/osmem"
)

// newTestRegion creates a heap-backed region and closes it when the test ends.
func newTestRegion(t *testing.T, size int, opts ...Option) *Region {
	t.Helper()
	opts = append([]Option{WithSource(osmem.Heap())}, opts...)
	r, err := NewRegion(size, opts...)
	require.NoError(t, err, "NewRegion(%d)", size)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func newTestPool(t *testing.T, size int, opts ...Option) *Pool {
	t.Helper()
	p, err := NewPool(size, opts...)
	require.NoError(t, err, "NewPool(%d)", size)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// mustAlloc allocates n bytes and fails the test on error.
func mustAlloc(t *testing.T, a Allocator, n int) (Handle, []byte) {
	t.Helper()
	h, p, err := a.Alloc(n)
	require.NoError(t, err, "Alloc(%d)", n)
	require.NotEqual(t, NilHandle, h)
	require.GreaterOrEqual(t, len(p), n)
	return h, p
}

// assertInvariants checks the layout of a coalescing heap.
func assertInvariants(t *testing.T, a Allocator) {
	t.Helper()
	require.NoError(t, verify.AllInvariants(a.Bytes()))
	assertAccounting(t, a)
}

// assertLayout checks the layout of a heap that may hold adjacent free chunks.
func assertLayout(t *testing.T, a Allocator) {
	t.Helper()
	require.NoError(t, verify.Chunks(a.Bytes()))
	assertAccounting(t, a)
}

// assertAccounting checks that headers plus payloads add up to the capacity.
func assertAccounting(t *testing.T, a Allocator) {
	t.Helper()
	s := a.Stats()
	total := s.InUseBytes + s.FreeBytes + uint64(s.Chunks)*format.HeaderSize
	require.Equal(t, uint64(s.Capacity), total, "chunk spans must cover the buffer")
}

type chunkShape struct {
	Offset uint32
	Size   uint32
	InUse  bool
}

// layoutOf strips handles from Chunks for compact comparisons.
func layoutOf(a Allocator) []chunkShape {
	var out []chunkShape
	for _, c := range a.Chunks() {
		out = append(out, chunkShape{c.Offset, c.Size, c.InUse})
	}
	return out
}

// injectStale rewrites the chunk at off, which must carry at least 16 payload
// bytes, as an in-use zero-size chunk followed by a free chunk taking the
// rest of the original span.
func injectStale(t *testing.T, data []byte, off uint32) {
	t.Helper()
	h, err := format.ReadHeader(data, off)
	require.NoError(t, err)
	require.GreaterOrEqual(t, h.Size, uint32(format.HeaderSize))

	rest := format.Header{Size: h.Size - format.HeaderSize, Next: h.Next}
	stale := format.Header{Size: 0, InUse: true, Next: off + format.HeaderSize}
	require.NoError(t, format.PutHeader(data, off+format.HeaderSize, rest))
	require.NoError(t, format.PutHeader(data, off, stale))
}

// failingSource never hands out a buffer.
type failingSource struct{}

var errNoBuffer = errors.New("no buffer for you")

func (failingSource) Obtain(int) ([]byte, error) { return nil, errNoBuffer }
func (failingSource) Release([]byte) error      { return nil }
func (failingSource) Name() string              { return "failing" }

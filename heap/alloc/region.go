package alloc

import (
	"github.com/joshuapare/heapkit/internal/osmem"
)

// Region is the primary heap: one page-backed buffer, first-fit allocation,
// and a full coalescing pass on every free.
type Region struct {
	a *arena
}

// NewRegion rounds size up to a multiple of 8 and maps that many zeroed
// bytes as a single free chunk. A mapping failure matches ErrOutOfMemory and
// leaves nothing behind.
//
// Options:
//   - WithSource: replace the OS page source (default osmem.Pages)
//   - WithFreePolicy: replace CoalescingFree
//   - WithLogger: receive debug traces and rejected-free warnings
func NewRegion(size int, opts ...Option) (*Region, error) {
	cfg := buildConfig(osmem.Pages(), CoalescingFree, opts)
	a, err := newArena("region", size, cfg, ErrOutOfMemory)
	if err != nil {
		return nil, err
	}
	return &Region{a: a}, nil
}

// Alloc returns the first free chunk, in address order, whose payload holds
// n bytes rounded up to 8, splitting off the remainder when it can hold a
// header plus 8 bytes. The returned payload may be longer than n when the
// whole chunk was used.
func (r *Region) Alloc(n int) (Handle, []byte, error) {
	return r.a.alloc(n)
}

// Free releases h and then merges every pair of adjacent free chunks in the
// region. A nil, unknown or already freed handle returns an error matching
// ErrInvalidArgument, is logged at Warn, and changes nothing.
func (r *Region) Free(h Handle) error {
	return r.a.free(h)
}

// Payload returns the payload of a live allocation.
func (r *Region) Payload(h Handle) ([]byte, error) {
	return r.a.payload(h)
}

// Chunks returns the chunk list in list order.
func (r *Region) Chunks() []ChunkInfo {
	return r.a.chunks()
}

// Stats returns layout totals and operation counters.
func (r *Region) Stats() Stats {
	return r.a.snapshot()
}

// Capacity returns the aligned size recorded at construction. It never
// changes as chunks are consumed.
func (r *Region) Capacity() uint32 {
	return r.a.capacity
}

// Policy returns the free policy in effect.
func (r *Region) Policy() FreePolicy {
	return r.a.policy
}

// Bytes exposes the backing buffer. Writes outside payloads corrupt the region.
func (r *Region) Bytes() []byte {
	return r.a.bytes()
}

// Close unmaps the backing buffer. Every later call fails with ErrClosed.
func (r *Region) Close() error {
	return r.a.close()
}

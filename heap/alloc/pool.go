package alloc

import (
	"github.com/joshuapare/heapkit/internal/osmem"
)

// Pool is the secondary heap. It runs the same first-fit engine as a Region
// over a buffer from the Go heap, but by default its Free never coalesces.
type Pool struct {
	a *arena
}

// NewPool obtains size bytes (rounded up to 8) from the Go heap and formats
// them as a single free chunk. A source failure matches ErrOSFailure; the
// caller decides whether that is fatal.
func NewPool(size int, opts ...Option) (*Pool, error) {
	cfg := buildConfig(osmem.Heap(), LazyFree, opts)
	a, err := newArena("pool", size, cfg, ErrOSFailure)
	if err != nil {
		return nil, err
	}
	return &Pool{a: a}, nil
}

// Alloc is Region.Alloc over the pool's buffer. When no chunk fits it returns
// NilHandle, a nil payload and ErrOutOfMemory.
func (p *Pool) Alloc(n int) (Handle, []byte, error) {
	return p.a.alloc(n)
}

// Free clears the in-use flag of h's chunk. Under LazyFree adjacent free
// chunks are left as they are, so the largest satisfiable request can only
// shrink over the life of the pool.
func (p *Pool) Free(h Handle) error {
	return p.a.free(h)
}

// Payload returns the payload of a live allocation.
func (p *Pool) Payload(h Handle) ([]byte, error) {
	return p.a.payload(h)
}

// Chunks returns the chunk list in list order.
func (p *Pool) Chunks() []ChunkInfo {
	return p.a.chunks()
}

// Stats returns layout totals and operation counters.
func (p *Pool) Stats() Stats {
	return p.a.snapshot()
}

// Capacity returns the aligned size recorded at construction.
func (p *Pool) Capacity() uint32 {
	return p.a.capacity
}

// Policy returns the free policy in effect.
func (p *Pool) Policy() FreePolicy {
	return p.a.policy
}

// Bytes exposes the backing buffer.
func (p *Pool) Bytes() []byte {
	return p.a.bytes()
}

// Close drops the backing buffer. Every later call fails with ErrClosed.
func (p *Pool) Close() error {
	return p.a.close()
}

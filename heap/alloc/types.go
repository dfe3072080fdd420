package alloc

import (
	"fmt"
	"sync/atomic"
)

// Handle identifies one live allocation. The high 32 bits are a serial drawn
// from a process-wide counter, the low 32 bits the chunk offset, so a handle
// is never valid in two heaps or twice in one heap.
type Handle uint64

// NilHandle is the zero Handle. It never names an allocation.
const NilHandle Handle = 0

var handleSerial atomic.Uint32

func newHandle(off uint32) Handle {
	serial := handleSerial.Add(1)
	if serial == 0 {
		// wrapped; 0 would make the handle for offset 0 equal NilHandle
		serial = handleSerial.Add(1)
	}
	return Handle(uint64(serial)<<32 | uint64(off))
}

// Offset returns the offset of the chunk header the handle was issued for.
func (h Handle) Offset() uint32 { return uint32(h) }

func (h Handle) String() string {
	if h == NilHandle {
		return "nil"
	}
	return fmt.Sprintf("%d@0x%X", uint64(h)>>32, h.Offset())
}

// FreePolicy selects what Free does after clearing a chunk's in-use flag.
type FreePolicy uint8

const (
	policyDefault FreePolicy = iota

	// CoalescingFree merges every pair of adjacent free chunks after each
	// free. Region default.
	CoalescingFree

	// LazyFree only clears the in-use flag. Freed neighbours never merge, so
	// fragmentation is monotonic. Pool default.
	LazyFree
)

func (p FreePolicy) String() string {
	switch p {
	case CoalescingFree:
		return "coalescing"
	case LazyFree:
		return "lazy"
	default:
		return "default"
	}
}

// ChunkInfo describes one chunk in list order.
type ChunkInfo struct {
	Offset uint32 `json:"offset"` // header offset within the buffer
	Size   uint32 `json:"size"`   // payload bytes, header excluded
	InUse  bool   `json:"in_use"`
	Handle Handle `json:"handle,omitempty"` // NilHandle for free or orphaned chunks
}

// Stats is a point-in-time view of a heap.
type Stats struct {
	Capacity    uint32 `json:"capacity"`
	Chunks      int    `json:"chunks"`
	InUseChunks int    `json:"in_use_chunks"`
	FreeChunks  int    `json:"free_chunks"`
	InUseBytes  uint64 `json:"in_use_bytes"` // payload bytes only
	FreeBytes   uint64 `json:"free_bytes"`   // payload bytes only
	LargestFree uint32 `json:"largest_free"`

	AllocCalls   int `json:"alloc_calls"`
	FailedAllocs int `json:"failed_allocs"`
	FreeCalls    int `json:"free_calls"`
	InvalidFrees int `json:"invalid_frees"`
	Splits       int `json:"splits"`
	Coalesces    int `json:"coalesces"`
	Swept        int `json:"swept"`
}

// Allocator is the surface shared by Region and Pool.
type Allocator interface {
	// Alloc reserves at least n bytes and returns a handle plus the payload.
	Alloc(n int) (Handle, []byte, error)

	// Free releases the allocation named by h.
	Free(h Handle) error

	// Payload re-resolves a live handle to its payload.
	Payload(h Handle) ([]byte, error)

	// Chunks returns the chunk list in list order.
	Chunks() []ChunkInfo

	// Stats returns current layout totals and operation counters.
	Stats() Stats

	// Bytes exposes the raw backing buffer.
	Bytes() []byte

	// Close releases the backing buffer.
	Close() error
}

var (
	_ Allocator = (*Region)(nil)
	_ Allocator = (*Pool)(nil)
)

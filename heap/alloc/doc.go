// Package alloc provides first-fit chunk allocation over a single contiguous buffer.
//
// # Overview
//
// A heap owns one backing buffer and carves it into chunks. Every chunk is a
// 16-byte header (see internal/format) followed by its payload, and the chunks
// tile the buffer exactly: walking the list from offset 0 visits every byte
// once. Allocation is a linear first-fit scan in list order, which is also
// address order, so identical request sequences always produce identical
// layouts.
//
// # Heaps
//
// Region: the primary heap
//
//   - Backed by anonymous OS pages (osmem.Pages)
//   - Free coalesces the whole list (CoalescingFree)
//   - Supports Sweep and IsOversized
//
// Pool: the secondary heap
//
//   - Backed by the Go heap (osmem.Heap)
//   - Free only clears the in-use flag (LazyFree); freed neighbours never merge
//   - Source failure surfaces as ErrOSFailure instead of killing the process
//
// Both share the same engine and both satisfy Allocator.
//
// # Usage Example
//
//	r, err := alloc.NewRegion(4096)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	h, buf, err := r.Alloc(40)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later, give it back
//	err = r.Free(h)
//
// # Splitting
//
// Requests are rounded up to a multiple of 8. A chosen chunk is split only
// when its payload can hold the request plus a new header plus at least 8
// more bytes; otherwise the caller receives the whole chunk:
//
//	free chunk 4080, request 4   → used 8,  remainder 4056 (split)
//	free chunk 32,   request 16  → used 32, no split (32 < 16+16+8)
//
// # Handles
//
// Alloc returns an opaque Handle rather than an address. Handles are checked
// against a per-heap table on every use, so nil, stale, foreign and
// double-freed handles are rejected with ErrInvalidArgument instead of being
// trusted.
//
// # Errors
//
// Failures match one of three kinds with errors.Is: ErrOutOfMemory,
// ErrInvalidArgument, ErrOSFailure. Rejected frees are also reported out of
// band through the heap's slog.Logger at Warn level.
//
// # Thread Safety
//
// Heaps are not thread-safe. Callers must synchronize access externally; the
// chunk list of one heap is the unit of mutual exclusion.
package alloc

// Package osmem provides the backing buffers that heaps carve into chunks.
//
// Two sources exist. Pages maps fresh zero-filled pages straight from the
// operating system and is what a Region uses. Heap allocates from the Go
// runtime and is what a Pool uses. Both hand out plain byte slices; the heap
// packages never see raw pointers.
package osmem

import "errors"

// ErrBadSize indicates a request for a non-positive or oversized buffer.
var ErrBadSize = errors.New("osmem: bad buffer size")

// MaxSize is the largest buffer any source will hand out (2GB - 1). It keeps
// every offset representable in both a 32-bit chunk header and an int.
const MaxSize = 0x7FFFFFFF

// Source obtains and releases backing buffers.
type Source interface {
	// Obtain returns a zero-filled buffer of exactly size bytes.
	Obtain(size int) ([]byte, error)
	// Release gives the buffer back. Releasing nil is a no-op.
	Release(b []byte) error
	// Name identifies the source in logs.
	Name() string
}

// Package verify provides validation functions for chunk buffers.
// These helpers are used in tests, and by heapctl, to ensure heap invariants
// are maintained.
package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// ValidationError describes the first invariant a buffer violates.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates every invariant of a coalescing heap in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(data []byte) error {
	if err := Chunks(data); err != nil {
		return err
	}
	return NoAdjacentFree(data)
}

// Chunks validates that the chunk list starting at offset 0 partitions data
// exactly: every header parses, every size is 8-byte aligned, every link
// points at the physical successor, and the last chunk ends at len(data).
func Chunks(data []byte) error {
	if len(data) < format.MinBufferSize {
		return &ValidationError{
			Type:    "Buffer",
			Message: fmt.Sprintf("buffer too small: %d bytes (need %d)", len(data), format.MinBufferSize),
			Offset:  -1,
		}
	}

	off := uint32(format.FirstChunk)
	maxChunks := len(data)/format.HeaderSize + 1
	for n := 0; ; n++ {
		if n > maxChunks {
			return &ValidationError{
				Type:    "ChunkLink",
				Message: fmt.Sprintf("more than %d chunks, links loop", maxChunks),
				Offset:  int(off),
			}
		}

		h, err := format.ReadHeader(data, off)
		if err != nil {
			return &ValidationError{
				Type:    "ChunkHeader",
				Message: err.Error(),
				Offset:  int(off),
			}
		}

		if !format.IsAligned(h.Size) {
			return &ValidationError{
				Type:    "ChunkSize",
				Message: fmt.Sprintf("payload size %d not 8-byte aligned", h.Size),
				Offset:  int(off),
			}
		}

		end := uint64(off) + h.Span()
		if end > uint64(len(data)) {
			return &ValidationError{
				Type:    "ChunkBounds",
				Message: fmt.Sprintf("chunk ends at 0x%X past buffer end 0x%X", end, len(data)),
				Offset:  int(off),
			}
		}

		if h.Next == format.NoChunk {
			if end != uint64(len(data)) {
				return &ValidationError{
					Type:    "Coverage",
					Message: fmt.Sprintf("list ends at 0x%X, buffer is 0x%X bytes", end, len(data)),
					Offset:  int(off),
				}
			}
			return nil
		}

		if uint64(h.Next) != end {
			return &ValidationError{
				Type:    "ChunkLink",
				Message: fmt.Sprintf("next=0x%X, expected physical successor 0x%X", h.Next, end),
				Offset:  int(off),
			}
		}
		off = h.Next
	}
}

// NoAdjacentFree validates that no two list-adjacent chunks are both free.
// Only meaningful for heaps that coalesce on free; Chunks should pass first.
func NoAdjacentFree(data []byte) error {
	prevFree := false
	prevOff := -1
	return walk(data, func(off uint32, h format.Header) error {
		if prevFree && !h.InUse {
			return &ValidationError{
				Type:    "Coalescing",
				Message: fmt.Sprintf("free chunk follows free chunk at 0x%X", prevOff),
				Offset:  int(off),
			}
		}
		prevFree = !h.InUse
		prevOff = int(off)
		return nil
	})
}

// NoStaleChunks validates that no in-use chunk has a zero-byte payload.
func NoStaleChunks(data []byte) error {
	return walk(data, func(off uint32, h format.Header) error {
		if h.InUse && h.Size == 0 {
			return &ValidationError{
				Type:    "StaleChunk",
				Message: "in-use chunk with zero payload",
				Offset:  int(off),
			}
		}
		return nil
	})
}

func walk(data []byte, fn func(off uint32, h format.Header) error) error {
	off := uint32(format.FirstChunk)
	maxChunks := len(data)/format.HeaderSize + 1
	for n := 0; off != format.NoChunk; n++ {
		if n > maxChunks {
			return &ValidationError{Type: "ChunkLink", Message: "links loop", Offset: int(off)}
		}
		h, err := format.ReadHeader(data, off)
		if err != nil {
			return &ValidationError{Type: "ChunkHeader", Message: err.Error(), Offset: int(off)}
		}
		if err := fn(off, h); err != nil {
			return err
		}
		off = h.Next
	}
	return nil
}

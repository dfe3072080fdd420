package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// chunkList is the engine shared by Region and Pool: a run of chunk headers
// inside one buffer, linked in address order and addressed by offset.
type chunkList struct {
	data []byte
}

// newChunkList formats data as a single free chunk spanning the whole buffer.
func newChunkList(data []byte) (*chunkList, error) {
	if len(data) < format.MinBufferSize {
		return nil, fmt.Errorf("%w: buffer of %d bytes cannot hold a chunk", ErrInvalidArgument, len(data))
	}
	l := &chunkList{data: data}
	head := format.Header{
		Size: uint32(len(data) - format.HeaderSize),
		Next: format.NoChunk,
	}
	if err := l.put(format.FirstChunk, head); err != nil {
		return nil, err
	}
	return l, nil
}

// maxSteps bounds every walk so a corrupted link cannot loop forever.
func (l *chunkList) maxSteps() int {
	return len(l.data)/format.HeaderSize + 1
}

func (l *chunkList) header(off uint32) (format.Header, error) {
	h, err := format.ReadHeader(l.data, off)
	if err != nil {
		return format.Header{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return h, nil
}

func (l *chunkList) put(off uint32, h format.Header) error {
	if err := format.PutHeader(l.data, off, h); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return nil
}

// walk calls fn for every chunk in list order until fn returns false.
func (l *chunkList) walk(fn func(off uint32, h format.Header) bool) error {
	off := uint32(format.FirstChunk)
	for steps := 0; off != format.NoChunk; steps++ {
		if steps > l.maxSteps() {
			return fmt.Errorf("%w: chunk links loop", ErrCorrupt)
		}
		h, err := l.header(off)
		if err != nil {
			return err
		}
		if !fn(off, h) {
			return nil
		}
		off = h.Next
	}
	return nil
}

// firstFit returns the first free chunk, in list order, whose payload can
// hold need bytes.
func (l *chunkList) firstFit(need uint32) (uint32, format.Header, bool, error) {
	var (
		foundOff uint32
		found    format.Header
		ok       bool
	)
	err := l.walk(func(off uint32, h format.Header) bool {
		if !h.InUse && h.Size >= need {
			foundOff, found, ok = off, h, true
			return false
		}
		return true
	})
	return foundOff, found, ok, err
}

// split carves need bytes off the front of the free chunk h at off and links
// the remainder in right after it. The chunk is left alone when the
// remainder could not hold a header plus MinSplitPayload bytes. The returned
// header is what the caller should store at off.
func (l *chunkList) split(off uint32, h format.Header, need uint32) (format.Header, bool, error) {
	if uint64(h.Size) < uint64(need)+format.HeaderSize+format.MinSplitPayload {
		return h, false, nil
	}
	tailOff, ok := buf.AddU32(off, format.HeaderSize+need)
	if !ok {
		return h, false, fmt.Errorf("%w: split at 0x%X overflows", ErrCorrupt, off)
	}
	tail := format.Header{
		Size: h.Size - need - format.HeaderSize,
		Next: h.Next,
	}
	if err := l.put(tailOff, tail); err != nil {
		return h, false, err
	}
	h.Size = need
	h.Next = tailOff
	return h, true, nil
}

// coalesce merges list-adjacent free chunks until no free pair remains and
// returns the number of merges. It always walks the whole list.
func (l *chunkList) coalesce() (int, error) {
	merges := 0
	off := uint32(format.FirstChunk)
	for steps := 0; off != format.NoChunk; steps++ {
		if steps > 2*l.maxSteps() {
			return merges, fmt.Errorf("%w: chunk links loop", ErrCorrupt)
		}
		h, err := l.header(off)
		if err != nil {
			return merges, err
		}
		if h.Next == format.NoChunk {
			break
		}
		next, err := l.header(h.Next)
		if err != nil {
			return merges, err
		}
		if h.InUse || next.InUse {
			off = h.Next
			continue
		}

		absorbed := h.Next
		size, ok := buf.AddU32(h.Size, format.HeaderSize+next.Size)
		if !ok {
			return merges, fmt.Errorf("%w: merge at 0x%X overflows", ErrCorrupt, off)
		}
		h.Size = size
		h.Next = next.Next
		if err := l.put(off, h); err != nil {
			return merges, err
		}
		// The absorbed header is now payload of a free chunk.
		clear(l.data[absorbed : absorbed+format.HeaderSize])
		merges++
	}
	return merges, nil
}

// chunk returns the decoded chunk at off including its payload slice.
func (l *chunkList) chunk(off uint32) (format.Chunk, error) {
	c, err := format.ParseChunk(l.data, off)
	if err != nil {
		return format.Chunk{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return c, nil
}

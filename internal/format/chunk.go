package format

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// Header is the decoded form of a chunk header.
type Header struct {
	Size  uint32 // payload bytes, header excluded
	InUse bool
	Next  uint32 // offset of the following chunk or NoChunk
}

// Span returns the number of buffer bytes the chunk occupies.
func (h Header) Span() uint64 {
	return uint64(HeaderSize) + uint64(h.Size)
}

// Chunk is a header plus the payload it describes.
type Chunk struct {
	Offset uint32
	Header
	Data []byte // payload bytes (alias of underlying buffer)
}

// ReadHeader decodes the header stored at off.
func ReadHeader(b []byte, off uint32) (Header, error) {
	hb, ok := buf.Slice(b, int(off), HeaderSize)
	if !ok {
		return Header{}, fmt.Errorf("chunk 0x%X: %w", off, ErrTruncated)
	}
	if buf.U32LE(hb[MagicOffset:]) != ChunkMagic {
		return Header{}, fmt.Errorf("chunk 0x%X: %w", off, ErrBadMagic)
	}
	return Header{
		Size:  buf.U32LE(hb[SizeOffset:]),
		InUse: buf.U8(hb[FlagsOffset:])&FlagInUse != 0,
		Next:  buf.U32LE(hb[NextOffset:]),
	}, nil
}

// PutHeader encodes h at off, stamping the magic and clearing reserved bytes.
func PutHeader(b []byte, off uint32, h Header) error {
	hb, ok := buf.Slice(b, int(off), HeaderSize)
	if !ok {
		return fmt.Errorf("chunk 0x%X: %w", off, ErrTruncated)
	}
	var flags byte
	if h.InUse {
		flags = FlagInUse
	}
	buf.PutU32LE(hb[SizeOffset:], h.Size)
	hb[FlagsOffset] = flags
	hb[FlagsOffset+1], hb[FlagsOffset+2], hb[FlagsOffset+3] = 0, 0, 0
	buf.PutU32LE(hb[NextOffset:], h.Next)
	buf.PutU32LE(hb[MagicOffset:], ChunkMagic)
	return nil
}

// ParseChunk decodes the chunk at off and checks that its payload lies
// inside b. The returned Data aliases b and has its capacity clipped to the
// payload so appends cannot spill into the next header.
func ParseChunk(b []byte, off uint32) (Chunk, error) {
	h, err := ReadHeader(b, off)
	if err != nil {
		return Chunk{}, err
	}
	start := int(PayloadOffset(off))
	payload, ok := buf.Slice(b, start, int(h.Size))
	if !ok {
		return Chunk{}, fmt.Errorf("chunk 0x%X payload %d: %w", off, h.Size, ErrTruncated)
	}
	return Chunk{
		Offset: off,
		Header: h,
		Data:   payload[:len(payload):len(payload)],
	}, nil
}

// PayloadOffset returns the offset of the payload belonging to the chunk at off.
func PayloadOffset(off uint32) uint32 {
	return off + HeaderSize
}

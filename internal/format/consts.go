// Package format describes the binary layout of a chunk header. Region and
// pool buffers are nothing but a run of these headers, each followed by its
// payload, so every reader and writer of a buffer agrees on the constants
// below.
package format

const (
	// HeaderSize is the number of bytes preceding every payload.
	//
	// Layout (little-endian):
	//
	//	Offset  Size  Description
	//	0x00    4     Payload size in bytes, header excluded.
	//	0x04    1     Flags. Bit 0 set => chunk is in use.
	//	0x05    3     Reserved, zero.
	//	0x08    4     Offset of the next chunk, NoChunk for the last one.
	//	0x0C    4     Magic, always ChunkMagic.
	HeaderSize = 16

	// SizeOffset is the offset of the payload size field within a header.
	SizeOffset = 0x00

	// FlagsOffset is the offset of the flag byte within a header.
	FlagsOffset = 0x04

	// NextOffset is the offset of the next-chunk link within a header.
	NextOffset = 0x08

	// MagicOffset is the offset of the magic tag within a header.
	MagicOffset = 0x0C

	// FlagInUse marks a chunk whose payload belongs to a caller.
	FlagInUse = 0x01

	// ChunkMagic is stamped on every header ("chnk" little-endian) so a walk
	// can tell a header from payload bytes.
	ChunkMagic = 0x6B6E6863

	// NoChunk terminates the chunk list.
	NoChunk = 0xFFFFFFFF

	// FirstChunk is the offset of the list head. Coalescing always merges a
	// chunk into its predecessor, so the head never moves.
	FirstChunk = 0

	// Alignment is the required alignment of payload sizes and offsets.
	Alignment = 8

	// AlignmentMask is Alignment - 1.
	AlignmentMask = Alignment - 1

	// MinSplitPayload is the smallest payload a split remainder may carry.
	// A free chunk is only split when the leftover can hold a header plus this
	// many bytes; otherwise the allocation absorbs the whole chunk.
	MinSplitPayload = 8

	// MinBufferSize is the smallest buffer that can hold one usable chunk.
	MinBufferSize = HeaderSize + MinSplitPayload
)

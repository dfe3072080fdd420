package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadMagic indicates the bytes at a chunk offset do not carry ChunkMagic.
	ErrBadMagic = errors.New("format: bad chunk magic")
)

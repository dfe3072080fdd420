package alloc

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory indicates the backing buffer could not be obtained or no
	// free chunk is large enough for a request.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrInvalidArgument indicates a zero-size request or a nil, stale,
	// foreign or already released handle.
	ErrInvalidArgument = errors.New("alloc: invalid argument")

	// ErrOSFailure indicates a pool could not obtain its backing buffer.
	ErrOSFailure = errors.New("alloc: os failure")

	// ErrCorrupt indicates the chunk list no longer parses. Only reachable by
	// writing through Bytes().
	ErrCorrupt = errors.New("alloc: corrupt chunk list")
)

var (
	// ErrZeroSize rejects a zero-byte request.
	ErrZeroSize = fmt.Errorf("%w: zero size", ErrInvalidArgument)

	// ErrNilHandle rejects the zero Handle.
	ErrNilHandle = fmt.Errorf("%w: nil handle", ErrInvalidArgument)

	// ErrUnknownHandle rejects a handle this heap does not hold.
	ErrUnknownHandle = fmt.Errorf("%w: unknown handle", ErrInvalidArgument)

	// ErrDoubleFree rejects a free of a chunk that is already free.
	ErrDoubleFree = fmt.Errorf("%w: chunk already free", ErrInvalidArgument)

	// ErrClosed rejects any use of a heap after Close.
	ErrClosed = fmt.Errorf("%w: heap closed", ErrInvalidArgument)
)

package alloc

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/osmem"
)

// arena holds everything a Region and a Pool have in common: the chunk
// list, the handle table, the free policy and the counters.
type arena struct {
	kind     string // "region" or "pool", for logs
	list     *chunkList
	capacity uint32 // fixed at construction
	policy   FreePolicy
	src      osmem.Source
	log      *slog.Logger

	// handles maps every live handle to its chunk offset; byOff is the
	// reverse index used by Chunks and by sweep pruning.
	handles map[Handle]uint32
	byOff   map[uint32]Handle

	stats  counters
	closed bool
}

// counters are the monotonic parts of Stats.
type counters struct {
	allocCalls   int
	failedAllocs int
	freeCalls    int
	invalidFrees int
	splits       int
	coalesces    int
	swept        int
}

// newArena rounds size up to a multiple of 8, obtains a buffer of that size
// from cfg.source and formats it as one free chunk. Source failures are
// reported as srcErr so Region and Pool can classify them differently.
func newArena(kind string, size int, cfg config, srcErr error) (*arena, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %s size %d", ErrInvalidArgument, kind, size)
	}
	if size > osmem.MaxSize-format.AlignmentMask {
		return nil, fmt.Errorf("%w: %s size %d exceeds %d", ErrOutOfMemory, kind, size, osmem.MaxSize)
	}
	size = format.Align8(size)
	if size < format.MinBufferSize {
		return nil, fmt.Errorf("%w: %s size %d below minimum %d", ErrInvalidArgument, kind, size, format.MinBufferSize)
	}

	data, err := cfg.source.Obtain(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %s source %s: %w", srcErr, kind, cfg.source.Name(), err)
	}
	list, err := newChunkList(data)
	if err != nil {
		_ = cfg.source.Release(data)
		return nil, err
	}

	a := &arena{
		kind:     kind,
		list:     list,
		capacity: uint32(size),
		policy:   cfg.policy,
		src:      cfg.source,
		log:      cfg.logger.With("heap", kind),
		handles:  make(map[Handle]uint32),
		byOff:    make(map[uint32]Handle),
	}
	a.log.Debug("heap initialized",
		"capacity", size,
		"source", cfg.source.Name(),
		"policy", cfg.policy.String())
	return a, nil
}

func (a *arena) alloc(n int) (Handle, []byte, error) {
	a.stats.allocCalls++

	if a.closed {
		return NilHandle, nil, ErrClosed
	}
	if n == 0 {
		return NilHandle, nil, ErrZeroSize
	}
	if n < 0 {
		return NilHandle, nil, fmt.Errorf("%w: negative size %d", ErrInvalidArgument, n)
	}
	if n > int(a.capacity) {
		a.stats.failedAllocs++
		return NilHandle, nil, fmt.Errorf("%w: %d bytes exceeds capacity %d", ErrOutOfMemory, n, a.capacity)
	}
	need := uint32(format.Align8(n))

	off, h, found, err := a.list.firstFit(need)
	if err != nil {
		return NilHandle, nil, err
	}
	if !found {
		a.stats.failedAllocs++
		return NilHandle, nil, fmt.Errorf("%w: no free chunk of %d bytes", ErrOutOfMemory, need)
	}

	h, split, err := a.list.split(off, h, need)
	if err != nil {
		return NilHandle, nil, err
	}
	if split {
		a.stats.splits++
		a.log.Debug("split chunk", "offset", off, "need", need, "remainder_at", h.Next)
	}
	h.InUse = true
	if err := a.list.put(off, h); err != nil {
		return NilHandle, nil, err
	}

	c, err := a.list.chunk(off)
	if err != nil {
		return NilHandle, nil, err
	}
	handle := newHandle(off)
	a.handles[handle] = off
	a.byOff[off] = handle
	return handle, c.Data, nil
}

// free validates h, clears the chunk's in-use flag and applies the free
// policy. Every rejection leaves the list untouched.
func (a *arena) free(handle Handle) error {
	a.stats.freeCalls++

	off, err := a.resolve(handle)
	if err != nil {
		return a.reject(handle, err)
	}
	h, err := a.list.header(off)
	if err != nil {
		return err
	}
	if !h.InUse {
		return a.reject(handle, ErrDoubleFree)
	}

	h.InUse = false
	if err := a.list.put(off, h); err != nil {
		return err
	}
	a.forget(handle)

	if a.policy != CoalescingFree {
		return nil
	}
	merges, err := a.list.coalesce()
	a.stats.coalesces += merges
	if merges > 0 {
		a.log.Debug("coalesced", "merges", merges)
	}
	return err
}

// resolve maps a handle to its chunk offset. A handle that is not live is
// classified as a double free when its chunk is now free, and as unknown
// otherwise.
func (a *arena) resolve(handle Handle) (uint32, error) {
	if a.closed {
		return 0, ErrClosed
	}
	if handle == NilHandle {
		return 0, ErrNilHandle
	}
	if off, ok := a.handles[handle]; ok {
		return off, nil
	}
	if a.isFreeChunk(handle.Offset()) {
		return 0, ErrDoubleFree
	}
	return 0, ErrUnknownHandle
}

// isFreeChunk reports whether a free chunk header starts at off.
func (a *arena) isFreeChunk(off uint32) bool {
	free := false
	_ = a.list.walk(func(o uint32, h format.Header) bool {
		if o == off {
			free = !h.InUse
			return false
		}
		return o < off
	})
	return free
}

func (a *arena) reject(handle Handle, err error) error {
	a.stats.invalidFrees++
	a.log.Warn("rejected free", "handle", handle.String(), "err", err)
	return err
}

func (a *arena) forget(handle Handle) {
	if off, ok := a.handles[handle]; ok {
		delete(a.byOff, off)
	}
	delete(a.handles, handle)
}

func (a *arena) payload(handle Handle) ([]byte, error) {
	off, err := a.resolve(handle)
	if err != nil {
		return nil, err
	}
	c, err := a.list.chunk(off)
	if err != nil {
		return nil, err
	}
	return c.Data, nil
}

func (a *arena) chunks() []ChunkInfo {
	if a.closed {
		return nil
	}
	var out []ChunkInfo
	err := a.list.walk(func(off uint32, h format.Header) bool {
		info := ChunkInfo{Offset: off, Size: h.Size, InUse: h.InUse}
		if h.InUse {
			info.Handle = a.byOff[off]
		}
		out = append(out, info)
		return true
	})
	if err != nil {
		a.log.Error("chunk walk failed", "err", err)
	}
	return out
}

func (a *arena) snapshot() Stats {
	s := Stats{
		Capacity:     a.capacity,
		AllocCalls:   a.stats.allocCalls,
		FailedAllocs: a.stats.failedAllocs,
		FreeCalls:    a.stats.freeCalls,
		InvalidFrees: a.stats.invalidFrees,
		Splits:       a.stats.splits,
		Coalesces:    a.stats.coalesces,
		Swept:        a.stats.swept,
	}
	for _, c := range a.chunks() {
		s.Chunks++
		if c.InUse {
			s.InUseChunks++
			s.InUseBytes += uint64(c.Size)
			continue
		}
		s.FreeChunks++
		s.FreeBytes += uint64(c.Size)
		if c.Size > s.LargestFree {
			s.LargestFree = c.Size
		}
	}
	return s
}

func (a *arena) bytes() []byte {
	if a.closed {
		return nil
	}
	return a.list.data
}

func (a *arena) close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	data := a.list.data
	a.list.data = nil
	clear(a.handles)
	clear(a.byOff)
	a.log.Debug("heap closed")
	if err := a.src.Release(data); err != nil {
		return fmt.Errorf("alloc: release %s buffer: %w", a.kind, err)
	}
	return nil
}

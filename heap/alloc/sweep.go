package alloc

import (
	"github.com/joshuapare/heapkit/internal/format"
)

// Sweep force-frees every in-use chunk with a zero-byte payload and then
// runs the full coalescing pass. Alloc never produces such a chunk, so a
// non-zero result means something wrote a bad header through Bytes().
// Handles that no longer name an in-use chunk are dropped. Returns the
// number of chunks repaired.
//
// Sweep is a repair pass, not a collector: it never looks at whether live
// allocations are still referenced.
func (r *Region) Sweep() int {
	return r.a.sweep()
}

// IsOversized reports whether h's payload is larger than half the capacity
// recorded at construction. The threshold ignores current fragmentation.
// Nil and unknown handles report false.
func (r *Region) IsOversized(h Handle) bool {
	return r.a.isOversized(h)
}

func (a *arena) sweep() int {
	if a.closed {
		return 0
	}
	var stale []uint32
	err := a.list.walk(func(off uint32, h format.Header) bool {
		if h.InUse && h.Size == 0 {
			stale = append(stale, off)
		}
		return true
	})
	if err != nil {
		a.log.Error("sweep walk failed", "err", err)
		return 0
	}

	for _, off := range stale {
		h, err := a.list.header(off)
		if err != nil {
			a.log.Error("sweep read failed", "offset", off, "err", err)
			continue
		}
		h.InUse = false
		if err := a.list.put(off, h); err != nil {
			a.log.Error("sweep write failed", "offset", off, "err", err)
		}
	}
	a.stats.swept += len(stale)

	merges, err := a.list.coalesce()
	a.stats.coalesces += merges
	if err != nil {
		a.log.Error("sweep coalesce failed", "err", err)
	}
	a.prune()

	if len(stale) > 0 {
		a.log.Debug("swept stale chunks", "repaired", len(stale), "merges", merges)
	}
	return len(stale)
}

// prune drops handles whose offset is no longer an in-use chunk header.
func (a *arena) prune() {
	live := make(map[uint32]struct{}, len(a.handles))
	_ = a.list.walk(func(off uint32, h format.Header) bool {
		if h.InUse {
			live[off] = struct{}{}
		}
		return true
	})
	for handle, off := range a.handles {
		if _, ok := live[off]; !ok {
			a.forget(handle)
		}
	}
}

func (a *arena) isOversized(handle Handle) bool {
	off, ok := a.handles[handle]
	if !ok || a.closed {
		return false
	}
	h, err := a.list.header(off)
	if err != nil {
		return false
	}
	return h.Size > a.capacity/2
}

package osmem

import "fmt"

type heapSource struct {
	limit int
}

// Heap returns a Source backed by ordinary Go allocations.
func Heap() Source { return heapSource{limit: MaxSize} }

// HeapLimited is Heap with a lower ceiling on a single buffer.
func HeapLimited(limit int) Source { return heapSource{limit: limit} }

func (heapSource) Name() string { return "heap" }

func (s heapSource) Obtain(size int) (b []byte, err error) {
	if size <= 0 || size > s.limit {
		return nil, fmt.Errorf("osmem: heap allocation of %d bytes: %w", size, ErrBadSize)
	}
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("osmem: heap allocation of %d bytes: %v", size, r)
		}
	}()
	return make([]byte, size), nil
}

// Release drops the reference; the garbage collector reclaims the memory.
func (heapSource) Release([]byte) error { return nil }

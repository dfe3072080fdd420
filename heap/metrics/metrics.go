// Package metrics exports allocator statistics to Prometheus.
//
// A Collector reads Stats from one heap on every scrape and emits constant
// metrics, so nothing has to be updated on the allocation path:
//
//	r, _ := alloc.NewRegion(1 << 20)
//	c := metrics.NewCollector("scratch", r)
//	if err := c.Register(prometheus.DefaultRegisterer); err != nil {
//		return err
//	}
//
// Heaps are not safe for concurrent use. If the heap is mutated while a
// registry may be scraped, hold the same lock around Collect that guards the
// heap, for example by wrapping the registry's Gather.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/heapkit/heap/alloc"
)

const namespace = "heapkit"

// Collector implements prometheus.Collector for one heap.
type Collector struct {
	heap alloc.Allocator

	capacity    *prometheus.Desc
	bytes       *prometheus.Desc
	chunks      *prometheus.Desc
	largestFree *prometheus.Desc

	allocs       *prometheus.Desc
	failedAllocs *prometheus.Desc
	frees        *prometheus.Desc
	invalidFrees *prometheus.Desc
	splits       *prometheus.Desc
	coalesces    *prometheus.Desc
	swept        *prometheus.Desc
}

// NewCollector returns a collector for a. Every metric carries a constant
// heap=name label so several heaps can share a registry.
func NewCollector(name string, a alloc.Allocator) *Collector {
	labels := prometheus.Labels{"heap": name}
	desc := func(metric, help string, variable ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", metric), help, variable, labels)
	}
	return &Collector{
		heap: a,

		capacity:    desc("capacity_bytes", "Size of the backing buffer in bytes, fixed at construction."),
		bytes:       desc("payload_bytes", "Payload bytes by chunk state, headers excluded.", "state"),
		chunks:      desc("chunks", "Number of chunks by state.", "state"),
		largestFree: desc("largest_free_bytes", "Payload of the largest free chunk."),

		allocs:       desc("alloc_calls_total", "Total number of Alloc calls."),
		failedAllocs: desc("failed_allocs_total", "Total number of Alloc calls that found no chunk large enough."),
		frees:        desc("free_calls_total", "Total number of Free calls."),
		invalidFrees: desc("invalid_frees_total", "Total number of rejected Free calls."),
		splits:       desc("splits_total", "Total number of chunk splits."),
		coalesces:    desc("coalesces_total", "Total number of chunk merges."),
		swept:        desc("swept_chunks_total", "Total number of stale chunks repaired by Sweep."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.bytes
	ch <- c.chunks
	ch <- c.largestFree
	ch <- c.allocs
	ch <- c.failedAllocs
	ch <- c.frees
	ch <- c.invalidFrees
	ch <- c.splits
	ch <- c.coalesces
	ch <- c.swept
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.heap.Stats()

	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}
	counter := func(d *prometheus.Desc, v int) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}

	gauge(c.capacity, float64(s.Capacity))
	gauge(c.bytes, float64(s.InUseBytes), "in_use")
	gauge(c.bytes, float64(s.FreeBytes), "free")
	gauge(c.chunks, float64(s.InUseChunks), "in_use")
	gauge(c.chunks, float64(s.FreeChunks), "free")
	gauge(c.largestFree, float64(s.LargestFree))

	counter(c.allocs, s.AllocCalls)
	counter(c.failedAllocs, s.FailedAllocs)
	counter(c.frees, s.FreeCalls)
	counter(c.invalidFrees, s.InvalidFrees)
	counter(c.splits, s.Splits)
	counter(c.coalesces, s.Coalesces)
	counter(c.swept, s.Swept)
}

// Register adds the collector to reg. Registering the same collector twice
// is not an error.
func (c *Collector) Register(reg prometheus.Registerer) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			return err
		}
	}
	return nil
}

// Unregister removes the collector from reg.
func (c *Collector) Unregister(reg prometheus.Registerer) {
	reg.Unregister(c)
}

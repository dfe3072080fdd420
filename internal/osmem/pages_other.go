//go:build !unix

package osmem

// Pages falls back to the Go heap where anonymous mappings are unavailable.
func Pages() Source { return heapSource{limit: MaxSize} }

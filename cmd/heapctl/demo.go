package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/internal/buf"
)

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Replay the reference allocation sequence",
		Long: `The demo command maps a 4096-byte region, allocates an int, ten ints and
a 32-byte string, prints them, frees all three and then checks that a
128-byte request fits in the reclaimed space.

Example:
  heapctl demo
  heapctl demo -v
  heapctl demo --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout())
		},
	}
}

// demoResult is the JSON form of a demo run.
type demoResult struct {
	A           int32   `json:"a"`
	B           []int32 `json:"b"`
	C           string  `json:"c"`
	Reallocated bool    `json:"reallocated"`
}

const (
	demoRegionSize = 4096
	intSize        = 4
)

func runDemo(w io.Writer) error {
	r, err := alloc.NewRegion(demoRegionSize, alloc.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("region init failed: %w", err)
	}
	defer r.Close()

	a, pa, err := r.Alloc(intSize)
	if err != nil {
		return fmt.Errorf("alloc a failed: %w", err)
	}
	buf.PutU32LE(pa, 42)

	b, pb, err := r.Alloc(10 * intSize)
	if err != nil {
		return fmt.Errorf("alloc b failed: %w", err)
	}
	for i := range 10 {
		buf.PutU32LE(pb[i*intSize:], uint32(i*i))
	}

	c, pc, err := r.Alloc(32)
	if err != nil {
		return fmt.Errorf("alloc c failed: %w", err)
	}
	copy(pc, "custom heap allocator\x00")

	res := demoResult{
		A: int32(buf.U32LE(pa)),
		C: cString(pc),
	}
	for i := range 10 {
		res.B = append(res.B, int32(buf.U32LE(pb[i*intSize:])))
	}

	for _, h := range []alloc.Handle{a, b, c} {
		if err := r.Free(h); err != nil {
			return fmt.Errorf("free %s failed: %w", h, err)
		}
	}

	d, _, err := r.Alloc(128)
	if err != nil {
		return fmt.Errorf("alloc d failed: %w", err)
	}
	res.Reallocated = true
	if err := r.Free(d); err != nil {
		return fmt.Errorf("free %s failed: %w", d, err)
	}

	if jsonOut {
		return printJSON(w, res)
	}

	fmt.Fprintf(w, "a = %d\n", res.A)
	var sb strings.Builder
	for _, v := range res.B {
		fmt.Fprintf(&sb, "%d ", v)
	}
	fmt.Fprintf(w, "b: %s\n", sb.String())
	fmt.Fprintf(w, "c = %s\n", res.C)
	fmt.Fprintln(w, "re-allocation successful")
	return nil
}

// cString returns the bytes of p up to the first NUL.
func cString(p []byte) string {
	if i := bytes.IndexByte(p, 0); i >= 0 {
		return string(p[:i])
	}
	return string(p)
}

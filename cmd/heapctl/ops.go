package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/internal/writer"
)

type opKind byte

const (
	opAlloc     opKind = 'a'
	opFree      opKind = 'f'
	opSweep     opKind = 's'
	opOversized opKind = 'o'
)

// op is one parsed step of a script such as "a:64 a:32 f:0 s".
type op struct {
	kind opKind
	arg  int // size for a, allocation index for f and o
	text string
}

// parseOps parses a script. Free and oversized steps must refer to an
// earlier allocation by its 0-based position among the a steps. Sweep and
// oversized steps are only accepted when regionOps is set.
func parseOps(args []string, regionOps bool) ([]op, error) {
	var ops []op
	allocs := 0
	for i, text := range args {
		kind, rest, hasArg := strings.Cut(text, ":")
		if len(kind) != 1 {
			return nil, fmt.Errorf("op %d %q: unknown op", i+1, text)
		}
		o := op{kind: opKind(kind[0]), text: text}

		switch o.kind {
		case opSweep:
			if hasArg {
				return nil, fmt.Errorf("op %d %q: s takes no argument", i+1, text)
			}
		case opAlloc, opFree, opOversized:
			if !hasArg {
				return nil, fmt.Errorf("op %d %q: missing argument", i+1, text)
			}
			n, err := strconv.Atoi(rest)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("op %d %q: bad argument %q", i+1, text, rest)
			}
			o.arg = n
		default:
			return nil, fmt.Errorf("op %d %q: unknown op", i+1, text)
		}

		if !regionOps && (o.kind == opSweep || o.kind == opOversized) {
			return nil, fmt.Errorf("op %d %q: not supported on a pool", i+1, text)
		}
		if (o.kind == opFree || o.kind == opOversized) && o.arg >= allocs {
			return nil, fmt.Errorf("op %d %q: no allocation #%d before this op", i+1, text, o.arg)
		}
		if o.kind == opAlloc {
			allocs++
		}
		ops = append(ops, o)
	}
	return ops, nil
}

// opResult records the outcome of one op.
type opResult struct {
	Op     string `json:"op"`
	Index  int    `json:"index"`
	Handle string `json:"handle,omitempty"`
	Bytes  int    `json:"bytes,omitempty"`
	Result string `json:"result"`
	Err    string `json:"error,omitempty"`
}

// sweeper is implemented by heaps that support repair and size checks.
type sweeper interface {
	Sweep() int
	IsOversized(alloc.Handle) bool
}

// applyOps runs ops against a. Allocation failures and rejected frees are
// reported in the results; they do not stop the script.
func applyOps(a alloc.Allocator, ops []op) ([]opResult, error) {
	var (
		handles []alloc.Handle
		results []opResult
	)
	sw, _ := a.(sweeper)

	for _, o := range ops {
		res := opResult{Op: o.text, Index: o.arg}
		switch o.kind {
		case opAlloc:
			res.Index = len(handles)
			h, p, err := a.Alloc(o.arg)
			handles = append(handles, h)
			if err != nil {
				res.Result, res.Err = "failed", err.Error()
				break
			}
			res.Handle, res.Bytes, res.Result = h.String(), len(p), "allocated"

		case opFree:
			h := handles[o.arg]
			res.Handle = h.String()
			if err := a.Free(h); err != nil {
				res.Result, res.Err = "rejected", err.Error()
				break
			}
			res.Result = "freed"

		case opSweep:
			if sw == nil {
				return results, errors.New("heap does not support sweep")
			}
			res.Index = 0
			res.Result = fmt.Sprintf("repaired %d", sw.Sweep())

		case opOversized:
			if sw == nil {
				return results, errors.New("heap does not support oversized checks")
			}
			h := handles[o.arg]
			res.Handle = h.String()
			res.Result = strconv.FormatBool(sw.IsOversized(h))
		}
		results = append(results, res)
	}
	return results, nil
}

// runReport is the JSON form of a scripted run.
type runReport struct {
	Heap   string            `json:"heap"`
	Ops    []opResult        `json:"ops"`
	Chunks []alloc.ChunkInfo `json:"chunks"`
	Stats  alloc.Stats       `json:"stats"`
}

// runScript applies ops and prints the per-op results followed by the layout.
func runScript(w io.Writer, name string, a alloc.Allocator, ops []op) error {
	results, err := applyOps(a, ops)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(w, runReport{
			Heap:   name,
			Ops:    results,
			Chunks: a.Chunks(),
			Stats:  a.Stats(),
		})
	}

	for _, r := range results {
		line := fmt.Sprintf("%-8s %s", r.Op, r.Result)
		if r.Handle != "" {
			line += " " + r.Handle
		}
		if r.Bytes > 0 {
			line += fmt.Sprintf(" (%d bytes)", r.Bytes)
		}
		if r.Err != "" {
			line += ": " + r.Err
		}
		fmt.Fprintln(w, line)
	}
	if len(results) > 0 {
		fmt.Fprintln(w)
	}
	return newPrinter(w).PrintHeap(name, a)
}

// dumpTo writes the backing buffer of a to path. An empty path is a no-op.
func dumpTo(path string, a alloc.Allocator) error {
	if path == "" {
		return nil
	}
	return dumpWith(&writer.FileWriter{Path: path}, a)
}

func dumpWith(sink writer.Sink, a alloc.Allocator) error {
	if err := sink.WriteBuffer(a.Bytes()); err != nil {
		return fmt.Errorf("dump failed: %w", err)
	}
	logger.Debug("dumped heap buffer", "bytes", len(a.Bytes()))
	return nil
}

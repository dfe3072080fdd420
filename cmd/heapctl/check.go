package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/format"
)

var checkLazy bool

func init() {
	cmd := newCheckCmd()
	cmd.Flags().BoolVar(&checkLazy, "lazy", false, "Allow adjacent free chunks (pool dumps)")
	rootCmd.AddCommand(cmd)
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <dump>",
		Short: "Validate a dumped heap buffer",
		Long: `The check command reads a buffer written with --dump, validates its chunk
list and prints the layout. Adjacent free chunks are an error unless --lazy
is given. In-use chunks with a zero-byte payload are reported as warnings.

Example:
  heapctl check region.bin
  heapctl check --lazy pool.bin --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
		},
	}
}

func runCheck(w, errw io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read dump: %w", err)
	}

	if err := verify.Chunks(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !checkLazy {
		if err := verify.NoAdjacentFree(data); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := verify.NoStaleChunks(data); err != nil {
		fmt.Fprintf(errw, "Warning: %v\n", err)
	}

	chunks, err := chunksOf(data)
	if err != nil {
		return err
	}
	return newPrinter(w).PrintLayout(filepath.Base(path), chunks)
}

// chunksOf lists the chunks of a validated buffer. Dumps carry no handles.
func chunksOf(data []byte) ([]alloc.ChunkInfo, error) {
	var out []alloc.ChunkInfo
	off := uint32(format.FirstChunk)
	for off != format.NoChunk {
		h, err := format.ReadHeader(data, off)
		if err != nil {
			return nil, err
		}
		out = append(out, alloc.ChunkInfo{Offset: off, Size: h.Size, InUse: h.InUse})
		off = h.Next
	}
	return out, nil
}

package main

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
)

var (
	runSize datasize.ByteSize
	runDump string
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().Var(newSizeValue(4*datasize.KB, &runSize), "size", "Region size (e.g. 4096, 4KB, 1MB)")
	cmd.Flags().StringVar(&runDump, "dump", "", "Write the final region buffer to this file")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run OP...",
		Short: "Run a scripted sequence against a region",
		Long: `The run command maps a fresh region and applies each OP in order:

  a:<n>   allocate n bytes
  f:<i>   free the i-th allocation (0-based)
  s       sweep stale chunks
  o:<i>   report whether the i-th allocation is oversized

Failed allocations and rejected frees are reported and the script continues.
The final chunk layout and statistics are printed at the end.

Example:
  heapctl run a:4 a:40 a:32 f:0 f:1 f:2 a:128
  heapctl run --size 1KB a:600 o:0
  heapctl run a:8 f:0 f:0 --json
  heapctl run --dump region.bin a:64 a:64 f:0`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := parseOps(args, true)
			if err != nil {
				return err
			}
			size, err := bytesOf(runSize)
			if err != nil {
				return err
			}
			r, err := alloc.NewRegion(size, alloc.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("region init failed: %w", err)
			}
			defer r.Close()
			if err := runScript(cmd.OutOrStdout(), "region", r, ops); err != nil {
				return err
			}
			return dumpTo(runDump, r)
		},
	}
}

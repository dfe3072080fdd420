package main

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/verify"
)

var layoutSize datasize.ByteSize

func init() {
	cmd := newLayoutCmd()
	cmd.Flags().Var(newSizeValue(4*datasize.KB, &layoutSize), "size", "Region size (e.g. 4096, 4KB, 1MB)")
	rootCmd.AddCommand(cmd)
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the layout of a fresh region",
		Long: `The layout command maps a region of the given size, checks its chunk
list and prints it. Sizes are rounded up to a multiple of 8.

Example:
  heapctl layout
  heapctl layout --size 1MB --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := bytesOf(layoutSize)
			if err != nil {
				return err
			}
			r, err := alloc.NewRegion(size, alloc.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("region init failed: %w", err)
			}
			defer r.Close()
			if err := verify.AllInvariants(r.Bytes()); err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).PrintHeap("region", r)
		},
	}
}

package main

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
)

var (
	poolSize     datasize.ByteSize
	poolCoalesce bool
	poolDump     string
)

func init() {
	cmd := newPoolCmd()
	cmd.Flags().Var(newSizeValue(4*datasize.KB, &poolSize), "size", "Pool size (e.g. 4096, 4KB, 1MB)")
	cmd.Flags().BoolVar(&poolCoalesce, "coalesce", false, "Merge adjacent free chunks on free")
	cmd.Flags().StringVar(&poolDump, "dump", "", "Write the final pool buffer to this file")
	rootCmd.AddCommand(cmd)
}

func newPoolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pool OP...",
		Short: "Run a scripted sequence against a pool",
		Long: `The pool command is run against a heap-backed pool. Pools only accept
a:<n> and f:<i>; by default their frees never merge neighbours, so the
layout shows the fragmentation left behind.

Example:
  heapctl pool --size 256 a:64 a:64 a:80 f:0 f:1 a:100
  heapctl pool --size 256 --coalesce a:64 a:64 a:80 f:0 f:1 a:100`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := parseOps(args, false)
			if err != nil {
				return err
			}
			size, err := bytesOf(poolSize)
			if err != nil {
				return err
			}
			opts := []alloc.Option{alloc.WithLogger(logger)}
			if poolCoalesce {
				opts = append(opts, alloc.WithFreePolicy(alloc.CoalescingFree))
			}
			p, err := alloc.NewPool(size, opts...)
			if err != nil {
				return fmt.Errorf("pool init failed: %w", err)
			}
			defer p.Close()
			if err := runScript(cmd.OutOrStdout(), "pool", p, ops); err != nil {
				return err
			}
			return dumpTo(poolDump, p)
		},
	}
}

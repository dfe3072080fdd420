package main

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/c2h5oh/datasize"
)

// executeCmd runs heapctl with args and returns what it wrote to stdout.
// Global flag state is reset afterwards so tests stay independent.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags() {
	verbose, jsonOut, noColor = false, false, false
	runSize, poolSize, layoutSize = 4*datasize.KB, 4*datasize.KB, 4*datasize.KB
	poolCoalesce = false
	runDump, poolDump = "", ""
	checkLazy = false
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

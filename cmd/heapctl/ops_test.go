package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/internal/osmem"
)

func TestParseOps(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		regionOps bool
		want      []op
		wantErr   string
	}{
		{
			name:      "alloc free sweep oversized",
			args:      []string{"a:4", "a:40", "f:0", "s", "o:1"},
			regionOps: true,
			want: []op{
				{kind: opAlloc, arg: 4, text: "a:4"},
				{kind: opAlloc, arg: 40, text: "a:40"},
				{kind: opFree, arg: 0, text: "f:0"},
				{kind: opSweep, text: "s"},
				{kind: opOversized, arg: 1, text: "o:1"},
			},
		},
		{name: "unknown op", args: []string{"x:1"}, regionOps: true, wantErr: "unknown op"},
		{name: "long op name", args: []string{"alloc:1"}, regionOps: true, wantErr: "unknown op"},
		{name: "missing argument", args: []string{"a"}, regionOps: true, wantErr: "missing argument"},
		{name: "negative size", args: []string{"a:-4"}, regionOps: true, wantErr: "bad argument"},
		{name: "non numeric", args: []string{"a:four"}, regionOps: true, wantErr: "bad argument"},
		{name: "sweep with argument", args: []string{"s:1"}, regionOps: true, wantErr: "no argument"},
		{name: "free before alloc", args: []string{"f:0", "a:8"}, regionOps: true, wantErr: "no allocation #0"},
		{name: "free index out of range", args: []string{"a:8", "f:1"}, regionOps: true, wantErr: "no allocation #1"},
		{name: "sweep on pool", args: []string{"a:8", "s"}, regionOps: false, wantErr: "not supported on a pool"},
		{name: "oversized on pool", args: []string{"a:8", "o:0"}, regionOps: false, wantErr: "not supported on a pool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOps(tt.args, tt.regionOps)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyOpsRegion(t *testing.T) {
	r, err := alloc.NewRegion(4096, alloc.WithSource(osmem.Heap()))
	require.NoError(t, err)
	defer r.Close()

	ops, err := parseOps([]string{"a:4", "a:40", "a:32", "f:0", "f:1", "f:2", "a:128", "f:2", "o:3", "s"}, true)
	require.NoError(t, err)

	results, err := applyOps(r, ops)
	require.NoError(t, err)
	require.Len(t, results, 10)

	assert.Equal(t, "allocated", results[0].Result)
	assert.Equal(t, 8, results[0].Bytes)
	assert.Equal(t, 40, results[1].Bytes)
	assert.Equal(t, "freed", results[5].Result)
	assert.Equal(t, "allocated", results[6].Result)
	assert.Equal(t, 3, results[6].Index)
	assert.Equal(t, "rejected", results[7].Result)
	assert.Contains(t, results[7].Err, "invalid argument")
	assert.Equal(t, "false", results[8].Result)
	assert.Equal(t, "repaired 0", results[9].Result)

	chunks := r.Chunks()
	require.Len(t, chunks, 2)
	assert.Equal(t, uint32(128), chunks[0].Size)
}

func TestApplyOpsFailedAllocKeepsIndex(t *testing.T) {
	p, err := alloc.NewPool(64)
	require.NoError(t, err)
	defer p.Close()

	ops, err := parseOps([]string{"a:1000", "a:8", "f:0", "f:1"}, false)
	require.NoError(t, err)
	results, err := applyOps(p, ops)
	require.NoError(t, err)

	assert.Equal(t, "failed", results[0].Result)
	assert.Contains(t, results[0].Err, "out of memory")
	assert.Equal(t, 1, results[1].Index)
	assert.Equal(t, "rejected", results[2].Result, "freeing a failed allocation is rejected")
	assert.Equal(t, "freed", results[3].Result)
}

func TestRunCommand(t *testing.T) {
	out, err := executeCmd(t, "run", "a:4", "a:40", "a:32", "f:0", "f:1", "f:2", "a:128")
	require.NoError(t, err)

	assert.Contains(t, out, "allocated")
	assert.Contains(t, out, "freed")
	assert.Contains(t, out, "region layout (2 chunks)")
	assert.Contains(t, out, "0x0090")
}

func TestRunCommandJSON(t *testing.T) {
	out, err := executeCmd(t, "run", "--size", "1KB", "--json", "a:600", "o:0", "a:600")
	require.NoError(t, err)

	var report runReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "region", report.Heap)
	require.Len(t, report.Ops, 3)
	assert.Equal(t, "true", report.Ops[1].Result)
	assert.Equal(t, "failed", report.Ops[2].Result)
	assert.Equal(t, uint32(1024), report.Stats.Capacity)
	assert.Equal(t, 1, report.Stats.FailedAllocs)
}

func TestRunCommandBadSize(t *testing.T) {
	_, err := executeCmd(t, "run", "--size", "lots", "a:8")
	require.Error(t, err)

	_, err = executeCmd(t, "run", "--size", "8", "a:8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region init failed")
}

func TestPoolCommand(t *testing.T) {
	out, err := executeCmd(t, "pool", "--size", "256", "a:64", "a:64", "a:80", "f:0", "f:1", "a:100")
	require.NoError(t, err)
	assert.Contains(t, out, "a:100    failed")
	assert.Contains(t, out, "out of memory")
	assert.Contains(t, out, "pool layout (3 chunks)")

	out, err = executeCmd(t, "pool", "--size", "256", "--coalesce", "a:64", "a:64", "a:80", "f:0", "f:1", "a:100")
	require.NoError(t, err)
	assert.Contains(t, out, "a:100    allocated")
	assert.Contains(t, out, "pool layout (3 chunks)")
}

func TestPoolCommandRejectsRegionOps(t *testing.T) {
	_, err := executeCmd(t, "pool", "a:8", "s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported on a pool")
}

func TestLayoutCommand(t *testing.T) {
	out, err := executeCmd(t, "layout", "--size", "1KB")
	require.NoError(t, err)
	assert.Contains(t, out, "region layout (1 chunks)")
	assert.Contains(t, out, "1,008 B")
}

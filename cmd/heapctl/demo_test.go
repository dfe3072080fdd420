package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDemo(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runDemo(&out))

	want := "a = 42\n" +
		"b: 0 1 4 9 16 25 36 49 64 81 \n" +
		"c = custom heap allocator\n" +
		"re-allocation successful\n"
	assert.Equal(t, want, out.String())
}

func TestDemoCommandJSON(t *testing.T) {
	out, err := executeCmd(t, "demo", "--json")
	require.NoError(t, err)

	var res demoResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, int32(42), res.A)
	assert.Equal(t, []int32{0, 1, 4, 9, 16, 25, 36, 49, 64, 81}, res.B)
	assert.Equal(t, "custom heap allocator", res.C)
	assert.True(t, res.Reallocated)
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "heapctl dev")
}

package printer

import (
	"encoding/json"
	"fmt"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// jsonHeap is the JSON document for one heap.
type jsonHeap struct {
	Name   string      `json:"name"`
	Chunks []jsonChunk `json:"chunks"`
	Stats  alloc.Stats `json:"stats,omitzero"`
}

// jsonChunk is one chunk in JSON output. Handles are rendered as strings.
type jsonChunk struct {
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
	InUse  bool   `json:"in_use"`
	Handle string `json:"handle,omitempty"`
}

func (p *Printer) jsonChunks(chunks []alloc.ChunkInfo) []jsonChunk {
	out := make([]jsonChunk, 0, len(chunks))
	for _, c := range chunks {
		jc := jsonChunk{Offset: c.Offset, Size: c.Size, InUse: c.InUse}
		if p.opts.ShowHandles && c.Handle != alloc.NilHandle {
			jc.Handle = c.Handle.String()
		}
		out = append(out, jc)
	}
	return out
}

func (p *Printer) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

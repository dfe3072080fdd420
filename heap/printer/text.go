package printer

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/joshuapare/heapkit/heap/alloc"
)

func (p *Printer) printLayoutText(name string, chunks []alloc.ChunkInfo) error {
	if _, err := p.heading.Fprintf(p.writer, "%s layout (%s chunks)\n", name, p.count(len(chunks))); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	header := "  OFFSET\tSIZE\tSTATE"
	if p.opts.ShowHandles {
		header += "\tHANDLE"
	}
	fmt.Fprintln(tw, header)

	for _, c := range chunks {
		state := "free"
		if c.InUse {
			state = "in use"
		}
		line := fmt.Sprintf("  0x%04X\t%s\t%s", c.Offset, p.size(uint64(c.Size)), state)
		if p.opts.ShowHandles {
			handle := "-"
			if c.Handle != alloc.NilHandle {
				handle = c.Handle.String()
			} else if c.InUse {
				handle = "orphaned"
			}
			line += "\t" + handle
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

func (p *Printer) printStatsText(s alloc.Stats) error {
	if _, err := p.heading.Fprintln(p.writer, "stats"); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	rows := []struct {
		label string
		value string
	}{
		{"capacity", p.size(uint64(s.Capacity))},
		{"in use", fmt.Sprintf("%s in %s chunks", p.size(s.InUseBytes), p.count(s.InUseChunks))},
		{"free", fmt.Sprintf("%s in %s chunks", p.size(s.FreeBytes), p.count(s.FreeChunks))},
		{"largest free", p.size(uint64(s.LargestFree))},
		{"allocs", fmt.Sprintf("%s (%s failed)", p.count(s.AllocCalls), p.count(s.FailedAllocs))},
		{"frees", fmt.Sprintf("%s (%s rejected)", p.count(s.FreeCalls), p.count(s.InvalidFrees))},
		{"splits", p.count(s.Splits)},
		{"coalesces", p.count(s.Coalesces)},
		{"swept", p.count(s.Swept)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s:\t%s\n", r.label, r.value)
	}
	return tw.Flush()
}

// size renders a byte count, optionally followed by its IEC form.
func (p *Printer) size(n uint64) string {
	raw := p.num.Sprintf("%d B", n)
	if !p.opts.HumanSizes || n < 1024 {
		return raw
	}
	return fmt.Sprintf("%s (%s)", raw, humanize.IBytes(n))
}

func (p *Printer) count(n int) string {
	return p.num.Sprintf("%d", n)
}

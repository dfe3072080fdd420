package printer

import (
	"io"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs an aligned, human-readable table.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// Color enables bold section headings (text format only).
	// Default: false
	Color bool

	// HumanSizes adds IEC sizes ("4.0 KiB") next to raw byte counts
	// (text format only).
	// Default: true
	HumanSizes bool

	// ShowHandles includes the owning handle of each in-use chunk.
	// Default: true
	ShowHandles bool

	// Language selects digit grouping for counts (text format only).
	// Default: language.English
	Language language.Tag
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		Color:       false,
		HumanSizes:  true,
		ShowHandles: true,
		Language:    language.English,
	}
}

// Printer handles formatted output of heap layouts and statistics.
type Printer struct {
	opts    Options
	writer  io.Writer
	num     *message.Printer
	heading *color.Color
}

// New creates a new Printer writing to w.
//
// Example:
//
//	r, _ := alloc.NewRegion(4096)
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintHeap("region", r)
func New(w io.Writer, opts Options) *Printer {
	heading := color.New(color.Bold)
	if opts.Color {
		heading.EnableColor()
	} else {
		heading.DisableColor()
	}
	return &Printer{
		opts:    opts,
		writer:  w,
		num:     message.NewPrinter(opts.Language),
		heading: heading,
	}
}

// PrintHeap prints the chunk list and statistics of a.
func (p *Printer) PrintHeap(name string, a alloc.Allocator) error {
	chunks := a.Chunks()
	stats := a.Stats()
	if p.opts.Format == FormatJSON {
		return p.writeJSON(jsonHeap{
			Name:   name,
			Chunks: p.jsonChunks(chunks),
			Stats:  stats,
		})
	}
	if err := p.printLayoutText(name, chunks); err != nil {
		return err
	}
	return p.printStatsText(stats)
}

// PrintLayout prints only the chunk list.
func (p *Printer) PrintLayout(name string, chunks []alloc.ChunkInfo) error {
	if p.opts.Format == FormatJSON {
		return p.writeJSON(jsonHeap{Name: name, Chunks: p.jsonChunks(chunks)})
	}
	return p.printLayoutText(name, chunks)
}

// PrintStats prints only the statistics.
func (p *Printer) PrintStats(s alloc.Stats) error {
	if p.opts.Format == FormatJSON {
		return p.writeJSON(s)
	}
	return p.printStatsText(s)
}

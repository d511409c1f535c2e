package diffview

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jjazzboss/colorbindiff/internal/align"
)

// rowIndicator annotates the address prefix of rows containing a change.
const rowIndicator = "!"

// Renderer formats completed rows as single output lines. It holds no
// state across calls beyond its configuration.
type Renderer struct {
	opts     Options
	out      io.Writer
	added    *color.Color
	deleted  *color.Color
	modified *color.Color
	prefix   *color.Color
}

// NewRenderer builds a renderer for out. When opts.Color is set the color
// sequences are emitted unconditionally, ignoring TTY detection; callers
// decide the auto-downgrade policy before constructing the renderer.
func NewRenderer(out io.Writer, opts Options) *Renderer {
	r := &Renderer{
		opts:     opts,
		out:      out,
		added:    color.New(color.FgGreen),
		deleted:  color.New(color.FgRed),
		modified: color.New(color.FgYellow),
		prefix:   color.New(color.FgCyan, color.Bold),
	}
	if opts.Color {
		r.added.EnableColor()
		r.deleted.EnableColor()
		r.modified.EnableColor()
		r.prefix.EnableColor()
	}
	return r
}

// RenderRow writes the two-column line for row, or nothing when the row is
// empty or suppressed by changes-only mode.
func (r *Renderer) RenderRow(row Row) error {
	if len(row.Cells) == 0 {
		return nil
	}
	if r.opts.ChangesOnly && !row.HasChange {
		return nil
	}

	var b strings.Builder
	r.writeSide(&b, row, oldSide)
	b.WriteString("  ")
	r.writeSide(&b, row, newSide)
	b.WriteByte('\n')

	if _, err := io.WriteString(r.out, b.String()); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	return nil
}

type side int

const (
	oldSide side = iota
	newSide
)

func (r *Renderer) writeSide(b *strings.Builder, row Row, s side) {
	offset := row.OldOffset
	if s == newSide {
		offset = row.NewOffset
	}
	b.WriteString(r.addressPrefix(offset, row.HasChange))

	columns := r.opts.columns()
	for i := 0; i < columns; i++ {
		if i >= len(row.Cells) {
			b.WriteString("   ")
			continue
		}
		cell := sideCell(row.Cells[i], s)
		text := r.cellMarker(cell) + cell.Hex
		b.WriteString(r.decorate(text, cell.Kind))
	}

	if !r.opts.ASCII {
		return
	}
	b.WriteByte(' ')
	for i := 0; i < columns; i++ {
		if i >= len(row.Cells) {
			b.WriteByte(' ')
			continue
		}
		cell := sideCell(row.Cells[i], s)
		b.WriteString(r.decorate(string(cell.Char), cell.Kind))
	}
}

// addressPrefix renders "0x" plus four uppercase hex digits of the side's
// base offset, with the change indicator (markers on) and decoration
// (color on) for rows that contain a change.
func (r *Renderer) addressPrefix(offset int, changed bool) string {
	text := fmt.Sprintf("0x%04X", offset)
	if changed && r.opts.Markers {
		text += rowIndicator
	} else {
		text += " "
	}
	if changed && r.opts.Color {
		return r.prefix.Sprint(text)
	}
	return text
}

// cellMarker yields the one-character operation column in front of a hex
// cell. Filler cells stay blank: the operation is marked on the side that
// actually carries the byte.
func (r *Renderer) cellMarker(cell Cell) string {
	if !r.opts.Markers || cell.Filler {
		return " "
	}
	switch cell.Kind {
	case align.Added:
		return "+"
	case align.Deleted:
		return "-"
	case align.Modified:
		return "*"
	default:
		return " "
	}
}

func (r *Renderer) decorate(text string, kind align.Kind) string {
	if !r.opts.Color || kind == align.Unchanged {
		return text
	}
	switch kind {
	case align.Added:
		return r.added.Sprint(text)
	case align.Deleted:
		return r.deleted.Sprint(text)
	default:
		return r.modified.Sprint(text)
	}
}

func sideCell(pair CellPair, s side) Cell {
	if s == oldSide {
		return pair.Old
	}
	return pair.New
}

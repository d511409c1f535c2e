// Package diffview turns a classified byte-level edit script into the
// side-by-side, column-aligned display: the interpreter groups records
// into rows with independent per-file offsets, and the renderer formats
// each completed row as one output line.
package diffview

// DefaultColumns is the number of byte cells per row when unconfigured.
const DefaultColumns = 16

// Options controls row width and which parts of the rendering are emitted.
type Options struct {
	// Columns is the number of byte cells per row. Values below 1 fall
	// back to DefaultColumns.
	Columns int
	// Color decorates cells and changed-row prefixes with ANSI color.
	Color bool
	// Markers prefixes each hex cell with its operation glyph and changed
	// rows with the row indicator.
	Markers bool
	// ASCII appends the printable-character column for each side.
	ASCII bool
	// ChangesOnly suppresses rows without any change.
	ChangesOnly bool
}

func (o Options) columns() int {
	if o.Columns < 1 {
		return DefaultColumns
	}
	return o.Columns
}

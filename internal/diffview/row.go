package diffview

import "github.com/jjazzboss/colorbindiff/internal/align"

// fillerHex stands in for the absent side of an Added or Deleted record so
// the hex blocks keep their column alignment.
const fillerHex = "--"

// Cell is one side's rendering of a single aligned position.
type Cell struct {
	Kind align.Kind
	// Hex is the two-digit token, or fillerHex when this side has no byte.
	Hex string
	// Char is the printable-column rendering; filler cells use '.'.
	Char byte
	// Filler marks the absent side of an Added or Deleted record. Filler
	// cells never carry an operation marker; the real token on the other
	// side does.
	Filler bool
}

// CellPair holds both sides of one row position.
type CellPair struct {
	Old Cell
	New Cell
}

// Row is one display line's worth of buffered cells. It is built up by the
// Interpreter, handed to a sink on flush, and not retained afterwards.
type Row struct {
	// OldOffset and NewOffset are the byte offsets into file1 and file2 at
	// which this row begins, snapshotted when the row is opened.
	OldOffset int
	NewOffset int
	Cells     []CellPair
	// HasChange is true when any cell's kind is not Unchanged.
	HasChange bool
}

package diffview

import (
	"fmt"

	"github.com/jjazzboss/colorbindiff/internal/align"
	"github.com/jjazzboss/colorbindiff/internal/hexstream"
)

type runState int

const (
	runNone runState = iota
	runAdding
	runDeleting
)

func runOf(k align.Kind) runState {
	switch k {
	case align.Added:
		return runAdding
	case align.Deleted:
		return runDeleting
	default:
		return runNone
	}
}

// Stats counts changed bytes per kind across the whole stream.
type Stats struct {
	Modified int
	Added    int
	Deleted  int
}

// Changed reports whether any difference was seen.
func (s Stats) Changed() bool {
	return s.Modified > 0 || s.Added > 0 || s.Deleted > 0
}

// RowSink receives each completed row. The row must not be retained past
// the call; sinks that need it later copy what they keep.
type RowSink func(Row) error

// Interpreter consumes alignment records one at a time and groups them
// into rows. It keeps independent forward-only offsets for both files and
// never lets an add run and a delete run share a row: the two occupy the
// same screen column, and mixing them would misstate which side's offset
// advanced for which cell.
type Interpreter struct {
	columns int
	sink    RowSink
	oldPos  int
	newPos  int
	row     Row
	run     runState
	stats   Stats
}

// NewInterpreter returns an interpreter emitting rows of the given column
// count to sink. Column counts below 1 fall back to DefaultColumns.
func NewInterpreter(columns int, sink RowSink) *Interpreter {
	if columns < 1 {
		columns = DefaultColumns
	}
	return &Interpreter{
		columns: columns,
		sink:    sink,
		row:     Row{Cells: make([]CellPair, 0, columns)},
	}
}

// Feed appends one record. The flush decision is purely reactive on the
// previous record's run state; no lookahead.
func (it *Interpreter) Feed(rec align.Record) error {
	next := runOf(rec.Kind)
	// A run ends whenever the incoming record is of any other
	// classification, and the row must flush before the newcomer lands.
	if it.run != runNone && next != it.run {
		if err := it.flush(); err != nil {
			return err
		}
	}
	if err := it.append(rec); err != nil {
		return err
	}
	it.run = next
	if len(it.row.Cells) == it.columns {
		return it.flush()
	}
	return nil
}

// Close flushes the trailing partial row, if any. A stream ending exactly
// on a row boundary emits nothing here.
func (it *Interpreter) Close() error {
	it.run = runNone
	return it.flush()
}

// Stats returns the per-kind change counts seen so far.
func (it *Interpreter) Stats() Stats {
	return it.stats
}

func (it *Interpreter) append(rec align.Record) error {
	var pair CellPair
	switch rec.Kind {
	case align.Unchanged, align.Modified:
		oldCell, err := tokenCell(rec.Kind, rec.Old)
		if err != nil {
			return err
		}
		newCell, err := tokenCell(rec.Kind, rec.New)
		if err != nil {
			return err
		}
		pair = CellPair{Old: oldCell, New: newCell}
		it.oldPos++
		it.newPos++
	case align.Deleted:
		oldCell, err := tokenCell(rec.Kind, rec.Old)
		if err != nil {
			return err
		}
		pair = CellPair{Old: oldCell, New: fillerCell(rec.Kind)}
		it.oldPos++
	case align.Added:
		newCell, err := tokenCell(rec.Kind, rec.New)
		if err != nil {
			return err
		}
		pair = CellPair{Old: fillerCell(rec.Kind), New: newCell}
		it.newPos++
	default:
		return fmt.Errorf("unknown record kind %v", rec.Kind)
	}

	it.row.Cells = append(it.row.Cells, pair)
	if rec.Kind != align.Unchanged {
		it.row.HasChange = true
	}
	switch rec.Kind {
	case align.Modified:
		it.stats.Modified++
	case align.Added:
		it.stats.Added++
	case align.Deleted:
		it.stats.Deleted++
	}
	return nil
}

// flush hands the current row to the sink and opens a fresh one based at
// the current offsets. An empty row is a no-op: forced flushes that land
// on a row boundary must not emit anything.
func (it *Interpreter) flush() error {
	if len(it.row.Cells) > 0 {
		if err := it.sink(it.row); err != nil {
			return err
		}
	}
	it.row = Row{
		OldOffset: it.oldPos,
		NewOffset: it.newPos,
		Cells:     make([]CellPair, 0, it.columns),
	}
	return nil
}

func tokenCell(kind align.Kind, tok hexstream.Token) (Cell, error) {
	b, err := hexstream.DecodeToken(tok)
	if err != nil {
		return Cell{}, fmt.Errorf("%s record: %w", kind, err)
	}
	return Cell{Kind: kind, Hex: tok, Char: hexstream.Printable(b)}, nil
}

func fillerCell(kind align.Kind) Cell {
	return Cell{Kind: kind, Hex: fillerHex, Char: '.', Filler: true}
}

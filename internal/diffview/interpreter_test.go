package diffview

import (
	"testing"

	"github.com/jjazzboss/colorbindiff/internal/align"
	"github.com/jjazzboss/colorbindiff/internal/hexstream"
)

func unchanged(tok string) align.Record {
	return align.Record{Kind: align.Unchanged, Old: tok, New: tok}
}

func modified(old, new string) align.Record {
	return align.Record{Kind: align.Modified, Old: old, New: new}
}

func added(tok string) align.Record {
	return align.Record{Kind: align.Added, New: tok}
}

func deleted(tok string) align.Record {
	return align.Record{Kind: align.Deleted, Old: tok}
}

func interpret(t *testing.T, columns int, recs []align.Record) ([]Row, Stats) {
	t.Helper()
	var rows []Row
	it := NewInterpreter(columns, func(row Row) error {
		rows = append(rows, row)
		return nil
	})
	for i, rec := range recs {
		if err := it.Feed(rec); err != nil {
			t.Fatalf("Feed record %d (%+v): %v", i, rec, err)
		}
	}
	if err := it.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return rows, it.Stats()
}

func TestInterpreterFillsRowsToColumnCount(t *testing.T) {
	recs := []align.Record{
		unchanged("41"), unchanged("42"), unchanged("43"), unchanged("44"),
	}
	rows, stats := interpret(t, 2, recs)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row.Cells) != 2 {
			t.Fatalf("row %d has %d cells, want 2", i, len(row.Cells))
		}
		if row.HasChange {
			t.Fatalf("row %d marked changed for unchanged input", i)
		}
	}
	if rows[1].OldOffset != 2 || rows[1].NewOffset != 2 {
		t.Fatalf("second row offsets = %d/%d, want 2/2", rows[1].OldOffset, rows[1].NewOffset)
	}
	if stats.Changed() {
		t.Fatalf("stats = %+v for identical input", stats)
	}
}

func TestInterpreterFlushesPartialFinalRow(t *testing.T) {
	rows, _ := interpret(t, 2, []align.Record{
		unchanged("41"), unchanged("42"), unchanged("43"),
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if len(rows[1].Cells) != 1 {
		t.Fatalf("final row has %d cells, want 1", len(rows[1].Cells))
	}
}

func TestInterpreterEmptyStreamEmitsNothing(t *testing.T) {
	rows, _ := interpret(t, 4, nil)
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestInterpreterStreamEndingOnRowBoundary(t *testing.T) {
	rows, _ := interpret(t, 2, []align.Record{unchanged("41"), unchanged("42")})
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 row, got %d", len(rows))
	}
}

func TestInterpreterAddRunThenDeleteRunForcesFlush(t *testing.T) {
	recs := []align.Record{
		added("41"), added("42"),
		deleted("43"), deleted("44"), deleted("45"),
	}
	rows, stats := interpret(t, 16, recs)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows from an add run meeting a delete run, got %d", len(rows))
	}
	if len(rows[0].Cells) != 2 || len(rows[1].Cells) != 3 {
		t.Fatalf("row sizes = %d/%d, want 2/3", len(rows[0].Cells), len(rows[1].Cells))
	}
	// Only file2's pointer advanced during the add run.
	if rows[1].OldOffset != 0 || rows[1].NewOffset != 2 {
		t.Fatalf("second row offsets = %d/%d, want 0/2", rows[1].OldOffset, rows[1].NewOffset)
	}
	if stats.Added != 2 || stats.Deleted != 3 || stats.Modified != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestInterpreterDeleteRunThenAddRunForcesFlush(t *testing.T) {
	rows, _ := interpret(t, 16, []align.Record{
		deleted("41"), added("42"),
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestInterpreterRunInterruptedByNonRunForcesFlush(t *testing.T) {
	rows, _ := interpret(t, 16, []align.Record{
		added("41"), added("42"), unchanged("43"), unchanged("44"),
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if len(rows[0].Cells) != 2 || len(rows[1].Cells) != 2 {
		t.Fatalf("row sizes = %d/%d, want 2/2", len(rows[0].Cells), len(rows[1].Cells))
	}
}

func TestInterpreterModifiedAndUnchangedShareRows(t *testing.T) {
	rows, stats := interpret(t, 16, []align.Record{
		unchanged("41"), modified("42", "58"), unchanged("43"),
	})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if !rows[0].HasChange {
		t.Fatal("row with a modified cell must be marked changed")
	}
	if stats.Modified != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestInterpreterSameRunTypeCrossesRowBoundaryWithoutExtraFlush(t *testing.T) {
	recs := []align.Record{
		added("41"), added("42"), added("43"), added("44"), added("45"),
	}
	rows, _ := interpret(t, 4, recs)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (column flush plus remainder), got %d", len(rows))
	}
	if len(rows[0].Cells) != 4 || len(rows[1].Cells) != 1 {
		t.Fatalf("row sizes = %d/%d, want 4/1", len(rows[0].Cells), len(rows[1].Cells))
	}
}

func TestInterpreterCellContents(t *testing.T) {
	rows, _ := interpret(t, 16, []align.Record{
		unchanged("41"), modified("42", "58"), deleted("00"), // flush here
		added("FF"),
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0].Cells
	if first[0].Old.Hex != "41" || first[0].Old.Char != 'A' || first[0].Old.Filler {
		t.Fatalf("unchanged old cell = %+v", first[0].Old)
	}
	if first[1].Old.Hex != "42" || first[1].New.Hex != "58" || first[1].New.Char != 'X' {
		t.Fatalf("modified pair = %+v", first[1])
	}
	if first[2].Old.Hex != "00" || first[2].Old.Char != '.' {
		t.Fatalf("deleted old cell = %+v", first[2].Old)
	}
	if !first[2].New.Filler || first[2].New.Hex != fillerHex || first[2].New.Char != '.' {
		t.Fatalf("deleted filler cell = %+v", first[2].New)
	}

	second := rows[1].Cells
	if !second[0].Old.Filler || second[0].New.Hex != "FF" || second[0].New.Char != '.' {
		t.Fatalf("added pair = %+v", second[0])
	}
}

func TestInterpreterOffsetsAdvanceBySideKind(t *testing.T) {
	recs := []align.Record{
		unchanged("41"), // old 0, new 0
		deleted("42"),   // old 1
		deleted("43"),   // old 2
		unchanged("44"), // old 3, new 1
		added("45"),     // new 2
		added("46"),     // new 3
		modified("47", "48"),
	}
	rows, _ := interpret(t, 2, recs)

	var oldBytes, newBytes []byte
	for _, row := range rows {
		wantOld, wantNew := row.OldOffset, row.NewOffset
		if len(oldBytes) != wantOld {
			t.Fatalf("row base old offset %d, but %d old bytes seen before it", wantOld, len(oldBytes))
		}
		if len(newBytes) != wantNew {
			t.Fatalf("row base new offset %d, but %d new bytes seen before it", wantNew, len(newBytes))
		}
		for _, pair := range row.Cells {
			if !pair.Old.Filler {
				b, err := hexstream.DecodeToken(pair.Old.Hex)
				if err != nil {
					t.Fatalf("old cell %+v: %v", pair.Old, err)
				}
				oldBytes = append(oldBytes, b)
			}
			if !pair.New.Filler {
				b, err := hexstream.DecodeToken(pair.New.Hex)
				if err != nil {
					t.Fatalf("new cell %+v: %v", pair.New, err)
				}
				newBytes = append(newBytes, b)
			}
		}
	}

	if string(oldBytes) != "ABCDG" {
		t.Fatalf("old side reconstruction = %q, want ABCDG", oldBytes)
	}
	if string(newBytes) != "ADEFH" {
		t.Fatalf("new side reconstruction = %q, want ADEFH", newBytes)
	}
}

func TestInterpreterRejectsMalformedToken(t *testing.T) {
	it := NewInterpreter(4, func(Row) error { return nil })
	if err := it.Feed(align.Record{Kind: align.Unchanged, Old: "4", New: "4"}); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

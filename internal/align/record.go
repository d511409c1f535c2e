// Package align models the classified byte-level edit script between two
// files and the engines that produce it.
package align

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jjazzboss/colorbindiff/internal/hexstream"
)

// Kind classifies one aligned position of the edit script.
type Kind int

const (
	Unchanged Kind = iota
	Added
	Deleted
	Modified
)

func (k Kind) String() string {
	switch k {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Modified:
		return "modified"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Record is one unit of an engine's output. Old is empty exactly when the
// byte exists only in file2 (Added); New is empty exactly when it exists
// only in file1 (Deleted).
type Record struct {
	Kind Kind
	Old  hexstream.Token
	New  hexstream.Token
}

// Engine computes the classified alignment of two token sequences. The
// returned records, read in order, must reproduce both inputs: the Old
// tokens of all non-Added records are file1, the New tokens of all
// non-Deleted records are file2.
type Engine interface {
	Align(old, new []hexstream.Token) ([]Record, error)
}

// Textual script markers, sdiff-shaped. Only the four-way classification
// is significant; the glyphs are the integration contract with external
// alignment commands.
const (
	markerModified = "|"
	markerDeleted  = "<"
	markerAdded    = ">"
)

// FormatRecord serializes a record as one script line (without newline).
func FormatRecord(rec Record) string {
	switch rec.Kind {
	case Added:
		return markerAdded + " " + rec.New
	case Deleted:
		return rec.Old + " " + markerDeleted
	case Modified:
		return rec.Old + " " + markerModified + " " + rec.New
	default:
		return rec.Old + " " + rec.New
	}
}

// ReadScript parses a line-oriented script into records. Blank lines are
// ignored. A line matching none of the four shapes aborts the parse with
// its line number: misclassifying a line would silently corrupt offset
// tracking for the rest of the stream, so there is no recovery path.
func ReadScript(r io.Reader) ([]Record, error) {
	var recs []Record
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := parseScriptLine(line)
		if err != nil {
			return nil, fmt.Errorf("alignment script line %d: %w", lineNo, err)
		}
		recs = append(recs, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read alignment script: %w", err)
	}
	return recs, nil
}

func parseScriptLine(line string) (Record, error) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 2:
		switch {
		case fields[0] == markerAdded:
			if _, err := hexstream.DecodeToken(fields[1]); err != nil {
				return Record{}, err
			}
			return Record{Kind: Added, New: fields[1]}, nil
		case fields[1] == markerDeleted:
			if _, err := hexstream.DecodeToken(fields[0]); err != nil {
				return Record{}, err
			}
			return Record{Kind: Deleted, Old: fields[0]}, nil
		case fields[0] == fields[1]:
			if _, err := hexstream.DecodeToken(fields[0]); err != nil {
				return Record{}, err
			}
			return Record{Kind: Unchanged, Old: fields[0], New: fields[1]}, nil
		}
	case 3:
		if fields[1] == markerModified {
			if _, err := hexstream.DecodeToken(fields[0]); err != nil {
				return Record{}, err
			}
			if _, err := hexstream.DecodeToken(fields[2]); err != nil {
				return Record{}, err
			}
			return Record{Kind: Modified, Old: fields[0], New: fields[2]}, nil
		}
	}
	return Record{}, fmt.Errorf("unrecognized shape %q", line)
}

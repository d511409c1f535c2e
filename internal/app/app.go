// Package app wires the pipeline together: encode both files, align the
// token streams, interpret the edit script into rows, and render them to
// stdout or into the pager.
package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/jjazzboss/colorbindiff/internal/align"
	"github.com/jjazzboss/colorbindiff/internal/diffview"
	"github.com/jjazzboss/colorbindiff/internal/hexstream"
	"github.com/jjazzboss/colorbindiff/internal/textutil"
	"github.com/jjazzboss/colorbindiff/internal/ui/pager"
)

// Options is the full process-level surface behind the CLI flags.
type Options struct {
	OldPath string
	NewPath string
	View    diffview.Options
	// Header prints the file banner before the rows and the change
	// summary after them.
	Header bool
	// Pager renders into memory and hands the lines to the interactive
	// pager instead of streaming to stdout.
	Pager bool
	// DumpScript prints the textual alignment script instead of rows.
	DumpScript bool
	// DiffCommand, when set, delegates alignment to an external command
	// instead of the built-in engine.
	DiffCommand string
}

// Run executes one comparison. It reports whether the files differ; any
// error is fatal to the run (there is no degraded mode).
func Run(opts Options, stdout io.Writer) (bool, error) {
	oldToks, err := hexstream.EncodeFile(opts.OldPath)
	if err != nil {
		return false, err
	}
	newToks, err := hexstream.EncodeFile(opts.NewPath)
	if err != nil {
		return false, err
	}

	var engine align.Engine = align.Differ{}
	if opts.DiffCommand != "" {
		engine = align.CommandEngine{Command: opts.DiffCommand}
	}
	recs, err := engine.Align(oldToks, newToks)
	if err != nil {
		return false, err
	}

	if opts.DumpScript {
		return dumpScript(stdout, recs)
	}

	out := stdout
	var buffered *strings.Builder
	if opts.Pager {
		buffered = &strings.Builder{}
		out = buffered
	}

	if opts.Header {
		writeFileBanner(out, opts.OldPath, len(oldToks), opts.NewPath, len(newToks))
	}

	renderer := diffview.NewRenderer(out, opts.View)
	interp := diffview.NewInterpreter(opts.View.Columns, renderer.RenderRow)
	for _, rec := range recs {
		if err := interp.Feed(rec); err != nil {
			return false, err
		}
	}
	if err := interp.Close(); err != nil {
		return false, err
	}

	stats := interp.Stats()
	if opts.Header {
		writeSummary(out, stats)
	}

	if opts.Pager {
		title := textutil.SanitizeFileName(opts.OldPath) + " / " + textutil.SanitizeFileName(opts.NewPath)
		lines := strings.Split(strings.TrimRight(buffered.String(), "\n"), "\n")
		if err := pager.New(title, lines).Run(); err != nil {
			return false, err
		}
	}
	return stats.Changed(), nil
}

func dumpScript(w io.Writer, recs []align.Record) (bool, error) {
	changed := false
	for _, rec := range recs {
		if rec.Kind != align.Unchanged {
			changed = true
		}
		if _, err := fmt.Fprintln(w, align.FormatRecord(rec)); err != nil {
			return false, fmt.Errorf("write script: %w", err)
		}
	}
	return changed, nil
}

func writeFileBanner(w io.Writer, oldPath string, oldSize int, newPath string, newSize int) {
	fmt.Fprintf(w, "--- %s (%d bytes)\n", textutil.SanitizeFileName(oldPath), oldSize)
	fmt.Fprintf(w, "+++ %s (%d bytes)\n", textutil.SanitizeFileName(newPath), newSize)
}

func writeSummary(w io.Writer, stats diffview.Stats) {
	if !stats.Changed() {
		fmt.Fprintln(w, "files are identical")
		return
	}
	fmt.Fprintf(w, "%d modified, %d added, %d deleted\n",
		stats.Modified, stats.Added, stats.Deleted)
}

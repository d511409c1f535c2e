package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jjazzboss/colorbindiff/internal/app"
	"github.com/jjazzboss/colorbindiff/internal/diffview"
)

func main() {
	changed, err := execute(os.Args[1:])
	switch {
	case err != nil:
		fmt.Fprintln(os.Stderr, "colorbindiff:", err)
		os.Exit(2)
	case changed:
		os.Exit(1)
	}
}

func execute(args []string) (bool, error) {
	var (
		opts     app.Options
		noColor  bool
		noMarker bool
		noASCII  bool
		noHeader bool
		changed  bool
	)

	cmd := &cobra.Command{
		Use:   "colorbindiff [flags] FILE1 FILE2",
		Short: "Side-by-side, column-aligned, colorized binary diff",
		Long: `colorbindiff compares two files byte by byte and renders both as
side-by-side hex columns that stay aligned across insertions and
deletions of arbitrary length. Exit status is 0 when the files are
identical, 1 when they differ, and 2 on error.`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.View.Columns < 1 {
				return fmt.Errorf("width must be at least 1, got %d", opts.View.Columns)
			}
			// Flag and argument problems are reported with usage above;
			// anything past this point is a runtime failure.
			cmd.SilenceUsage = true
			opts.OldPath = args[0]
			opts.NewPath = args[1]
			opts.View.Color = !noColor && (!color.NoColor || opts.Pager)
			opts.View.Markers = !noMarker
			opts.View.ASCII = !noASCII
			opts.Header = !noHeader

			var err error
			changed, err = app.Run(opts, os.Stdout)
			return err
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.View.Columns, "width", "w", diffview.DefaultColumns, "byte columns per row")
	flags.BoolVar(&noColor, "no-color", false, "disable color output")
	flags.BoolVar(&noMarker, "no-marker", false, "disable per-cell change markers")
	flags.BoolVar(&noASCII, "no-ascii", false, "disable the printable-character columns")
	flags.BoolVar(&noHeader, "no-header", false, "disable the file banner and summary")
	flags.BoolVarP(&opts.View.ChangesOnly, "changes-only", "c", false, "print only rows containing a change")
	flags.BoolVarP(&opts.Pager, "pager", "p", false, "view the diff in an interactive pager")
	flags.StringVar(&opts.DiffCommand, "diff-cmd", "", "external alignment command (sdiff-style token script on stdout)")
	flags.BoolVar(&opts.DumpScript, "dump-script", false, "print the alignment script instead of rendering rows")

	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return false, err
	}
	return changed, nil
}

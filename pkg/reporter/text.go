package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/covxml/internal/ui/pretty"
	"github.com/yaklabco/covxml/pkg/analysis"
)

// TextRenderer formats the report as a styled package table.
type TextRenderer struct {
	opts      Options
	styles    *pretty.Styles
	termWidth int
}

// NewTextRenderer creates a new text renderer.
func NewTextRenderer(opts Options) *TextRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextRenderer{
		opts:      opts,
		styles:    pretty.NewStyles(colorEnabled),
		termWidth: pretty.TerminalWidth(opts.Writer),
	}
}

// Render implements Renderer.
func (r *TextRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if len(report.Packages) == 0 {
		_, err = fmt.Fprintln(bw, r.styles.Dim.Render("No files to report."))
		return err
	}

	table := pretty.NewTableFormatter(r.styles, r.termWidth)
	pkgs := report.SortedPackages(r.opts.SortBy, r.opts.SortDesc)
	if _, err = fmt.Fprint(bw, table.FormatTable(report, pkgs)); err != nil {
		return err
	}

	if r.opts.Compact {
		return nil
	}

	_, err = fmt.Fprint(bw, r.styles.FormatSummary(report))
	return err
}

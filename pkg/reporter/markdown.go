package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/covxml/internal/ui/pretty"
	"github.com/yaklabco/covxml/pkg/analysis"
)

// MarkdownRenderer formats the report as a GitHub-flavored Markdown table.
type MarkdownRenderer struct {
	opts Options
}

// NewMarkdownRenderer creates a new Markdown renderer.
func NewMarkdownRenderer(opts Options) *MarkdownRenderer {
	return &MarkdownRenderer{opts: opts}
}

// Render implements Renderer.
func (r *MarkdownRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	return writeMarkdown(bw, report, r.opts)
}

// writeMarkdown writes the Markdown form of report to w.
func writeMarkdown(w io.Writer, report *analysis.Report, opts Options) error {
	var builder strings.Builder

	if opts.Title != "" {
		builder.WriteString("# " + escapeMarkdown(opts.Title) + "\n\n")
	}

	if len(report.Packages) == 0 {
		builder.WriteString("No files to report.\n")
		_, err := io.WriteString(w, builder.String())
		return err
	}

	header := "| Package | Files | Lines | Missed |"
	align := "| :--- | ---: | ---: | ---: |"
	if report.HasArcs {
		header += " Branches |"
		align += " ---: |"
	}
	header += " Line rate | Branch rate | Cover |\n"
	align += " ---: | ---: | ---: |\n"
	builder.WriteString(header)
	builder.WriteString(align)

	for _, pkg := range report.SortedPackages(opts.SortBy, opts.SortDesc) {
		writeMarkdownRow(&builder, "`"+escapeMarkdown(pkg.Name)+"`", pkg.Len(), pkg.Totals,
			pkg.LineRate(), pkg.BranchRate(), report.HasArcs)
	}
	writeMarkdownRow(&builder, "**Total**", report.NumFiles(), report.Totals,
		report.LineRate(), report.BranchRate(), report.HasArcs)

	builder.WriteString("\nTotal coverage: **" + pretty.FormatPercent(report.Percent()) + "**\n")

	_, err := io.WriteString(w, builder.String())
	return err
}

func writeMarkdownRow(
	builder *strings.Builder,
	name string,
	files int,
	totals analysis.Totals,
	lineRate, branchRate string,
	hasArcs bool,
) {
	fmt.Fprintf(builder, "| %s | %d | %d | %d |", name, files, totals.LinesValid, totals.LinesValid-totals.LinesHit)
	if hasArcs {
		fmt.Fprintf(builder, " %d/%d |", totals.BranchesHit, totals.BranchesValid)
	}

	pct := totals.Percent()
	if totals.LinesValid+totals.BranchesValid == 0 {
		pct = 100
	}
	fmt.Fprintf(builder, " %s | %s | %s |\n", lineRate, branchRate, pretty.FormatPercent(pct))
}

// escapeMarkdown escapes characters that would break a table cell.
func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "`", "'", "\n", " ").Replace(s)
}

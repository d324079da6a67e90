package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/covxml/pkg/analysis"
)

// Table formatting constants.
const (
	barFilled       = "█"
	barEmpty        = "░"
	heavySeparator  = "="
	lightSeparator  = "-"
	numColWidth     = 7
	coverColWidth   = 8
	minNameWidth    = 7
	minBarWidth     = 10
	maxBarWidth     = 30
	fixedColumns    = 4 // FILES, LINES, MISS, COVER
	columnGapWidth  = 1
	branchColumns   = 1 // BRANCH
	maxNameFraction = 2 // the name column takes at most half the terminal
)

// TableFormatter formats package coverage as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// FormatTable renders one row per package followed by a total row.
func (t *TableFormatter) FormatTable(report *analysis.Report, pkgs []*analysis.PackageAnalysis) string {
	if len(pkgs) == 0 {
		return ""
	}

	nameWidth := t.nameWidth(pkgs)
	barWidth := t.barWidth(nameWidth, report.HasArcs)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(nameWidth, report.HasArcs))
	builder.WriteString("\n")
	builder.WriteString(t.separator(nameWidth, barWidth, report.HasArcs, heavySeparator))
	builder.WriteString("\n")

	for _, pkg := range pkgs {
		builder.WriteString(t.formatRow(pkg.Name, pkg.Len(), pkg.Totals, report.HasArcs, nameWidth, barWidth))
		builder.WriteString("\n")
	}

	builder.WriteString(t.separator(nameWidth, barWidth, report.HasArcs, lightSeparator))
	builder.WriteString("\n")
	builder.WriteString(t.formatRow("TOTAL", report.NumFiles(), report.Totals, report.HasArcs, nameWidth, barWidth))
	builder.WriteString("\n")

	return builder.String()
}

// Bar renders a coverage bar of the given width.
func (t *TableFormatter) Bar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	filled = max(0, min(width, filled))
	return t.styles.BarFilled.Render(strings.Repeat(barFilled, filled)) +
		t.styles.BarEmpty.Render(strings.Repeat(barEmpty, width-filled))
}

func (t *TableFormatter) nameWidth(pkgs []*analysis.PackageAnalysis) int {
	width := minNameWidth
	for _, pkg := range pkgs {
		width = max(width, runewidth.StringWidth(pkg.Name))
	}
	return max(minNameWidth, min(width, t.termWidth/maxNameFraction))
}

func (t *TableFormatter) barWidth(nameWidth int, hasArcs bool) int {
	columns := fixedColumns
	if hasArcs {
		columns += branchColumns
	}
	used := nameWidth + columns*(numColWidth+columnGapWidth) + coverColWidth + columnGapWidth
	return max(minBarWidth, min(maxBarWidth, t.termWidth-used))
}

func (t *TableFormatter) formatHeader(nameWidth int, hasArcs bool) string {
	cols := []string{
		t.styles.TableHeader.Render(padRight("PACKAGE", nameWidth)),
		t.styles.TableHeader.Render(padLeft("FILES", numColWidth)),
		t.styles.TableHeader.Render(padLeft("LINES", numColWidth)),
		t.styles.TableHeader.Render(padLeft("MISS", numColWidth)),
	}
	if hasArcs {
		cols = append(cols, t.styles.TableHeader.Render(padLeft("BRANCH", numColWidth)))
	}
	cols = append(cols, t.styles.TableHeader.Render(padLeft("COVER", coverColWidth)))
	return strings.Join(cols, " ")
}

func (t *TableFormatter) formatRow(
	name string,
	files int,
	totals analysis.Totals,
	hasArcs bool,
	nameWidth, barWidth int,
) string {
	if runewidth.StringWidth(name) > nameWidth {
		name = "…" + runewidth.TruncateLeft(name, runewidth.StringWidth(name)-(nameWidth-1), "")
	}

	pct := totals.Percent()
	if totals.LinesValid+totals.BranchesValid == 0 {
		pct = 100
	}

	cols := []string{
		t.styles.Package.Render(padRight(name, nameWidth)),
		padLeft(strconv.Itoa(files), numColWidth),
		padLeft(strconv.Itoa(totals.LinesValid), numColWidth),
		padLeft(strconv.Itoa(totals.LinesValid-totals.LinesHit), numColWidth),
	}
	if hasArcs {
		cols = append(cols, padLeft(fmt.Sprintf("%d/%d", totals.BranchesHit, totals.BranchesValid), numColWidth))
	}
	cols = append(cols,
		t.styles.ForPercent(pct).Render(padLeft(FormatPercent(pct), coverColWidth)),
		t.Bar(pct, barWidth),
	)
	return strings.Join(cols, " ")
}

func (t *TableFormatter) separator(nameWidth, barWidth int, hasArcs bool, char string) string {
	columns := fixedColumns - 1
	if hasArcs {
		columns += branchColumns
	}
	width := nameWidth + columns*(numColWidth+columnGapWidth) + coverColWidth + columnGapWidth + barWidth + columnGapWidth
	return t.styles.TableSeparator.Render(strings.Repeat(char, width))
}

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

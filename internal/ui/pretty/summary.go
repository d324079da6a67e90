package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/covxml/pkg/analysis"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// FormatPercent renders a coverage percentage with two decimals.
func FormatPercent(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 2, 64) + "%"
}

// FormatSummaryOneLine formats the report totals as a single line.
// Example: "Total coverage 80.00% (16/20 lines, 3/4 branches) in 2 files".
func (s *Styles) FormatSummaryOneLine(report *analysis.Report) string {
	files := report.NumFiles()
	if files == 0 {
		return s.Dim.Render("No files to report.") + "\n"
	}

	pct := report.Percent()
	counts := fmt.Sprintf("%d/%d lines", report.Totals.LinesHit, report.Totals.LinesValid)
	if report.HasArcs {
		counts += fmt.Sprintf(", %d/%d branches", report.Totals.BranchesHit, report.Totals.BranchesValid)
	}

	fileWord := wordFiles
	if files == 1 {
		fileWord = wordFile
	}

	return fmt.Sprintf("Total coverage %s (%s) in %d %s\n",
		s.ForPercent(pct).Render(FormatPercent(pct)), counts, files, fileWord)
}

// FormatSummary formats the report totals as a summary block.
func (s *Styles) FormatSummary(report *analysis.Report) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Packages:          " +
		s.SummaryValue.Render(strconv.Itoa(len(report.Packages))) + "\n")
	builder.WriteString("  Files:             " +
		s.SummaryValue.Render(strconv.Itoa(report.NumFiles())) + "\n")

	builder.WriteString("\n")

	builder.WriteString("  Lines covered:     " +
		s.SummaryValue.Render(fmt.Sprintf("%d/%d", report.Totals.LinesHit, report.Totals.LinesValid)) + "\n")
	if report.HasArcs {
		builder.WriteString("  Branches covered:  " +
			s.SummaryValue.Render(fmt.Sprintf("%d/%d", report.Totals.BranchesHit, report.Totals.BranchesValid)) + "\n")
	}

	builder.WriteString("\n")

	pct := report.Percent()
	builder.WriteString("  Total:             " + s.ForPercent(pct).Render(FormatPercent(pct)))
	builder.WriteString("\n")

	return builder.String()
}

// FormatThreshold reports whether pct meets failUnder.
func (s *Styles) FormatThreshold(pct, failUnder float64) string {
	if pct < failUnder {
		return s.Failure.Render(fmt.Sprintf(
			"Coverage failure: total of %s is less than fail-under=%s", FormatPercent(pct), FormatPercent(failUnder),
		)) + "\n"
	}
	return s.Success.Render(fmt.Sprintf(
		"Coverage %s meets fail-under=%s", FormatPercent(pct), FormatPercent(failUnder),
	)) + "\n"
}

package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/covxml/internal/ui/pretty"
	"github.com/yaklabco/covxml/pkg/analysis"
	"github.com/yaklabco/covxml/pkg/coverage"
	"github.com/yaklabco/covxml/pkg/runner"
)

func sampleReport(hasArcs bool) *analysis.Report {
	first := coverage.NewAnalysis("/work/src/a.py")
	second := coverage.NewAnalysis("/work/lib/b.py")
	for line := 1; line <= 10; line++ {
		first.Statements.Add(line)
		second.Statements.Add(line)
	}
	first.Missing.Add(1)
	first.Missing.Add(2)
	second.Missing.Add(3)
	second.Missing.Add(4)

	result := &runner.Result{
		HasArcs:    hasArcs,
		WorkingDir: "/work",
		Files: []runner.FileOutcome{
			{Path: first.Filename, Analysis: first},
			{Path: second.Filename, Analysis: second},
		},
	}
	return analysis.Analyze(result, analysis.DefaultOptions())
}

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	line := styles.FormatSummaryOneLine(sampleReport(false))
	assert.Equal(t, "Total coverage 80.00% (16/20 lines) in 2 files\n", line)

	line = styles.FormatSummaryOneLine(sampleReport(true))
	assert.Contains(t, line, "0/0 branches")
}

func TestFormatSummaryOneLine_Empty(t *testing.T) {
	styles := pretty.NewStyles(false)
	assert.Equal(t, "No files to report.\n", styles.FormatSummaryOneLine(&analysis.Report{}))
}

func TestFormatSummary(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSummary(sampleReport(false))

	assert.Contains(t, result, "Summary")
	assert.Contains(t, result, "Packages:")
	assert.Contains(t, result, "Lines covered:     16/20")
	assert.Contains(t, result, "80.00%")
	assert.NotContains(t, result, "Branches covered:")
}

func TestFormatThreshold(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t,
		"Coverage failure: total of 72.50% is less than fail-under=80.00%\n",
		styles.FormatThreshold(72.5, 80))
	assert.True(t, strings.HasPrefix(styles.FormatThreshold(90, 80), "Coverage 90.00% meets"))
}

func TestFormatTable(t *testing.T) {
	styles := pretty.NewStyles(false)
	report := sampleReport(false)

	table := pretty.NewTableFormatter(styles, 80).FormatTable(report, report.Packages)
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")

	// header, separator, two packages, separator, total
	assert.Len(t, lines, 6)
	assert.Contains(t, lines[0], "PACKAGE")
	assert.Contains(t, lines[0], "COVER")
	assert.NotContains(t, lines[0], "BRANCH")
	assert.True(t, strings.HasPrefix(lines[2], "lib"))
	assert.Contains(t, lines[2], "80.00%")
	assert.True(t, strings.HasPrefix(lines[5], "TOTAL"))
}

func TestFormatTable_Empty(t *testing.T) {
	styles := pretty.NewStyles(false)
	assert.Empty(t, pretty.NewTableFormatter(styles, 80).FormatTable(&analysis.Report{}, nil))
}

func TestBar(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 80)

	assert.Equal(t, "█████░░░░░", formatter.Bar(50, 10))
	assert.Equal(t, "░░░░░░░░░░", formatter.Bar(0, 10))
	assert.Equal(t, "██████████", formatter.Bar(100, 10))
	assert.Equal(t, "██████████", formatter.Bar(140, 10))
}

package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/covxml/pkg/analysis"
	"github.com/yaklabco/covxml/pkg/coverage"
	"github.com/yaklabco/covxml/pkg/reporter"
	"github.com/yaklabco/covxml/pkg/runner"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// tenLines builds an analysis with ten statements, two of them missing.
func tenLines(filename string) *coverage.Analysis {
	a := coverage.NewAnalysis(filename)
	for line := 1; line <= 10; line++ {
		a.Statements.Add(line)
	}
	a.Missing.Add(4)
	a.Missing.Add(8)
	return a
}

func twoFileResult() *runner.Result {
	first := tenLines("/work/pkg/a.py")
	second := tenLines("/work/pkg/b.py")
	return &runner.Result{
		WorkingDir: "/work",
		Files: []runner.FileOutcome{
			{Path: first.Filename, Analysis: first},
			{Path: second.Filename, Analysis: second},
		},
	}
}

func branchResult() *runner.Result {
	a := coverage.NewAnalysis("/work/src/branchy.py")
	for line := 1; line <= 6; line++ {
		a.Statements.Add(line)
	}
	a.Missing.Add(6)
	a.BranchStats[2] = coverage.BranchStat{Total: 4, Taken: 3}
	a.BranchStats[3] = coverage.BranchStat{Total: 3, Taken: 1}
	a.MissingBranchArcs[2] = []int{5, -1}
	return &runner.Result{
		WorkingDir: "/work",
		HasArcs:    true,
		Files:      []runner.FileOutcome{{Path: a.Filename, Analysis: a}},
	}
}

func render(t *testing.T, opts reporter.Options, result *runner.Result) (string, float64) {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	if opts.ErrorWriter == nil {
		opts.ErrorWriter = &bytes.Buffer{}
	}
	if opts.Now == nil {
		opts.Now = fixedNow
	}

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	pct, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	return buf.String(), pct
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to xml", input: "", want: reporter.FormatXML},
		{name: "xml", input: "xml", want: reporter.FormatXML},
		{name: "cobertura alias", input: "cobertura", want: reporter.FormatXML},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "markdown", input: "markdown", want: reporter.FormatMarkdown},
		{name: "md alias", input: "md", want: reporter.FormatMarkdown},
		{name: "html", input: "html", want: reporter.FormatHTML},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, reporter.FormatXML.IsValid())
	assert.True(t, reporter.FormatHTML.IsValid())
	assert.False(t, reporter.Format("unknown").IsValid())
	assert.False(t, reporter.Format("").IsValid())
}

func TestNew_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Format: "yaml"})
	require.Error(t, err)
}

func TestCobertura_TwoFilesEndToEnd(t *testing.T) {
	t.Parallel()

	out, pct := render(t, reporter.Options{Format: reporter.FormatXML}, twoFileResult())

	assert.InDelta(t, 80.0, pct, 1e-9)
	assert.True(t, strings.HasPrefix(out, "<?xml version=\"1.0\" ?>\n<coverage "))
	assert.Contains(t, out, `lines-valid="20" lines-covered="16" line-rate="0.8"`)
	assert.Contains(t, out, `branches-valid="0" branches-covered="0" branch-rate="0"`)
	assert.Contains(t, out, `timestamp="1714564800000"`)
	assert.Contains(t, out, `<package name="pkg" line-rate="0.8" branch-rate="0" complexity="0">`)
	assert.Contains(t, out, `<class name="pkg.a.py" filename="./pkg/a.py" complexity="0" line-rate="0.8" branch-rate="0">`)
	assert.Contains(t, out, `<line number="4" hits="0"/>`)
	assert.NotContains(t, out, "condition-coverage")
	assert.Less(t, strings.Index(out, "pkg.a.py"), strings.Index(out, "pkg.b.py"))
}

func TestCobertura_Branches(t *testing.T) {
	t.Parallel()

	out, pct := render(t, reporter.Options{Format: reporter.FormatXML}, branchResult())

	assert.Contains(t, out, `<line number="2" hits="1" branch="true" condition-coverage="75% (3/4)" missing-branches="5,exit"/>`)
	assert.Contains(t, out, `<line number="3" hits="1" branch="true" condition-coverage="33% (1/3)"/>`)
	assert.Contains(t, out, `branches-valid="7" branches-covered="4" branch-rate="0.5714"`)
	assert.InDelta(t, 100.0*(5+4)/(6+7), pct, 1e-9)
}

func TestCobertura_EmptyResult(t *testing.T) {
	t.Parallel()

	out, pct := render(t, reporter.Options{Format: reporter.FormatXML}, &runner.Result{WorkingDir: "/work"})

	assert.InDelta(t, 0.0, pct, 0)
	assert.Contains(t, out, `lines-valid="0" lines-covered="0" line-rate="1"`)
	assert.Contains(t, out, "<packages/>")
}

func TestCobertura_IdempotentApartFromTimestamp(t *testing.T) {
	t.Parallel()

	first, _ := render(t, reporter.Options{Format: reporter.FormatXML}, branchResult())
	second, _ := render(t, reporter.Options{Format: reporter.FormatXML}, branchResult())
	assert.Equal(t, first, second)

	later, _ := render(t, reporter.Options{
		Format: reporter.FormatXML,
		Now:    func() time.Time { return fixedTime.Add(time.Hour) },
	}, branchResult())
	assert.NotEqual(t, first, later)

	stamp := regexp.MustCompile(`timestamp="\d+"`)
	assert.Equal(t,
		stamp.ReplaceAllString(first, `timestamp=""`),
		stamp.ReplaceAllString(later, `timestamp=""`))
}

func TestCobertura_PackageDepth(t *testing.T) {
	t.Parallel()

	a := tenLines("/work/a/b/x.src")
	b := tenLines("/work/a/b/y.src")
	result := &runner.Result{
		WorkingDir: "/work",
		Files: []runner.FileOutcome{
			{Path: a.Filename, Analysis: a},
			{Path: b.Filename, Analysis: b},
		},
	}

	out, _ := render(t, reporter.Options{Format: reporter.FormatXML, PackageDepth: 1}, result)
	assert.Contains(t, out, `<package name="a" `)
	assert.Contains(t, out, `<class name="a.b/x.src"`)
	assert.Equal(t, 1, strings.Count(out, "<package "))
}

func TestBuildDocument(t *testing.T) {
	t.Parallel()

	report := analysis.Analyze(branchResult(), analysis.DefaultOptions())
	doc := reporter.BuildDocument(report, fixedTime)

	assert.Equal(t, fixedTime.UnixMilli(), doc.Timestamp)
	assert.Equal(t, 7, doc.BranchesValid)
	assert.Equal(t, 4, doc.BranchesCovered)
	require.Len(t, doc.Packages, 1)
	require.Len(t, doc.Packages[0].Classes, 1)

	class := doc.Packages[0].Classes[0]
	assert.Equal(t, "src.branchy.py", class.Name)
	assert.Equal(t, "./src/branchy.py", class.Filename)
	require.Len(t, class.Lines, 6)
	assert.True(t, class.Lines[1].Branch)
	assert.Equal(t, "5,exit", class.Lines[1].MissingBranches)
	assert.False(t, class.Lines[0].Branch)
}

func TestJSON(t *testing.T) {
	t.Parallel()

	out, pct := render(t, reporter.Options{Format: reporter.FormatJSON}, twoFileResult())
	assert.InDelta(t, 80.0, pct, 1e-9)

	var decoded reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "1.0", decoded.Version)
	assert.Equal(t, fixedTime.UnixMilli(), decoded.Timestamp)
	assert.Equal(t, "0.8", decoded.LineRate)
	assert.Equal(t, 20, decoded.Totals.LinesValid)
	require.Len(t, decoded.Packages, 1)
	require.Len(t, decoded.Packages[0].Classes, 2)
	assert.Equal(t, "pkg.a.py", decoded.Packages[0].Classes[0].Name)
	assert.Len(t, decoded.Packages[0].Classes[0].Lines, 10)
}

func TestJSON_Compact(t *testing.T) {
	t.Parallel()

	out, _ := render(t, reporter.Options{Format: reporter.FormatJSON, Compact: true}, twoFileResult())
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.NotContains(t, out, `"lines"`)
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	out, _ := render(t, reporter.Options{Format: reporter.FormatMarkdown, Title: "Coverage"}, branchResult())

	assert.True(t, strings.HasPrefix(out, "# Coverage\n"))
	assert.Contains(t, out, "| Package | Files | Lines | Missed | Branches | Line rate | Branch rate | Cover |")
	assert.Contains(t, out, "| `src` | 1 | 6 | 1 | 4/7 | 0.8333 | 0.5714 |")
	assert.Contains(t, out, "| **Total** |")
	assert.Contains(t, out, "Total coverage: **69.23%**")
}

func TestHTML(t *testing.T) {
	t.Parallel()

	out, _ := render(t, reporter.Options{Format: reporter.FormatHTML, Title: "A <b> report"}, twoFileResult())

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>A &lt;b&gt; report</title>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<code>pkg</code>")
	assert.True(t, strings.HasSuffix(out, "</html>\n"))
}

func TestText(t *testing.T) {
	t.Parallel()

	out, pct := render(t, reporter.Options{Format: reporter.FormatText, Color: "never"}, twoFileResult())
	assert.InDelta(t, 80.0, pct, 1e-9)
	assert.Contains(t, out, "PACKAGE")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "80.00%")
	assert.Contains(t, out, "Summary")
}

func TestText_Empty(t *testing.T) {
	t.Parallel()

	out, _ := render(t, reporter.Options{Format: reporter.FormatText, Color: "never"}, nil)
	assert.Equal(t, "No files to report.\n", out)
}

func TestShowSummaryGoesToErrorWriter(t *testing.T) {
	t.Parallel()

	var errBuf bytes.Buffer
	out, _ := render(t, reporter.Options{
		Format:      reporter.FormatXML,
		ShowSummary: true,
		Color:       "never",
		ErrorWriter: &errBuf,
	}, twoFileResult())

	assert.NotContains(t, out, "Total coverage")
	assert.Equal(t, "Total coverage 80.00% (16/20 lines) in 2 files\n", errBuf.String())
}

func TestReport_Cancelled(t *testing.T) {
	t.Parallel()

	rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = rep.Report(ctx, twoFileResult())
	require.ErrorIs(t, err, context.Canceled)
}

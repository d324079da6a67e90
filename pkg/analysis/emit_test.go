package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/covxml/pkg/analysis"
	"github.com/yaklabco/covxml/pkg/coverage"
)

func TestEmitFile_Lines(t *testing.T) {
	t.Parallel()

	a := coverage.NewAnalysis("/work/pkg/mod.py")
	for _, line := range []int{9, 1, 4, 2} {
		a.Statements.Add(line)
	}
	a.Missing.Add(4)

	resolver := analysis.NewPathResolver("/work", analysis.DefaultPackageDepth)
	file := analysis.EmitFile(resolver, a, false)

	assert.Equal(t, "pkg/mod.py", file.Path)
	assert.Equal(t, "pkg", file.Package)
	assert.Equal(t, "pkg.mod.py", file.ClassName)
	assert.Equal(t, "./pkg/mod.py", file.Filename)
	assert.Equal(t, []analysis.LineEntry{
		{Number: 1, Hits: 1},
		{Number: 2, Hits: 1},
		{Number: 4, Hits: 0},
		{Number: 9, Hits: 1},
	}, file.Lines)
	assert.Equal(t, "0.75", file.LineRate())
	assert.Equal(t, "0", file.BranchRate())
}

func TestEmitFile_Branches(t *testing.T) {
	t.Parallel()

	a := coverage.NewAnalysis("/work/b.py")
	for line := 1; line <= 6; line++ {
		a.Statements.Add(line)
	}
	a.BranchStats[2] = coverage.BranchStat{Total: 4, Taken: 3}
	a.BranchStats[3] = coverage.BranchStat{Total: 3, Taken: 1}
	a.MissingBranchArcs[2] = []int{5, -1}
	a.MissingBranchArcs[3] = []int{6, 4}

	resolver := analysis.NewPathResolver("/work", analysis.DefaultPackageDepth)

	withArcs := analysis.EmitFile(resolver, a, true)
	require.Len(t, withArcs.Lines, 6)
	assert.Equal(t, analysis.LineEntry{
		Number: 2, Hits: 1, Branch: true,
		ConditionCoverage: "75% (3/4)", MissingBranches: "5,exit",
	}, withArcs.Lines[1])
	assert.Equal(t, analysis.LineEntry{
		Number: 3, Hits: 1, Branch: true,
		ConditionCoverage: "33% (1/3)", MissingBranches: "6,4",
	}, withArcs.Lines[2])
	assert.Equal(t, 7, withArcs.Totals.BranchesValid)
	assert.Equal(t, 4, withArcs.Totals.BranchesHit)
	assert.Equal(t, "0.5714", withArcs.BranchRate())

	withoutArcs := analysis.EmitFile(resolver, a, false)
	for _, line := range withoutArcs.Lines {
		assert.False(t, line.Branch)
		assert.Empty(t, line.ConditionCoverage)
		assert.Empty(t, line.MissingBranches)
	}
	assert.Zero(t, withoutArcs.Totals.BranchesValid)
	assert.Zero(t, withoutArcs.Totals.BranchesHit)
	assert.Equal(t, "0", withoutArcs.BranchRate())
}

func TestEmitFile_HitsPlusMissingIsStatements(t *testing.T) {
	t.Parallel()

	resolver := analysis.NewPathResolver("/work", analysis.DefaultPackageDepth)

	for statements := 0; statements <= 12; statements++ {
		for missed := 0; missed <= statements; missed++ {
			a := coverage.NewAnalysis("/work/f.py")
			for line := 1; line <= statements; line++ {
				a.Statements.Add(line)
				if line <= missed {
					a.Missing.Add(line)
				}
			}

			file := analysis.EmitFile(resolver, a, false)
			assert.Equal(t, statements, file.Totals.LinesValid)
			assert.Equal(t, statements, file.Totals.LinesHit+a.Missing.Len())
			assert.Len(t, file.Lines, statements)
		}
	}
}

func TestEmitFile_EmptyFileIsFullyCovered(t *testing.T) {
	t.Parallel()

	resolver := analysis.NewPathResolver("/work", analysis.DefaultPackageDepth)
	file := analysis.EmitFile(resolver, coverage.NewAnalysis("/work/__init__.py"), true)

	assert.Empty(t, file.Lines)
	assert.Equal(t, "1", file.LineRate())
	assert.Equal(t, "1", file.BranchRate())
}

func TestPackageAnalysis_AddReplaces(t *testing.T) {
	t.Parallel()

	resolver := analysis.NewPathResolver("/work", analysis.DefaultPackageDepth)
	pkg := analysis.NewPackageAnalysis("src", false)

	first := coverage.NewAnalysis("/work/src/a.py")
	first.Statements.Add(1)
	first.Statements.Add(2)
	first.Missing.Add(2)

	second := coverage.NewAnalysis("/work/src/a.py")
	second.Statements.Add(1)

	pkg.Add(analysis.EmitFile(resolver, first, false))
	pkg.Add(analysis.EmitFile(resolver, second, false))

	assert.Equal(t, 1, pkg.Len())
	assert.Equal(t, analysis.Totals{LinesValid: 1, LinesHit: 1}, pkg.Totals)
	assert.Equal(t, "1", pkg.LineRate())
}

package analysis

import (
	"github.com/yaklabco/covxml/pkg/cobertura"
	"github.com/yaklabco/covxml/pkg/coverage"
)

// LineEntry is one statement line of a class.
type LineEntry struct {
	Number int `json:"number"`
	Hits   int `json:"hits"`

	// Branch is set when the line has branch statistics.
	Branch            bool   `json:"branch,omitempty"`
	ConditionCoverage string `json:"conditionCoverage,omitempty"`
	MissingBranches   string `json:"missingBranches,omitempty"`
}

// FileAnalysis is the rendered form of one measured file.
type FileAnalysis struct {
	// Path is relative to the working directory, with forward slashes.
	Path string `json:"path"`

	// Package is the name of the package the file belongs to.
	Package string `json:"package"`

	// ClassName is the package-qualified class name.
	ClassName string `json:"name"`

	// Filename is Path with a leading "./".
	Filename string `json:"filename"`

	Lines   []LineEntry `json:"lines"`
	Totals  Totals      `json:"totals"`
	HasArcs bool        `json:"-"`
}

// LineRate returns the class line rate.
func (f FileAnalysis) LineRate() string {
	return f.Totals.LineRate()
}

// BranchRate returns the class branch rate.
func (f FileAnalysis) BranchRate() string {
	return f.Totals.BranchRate(f.HasArcs)
}

// EmitFile renders one analysis as a class. Branch details are only
// included when hasArcs is true.
func EmitFile(resolver *PathResolver, a *coverage.Analysis, hasArcs bool) FileAnalysis {
	rel := resolver.Relative(a.Filename)
	pkg, _ := resolver.Package(rel)

	file := FileAnalysis{
		Path:      rel,
		Package:   pkg,
		ClassName: resolver.ClassName(rel),
		Filename:  "./" + rel,
		HasArcs:   hasArcs,
	}

	statements := a.Statements.Sorted()
	file.Lines = make([]LineEntry, 0, len(statements))
	for _, number := range statements {
		entry := LineEntry{Number: number, Hits: a.Hits(number)}

		if hasArcs {
			if stat, ok := a.BranchStats[number]; ok {
				entry.Branch = true
				entry.ConditionCoverage = cobertura.ConditionCoverage(stat.Taken, stat.Total)
			}
			if arcs, ok := a.MissingBranchArcs[number]; ok {
				entry.MissingBranches = cobertura.MissingBranches(arcs)
			}
		}

		file.Lines = append(file.Lines, entry)
	}

	file.Totals.LinesValid = a.NumStatements()
	file.Totals.LinesHit = file.Totals.LinesValid - a.Missing.Len()

	if hasArcs {
		var total, missed int
		for _, stat := range a.BranchStats {
			total += stat.Total
			missed += stat.Missed()
		}
		file.Totals.BranchesValid = total
		file.Totals.BranchesHit = total - missed
	}

	return file
}

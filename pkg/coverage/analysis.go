// Package coverage defines the per-file coverage model consumed by the
// Cobertura reporter and the provider interface that produces it.
package coverage

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMissingNotStatement is returned when a missing line is not a statement.
var ErrMissingNotStatement = errors.New("missing line is not a statement")

// LineSet is a set of 1-based source line numbers.
type LineSet map[int]struct{}

// NewLineSet returns a LineSet holding lines.
func NewLineSet(lines ...int) LineSet {
	set := make(LineSet, len(lines))
	for _, line := range lines {
		set[line] = struct{}{}
	}
	return set
}

// Add inserts line into the set.
func (s LineSet) Add(line int) {
	s[line] = struct{}{}
}

// Has reports whether line is in the set.
func (s LineSet) Has(line int) bool {
	_, ok := s[line]
	return ok
}

// Len returns the number of lines in the set.
func (s LineSet) Len() int {
	return len(s)
}

// Sorted returns the lines in ascending order.
func (s LineSet) Sorted() []int {
	lines := make([]int, 0, len(s))
	for line := range s {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// BranchStat counts the arcs leaving a branch line.
type BranchStat struct {
	Total int
	Taken int
}

// Missed returns the number of arcs not taken.
func (b BranchStat) Missed() int {
	return b.Total - b.Taken
}

// Analysis is the coverage result for one source file.
// Providers build it fully formed; the reporter only reads it.
type Analysis struct {
	// Filename is the absolute path of the measured file.
	Filename string

	// Statements are the executable lines.
	Statements LineSet

	// Missing are the statements that were not executed.
	Missing LineSet

	// BranchStats maps a branch line to its arc counts.
	BranchStats map[int]BranchStat

	// MissingBranchArcs maps a branch line to the targets that were never
	// taken, in order. A negative target is an exit from the function.
	MissingBranchArcs map[int][]int
}

// NewAnalysis returns an empty Analysis for filename.
func NewAnalysis(filename string) *Analysis {
	return &Analysis{
		Filename:          filename,
		Statements:        make(LineSet),
		Missing:           make(LineSet),
		BranchStats:       make(map[int]BranchStat),
		MissingBranchArcs: make(map[int][]int),
	}
}

// Hits returns 1 if line was executed and 0 otherwise.
func (a *Analysis) Hits(line int) int {
	if a.Missing.Has(line) {
		return 0
	}
	return 1
}

// NumStatements returns the number of executable lines.
func (a *Analysis) NumStatements() int {
	return a.Statements.Len()
}

// NumExecuted returns the number of executed statements.
func (a *Analysis) NumExecuted() int {
	return a.Statements.Len() - a.Missing.Len()
}

// Validate checks that every missing line is also a statement.
func (a *Analysis) Validate() error {
	for line := range a.Missing {
		if !a.Statements.Has(line) {
			return fmt.Errorf("%s:%d: %w", a.Filename, line, ErrMissingNotStatement)
		}
	}
	return nil
}

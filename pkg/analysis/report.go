package analysis

import (
	"cmp"
	"slices"
)

// Report is the fully aggregated coverage of one run.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// Packages are sorted by name.
	Packages []*PackageAnalysis

	// Totals is the sum over every package.
	Totals Totals

	// HasArcs reports whether branch coverage was measured.
	HasArcs bool

	// Sources are the existing source roots, "./"-prefixed and sorted.
	Sources []string
}

// LineRate returns the document line rate.
func (r *Report) LineRate() string {
	return r.Totals.LineRate()
}

// BranchRate returns the document branch rate.
func (r *Report) BranchRate() string {
	return r.Totals.BranchRate(r.HasArcs)
}

// Percent returns the overall coverage percentage.
func (r *Report) Percent() float64 {
	return r.Totals.Percent()
}

// BranchTotals returns the branch counts written at document level,
// which are zero when branches were not measured.
func (r *Report) BranchTotals() (valid, hit int) {
	if !r.HasArcs {
		return 0, 0
	}
	return r.Totals.BranchesValid, r.Totals.BranchesHit
}

// NumFiles returns the number of classes across all packages.
func (r *Report) NumFiles() int {
	n := 0
	for _, pkg := range r.Packages {
		n += pkg.Len()
	}
	return n
}

// SortedPackages returns a copy of the packages ordered by field.
// Ties are broken by name.
func (r *Report) SortedPackages(field SortField, desc bool) []*PackageAnalysis {
	pkgs := slices.Clone(r.Packages)
	slices.SortStableFunc(pkgs, func(left, right *PackageAnalysis) int {
		var result int
		switch field {
		case SortByCoverage:
			result = cmp.Compare(lineFraction(left.Totals), lineFraction(right.Totals))
		case SortByMissing:
			result = cmp.Compare(
				left.Totals.LinesValid-left.Totals.LinesHit,
				right.Totals.LinesValid-right.Totals.LinesHit,
			)
		default: // SortByName
			result = cmp.Compare(left.Name, right.Name)
		}
		if desc {
			result = -result
		}
		if result == 0 {
			result = cmp.Compare(left.Name, right.Name)
		}
		return result
	})
	return pkgs
}

func lineFraction(t Totals) float64 {
	if t.LinesValid == 0 {
		return 1
	}
	return float64(t.LinesHit) / float64(t.LinesValid)
}

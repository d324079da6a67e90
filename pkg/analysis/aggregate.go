package analysis

import (
	"slices"

	"github.com/yaklabco/covxml/pkg/cobertura"
)

// noBranchRate is the branch-rate written when branches were not measured.
const noBranchRate = "0"

// Totals counts lines and branches at one aggregation level.
type Totals struct {
	LinesValid    int `json:"linesValid"`
	LinesHit      int `json:"linesCovered"`
	BranchesValid int `json:"branchesValid"`
	BranchesHit   int `json:"branchesCovered"`
}

// Add returns the sum of t and other.
func (t Totals) Add(other Totals) Totals {
	return Totals{
		LinesValid:    t.LinesValid + other.LinesValid,
		LinesHit:      t.LinesHit + other.LinesHit,
		BranchesValid: t.BranchesValid + other.BranchesValid,
		BranchesHit:   t.BranchesHit + other.BranchesHit,
	}
}

// Sub returns t minus other.
func (t Totals) Sub(other Totals) Totals {
	return Totals{
		LinesValid:    t.LinesValid - other.LinesValid,
		LinesHit:      t.LinesHit - other.LinesHit,
		BranchesValid: t.BranchesValid - other.BranchesValid,
		BranchesHit:   t.BranchesHit - other.BranchesHit,
	}
}

// LineRate returns the line rate string.
func (t Totals) LineRate() string {
	return cobertura.Rate(t.LinesHit, t.LinesValid)
}

// BranchRate returns the branch rate string, or "0" when hasArcs is false.
func (t Totals) BranchRate(hasArcs bool) string {
	if !hasArcs {
		return noBranchRate
	}
	return cobertura.Rate(t.BranchesHit, t.BranchesValid)
}

// Percent returns lines and branches covered as a percentage of all lines
// and branches. It is 0 when there is nothing to cover.
func (t Totals) Percent() float64 {
	denom := t.LinesValid + t.BranchesValid
	if denom == 0 {
		return 0.0
	}
	return 100.0 * float64(t.LinesHit+t.BranchesHit) / float64(denom)
}

// PackageAnalysis accumulates the classes of one package.
type PackageAnalysis struct {
	Name    string
	Totals  Totals
	HasArcs bool

	classes map[string]FileAnalysis
}

// NewPackageAnalysis returns an empty package.
func NewPackageAnalysis(name string, hasArcs bool) *PackageAnalysis {
	return &PackageAnalysis{
		Name:    name,
		HasArcs: hasArcs,
		classes: make(map[string]FileAnalysis),
	}
}

// Add stores file under its relative path. A file already stored under the
// same path is replaced and its counts are taken back out of the totals.
func (p *PackageAnalysis) Add(file FileAnalysis) {
	if prev, ok := p.classes[file.Path]; ok {
		p.Totals = p.Totals.Sub(prev.Totals)
	}
	p.classes[file.Path] = file
	p.Totals = p.Totals.Add(file.Totals)
}

// Files returns the package's classes ordered by relative path.
func (p *PackageAnalysis) Files() []FileAnalysis {
	paths := make([]string, 0, len(p.classes))
	for path := range p.classes {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	files := make([]FileAnalysis, 0, len(paths))
	for _, path := range paths {
		files = append(files, p.classes[path])
	}
	return files
}

// Len returns the number of classes in the package.
func (p *PackageAnalysis) Len() int {
	return len(p.classes)
}

// LineRate returns the package line rate.
func (p *PackageAnalysis) LineRate() string {
	return p.Totals.LineRate()
}

// BranchRate returns the package branch rate.
func (p *PackageAnalysis) BranchRate() string {
	return p.Totals.BranchRate(p.HasArcs)
}

// Package cobertura models a Cobertura coverage document as a typed tree
// and serializes it to indented XML.
package cobertura

// DTDURL is the Cobertura DTD the document follows.
const DTDURL = "https://raw.githubusercontent.com/cobertura/web/master/htdocs/xml/coverage-04.dtd"

// Version is the value of the root "version" attribute.
const Version = "1.0"

// Document is the root <coverage> element.
type Document struct {
	Version         string
	Timestamp       int64
	LinesValid      int
	LinesCovered    int
	LineRate        string
	BranchesValid   int
	BranchesCovered int
	BranchRate      string
	Sources         []Source
	Packages        []Package
}

// Source is one <source> entry.
type Source struct {
	Path string
}

// Package is one <package> element.
type Package struct {
	Name       string
	LineRate   string
	BranchRate string
	Classes    []Class
}

// Class is one <class> element; Cobertura's unit for a source file.
type Class struct {
	Name       string
	Filename   string
	LineRate   string
	BranchRate string
	Lines      []Line
}

// Line is one <line> element.
type Line struct {
	Number int
	Hits   int

	// Branch marks a line with branch statistics.
	Branch bool

	// ConditionCoverage is set only when Branch is true.
	ConditionCoverage string

	// MissingBranches lists untaken targets; empty when none.
	MissingBranches string
}

package analysis

import "fmt"

// DefaultPackageDepth keeps effectively every directory segment.
const DefaultPackageDepth = 99

// SortField specifies how summary views order packages.
type SortField string

const (
	// SortByName sorts packages by name.
	SortByName SortField = "name"
	// SortByCoverage sorts packages by line coverage (lowest first by default).
	SortByCoverage SortField = "coverage"
	// SortByMissing sorts packages by the number of missed lines.
	SortByMissing SortField = "missing"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByName, SortByCoverage, SortByMissing:
		return true
	default:
		return false
	}
}

// ParseSortField parses a sort field name. An empty string means SortByName.
func ParseSortField(s string) (SortField, error) {
	if s == "" {
		return SortByName, nil
	}
	field := SortField(s)
	if !field.IsValid() {
		return "", fmt.Errorf("unknown sort field %q; valid fields: name, coverage, missing", s)
	}
	return field, nil
}

// Options configures the Analyze function.
type Options struct {
	// WorkingDir is the directory paths are made relative to.
	// If empty, the process working directory is used.
	WorkingDir string

	// PackageDepth is the maximum number of directory segments in a
	// package name. Zero or negative means no limit.
	PackageDepth int

	// Sources are the configured source roots. Roots that do not exist
	// are left out of the report.
	Sources []string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		PackageDepth: DefaultPackageDepth,
	}
}

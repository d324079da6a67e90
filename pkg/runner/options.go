// Package runner selects the measured files to report on and analyzes them
// concurrently through a coverage provider.
package runner

import "github.com/yaklabco/covxml/pkg/coverage"

// Options controls file selection and analysis.
type Options struct {
	// Morfs are the user-specified files or directories to report on.
	// If empty, every measured file is selected.
	Morfs []string

	// WorkingDir is the base directory used to resolve relative morfs and
	// match globs. If empty, the current process working directory is used.
	WorkingDir string

	// IncludeGlobs limit the report to matching files, relative to WorkingDir.
	// Empty means "include everything".
	IncludeGlobs []string

	// OmitGlobs are glob patterns used to skip files.
	OmitGlobs []string

	// Jobs controls the maximum number of concurrent analyses.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// IgnoreErrors skips source files that fail to analyze instead of
	// aborting the run.
	IgnoreErrors bool

	// Warn receives a warning for each skipped source file.
	// May be nil.
	Warn coverage.WarnFunc
}

// warn forwards to the configured hook, if any.
func (o Options) warn(msg, slug string) {
	if o.Warn != nil {
		o.Warn(msg, slug)
	}
}

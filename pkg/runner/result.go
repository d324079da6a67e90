package runner

import "github.com/yaklabco/covxml/pkg/coverage"

// FileOutcome is the analysis of one selected file.
type FileOutcome struct {
	// Path is the measured file path.
	Path string

	// Analysis is the file's coverage. Nil when the file was skipped.
	Analysis *coverage.Analysis

	// Error is the analysis failure of a skipped file.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesSelected is the number of files left after morf and glob selection.
	FilesSelected int

	// FilesAnalyzed is the number of files analyzed successfully.
	FilesAnalyzed int

	// FilesSkipped is the number of files dropped after a failed analysis.
	FilesSkipped int

	// Statements is the total number of statement lines analyzed.
	Statements int

	// Missing is the total number of statement lines not executed.
	Missing int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each selected file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// HasArcs reports whether the provider measured branches.
	HasArcs bool

	// WorkingDir is the resolved directory relative paths are based on.
	WorkingDir string
}

// Analyses returns the analyses of every file that was not skipped.
func (r *Result) Analyses() []*coverage.Analysis {
	if r == nil {
		return nil
	}
	analyses := make([]*coverage.Analysis, 0, len(r.Files))
	for _, file := range r.Files {
		if file.Analysis != nil {
			analyses = append(analyses, file.Analysis)
		}
	}
	return analyses
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Analysis == nil {
		r.Stats.FilesSkipped++
		return
	}

	r.Stats.FilesAnalyzed++
	r.Stats.Statements += outcome.Analysis.NumStatements()
	r.Stats.Missing += outcome.Analysis.Missing.Len()
}

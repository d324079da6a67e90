package coverage

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yaklabco/covxml/pkg/langdetect"
)

// FileReporter identifies one measured file.
type FileReporter interface {
	// Filename is the absolute path of the file.
	Filename() string

	// ShouldBeSource reports whether the file is expected to be source code.
	// Analysis failures for such files are surfaced; others are skipped.
	ShouldBeSource() bool
}

// Provider is the coverage engine the reporter reads from.
type Provider interface {
	// FileReporters returns the files selected by morfs.
	// An empty morfs selects every measured file.
	FileReporters(ctx context.Context, morfs []string) ([]FileReporter, error)

	// Analyze computes the Analysis for one file. It may fail.
	Analyze(ctx context.Context, fr FileReporter) (*Analysis, error)

	// HasArcs reports whether branch coverage was measured.
	HasArcs() bool
}

// WarnFunc receives non-fatal warnings tagged with a category slug.
type WarnFunc func(msg, slug string)

// AnalysisError is returned when a source file cannot be analyzed.
type AnalysisError struct {
	Filename string
	Err      error
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyze %s: %v", e.Filename, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// SortFileReporters orders reporters by filename.
func SortFileReporters(frs []FileReporter) {
	sort.SliceStable(frs, func(i, j int) bool {
		return frs[i].Filename() < frs[j].Filename()
	})
}

// SourceFile is the FileReporter used by the bundled providers.
type SourceFile struct {
	Path string
}

// Filename implements FileReporter.
func (f SourceFile) Filename() string {
	return f.Path
}

// ShouldBeSource implements FileReporter.
func (f SourceFile) ShouldBeSource() bool {
	return langdetect.IsSource(f.Path)
}

// MatchMorfs reports whether filename is selected by morfs.
// A morf selects a file when it names the file or one of its directories.
// Relative morfs are resolved against workDir.
func MatchMorfs(filename string, morfs []string, workDir string) bool {
	if len(morfs) == 0 {
		return true
	}

	clean := filepath.Clean(filename)
	for _, morf := range morfs {
		if !filepath.IsAbs(morf) {
			morf = filepath.Join(workDir, morf)
		}
		morf = filepath.Clean(morf)
		if clean == morf || strings.HasPrefix(clean, morf+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

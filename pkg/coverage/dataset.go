package coverage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotMeasured is returned when asked to analyze a file the data does not cover.
var ErrNotMeasured = errors.New("file was not measured")

// Dataset is a Provider over coverage data that has already been parsed.
// Parsers record one Analysis per file, or a deferred failure that surfaces
// when that file is analyzed.
type Dataset struct {
	workDir string
	hasArcs bool
	order   []string
	files   map[string]datasetEntry
}

type datasetEntry struct {
	analysis *Analysis
	err      error
}

// NewDataset creates an empty Dataset. Relative filenames are resolved
// against workDir.
func NewDataset(workDir string) *Dataset {
	return &Dataset{
		workDir: workDir,
		files:   make(map[string]datasetEntry),
	}
}

// Abs resolves filename against the dataset working directory.
func (d *Dataset) Abs(filename string) string {
	if filepath.IsAbs(filename) {
		return filepath.Clean(filename)
	}
	return filepath.Join(d.workDir, filepath.FromSlash(filename))
}

// Get returns the analysis recorded for filename, creating an empty one
// when none exists yet. It returns nil if the file already failed.
func (d *Dataset) Get(filename string) *Analysis {
	path := d.Abs(filename)
	entry, ok := d.files[path]
	if !ok {
		entry = datasetEntry{analysis: NewAnalysis(path)}
		d.files[path] = entry
		d.order = append(d.order, path)
	}
	return entry.analysis
}

// Fail records that filename cannot be analyzed. The first failure wins.
func (d *Dataset) Fail(filename string, err error) {
	path := d.Abs(filename)
	entry, ok := d.files[path]
	if !ok {
		d.order = append(d.order, path)
	} else if entry.err != nil {
		return
	}
	d.files[path] = datasetEntry{err: err}
}

// SetHasArcs marks the data as carrying branch measurements.
func (d *Dataset) SetHasArcs(hasArcs bool) {
	d.hasArcs = hasArcs
}

// Len returns the number of measured files.
func (d *Dataset) Len() int {
	return len(d.order)
}

// FileReporters implements Provider.
func (d *Dataset) FileReporters(ctx context.Context, morfs []string) ([]FileReporter, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	reporters := make([]FileReporter, 0, len(d.order))
	for _, path := range d.order {
		if MatchMorfs(path, morfs, d.workDir) {
			reporters = append(reporters, SourceFile{Path: path})
		}
	}
	return reporters, nil
}

// Analyze implements Provider.
func (d *Dataset) Analyze(ctx context.Context, fr FileReporter) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	entry, ok := d.files[d.Abs(fr.Filename())]
	if !ok {
		return nil, fmt.Errorf("%s: %w", fr.Filename(), ErrNotMeasured)
	}
	if entry.err != nil {
		return nil, entry.err
	}
	return entry.analysis, nil
}

// HasArcs implements Provider.
func (d *Dataset) HasArcs() bool {
	return d.hasArcs
}

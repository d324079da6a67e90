// Package covjson reads coverage.py JSON reports ("coverage json") into a
// coverage.Dataset.
package covjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/yaklabco/covxml/pkg/coverage"
	"github.com/yaklabco/covxml/pkg/fsutil"
)

var (
	// ErrBadLine is recorded for a line number below 1.
	ErrBadLine = errors.New("invalid line number")

	// ErrBadArc is recorded for a branch arc that is not a [from, to] pair.
	ErrBadArc = errors.New("invalid branch arc")
)

// Report is the subset of the coverage.py JSON schema covxml reads.
type Report struct {
	Meta  Meta                  `json:"meta"`
	Files map[string]FileReport `json:"files"`
}

// Meta describes how the data was measured.
type Meta struct {
	Version        string `json:"version"`
	BranchCoverage bool   `json:"branch_coverage"`
}

// FileReport is the measurement of one file.
type FileReport struct {
	ExecutedLines    []int   `json:"executed_lines"`
	MissingLines     []int   `json:"missing_lines"`
	ExecutedBranches [][]int `json:"executed_branches"`
	MissingBranches  [][]int `json:"missing_branches"`
}

// Load reads the report at path.
func Load(ctx context.Context, path, workDir string) (*coverage.Dataset, error) {
	content, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	dataset, err := decode(ctx, content, workDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dataset, nil
}

// Parse decodes a report from r.
func Parse(ctx context.Context, r io.Reader, workDir string) (*coverage.Dataset, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read coverage json: %w", err)
	}
	return decode(ctx, content, workDir)
}

// decode validates content against the report schema and builds the dataset.
func decode(ctx context.Context, content []byte, workDir string) (*coverage.Dataset, error) {
	if err := Validate(content); err != nil {
		return nil, err
	}

	var report Report
	if err := json.Unmarshal(content, &report); err != nil {
		return nil, fmt.Errorf("parse coverage json: %w", err)
	}
	return Build(ctx, &report, workDir)
}

// Build converts a decoded report. Files are added in name order.
func Build(ctx context.Context, report *Report, workDir string) (*coverage.Dataset, error) {
	dataset := coverage.NewDataset(workDir)
	dataset.SetHasArcs(report.Meta.BranchCoverage)

	for _, name := range slices.Sorted(maps.Keys(report.Files)) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build dataset: %w", err)
		}

		file := report.Files[name]
		if err := file.check(); err != nil {
			dataset.Fail(name, fmt.Errorf("%s: %w", name, err))
			continue
		}
		file.fill(dataset.Get(name))
	}

	return dataset, nil
}

func (f FileReport) check() error {
	for _, lines := range [][]int{f.ExecutedLines, f.MissingLines} {
		for _, line := range lines {
			if line < 1 {
				return fmt.Errorf("%w: %d", ErrBadLine, line)
			}
		}
	}
	for _, arcs := range [][][]int{f.ExecutedBranches, f.MissingBranches} {
		for _, arc := range arcs {
			if len(arc) != 2 || arc[0] < 1 {
				return fmt.Errorf("%w: %v", ErrBadArc, arc)
			}
		}
	}
	return nil
}

// fill copies lines and branch arcs into analysis. Branch statistics are
// keyed by the arc source line; missing targets keep report order.
func (f FileReport) fill(analysis *coverage.Analysis) {
	for _, line := range f.ExecutedLines {
		analysis.Statements.Add(line)
	}
	for _, line := range f.MissingLines {
		analysis.Statements.Add(line)
		analysis.Missing.Add(line)
	}

	for _, arc := range f.ExecutedBranches {
		stat := analysis.BranchStats[arc[0]]
		stat.Total++
		stat.Taken++
		analysis.BranchStats[arc[0]] = stat
	}
	for _, arc := range f.MissingBranches {
		stat := analysis.BranchStats[arc[0]]
		stat.Total++
		analysis.BranchStats[arc[0]] = stat
		analysis.MissingBranchArcs[arc[0]] = append(analysis.MissingBranchArcs[arc[0]], arc[1])
	}
}

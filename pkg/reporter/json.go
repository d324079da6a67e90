package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yaklabco/covxml/pkg/analysis"
	"github.com/yaklabco/covxml/pkg/cobertura"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version    string          `json:"version"`
	Timestamp  int64           `json:"timestamp"`
	HasArcs    bool            `json:"hasArcs"`
	Totals     analysis.Totals `json:"totals"`
	LineRate   string          `json:"lineRate"`
	BranchRate string          `json:"branchRate"`
	Percent    float64         `json:"percent"`
	Sources    []string        `json:"sources"`
	Packages   []JSONPackage   `json:"packages"`
}

// JSONPackage represents one package.
type JSONPackage struct {
	Name       string          `json:"name"`
	LineRate   string          `json:"lineRate"`
	BranchRate string          `json:"branchRate"`
	Totals     analysis.Totals `json:"totals"`
	Classes    []JSONClass     `json:"classes"`
}

// JSONClass represents one measured file.
type JSONClass struct {
	Name       string               `json:"name"`
	Filename   string               `json:"filename"`
	LineRate   string               `json:"lineRate"`
	BranchRate string               `json:"branchRate"`
	Totals     analysis.Totals      `json:"totals"`
	Lines      []analysis.LineEntry `json:"lines,omitempty"`
}

// JSONRenderer formats the report as JSON.
type JSONRenderer struct {
	opts Options
}

// NewJSONRenderer creates a new JSON renderer.
func NewJSONRenderer(opts Options) *JSONRenderer {
	return &JSONRenderer{opts: opts}
}

// Render implements Renderer.
func (r *JSONRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(r.buildOutput(report, r.opts.now())); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func (r *JSONRenderer) buildOutput(report *analysis.Report, now time.Time) *JSONOutput {
	output := &JSONOutput{
		Version:    cobertura.Version,
		Timestamp:  now.UnixMilli(),
		HasArcs:    report.HasArcs,
		Totals:     report.Totals,
		LineRate:   report.LineRate(),
		BranchRate: report.BranchRate(),
		Percent:    report.Percent(),
		Sources:    make([]string, 0, len(report.Sources)),
		Packages:   make([]JSONPackage, 0, len(report.Packages)),
	}
	output.Sources = append(output.Sources, report.Sources...)

	for _, pkg := range report.Packages {
		jsonPkg := JSONPackage{
			Name:       pkg.Name,
			LineRate:   pkg.LineRate(),
			BranchRate: pkg.BranchRate(),
			Totals:     pkg.Totals,
			Classes:    make([]JSONClass, 0, pkg.Len()),
		}
		for _, file := range pkg.Files() {
			class := JSONClass{
				Name:       file.ClassName,
				Filename:   file.Filename,
				LineRate:   file.LineRate(),
				BranchRate: file.BranchRate(),
				Totals:     file.Totals,
			}
			if !r.opts.Compact {
				class.Lines = file.Lines
			}
			jsonPkg.Classes = append(jsonPkg.Classes, class)
		}
		output.Packages = append(output.Packages, jsonPkg)
	}

	return output
}

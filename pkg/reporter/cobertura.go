package reporter

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/yaklabco/covxml/pkg/analysis"
	"github.com/yaklabco/covxml/pkg/cobertura"
)

// CoberturaRenderer writes the report as Cobertura XML.
type CoberturaRenderer struct {
	out io.Writer
	now func() time.Time
}

// NewCoberturaRenderer creates a new Cobertura renderer.
func NewCoberturaRenderer(opts Options) *CoberturaRenderer {
	return &CoberturaRenderer{
		out: opts.Writer,
		now: opts.now,
	}
}

// Render implements Renderer.
func (r *CoberturaRenderer) Render(_ context.Context, report *analysis.Report) error {
	doc := BuildDocument(report, r.now())
	if err := cobertura.Encode(r.out, doc); err != nil {
		return fmt.Errorf("encode cobertura: %w", err)
	}
	return nil
}

// BuildDocument lowers a report into a Cobertura document stamped with now.
func BuildDocument(report *analysis.Report, now time.Time) *cobertura.Document {
	branchesValid, branchesHit := report.BranchTotals()

	doc := &cobertura.Document{
		Version:         cobertura.Version,
		Timestamp:       now.UnixMilli(),
		LinesValid:      report.Totals.LinesValid,
		LinesCovered:    report.Totals.LinesHit,
		LineRate:        report.LineRate(),
		BranchesValid:   branchesValid,
		BranchesCovered: branchesHit,
		BranchRate:      report.BranchRate(),
		Sources:         make([]cobertura.Source, 0, len(report.Sources)),
		Packages:        make([]cobertura.Package, 0, len(report.Packages)),
	}

	for _, source := range report.Sources {
		doc.Sources = append(doc.Sources, cobertura.Source{Path: source})
	}

	for _, pkg := range report.Packages {
		files := pkg.Files()
		xpkg := cobertura.Package{
			Name:       pkg.Name,
			LineRate:   pkg.LineRate(),
			BranchRate: pkg.BranchRate(),
			Classes:    make([]cobertura.Class, 0, len(files)),
		}

		for _, file := range files {
			class := cobertura.Class{
				Name:       file.ClassName,
				Filename:   file.Filename,
				LineRate:   file.LineRate(),
				BranchRate: file.BranchRate(),
				Lines:      make([]cobertura.Line, 0, len(file.Lines)),
			}
			for _, line := range file.Lines {
				class.Lines = append(class.Lines, cobertura.Line{
					Number:            line.Number,
					Hits:              line.Hits,
					Branch:            line.Branch,
					ConditionCoverage: line.ConditionCoverage,
					MissingBranches:   line.MissingBranches,
				})
			}
			xpkg.Classes = append(xpkg.Classes, class)
		}

		doc.Packages = append(doc.Packages, xpkg)
	}

	return doc
}

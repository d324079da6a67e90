// Package analysis groups per-file coverage into packages and computes the
// totals and rates every report format is rendered from.
package analysis

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/yaklabco/covxml/pkg/runner"
)

// Analyze transforms a runner.Result into a Report.
// Each analyzed file is emitted as a class, grouped into its package, and
// the package totals are summed into the document totals.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{}
	if result == nil {
		return report
	}

	workDir := resolveWorkDir(opts.WorkingDir, result.WorkingDir)
	resolver := NewPathResolver(workDir, opts.PackageDepth)
	report.HasArcs = result.HasArcs

	packages := make(map[string]*PackageAnalysis)
	for _, outcome := range result.Files {
		if outcome.Analysis == nil {
			continue
		}

		file := EmitFile(resolver, outcome.Analysis, result.HasArcs)
		pkg, ok := packages[file.Package]
		if !ok {
			pkg = NewPackageAnalysis(file.Package, result.HasArcs)
			packages[file.Package] = pkg
		}
		pkg.Add(file)
	}

	names := make([]string, 0, len(packages))
	for name := range packages {
		names = append(names, name)
	}
	slices.Sort(names)

	report.Packages = make([]*PackageAnalysis, 0, len(names))
	for _, name := range names {
		pkg := packages[name]
		report.Packages = append(report.Packages, pkg)
		report.Totals = report.Totals.Add(pkg.Totals)
	}

	report.Sources = resolveSources(resolver, workDir, opts.Sources)

	return report
}

// resolveSources keeps the roots that exist and renders them relative to
// the working directory with a "./" prefix, de-duplicated and sorted.
func resolveSources(resolver *PathResolver, workDir string, roots []string) []string {
	seen := make(map[string]struct{}, len(roots))
	var sources []string

	for _, root := range roots {
		abs := root
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		if _, err := os.Stat(abs); err != nil {
			continue
		}

		source := "./" + resolver.Relative(abs)
		if _, ok := seen[source]; ok {
			continue
		}
		seen[source] = struct{}{}
		sources = append(sources, source)
	}

	slices.Sort(sources)
	return sources
}

// resolveWorkDir picks the first non-empty directory, falling back to the
// process working directory.
func resolveWorkDir(candidates ...string) string {
	for _, dir := range candidates {
		if dir != "" {
			return dir
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

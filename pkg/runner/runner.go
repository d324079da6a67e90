package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/covxml/pkg/coverage"
)

// SlugCouldntParse tags the warning for a skipped source file.
const SlugCouldntParse = "couldnt-parse"

// errNoAnalysis is reported when a provider returns neither data nor error.
var errNoAnalysis = errors.New("provider returned no analysis")

// Runner analyzes the files a coverage provider measured.
type Runner struct {
	// Provider supplies the file reporters and their analyses.
	Provider coverage.Provider
}

// New creates a new Runner reading from provider.
func New(provider coverage.Provider) *Runner {
	return &Runner{Provider: provider}
}

// Run selects files for opts.Morfs and analyzes them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
//
// A failed analysis aborts the run with a *coverage.AnalysisError when the
// file should be source code and opts.IgnoreErrors is false. With
// IgnoreErrors set the file is skipped after a warning. Files that are not
// expected to be source are skipped silently.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	reporters, err := Select(ctx, r.Provider, opts, workDir)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files:      make([]FileOutcome, 0, len(reporters)),
		HasArcs:    r.Provider.HasArcs(),
		WorkingDir: workDir,
	}
	result.Stats.FilesSelected = len(reporters)

	if len(reporters) == 0 {
		return result, nil
	}

	// Determine job count.
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	// Each goroutine writes only its own index.
	outcomes := make([]FileOutcome, len(reporters))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(min(jobs, len(reporters)))

	for idx, fr := range reporters {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			outcomes[idx] = r.analyze(groupCtx, fr)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	// Fold in sorted order so the first failure is deterministic.
	for idx, fr := range reporters {
		outcome := outcomes[idx]
		if outcome.Error != nil && fr.ShouldBeSource() {
			if !opts.IgnoreErrors {
				return nil, &coverage.AnalysisError{Filename: fr.Filename(), Err: outcome.Error}
			}
			opts.warn(fmt.Sprintf("Couldn't parse source file '%s'", fr.Filename()), SlugCouldntParse)
		}
		result.accumulate(outcome)
	}

	return result, nil
}

// analyze runs the provider for one file and checks the result.
func (r *Runner) analyze(ctx context.Context, fr coverage.FileReporter) FileOutcome {
	outcome := FileOutcome{Path: fr.Filename()}

	analysis, err := r.Provider.Analyze(ctx, fr)
	switch {
	case err != nil:
		outcome.Error = err
	case analysis == nil:
		outcome.Error = errNoAnalysis
	default:
		if err := analysis.Validate(); err != nil {
			outcome.Error = err
			return outcome
		}
		outcome.Analysis = analysis
	}

	return outcome
}

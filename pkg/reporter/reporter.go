// Package reporter renders coverage results as Cobertura XML and a few
// human-readable summaries.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/covxml/internal/ui/pretty"
	"github.com/yaklabco/covxml/pkg/analysis"
	"github.com/yaklabco/covxml/pkg/runner"
)

// Compile-time interface check for reporterFacade.
var _ Reporter = (*reporterFacade)(nil)

// Reporter formats and writes coverage results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the total coverage percentage and any write errors.
	Report(ctx context.Context, result *runner.Result) (float64, error)
}

// reporterFacade bridges the Reporter interface to Renderer implementations.
type reporterFacade struct {
	renderer     Renderer
	analysisOpts analysis.Options
	opts         Options
}

// Report implements Reporter by analyzing the result and rendering it.
func (f *reporterFacade) Report(ctx context.Context, result *runner.Result) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("report cancelled: %w", err)
	}

	report := analysis.Analyze(result, f.analysisOpts)
	if err := f.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}

	if f.opts.ShowSummary && f.opts.ErrorWriter != nil {
		styles := pretty.NewStyles(pretty.IsColorEnabled(f.opts.Color, f.opts.ErrorWriter))
		if _, err := fmt.Fprint(f.opts.ErrorWriter, styles.FormatSummaryOneLine(report)); err != nil {
			return 0, fmt.Errorf("write summary: %w", err)
		}
	}

	return report.Percent(), nil
}

// newRendererFacade creates a facade wrapping a Renderer.
func newRendererFacade(renderer Renderer, opts Options) *reporterFacade {
	return &reporterFacade{
		renderer:     renderer,
		analysisOpts: opts.analysisOptions(),
		opts:         opts,
	}
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	defaults := DefaultOptions()

	// Default writer to stdout if not specified
	if opts.Writer == nil {
		opts.Writer = defaults.Writer
	}
	if opts.ErrorWriter == nil {
		opts.ErrorWriter = defaults.ErrorWriter
	}
	if opts.Title == "" {
		opts.Title = defaults.Title
	}

	// Validate and handle format
	format := opts.Format
	if format == "" {
		format = FormatXML
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	switch format {
	case FormatXML:
		return newRendererFacade(NewCoberturaRenderer(opts), opts), nil
	case FormatText:
		return newRendererFacade(NewTextRenderer(opts), opts), nil
	case FormatJSON:
		return newRendererFacade(NewJSONRenderer(opts), opts), nil
	case FormatMarkdown:
		return newRendererFacade(NewMarkdownRenderer(opts), opts), nil
	case FormatHTML:
		return newRendererFacade(NewHTMLRenderer(opts), opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

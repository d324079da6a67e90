package reporter

import (
	"io"
	"os"
	"time"

	"github.com/yaklabco/covxml/pkg/analysis"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter is the destination for the summary line (typically os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowSummary writes a one-line total to ErrorWriter after the report.
	ShowSummary bool

	// Compact uses compact/minified output where applicable.
	Compact bool

	// SortBy orders packages in the text, markdown and html formats.
	// The XML and JSON formats always list packages by name.
	SortBy analysis.SortField

	// SortDesc reverses SortBy.
	SortDesc bool

	// Title heads the markdown and html formats.
	Title string

	// WorkingDir is the directory paths are made relative to.
	// If empty, the runner's working directory is used.
	WorkingDir string

	// PackageDepth is the maximum number of directory segments in a
	// package name.
	PackageDepth int

	// Sources are the configured source roots.
	Sources []string

	// Now returns the report timestamp. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:       os.Stdout,
		ErrorWriter:  os.Stderr,
		Format:       FormatXML,
		Color:        "auto",
		SortBy:       analysis.SortByName,
		Title:        "Coverage report",
		PackageDepth: analysis.DefaultPackageDepth,
		Now:          time.Now,
	}
}

// analysisOptions returns the options Analyze is called with.
func (o Options) analysisOptions() analysis.Options {
	return analysis.Options{
		WorkingDir:   o.WorkingDir,
		PackageDepth: o.PackageDepth,
		Sources:      o.Sources,
	}
}

// now returns the report timestamp.
func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

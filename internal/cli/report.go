package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/covxml/internal/configloader"
	"github.com/yaklabco/covxml/internal/logging"
	"github.com/yaklabco/covxml/internal/ui/pretty"
	"github.com/yaklabco/covxml/pkg/analysis"
	"github.com/yaklabco/covxml/pkg/config"
	"github.com/yaklabco/covxml/pkg/coverage"
	"github.com/yaklabco/covxml/pkg/coverage/covjson"
	"github.com/yaklabco/covxml/pkg/coverage/goprofile"
	"github.com/yaklabco/covxml/pkg/coverage/lcov"
	"github.com/yaklabco/covxml/pkg/fsutil"
	"github.com/yaklabco/covxml/pkg/reporter"
	"github.com/yaklabco/covxml/pkg/runner"
)

// stdioPath selects stdin for --input and stdout for --output.
const stdioPath = "-"

// ErrNoInput is returned when no coverage data file was given or found.
var ErrNoInput = errors.New("no coverage data file")

// defaultInputs are tried in order when no input is configured.
var defaultInputs = []string{
	"coverage.json",
	"lcov.info",
	"coverage.info",
	"coverage.out",
	"cover.out",
}

type reportFlags struct {
	directory    string
	input        string
	inputFormat  string
	output       string
	format       string
	ignoreErrors bool
	packageDepth int
	sources      []string
	include      []string
	omit         []string
	failUnder    float64
	jobs         int
	summary      bool
	sortBy       string
	sortDesc     bool
	compact      bool
	title        string
}

func newReportCommand() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:     "report [flags] [files or directories...]",
		Aliases: []string{"xml"},
		Short:   "Write a Cobertura XML coverage report",
		Long: `Read measured coverage data and write a Cobertura XML report.

With no arguments every measured file is reported. Arguments limit the report
to the named files and the files under the named directories.

The input format is detected from the file content unless --input-format is
given: Go cover profiles start with "mode:", coverage.py JSON reports with
"{", and anything else is read as an LCOV tracefile.

Exit codes:
  0   Report written
  1   Coverage data could not be analyzed
  2   Total coverage is below --fail-under
  64  Invalid usage
  65  Configuration error
  74  I/O error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args, &flags)
		},
	}

	cmd.Flags().StringVarP(&flags.directory, "directory", "C", "",
		"run as if started in this directory")
	cmd.Flags().StringVarP(&flags.input, "input", "i", "",
		"coverage data file, or - for stdin")
	cmd.Flags().StringVar(&flags.inputFormat, "input-format", "",
		"coverage data format: auto, lcov, goprofile, covjson")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"report file, or - for stdout (default stdout)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "",
		"report format: xml, text, json, markdown, html")
	cmd.Flags().BoolVar(&flags.ignoreErrors, "ignore-errors", false,
		"skip source files that cannot be analyzed")
	cmd.Flags().IntVar(&flags.packageDepth, "package-depth", 0,
		"maximum directory depth of package names (default 99)")
	cmd.Flags().StringSliceVar(&flags.sources, "source", nil,
		"source directories listed in the report")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil,
		"only report files matching these globs")
	cmd.Flags().StringSliceVar(&flags.omit, "omit", nil,
		"skip files matching these globs")
	cmd.Flags().Float64Var(&flags.failUnder, "fail-under", 0,
		"exit with status 2 when total coverage is below this percentage")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0,
		"number of concurrent analyses (0 = auto)")
	cmd.Flags().BoolVar(&flags.summary, "summary", false,
		"print a one-line total to stderr")
	cmd.Flags().StringVar(&flags.sortBy, "sort", "name",
		"package order for text, markdown and html: name, coverage, missing")
	cmd.Flags().BoolVar(&flags.sortDesc, "sort-desc", false,
		"reverse the package order")
	cmd.Flags().BoolVar(&flags.compact, "compact", false,
		"compact output where the format supports it")
	cmd.Flags().StringVar(&flags.title, "title", "",
		"title of markdown and html reports")

	return cmd
}

// cliConfig collects the flags the user actually set so they override
// configuration files without clobbering them with flag defaults.
func cliConfig(cmd *cobra.Command, flags *reportFlags) *config.Config {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	if changed("input") {
		cfg.Input = flags.input
	}
	if changed("input-format") {
		cfg.InputFormat = config.InputFormat(flags.inputFormat)
	}
	if changed("output") {
		cfg.Output = flags.output
	}
	if changed("format") {
		cfg.Format = flags.format
	}
	if changed("ignore-errors") {
		cfg.IgnoreErrors = config.Bool(flags.ignoreErrors)
	}
	if changed("package-depth") {
		cfg.PackageDepth = flags.packageDepth
	}
	if changed("source") {
		cfg.Source = flags.sources
	}
	if changed("include") {
		cfg.Include = flags.include
	}
	if changed("omit") {
		cfg.Omit = flags.omit
	}
	if changed("fail-under") {
		cfg.FailUnder = flags.failUnder
	}
	if changed("jobs") {
		cfg.Jobs = flags.jobs
	}
	if changed("summary") {
		cfg.Summary = config.Bool(flags.summary)
	}
	return cfg
}

//nolint:funlen // Linear pipeline: config, data, analysis, output, threshold.
func runReport(cmd *cobra.Command, args []string, flags *reportFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	workDir, err := resolveDirectory(flags.directory)
	if err != nil {
		return err
	}

	configPath, _ := cmd.Flags().GetString("config")
	colorMode, _ := cmd.Flags().GetString("color")

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliConfig(cmd, flags),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}
	cfg := loaded.Config
	logger.Debug("configuration loaded",
		logging.FieldConfig, loaded.LoadedFrom,
		logging.FieldWorkingDir, workDir,
		logging.FieldPackageDepth, cfg.PackageDepth,
	)

	format, err := reporter.ParseFormat(cfg.Format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	sortBy, err := analysis.ParseSortField(flags.sortBy)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	provider, err := loadCoverage(ctx, cmd.InOrStdin(), cfg, workDir)
	if err != nil {
		return err
	}

	result, err := runner.New(provider).Run(ctx, runner.Options{
		Morfs:        args,
		WorkingDir:   workDir,
		IncludeGlobs: cfg.Include,
		OmitGlobs:    cfg.Omit,
		Jobs:         cfg.Jobs,
		IgnoreErrors: cfg.IgnoresErrors(),
		Warn:         logging.WarnHook(logger),
	})
	if err != nil {
		return err
	}
	logger.Debug("analysis complete",
		logging.FieldFilesSelected, result.Stats.FilesSelected,
		logging.FieldFilesAnalyzed, result.Stats.FilesAnalyzed,
		logging.FieldFilesSkipped, result.Stats.FilesSkipped,
	)

	percent, err := writeReport(ctx, cmd, cfg, result, reporter.Options{
		ErrorWriter:  cmd.ErrOrStderr(),
		Format:       format,
		Color:        colorMode,
		ShowSummary:  cfg.WantsSummary(),
		Compact:      flags.compact,
		SortBy:       sortBy,
		SortDesc:     flags.sortDesc,
		Title:        flags.title,
		WorkingDir:   workDir,
		PackageDepth: cfg.PackageDepth,
		Sources:      cfg.Source,
	})
	if err != nil {
		return err
	}

	if shouldFailUnder(percent, cfg.FailUnder) {
		styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.ErrOrStderr()))
		fmt.Fprint(cmd.ErrOrStderr(), styles.FormatThreshold(percent, cfg.FailUnder))
		return ErrCoverageBelowThreshold
	}
	return nil
}

// resolveDirectory returns the absolute working directory for a run.
func resolveDirectory(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrUsage, dir)
	}
	return abs, nil
}

// loadCoverage reads the configured coverage data file into a dataset.
func loadCoverage(ctx context.Context, stdin io.Reader, cfg *config.Config, workDir string) (*coverage.Dataset, error) {
	logger := logging.FromContext(ctx)

	content, source, err := readInput(ctx, stdin, cfg.Input, workDir)
	if err != nil {
		return nil, err
	}

	inputFormat := cfg.InputFormat
	if inputFormat == "" || inputFormat == config.InputAuto {
		inputFormat = SniffInputFormat(content)
	}
	logger.Debug("reading coverage data",
		logging.FieldInput, source,
		logging.FieldInputFormat, inputFormat,
	)

	var dataset *coverage.Dataset
	reader := bytes.NewReader(content)

	switch inputFormat {
	case config.InputLCOV:
		dataset, err = lcov.Parse(ctx, reader, workDir)
	case config.InputGoProfile:
		dataset, err = goprofile.Parse(ctx, reader, workDir)
	case config.InputCovJSON:
		dataset, err = covjson.Parse(ctx, reader, workDir)
	default:
		return nil, fmt.Errorf("%w: unknown input format %q", ErrUsage, inputFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return dataset, nil
}

// readInput returns the content of the coverage data file and its display name.
func readInput(ctx context.Context, stdin io.Reader, input, workDir string) ([]byte, string, error) {
	if input == stdioPath {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return content, "<stdin>", nil
	}

	if input == "" {
		for _, name := range defaultInputs {
			candidate := filepath.Join(workDir, name)
			if fsutil.Exists(candidate) {
				input = candidate
				break
			}
		}
		if input == "" {
			return nil, "", fmt.Errorf("%w: pass --input or set input in the config file", ErrNoInput)
		}
	}

	if !filepath.IsAbs(input) {
		input = filepath.Join(workDir, input)
	}

	content, err := fsutil.ReadFile(ctx, input)
	if err != nil {
		return nil, "", err
	}
	return content, input, nil
}

// SniffInputFormat guesses the coverage data format from file content.
func SniffInputFormat(content []byte) config.InputFormat {
	trimmed := bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	trimmed = bytes.TrimLeft(trimmed, " \t\r\n")

	switch {
	case bytes.HasPrefix(trimmed, []byte("mode:")):
		return config.InputGoProfile
	case bytes.HasPrefix(trimmed, []byte("{")):
		return config.InputCovJSON
	default:
		return config.InputLCOV
	}
}

// writeReport renders result to stdout or atomically to the configured file.
func writeReport(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	result *runner.Result,
	opts reporter.Options,
) (float64, error) {
	if cfg.WritesToStdout() {
		opts.Writer = cmd.OutOrStdout()
		rep, err := reporter.New(opts)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return rep.Report(ctx, result)
	}

	path := cfg.Output
	if !filepath.IsAbs(path) {
		path = filepath.Join(opts.WorkingDir, path)
	}
	if dir := filepath.Dir(path); !fsutil.Exists(dir) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create output directory: %w", err)
		}
	}

	file, err := fsutil.CreateAtomic(ctx, path, fsutil.DefaultFileMode)
	if err != nil {
		return 0, err
	}
	// No-op once committed; removes the temp file on every other exit.
	defer func() { _ = file.Abort() }()

	opts.Writer = file
	rep, err := reporter.New(opts)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	percent, err := rep.Report(ctx, result)
	if err != nil {
		return 0, err
	}
	if err := file.Commit(); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}

	logging.FromContext(ctx).Info("wrote report",
		logging.FieldOutput, path,
		logging.FieldFormat, opts.Format,
		logging.FieldPercent, pretty.FormatPercent(percent),
	)
	return percent, nil
}

// shouldFailUnder reports whether percent misses the fail_under threshold.
// The comparison uses the two-decimal precision reports display, except
// that a threshold of 100 requires full coverage.
func shouldFailUnder(percent, failUnder float64) bool {
	if failUnder <= 0 {
		return false
	}
	if failUnder >= 100 {
		return percent < 100
	}
	return math.Round(percent*100)/100 < failUnder
}

// Package config defines core configuration types for covxml.
// These types are pure data structures; discovery and merging live in
// internal/configloader.
package config

// DefaultPackageDepth is the default package truncation depth.
const DefaultPackageDepth = 99

// InputFormat names a coverage data format.
type InputFormat string

const (
	InputAuto      InputFormat = "auto"
	InputLCOV      InputFormat = "lcov"
	InputGoProfile InputFormat = "goprofile"
	InputCovJSON   InputFormat = "covjson"
)

// IsValid returns true if the input format is known.
func (f InputFormat) IsValid() bool {
	switch f {
	case InputAuto, InputLCOV, InputGoProfile, InputCovJSON:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure for covxml.
type Config struct {
	// Source lists the source roots reported under <sources>.
	Source []string `yaml:"source,omitempty" toml:"source,omitempty" validate:"omitempty,dive,required"`

	// PackageDepth truncates package names to this many directory levels.
	PackageDepth int `yaml:"xml_package_depth,omitempty" toml:"xml_package_depth,omitempty" validate:"gte=0"`

	// IgnoreErrors skips source files that cannot be analyzed. Nil means
	// the layer does not set it.
	IgnoreErrors *bool `yaml:"ignore_errors,omitempty" toml:"ignore_errors,omitempty"`

	// Include limits reporting to files matching these globs.
	Include []string `yaml:"include,omitempty" toml:"include,omitempty"`

	// Omit excludes files matching these globs.
	Omit []string `yaml:"omit,omitempty" toml:"omit,omitempty"`

	// Input is the coverage data file.
	Input string `yaml:"input,omitempty" toml:"input,omitempty"`

	// InputFormat selects the coverage data parser.
	InputFormat InputFormat `yaml:"input_format,omitempty" toml:"input_format,omitempty" validate:"omitempty,oneof=auto lcov goprofile covjson"`

	// Output is the report destination; empty or "-" means stdout.
	Output string `yaml:"output,omitempty" toml:"output,omitempty"`

	// FailUnder is the minimum acceptable total coverage percentage.
	FailUnder float64 `yaml:"fail_under,omitempty" toml:"fail_under,omitempty" validate:"gte=0,lte=100"`

	// CLI-level options (not persisted to config files).

	// Format selects the report format.
	Format string `yaml:"-" toml:"-" validate:"omitempty,oneof=xml cobertura text json markdown md html"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" toml:"-" validate:"gte=0"`

	// Summary prints a one-line total after the report.
	Summary *bool `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		PackageDepth: DefaultPackageDepth,
		InputFormat:  InputAuto,
		Format:       "xml",
		Jobs:         0, // 0 means use GOMAXPROCS
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Source = cloneStrings(c.Source)
	clone.Include = cloneStrings(c.Include)
	clone.Omit = cloneStrings(c.Omit)
	clone.IgnoreErrors = cloneBool(c.IgnoreErrors)
	clone.Summary = cloneBool(c.Summary)
	return &clone
}

// IgnoresErrors reports whether unanalyzable files are skipped.
func (c *Config) IgnoresErrors() bool {
	return c.IgnoreErrors != nil && *c.IgnoreErrors
}

// WantsSummary reports whether a one-line total follows the report.
func (c *Config) WantsSummary() bool {
	return c.Summary != nil && *c.Summary
}

// Bool returns a pointer to v, for the optional boolean fields.
func Bool(v bool) *bool {
	return &v
}

// WritesToStdout reports whether the report goes to standard output.
func (c *Config) WritesToStdout() bool {
	return c.Output == "" || c.Output == "-"
}

func cloneBool(in *bool) *bool {
	if in == nil {
		return nil
	}
	return Bool(*in)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

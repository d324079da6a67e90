package config

import (
	"bytes"
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "toml".
	Format string

	// Full writes every key with its default value instead of a
	// commented-out minimal template.
	Full bool
}

// templateKey documents one configuration key for the starter file.
type templateKey struct {
	name    string
	comment string
	yaml    string
	toml    string
}

// templateKeys lists the keys in the order they appear in templates.
//
//nolint:gochecknoglobals // Read-only lookup table.
var templateKeys = []templateKey{
	{
		name:    "source",
		comment: "Source roots listed under <sources> in the report",
		yaml:    "source:\n  - src",
		toml:    `source = ["src"]`,
	},
	{
		name:    "xml_package_depth",
		comment: "Directory levels kept in package names",
		yaml:    fmt.Sprintf("xml_package_depth: %d", DefaultPackageDepth),
		toml:    fmt.Sprintf("xml_package_depth = %d", DefaultPackageDepth),
	},
	{
		name:    "ignore_errors",
		comment: "Skip source files that cannot be analyzed instead of failing",
		yaml:    "ignore_errors: false",
		toml:    "ignore_errors = false",
	},
	{
		name:    "include",
		comment: "Only report files matching these glob patterns",
		yaml:    "include:\n  - \"src/**\"",
		toml:    `include = ["src/**"]`,
	},
	{
		name:    "omit",
		comment: "Leave out files matching these glob patterns",
		yaml:    "omit:\n  - \"**/*_test.go\"\n  - \"vendor/**\"",
		toml:    `omit = ["**/*_test.go", "vendor/**"]`,
	},
	{
		name:    "input",
		comment: "Coverage data file",
		yaml:    "input: coverage.info",
		toml:    `input = "coverage.info"`,
	},
	{
		name:    "input_format",
		comment: "Coverage data format: auto, lcov, goprofile, or covjson",
		yaml:    "input_format: auto",
		toml:    `input_format = "auto"`,
	},
	{
		name:    "output",
		comment: "Report destination (\"-\" or empty writes to stdout)",
		yaml:    "output: coverage.xml",
		toml:    `output = "coverage.xml"`,
	},
	{
		name:    "fail_under",
		comment: "Fail when total coverage is below this percentage",
		yaml:    "fail_under: 0",
		toml:    "fail_under = 0.0",
	},
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = "yaml"
	}
	if format != "yaml" && format != "yml" && format != "toml" {
		return nil, fmt.Errorf("unsupported template format %q; must be yaml or toml", opts.Format)
	}
	isTOML := format == "toml"

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n")

	for _, key := range templateKeys {
		body := key.yaml
		if isTOML {
			body = key.toml
		}

		buf.WriteString("\n# ")
		buf.WriteString(key.comment)
		buf.WriteString("\n")
		for line := range strings.SplitSeq(body, "\n") {
			if !opts.Full {
				buf.WriteString("# ")
			}
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# covxml configuration
# See: https://github.com/yaklabco/covxml`
}

package configloader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yaklabco/covxml/pkg/config"
)

// envVarPrefix is the prefix for all covxml environment variables.
const envVarPrefix = "COVXML_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeFloat
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
	help  string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"SOURCE":            {field: "source", typ: envTypeSlice, help: "Comma-separated source roots"},
	"XML_PACKAGE_DEPTH": {field: "xml_package_depth", typ: envTypeInt, help: "Package truncation depth"},
	"IGNORE_ERRORS":     {field: "ignore_errors", typ: envTypeBool, help: "Skip unanalyzable files: true or false"},
	"INCLUDE":           {field: "include", typ: envTypeSlice, help: "Comma-separated include globs"},
	"OMIT":              {field: "omit", typ: envTypeSlice, help: "Comma-separated omit globs"},
	"INPUT":             {field: "input", typ: envTypeString, help: "Coverage data file"},
	"INPUT_FORMAT":      {field: "input_format", typ: envTypeString, help: "auto, lcov, goprofile, or covjson"},
	"OUTPUT":            {field: "output", typ: envTypeString, help: "Report destination (- for stdout)"},
	"FAIL_UNDER":        {field: "fail_under", typ: envTypeFloat, help: "Minimum total coverage percentage"},
	"FORMAT":            {field: "format", typ: envTypeString, help: "Report format: xml, text, json, markdown, or html"},
	"JOBS":              {field: "jobs", typ: envTypeInt, help: "Number of parallel workers (0 = auto)"},
}

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with COVXML_ (e.g., COVXML_OUTPUT).
func LoadFromEnv(cfg *config.Config) error {
	return LoadFromLookup(cfg, os.LookupEnv)
}

// LoadFromLookup applies overrides resolved through lookup.
func LoadFromLookup(cfg *config.Config, lookup LookupFunc) error {
	if cfg == nil {
		return nil
	}

	for _, envSuffix := range slices.Sorted(maps.Keys(envMappings)) {
		mapping := envMappings[envSuffix]
		envVar := envVarPrefix + envSuffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// ReadDotEnv parses a .env file without touching the process environment.
func ReadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

// LookupWithDotEnv returns a LookupFunc preferring the process environment
// and falling back to values read from a .env file.
func LookupWithDotEnv(dotEnv map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}
		value, ok := dotEnv[key]
		return value, ok
	}
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for %s: %q", envVar, value)
		}
		return setFloatField(cfg, mapping.field, f)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "input":
		cfg.Input = value
	case "input_format":
		cfg.InputFormat = config.InputFormat(value)
	case "output":
		cfg.Output = value
	case "format":
		cfg.Format = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "ignore_errors":
		cfg.IgnoreErrors = config.Bool(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "xml_package_depth":
		cfg.PackageDepth = value
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setFloatField(cfg *config.Config, field string, value float64) error {
	switch field {
	case "fail_under":
		cfg.FailUnder = value
	default:
		return fmt.Errorf("unknown number field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "source":
		cfg.Source = value
	case "include":
		cfg.Include = value
	case "omit":
		cfg.Omit = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.help
	}
	return vars
}

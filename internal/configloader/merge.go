package configloader

import "github.com/yaklabco/covxml/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Booleans: override replaces base whenever the layer sets it, so an
//     explicit false beats a lower layer's true
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.PackageDepth != 0 {
		result.PackageDepth = override.PackageDepth
	}
	if override.Input != "" {
		result.Input = override.Input
	}
	if override.InputFormat != "" {
		result.InputFormat = override.InputFormat
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.FailUnder != 0 {
		result.FailUnder = override.FailUnder
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.IgnoreErrors != nil {
		result.IgnoreErrors = config.Bool(*override.IgnoreErrors)
	}
	if override.Summary != nil {
		result.Summary = config.Bool(*override.Summary)
	}

	if override.Source != nil {
		result.Source = override.Source
	}
	if override.Include != nil {
		result.Include = override.Include
	}
	if override.Omit != nil {
		result.Omit = override.Omit
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}

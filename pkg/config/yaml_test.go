package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/covxml/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.DefaultPackageDepth, cfg.PackageDepth)
	assert.Equal(t, config.InputAuto, cfg.InputFormat)
	assert.Equal(t, "xml", cfg.Format)
	assert.True(t, cfg.WritesToStdout())
}

func TestInputFormatIsValid(t *testing.T) {
	t.Parallel()

	for _, f := range []config.InputFormat{config.InputAuto, config.InputLCOV, config.InputGoProfile, config.InputCovJSON} {
		assert.True(t, f.IsValid(), f)
	}
	assert.False(t, config.InputFormat("clover").IsValid())
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies slices", func(t *testing.T) {
		t.Parallel()

		original := &config.Config{
			Source:       []string{"src"},
			Include:      []string{"src/**"},
			Omit:         []string{"vendor/**"},
			Jobs:         4,
			Summary:      config.Bool(true),
			IgnoreErrors: config.Bool(false),
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)
		assert.Equal(t, original, clone)

		clone.Source[0] = "lib"
		clone.Include[0] = "lib/**"
		clone.Omit[0] = "build/**"
		assert.Equal(t, "src", original.Source[0])
		assert.Equal(t, "src/**", original.Include[0])
		assert.Equal(t, "vendor/**", original.Omit[0])
		assert.NotSame(t, original.Summary, clone.Summary)
		assert.NotSame(t, original.IgnoreErrors, clone.IgnoreErrors)
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("uses file keys and skips CLI fields", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{
			PackageDepth: 2,
			IgnoreErrors: config.Bool(true),
			Format:       "json",
			Jobs:         8,
		}

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "xml_package_depth: 2")
		assert.Contains(t, string(data), "ignore_errors: true")
		assert.NotContains(t, string(data), "json")
		assert.NotContains(t, string(data), "jobs")
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML([]byte(`
source:
  - src
  - lib
xml_package_depth: 1
ignore_errors: true
omit:
  - "vendor/**"
input: coverage.info
input_format: lcov
fail_under: 75.5
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"src", "lib"}, cfg.Source)
	assert.Equal(t, 1, cfg.PackageDepth)
	assert.True(t, cfg.IgnoresErrors())
	assert.Equal(t, []string{"vendor/**"}, cfg.Omit)
	assert.Equal(t, "coverage.info", cfg.Input)
	assert.Equal(t, config.InputLCOV, cfg.InputFormat)
	assert.InDelta(t, 75.5, cfg.FailUnder, 1e-9)

	cfg, err = config.FromYAML([]byte("ignore_errors: false\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.IgnoreErrors, "an explicit false must be distinguishable from unset")
	assert.False(t, cfg.IgnoresErrors())

	cfg, err = config.FromYAML([]byte("input: lcov.info\n"))
	require.NoError(t, err)
	assert.Nil(t, cfg.IgnoreErrors)

	_, err = config.FromYAML([]byte("source: [unclosed"))
	require.Error(t, err)
}

func TestFromTOML(t *testing.T) {
	t.Parallel()

	t.Run("parses keys", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromTOML([]byte(`
source = ["src"]
xml_package_depth = 2
input_format = "goprofile"
fail_under = 80.0
`))
		require.NoError(t, err)
		assert.Equal(t, []string{"src"}, cfg.Source)
		assert.Equal(t, 2, cfg.PackageDepth)
		assert.Equal(t, config.InputGoProfile, cfg.InputFormat)
		assert.InDelta(t, 80.0, cfg.FailUnder, 1e-9)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		_, err := config.FromTOML([]byte(`package_depth = 2`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "package_depth")
	})

	t.Run("round trips through ToTOML", func(t *testing.T) {
		t.Parallel()

		original := &config.Config{Source: []string{"src"}, PackageDepth: 3, Omit: []string{"*_test.go"}}
		data, err := original.ToTOML()
		require.NoError(t, err)

		parsed, err := config.FromTOML(data)
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})
}

func TestParseDispatchesOnExtension(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(".covxml.toml", []byte(`xml_package_depth = 4`))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.PackageDepth)

	cfg, err = config.Parse(".covxml.yml", []byte(`xml_package_depth: 5`))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.PackageDepth)
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	t.Run("minimal yaml is all comments and parses empty", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Format: "yaml"})
		require.NoError(t, err)
		assert.Contains(t, string(data), "# xml_package_depth: 99")

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, &config.Config{}, cfg)
	})

	t.Run("full yaml parses", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Format: "yaml", Full: true})
		require.NoError(t, err)

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultPackageDepth, cfg.PackageDepth)
		assert.Equal(t, "coverage.xml", cfg.Output)
	})

	t.Run("full toml parses", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Format: "toml", Full: true})
		require.NoError(t, err)

		cfg, err := config.FromTOML(data)
		require.NoError(t, err)
		assert.Equal(t, []string{"**/*_test.go", "vendor/**"}, cfg.Omit)
		assert.Equal(t, config.InputAuto, cfg.InputFormat)
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()

		_, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.Error(t, err)
	})
}

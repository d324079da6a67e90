package langdetect_test

import (
	"testing"

	"github.com/yaklabco/covxml/pkg/langdetect"
)

func TestIsSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{name: "go file", path: "/repo/pkg/a.go", expected: true},
		{name: "python file", path: "/repo/app/models.py", expected: true},
		{name: "c file", path: "/repo/src/main.c", expected: true},
		{name: "rust file", path: "src/lib.rs", expected: true},
		{name: "markdown", path: "/repo/README.md", expected: false},
		{name: "json data", path: "/repo/data.json", expected: false},
		{name: "no extension", path: "/repo/LICENSE", expected: false},
		{name: "vendored go", path: "/repo/vendor/github.com/x/y.go", expected: true},
		{name: "node modules", path: "web/node_modules/lib/index.js", expected: true},
		{name: "under cache dir", path: "/opt/cache/proj/app.py", expected: true},
		{name: "under dist dir", path: "/home/u/dist/proj/app.py", expected: true},
		{name: "under vendor dir", path: "/work/vendor/proj/src/app.py", expected: true},
		{name: "empty", path: "", expected: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := langdetect.IsSource(testCase.path); got != testCase.expected {
				t.Errorf("IsSource(%q) = %v, want %v", testCase.path, got, testCase.expected)
			}
		})
	}
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected string
	}{
		{path: "main.go", expected: "go"},
		{path: "/a/b/app.py", expected: "python"},
		{path: "noext", expected: "unknown"},
	}

	for _, testCase := range tests {
		t.Run(testCase.path, func(t *testing.T) {
			t.Parallel()

			if got := langdetect.Language(testCase.path); got != testCase.expected {
				t.Errorf("Language(%q) = %q, want %q", testCase.path, got, testCase.expected)
			}
		})
	}
}

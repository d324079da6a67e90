package runner_test

import (
	"testing"

	"github.com/yaklabco/covxml/pkg/runner"
)

func TestMatchGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{path: "src/a.py", pattern: "*.py", want: true},
		{path: "src/a.py", pattern: "src/*.py", want: true},
		{path: "src/pkg/a.py", pattern: "src/*.py", want: false},
		{path: "src/pkg/a.py", pattern: "src/**", want: true},
		{path: "src", pattern: "src/**", want: true},
		{path: "lib/a.py", pattern: "src/**", want: false},
		{path: "a/tests/b/c.py", pattern: "**/tests/**", want: true},
		{path: "tests/c.py", pattern: "**/tests/**", want: true},
		{path: "a/b/test_x.py", pattern: "**/test_*.py", want: true},
		{path: "a/b/x_test.py", pattern: "**/test_*.py", want: false},
		{path: "a/b/c.py", pattern: "a/**/c.py", want: true},
		{path: "a/c.py", pattern: "a/**/c.py", want: true},
		{path: "a/b/c.py", pattern: "[", want: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.pattern+"|"+testCase.path, func(t *testing.T) {
			t.Parallel()

			if got := runner.MatchGlob(testCase.path, testCase.pattern); got != testCase.want {
				t.Errorf("MatchGlob(%q, %q) = %v, want %v", testCase.path, testCase.pattern, got, testCase.want)
			}
		})
	}
}

package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/covxml/pkg/coverage"
)

// Select asks provider for the files named by opts.Morfs, applies the
// include and omit globs and returns the reporters sorted by filename.
func Select(
	ctx context.Context,
	provider coverage.Provider,
	opts Options,
	workDir string,
) ([]coverage.FileReporter, error) {
	reporters, err := provider.FileReporters(ctx, opts.Morfs)
	if err != nil {
		return nil, fmt.Errorf("list measured files: %w", err)
	}

	selected := make([]coverage.FileReporter, 0, len(reporters))
	seen := make(map[string]struct{}, len(reporters))

	for _, fr := range reporters {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("selection cancelled: %w", ctx.Err())
		default:
		}

		if _, ok := seen[fr.Filename()]; ok {
			continue
		}
		seen[fr.Filename()] = struct{}{}

		if matchesFile(fr.Filename(), workDir, opts) {
			selected = append(selected, fr)
		}
	}

	// Sort for deterministic ordering.
	coverage.SortFileReporters(selected)

	return selected, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// matchesFile checks a measured file against the include and omit globs.
func matchesFile(path, workDir string, opts Options) bool {
	// Get relative path for pattern matching.
	relPath, err := filepath.Rel(workDir, path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		relPath = path
	}

	if matchesAny(relPath, opts.OmitGlobs) {
		return false
	}

	if len(opts.IncludeGlobs) > 0 && !matchesAny(relPath, opts.IncludeGlobs) {
		return false
	}

	return true
}

// matchesAny checks if the path matches any of the patterns.
func matchesAny(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if MatchGlob(relPath, pattern) {
			return true
		}
	}
	return false
}

// MatchGlob matches a path against a glob pattern.
// It supports patterns like "*.py", "src/**", "**/tests/**" and
// "**/test_*.py". A pattern without a slash also matches the base name.
func MatchGlob(path, pattern string) bool {
	// Normalize path separators for matching.
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if strings.Contains(pattern, "**") {
		return matchDoubleStar(strings.Split(path, "/"), strings.Split(pattern, "/"))
	}

	matched, matchErr := filepath.Match(pattern, path)
	if matchErr != nil {
		return false
	}
	if matched {
		return true
	}

	if strings.Contains(pattern, "/") {
		return false
	}

	// Also try matching against just the filename.
	matched, matchErr = filepath.Match(pattern, filepath.Base(path))
	return matchErr == nil && matched
}

// matchDoubleStar matches path segments against pattern segments where a
// "**" segment consumes zero or more path segments.
func matchDoubleStar(segments, pattern []string) bool {
	for len(pattern) > 0 {
		head := pattern[0]
		if head == "**" {
			rest := pattern[1:]
			if len(rest) == 0 {
				return true
			}
			for skip := 0; skip <= len(segments); skip++ {
				if matchDoubleStar(segments[skip:], rest) {
					return true
				}
			}
			return false
		}

		if len(segments) == 0 {
			return false
		}
		matched, err := filepath.Match(head, segments[0])
		if err != nil || !matched {
			return false
		}
		segments = segments[1:]
		pattern = pattern[1:]
	}
	return len(segments) == 0
}

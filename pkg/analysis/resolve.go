package analysis

import (
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// rootDir is the package directory of files at the top of the working tree.
const rootDir = "."

// PathResolver maps measured file paths to report-relative paths and
// package names. It is a pure string transform and never fails.
type PathResolver struct {
	// prefix is the normalized working directory with a trailing slash.
	prefix string
	depth  int
}

// NewPathResolver returns a resolver for paths under workDir.
// Package directories are cut to at most depth segments; depth <= 0
// keeps every segment.
func NewPathResolver(workDir string, depth int) *PathResolver {
	abs, err := filepath.Abs(workDir)
	if err != nil {
		abs = workDir
	}
	prefix := normcase(filepath.ToSlash(abs))
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &PathResolver{prefix: prefix, depth: depth}
}

// Relative returns filename relative to the working directory using forward
// slashes. A file outside the working directory is returned unstripped.
func (r *PathResolver) Relative(filename string) string {
	slashed := strings.ReplaceAll(filename, `\`, "/")
	if normcase(slashed)+"/" == r.prefix {
		return ""
	}
	if len(slashed) >= len(r.prefix) && normcase(slashed[:len(r.prefix)]) == r.prefix {
		return slashed[len(r.prefix):]
	}
	return slashed
}

// Package returns the package name for a relative path along with the
// truncated directory it was derived from.
func (r *PathResolver) Package(rel string) (name, dir string) {
	dir = path.Dir(rel)
	if dir == "" {
		dir = rootDir
	}

	if r.depth > 0 {
		segments := strings.Split(dir, "/")
		if len(segments) > r.depth {
			dir = strings.Join(segments[:r.depth], "/")
		}
	}

	return strings.ReplaceAll(dir, "/", "."), dir
}

// ClassName returns the fully qualified class name for a relative path:
// the package name, a dot, then the path below the package directory.
func (r *PathResolver) ClassName(rel string) string {
	name, dir := r.Package(rel)
	return name + "." + relativeTo(rel, dir)
}

// relativeTo strips dir from the front of rel. dir is always an ancestor
// produced by Package.
func relativeTo(rel, dir string) string {
	if dir == rootDir {
		return rel
	}
	if trimmed, ok := strings.CutPrefix(rel, dir+"/"); ok {
		return trimmed
	}
	return rel
}

// normcase lower-cases paths on case-insensitive platforms.
func normcase(p string) string {
	if runtime.GOOS == "windows" {
		return strings.ToLower(p)
	}
	return p
}

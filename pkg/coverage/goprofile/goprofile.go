// Package goprofile reads Go cover profiles (go test -coverprofile) into a
// coverage.Dataset.
//
// Profiles name files by import path. Paths inside the main module, read
// from go.mod in the working directory, are mapped back to disk. A line is a
// statement when a block with statements spans it, and it is executed when
// any spanning block ran. Go profiles carry no branch data.
package goprofile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/cover"

	"github.com/yaklabco/covxml/pkg/coverage"
	"github.com/yaklabco/covxml/pkg/fsutil"
)

// ErrInvalidBlock is recorded for a block whose line range is inverted.
var ErrInvalidBlock = errors.New("invalid profile block")

// ModulePath returns the module path declared by go.mod in dir, or "" if
// there is no readable go.mod.
func ModulePath(ctx context.Context, dir string) string {
	data, err := fsutil.ReadFile(ctx, filepath.Join(dir, "go.mod"))
	if err != nil {
		return ""
	}
	return modfile.ModulePath(data)
}

// Load reads the profile at file.
func Load(ctx context.Context, file, workDir string) (*coverage.Dataset, error) {
	content, err := fsutil.ReadFile(ctx, file)
	if err != nil {
		return nil, err
	}
	dataset, err := Parse(ctx, bytes.NewReader(content), workDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return dataset, nil
}

// Parse reads a cover profile from r.
func Parse(ctx context.Context, r io.Reader, workDir string) (*coverage.Dataset, error) {
	profiles, err := cover.ParseProfilesFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse cover profile: %w", err)
	}

	resolver := newResolver(workDir, ModulePath(ctx, workDir))
	dataset := coverage.NewDataset(workDir)

	for _, profile := range profiles {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("parse cover profile: %w", err)
		}

		filename := resolver.resolve(profile.FileName)
		if err := addProfile(dataset, filename, profile); err != nil {
			dataset.Fail(filename, err)
		}
	}

	return dataset, nil
}

// addProfile folds the blocks of one profile into the dataset.
func addProfile(dataset *coverage.Dataset, filename string, profile *cover.Profile) error {
	executed := make(map[int]bool)

	for _, block := range profile.Blocks {
		if block.EndLine < block.StartLine || block.StartLine < 1 {
			return fmt.Errorf("%w: %d.%d,%d.%d", ErrInvalidBlock,
				block.StartLine, block.StartCol, block.EndLine, block.EndCol)
		}
		if block.NumStmt == 0 {
			continue
		}
		for line := block.StartLine; line <= block.EndLine; line++ {
			executed[line] = executed[line] || block.Count > 0
		}
	}

	analysis := dataset.Get(filename)
	if analysis == nil {
		return nil
	}
	for line, hit := range executed {
		seen := analysis.Statements.Has(line)
		analysis.Statements.Add(line)
		switch {
		case hit:
			delete(analysis.Missing, line)
		case !seen:
			analysis.Missing.Add(line)
		}
	}
	return nil
}

// resolver maps profile file names to paths on disk.
type resolver struct {
	workDir    string
	modulePath string
}

func newResolver(workDir, modulePath string) resolver {
	return resolver{workDir: workDir, modulePath: modulePath}
}

func (r resolver) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}

	if r.modulePath != "" {
		if name == r.modulePath {
			return r.workDir
		}
		if rel, ok := strings.CutPrefix(name, r.modulePath+"/"); ok {
			return filepath.Join(r.workDir, filepath.FromSlash(rel))
		}
	}

	// Outside the main module: keep the import path, so the file is
	// reported relative to the working directory under that path.
	return name
}

package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the default permission mode for newly created files.
const DefaultFileMode os.FileMode = 0644

// ErrClosed is returned when an AtomicFile is used after Commit or Abort.
var ErrClosed = errors.New("atomic file already closed")

// AtomicFile is a report destination that only appears at its final path
// once Commit succeeds. Until then writes go to a temp file in the same
// directory; Abort removes it and leaves any existing file untouched.
type AtomicFile struct {
	path    string
	mode    os.FileMode
	tmp     *os.File
	tmpPath string
	closed  bool
}

// CreateAtomic opens an AtomicFile for path. If mode is 0,
// DefaultFileMode (0644) is used.
func CreateAtomic(ctx context.Context, path string, mode os.FileMode) (*AtomicFile, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("create atomic: %w", ctx.Err())
	default:
	}

	if mode == 0 {
		mode = DefaultFileMode
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	// Create temp file in same directory for atomic rename.
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	return &AtomicFile{
		path:    path,
		mode:    mode,
		tmp:     tmp,
		tmpPath: tmp.Name(),
	}, nil
}

// Name returns the final path.
func (f *AtomicFile) Name() string {
	return f.path
}

// Write implements io.Writer.
func (f *AtomicFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	n, err := f.tmp.Write(p)
	if err != nil {
		return n, fmt.Errorf("write temp file: %w", err)
	}
	return n, nil
}

// Commit syncs the temp file, applies the mode and renames it over the
// target path. On failure the temp file is removed.
func (f *AtomicFile) Commit() error {
	if f.closed {
		return ErrClosed
	}
	f.closed = true

	if err := f.finish(); err != nil {
		_ = f.tmp.Close()
		_ = os.Remove(f.tmpPath)
		return err
	}
	return nil
}

func (f *AtomicFile) finish() error {
	// Sync to ensure durability.
	if err := f.tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := f.tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Set mode before rename.
	if err := os.Chmod(f.tmpPath, f.mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	// Atomic rename.
	if err := os.Rename(f.tmpPath, f.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Abort discards everything written. It is a no-op after Commit.
func (f *AtomicFile) Abort() error {
	if f.closed {
		return nil
	}
	f.closed = true

	_ = f.tmp.Close()
	if err := os.Remove(f.tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove temp file: %w", err)
	}
	return nil
}

// WriteAtomic writes content to path atomically using a temp file and rename.
// On error the original file remains untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	file, err := CreateAtomic(ctx, path, mode)
	if err != nil {
		return err
	}

	if _, err := file.Write(content); err != nil {
		_ = file.Abort()
		return err
	}

	return file.Commit()
}

package cli

import (
	"errors"

	"github.com/yaklabco/covxml/internal/configloader"
	"github.com/yaklabco/covxml/pkg/fsutil"
)

// Exit codes for covxml.
const (
	// ExitSuccess indicates the report was written and passed any threshold.
	ExitSuccess = 0

	// ExitFailure indicates the report could not be produced.
	ExitFailure = 1

	// ExitCoverageFailure indicates total coverage fell below fail_under.
	ExitCoverageFailure = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrCoverageBelowThreshold is returned when total coverage is below fail_under.
	ErrCoverageBelowThreshold = errors.New("coverage below threshold")

	// ErrUsage marks invalid command-line usage.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration problems.
	ErrConfig = errors.New("invalid configuration")
)

// ExitCode maps an error returned by a command onto a process exit code.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrCoverageBelowThreshold):
		return ExitCoverageFailure
	case errors.Is(err, ErrUsage), errors.Is(err, ErrNoInput):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitFailure
	}
}

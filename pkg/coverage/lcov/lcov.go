// Package lcov reads LCOV tracefiles into a coverage.Dataset.
//
// Statements come from DA records, with a zero count marking the line as
// missing. Every BRDA record adds one arc to its line; the arc is taken when
// its count is a positive number. A malformed record fails only the file it
// belongs to.
package lcov

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/yaklabco/covxml/pkg/coverage"
	"github.com/yaklabco/covxml/pkg/fsutil"
)

// maxLineSize bounds a single tracefile line.
const maxLineSize = 1 << 20

var (
	// ErrRecordOutsideFile is returned for a data record before any SF record.
	ErrRecordOutsideFile = errors.New("record outside of a source file section")

	// ErrMalformedRecord is returned for a record that cannot be parsed.
	ErrMalformedRecord = errors.New("malformed record")
)

// Load reads the tracefile at path.
func Load(ctx context.Context, path, workDir string) (*coverage.Dataset, error) {
	content, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	dataset, err := Parse(ctx, bytes.NewReader(content), workDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dataset, nil
}

// section accumulates one SF ... end_of_record block.
type section struct {
	filename string
	hits     map[int]int64
	branches map[int]coverage.BranchStat
	err      error
}

func newSection(filename string) *section {
	return &section{
		filename: filename,
		hits:     make(map[int]int64),
		branches: make(map[int]coverage.BranchStat),
	}
}

// Parse reads LCOV records from r. Relative SF paths are resolved against workDir.
func Parse(ctx context.Context, r io.Reader, workDir string) (*coverage.Dataset, error) {
	dataset := coverage.NewDataset(workDir)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var current *section
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		if lineNo%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("parse lcov: %w", err)
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tag, value, _ := strings.Cut(line, ":")
		switch tag {
		case "SF":
			if current != nil {
				flush(dataset, current)
			}
			current = newSection(value)

		case "end_of_record":
			if current != nil {
				flush(dataset, current)
				current = nil
			}

		case "DA", "BRDA":
			if current == nil {
				return nil, fmt.Errorf("line %d: %s: %w", lineNo, tag, ErrRecordOutsideFile)
			}
			if current.err != nil {
				continue
			}
			var err error
			if tag == "DA" {
				err = current.addLine(value)
			} else {
				err = current.addBranch(value)
				dataset.SetHasArcs(true)
			}
			if err != nil {
				current.err = fmt.Errorf("line %d: %s:%s: %w", lineNo, tag, value, err)
			}

		default:
			// TN, FN, FNDA, FNF, FNH, LF, LH, BRF, BRH and VER carry nothing
			// the report needs.
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lcov: %w", err)
	}

	if current != nil {
		flush(dataset, current)
	}

	return dataset, nil
}

// addLine parses "line,count[,checksum]".
func (s *section) addLine(value string) error {
	fields := strings.Split(value, ",")
	if len(fields) < 2 {
		return ErrMalformedRecord
	}

	line, err := parseLineNumber(fields[0])
	if err != nil {
		return err
	}

	count, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: count %q", ErrMalformedRecord, fields[1])
	}

	s.hits[line] += max(count, 0)
	return nil
}

// addBranch parses "line,block,branch,taken" where taken may be "-".
func (s *section) addBranch(value string) error {
	fields := strings.Split(value, ",")
	if len(fields) != 4 {
		return ErrMalformedRecord
	}

	line, err := parseLineNumber(fields[0])
	if err != nil {
		return err
	}

	stat := s.branches[line]
	stat.Total++

	taken := strings.TrimSpace(fields[3])
	if taken != "-" {
		count, err := strconv.ParseInt(taken, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: taken %q", ErrMalformedRecord, taken)
		}
		if count > 0 {
			stat.Taken++
		}
	}

	s.branches[line] = stat
	return nil
}

func parseLineNumber(field string) (int, error) {
	raw, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
	if err != nil || raw < 1 {
		return 0, fmt.Errorf("%w: line number %q", ErrMalformedRecord, field)
	}
	line, err := safecast.Conv[int](raw)
	if err != nil {
		return 0, fmt.Errorf("%w: line number %q: %w", ErrMalformedRecord, field, err)
	}
	return line, nil
}

// flush moves a finished section into the dataset. A filename may appear
// in several sections; their counts merge.
func flush(dataset *coverage.Dataset, s *section) {
	if s.err != nil {
		dataset.Fail(s.filename, s.err)
		return
	}

	analysis := dataset.Get(s.filename)
	if analysis == nil {
		return
	}

	for line, count := range s.hits {
		wasMissing := analysis.Missing.Has(line)
		seen := analysis.Statements.Has(line)
		analysis.Statements.Add(line)
		switch {
		case count > 0:
			delete(analysis.Missing, line)
		case !seen || wasMissing:
			analysis.Missing.Add(line)
		}
	}

	for line, stat := range s.branches {
		merged := analysis.BranchStats[line]
		merged.Total += stat.Total
		merged.Taken += stat.Taken
		analysis.BranchStats[line] = merged
	}
}

package ingest

import (
	"fmt"
	"strings"
)

// DateParseError reports a date value that matched no recognized pattern.
// It carries the offending raw value and the column it came from so the
// operator can fix the export instead of guessing.
type DateParseError struct {
	Value  string
	Column string
	File   string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unparseable date %q in column %q of %s", e.Value, e.Column, e.File)
}

// MissingDateColumnError reports a file with no date-bearing column at all.
type MissingDateColumnError struct {
	File string
}

func (e *MissingDateColumnError) Error() string {
	return fmt.Sprintf("no date column found in %s", e.File)
}

// AmbiguousSessionBatchError reports more than one distinct session date
// inside one upload batch. File names the offending file when a single
// file is ambiguous; it is empty when the files disagree with each
// other. The whole batch is rejected before any output is written.
type AmbiguousSessionBatchError struct {
	Dates []string
	File  string
}

func (e *AmbiguousSessionBatchError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("file %s resolves to multiple session dates: %s", e.File, strings.Join(e.Dates, ", "))
	}
	return fmt.Sprintf("batch resolves to multiple session dates: %s", strings.Join(e.Dates, ", "))
}

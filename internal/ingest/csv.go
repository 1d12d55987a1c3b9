package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// RawFile is one launch-monitor CSV export, untyped: a header row and
// string cells. Column meaning is resolved later by the canonicalizer.
type RawFile struct {
	Name   string
	Header []string
	Rows   [][]string
}

// ReadFile reads one CSV export from disk.
func ReadFile(path string) (RawFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return RawFile{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Read(f, filepath.Base(path))
}

// Read reads one CSV export. The first record is the header row;
// short rows are padded so every row indexes like the header.
func Read(r io.Reader, name string) (RawFile, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // vendor exports have ragged rows
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return RawFile{}, fmt.Errorf("read %s: %w", name, err)
	}
	if len(records) == 0 {
		return RawFile{}, fmt.Errorf("read %s: empty file, header row required", name)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(stripBOM(h))
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		}
		rows = append(rows, rec[:len(header)])
	}
	return RawFile{Name: name, Header: header, Rows: rows}, nil
}

// Column returns the index of the first header equal to name after
// trimming, or -1.
func (f RawFile) Column(name string) int {
	for i, h := range f.Header {
		if h == name {
			return i
		}
	}
	return -1
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}

// Package rowcsv applies a column definition to a stream of worksheet rows
// and writes the accepted rows as delimited text, one record per row, with
// excel-dialect quoting and no header. The output is meant to be piped into
// a database bulk load.
//
// The engine is single-threaded: rows are pulled from the source one at a
// time and nothing beyond the current row is buffered. Cell specifications
// carry the per-run counter state, so a fresh definition must be parsed for
// every concurrent run.
package rowcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"gsheetdl/internal/colspec"
)

// RowSource yields one row of text fields per call and io.EOF when the
// source is exhausted.
type RowSource interface {
	Next() ([]string, error)
}

// SliceSource adapts a materialized [][]string to RowSource.
type SliceSource struct {
	rows [][]string
	pos  int
}

func NewSliceSource(rows [][]string) *SliceSource {
	return &SliceSource{rows: rows}
}

func (s *SliceSource) Next() ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

// DropLeading discards n leading rows (title/header rows) from src. It is an
// error for the source to run out before n rows were discarded.
func DropLeading(src RowSource, n int) error {
	for i := 0; i < n; i++ {
		if _, err := src.Next(); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("expected %d leading rows to skip, found only %d", n, i)
			}
			return err
		}
	}
	return nil
}

// RowError wraps a cell failure with the raw row it occurred in. The first
// bad row aborts the whole run; there is no skip-and-continue mode.
type RowError struct {
	Row []string
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row contains bad data: %q: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// WriteRows formats every row from src according to cells and writes the
// accepted rows to w, fields joined by delim. It returns the number of
// records written.
//
// Per row: synthetic cells (add-on, counter) evaluate with no input field;
// every other cell consumes the next input field in order. Extra trailing
// input fields are ignored; a missing field for a real column fails the row.
// Rows whose fields are all empty are silently dropped and not counted.
func WriteRows(w io.Writer, src RowSource, cells []colspec.Cell, delim rune) (int, error) {
	real := 0
	for _, c := range cells {
		if !colspec.Synthetic(c) {
			real++
		}
	}

	cw := csv.NewWriter(w)
	cw.Comma = delim
	cw.UseCRLF = true

	written := 0
	record := make([]string, 0, len(cells))
	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, fmt.Errorf("row source: %w", err)
		}
		if allEmpty(row) {
			continue
		}

		record = record[:0]
		field := 0
		for i, cell := range cells {
			var raw *string
			if !colspec.Synthetic(cell) {
				if field >= len(row) {
					return written, &RowError{Row: row, Err: fmt.Errorf(
						"column %d: row has %d fields, definition needs %d", i+1, len(row), real)}
				}
				raw = &row[field]
				field++
			}
			val, include, err := colspec.Eval(cell, raw)
			if err != nil {
				return written, &RowError{Row: row, Err: fmt.Errorf("column %d: %w", i+1, err)}
			}
			if include {
				record = append(record, val)
			}
		}

		if err := cw.Write(record); err != nil {
			return written, fmt.Errorf("write record: %w", err)
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return written, fmt.Errorf("write record: %w", err)
		}
		written++
	}
	return written, nil
}

// WriteRowsDefinition parses definition once and runs WriteRows with it.
func WriteRowsDefinition(w io.Writer, src RowSource, definition string, delim rune) (int, error) {
	cells, err := colspec.Parse(definition)
	if err != nil {
		return 0, err
	}
	return WriteRows(w, src, cells, delim)
}

// allEmpty reports whether every field of row is the empty string. A row of
// whitespace-only fields is not empty; it flows through the cells (and may
// trip required checks).
func allEmpty(row []string) bool {
	for _, f := range row {
		if f != "" {
			return false
		}
	}
	return true
}

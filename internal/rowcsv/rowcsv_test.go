package rowcsv

import (
	"errors"
	"strings"
	"testing"

	"gsheetdl/internal/colspec"
)

func TestWriteRowsHappyCase(t *testing.T) {
	rows := [][]string{{"1", "2", "3"}, {"1.0", "2,0", "3.0"}}
	var sb strings.Builder

	n, err := WriteRowsDefinition(&sb, NewSliceSource(rows), "fff", '\t')
	if err != nil {
		t.Fatalf("WriteRowsDefinition: %v", err)
	}
	if n != 2 {
		t.Fatalf("rows written = %d, want 2", n)
	}
	want := "1.0\t2.0\t3.0\r\n1.0\t20.0\t3.0\r\n"
	if sb.String() != want {
		t.Fatalf("output = %q, want %q", sb.String(), want)
	}
}

func TestWriteRowsSkipsAllEmptyRows(t *testing.T) {
	rows := [][]string{
		{"", "", ""},
		{"a", "b"},
		{""},
		{},
	}
	var sb strings.Builder
	n, err := WriteRowsDefinition(&sb, NewSliceSource(rows), "ss", ',')
	if err != nil {
		t.Fatalf("WriteRowsDefinition: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows written = %d, want 1", n)
	}
	if got := sb.String(); got != "a,b\r\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestWriteRowsOmitAndSynthetic(t *testing.T) {
	// 'x' consumes the middle input field but emits nothing; '&' and 'c'
	// emit without consuming input.
	rows := [][]string{{"a", "drop", "b"}, {"c", "drop", "d"}}
	var sb strings.Builder
	n, err := WriteRowsDefinition(&sb, NewSliceSource(rows), "sxs&(value=Z)c", '\t')
	if err != nil {
		t.Fatalf("WriteRowsDefinition: %v", err)
	}
	if n != 2 {
		t.Fatalf("rows written = %d, want 2", n)
	}
	want := "a\tb\tZ\t1\r\nc\td\tZ\t2\r\n"
	if sb.String() != want {
		t.Fatalf("output = %q, want %q", sb.String(), want)
	}
}

func TestWriteRowsIgnoresExtraFields(t *testing.T) {
	rows := [][]string{{"a", "b", "ignored", "also ignored"}}
	var sb strings.Builder
	if _, err := WriteRowsDefinition(&sb, NewSliceSource(rows), "ss", '\t'); err != nil {
		t.Fatalf("WriteRowsDefinition: %v", err)
	}
	if got := sb.String(); got != "a\tb\r\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestWriteRowsShortRowFails(t *testing.T) {
	rows := [][]string{{"only one"}}
	var sb strings.Builder
	_, err := WriteRowsDefinition(&sb, NewSliceSource(rows), "ss", '\t')
	var re *RowError
	if !errors.As(err, &re) {
		t.Fatalf("error = %v, want *RowError", err)
	}
	if len(re.Row) != 1 || re.Row[0] != "only one" {
		t.Fatalf("RowError.Row = %q", re.Row)
	}
}

func TestWriteRowsBadCellAbortsRun(t *testing.T) {
	rows := [][]string{
		{"1.5"},
		{"not a number"},
		{"2.5"},
	}
	var sb strings.Builder
	n, err := WriteRowsDefinition(&sb, NewSliceSource(rows), "f", '\t')
	var re *RowError
	if !errors.As(err, &re) {
		t.Fatalf("error = %v, want *RowError", err)
	}
	if n != 1 {
		t.Fatalf("rows written before failure = %d, want 1", n)
	}
	// No partial record for the bad row.
	if got := sb.String(); got != "1.5\r\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestWriteRowsRequiredEmptyFails(t *testing.T) {
	rows := [][]string{{"  ", "x"}}
	var sb strings.Builder
	_, err := WriteRowsDefinition(&sb, NewSliceSource(rows), "s!s", '\t')
	if err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("error = %v, want required-empty row failure", err)
	}
}

func TestWriteRowsQuoting(t *testing.T) {
	rows := [][]string{{`say "hi"`, "a\tb", "line\nbreak"}}
	var sb strings.Builder
	if _, err := WriteRowsDefinition(&sb, NewSliceSource(rows), "sss", '\t'); err != nil {
		t.Fatalf("WriteRowsDefinition: %v", err)
	}
	want := "\"say \"\"hi\"\"\"\t\"a\tb\"\t\"line\r\nbreak\"\r\n"
	if sb.String() != want {
		t.Fatalf("output = %q, want %q", sb.String(), want)
	}
}

func TestWriteRowsPreParsedDefinition(t *testing.T) {
	// A pre-parsed definition is used as-is; its counter keeps state across
	// the whole run.
	cells := colspec.MustParse("c")
	var sb strings.Builder
	n, err := WriteRows(&sb, NewSliceSource([][]string{{"x"}, {"y"}}), cells, '\t')
	if err != nil {
		t.Fatalf("WriteRows: %v", err)
	}
	if n != 2 {
		t.Fatalf("rows written = %d, want 2", n)
	}
	if got := sb.String(); got != "1\r\n2\r\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestWriteRowsBadDefinition(t *testing.T) {
	var sb strings.Builder
	_, err := WriteRowsDefinition(&sb, NewSliceSource(nil), "f(", '\t')
	var pe *colspec.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *colspec.ParseError", err)
	}
}

func TestDropLeading(t *testing.T) {
	src := NewSliceSource([][]string{{"title"}, {"header"}, {"data"}})
	if err := DropLeading(src, 2); err != nil {
		t.Fatalf("DropLeading: %v", err)
	}
	row, err := src.Next()
	if err != nil || row[0] != "data" {
		t.Fatalf("row after skip = %q, %v", row, err)
	}

	empty := NewSliceSource([][]string{{"only"}})
	err = DropLeading(empty, 3)
	if err == nil || !strings.Contains(err.Error(), "expected 3 leading rows to skip, found only 1") {
		t.Fatalf("structural error = %v", err)
	}
}

package mssql

import (
	"context"
	"testing"
)

func TestMsIdentQuoting(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"plain", "[plain]"},
		{"with space", "[with space]"},
		{"wei]rd", "[wei]]rd]"},
	}
	for _, c := range cases {
		if got := msIdent(c.in); got != c.want {
			t.Fatalf("msIdent(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestMsFQN(t *testing.T) {
	t.Parallel()

	if got := msFQN("dbo.sheet_rows"); got != "[dbo].[sheet_rows]" {
		t.Fatalf("msFQN = %s", got)
	}
	if got := msFQN("sheet_rows"); got != "[sheet_rows]" {
		t.Fatalf("msFQN = %s", got)
	}
}

func TestCreateTableSQL(t *testing.T) {
	t.Parallel()

	got := createTableSQL("dbo.t", []string{"c1", "c2"})
	want := "IF OBJECT_ID(N'dbo.t', N'U') IS NULL CREATE TABLE [dbo].[t] ([c1] NVARCHAR(MAX), [c2] NVARCHAR(MAX))"
	if got != want {
		t.Fatalf("createTableSQL = %s, want %s", got, want)
	}
}

// TestCopyFromEmptyRows verifies CopyFrom short-circuits without touching the
// database when there is nothing to insert.
func TestCopyFromEmptyRows(t *testing.T) {
	t.Parallel()

	r := &Repository{db: nil, cfg: Config{Table: "dbo.t", Columns: []string{"c1"}}}
	n, err := r.CopyFrom(context.Background(), r.cfg.Columns, nil)
	if err != nil {
		t.Fatalf("CopyFrom(nil) error = %v, want nil", err)
	}
	if n != 0 {
		t.Fatalf("CopyFrom(nil) = %d, want 0", n)
	}
}

// TestNewRepositoryBadDSN checks the DSN is validated before any connection
// is attempted.
func TestNewRepositoryBadDSN(t *testing.T) {
	t.Parallel()

	if _, _, err := NewRepository(context.Background(), Config{DSN: "://not-a-dsn"}); err == nil {
		t.Fatal("expected error for malformed DSN")
	}
}

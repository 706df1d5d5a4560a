package postgres

import (
	"testing"
)

func TestPgIdentQuoting(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{"with space", `"with space"`},
		{`wei"rd`, `"wei""rd"`},
	}
	for _, c := range cases {
		if got := pgIdent(c.in); got != c.want {
			t.Fatalf("pgIdent(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestPgFQN(t *testing.T) {
	t.Parallel()

	if got := pgFQN("public.sheet_rows"); got != `"public"."sheet_rows"` {
		t.Fatalf("pgFQN = %s", got)
	}
	if got := pgFQN("sheet_rows"); got != `"sheet_rows"` {
		t.Fatalf("pgFQN = %s", got)
	}
}

func TestSplitFQN(t *testing.T) {
	t.Parallel()

	id := splitFQN("public.sheet_rows")
	if len(id) != 2 || id[0] != "public" || id[1] != "sheet_rows" {
		t.Fatalf("splitFQN = %v", id)
	}
	id = splitFQN("sheet_rows")
	if len(id) != 1 || id[0] != "sheet_rows" {
		t.Fatalf("splitFQN = %v", id)
	}
}

func TestCreateTableSQL(t *testing.T) {
	t.Parallel()

	got := createTableSQL("public.t", []string{"c1", "c2"})
	want := `CREATE TABLE IF NOT EXISTS "public"."t" ("c1" TEXT, "c2" TEXT)`
	if got != want {
		t.Fatalf("createTableSQL = %s, want %s", got, want)
	}
}

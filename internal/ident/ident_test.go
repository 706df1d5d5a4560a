package ident

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Sheet1", "sheet1"},
		{"Revenue 2026", "revenue_2026"},
		{"Umsätze 2026", "umsatze_2026"},
		{"café-menu", "cafe_menu"},
		{"a.b.c", "a_b_c"},
		{"  spaced   out  ", "spaced_out"},
		{"__already__done__", "already_done"},
		{"ALL CAPS", "all_caps"},
		{"2026 totals", "_2026_totals"},
		{"", "sheet"},
		{"!!!", "sheet"},
		{"日本語", "sheet"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeTruncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 60) + "_distinctive_tail"
	got := Normalize(long)
	if len(got) != 63 {
		t.Fatalf("len = %d, want 63", len(got))
	}
	if !strings.HasSuffix(got, "distinctive_tail") {
		t.Fatalf("truncated name %q lost its tail", got)
	}
	if !strings.HasPrefix(got, "xxxxxxxxxx") {
		t.Fatalf("truncated name %q lost its head", got)
	}
}

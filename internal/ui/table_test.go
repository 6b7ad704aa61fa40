package ui

import (
	"strings"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	out := FormatTable(
		[]string{"ID", "TITLE"},
		[][]string{
			{"ab", "write report"},
			{"cdefgh", "rest"},
		},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}
	wantHeader := "ID      TITLE"
	if lines[0] != wantHeader {
		t.Fatalf("expected header %q, got %q", wantHeader, lines[0])
	}
	if !strings.HasPrefix(lines[2], "cdefgh  ") {
		t.Fatalf("expected widest cell plus two spaces, got %q", lines[2])
	}
}

func TestFormatTableNormalizesNewlines(t *testing.T) {
	out := FormatTable([]string{"TITLE"}, [][]string{{"line1\nline2"}})
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected embedded newline collapsed, got %q", out)
	}
}

func TestTruncateTableCell(t *testing.T) {
	long := strings.Repeat("x", 80)
	got := TruncateTableCell(long)
	if len(got) != tableCellMaxWidth {
		t.Fatalf("expected width %d, got %d", tableCellMaxWidth, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}

	if got := TruncateTableCell("short"); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}
}

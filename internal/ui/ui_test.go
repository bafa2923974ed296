package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestBanner(t *testing.T) {
	var buf bytes.Buffer
	Banner(&buf, "inspect")
	if got := buf.String(); !strings.Contains(got, "graphscope - inspect") {
		t.Errorf("Banner() = %q", got)
	}
}

func TestKV(t *testing.T) {
	var buf bytes.Buffer
	KV(&buf, "Nodes", 8, 42)
	if got, want := buf.String(), "  Nodes     42\n"; got != want {
		t.Errorf("KV() = %q, want %q", got, want)
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"ID", "NAME"}, [][]string{
		{"GS001", "orphan-node"},
		{"GS0", "x"},
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	want := []string{
		"  ID     NAME",
		"  ─────  ───────────",
		"  GS001  orphan-node",
		"  GS0    x",
	}
	if len(lines) != len(want) {
		t.Fatalf("Table() printed %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"ID"}, nil)
	if buf.Len() != 0 {
		t.Errorf("Table() with no rows printed %q", buf.String())
	}
}

func TestIcons(t *testing.T) {
	if StatusIcon(true) != "✓" || StatusIcon(false) != "✗" || WarnIcon() != "⚠" {
		t.Error("icons changed")
	}
}

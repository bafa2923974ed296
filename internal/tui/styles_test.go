package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/ikari-pl/go-graphscope/internal/graph"
	"github.com/ikari-pl/go-graphscope/internal/tui/theme"
)

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func TestNewStyleManager(t *testing.T) {
	sm := NewStyleManager(nil)
	if sm.GetTheme() == nil || sm.GetStyles() == nil {
		t.Fatal("NewStyleManager(nil) should fall back to the default theme")
	}

	neon := theme.NeonTheme()
	if got := NewStyleManager(neon).GetTheme(); got != neon {
		t.Error("GetTheme() should return the given theme")
	}
}

func TestStyleManagerHeader(t *testing.T) {
	sm := NewStyleManager(nil)

	header := sm.Header("SCOPES", 60)
	lines := strings.Split(header, "\n")
	if len(lines) != 2 {
		t.Fatalf("Header() has %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "SCOPES") {
		t.Errorf("Header() = %q, want the title", lines[0])
	}
	if got := lipgloss.Width(lines[1]); got != 60 {
		t.Errorf("gradient width = %d, want 60", got)
	}
}

func TestRenderGradientLine(t *testing.T) {
	sm := NewStyleManager(nil).(*styleManager)

	for _, width := range []int{5, 13, 80, 201} {
		line := sm.renderGradientLine(width)
		if got := strings.Count(line, "▀"); got != width {
			t.Errorf("renderGradientLine(%d) has %d cells", width, got)
		}
	}
}

func TestStyleManagerFooter(t *testing.T) {
	sm := NewStyleManager(nil)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"bindings", "[q]Quit [?]Help", []string{"q", "Quit", "?", "Help"}},
		{"plain", "Press q", []string{"Press", "q"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			footer := sm.Footer(tt.input, 0)
			if !containsAll(footer, tt.want...) {
				t.Errorf("Footer(%q) = %q, missing %v", tt.input, footer, tt.want)
			}
			if strings.Contains(footer, "[") {
				t.Errorf("Footer(%q) should strip brackets: %q", tt.input, footer)
			}
		})
	}
}

func TestStyleManagerTextRenderers(t *testing.T) {
	sm := NewStyleManager(nil)

	renderers := map[string]func(string) string{
		"Title":     sm.Title,
		"Subtitle":  sm.Subtitle,
		"Highlight": sm.Highlight,
		"Muted":     sm.Muted,
		"Error":     sm.Error,
		"Success":   sm.Success,
		"Warning":   sm.Warning,
		"Info":      sm.Info,
	}

	for name, render := range renderers {
		if got := render("text"); !strings.Contains(got, "text") {
			t.Errorf("%s(%q) = %q", name, "text", got)
		}
	}
}

func TestStyleManagerKindBadge(t *testing.T) {
	sm := NewStyleManager(nil)

	tests := []struct {
		kind graph.ElementKind
		want string
	}{
		{graph.KindLeaf, "NODE"},
		{graph.KindMetanode, "SCOPE"},
		{graph.KindEdge, "EDGE"},
	}

	for _, tt := range tests {
		badge := sm.KindBadge(tt.kind)
		if !containsAll(badge, tt.want, sm.KindIcon(tt.kind)) {
			t.Errorf("KindBadge(%q) = %q, want %q with icon", tt.kind, badge, tt.want)
		}
	}
}

func TestStyleManagerSetNerdFonts(t *testing.T) {
	sm := NewStyleManager(nil)

	if sm.KindIcon(graph.KindMetanode) != theme.FallbackIcons.Metanode {
		t.Error("fallback icons should be the default")
	}
	if sm.Icons() != theme.FallbackIcons {
		t.Error("Icons() should return the fallback set")
	}

	sm.SetNerdFonts(true)
	if sm.KindIcon(graph.KindMetanode) != theme.Icons.Metanode {
		t.Error("SetNerdFonts(true) should switch to Nerd Font icons")
	}
}

func TestStyleManagerOpColor(t *testing.T) {
	sm := NewStyleManager(nil)

	for _, hex := range []string{"#ff0000", ""} {
		if got := sm.OpColor("MatMul", hex); !strings.Contains(got, "MatMul") {
			t.Errorf("OpColor(%q) = %q", hex, got)
		}
	}
}

func TestStyleManagerSeparator(t *testing.T) {
	sm := NewStyleManager(nil)

	tests := []struct {
		width int
		want  int
	}{
		{10, 10},
		{0, 60},
		{-5, 60},
	}

	for _, tt := range tests {
		if got := strings.Count(sm.Separator(tt.width), "─"); got != tt.want {
			t.Errorf("Separator(%d) has %d cells, want %d", tt.width, got, tt.want)
		}
	}
}

func TestStyleManagerStatBox(t *testing.T) {
	sm := NewStyleManager(nil)

	box := sm.StatBox("NODES", 42, sm.GetTheme().Leaf)
	if !containsAll(box, "NODES", "42") {
		t.Errorf("StatBox() = %q", box)
	}
}

func TestStyleManagerProgressBar(t *testing.T) {
	sm := NewStyleManager(nil)

	tests := []struct {
		name                 string
		current, total, size int
		wantFilled           int
		wantWidth            int
	}{
		{"half", 5, 10, 10, 5, 10},
		{"full", 10, 10, 10, 10, 10},
		{"over", 20, 10, 10, 10, 10},
		{"empty", 0, 10, 10, 0, 10},
		{"zero total", 3, 0, 10, 10, 10},
		{"default width", 1, 2, 0, 10, 20},
		{"negative", -3, 10, 10, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := sm.ProgressBar(tt.current, tt.total, tt.size)
			filled := strings.Count(bar, "█")
			empty := strings.Count(bar, "░")
			if filled != tt.wantFilled || filled+empty != tt.wantWidth {
				t.Errorf("ProgressBar(%d, %d, %d) = %d filled of %d, want %d of %d",
					tt.current, tt.total, tt.size, filled, filled+empty, tt.wantFilled, tt.wantWidth)
			}
		})
	}
}

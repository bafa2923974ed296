package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ikari-pl/go-graphscope/internal/graph"
)

func TestNewFilterManager(t *testing.T) {
	fm := NewFilterManager()
	if fm.IsActive() {
		t.Error("New filter manager should not be active")
	}
	if fm.GetFilterText() != "" {
		t.Error("New filter manager should have empty filter text")
	}
}

func TestFilterManagerMatches(t *testing.T) {
	fm := NewFilterManager()

	leaf := &graph.Element{ID: "node:dense/MatMul", Kind: graph.KindLeaf, Path: "dense/MatMul", OpName: "MatMul"}
	conv := &graph.Element{ID: "node:conv/op", Kind: graph.KindLeaf, Path: "conv/op", OpName: "Conv2D"}
	scope := &graph.Element{ID: "scope:dense", Kind: graph.KindMetanode, Path: "dense"}
	edge := &graph.Element{ID: "edge:0", Kind: graph.KindEdge}

	tests := []struct {
		name   string
		el     *graph.Element
		filter string
		want   bool
	}{
		{"empty filter", leaf, "", true},
		{"path substring", leaf, "dense/Mat", true},
		{"path fuzzy", leaf, "dmm", true},
		{"case insensitive", leaf, "MATMUL", true},
		{"op name", conv, "conv2d", true},
		{"no match", leaf, "relu", false},
		{"scope path", scope, "den", true},
		{"edge never", edge, "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fm.Matches(tt.el, tt.filter); got != tt.want {
				t.Errorf("Matches(%v, %q) = %v, want %v", tt.el, tt.filter, got, tt.want)
			}
		})
	}
}

func TestFilterManagerInput(t *testing.T) {
	fm := NewFilterManager()

	fm.SetActive(true)
	if !fm.IsActive() || !fm.GetFilter().Focused() {
		t.Fatal("SetActive(true) should focus the input")
	}

	for _, r := range "mat" {
		fm.UpdateInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if got := fm.GetFilterText(); got != "mat" {
		t.Errorf("GetFilterText() = %q, want %q", got, "mat")
	}

	fm.SetActive(false)
	if fm.IsActive() || fm.GetFilterText() != "mat" {
		t.Error("SetActive(false) should keep the text")
	}

	fm.ClearFilter()
	if fm.IsActive() || fm.GetFilterText() != "" {
		t.Error("ClearFilter should deactivate and clear")
	}
}

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		s, pattern string
		want       bool
	}{
		{"dense/MatMul", "", true},
		{"dense/MatMul", "matmul", true},
		{"dense/MatMul", "dsmm", true},
		{"dense/MatMul", "mmd", false},
		{"conv", "convolution", false},
		{"ünïcode/op", "ün", true},
	}

	for _, tt := range tests {
		if got := FuzzyMatch(tt.s, tt.pattern); got != tt.want {
			t.Errorf("FuzzyMatch(%q, %q) = %v, want %v", tt.s, tt.pattern, got, tt.want)
		}
	}
}

func TestHighlightMatches(t *testing.T) {
	wrap := func(s string) string { return "<" + s + ">" }

	tests := []struct {
		text, pattern, want string
	}{
		{"dense/MatMul", "mat", "dense/<Mat>Mul"},
		{"dense/MatMul", "", "dense/MatMul"},
		{"dense/MatMul", "relu", "dense/MatMul"},
	}

	for _, tt := range tests {
		if got := HighlightMatches(tt.text, tt.pattern, wrap); got != tt.want {
			t.Errorf("HighlightMatches(%q, %q) = %q, want %q", tt.text, tt.pattern, got, tt.want)
		}
	}
}

func TestTreeFilter(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	press(m, "/")
	if !m.filter.IsActive() {
		t.Fatal("/ should activate the filter")
	}
	press(m, "m", "a", "t", "q")
	if m.state.FilterText != "matq" {
		t.Fatalf("FilterText = %q, want typed keys including q", m.state.FilterText)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.state.FilterText != "mat" {
		t.Fatalf("FilterText = %q, want %q", m.state.FilterText, "mat")
	}

	want := []string{"node:dense/MatMul"}
	if got := rowIDs(m); !equalIDs(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}

	press(m, "enter")
	if m.filter.IsActive() {
		t.Error("enter should leave the filter input")
	}
	press(m, "enter")
	if !m.state.TreeState.Marked["node:dense/MatMul"] {
		t.Error("enter on a filtered row should click it")
	}

	press(m, "esc")
	if m.state.FilterText != "" {
		t.Errorf("esc should clear the filter, got %q", m.state.FilterText)
	}
	if got := len(rowIDs(m)); got != 3 {
		t.Errorf("rows after clearing = %d, want 3", got)
	}
}

func TestTreeFilterNoMatches(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	press(m, "/", "z", "z", "z")
	if got := rowIDs(m); len(got) != 0 {
		t.Errorf("rows = %v, want none", got)
	}
	if out := m.View(); !containsAll(out, "No nodes match the filter") {
		t.Errorf("View() missing empty-filter message:\n%s", out)
	}
}

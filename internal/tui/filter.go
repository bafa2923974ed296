package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ikari-pl/go-graphscope/internal/graph"
)

// filterManager implements the FilterManager interface.
type filterManager struct {
	input  textinput.Model
	active bool
}

// NewFilterManager creates a new FilterManager instance.
func NewFilterManager() FilterManager {
	input := textinput.New()
	input.Placeholder = "Filter by node path or op..."
	input.CharLimit = 100
	input.Width = 50
	input.Prompt = ""

	return &filterManager{
		input:  input,
		active: false,
	}
}

// Matches reports whether a node or scope matches the filter on its path or
// op name. Edges never match.
func (fm *filterManager) Matches(el *graph.Element, filter string) bool {
	if el == nil || el.Kind == graph.KindEdge {
		return false
	}
	if filter == "" {
		return true
	}
	if FuzzyMatch(el.Path, filter) {
		return true
	}
	return el.Kind == graph.KindLeaf && strings.Contains(strings.ToLower(el.OpName), strings.ToLower(filter))
}

// IsActive returns true if filtering is currently active.
func (fm *filterManager) IsActive() bool {
	return fm.active
}

// GetFilter returns the current filter input.
func (fm *filterManager) GetFilter() textinput.Model {
	return fm.input
}

// SetActive sets the filter active state.
func (fm *filterManager) SetActive(active bool) {
	fm.active = active
	if active {
		fm.input.Focus()
	} else {
		fm.input.Blur()
	}
}

// UpdateInput updates the filter input model and returns a command.
func (fm *filterManager) UpdateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	fm.input, cmd = fm.input.Update(msg)
	return cmd
}

// GetFilterText returns the current filter text.
func (fm *filterManager) GetFilterText() string {
	return fm.input.Value()
}

// ClearFilter clears the current filter.
func (fm *filterManager) ClearFilter() {
	fm.input.SetValue("")
	fm.active = false
	fm.input.Blur()
}

// FuzzyMatch reports whether pattern is a substring of s or all of its
// characters appear in s in order, ignoring case.
func FuzzyMatch(s, pattern string) bool {
	s = strings.ToLower(s)
	pattern = strings.ToLower(pattern)

	if pattern == "" {
		return true
	}
	if strings.Contains(s, pattern) {
		return true
	}

	p := []rune(pattern)
	i := 0
	for _, c := range s {
		if i < len(p) && c == p[i] {
			i++
		}
	}
	return i == len(p)
}

// HighlightMatches wraps the first case-insensitive match of pattern in text.
func HighlightMatches(text, pattern string, highlightFn func(string) string) string {
	if pattern == "" {
		return text
	}

	idx := strings.Index(strings.ToLower(text), strings.ToLower(pattern))
	if idx == -1 {
		return text
	}

	end := idx + len(pattern)
	return text[:idx] + highlightFn(text[idx:end]) + text[end:]
}

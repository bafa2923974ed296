package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ikari-pl/go-graphscope/internal/graph"
	"github.com/ikari-pl/go-graphscope/internal/tui/theme"
)

// styleManager implements the StyleManager interface on top of a theme.
type styleManager struct {
	theme  *theme.Theme
	styles *theme.Styles

	highlightStyle lipgloss.Style
	errorStyle     lipgloss.Style
	successStyle   lipgloss.Style
	warningStyle   lipgloss.Style
	infoStyle      lipgloss.Style
	dimStyle       lipgloss.Style
	titleStyle     lipgloss.Style
	subtitleStyle  lipgloss.Style

	useNerdFonts bool
}

// NewStyleManager creates a StyleManager for the given theme. A nil theme
// selects the default one.
func NewStyleManager(t *theme.Theme) StyleManager {
	if t == nil {
		t = theme.DefaultTheme()
	}
	s := theme.NewStyles(t)

	return &styleManager{
		theme:  t,
		styles: s,

		highlightStyle: s.Highlighted,

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(t.Error).
			Bold(true).
			Padding(0, 1),

		successStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(t.Success).
			Bold(true).
			Padding(0, 1),

		warningStyle: lipgloss.NewStyle().
			Foreground(t.Base).
			Background(t.Warning).
			Bold(true).
			Padding(0, 1),

		infoStyle: lipgloss.NewStyle().
			Foreground(t.Info),

		dimStyle: lipgloss.NewStyle().
			Foreground(t.Muted),

		titleStyle: lipgloss.NewStyle().
			Foreground(t.Text).
			Bold(true),

		subtitleStyle: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Italic(true),
	}
}

// Header renders a full-width header with a gradient underline.
func (s *styleManager) Header(text string, width int) string {
	if width <= 0 {
		width = 80
	}

	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(s.theme.Surface).
		Bold(true).
		Padding(0, 1).
		Width(width).
		Render(" " + text)

	return header + "\n" + s.renderGradientLine(width)
}

func (s *styleManager) renderGradientLine(width int) string {
	var b strings.Builder
	colors := []lipgloss.Color{
		s.theme.Primary,
		s.theme.Secondary,
		s.theme.Tertiary,
		s.theme.Secondary,
		s.theme.Primary,
	}

	segmentWidth := width / len(colors)
	for i, color := range colors {
		n := segmentWidth
		if i == len(colors)-1 {
			n = width - i*segmentWidth
		}
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▀", n)))
	}

	return b.String()
}

// Footer renders key bindings written as "[key]action" separated by spaces.
func (s *styleManager) Footer(text string, width int) string {
	var rendered strings.Builder

	for _, part := range strings.Fields(text) {
		if strings.HasPrefix(part, "[") && strings.Contains(part, "]") {
			idx := strings.Index(part, "]")
			rendered.WriteString(s.styles.KeyBinding.Render(part[1:idx]))
			rendered.WriteString(s.styles.KeyLabel.Render(part[idx+1:]))
		} else {
			rendered.WriteString(s.styles.KeyLabel.Render(part))
		}
		rendered.WriteString(" ")
	}

	style := lipgloss.NewStyle().
		Background(s.theme.Surface).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.TrimSpace(rendered.String()))
}

func (s *styleManager) Title(text string) string {
	return s.titleStyle.Render(text)
}

func (s *styleManager) Subtitle(text string) string {
	return s.subtitleStyle.Render(text)
}

func (s *styleManager) Highlight(text string) string {
	return s.highlightStyle.Render(text)
}

func (s *styleManager) Muted(text string) string {
	return s.dimStyle.Render(text)
}

func (s *styleManager) Error(text string) string {
	return s.errorStyle.Render(text)
}

func (s *styleManager) Success(text string) string {
	return s.successStyle.Render(text)
}

func (s *styleManager) Warning(text string) string {
	return s.warningStyle.Render(text)
}

func (s *styleManager) Info(text string) string {
	return s.infoStyle.Render(text)
}

// KindBadge renders a badge for an element kind.
func (s *styleManager) KindBadge(kind graph.ElementKind) string {
	var badge lipgloss.Style
	var label string

	switch kind {
	case graph.KindMetanode:
		badge, label = s.styles.MetanodeBadge, "SCOPE"
	case graph.KindEdge:
		badge, label = s.styles.EdgeBadge, "EDGE"
	default:
		badge, label = s.styles.LeafBadge, "NODE"
	}

	return badge.Render(fmt.Sprintf("%s %s", s.KindIcon(kind), label))
}

// KindIcon returns the icon for an element kind.
func (s *styleManager) KindIcon(kind graph.ElementKind) string {
	return theme.KindIcon(string(kind), s.useNerdFonts)
}

// OpColor renders text in a "#rrggbb" color, falling back to the leaf color.
func (s *styleManager) OpColor(text, hex string) string {
	color := s.theme.Leaf
	if hex != "" {
		color = lipgloss.Color(hex)
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// Separator renders a visual separator line.
func (s *styleManager) Separator(width int) string {
	if width <= 0 {
		width = 60
	}
	return lipgloss.NewStyle().
		Foreground(s.theme.Border).
		Render(strings.Repeat("─", width))
}

// StatBox renders a statistics box with label and value.
func (s *styleManager) StatBox(label string, value any, color lipgloss.Color) string {
	valueStyle := lipgloss.NewStyle().
		Foreground(color).
		Bold(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(s.theme.Subtle)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		valueStyle.Render(fmt.Sprintf("%v", value)),
		labelStyle.Render(label),
	)
}

// ProgressBar renders a simple progress bar.
func (s *styleManager) ProgressBar(current, total, width int) string {
	if width <= 0 {
		width = 20
	}
	if total <= 0 {
		total = 1
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	return lipgloss.NewStyle().
		Foreground(s.theme.Primary).
		Render(bar)
}

// GetStyles returns the underlying theme styles.
func (s *styleManager) GetStyles() *theme.Styles {
	return s.styles
}

// GetTheme returns the underlying theme.
func (s *styleManager) GetTheme() *theme.Theme {
	return s.theme
}

// Icons returns the icon set matching the font setting.
func (s *styleManager) Icons() theme.IconSet {
	return theme.IconsFor(s.useNerdFonts)
}

// SetNerdFonts enables or disables Nerd Fonts icons.
func (s *styleManager) SetNerdFonts(enabled bool) {
	s.useNerdFonts = enabled
}

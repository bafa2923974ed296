// Package theme provides the color palette, styles and icons of the graph
// explorer.
package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents the complete visual theme for the application.
type Theme struct {
	// Base colors
	Base    lipgloss.Color
	Surface lipgloss.Color
	Overlay lipgloss.Color
	Muted   lipgloss.Color
	Subtle  lipgloss.Color
	Text    lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Tertiary  lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Element kinds. Leaves are normally drawn in their op color; Leaf is
	// the fallback when an element carries none.
	Leaf     lipgloss.Color
	Metanode lipgloss.Color
	Edge     lipgloss.Color
	Tensor   lipgloss.Color

	// UI element colors
	Border    lipgloss.Color
	Selection lipgloss.Color
	Highlight lipgloss.Color

	GradientStart lipgloss.Color
	GradientEnd   lipgloss.Color
}

// DefaultTheme returns the default dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Base:    lipgloss.Color("#0d1117"),
		Surface: lipgloss.Color("#161b22"),
		Overlay: lipgloss.Color("#21262d"),
		Muted:   lipgloss.Color("#484f58"),
		Subtle:  lipgloss.Color("#6e7681"),
		Text:    lipgloss.Color("#e6edf3"),

		Primary:   lipgloss.Color("#58a6ff"),
		Secondary: lipgloss.Color("#bc8cff"),
		Tertiary:  lipgloss.Color("#79c0ff"),

		Success: lipgloss.Color("#3fb950"),
		Warning: lipgloss.Color("#d29922"),
		Error:   lipgloss.Color("#f85149"),
		Info:    lipgloss.Color("#58a6ff"),

		Leaf:     lipgloss.Color("#7ee787"),
		Metanode: lipgloss.Color("#ffa657"),
		Edge:     lipgloss.Color("#79c0ff"),
		Tensor:   lipgloss.Color("#d2a8ff"),

		Border:    lipgloss.Color("#30363d"),
		Selection: lipgloss.Color("#388bfd"),
		Highlight: lipgloss.Color("#f2cc60"),

		GradientStart: lipgloss.Color("#58a6ff"),
		GradientEnd:   lipgloss.Color("#bc8cff"),
	}
}

// NeonTheme returns a vibrant neon theme.
func NeonTheme() *Theme {
	return &Theme{
		Base:    lipgloss.Color("#0a0a0f"),
		Surface: lipgloss.Color("#12121a"),
		Overlay: lipgloss.Color("#1a1a24"),
		Muted:   lipgloss.Color("#3a3a4a"),
		Subtle:  lipgloss.Color("#5a5a6a"),
		Text:    lipgloss.Color("#f0f0f5"),

		Primary:   lipgloss.Color("#00ffff"),
		Secondary: lipgloss.Color("#ff00ff"),
		Tertiary:  lipgloss.Color("#00ff88"),

		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0055"),
		Info:    lipgloss.Color("#00ffff"),

		Leaf:     lipgloss.Color("#00ff88"),
		Metanode: lipgloss.Color("#ff00ff"),
		Edge:     lipgloss.Color("#00ffff"),
		Tensor:   lipgloss.Color("#ff88ff"),

		Border:    lipgloss.Color("#2a2a3a"),
		Selection: lipgloss.Color("#00ffff"),
		Highlight: lipgloss.Color("#ffff00"),

		GradientStart: lipgloss.Color("#00ffff"),
		GradientEnd:   lipgloss.Color("#ff00ff"),
	}
}

// ByName returns the named theme, falling back to the default one.
func ByName(name string) *Theme {
	switch name {
	case "neon":
		return NeonTheme()
	default:
		return DefaultTheme()
	}
}

// Styles holds all pre-configured styles for the UI.
type Styles struct {
	theme *Theme

	// Layout styles
	Header lipgloss.Style
	Footer lipgloss.Style

	// Component styles
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style

	// Element badges
	LeafBadge     lipgloss.Style
	MetanodeBadge lipgloss.Style
	EdgeBadge     lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style

	// Special styles
	Breadcrumb lipgloss.Style
	KeyBinding lipgloss.Style
	KeyLabel   lipgloss.Style
	Box        lipgloss.Style

	// Tree styles
	TreeBranch    lipgloss.Style
	TreeExpanded  lipgloss.Style
	TreeCollapsed lipgloss.Style
	TreeSelected  lipgloss.Style
	Highlighted   lipgloss.Style

	// Details styles
	DetailLabel lipgloss.Style
	DetailValue lipgloss.Style
	CodeBlock   lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	s := &Styles{theme: theme}

	s.Header = lipgloss.NewStyle().
		Foreground(theme.Text).
		Background(theme.Surface).
		Bold(true).
		Padding(0, 2)

	s.Footer = lipgloss.NewStyle().
		Foreground(theme.Subtle).
		Background(theme.Surface).
		Padding(0, 1)

	s.Title = lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		MarginBottom(1)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(theme.Subtle).
		Italic(true)

	s.Label = lipgloss.NewStyle().
		Foreground(theme.Muted)

	s.Value = lipgloss.NewStyle().
		Foreground(theme.Text)

	s.LeafBadge = badge(theme, theme.Leaf)
	s.MetanodeBadge = badge(theme, theme.Metanode)
	s.EdgeBadge = badge(theme, theme.Edge)

	s.Success = lipgloss.NewStyle().Foreground(theme.Success)
	s.Warning = lipgloss.NewStyle().Foreground(theme.Warning)
	s.Error = lipgloss.NewStyle().Foreground(theme.Error)
	s.Info = lipgloss.NewStyle().Foreground(theme.Info)
	s.Muted = lipgloss.NewStyle().Foreground(theme.Muted)

	s.Breadcrumb = lipgloss.NewStyle().
		Foreground(theme.Subtle).
		Background(theme.Overlay).
		Padding(0, 1)

	s.KeyBinding = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Background(theme.Overlay).
		Padding(0, 1).
		Bold(true)

	s.KeyLabel = lipgloss.NewStyle().
		Foreground(theme.Subtle)

	s.Box = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2)

	s.TreeBranch = lipgloss.NewStyle().
		Foreground(theme.Border)

	s.TreeExpanded = lipgloss.NewStyle().
		Foreground(theme.Success)

	s.TreeCollapsed = lipgloss.NewStyle().
		Foreground(theme.Primary)

	s.TreeSelected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(theme.Selection).
		Bold(true)

	s.Highlighted = lipgloss.NewStyle().
		Foreground(theme.Base).
		Background(theme.Highlight).
		Bold(true)

	s.DetailLabel = lipgloss.NewStyle().
		Foreground(theme.Subtle).
		Width(16)

	s.DetailValue = lipgloss.NewStyle().
		Foreground(theme.Text)

	s.CodeBlock = lipgloss.NewStyle().
		Background(theme.Overlay).
		Foreground(theme.Text).
		Padding(0, 1)

	return s
}

func badge(theme *Theme, bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Base).
		Background(bg).
		Padding(0, 1).
		Bold(true)
}

// GetTheme returns the underlying theme.
func (s *Styles) GetTheme() *Theme {
	return s.theme
}

// IconSet is one family of element and UI icons.
type IconSet struct {
	Leaf         string
	Metanode     string
	Edge         string
	Tensor       string
	TreeExpand   string
	TreeCollapse string
	Arrow        string
	Highlight    string
	Search       string
	Export       string
	Check        string
	Cross        string
	Warning      string
	Info         string
}

// Icons are Nerd Font glyphs.
var Icons = IconSet{
	Leaf:         "\U000f0a9a", // nf-md-cube_outline
	Metanode:     "\U000f024b", // nf-md-folder
	Edge:         "\U000f0054", // nf-md-arrow_right
	Tensor:       "\U000f0570", // nf-md-matrix
	TreeExpand:   "▶",
	TreeCollapse: "▼",
	Arrow:        "→",
	Highlight:    "\U000f04ce", // nf-md-star
	Search:       "\U000f0349", // nf-md-magnify
	Export:       "\U000f0207", // nf-md-export
	Check:        "✓",
	Cross:        "✗",
	Warning:      "⚠",
	Info:         "ℹ",
}

// FallbackIcons are used when Nerd Fonts aren't available.
var FallbackIcons = IconSet{
	Leaf:         "•",
	Metanode:     "▣",
	Edge:         "→",
	Tensor:       "#",
	TreeExpand:   "▶",
	TreeCollapse: "▼",
	Arrow:        "→",
	Highlight:    "*",
	Search:       "/",
	Export:       "↓",
	Check:        "✓",
	Cross:        "✗",
	Warning:      "!",
	Info:         "i",
}

// IconsFor returns the icon set matching the font capability.
func IconsFor(nerdFonts bool) IconSet {
	if nerdFonts {
		return Icons
	}
	return FallbackIcons
}

// KindIcon returns the icon for an element kind ("leaf", "metanode", "edge").
func KindIcon(kind string, nerdFonts bool) string {
	icons := IconsFor(nerdFonts)
	switch kind {
	case "metanode":
		return icons.Metanode
	case "edge":
		return icons.Edge
	default:
		return icons.Leaf
	}
}

// KindColor returns the color for an element kind from the theme.
func (t *Theme) KindColor(kind string) lipgloss.Color {
	switch kind {
	case "leaf":
		return t.Leaf
	case "metanode":
		return t.Metanode
	case "edge":
		return t.Edge
	default:
		return t.Primary
	}
}

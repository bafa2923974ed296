package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ikari-pl/go-graphscope/internal/graph"
	"github.com/ikari-pl/go-graphscope/internal/tui/theme"
)

// TUI is the terminal renderer of an element graph.
type TUI interface {
	// Run starts the TUI with the given graph and blocks until the user exits.
	Run(ctx context.Context, g *graph.ElementGraph) error
}

// ViewManager handles switching between different views.
type ViewManager interface {
	// GetCurrentView returns the view named by the state.
	GetCurrentView(state *State) View

	// SwitchView switches to the specified view.
	SwitchView(viewName string) error

	// GetView returns a view by name.
	GetView(viewName string) View

	// RegisterView registers a new view.
	RegisterView(view View)
}

// View is one screen of the TUI.
type View interface {
	// Name returns the view's name.
	Name() string

	// Render renders the view with the given state.
	Render(state *State) string

	// Update handles view-specific updates.
	Update(msg tea.Msg, state *State) (*State, tea.Cmd)

	// CanHandle returns true if this view can handle the given message.
	CanHandle(msg tea.Msg, state *State) bool
}

// Navigator keeps the view history and the breadcrumb of the element under
// the cursor.
type Navigator interface {
	// PushState saves the current state to the navigation stack.
	PushState(state ViewState)

	// PopState returns to the previous state from the navigation stack.
	PopState() (ViewState, bool)

	// SetPath replaces the breadcrumb with the scope path of an element.
	SetPath(g *graph.ElementGraph, id string)

	// GetPath returns the current breadcrumb.
	GetPath() []PathItem

	// ClearPath clears the breadcrumb.
	ClearPath()

	// RenderPath renders the breadcrumb as a formatted string.
	RenderPath() string

	// GetDepth returns the current navigation depth.
	GetDepth() int
}

// StyleManager handles styling and theming.
type StyleManager interface {
	Title(text string) string
	Subtitle(text string) string
	Highlight(text string) string
	Muted(text string) string
	Error(text string) string
	Success(text string) string
	Warning(text string) string
	Info(text string) string

	// Header renders a full-width header with a gradient underline.
	Header(text string, width int) string

	// Footer renders key bindings written as "[key]action".
	Footer(text string, width int) string

	// KindBadge renders a badge for an element kind.
	KindBadge(kind graph.ElementKind) string

	// KindIcon returns the icon for an element kind.
	KindIcon(kind graph.ElementKind) string

	// OpColor renders text in the element's op color.
	OpColor(text, hex string) string

	Separator(width int) string
	StatBox(label string, value any, color lipgloss.Color) string
	ProgressBar(current, total, width int) string

	GetStyles() *theme.Styles
	GetTheme() *theme.Theme
	Icons() theme.IconSet
	SetNerdFonts(enabled bool)
}

// FilterManager handles the tree filter input.
type FilterManager interface {
	// Matches reports whether the element matches the filter text.
	Matches(el *graph.Element, filter string) bool

	// IsActive returns true if the filter input has focus.
	IsActive() bool

	// GetFilter returns the current filter input.
	GetFilter() textinput.Model

	// SetActive sets the filter active state.
	SetActive(active bool)

	// UpdateInput updates the filter input model and returns a command.
	UpdateInput(msg tea.Msg) tea.Cmd

	// GetFilterText returns the current filter text.
	GetFilterText() string

	// ClearFilter clears the current filter.
	ClearFilter()
}

// Recorder receives interaction metrics.
type Recorder interface {
	ObserveClick(target string)
	ObserveExport(format string, err error)
}

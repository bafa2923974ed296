package tui

import (
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/ikari-pl/go-graphscope/internal/graph"
	"github.com/ikari-pl/go-graphscope/internal/interaction"
	"github.com/ikari-pl/go-graphscope/internal/tensor"
)

// State represents the complete application state.
type State struct {
	// Core data
	Graph      *graph.ElementGraph
	Controller *interaction.Controller
	Tensors    *tensor.Formatter
	Metrics    Recorder // may be nil

	// Current view state
	CurrentView  string
	PreviousView string
	Selected     *graph.Element // element shown in the details view

	// Window dimensions
	WindowWidth  int
	WindowHeight int

	// View-specific state
	TreeState    *TreeViewState
	DetailsState *DetailsViewState
	RevealState  *RevealViewState

	// Navigation
	Navigator Navigator

	// Filter
	FilterText string

	// UI preferences
	ShowBreadcrumb bool
	UseNerdFonts   bool
	MouseEnabled   bool

	// Status
	StatusMessage string
	StatusType    string // "info", "success", "warning", "error"
}

// ViewState represents a saved navigation state.
type ViewState struct {
	View         string
	Selected     *graph.Element
	TreeIndex    int
	DetailsIndex int
}

// PathItem is one scope of the breadcrumb.
type PathItem struct {
	ID          string
	DisplayName string
}

// TreeViewState holds the visible rows of the scope tree. It is also the
// interaction.Renderer the controller reports into.
type TreeViewState struct {
	Rows          []TreeItem
	SelectedIndex int
	ScrollOffset  int // index of the first row on screen

	// Marked holds highlighted element ids.
	Marked map[string]bool
	// Dirty asks the tree view to rebuild Rows before the next render.
	Dirty bool
	// LastLayout is the scope of the most recent layout request.
	LastLayout string
}

// RequestLayout implements interaction.Renderer.
func (ts *TreeViewState) RequestLayout(scopeID string, collapsed bool) {
	ts.Dirty = true
	ts.LastLayout = scopeID
}

// SetHighlighted implements interaction.Renderer.
func (ts *TreeViewState) SetHighlighted(id string, on bool) {
	if ts.Marked == nil {
		ts.Marked = make(map[string]bool)
	}
	if on {
		ts.Marked[id] = true
		return
	}
	delete(ts.Marked, id)
}

// TreeItem represents a row in the tree view.
type TreeItem struct {
	Element     *graph.Element
	Depth       int  // Indentation level
	IsExpanded  bool // Whether children are shown
	HasChildren bool
	ChildCount  int
}

// DetailsViewState holds state specific to the details view.
type DetailsViewState struct {
	ElementID       string
	Tensors         []TensorEntry
	SelectableItems []SelectableItem
	SelectedIndex   int
}

// TensorEntry is one tensor attribute of an element.
type TensorEntry struct {
	Key       string
	Value     tensor.Value
	Rendering tensor.Rendering
}

// SelectableItem is a navigable line of the details view.
type SelectableItem struct {
	ItemType    string // one of the Item* constants
	ElementID   string // edge, child or endpoint id
	TensorIndex int    // index into Tensors for tensor items
	DisplayText string
}

// RevealViewState holds the full text of a collapsed tensor.
type RevealViewState struct {
	Key      string
	Title    string
	Value    tensor.Value
	Viewport viewport.Model
}

// HelpSection represents a section in the help view.
type HelpSection struct {
	Title    string
	Bindings []KeyBinding
}

// KeyBinding represents a keyboard shortcut.
type KeyBinding struct {
	Key         string
	Description string
	Context     string // "global", "tree", "details", "reveal"
}

// Constants for view names.
const (
	ViewTree    = "tree"
	ViewDetails = "details"
	ViewReveal  = "reveal"
	ViewStats   = "stats"
	ViewHelp    = "help"
)

// Constants for tree expansion icons.
const (
	IconExpanded  = "▼"
	IconCollapsed = "▶"
)

// Constants for display limits.
const (
	MaxDisplayNameLength = 60
	TruncateLength       = 57
	EllipsisString       = "..."
	MaxNavPathLength     = 10
)

// Layout of the tree view: header, gradient and breadcrumb precede the rows.
const (
	treeHeaderLines = 3
	treeFooterLines = 2
)

// Selectable item types of the details view.
const (
	ItemIncoming = "incoming"
	ItemOutgoing = "outgoing"
	ItemTensor   = "tensor"
	ItemChild    = "child"
	ItemEndpoint = "endpoint"
)

// StatusType constants
const (
	StatusInfo    = "info"
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// DefaultKeyBindings returns the default set of key bindings.
func DefaultKeyBindings() []HelpSection {
	return []HelpSection{
		{
			Title: "Navigation",
			Bindings: []KeyBinding{
				{Key: "j/↓", Description: "Move down", Context: "global"},
				{Key: "k/↑", Description: "Move up", Context: "global"},
				{Key: "g/G", Description: "Go to top / bottom", Context: "tree"},
				{Key: "Esc/q", Description: "Go back / Quit", Context: "global"},
			},
		},
		{
			Title: "Clicks",
			Bindings: []KeyBinding{
				{Key: "Enter/mouse", Description: "Click: highlight a node, double click toggles a scope", Context: "tree"},
				{Key: "x", Description: "Background click: clear highlight", Context: "tree"},
			},
		},
		{
			Title: "Scopes",
			Bindings: []KeyBinding{
				{Key: "Space", Description: "Toggle scope", Context: "tree"},
				{Key: "l/→", Description: "Expand scope", Context: "tree"},
				{Key: "h/←", Description: "Collapse scope", Context: "tree"},
				{Key: "e", Description: "Expand all", Context: "tree"},
				{Key: "c", Description: "Collapse all", Context: "tree"},
			},
		},
		{
			Title: "Views",
			Bindings: []KeyBinding{
				{Key: "d", Description: "Element details", Context: "tree"},
				{Key: "s", Description: "Graph statistics", Context: "global"},
				{Key: "/", Description: "Filter by path or op", Context: "tree"},
				{Key: "R", Description: "Reload and rebuild the graph", Context: "global"},
				{Key: "?", Description: "Help", Context: "global"},
			},
		},
		{
			Title: "Tensors",
			Bindings: []KeyBinding{
				{Key: "Enter", Description: "Reveal tensor / follow edge", Context: "details"},
				{Key: "X", Description: "Export tensor as JSON", Context: "details"},
			},
		},
	}
}

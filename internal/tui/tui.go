package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ikari-pl/go-graphscope/internal/graph"
	"github.com/ikari-pl/go-graphscope/internal/interaction"
	"github.com/ikari-pl/go-graphscope/internal/metrics"
	"github.com/ikari-pl/go-graphscope/internal/tensor"
	"github.com/ikari-pl/go-graphscope/internal/tui/theme"
)

var errNoSink = errors.New("no export directory configured")

// Options configures a TUI session.
type Options struct {
	Theme     string
	NerdFonts bool
	Mouse     bool

	// Window is the double-click window; zero selects the default.
	Window time.Duration
	// Threshold is the inline tensor limit; zero selects the default.
	Threshold int

	// Service and InputFile enable reloading with R.
	Service   graph.Service
	InputFile string

	Sink    tensor.Sink
	Metrics *metrics.Collector
	Clock   interaction.Clock
}

// tui implements the TUI interface.
type tui struct {
	logger *slog.Logger
	opts   Options
}

// NewTUI creates a new TUI instance.
func NewTUI(logger *slog.Logger, opts Options) TUI {
	return &tui{
		logger: logger,
		opts:   opts,
	}
}

// Run starts the TUI with the given graph and blocks until the user exits.
func (t *tui) Run(ctx context.Context, g *graph.ElementGraph) error {
	if g == nil {
		return fmt.Errorf("graph cannot be nil")
	}

	m := newModel(ctx, t.logger, g, t.opts)

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if t.opts.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}

	if _, err := tea.NewProgram(m, progOpts...).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

// model is the bubbletea model. It owns the state and dispatches messages to
// the current view; I/O runs in commands.
type model struct {
	ctx         context.Context
	state       *State
	viewManager ViewManager
	navigator   Navigator
	styles      StyleManager
	filter      FilterManager
	logger      *slog.Logger
	opts        Options
}

func newModel(ctx context.Context, logger *slog.Logger, g *graph.ElementGraph, opts Options) *model {
	styles := NewStyleManager(theme.ByName(opts.Theme))
	styles.SetNerdFonts(opts.NerdFonts)
	filter := NewFilterManager()
	nav := NewNavigator()

	tree := &TreeViewState{Dirty: true, Marked: make(map[string]bool)}

	ctrlOpts := []interaction.Option{interaction.WithWindow(opts.Window)}
	if opts.Clock != nil {
		ctrlOpts = append(ctrlOpts, interaction.WithClock(opts.Clock))
	}
	if opts.Metrics != nil {
		ctrlOpts = append(ctrlOpts, interaction.WithObserver(opts.Metrics))
	}
	ctrl := interaction.NewController(logger, tree, ctrlOpts...)
	ctrl.Reset(g)

	state := &State{
		Graph:          g,
		Controller:     ctrl,
		Tensors:        tensor.NewFormatter(opts.Threshold),
		CurrentView:    ViewTree,
		WindowWidth:    80,
		WindowHeight:   30,
		TreeState:      tree,
		Navigator:      nav,
		ShowBreadcrumb: true,
		UseNerdFonts:   opts.NerdFonts,
		MouseEnabled:   opts.Mouse,
	}
	if opts.Metrics != nil {
		state.Metrics = opts.Metrics
	}

	return &model{
		ctx:         ctx,
		state:       state,
		viewManager: NewViewManager(styles, filter),
		navigator:   nav,
		styles:      styles,
		filter:      filter,
		logger:      logger,
		opts:        opts,
	}
}

// Init initializes the model.
func (m *model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)
		return m, nil

	case expireMsg:
		expire(m.state, msg.token)
		return m, nil

	case exportRequestMsg:
		return m, m.exportCmd(msg)

	case exportDoneMsg:
		m.handleExportDone(msg)
		return m, nil

	case reloadMsg:
		m.handleReload(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		if !m.state.MouseEnabled || m.filter.IsActive() {
			return m, nil
		}
		return m.delegate(msg)

	default:
		if m.filter.IsActive() {
			return m, m.filter.UpdateInput(msg)
		}
		return m.delegate(msg)
	}
}

func (m *model) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	current := m.viewManager.GetCurrentView(m.state)
	if current == nil || !current.CanHandle(msg, m.state) {
		return m, nil
	}
	newState, cmd := current.Update(msg, m.state)
	m.state = newState
	return m, cmd
}

// View renders the current view followed by the status line.
func (m *model) View() string {
	current := m.viewManager.GetCurrentView(m.state)
	if current == nil {
		return "Error: No view available"
	}
	return current.Render(m.state) + "\n" + m.statusLine()
}

func (m *model) statusLine() string {
	if m.filter.IsActive() {
		return m.styles.Info(m.styles.Icons().Search+" ") + m.filter.GetFilter().View()
	}
	if m.state.StatusMessage == "" {
		return ""
	}
	switch m.state.StatusType {
	case StatusError:
		return m.styles.Error(m.state.StatusMessage)
	case StatusWarning:
		return m.styles.Warning(m.state.StatusMessage)
	case StatusSuccess:
		return m.styles.Success(m.state.StatusMessage)
	default:
		return m.styles.Info(m.state.StatusMessage)
	}
}

// handleWindowResize handles window resize messages.
func (m *model) handleWindowResize(msg tea.WindowSizeMsg) {
	m.state.WindowWidth = msg.Width
	m.state.WindowHeight = msg.Height

	if rs := m.state.RevealState; rs != nil {
		rs.Viewport.Width, rs.Viewport.Height = revealSize(m.state)
	}
	if m.state.TreeState != nil {
		ensureVisible(m.state.TreeState, visibleRows(m.state))
	}
}

// handleKeyPress handles global keys and the filter input, then delegates
// to the current view.
func (m *model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.filter.IsActive() {
		switch msg.String() {
		case "esc":
			m.filter.ClearFilter()
			m.setFilterText("")
			return m, nil
		case "enter", "tab":
			m.filter.SetActive(false)
			return m, nil
		default:
			cmd := m.filter.UpdateInput(msg)
			m.setFilterText(m.filter.GetFilterText())
			return m, cmd
		}
	}

	view := m.state.CurrentView
	switch msg.String() {
	case "?":
		if view != ViewHelp {
			switchTo(m.state, ViewHelp)
			return m, nil
		}
	case "s":
		if view == ViewTree || view == ViewDetails {
			switchTo(m.state, ViewStats)
			return m, nil
		}
	case "R":
		return m, m.reloadCmd()
	case "/":
		if view == ViewTree {
			m.filter.SetActive(true)
			return m, nil
		}
	case "q", "esc":
		if view == ViewTree {
			if m.state.FilterText != "" {
				m.filter.ClearFilter()
				m.setFilterText("")
				return m, nil
			}
			return m, tea.Quit
		}
	}

	return m.delegate(msg)
}

func (m *model) setFilterText(text string) {
	m.state.FilterText = text
	m.state.TreeState.Dirty = true
	m.state.TreeState.SelectedIndex = 0
	m.state.TreeState.ScrollOffset = 0
}

// reloadCmd rebuilds the graph from the input file in the background.
func (m *model) reloadCmd() tea.Cmd {
	if m.opts.Service == nil || m.opts.InputFile == "" {
		setStatus(m.state, StatusWarning, "Reload unavailable: no input file")
		return nil
	}
	setStatus(m.state, StatusInfo, "Reloading "+m.opts.InputFile+"...")

	ctx, svc, path := m.ctx, m.opts.Service, m.opts.InputFile
	return func() tea.Msg {
		start := time.Now()
		g, err := svc.Open(ctx, path)
		return reloadMsg{graph: g, duration: time.Since(start), err: err}
	}
}

// handleReload installs a rebuilt graph. A failed rebuild leaves the
// current graph and its interaction state untouched.
func (m *model) handleReload(msg reloadMsg) {
	if m.opts.Metrics != nil {
		var leaves, scopes, edges int
		if msg.graph != nil {
			leaves, scopes, edges = msg.graph.Stats.Leaves, msg.graph.Stats.Metanodes, msg.graph.Stats.Edges
		}
		m.opts.Metrics.ObserveBuild(msg.duration, leaves, scopes, edges, msg.err)
	}

	if msg.err != nil {
		m.logger.Error("Reload failed", "error", msg.err)
		setStatus(m.state, StatusError, fmt.Sprintf("Reload failed: %v", msg.err))
		return
	}

	s := m.state
	s.Graph = msg.graph
	s.TreeState.Rows = nil
	s.TreeState.Marked = make(map[string]bool)
	s.TreeState.Dirty = true
	s.TreeState.SelectedIndex = 0
	s.TreeState.ScrollOffset = 0
	s.Controller.Reset(msg.graph)

	s.Selected = nil
	s.DetailsState = nil
	s.RevealState = nil
	s.CurrentView = ViewTree
	s.PreviousView = ""
	for {
		if _, ok := m.navigator.PopState(); !ok {
			break
		}
	}
	m.navigator.ClearPath()

	stats := msg.graph.Stats
	m.logger.Info("Graph reloaded", "nodes", stats.Leaves, "scopes", stats.Metanodes, "edges", stats.Edges, "duration", msg.duration)
	setStatus(s, StatusSuccess, fmt.Sprintf("Reloaded: %d nodes, %d scopes, %d edges", stats.Leaves, stats.Metanodes, stats.Edges))
}

// exportCmd writes an artifact through the sink in the background.
func (m *model) exportCmd(req exportRequestMsg) tea.Cmd {
	sink := m.opts.Sink
	if sink == nil {
		return func() tea.Msg {
			return exportDoneMsg{label: req.label, err: errNoSink}
		}
	}
	ctx := m.ctx
	return func() tea.Msg {
		path, err := sink.Save(ctx, req.artifact)
		return exportDoneMsg{label: req.label, path: path, err: err}
	}
}

func (m *model) handleExportDone(msg exportDoneMsg) {
	if m.state.Metrics != nil {
		m.state.Metrics.ObserveExport("json", msg.err)
	}
	if msg.err != nil {
		m.logger.Error("Tensor export failed", "tensor", msg.label, "error", msg.err)
		setStatus(m.state, StatusError, fmt.Sprintf("Export of %s failed: %v", msg.label, msg.err))
		return
	}
	setStatus(m.state, StatusSuccess, "Exported "+msg.label+" to "+msg.path)
}

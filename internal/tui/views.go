package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ikari-pl/go-graphscope/internal/graph"
)

// treeView shows the scope hierarchy. Collapse state lives in the
// interaction controller; rows are rebuilt whenever it requests a layout.
type treeView struct {
	styles StyleManager
	filter FilterManager
}

// NewTreeView creates a new tree view.
func NewTreeView(styles StyleManager, filter FilterManager) View {
	return &treeView{
		styles: styles,
		filter: filter,
	}
}

// Name returns the view's name.
func (tv *treeView) Name() string {
	return ViewTree
}

// Render renders the view with the given model state.
func (tv *treeView) Render(state *State) string {
	width := state.WindowWidth
	if width < 40 {
		width = 80
	}
	tv.ensureRows(state)
	rows := visibleRows(state)
	ensureVisible(state.TreeState, rows)

	ts := state.TreeState
	title := "SCOPES"
	if state.FilterText != "" {
		title = fmt.Sprintf("FILTER %q", state.FilterText)
	}
	if len(ts.Rows) > 0 {
		title += fmt.Sprintf(" │ %d/%d", ts.SelectedIndex+1, len(ts.Rows))
	}
	if id, ok := highlighted(state); ok {
		title += " │ " + tv.styles.Icons().Highlight + " " + displayName(state, id)
	}

	var b strings.Builder
	b.WriteString(tv.styles.Header(title, width))
	b.WriteString("\n")
	b.WriteString(tv.renderBreadcrumb(state, width))
	b.WriteString("\n")
	b.WriteString(tv.buildTreeContent(state, rows))
	b.WriteString(tv.styles.Footer("[↵]Click [␣]Toggle [e/c]All [d]Details [/]Filter [x]Clear [s]Stats [?]Help [q]Quit", width))
	return b.String()
}

func (tv *treeView) renderBreadcrumb(state *State, width int) string {
	path := ""
	if state.ShowBreadcrumb && state.Navigator != nil {
		path = state.Navigator.RenderPath()
	}
	if path == "" {
		path = state.Graph.Separator
	}
	return tv.styles.GetStyles().Breadcrumb.Width(width).Render(path)
}

// Update handles view-specific updates.
func (tv *treeView) Update(msg tea.Msg, state *State) (*State, tea.Cmd) {
	tv.ensureRows(state)
	ts := state.TreeState

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return state, tv.handleMouse(msg, state)

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			tv.moveSelection(state, 1)
		case "k", "up":
			tv.moveSelection(state, -1)
		case "g", "home":
			tv.moveSelection(state, -len(ts.Rows))
		case "G", "end":
			tv.moveSelection(state, len(ts.Rows))
		case "pgdown":
			tv.moveSelection(state, visibleRows(state))
		case "pgup":
			tv.moveSelection(state, -visibleRows(state))

		case "enter":
			if row, ok := tv.selected(state); ok {
				return state, click(state, row.Element)
			}

		case "x":
			return state, click(state, nil)

		case " ":
			if row, ok := tv.selected(state); ok && row.HasChildren {
				state.Controller.Toggle(row.Element.ID)
			}

		case "right", "l":
			if row, ok := tv.selected(state); ok && row.HasChildren {
				state.Controller.SetCollapsed(row.Element.ID, false)
			}

		case "left", "h":
			if row, ok := tv.selected(state); ok {
				if row.HasChildren && row.IsExpanded {
					state.Controller.SetCollapsed(row.Element.ID, true)
				} else if row.Element.Parent != "" {
					tv.selectID(state, row.Element.Parent)
				}
			}

		case "e":
			state.Controller.ExpandAll()
			setStatus(state, StatusInfo, "Expanded all scopes")

		case "c":
			state.Controller.CollapseAll()
			setStatus(state, StatusInfo, "Collapsed all scopes")

		case "d":
			if row, ok := tv.selected(state); ok {
				openDetails(state, row.Element, ViewTree)
			}
		}
	}

	tv.ensureRows(state)
	tv.syncPath(state)
	return state, nil
}

// CanHandle returns true if this view can handle the given message.
func (tv *treeView) CanHandle(msg tea.Msg, state *State) bool {
	return state.CurrentView == ViewTree
}

// handleMouse maps a press to a row. Presses below the last row are
// background clicks; the header and footer are inert.
func (tv *treeView) handleMouse(msg tea.MouseMsg, state *State) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelDown:
		tv.moveSelection(state, 1)
		return nil
	case tea.MouseButtonWheelUp:
		tv.moveSelection(state, -1)
		return nil
	case tea.MouseButtonLeft:
	default:
		return nil
	}

	idx, onRow, background := rowAt(state, msg.Y)
	switch {
	case onRow:
		state.TreeState.SelectedIndex = idx
		tv.syncPath(state)
		return click(state, state.TreeState.Rows[idx].Element)
	case background:
		return click(state, nil)
	}
	return nil
}

// rowAt maps a screen line to a tree row index.
func rowAt(state *State, y int) (idx int, onRow, background bool) {
	line := y - treeHeaderLines
	rows := visibleRows(state)
	if line < 0 || line >= rows {
		return 0, false, false
	}
	idx = state.TreeState.ScrollOffset + line
	if idx < len(state.TreeState.Rows) {
		return idx, true, false
	}
	return 0, false, true
}

// visibleRows returns how many tree rows fit between header and footer.
func visibleRows(state *State) int {
	rows := state.WindowHeight - treeHeaderLines - treeFooterLines
	if rows < 1 {
		return 1
	}
	return rows
}

// ensureVisible scrolls so the selected row is on screen.
func ensureVisible(ts *TreeViewState, rows int) {
	if ts.SelectedIndex < ts.ScrollOffset {
		ts.ScrollOffset = ts.SelectedIndex
	}
	if ts.SelectedIndex >= ts.ScrollOffset+rows {
		ts.ScrollOffset = ts.SelectedIndex - rows + 1
	}
	if last := len(ts.Rows) - rows; ts.ScrollOffset > last {
		ts.ScrollOffset = last
	}
	if ts.ScrollOffset < 0 {
		ts.ScrollOffset = 0
	}
}

func (tv *treeView) moveSelection(state *State, delta int) {
	ts := state.TreeState
	if len(ts.Rows) == 0 {
		return
	}
	ts.SelectedIndex += delta
	if ts.SelectedIndex < 0 {
		ts.SelectedIndex = 0
	}
	if ts.SelectedIndex >= len(ts.Rows) {
		ts.SelectedIndex = len(ts.Rows) - 1
	}
	ensureVisible(ts, visibleRows(state))
}

func (tv *treeView) selected(state *State) (TreeItem, bool) {
	ts := state.TreeState
	if ts.SelectedIndex < 0 || ts.SelectedIndex >= len(ts.Rows) {
		return TreeItem{}, false
	}
	return ts.Rows[ts.SelectedIndex], true
}

func (tv *treeView) selectID(state *State, id string) bool {
	for i, row := range state.TreeState.Rows {
		if row.Element.ID == id {
			state.TreeState.SelectedIndex = i
			ensureVisible(state.TreeState, visibleRows(state))
			return true
		}
	}
	return false
}

func (tv *treeView) syncPath(state *State) {
	if state.Navigator == nil {
		return
	}
	if row, ok := tv.selected(state); ok {
		state.Navigator.SetPath(state.Graph, row.Element.ID)
		return
	}
	state.Navigator.ClearPath()
}

// ensureRows rebuilds the rows when they are stale.
func (tv *treeView) ensureRows(state *State) {
	if state.TreeState == nil {
		state.TreeState = &TreeViewState{Dirty: true}
	}
	if state.TreeState.Dirty || state.TreeState.Rows == nil {
		tv.buildTreeItems(state)
	}
}

// buildTreeItems flattens the visible part of the hierarchy into rows,
// keeping the cursor on the same element when it is still shown.
func (tv *treeView) buildTreeItems(state *State) {
	ts := state.TreeState
	var selectedID string
	if row, ok := tv.selected(state); ok {
		selectedID = row.Element.ID
	}

	rows := make([]TreeItem, 0, len(ts.Rows))
	g := state.Graph
	if g != nil {
		if state.FilterText != "" {
			for _, el := range g.Elements() {
				if !tv.filter.Matches(&el, state.FilterText) {
					continue
				}
				ptr, _ := g.Element(el.ID)
				rows = append(rows, tv.row(state, ptr, 0))
			}
		} else {
			var walk func(parent string, depth int)
			walk = func(parent string, depth int) {
				for _, id := range g.Children(parent) {
					el, ok := g.Element(id)
					if !ok {
						continue
					}
					row := tv.row(state, el, depth)
					rows = append(rows, row)
					if row.IsExpanded {
						walk(id, depth+1)
					}
				}
			}
			walk("", 0)
		}
	}

	ts.Rows = rows
	ts.Dirty = false

	if selectedID != "" && g != nil {
		if tv.selectID(state, selectedID) {
			return
		}
		// the cursor row was folded away; land on its closest visible scope
		anc := g.Ancestors(selectedID)
		for i := len(anc) - 1; i >= 0; i-- {
			if tv.selectID(state, anc[i]) {
				return
			}
		}
	}
	if ts.SelectedIndex >= len(rows) {
		ts.SelectedIndex = len(rows) - 1
	}
	if ts.SelectedIndex < 0 {
		ts.SelectedIndex = 0
	}
}

func (tv *treeView) row(state *State, el *graph.Element, depth int) TreeItem {
	item := TreeItem{Element: el, Depth: depth}
	if el.IsMetanode() {
		item.ChildCount = len(state.Graph.Children(el.ID))
		item.HasChildren = item.ChildCount > 0
		item.IsExpanded = state.Controller != nil && !state.Controller.Collapsed(el.ID)
	}
	return item
}

// buildTreeContent renders exactly rows lines.
func (tv *treeView) buildTreeContent(state *State, rows int) string {
	ts := state.TreeState
	var content strings.Builder

	if len(ts.Rows) == 0 {
		msg := "  Empty graph"
		if state.FilterText != "" {
			msg = "  No nodes match the filter"
		}
		content.WriteString(tv.styles.Subtitle(msg) + "\n")
		rows--
	}

	end := ts.ScrollOffset + rows
	if end > len(ts.Rows) {
		end = len(ts.Rows)
	}
	written := 0
	for i := ts.ScrollOffset; i < end; i++ {
		content.WriteString(tv.renderTreeItem(state, ts.Rows[i], i == ts.SelectedIndex) + "\n")
		written++
	}
	for ; written < rows; written++ {
		content.WriteString("\n")
	}
	return content.String()
}

// renderTreeItem renders one row: indent, expansion icon, kind icon, label
// and op.
func (tv *treeView) renderTreeItem(state *State, item TreeItem, isSelected bool) string {
	styles := tv.styles.GetStyles()
	el := item.Element

	var line strings.Builder
	line.WriteString(strings.Repeat("  ", item.Depth))

	switch {
	case item.HasChildren && item.IsExpanded:
		line.WriteString(styles.TreeExpanded.Render(IconExpanded))
	case item.HasChildren:
		line.WriteString(styles.TreeCollapsed.Render(IconCollapsed))
	default:
		line.WriteString(styles.TreeBranch.Render("─"))
	}
	line.WriteString(" ")

	label := el.Label
	if state.FilterText != "" {
		label = el.Path
	}
	if len(label) > MaxDisplayNameLength {
		label = label[:TruncateLength] + EllipsisString
	}

	if el.IsMetanode() {
		line.WriteString(lipgloss.NewStyle().Foreground(tv.styles.GetTheme().Metanode).Bold(true).
			Render(tv.styles.KindIcon(el.Kind) + " " + label + state.Graph.Separator))
		line.WriteString(tv.styles.Muted(fmt.Sprintf(" (%d)", item.ChildCount)))
	} else {
		line.WriteString(tv.styles.OpColor(tv.styles.KindIcon(el.Kind), el.Color))
		line.WriteString(" ")
		if state.FilterText != "" {
			label = HighlightMatches(label, state.FilterText, func(s string) string {
				return lipgloss.NewStyle().Underline(true).Render(s)
			})
		}
		line.WriteString(label)
		line.WriteString(" ")
		line.WriteString(tv.styles.OpColor(el.OpName, el.Color))
	}

	marked := state.TreeState.Marked[el.ID]
	if marked {
		line.WriteString(" " + tv.styles.Icons().Highlight)
	}

	text := line.String()
	switch {
	case isSelected:
		return styles.TreeSelected.Render("▸ " + text)
	case marked:
		return "  " + styles.Highlighted.Render(text)
	default:
		return "  " + text
	}
}

// statsView shows graph statistics.
type statsView struct {
	styles StyleManager
}

// NewStatsView creates a new stats view.
func NewStatsView(styles StyleManager) View {
	return &statsView{styles: styles}
}

// Name returns the view's name.
func (sv *statsView) Name() string {
	return ViewStats
}

// Render renders the statistics dashboard.
func (sv *statsView) Render(state *State) string {
	width := state.WindowWidth
	if width < 40 {
		width = 80
	}
	t := sv.styles.GetTheme()
	stats := state.Graph.Stats

	boxes := lipgloss.JoinHorizontal(lipgloss.Top,
		sv.box(sv.styles.StatBox("NODES", stats.Leaves, t.Leaf)),
		sv.box(sv.styles.StatBox("SCOPES", stats.Metanodes, t.Metanode)),
		sv.box(sv.styles.StatBox("EDGES", stats.Edges, t.Edge)),
		sv.box(sv.styles.StatBox("MAX DEPTH", stats.MaxDepth, t.Secondary)),
	)

	var b strings.Builder
	b.WriteString(sv.styles.Header("GRAPH STATISTICS", width))
	b.WriteString("\n\n")
	b.WriteString(boxes)
	b.WriteString("\n\n")

	if state.Controller != nil {
		collapsed := 0
		for _, id := range state.Graph.Metanodes() {
			if state.Controller.Collapsed(id) {
				collapsed++
			}
		}
		b.WriteString(fmt.Sprintf("  Collapsed scopes  %s %d/%d\n",
			sv.styles.ProgressBar(collapsed, stats.Metanodes, 20), collapsed, stats.Metanodes))
		if id, ok := highlighted(state); ok {
			b.WriteString("  Highlighted       " + displayName(state, id) + "\n")
		}
		b.WriteString("\n")
	}

	ops := make([]string, 0, len(stats.Ops))
	for op := range stats.Ops {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		if stats.Ops[ops[i]] != stats.Ops[ops[j]] {
			return stats.Ops[ops[i]] > stats.Ops[ops[j]]
		}
		return ops[i] < ops[j]
	})
	if len(ops) > 10 {
		ops = ops[:10]
	}

	if len(ops) > 0 {
		b.WriteString(sv.styles.Title("  TOP OPS") + "\n")
		for _, op := range ops {
			b.WriteString(fmt.Sprintf("  %-20s %s %d\n",
				sv.styles.OpColor(op, graph.ColorFor(op)),
				sv.styles.ProgressBar(stats.Ops[op], stats.Leaves, 20),
				stats.Ops[op]))
		}
	}

	b.WriteString("\n")
	b.WriteString(sv.styles.Footer("[Esc]Back [?]Help", width))
	return b.String()
}

func (sv *statsView) box(content string) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(sv.styles.GetTheme().Border).
		Padding(0, 2).
		MarginRight(1).
		Render(content)
}

// Update handles view-specific updates.
func (sv *statsView) Update(msg tea.Msg, state *State) (*State, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q", "s":
			goBack(state)
		}
	}
	return state, nil
}

// CanHandle returns true if this view can handle the given message.
func (sv *statsView) CanHandle(msg tea.Msg, state *State) bool {
	return state.CurrentView == ViewStats
}

// helpView lists the key bindings.
type helpView struct {
	styles StyleManager
}

// NewHelpView creates a new help view.
func NewHelpView(styles StyleManager) View {
	return &helpView{styles: styles}
}

// Name returns the view's name.
func (hv *helpView) Name() string {
	return ViewHelp
}

// Render renders the help overlay.
func (hv *helpView) Render(state *State) string {
	width := state.WindowWidth
	if width < 40 {
		width = 80
	}
	if width > 100 {
		width = 100
	}

	t := hv.styles.GetTheme()
	sectionStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Success).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(t.Text)

	var content strings.Builder
	for i, section := range DefaultKeyBindings() {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(sectionStyle.Render(section.Title) + "\n")
		for _, binding := range section.Bindings {
			content.WriteString(fmt.Sprintf("  %s %s\n",
				keyStyle.Render(binding.Key),
				descStyle.Render(binding.Description)))
		}
	}

	box := hv.styles.GetStyles().Box.Width(width - 4)

	return hv.styles.Header("KEYBOARD SHORTCUTS", width) + "\n" +
		box.Render(content.String()) + "\n" +
		hv.styles.Footer("[?]Close [Esc]Close", width)
}

// Update handles view-specific updates.
func (hv *helpView) Update(msg tea.Msg, state *State) (*State, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "?", "esc", "q":
			goBack(state)
		}
	}
	return state, nil
}

// CanHandle returns true if this view can handle the given message.
func (hv *helpView) CanHandle(msg tea.Msg, state *State) bool {
	return state.CurrentView == ViewHelp
}

// switchTo opens an overlay view, remembering where to return.
func switchTo(state *State, view string) {
	if state.CurrentView == view {
		return
	}
	state.PreviousView = state.CurrentView
	state.CurrentView = view
}

// goBack returns from an overlay view.
func goBack(state *State) {
	state.CurrentView = state.PreviousView
	if state.CurrentView == "" || state.CurrentView == ViewHelp || state.CurrentView == ViewStats {
		state.CurrentView = ViewTree
	}
	state.PreviousView = ""
}

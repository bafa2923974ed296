package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ikari-pl/go-graphscope/internal/graph"
	"github.com/ikari-pl/go-graphscope/internal/tensor"
)

// detailsView shows the metadata, connections and tensor attributes of one
// element.
type detailsView struct {
	styles StyleManager
}

// NewDetailsView creates a new details view.
func NewDetailsView(styles StyleManager) View {
	return &detailsView{styles: styles}
}

// Name returns the view's name.
func (dv *detailsView) Name() string {
	return ViewDetails
}

// openDetails shows el in the details view, remembering the current view.
func openDetails(state *State, el *graph.Element, from string) {
	if el == nil {
		return
	}
	vs := ViewState{View: from, Selected: state.Selected}
	if state.TreeState != nil {
		vs.TreeIndex = state.TreeState.SelectedIndex
	}
	if state.DetailsState != nil {
		vs.DetailsIndex = state.DetailsState.SelectedIndex
	}
	if state.Navigator != nil {
		state.Navigator.PushState(vs)
		state.Navigator.SetPath(state.Graph, el.ID)
	}

	state.Selected = el
	state.DetailsState = buildDetails(state)
	state.CurrentView = ViewDetails
}

// back returns to the view saved by the last openDetails or openReveal.
func back(state *State) {
	var vs ViewState
	ok := false
	if state.Navigator != nil {
		vs, ok = state.Navigator.PopState()
	}
	if !ok {
		state.CurrentView = ViewTree
		state.Selected = nil
		state.DetailsState = nil
		return
	}

	state.CurrentView = vs.View
	state.Selected = vs.Selected
	state.RevealState = nil
	if vs.View == ViewDetails && vs.Selected != nil {
		state.DetailsState = buildDetails(state)
		if vs.DetailsIndex < len(state.DetailsState.SelectableItems) {
			state.DetailsState.SelectedIndex = vs.DetailsIndex
		}
		state.Navigator.SetPath(state.Graph, vs.Selected.ID)
	} else {
		state.DetailsState = nil
	}
}

// buildDetails collects the tensor attributes and navigable lines of the
// selected element.
func buildDetails(state *State) *DetailsViewState {
	el := state.Selected
	ds := &DetailsViewState{ElementID: el.ID}
	g := state.Graph

	switch el.Kind {
	case graph.KindLeaf:
		for _, id := range g.Incoming(el.ID) {
			ds.SelectableItems = append(ds.SelectableItems, edgeItem(g, ItemIncoming, id))
		}
		for _, id := range g.Outgoing(el.ID) {
			ds.SelectableItems = append(ds.SelectableItems, edgeItem(g, ItemOutgoing, id))
		}
	case graph.KindMetanode:
		for _, id := range g.Children(el.ID) {
			child, _ := g.Element(id)
			text := child.Label
			if child.IsMetanode() {
				text += g.Separator
			} else {
				text += " " + child.OpName
			}
			ds.SelectableItems = append(ds.SelectableItems, SelectableItem{ItemType: ItemChild, ElementID: id, DisplayText: text})
		}
	case graph.KindEdge:
		for _, id := range []string{el.Source, el.Target} {
			node, ok := g.Element(id)
			if !ok {
				continue
			}
			ds.SelectableItems = append(ds.SelectableItems, SelectableItem{ItemType: ItemEndpoint, ElementID: id, DisplayText: node.Path})
		}
	}

	for _, key := range sortedKeys(el.Other) {
		v, ok := tensor.FromAttribute(el.Other[key])
		if !ok {
			continue
		}
		r, err := state.Tensors.Render(v)
		if err != nil {
			r = tensor.Rendering{Text: "invalid: " + err.Error()}
		}
		ds.Tensors = append(ds.Tensors, TensorEntry{Key: key, Value: v, Rendering: r})
		ds.SelectableItems = append(ds.SelectableItems, SelectableItem{
			ItemType:    ItemTensor,
			TensorIndex: len(ds.Tensors) - 1,
			DisplayText: key,
		})
	}

	return ds
}

func edgeItem(g *graph.ElementGraph, itemType, id string) SelectableItem {
	item := SelectableItem{ItemType: itemType, ElementID: id, DisplayText: id}
	edge, ok := g.Element(id)
	if !ok {
		return item
	}
	peer := edge.Target
	arrow := "→ "
	if itemType == ItemIncoming {
		peer, arrow = edge.Source, "← "
	}
	if node, ok := g.Element(peer); ok {
		item.DisplayText = arrow + node.Path
	}
	if edge.Label != "" {
		item.DisplayText += " [" + edge.Label + "]"
	}
	return item
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Render renders the details of the selected element.
func (dv *detailsView) Render(state *State) string {
	width := state.WindowWidth
	if width < 40 {
		width = 80
	}
	el := state.Selected
	if el == nil {
		return dv.styles.Header("DETAILS", width) + "\n" + dv.styles.Subtitle("  Nothing selected")
	}
	if state.DetailsState == nil || state.DetailsState.ElementID != el.ID {
		state.DetailsState = buildDetails(state)
	}
	ds := state.DetailsState
	styles := dv.styles.GetStyles()

	var b strings.Builder
	b.WriteString(dv.styles.Header("DETAILS │ "+displayName(state, el.ID), width))
	b.WriteString("\n")
	if state.Navigator != nil && state.ShowBreadcrumb {
		if path := state.Navigator.RenderPath(); path != "" {
			b.WriteString(styles.Breadcrumb.Width(width).Render(path))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n  " + dv.styles.KindBadge(el.Kind) + " " + dv.styles.Title(el.Label) + "\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString("  " + styles.DetailLabel.Render(label) + styles.DetailValue.Render(value) + "\n")
	}

	field("ID", el.ID)
	switch el.Kind {
	case graph.KindEdge:
		field("Shape", el.Label)
	default:
		field("Path", el.Path)
		field("Op", el.Op)
		if el.OpName != "" {
			b.WriteString("  " + styles.DetailLabel.Render("Op name") + dv.styles.OpColor(el.OpName+" ■ "+el.Color, el.Color) + "\n")
		}
	}
	if el.Parent != "" {
		field("Scope", displayName(state, el.Parent))
	}
	if id, ok := highlighted(state); ok && id == el.ID {
		field("Highlighted", "yes")
	}

	var attrs []string
	for _, key := range sortedKeys(el.Other) {
		if _, ok := tensor.FromAttribute(el.Other[key]); ok {
			continue
		}
		attrs = append(attrs, fmt.Sprintf("%s = %v", key, el.Other[key]))
	}
	if len(attrs) > 0 {
		b.WriteString("\n  " + dv.styles.Title("Attributes") + "\n")
		for _, a := range attrs {
			b.WriteString("    " + a + "\n")
		}
	}

	section := ""
	for i, item := range ds.SelectableItems {
		if title := sectionTitle(item.ItemType); title != section {
			section = title
			b.WriteString("\n  " + dv.styles.Title(title) + "\n")
		}

		text := item.DisplayText
		if item.ItemType == ItemTensor {
			text = dv.renderTensorLine(ds.Tensors[item.TensorIndex])
		}
		if i == ds.SelectedIndex {
			b.WriteString("  " + styles.TreeSelected.Render("▸ "+text) + "\n")
		} else {
			b.WriteString("    " + text + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dv.styles.Footer("[j/k]Move [↵]Click/Reveal [o]Open [X]Export [Esc]Back", width))
	return b.String()
}

func (dv *detailsView) renderTensorLine(entry TensorEntry) string {
	r := entry.Rendering
	text := fmt.Sprintf("%s %s: ", dv.styles.Icons().Tensor, entry.Key)
	switch r.Mode {
	case tensor.ModeUnknown:
		text += dv.styles.Subtitle(r.Text)
	case tensor.ModeCollapsed:
		text += dv.styles.Info(r.Text)
		for _, a := range r.Actions {
			text += " " + dv.styles.Muted("["+string(a)+"]")
		}
	default:
		text += r.Text
	}
	return text
}

func sectionTitle(itemType string) string {
	switch itemType {
	case ItemIncoming:
		return "Inputs"
	case ItemOutgoing:
		return "Outputs"
	case ItemChild:
		return "Contents"
	case ItemEndpoint:
		return "Endpoints"
	default:
		return "Tensors"
	}
}

// Update handles view-specific updates.
func (dv *detailsView) Update(msg tea.Msg, state *State) (*State, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || state.Selected == nil {
		return state, nil
	}
	if state.DetailsState == nil || state.DetailsState.ElementID != state.Selected.ID {
		state.DetailsState = buildDetails(state)
	}
	ds := state.DetailsState

	switch keyMsg.String() {
	case "j", "down":
		if ds.SelectedIndex < len(ds.SelectableItems)-1 {
			ds.SelectedIndex++
		}
	case "k", "up":
		if ds.SelectedIndex > 0 {
			ds.SelectedIndex--
		}
	case "esc", "q", "backspace":
		back(state)

	case "enter":
		item, ok := dv.selectedItem(ds)
		if !ok {
			return state, nil
		}
		if item.ItemType != ItemTensor {
			el, _ := state.Graph.Element(item.ElementID)
			return state, click(state, el)
		}
		entry := ds.Tensors[item.TensorIndex]
		switch entry.Rendering.Mode {
		case tensor.ModeCollapsed:
			openReveal(state, entry)
		case tensor.ModeUnknown:
			setStatus(state, StatusInfo, entry.Key+": value "+tensor.UnknownText)
		default:
			setStatus(state, StatusInfo, entry.Key+" is shown in full")
		}

	case "o":
		item, ok := dv.selectedItem(ds)
		if !ok || item.ItemType == ItemTensor {
			return state, nil
		}
		target := item.ElementID
		if item.ItemType == ItemIncoming || item.ItemType == ItemOutgoing {
			edge, _ := state.Graph.Element(item.ElementID)
			target = edge.Target
			if item.ItemType == ItemIncoming {
				target = edge.Source
			}
		}
		if el, ok := state.Graph.Element(target); ok {
			openDetails(state, el, ViewDetails)
		}

	case "X":
		item, ok := dv.selectedItem(ds)
		if !ok || item.ItemType != ItemTensor {
			setStatus(state, StatusWarning, "Select a tensor to export")
			return state, nil
		}
		return state, exportCmd(state, ds.Tensors[item.TensorIndex])
	}

	return state, nil
}

func (dv *detailsView) selectedItem(ds *DetailsViewState) (SelectableItem, bool) {
	if ds.SelectedIndex < 0 || ds.SelectedIndex >= len(ds.SelectableItems) {
		return SelectableItem{}, false
	}
	return ds.SelectableItems[ds.SelectedIndex], true
}

// CanHandle returns true if this view can handle the given message.
func (dv *detailsView) CanHandle(msg tea.Msg, state *State) bool {
	return state.CurrentView == ViewDetails
}

// exportCmd builds the artifact of entry and hands it to the model. Unknown
// values cannot be exported.
func exportCmd(state *State, entry TensorEntry) tea.Cmd {
	art, err := state.Tensors.Export(entry.Value)
	if err != nil {
		setStatus(state, StatusError, fmt.Sprintf("Cannot export %s: %v", entry.Key, err))
		if state.Metrics != nil {
			state.Metrics.ObserveExport("json", err)
		}
		return nil
	}
	return func() tea.Msg {
		return exportRequestMsg{label: entry.Key, artifact: art}
	}
}

// revealView shows the complete nested text of a collapsed tensor.
type revealView struct {
	styles StyleManager
}

// NewRevealView creates a new reveal view.
func NewRevealView(styles StyleManager) View {
	return &revealView{styles: styles}
}

// Name returns the view's name.
func (rv *revealView) Name() string {
	return ViewReveal
}

// openReveal switches to the reveal view for entry.
func openReveal(state *State, entry TensorEntry) {
	text, err := state.Tensors.Detail(entry.Value)
	if err != nil {
		setStatus(state, StatusError, fmt.Sprintf("Cannot reveal %s: %v", entry.Key, err))
		return
	}

	vs := ViewState{View: ViewDetails, Selected: state.Selected}
	if state.DetailsState != nil {
		vs.DetailsIndex = state.DetailsState.SelectedIndex
	}
	if state.Navigator != nil {
		state.Navigator.PushState(vs)
	}

	w, h := revealSize(state)
	vp := viewport.New(w, h)
	vp.SetContent(text)

	state.RevealState = &RevealViewState{
		Key:      entry.Key,
		Title:    fmt.Sprintf("%s %s", entry.Key, entry.Rendering.Text),
		Value:    entry.Value,
		Viewport: vp,
	}
	state.CurrentView = ViewReveal
}

func revealSize(state *State) (int, int) {
	w, h := state.WindowWidth, state.WindowHeight-4
	if w < 40 {
		w = 80
	}
	if h < 3 {
		h = 3
	}
	return w, h
}

// Render renders the view.
func (rv *revealView) Render(state *State) string {
	rs := state.RevealState
	width, _ := revealSize(state)
	if rs == nil {
		return rv.styles.Header("TENSOR", width)
	}
	footer := fmt.Sprintf("[j/k]Scroll [X]Export [Esc]Back %3.f%%", rs.Viewport.ScrollPercent()*100)
	return rv.styles.Header("TENSOR │ "+rs.Title, width) + "\n" +
		rs.Viewport.View() + "\n" +
		rv.styles.Footer(footer, width)
}

// Update handles view-specific updates.
func (rv *revealView) Update(msg tea.Msg, state *State) (*State, tea.Cmd) {
	rs := state.RevealState
	if rs == nil {
		back(state)
		return state, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q", "backspace":
			back(state)
			return state, nil
		case "X":
			return state, exportCmd(state, TensorEntry{Key: rs.Key, Value: rs.Value})
		}
	}

	var cmd tea.Cmd
	rs.Viewport, cmd = rs.Viewport.Update(msg)
	return state, cmd
}

// CanHandle returns true if this view can handle the given message.
func (rv *revealView) CanHandle(msg tea.Msg, state *State) bool {
	return state.CurrentView == ViewReveal
}

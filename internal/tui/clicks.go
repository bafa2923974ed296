package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ikari-pl/go-graphscope/internal/graph"
	"github.com/ikari-pl/go-graphscope/internal/interaction"
	"github.com/ikari-pl/go-graphscope/internal/tensor"
)

// expireMsg fires when the double-click window of an armed metanode click
// has elapsed.
type expireMsg struct {
	token uint64
}

// exportRequestMsg asks the model to write an artifact through its sink.
type exportRequestMsg struct {
	label    string
	artifact tensor.Artifact
}

// exportDoneMsg reports the outcome of an export.
type exportDoneMsg struct {
	label string
	path  string
	err   error
}

// reloadMsg reports the outcome of a rebuild.
type reloadMsg struct {
	graph    *graph.ElementGraph
	duration time.Duration
	err      error
}

// click feeds a click on target (nil for the background) to the controller
// and schedules the expiry of an armed metanode click.
func click(state *State, target *graph.Element) tea.Cmd {
	if state.Controller == nil {
		return nil
	}

	kind := ""
	if target != nil {
		kind = string(target.Kind)
	}
	if state.Metrics != nil {
		state.Metrics.ObserveClick(kind)
	}

	res := state.Controller.Click(target)
	switch res.Action {
	case interaction.ActionArmed:
		p := res.Pending
		return tea.Tick(p.After, func(time.Time) tea.Msg {
			return expireMsg{token: p.Token}
		})
	case interaction.ActionToggled:
		verb := "Expanded"
		if state.Controller.Collapsed(res.ID) {
			verb = "Collapsed"
		}
		setStatus(state, StatusInfo, fmt.Sprintf("%s %s", verb, displayName(state, res.ID)))
	case interaction.ActionHighlighted:
		setStatus(state, StatusInfo, "Highlighted "+displayName(state, res.ID))
	case interaction.ActionCleared:
		setStatus(state, StatusInfo, "Highlight cleared")
	}
	return nil
}

// expire resolves an armed click once its window has elapsed.
func expire(state *State, token uint64) {
	if state.Controller == nil {
		return
	}
	if res := state.Controller.Expire(token); res.Action == interaction.ActionCleared {
		setStatus(state, StatusInfo, "Highlight cleared")
	}
}

func highlighted(state *State) (string, bool) {
	if state.Controller == nil {
		return "", false
	}
	return state.Controller.Highlighted()
}

func setStatus(state *State, kind, msg string) {
	state.StatusType = kind
	state.StatusMessage = msg
}

// displayName returns the path of a node or scope, or the endpoints of an
// edge.
func displayName(state *State, id string) string {
	if state.Graph == nil {
		return id
	}
	el, ok := state.Graph.Element(id)
	if !ok {
		return id
	}
	if el.Kind != graph.KindEdge {
		return el.Path
	}
	src, _ := state.Graph.Element(el.Source)
	dst, _ := state.Graph.Element(el.Target)
	if src == nil || dst == nil {
		return id
	}
	return src.Path + " → " + dst.Path
}

package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikari-pl/go-graphscope/internal/graph"
	"github.com/ikari-pl/go-graphscope/internal/metrics"
)

func newService() graph.Service {
	logger := testLogger()
	return graph.NewService(logger, graph.NewBuilder(logger, "/"), graph.NewRepository(logger))
}

func writeGraph(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestRunRejectsNilGraph(t *testing.T) {
	err := NewTUI(testLogger(), Options{}).Run(context.Background(), nil)
	if err == nil {
		t.Error("Run(nil) should return an error")
	}
}

func TestQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		quit bool
	}{
		{"q in tree", []string{"q"}, true},
		{"esc in tree", []string{"esc"}, true},
		{"ctrl+c", []string{"ctrl+c"}, true},
		{"q in help", []string{"?", "q"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, Options{})
			cmd := press(m, tt.keys...)
			quit := false
			if cmd != nil {
				_, quit = cmd().(tea.QuitMsg)
			}
			if quit != tt.quit {
				t.Errorf("quit = %v, want %v", quit, tt.quit)
			}
		})
	}
}

func TestWindowResize(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 8})

	assert.Equal(t, 100, m.state.WindowWidth)
	assert.Equal(t, 8, m.state.WindowHeight)

	press(m, "e", "G")
	m.View()
	assert.Equal(t, 6, m.state.TreeState.SelectedIndex)
	assert.Equal(t, 4, m.state.TreeState.ScrollOffset, "three rows fit, the last one must be on screen")
}

func TestViewIncludesStatus(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	assert.False(t, strings.HasSuffix(m.View(), "Highlight cleared"))
	press(m, "x")
	assert.True(t, strings.Contains(m.View(), "Highlight cleared"))
}

func TestReload(t *testing.T) {
	path := writeGraph(t, testGraphJSON)
	collector := metrics.NewCollector()
	m, _ := newTestModel(t, Options{Service: newService(), InputFile: path, Metrics: collector})

	press(m, "e")
	selectRow(t, m, "node:dense/kernel")
	press(m, "enter", "d")
	require.Equal(t, ViewDetails, m.state.CurrentView)

	smaller := `{"nodes": [{"id": 0, "name": "solo/op", "op": "Relu", "op_name": "Relu"}], "edges": []}`
	require.NoError(t, os.WriteFile(path, []byte(smaller), 0o644))

	cmd := press(m, "R")
	require.NotNil(t, cmd)
	runCmds(m, cmd)

	assert.Equal(t, StatusSuccess, m.state.StatusType, m.state.StatusMessage)
	assert.Equal(t, "Reloaded: 1 nodes, 1 scopes, 0 edges", m.state.StatusMessage)
	assert.Equal(t, ViewTree, m.state.CurrentView)
	assert.Nil(t, m.state.Selected)
	assert.Equal(t, 0, m.navigator.GetDepth())
	assert.Empty(t, m.state.TreeState.Marked)

	_, highlighted := m.state.Controller.Highlighted()
	assert.False(t, highlighted)
	assert.True(t, m.state.Controller.Collapsed("scope:solo"), "a rebuilt graph starts collapsed")
	assert.Equal(t, []string{"scope:solo"}, rowIDs(m))

	builds, err := testutil.GatherAndCount(collector.Registry(), "graphscope_builds_total")
	require.NoError(t, err)
	assert.Equal(t, 1, builds)
}

func TestReloadFailureKeepsGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	m, _ := newTestModel(t, Options{Service: newService(), InputFile: path})
	before := m.state.Graph

	press(m, "e")
	runCmds(m, press(m, "R"))

	assert.Equal(t, StatusError, m.state.StatusType)
	assert.Contains(t, m.state.StatusMessage, "Reload failed")
	assert.Same(t, before, m.state.Graph)
	assert.False(t, m.state.Controller.Collapsed("scope:dense"), "failed reload keeps the interaction state")
}

func TestReloadUnavailable(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	assert.Nil(t, press(m, "R"))
	assert.Equal(t, StatusWarning, m.state.StatusType)
}

func TestClickMetrics(t *testing.T) {
	collector := metrics.NewCollector()
	m, _ := newTestModel(t, Options{Metrics: collector})

	selectRow(t, m, "node:input")
	press(m, "enter", "x")

	clicks, err := testutil.GatherAndCount(collector.Registry(), "graphscope_clicks_total")
	require.NoError(t, err)
	assert.Equal(t, 2, clicks, "one series per target kind")
}

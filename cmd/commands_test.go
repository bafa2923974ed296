package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikari-pl/go-graphscope/internal/config"
	"github.com/ikari-pl/go-graphscope/internal/graph"
	"github.com/ikari-pl/go-graphscope/internal/lint"
	"github.com/ikari-pl/go-graphscope/internal/metrics"
	"github.com/ikari-pl/go-graphscope/internal/output"
)

// mockTUI implements tui.TUI for testing
type mockTUI struct {
	runCalled bool
	runErr    error
	graph     *graph.ElementGraph
}

func (m *mockTUI) Run(ctx context.Context, g *graph.ElementGraph) error {
	m.runCalled = true
	m.graph = g
	return m.runErr
}

func openTestGraph(t *testing.T, s *session) *graph.ElementGraph {
	t.Helper()
	g, err := s.open(context.Background(), s.service())
	require.NoError(t, err)
	return g
}

// =============================================================================
// view
// =============================================================================

func TestRunView(t *testing.T) {
	s := testSession(t, writeFile(t, "graph.json", testGraphJSON), func(c *config.Config) { c.Verbose = true })
	svc := s.service()
	g := openTestGraph(t, s)
	app := &mockTUI{}

	require.NoError(t, runView(context.Background(), s, svc, g, app))
	assert.True(t, app.runCalled)
	assert.Same(t, g, app.graph)
}

func TestRunViewError(t *testing.T) {
	s := testSession(t, writeFile(t, "graph.json", testGraphJSON), nil)
	g := openTestGraph(t, s)

	err := runView(context.Background(), s, s.service(), g, &mockTUI{runErr: errors.New("terminal gone")})
	assert.ErrorContains(t, err, "TUI error: terminal gone")
}

func TestViewOptions(t *testing.T) {
	s := testSession(t, "/tmp/g.json", func(c *config.Config) {
		c.Theme = "neon"
		c.DisplayThreshold = 4
		c.MouseEnabled = false
	})
	s.collector = metrics.NewCollector()

	opts := viewOptions(s, s.service())
	assert.Equal(t, "neon", opts.Theme)
	assert.Equal(t, 4, opts.Threshold)
	assert.False(t, opts.Mouse)
	assert.Equal(t, s.cfg.DoubleClickWindow, opts.Window)
	assert.Equal(t, "/tmp/g.json", opts.InputFile)
	assert.NotNil(t, opts.Service)
	assert.NotNil(t, opts.Sink)
	assert.Same(t, s.collector, opts.Metrics)
}

// =============================================================================
// export
// =============================================================================

func TestRunExportStdout(t *testing.T) {
	s := testSession(t, writeFile(t, "graph.json", testGraphJSON), nil)

	var buf bytes.Buffer
	require.NoError(t, runExport(context.Background(), s, &buf))

	var doc output.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc), "tui format falls back to json")
	require.NotEmpty(t, doc.Elements)
	assert.Equal(t, "scope:dense", doc.Elements[0].ID)
}

func TestRunExportFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "graph.dot")
	s := testSession(t, writeFile(t, "graph.json", testGraphJSON), func(c *config.Config) {
		c.OutputFormat = "dot"
		c.OutputFile = out
	})

	var buf bytes.Buffer
	require.NoError(t, runExport(context.Background(), s, &buf))
	assert.Contains(t, buf.String(), "Wrote dot (8 elements) to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "digraph ComputationGraph {"))
}

func TestRunExportUnknownFormat(t *testing.T) {
	out := filepath.Join(t.TempDir(), "graph.out")
	s := testSession(t, writeFile(t, "graph.json", testGraphJSON), func(c *config.Config) {
		c.OutputFormat = "svg"
		c.OutputFile = out
	})

	err := runExport(context.Background(), s, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown output format")
	assert.NoFileExists(t, out)
}

func TestRunExportBuildError(t *testing.T) {
	s := testSession(t, writeFile(t, "graph.json", `{"nodes": [{"id": 0, "name": "a//b"}], "edges": []}`), nil)
	s.collector = metrics.NewCollector()

	err := runExport(context.Background(), s, &bytes.Buffer{})
	assert.ErrorIs(t, err, graph.ErrMalformedName)
}

// =============================================================================
// inspect
// =============================================================================

const lintGraphJSON = `{
  "nodes": [
    {"id": 0, "name": "a", "op": "Placeholder", "op_name": "Placeholder"},
    {"id": 1, "name": "lonely", "op": "Const", "op_name": "Const",
     "other": {"w": {"Only": ["F32", [3], [1, 2]]}}}
  ],
  "edges": [{"id": 0, "scr_node_id": 0, "dst_node_id": 0}]
}`

func TestRunInspect(t *testing.T) {
	tests := []struct {
		name     string
		graph    string
		setup    func(*config.Config)
		wantCode int
		want     []string
	}{
		{
			name:     "clean graph",
			graph:    testGraphJSON,
			setup:    func(c *config.Config) { c.LintFormat = "text-no-color" },
			wantCode: 0,
			want:     []string{"Nodes", "Scopes", "MatMul", "No issues found"},
		},
		{
			name:     "errors fail",
			graph:    lintGraphJSON,
			setup:    func(c *config.Config) { c.LintFormat = "text-no-color" },
			wantCode: 1,
			want:     []string{"GS020", "GS001", "GS002", "1 error(s)"},
		},
		{
			name:  "disabled error passes",
			graph: lintGraphJSON,
			setup: func(c *config.Config) {
				c.LintFormat = "text-no-color"
				c.DisabledRules = []string{"malformed-tensor"}
			},
			wantCode: 0,
			want:     []string{"1 warning(s)"},
		},
		{
			name:  "strict warnings fail",
			graph: lintGraphJSON,
			setup: func(c *config.Config) {
				c.LintFormat = "github"
				c.DisabledRules = []string{"GS020"}
				c.FailOnWarning = true
			},
			wantCode: 1,
			want:     []string{"::warning file=", "title=orphan-node (GS001)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession(t, writeFile(t, "graph.json", tt.graph), tt.setup)

			var buf bytes.Buffer
			code, err := runInspect(context.Background(), s, &buf)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, code)
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRunInspectJSONHasNoBanner(t *testing.T) {
	s := testSession(t, writeFile(t, "graph.json", lintGraphJSON), func(c *config.Config) {
		c.LintFormat = "json"
		c.MinSeverity = "warning"
	})

	var buf bytes.Buffer
	code, err := runInspect(context.Background(), s, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, code)

	var out lint.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), "report must be pure JSON")
	assert.Equal(t, 2, out.Summary.Total)
	assert.Equal(t, 0, out.Summary.Info)
}

func TestLintConfig(t *testing.T) {
	c := config.NewConfig()
	c.MinSeverity = "error"
	c.FailOnWarning = true
	c.DisabledRules = []string{"GS001"}
	c.MaxFanOut = 5
	c.MaxScopeDepth = 0

	lc := lintConfig(c)
	assert.Equal(t, lint.SeverityError, lc.MinSeverity)
	assert.True(t, lc.FailOnWarning)
	assert.Equal(t, []string{"GS001"}, lc.DisabledRules)
	assert.Equal(t, 5, lc.Thresholds.MaxFanOut)
	assert.Equal(t, lint.DefaultConfig().Thresholds.MaxScopeDepth, lc.Thresholds.MaxScopeDepth, "zero keeps the default")
}

func TestListRules(t *testing.T) {
	var buf bytes.Buffer
	listRules(&buf, &lint.Config{DisabledRules: []string{"GS012"}})
	out := buf.String()

	for _, want := range []string{"lint rules", "GS001", "orphan-node", "GS021", "Usage:"} {
		assert.Contains(t, out, want)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "GS012") {
			assert.Contains(t, line, "✗")
		}
	}
}

// =============================================================================
// tensor
// =============================================================================

func TestRunTensorFile(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		mode    string
		want    string
		wantErr string
	}{
		{"inline", `{"Only": ["F32", [2, 2], [1, 2, 3, 4]]}`, "render", "t.json = [[1, 2], [3, 4]]", ""},
		{"scalar", `{"Only": ["I32", [], [7]]}`, "render", "t.json = 7", ""},
		{"collapsed", `{"Only": ["F32", [8], [1, 2, 3, 4, 5, 6, 7, 8]]}`, "render", "--mode reveal or --mode export", ""},
		{"unknown", `"Unknown"`, "render", "⚠ t.json = depends on input", ""},
		{"detail", `{"Only": ["F32", [8], [1, 2, 3, 4, 5, 6, 7, 8]]}`, "detail", "[1, 2, 3, 4, 5, 6, 7, 8]", ""},
		{"reveal alias", `{"Only": ["F32", [8], [1, 2, 3, 4, 5, 6, 7, 8]]}`, "reveal", "[1, 2, 3, 4, 5, 6, 7, 8]", ""},
		{"export unknown", `"Unknown"`, "export", "", "cannot be exported"},
		{"bad mode", `"Unknown"`, "plot", "", "unknown mode"},
		{"malformed", `{"Only": ["F32", [3], [1]]}`, "render", "", "invalid tensor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "t.json", tt.data)
			s := testSession(t, path, nil)

			var buf bytes.Buffer
			err := runTensor(context.Background(), s, []string{path}, tt.mode, &buf)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestRunTensorExport(t *testing.T) {
	path := writeFile(t, "graph.json", testGraphJSON)
	s := testSession(t, path, nil)
	s.collector = metrics.NewCollector()

	var buf bytes.Buffer
	require.NoError(t, runTensor(context.Background(), s, []string{path, "dense/kernel", "big"}, "export", &buf))

	exported := filepath.Join(s.cfg.ExportDir, "tensor.json")
	assert.Contains(t, buf.String(), "Exported dense/kernel.big to "+exported)
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3,4,5,6,7,8]", string(data))
}

func TestRunTensorFromGraph(t *testing.T) {
	path := writeFile(t, "graph.json", testGraphJSON)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{"by name", []string{path, "dense/kernel", "value"}, "dense/kernel.value = [[1, 2], [3, 4]]", ""},
		{"by id", []string{path, "node:dense/kernel", "pending"}, "depends on input", ""},
		{"missing element", []string{path, "dense/bias", "value"}, "", "no element"},
		{"missing attribute", []string{path, "dense/kernel", "bias"}, "", "no attribute"},
		{"not a tensor", []string{path, "dense/kernel", "note"}, "", "is not a tensor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession(t, path, nil)

			var buf bytes.Buffer
			err := runTensor(context.Background(), s, tt.args, "render", &buf)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

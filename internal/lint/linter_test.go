package lint

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if cfg.MinSeverity != SeverityInfo {
		t.Errorf("MinSeverity = %v, want %v", cfg.MinSeverity, SeverityInfo)
	}
	if cfg.FailOnWarning {
		t.Error("FailOnWarning should be false by default")
	}
	want := Thresholds{MaxFanOut: 32, MaxScopeDepth: 12, LargeTensor: 1 << 16}
	if diff := cmp.Diff(want, cfg.Thresholds); diff != "" {
		t.Errorf("Thresholds mismatch (-want +got):\n%s", diff)
	}
}

func TestStrictConfig(t *testing.T) {
	cfg := StrictConfig()
	if !cfg.FailOnWarning {
		t.Error("FailOnWarning should be true in strict config")
	}
	if cfg.MinSeverity != SeverityWarning {
		t.Errorf("MinSeverity = %v, want %v", cfg.MinSeverity, SeverityWarning)
	}
}

func TestNewLinter(t *testing.T) {
	l := NewLinter(nil)
	if l == nil {
		t.Fatal("NewLinter returned nil")
	}
	if len(l.rules) != 8 {
		t.Errorf("registered %d rules, want 8", len(l.rules))
	}

	seen := make(map[string]bool)
	for _, rule := range l.rules {
		if seen[rule.ID()] {
			t.Errorf("duplicate rule id %s", rule.ID())
		}
		seen[rule.ID()] = true
	}
}

func TestLinterRun(t *testing.T) {
	g := buildGraph(t, lintGraphJSON)

	result := NewLinter(DefaultConfig()).Run(context.Background(), g)

	type key struct{ RuleID, Path, Scope string }
	got := make([]key, len(result.Issues))
	for i, issue := range result.Issues {
		got[i] = key{issue.RuleID, issue.Path, issue.Scope}
	}
	want := []key{
		{"GS020", "lonely", ""},
		{"GS001", "lonely", ""},
		{"GS003", "x", ""},
		{"GS012", "b", ""},
		{"GS002", "loop", ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}

	if result.ErrorCount != 1 || result.WarnCount != 2 || result.InfoCount != 2 {
		t.Errorf("counts = %d/%d/%d, want 1/2/2", result.ErrorCount, result.WarnCount, result.InfoCount)
	}
	if result.TotalElements != g.Len() {
		t.Errorf("TotalElements = %d, want %d", result.TotalElements, g.Len())
	}
	if result.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", result.ExitCode)
	}
}

func TestLinterRunCleanGraph(t *testing.T) {
	g := buildGraph(t, `{
	  "nodes": [
	    {"id": 0, "name": "in", "op": "Placeholder", "op_name": "Placeholder"},
	    {"id": 1, "name": "out", "op": "Identity", "op_name": "Identity"}
	  ],
	  "edges": [{"id": 0, "scr_node_id": 0, "dst_node_id": 1}]
	}`)

	result := NewLinter(nil).Run(context.Background(), g)
	if len(result.Issues) != 0 {
		t.Errorf("Run() returned %+v, want no issues", result.Issues)
	}
	if !result.Passed(true) || result.ExitCode != 0 {
		t.Error("a clean graph should pass")
	}
}

func TestLinterIssueScope(t *testing.T) {
	g := buildGraph(t, `{
	  "nodes": [
	    {"id": 0, "name": "outer/inner/op", "op": "Relu", "op_name": "Relu"},
	    {"id": 1, "name": "outer/inner/lone", "op": "Relu", "op_name": "Relu"},
	    {"id": 2, "name": "outer/self", "op": "Add", "op_name": "Add"}
	  ],
	  "edges": [
	    {"id": 0, "scr_node_id": 0, "dst_node_id": 0},
	    {"id": 1, "scr_node_id": 2, "dst_node_id": 2}
	  ]
	}`)

	cfg := DefaultConfig()
	cfg.EnabledRules = []string{"orphan-node", "GS002"}
	result := NewLinter(cfg).Run(context.Background(), g)

	got := make(map[string]string)
	for _, issue := range result.Issues {
		got[issue.RuleID+" "+issue.Path] = issue.Scope
	}
	want := map[string]string{
		"GS001 outer/inner/lone": "outer/inner",
		"GS002 outer/inner/op":   "outer/inner",
		"GS002 outer/self":       "outer",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scopes mismatch (-want +got):\n%s", diff)
	}
}

func TestLinterRunContextCancellation(t *testing.T) {
	g := buildGraph(t, lintGraphJSON)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewLinter(nil).Run(ctx, g)
	if len(result.Issues) != 0 {
		t.Errorf("cancelled Run() returned %d issues", len(result.Issues))
	}
}

func TestLinterIsRuleEnabled(t *testing.T) {
	tests := []struct {
		name     string
		enabled  []string
		disabled []string
		rule     Rule
		want     bool
	}{
		{"all enabled by default", nil, nil, &OrphanNodeRule{}, true},
		{"disabled by id", nil, []string{"GS001"}, &OrphanNodeRule{}, false},
		{"disabled by name", nil, []string{"orphan-node"}, &OrphanNodeRule{}, false},
		{"other rule disabled", nil, []string{"GS002"}, &OrphanNodeRule{}, true},
		{"in enabled list", []string{"GS001"}, nil, &OrphanNodeRule{}, true},
		{"not in enabled list", []string{"GS002"}, nil, &OrphanNodeRule{}, false},
		{"disable wins", []string{"GS001"}, []string{"GS001"}, &OrphanNodeRule{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLinter(&Config{EnabledRules: tt.enabled, DisabledRules: tt.disabled})
			if got := l.isRuleEnabled(tt.rule); got != tt.want {
				t.Errorf("isRuleEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLinterShouldReport(t *testing.T) {
	tests := []struct {
		min      Severity
		severity Severity
		want     bool
	}{
		{SeverityInfo, SeverityInfo, true},
		{SeverityWarning, SeverityInfo, false},
		{SeverityWarning, SeverityError, true},
		{SeverityError, SeverityWarning, false},
	}

	for _, tt := range tests {
		l := NewLinter(&Config{MinSeverity: tt.min})
		if got := l.shouldReport(Issue{Severity: tt.severity}); got != tt.want {
			t.Errorf("min %s, issue %s: shouldReport() = %v, want %v", tt.min, tt.severity, got, tt.want)
		}
	}
}

func TestLinterMinSeverity(t *testing.T) {
	g := buildGraph(t, lintGraphJSON)

	result := NewLinter(StrictConfig()).Run(context.Background(), g)
	if result.InfoCount != 0 {
		t.Errorf("InfoCount = %d, want 0 at warning level", result.InfoCount)
	}
	if len(result.Issues) != 3 {
		t.Errorf("got %d issues, want 3", len(result.Issues))
	}
}

func TestLinterMaxIssues(t *testing.T) {
	g := buildGraph(t, lintGraphJSON)
	cfg := DefaultConfig()
	cfg.MaxIssues = 2

	result := NewLinter(cfg).Run(context.Background(), g)
	if len(result.Issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(result.Issues))
	}
	if result.Issues[0].RuleID != "GS020" {
		t.Errorf("first issue = %s, want the most severe", result.Issues[0].RuleID)
	}
	if result.ErrorCount != 1 || result.WarnCount != 1 || result.InfoCount != 0 {
		t.Errorf("counts = %d/%d/%d, want the reported issues only", result.ErrorCount, result.WarnCount, result.InfoCount)
	}
}

func TestLinterExitCode(t *testing.T) {
	g := buildGraph(t, lintGraphJSON)

	tests := []struct {
		name          string
		disabled      []string
		failOnWarning bool
		want          int
	}{
		{"errors fail", nil, false, 1},
		{"warnings pass", []string{"GS020"}, false, 0},
		{"warnings fail when strict", []string{"GS020"}, true, 1},
		{"info never fails", []string{"GS020", "GS001", "GS003"}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DisabledRules = tt.disabled
			cfg.FailOnWarning = tt.failOnWarning
			if got := NewLinter(cfg).Run(context.Background(), g).ExitCode; got != tt.want {
				t.Errorf("ExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLinterListRules(t *testing.T) {
	l := NewLinter(&Config{DisabledRules: []string{"GS012"}})

	rules := l.ListRules()
	if len(rules) != len(l.rules) {
		t.Fatalf("ListRules() returned %d, want %d", len(rules), len(l.rules))
	}
	for _, info := range rules {
		if info.ID == "" || info.Name == "" || info.Description == "" {
			t.Errorf("incomplete rule info %+v", info)
		}
		if wantEnabled := info.ID != "GS012"; info.Enabled != wantEnabled {
			t.Errorf("%s Enabled = %v, want %v", info.ID, info.Enabled, wantEnabled)
		}
	}
}

func TestResultPassed(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		strict bool
		want   bool
	}{
		{"clean", Result{}, true, true},
		{"errors", Result{ErrorCount: 1}, false, false},
		{"warnings lenient", Result{WarnCount: 1}, false, true},
		{"warnings strict", Result{WarnCount: 1}, true, false},
		{"info strict", Result{InfoCount: 3}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Passed(tt.strict); got != tt.want {
				t.Errorf("Passed(%v) = %v, want %v", tt.strict, got, tt.want)
			}
		})
	}
}

func TestResultSummary(t *testing.T) {
	if got := (&Result{}).Summary(); got != "No issues found" {
		t.Errorf("Summary() = %q", got)
	}
	r := &Result{ErrorCount: 1, WarnCount: 2, InfoCount: 3}
	if got, want := r.Summary(), "1 error(s), 2 warning(s), 3 info"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

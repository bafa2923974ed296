package lint

import (
	"context"
	"fmt"
	"sort"

	"github.com/ikari-pl/go-graphscope/internal/graph"
)

// Config holds linter configuration.
type Config struct {
	// MinSeverity is the minimum severity level to report
	MinSeverity Severity
	// EnabledRules contains the IDs of rules to enable (empty means all)
	EnabledRules []string
	// DisabledRules contains the IDs or names of rules to disable
	DisabledRules []string
	// FailOnWarning treats warnings as failures for CI
	FailOnWarning bool
	// MaxIssues is the maximum number of issues to report (0 = unlimited)
	MaxIssues  int
	Thresholds Thresholds
}

// Thresholds contains configurable thresholds for various rules.
type Thresholds struct {
	MaxFanOut     int `json:"maxFanOut"`
	MaxScopeDepth int `json:"maxScopeDepth"`
	LargeTensor   int `json:"largeTensor"` // element count
}

// DefaultConfig returns a default linter configuration.
func DefaultConfig() *Config {
	return &Config{
		MinSeverity: SeverityInfo,
		Thresholds: Thresholds{
			MaxFanOut:     32,
			MaxScopeDepth: 12,
			LargeTensor:   1 << 16,
		},
	}
}

// StrictConfig returns a strict configuration for CI.
func StrictConfig() *Config {
	cfg := DefaultConfig()
	cfg.FailOnWarning = true
	cfg.MinSeverity = SeverityWarning
	return cfg
}

// Result holds the results of a lint run.
type Result struct {
	Issues        []Issue `json:"issues"`
	ErrorCount    int     `json:"errorCount"`
	WarnCount     int     `json:"warningCount"`
	InfoCount     int     `json:"infoCount"`
	TotalElements int     `json:"totalElements"`
	ExitCode      int     `json:"exitCode"`
}

// Passed returns true if the lint run passed (no errors, and no warnings if strict).
func (r *Result) Passed(strict bool) bool {
	if r.ErrorCount > 0 {
		return false
	}
	if strict && r.WarnCount > 0 {
		return false
	}
	return true
}

// Summary returns a one-line summary of the results.
func (r *Result) Summary() string {
	if r.ErrorCount == 0 && r.WarnCount == 0 && r.InfoCount == 0 {
		return "No issues found"
	}
	return fmt.Sprintf("%d error(s), %d warning(s), %d info", r.ErrorCount, r.WarnCount, r.InfoCount)
}

// Linter orchestrates lint rule execution.
type Linter struct {
	config *Config
	rules  []Rule
}

// NewLinter creates a new linter with the given configuration.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	l := &Linter{
		config: cfg,
		rules:  make([]Rule, 0),
	}
	l.registerRules()

	return l
}

// registerRules registers all available lint rules.
func (l *Linter) registerRules() {
	// Structure (GS001-GS003)
	l.rules = append(l.rules, &OrphanNodeRule{})
	l.rules = append(l.rules, &SelfLoopRule{})
	l.rules = append(l.rules, &CycleRule{})

	// Performance and maintenance (GS010-GS012)
	l.rules = append(l.rules, NewHighFanOutRule(l.config.Thresholds.MaxFanOut))
	l.rules = append(l.rules, NewDeepScopeRule(l.config.Thresholds.MaxScopeDepth))
	l.rules = append(l.rules, &SingleChildScopeRule{})

	// Data (GS020-GS021)
	l.rules = append(l.rules, &MalformedTensorRule{})
	l.rules = append(l.rules, NewLargeConstantRule(l.config.Thresholds.LargeTensor))
}

// isRuleEnabled checks if a rule should be executed. Rules can be named by
// ID or by name.
func (l *Linter) isRuleEnabled(rule Rule) bool {
	for _, disabled := range l.config.DisabledRules {
		if disabled == rule.ID() || disabled == rule.Name() {
			return false
		}
	}

	if len(l.config.EnabledRules) > 0 {
		for _, enabled := range l.config.EnabledRules {
			if enabled == rule.ID() || enabled == rule.Name() {
				return true
			}
		}
		return false
	}

	return true
}

// shouldReport checks if an issue meets the minimum severity threshold.
func (l *Linter) shouldReport(issue Issue) bool {
	return issue.Severity.Level() >= l.config.MinSeverity.Level()
}

// Run executes all enabled lint rules against the graph.
func (l *Linter) Run(ctx context.Context, g *graph.ElementGraph) *Result {
	result := &Result{
		Issues:        make([]Issue, 0),
		TotalElements: g.Len(),
	}

	var allIssues []Issue
	for _, rule := range l.rules {
		select {
		case <-ctx.Done():
			return result
		default:
		}

		if !l.isRuleEnabled(rule) {
			continue
		}

		for _, issue := range rule.Check(ctx, g) {
			if l.shouldReport(issue) {
				issue.Scope = enclosingScope(g, issue.ElementID)
				allIssues = append(allIssues, issue)
			}
		}
	}

	// Most severe first, then by path so output is stable between runs
	sort.SliceStable(allIssues, func(i, j int) bool {
		a, b := allIssues[i], allIssues[j]
		if a.Severity.Level() != b.Severity.Level() {
			return a.Severity.Level() > b.Severity.Level()
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.RuleID < b.RuleID
	})

	for _, issue := range allIssues {
		if l.config.MaxIssues > 0 && len(result.Issues) >= l.config.MaxIssues {
			break
		}
		result.Issues = append(result.Issues, issue)

		switch issue.Severity {
		case SeverityError:
			result.ErrorCount++
		case SeverityWarning:
			result.WarnCount++
		case SeverityInfo:
			result.InfoCount++
		}
	}

	if result.ErrorCount > 0 {
		result.ExitCode = 1
	} else if l.config.FailOnWarning && result.WarnCount > 0 {
		result.ExitCode = 1
	}

	return result
}

// enclosingScope returns the path of the scope holding an element. Edges
// are placed in the scope of their source node.
func enclosingScope(g *graph.ElementGraph, id string) string {
	el, ok := g.Element(id)
	if !ok {
		return ""
	}
	if el.Kind == graph.KindEdge {
		if el, ok = g.Element(el.Source); !ok {
			return ""
		}
	}
	if el.Parent == "" {
		return ""
	}
	parent, ok := g.Element(el.Parent)
	if !ok {
		return ""
	}
	return parent.Path
}

// ListRules returns all available rules.
func (l *Linter) ListRules() []RuleInfo {
	info := make([]RuleInfo, 0, len(l.rules))
	for _, rule := range l.rules {
		info = append(info, RuleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Category:    rule.Category(),
			Severity:    rule.Severity(),
			Description: rule.Description(),
			Enabled:     l.isRuleEnabled(rule),
		})
	}
	return info
}

// RuleInfo provides information about a lint rule.
type RuleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Enabled     bool     `json:"enabled"`
}

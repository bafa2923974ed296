// Package lint checks element graphs for structural and data problems. It is
// designed for CI use, with configurable rules and several output formats.
package lint

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ikari-pl/go-graphscope/internal/graph"
	"github.com/ikari-pl/go-graphscope/internal/tensor"
)

// Severity represents the severity level of a lint issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Level returns the numeric level (higher = more severe).
func (s Severity) Level() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// ParseSeverity converts a flag value into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(s))); sev {
	case SeverityError, SeverityWarning, SeverityInfo:
		return sev, nil
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// Category represents the category of a lint rule.
type Category string

const (
	CategoryStructure   Category = "structure"
	CategoryPerformance Category = "performance"
	CategoryMaintenance Category = "maintenance"
	CategoryData        Category = "data"
)

// Issue represents a lint issue found in a graph.
type Issue struct {
	RuleID      string   `json:"ruleId"`
	RuleName    string   `json:"ruleName"`
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	Message     string   `json:"message"`
	Description string   `json:"description,omitempty"`
	Suggestion  string   `json:"suggestion,omitempty"`
	ElementID   string   `json:"elementId,omitempty"`
	Path        string   `json:"path,omitempty"`
	// Scope is the path of the enclosing scope; empty at the top level.
	Scope string `json:"scope,omitempty"`
}

// Rule defines a lint rule.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "GS001")
	ID() string
	// Name returns the human-readable name of the rule
	Name() string
	Category() Category
	Severity() Severity
	Description() string
	// Check executes the rule against the graph and returns any issues found
	Check(ctx context.Context, g *graph.ElementGraph) []Issue
}

// newIssue fills the rule metadata of an issue.
func newIssue(r Rule, el *graph.Element, msg, suggestion string) Issue {
	issue := Issue{
		RuleID:      r.ID(),
		RuleName:    r.Name(),
		Severity:    r.Severity(),
		Category:    r.Category(),
		Message:     msg,
		Description: r.Description(),
		Suggestion:  suggestion,
	}
	if el != nil {
		issue.ElementID = el.ID
		issue.Path = el.Path
	}
	return issue
}

// =============================================================================
// Structure Rules
// =============================================================================

// OrphanNodeRule flags nodes with no edges at all.
type OrphanNodeRule struct{}

func (r *OrphanNodeRule) ID() string         { return "GS001" }
func (r *OrphanNodeRule) Name() string       { return "orphan-node" }
func (r *OrphanNodeRule) Category() Category { return CategoryStructure }
func (r *OrphanNodeRule) Severity() Severity { return SeverityWarning }
func (r *OrphanNodeRule) Description() string {
	return "A node that neither consumes nor produces a tensor cannot influence the outputs."
}

func (r *OrphanNodeRule) Check(ctx context.Context, g *graph.ElementGraph) []Issue {
	var issues []Issue
	for _, el := range g.Elements() {
		if el.Kind != graph.KindLeaf {
			continue
		}
		if len(g.Incoming(el.ID)) == 0 && len(g.Outgoing(el.ID)) == 0 {
			issues = append(issues, newIssue(r, &el,
				fmt.Sprintf("Node '%s' has no connections", el.Path),
				"Check whether the node was left behind by graph pruning"))
		}
	}
	return issues
}

// SelfLoopRule flags edges whose source and target are the same node.
type SelfLoopRule struct{}

func (r *SelfLoopRule) ID() string         { return "GS002" }
func (r *SelfLoopRule) Name() string       { return "self-loop" }
func (r *SelfLoopRule) Category() Category { return CategoryStructure }
func (r *SelfLoopRule) Severity() Severity { return SeverityInfo }
func (r *SelfLoopRule) Description() string {
	return "An edge feeding a node's output back into itself."
}

func (r *SelfLoopRule) Check(ctx context.Context, g *graph.ElementGraph) []Issue {
	var issues []Issue
	for _, id := range g.Edges() {
		edge, _ := g.Element(id)
		if edge.Source != edge.Target {
			continue
		}
		node, _ := g.Element(edge.Source)
		issue := newIssue(r, edge, fmt.Sprintf("Edge %d loops on '%s'", edge.RawID, node.Path), "")
		issue.Path = node.Path
		issues = append(issues, issue)
	}
	return issues
}

// CycleRule flags dependency cycles between nodes.
type CycleRule struct{}

func (r *CycleRule) ID() string         { return "GS003" }
func (r *CycleRule) Name() string       { return "dependency-cycle" }
func (r *CycleRule) Category() Category { return CategoryStructure }
func (r *CycleRule) Severity() Severity { return SeverityWarning }
func (r *CycleRule) Description() string {
	return "Dataflow graphs are acyclic outside control-flow frames; a cycle elsewhere cannot be evaluated."
}

func (r *CycleRule) Check(ctx context.Context, g *graph.ElementGraph) []Issue {
	var issues []Issue
	for _, cycle := range graph.FindCycles(ctx, g) {
		issue := newIssue(r, nil, "Dependency cycle: "+cycle, "Cycles are expected only inside while loops")
		first, _, _ := strings.Cut(cycle, " -> ")
		if el, ok := g.Element(graph.LeafID(first)); ok {
			issue.ElementID = el.ID
			issue.Path = el.Path
		}
		issues = append(issues, issue)
	}
	return issues
}

// =============================================================================
// Performance Rules
// =============================================================================

// HighFanOutRule flags nodes feeding many consumers.
type HighFanOutRule struct {
	Threshold int
}

// NewHighFanOutRule creates the rule; a non-positive threshold selects 32.
func NewHighFanOutRule(threshold int) *HighFanOutRule {
	if threshold <= 0 {
		threshold = 32
	}
	return &HighFanOutRule{Threshold: threshold}
}

func (r *HighFanOutRule) ID() string         { return "GS010" }
func (r *HighFanOutRule) Name() string       { return "high-fan-out" }
func (r *HighFanOutRule) Category() Category { return CategoryPerformance }
func (r *HighFanOutRule) Severity() Severity { return SeverityWarning }
func (r *HighFanOutRule) Description() string {
	return "A tensor consumed by many nodes stays alive until its last consumer runs."
}

func (r *HighFanOutRule) Check(ctx context.Context, g *graph.ElementGraph) []Issue {
	var issues []Issue
	for _, el := range g.Elements() {
		if el.Kind != graph.KindLeaf {
			continue
		}
		if n := len(g.Outgoing(el.ID)); n > r.Threshold {
			issues = append(issues, newIssue(r, &el,
				fmt.Sprintf("Node '%s' feeds %d consumers (threshold: %d)", el.Path, n, r.Threshold),
				"Consider whether the value can be recomputed closer to its consumers"))
		}
	}
	return issues
}

// LargeConstantRule flags tensor attributes with many elements.
type LargeConstantRule struct {
	Threshold int
}

// NewLargeConstantRule creates the rule; a non-positive threshold selects
// 1<<16 elements.
func NewLargeConstantRule(threshold int) *LargeConstantRule {
	if threshold <= 0 {
		threshold = 1 << 16
	}
	return &LargeConstantRule{Threshold: threshold}
}

func (r *LargeConstantRule) ID() string         { return "GS021" }
func (r *LargeConstantRule) Name() string       { return "large-constant" }
func (r *LargeConstantRule) Category() Category { return CategoryPerformance }
func (r *LargeConstantRule) Severity() Severity { return SeverityInfo }
func (r *LargeConstantRule) Description() string {
	return "Large constants are embedded in the graph file and loaded eagerly."
}

func (r *LargeConstantRule) Check(ctx context.Context, g *graph.ElementGraph) []Issue {
	var issues []Issue
	for _, el := range g.Elements() {
		for _, key := range sortedKeys(el.Other) {
			v, ok := tensor.FromAttribute(el.Other[key])
			if !ok || !v.Known || len(v.Content) <= r.Threshold {
				continue
			}
			issues = append(issues, newIssue(r, &el,
				fmt.Sprintf("Attribute '%s' of '%s' holds %d elements", key, el.Path, len(v.Content)),
				"Load the weights from a checkpoint instead"))
		}
	}
	return issues
}

// =============================================================================
// Maintenance Rules
// =============================================================================

// DeepScopeRule flags scopes nested deeper than a threshold. Only the
// outermost offending scope of each subtree is reported.
type DeepScopeRule struct {
	Threshold int
}

// NewDeepScopeRule creates the rule; a non-positive threshold selects 12.
func NewDeepScopeRule(threshold int) *DeepScopeRule {
	if threshold <= 0 {
		threshold = 12
	}
	return &DeepScopeRule{Threshold: threshold}
}

func (r *DeepScopeRule) ID() string         { return "GS011" }
func (r *DeepScopeRule) Name() string       { return "deep-scope-nesting" }
func (r *DeepScopeRule) Category() Category { return CategoryMaintenance }
func (r *DeepScopeRule) Severity() Severity { return SeverityInfo }
func (r *DeepScopeRule) Description() string {
	return "Deeply nested name scopes are hard to navigate when collapsed."
}

func (r *DeepScopeRule) Check(ctx context.Context, g *graph.ElementGraph) []Issue {
	var issues []Issue
	for _, id := range g.Metanodes() {
		depth := len(g.Ancestors(id)) + 1
		if depth != r.Threshold+1 {
			continue
		}
		el, _ := g.Element(id)
		issues = append(issues, newIssue(r, el,
			fmt.Sprintf("Scope '%s' is nested %d levels deep (threshold: %d)", el.Path, depth, r.Threshold),
			"Flatten the name scopes when building the model"))
	}
	return issues
}

// SingleChildScopeRule flags scopes that wrap exactly one element.
type SingleChildScopeRule struct{}

func (r *SingleChildScopeRule) ID() string         { return "GS012" }
func (r *SingleChildScopeRule) Name() string       { return "single-child-scope" }
func (r *SingleChildScopeRule) Category() Category { return CategoryMaintenance }
func (r *SingleChildScopeRule) Severity() Severity { return SeverityInfo }
func (r *SingleChildScopeRule) Description() string {
	return "A scope with one child adds a click without grouping anything."
}

func (r *SingleChildScopeRule) Check(ctx context.Context, g *graph.ElementGraph) []Issue {
	var issues []Issue
	for _, id := range g.Metanodes() {
		if len(g.Children(id)) != 1 {
			continue
		}
		el, _ := g.Element(id)
		issues = append(issues, newIssue(r, el,
			fmt.Sprintf("Scope '%s' contains a single element", el.Path), ""))
	}
	return issues
}

// =============================================================================
// Data Rules
// =============================================================================

// MalformedTensorRule flags attributes in tensor wire form that do not
// decode into a valid value.
type MalformedTensorRule struct{}

func (r *MalformedTensorRule) ID() string         { return "GS020" }
func (r *MalformedTensorRule) Name() string       { return "malformed-tensor" }
func (r *MalformedTensorRule) Category() Category { return CategoryData }
func (r *MalformedTensorRule) Severity() Severity { return SeverityError }
func (r *MalformedTensorRule) Description() string {
	return "The content length must equal the product of the shape and the datatype must be known."
}

func (r *MalformedTensorRule) Check(ctx context.Context, g *graph.ElementGraph) []Issue {
	var issues []Issue
	for _, el := range g.Elements() {
		for _, key := range sortedKeys(el.Other) {
			m, ok := el.Other[key].(map[string]any)
			if !ok || len(m) != 1 {
				continue
			}
			if _, wire := m["Only"]; !wire {
				continue
			}
			if _, ok := tensor.FromAttribute(m); ok {
				continue
			}
			issues = append(issues, newIssue(r, &el,
				fmt.Sprintf("Attribute '%s' of '%s' is not a valid tensor", key, el.Path),
				"Re-export the graph; the value cannot be displayed"))
		}
	}
	return issues
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

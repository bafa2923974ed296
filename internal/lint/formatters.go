package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

func fprintf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

// Formatter defines the interface for output formatters.
type Formatter interface {
	Format(result *Result, w io.Writer) error
}

// NewFormatter creates a formatter for the given format type. Source is the
// graph file the result was produced from; formats that reference files
// point at it.
func NewFormatter(format, source string) Formatter {
	switch format {
	case "json":
		return &JSONFormatter{}
	case "github":
		return &GitHubFormatter{Source: source}
	case "sarif":
		return &SARIFFormatter{Source: source}
	case "checkstyle":
		return &CheckstyleFormatter{}
	case "text-no-color":
		return &TextFormatter{Color: false}
	default:
		return &TextFormatter{Color: true}
	}
}

// groupByScope groups issues by enclosing scope, keeping first-seen order.
func groupByScope(issues []Issue) ([]string, map[string][]Issue) {
	var order []string
	groups := make(map[string][]Issue)
	for _, issue := range issues {
		if _, ok := groups[issue.Scope]; !ok {
			order = append(order, issue.Scope)
		}
		groups[issue.Scope] = append(groups[issue.Scope], issue)
	}
	return order, groups
}

// =============================================================================
// Text Formatter (Human Readable)
// =============================================================================

// TextFormatter outputs human-readable text.
type TextFormatter struct {
	Color bool
}

func (f *TextFormatter) Format(result *Result, w io.Writer) error {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	blue := color.New(color.FgBlue)
	bold := color.New(color.Bold)
	title := color.New(color.Bold, color.FgBlue)
	dim := color.New(color.Faint)
	if !f.Color {
		for _, c := range []*color.Color{red, yellow, blue, bold, title, dim} {
			c.DisableColor()
		}
	}

	fprintf(w, "\n%s\n", title.Sprint("graphscope - Lint Results"))
	fprintf(w, "%s\n\n", dim.Sprint(strings.Repeat("═", 66)))

	if len(result.Issues) == 0 {
		fprintf(w, "%s\n\n", bold.Sprint("✓ No issues found!"))
		return nil
	}

	order, groups := groupByScope(result.Issues)
	for _, scope := range order {
		heading := scope
		if heading == "" {
			heading = "(top level)"
		}
		fprintln(w, bold.Sprint(heading))
		for _, issue := range groups[scope] {
			sev, icon := blue, "ℹ"
			switch issue.Severity {
			case SeverityError:
				sev, icon = red, "✖"
			case SeverityWarning:
				sev, icon = yellow, "⚠"
			}

			fprintf(w, "  %s %s %s\n", sev.Sprint(icon), dim.Sprint(issue.RuleID), issue.Message)
			if issue.Suggestion != "" {
				fprintf(w, "     %s\n", dim.Sprint("→ "+issue.Suggestion))
			}
		}
		fprintln(w)
	}

	fprintln(w, dim.Sprint(strings.Repeat("─", 66)))
	var summary []string
	if result.ErrorCount > 0 {
		summary = append(summary, red.Sprintf("%d error(s)", result.ErrorCount))
	}
	if result.WarnCount > 0 {
		summary = append(summary, yellow.Sprintf("%d warning(s)", result.WarnCount))
	}
	if result.InfoCount > 0 {
		summary = append(summary, blue.Sprintf("%d info", result.InfoCount))
	}
	fprintf(w, " %s\n\n", strings.Join(summary, ", "))

	return nil
}

// =============================================================================
// JSON Formatter
// =============================================================================

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// JSONOutput is the structure for JSON output.
type JSONOutput struct {
	Version       string  `json:"version"`
	Timestamp     string  `json:"timestamp"`
	TotalElements int     `json:"totalElements"`
	Summary       Summary `json:"summary"`
	Issues        []Issue `json:"issues"`
	ExitCode      int     `json:"exitCode"`
}

type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}

func (f *JSONFormatter) Format(result *Result, w io.Writer) error {
	output := JSONOutput{
		Version:       "1.0",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		TotalElements: result.TotalElements,
		Summary: Summary{
			Errors:   result.ErrorCount,
			Warnings: result.WarnCount,
			Info:     result.InfoCount,
			Total:    len(result.Issues),
		},
		Issues:   result.Issues,
		ExitCode: result.ExitCode,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// =============================================================================
// GitHub Actions Formatter
// =============================================================================

// GitHubFormatter outputs GitHub Actions workflow commands.
type GitHubFormatter struct {
	Source string
}

func (f *GitHubFormatter) Format(result *Result, w io.Writer) error {
	explained := make(map[string]bool)

	for _, issue := range result.Issues {
		level := "notice"
		switch issue.Severity {
		case SeverityError:
			level = "error"
		case SeverityWarning:
			level = "warning"
		}

		var params []string
		if f.Source != "" {
			params = append(params, "file="+filepath.ToSlash(f.Source))
		}
		params = append(params, fmt.Sprintf("title=%s (%s)", issue.RuleName, issue.RuleID))

		// The rule description is attached to its first occurrence only
		message := issue.Message
		if !explained[issue.RuleID] && issue.Description != "" {
			message += " Why: " + issue.Description
			explained[issue.RuleID] = true
		}
		if issue.Suggestion != "" {
			message += " Suggestion: " + issue.Suggestion
		}

		fprintf(w, "::%s %s::%s\n", level, strings.Join(params, ","), message)
	}

	fprintf(w, "::group::Lint Summary\n")
	fprintf(w, "Total: %d issue(s) - %d error(s), %d warning(s), %d info\n",
		len(result.Issues), result.ErrorCount, result.WarnCount, result.InfoCount)
	fprintf(w, "::endgroup::\n")

	return nil
}

// =============================================================================
// SARIF Formatter (Static Analysis Results Interchange Format)
// =============================================================================

// SARIFFormatter outputs SARIF for GitHub Code Scanning and similar tools.
// Graph elements have no line numbers, so results carry a logical location
// (the element path) next to the physical graph file.
type SARIFFormatter struct {
	Source string
}

type SARIFReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

type SARIFRule struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	ShortDescription SARIFMessage        `json:"shortDescription"`
	DefaultConfig    SARIFRuleConfig     `json:"defaultConfiguration"`
	Properties       SARIFRuleProperties `json:"properties,omitempty"`
}

type SARIFRuleConfig struct {
	Level string `json:"level"`
}

type SARIFRuleProperties struct {
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations,omitempty"`
}

type SARIFMessage struct {
	Text string `json:"text"`
}

type SARIFLocation struct {
	PhysicalLocation *SARIFPhysicalLocation `json:"physicalLocation,omitempty"`
	LogicalLocations []SARIFLogicalLocation `json:"logicalLocations,omitempty"`
}

type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
}

type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

type SARIFLogicalLocation struct {
	FullyQualifiedName string `json:"fullyQualifiedName"`
	Kind               string `json:"kind,omitempty"`
}

func sarifLevel(s Severity) string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

func (f *SARIFFormatter) Format(result *Result, w io.Writer) error {
	ruleMap := make(map[string]SARIFRule)
	for _, issue := range result.Issues {
		if _, exists := ruleMap[issue.RuleID]; exists {
			continue
		}
		ruleMap[issue.RuleID] = SARIFRule{
			ID:               issue.RuleID,
			Name:             issue.RuleName,
			ShortDescription: SARIFMessage{Text: issue.Description},
			DefaultConfig:    SARIFRuleConfig{Level: sarifLevel(issue.Severity)},
			Properties: SARIFRuleProperties{
				Category: string(issue.Category),
				Tags:     []string{"graph", string(issue.Category)},
			},
		}
	}

	rules := make([]SARIFRule, 0, len(ruleMap))
	for _, rule := range ruleMap {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

	results := make([]SARIFResult, 0, len(result.Issues))
	for _, issue := range result.Issues {
		r := SARIFResult{
			RuleID:  issue.RuleID,
			Level:   sarifLevel(issue.Severity),
			Message: SARIFMessage{Text: issue.Message},
		}

		var loc SARIFLocation
		if f.Source != "" {
			loc.PhysicalLocation = &SARIFPhysicalLocation{
				ArtifactLocation: SARIFArtifactLocation{URI: filepath.ToSlash(f.Source)},
			}
		}
		if issue.Path != "" {
			loc.LogicalLocations = []SARIFLogicalLocation{{
				FullyQualifiedName: issue.Path,
				Kind:               "member",
			}}
		}
		if loc.PhysicalLocation != nil || loc.LogicalLocations != nil {
			r.Locations = []SARIFLocation{loc}
		}

		results = append(results, r)
	}

	report := SARIFReport{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []SARIFRun{
			{
				Tool: SARIFTool{
					Driver: SARIFDriver{
						Name:           "graphscope",
						Version:        "1.0.0",
						InformationURI: "https://github.com/ikari-pl/go-graphscope",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// =============================================================================
// Checkstyle Formatter (XML)
// =============================================================================

// CheckstyleFormatter outputs Checkstyle XML with one <file> per scope.
type CheckstyleFormatter struct{}

func (f *CheckstyleFormatter) Format(result *Result, w io.Writer) error {
	fprintln(w, `<?xml version="1.0" encoding="UTF-8"?>`)
	fprintln(w, `<checkstyle version="4.3">`)

	order, groups := groupByScope(result.Issues)
	for _, scope := range order {
		name := scope
		if name == "" {
			name = "general"
		}
		fprintf(w, `  <file name="%s">`+"\n", escapeXML(name))
		for _, issue := range groups[scope] {
			fprintf(w, `    <error line="1" severity="%s" message="%s" source="%s"/>`+"\n",
				string(issue.Severity), escapeXML(issue.Message), escapeXML(issue.RuleID))
		}
		fprintln(w, `  </file>`)
	}

	fprintln(w, `</checkstyle>`)
	return nil
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

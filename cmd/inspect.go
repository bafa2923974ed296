package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/go-graphscope/internal/config"
	"github.com/ikari-pl/go-graphscope/internal/graph"
	"github.com/ikari-pl/go-graphscope/internal/lint"
	"github.com/ikari-pl/go-graphscope/internal/ui"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [graph.json]",
		Short: "Print graph statistics and lint the graph",
		Long: "Builds the element graph, prints its statistics and runs the lint rules.\n" +
			"Exits non-zero when errors are found, or warnings with --fail-on-warning.",
		Aliases:     []string{"lint", "check"},
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"input-arg": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspectCommand(cmd.Context(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.LintFormat, "lint-format", cfg.LintFormat, "Report format: text, text-no-color, json, github, sarif, checkstyle")
	f.StringVar(&cfg.MinSeverity, "min-severity", cfg.MinSeverity, "Minimum severity to report: info, warning, error")
	f.BoolVar(&cfg.FailOnWarning, "fail-on-warning", cfg.FailOnWarning, "Exit non-zero on warnings")
	f.StringSliceVar(&cfg.DisabledRules, "disable", cfg.DisabledRules, "Rule IDs or names to skip")
	f.IntVar(&cfg.MaxFanOut, "max-fan-out", cfg.MaxFanOut, "Consumers per node before high-fan-out triggers")
	f.IntVar(&cfg.MaxScopeDepth, "max-scope-depth", cfg.MaxScopeDepth, "Scope nesting before deep-scope-nesting triggers")

	cmd.AddCommand(inspectRulesCmd())
	return cmd
}

func inspectRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the lint rules",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			listRules(cmd.OutOrStdout(), lintConfig(cfg))
		},
	}
}

func runInspectCommand(ctx context.Context, stdout io.Writer) (err error) {
	s, err := startSession(cfg, false)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); err == nil {
			err = cerr
		}
	}()

	out := stdout
	if s.cfg.OutputFile != "" {
		file, err := os.Create(s.cfg.OutputFile)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer file.Close()
		out = file
	}

	code, err := runInspect(ctx, s, out)
	if err != nil {
		return err
	}
	if code != 0 {
		return errChecksFailed
	}
	return nil
}

// lintConfig maps the configuration onto the linter.
func lintConfig(c *config.Config) *lint.Config {
	lc := lint.DefaultConfig()
	if sev, err := lint.ParseSeverity(c.MinSeverity); err == nil {
		lc.MinSeverity = sev
	}
	lc.FailOnWarning = c.FailOnWarning
	lc.DisabledRules = c.DisabledRules
	if c.MaxFanOut > 0 {
		lc.Thresholds.MaxFanOut = c.MaxFanOut
	}
	if c.MaxScopeDepth > 0 {
		lc.Thresholds.MaxScopeDepth = c.MaxScopeDepth
	}
	return lc
}

// runInspect lints the input graph and returns the exit code. Text reports
// are preceded by the graph statistics.
func runInspect(ctx context.Context, s *session, w io.Writer) (int, error) {
	g, err := s.open(ctx, s.service())
	if err != nil {
		return 0, err
	}

	result := lint.NewLinter(lintConfig(s.cfg)).Run(ctx, g)
	s.logger.Info("Lint complete", "issues", len(result.Issues), "exit_code", result.ExitCode)

	if s.cfg.LintFormat == "text" || s.cfg.LintFormat == "text-no-color" {
		printStats(w, s.cfg.InputFile, g)
	}

	if err := lint.NewFormatter(s.cfg.LintFormat, s.cfg.InputFile).Format(result, w); err != nil {
		return 0, fmt.Errorf("failed to write lint report: %w", err)
	}
	return result.ExitCode, nil
}

func printStats(w io.Writer, input string, g *graph.ElementGraph) {
	ui.Banner(w, input)

	ui.KV(w, "Nodes", 12, g.Stats.Leaves)
	ui.KV(w, "Scopes", 12, g.Stats.Metanodes)
	ui.KV(w, "Edges", 12, g.Stats.Edges)
	ui.KV(w, "Max depth", 12, g.Stats.MaxDepth)
	fmt.Fprintln(w)

	type opCount struct {
		op    string
		count int
	}
	ops := make([]opCount, 0, len(g.Stats.Ops))
	for op, n := range g.Stats.Ops {
		ops = append(ops, opCount{op, n})
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].count != ops[j].count {
			return ops[i].count > ops[j].count
		}
		return ops[i].op < ops[j].op
	})
	if len(ops) > 8 {
		ops = ops[:8]
	}

	rows := make([][]string, len(ops))
	for i, oc := range ops {
		rows[i] = []string{oc.op, strconv.Itoa(oc.count)}
	}
	ui.Table(w, []string{"OP", "COUNT"}, rows)
	if len(rows) > 0 {
		fmt.Fprintln(w)
	}
}

func listRules(w io.Writer, lc *lint.Config) {
	ui.Banner(w, "lint rules")

	rules := lint.NewLinter(lc).ListRules()
	rows := make([][]string, len(rules))
	for i, r := range rules {
		rows[i] = []string{r.ID, r.Name, string(r.Category), string(r.Severity), ui.StatusIcon(r.Enabled)}
	}
	ui.Table(w, []string{"ID", "NAME", "CATEGORY", "SEVERITY", "ON"}, rows)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  graphscope inspect graph.json --disable GS012,large-constant")
}

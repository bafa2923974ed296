package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/go-graphscope/internal/config"
	"github.com/ikari-pl/go-graphscope/internal/graph"
	"github.com/ikari-pl/go-graphscope/internal/tensor"
	"github.com/ikari-pl/go-graphscope/internal/tui"
)

func viewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "view [graph.json]",
		Short:       "Browse a graph in the terminal",
		Aliases:     []string{"tui", "open"},
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"input-arg": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewCommand(cmd.Context())
		},
	}
	addViewFlags(cmd)
	return cmd
}

func addViewFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&cfg.DisplayThreshold, "threshold", cfg.DisplayThreshold, "Largest dimension shown inline in tensor previews")
	f.DurationVar(&cfg.DoubleClickWindow, "double-click", cfg.DoubleClickWindow, "Double-click window for toggling scopes")
	f.StringVar(&cfg.Theme, "theme", cfg.Theme, "Color theme: default, neon")
	f.BoolVar(&cfg.MouseEnabled, "mouse", cfg.MouseEnabled, "Enable mouse clicks")
	f.BoolVar(&cfg.NerdFonts, "nerd-fonts", cfg.NerdFonts, "Use Nerd Font icons")
	f.StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "Directory for exported tensors")
}

func runViewCommand(ctx context.Context) (err error) {
	s, err := startSession(cfg, true)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); err == nil {
			err = cerr
		}
	}()

	svc := s.service()
	g, err := s.open(ctx, svc)
	if err != nil {
		return err
	}
	return runView(ctx, s, svc, g, tui.NewTUI(s.logger, viewOptions(s, svc)))
}

// viewOptions maps the configuration onto the terminal renderer.
func viewOptions(s *session, svc graph.Service) tui.Options {
	return tui.Options{
		Theme:     s.cfg.Theme,
		NerdFonts: s.cfg.NerdFonts,
		Mouse:     s.cfg.MouseEnabled,
		Window:    s.cfg.DoubleClickWindow,
		Threshold: s.cfg.DisplayThreshold,
		Service:   svc,
		InputFile: s.cfg.InputFile,
		Sink:      tensor.NewDirSink(s.cfg.ExportDir, s.logger),
		Metrics:   s.collector,
	}
}

// runView hands a built graph to the renderer.
func runView(ctx context.Context, s *session, svc graph.Service, g *graph.ElementGraph, app tui.TUI) error {
	if s.cfg.Verbose || s.cfg.Debug {
		issues, err := svc.Validate(ctx, g)
		if err != nil {
			return err
		}
		for _, issue := range issues {
			s.logger.Warn("Graph issue", "type", issue.Type, "element", issue.ElementID, "message", issue.Message)
		}
	}

	if err := app.Run(ctx, g); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// describeConfig is logged at debug level when a session starts.
func describeConfig(c *config.Config) []any {
	return []any{
		"input", c.InputFile,
		"separator", c.Separator,
		"threshold", c.DisplayThreshold,
		"double_click", c.DoubleClickWindow,
		"theme", c.Theme,
	}
}

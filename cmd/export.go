package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/go-graphscope/internal/output"
	"github.com/ikari-pl/go-graphscope/internal/ui"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [graph.json]",
		Short: "Write the element graph as JSON, DOT, Mermaid or Markdown",
		Long: "Builds the element graph and writes it in the format given by --format.\n" +
			"The json format is the flat element list a renderer consumes.",
		Example:     "  graphscope export model.json -f dot -o model.dot",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"input-arg": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportCommand(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runExportCommand(ctx context.Context, stdout io.Writer) (err error) {
	s, err := startSession(cfg, false)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); err == nil {
			err = cerr
		}
	}()
	return runExport(ctx, s, stdout)
}

// runExport builds the input graph and writes it to the output file, or to
// stdout when none is set.
func runExport(ctx context.Context, s *session, stdout io.Writer) error {
	format := s.cfg.OutputFormat
	if format == "" || format == "tui" {
		format = "json"
	}

	formatter, err := output.NewManager().GetFormatter(format)
	if err != nil {
		return err
	}

	g, err := s.open(ctx, s.service())
	if err != nil {
		return err
	}

	if s.cfg.OutputFile == "" {
		return formatter.Format(ctx, g, stdout)
	}

	file, err := os.Create(s.cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := formatter.Format(ctx, g, file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to format graph as %s: %w", formatter.Name(), err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Fprintf(stdout, "%s Wrote %s (%d elements) to %s\n",
		ui.StatusIcon(true), formatter.Name(), g.Len(), s.cfg.OutputFile)
	s.logger.Info("Exported graph", "format", formatter.Name(), "path", s.cfg.OutputFile)
	return nil
}

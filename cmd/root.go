package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/go-graphscope/internal/config"
	"github.com/ikari-pl/go-graphscope/internal/graph"
	"github.com/ikari-pl/go-graphscope/internal/metrics"
	"github.com/ikari-pl/go-graphscope/internal/ui"
)

var version = "0.3.0"

var (
	cfg        = config.NewConfig()
	configFile string
)

// errChecksFailed signals a non-zero exit without printing another error.
var errChecksFailed = errors.New("checks failed")

var rootCmd = &cobra.Command{
	Use:   "graphscope [graph.json]",
	Short: "graphscope - explore scoped computation graphs",
	Long: ui.Brand.Sprint(ui.Scope+" graphscope") + " - browse a computation graph by name scope\n" +
		ui.Subtle.Sprint("Collapse and expand scopes, inspect nodes and export tensor values"),
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	Annotations:   map[string]string{"input-arg": "true"},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.OutputFormat == "tui" {
			return runViewCommand(cmd.Context())
		}
		return runExportCommand(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.SetVersionTemplate("graphscope {{ .Version }}\n")

	f := rootCmd.PersistentFlags()
	f.StringVarP(&configFile, "config", "c", "", "Config file (.toml, .yaml or .hcl)")
	f.StringVarP(&cfg.InputFile, "input", "i", cfg.InputFile, "Graph JSON file")
	f.StringVar(&cfg.Separator, "separator", cfg.Separator, "Scope separator in node names")
	f.StringVarP(&cfg.OutputFormat, "format", "f", cfg.OutputFormat, "Output format: tui, json, dot, mermaid, markdown")
	f.StringVarP(&cfg.OutputFile, "output", "o", cfg.OutputFile, "Output file (default: stdout)")
	f.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write session metrics to this file")
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose logging")
	f.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Debug logging")

	addViewFlags(rootCmd)

	rootCmd.AddCommand(
		viewCmd(),
		exportCmd(),
		inspectCmd(),
		tensorCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errChecksFailed) {
		ui.Bad.Fprintf(os.Stderr, "graphscope: %v\n", err)
	}
	return err
}

// loadConfig applies the config file under the flags and validates the
// result. A positional argument names the input graph.
func loadConfig(cmd *cobra.Command, args []string) error {
	explicit := cmd.Flags().Changed
	if len(args) > 0 && cmd.Annotations["input-arg"] == "true" {
		cfg.InputFile = args[0]
		explicit = func(key string) bool {
			return key == "input" || cmd.Flags().Changed(key)
		}
	}

	if configFile != "" {
		fc, err := config.LoadFile(configFile)
		if err != nil {
			return err
		}
		if err := cfg.ApplyFile(fc, explicit); err != nil {
			return err
		}
		cfg.ConfigFile = configFile
	}

	return cfg.Validate()
}

// newLogger creates a logger writing text records to w. Debug takes
// precedence over verbose; the default level is warn.
func newLogger(c *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelInfo
	}
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// session carries the per-run logger and metrics.
type session struct {
	cfg       *config.Config
	logger    *slog.Logger
	collector *metrics.Collector
	closers   []func() error
}

// startSession opens the log destination and the metrics collector.
// Interactive sessions own the terminal, so without a log file they log
// nowhere.
func startSession(c *config.Config, interactive bool) (*session, error) {
	s := &session{cfg: c}

	var w io.Writer = os.Stderr
	if interactive {
		w = io.Discard
	}
	if c.LogFile != "" {
		file, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = file
		s.closers = append(s.closers, file.Close)
	}
	s.logger = newLogger(c, w)

	if c.MetricsFile != "" {
		s.collector = metrics.NewCollector()
	}
	s.logger.Debug("Session started", describeConfig(c)...)
	return s, nil
}

// close writes the metrics file and releases the log file.
func (s *session) close() error {
	var errs []error
	if s.collector != nil {
		if err := s.collector.Write(s.cfg.MetricsFile); err != nil {
			errs = append(errs, err)
		} else {
			s.logger.Info("Wrote metrics", "path", s.cfg.MetricsFile)
		}
	}
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *session) service() graph.Service {
	return graph.NewService(s.logger,
		graph.NewBuilder(s.logger, s.cfg.Separator),
		graph.NewRepository(s.logger))
}

// open loads and builds the input graph, recording the build in the session
// metrics.
func (s *session) open(ctx context.Context, svc graph.Service) (*graph.ElementGraph, error) {
	if s.cfg.InputFile == "" {
		return nil, fmt.Errorf("no input graph: pass a file argument or --input")
	}

	start := time.Now()
	g, err := svc.Open(ctx, s.cfg.InputFile)
	if s.collector != nil {
		var leaves, scopes, edges int
		if g != nil {
			leaves, scopes, edges = g.Stats.Leaves, g.Stats.Metanodes, g.Stats.Edges
		}
		s.collector.ObserveBuild(time.Since(start), leaves, scopes, edges, err)
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/go-graphscope/internal/graph"
	"github.com/ikari-pl/go-graphscope/internal/tensor"
	"github.com/ikari-pl/go-graphscope/internal/ui"
)

// Tensor command modes.
const (
	modeRender = "render"
	modeDetail = "detail"
	modeExport = "export"
)

func tensorCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "tensor <tensor.json> | <graph.json> <element> <attribute>",
		Short: "Render, reveal or export a tensor value",
		Long: "Reads a tensor in wire form ({\"Only\": [dtype, shape, content]} or \"Unknown\"),\n" +
			"either from its own file or from an attribute of a graph element.",
		Example: "  graphscope tensor weights.json --mode detail\n" +
			"  graphscope tensor model.json dense/kernel value --mode export --export-dir out",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("accepts 1 or 3 args, received %d", len(args))
			}
			return nil
		},
		Annotations: map[string]string{"input-arg": "true"},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := startSession(cfg, false)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := s.close(); err == nil {
					err = cerr
				}
			}()
			return runTensor(cmd.Context(), s, args, mode, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&mode, "mode", "m", modeRender, "What to do: render, detail, export")
	f.IntVar(&cfg.DisplayThreshold, "threshold", cfg.DisplayThreshold, "Largest dimension shown inline")
	f.StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "Directory for the exported tensor")
	return cmd
}

// loadTensor reads the value named by args: a tensor file, or a graph
// file, an element and one of its attributes.
func loadTensor(ctx context.Context, s *session, args []string) (tensor.Value, string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return tensor.Value{}, "", fmt.Errorf("failed to read tensor file: %w", err)
		}
		var v tensor.Value
		if err := json.Unmarshal(data, &v); err != nil {
			return tensor.Value{}, "", fmt.Errorf("invalid tensor in %s: %w", args[0], err)
		}
		return v, filepath.Base(args[0]), nil
	}

	g, err := s.open(ctx, s.service())
	if err != nil {
		return tensor.Value{}, "", err
	}
	el, ok := lookupElement(g, args[1])
	if !ok {
		return tensor.Value{}, "", fmt.Errorf("no element %q in %s", args[1], args[0])
	}
	attr, ok := el.Other[args[2]]
	if !ok {
		return tensor.Value{}, "", fmt.Errorf("element %s has no attribute %q", el.ID, args[2])
	}
	v, ok := tensor.FromAttribute(attr)
	if !ok {
		return tensor.Value{}, "", fmt.Errorf("attribute %q of %s is not a tensor", args[2], el.ID)
	}
	return v, el.Path + "." + args[2], nil
}

// lookupElement accepts an element id or a node name.
func lookupElement(g *graph.ElementGraph, ref string) (*graph.Element, bool) {
	if el, ok := g.Element(ref); ok {
		return el, true
	}
	return g.Element(graph.LeafID(ref))
}

func runTensor(ctx context.Context, s *session, args []string, mode string, w io.Writer) error {
	v, label, err := loadTensor(ctx, s, args)
	if err != nil {
		return err
	}
	f := tensor.NewFormatter(s.cfg.DisplayThreshold)

	switch strings.ToLower(mode) {
	case modeRender:
		r, err := f.Render(v)
		if err != nil {
			return err
		}
		icon := ui.StatusIcon(true)
		if r.Mode == tensor.ModeUnknown {
			icon = ui.WarnIcon()
		}
		fmt.Fprintf(w, "%s %s = %s\n", icon, ui.Brand.Sprint(label), r.Text)
		if len(r.Actions) > 0 {
			names := make([]string, len(r.Actions))
			for i, a := range r.Actions {
				names[i] = string(a)
			}
			fmt.Fprintln(w, ui.Subtle.Sprintf("  too large to show inline; use --mode %s", strings.Join(names, " or --mode ")))
		}
		return nil

	case modeDetail, string(tensor.ActionReveal):
		text, err := f.Detail(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, text)
		return nil

	case modeExport:
		path, err := exportTensor(ctx, s, f, v)
		if s.collector != nil {
			s.collector.ObserveExport("json", err)
		}
		if errors.Is(err, tensor.ErrUnknownValue) {
			return fmt.Errorf("%s cannot be exported: its value %s", label, tensor.UnknownText)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s Exported %s to %s\n", ui.StatusIcon(true), label, path)
		return nil
	}

	return fmt.Errorf("unknown mode %q (valid: render, detail, export)", mode)
}

func exportTensor(ctx context.Context, s *session, f *tensor.Formatter, v tensor.Value) (string, error) {
	art, err := f.Export(v)
	if err != nil {
		return "", err
	}
	return tensor.NewDirSink(s.cfg.ExportDir, s.logger).Save(ctx, art)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk configuration. Nil fields leave the
// corresponding Config value untouched.
type FileConfig struct {
	Input        *string     `toml:"input" yaml:"input" hcl:"input,optional"`
	Separator    *string     `toml:"separator" yaml:"separator" hcl:"separator,optional"`
	OutputFormat *string     `toml:"output_format" yaml:"output_format" hcl:"output_format,optional"`
	OutputFile   *string     `toml:"output_file" yaml:"output_file" hcl:"output_file,optional"`
	ExportDir    *string     `toml:"export_dir" yaml:"export_dir" hcl:"export_dir,optional"`
	MetricsFile  *string     `toml:"metrics_file" yaml:"metrics_file" hcl:"metrics_file,optional"`
	LogFile      *string     `toml:"log_file" yaml:"log_file" hcl:"log_file,optional"`
	UI           *UIConfig   `toml:"ui" yaml:"ui" hcl:"ui,block"`
	Lint         *LintConfig `toml:"lint" yaml:"lint" hcl:"lint,block"`
}

// UIConfig groups the interactive settings.
type UIConfig struct {
	Threshold         *int    `toml:"threshold" yaml:"threshold" hcl:"threshold,optional"`
	DoubleClickWindow *string `toml:"double_click_window" yaml:"double_click_window" hcl:"double_click_window,optional"`
	Theme             *string `toml:"theme" yaml:"theme" hcl:"theme,optional"`
	Mouse             *bool   `toml:"mouse" yaml:"mouse" hcl:"mouse,optional"`
	NerdFonts         *bool   `toml:"nerd_fonts" yaml:"nerd_fonts" hcl:"nerd_fonts,optional"`
}

// LintConfig groups the settings of the inspect command.
type LintConfig struct {
	Format        *string  `toml:"format" yaml:"format" hcl:"format,optional"`
	MinSeverity   *string  `toml:"min_severity" yaml:"min_severity" hcl:"min_severity,optional"`
	FailOnWarning *bool    `toml:"fail_on_warning" yaml:"fail_on_warning" hcl:"fail_on_warning,optional"`
	DisabledRules []string `toml:"disabled_rules" yaml:"disabled_rules" hcl:"disabled_rules,optional"`
	MaxFanOut     *int     `toml:"max_fan_out" yaml:"max_fan_out" hcl:"max_fan_out,optional"`
	MaxScopeDepth *int     `toml:"max_scope_depth" yaml:"max_scope_depth" hcl:"max_scope_depth,optional"`
}

// LoadFile reads a configuration file. The format follows the extension:
// .toml, .yaml/.yml or .hcl.
func LoadFile(path string) (*FileConfig, error) {
	path = expandPath(path)
	if path == "" {
		return nil, nil
	}

	var fc FileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return nil, fmt.Errorf("failed to decode TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML config %s: %w", path, err)
		}
	case ".hcl":
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL config %s: %w", path, diags)
		}
		if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL config %s: %w", path, diags)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (valid: .toml, .yaml, .yml, .hcl)", ext)
	}

	return &fc, nil
}

// ApplyFile copies the values set in fc into c. Keys for which explicit
// returns true were given on the command line and are kept.
func (c *Config) ApplyFile(fc *FileConfig, explicit func(key string) bool) error {
	if fc == nil {
		return nil
	}
	if explicit == nil {
		explicit = func(string) bool { return false }
	}

	setString := func(key string, dst *string, src *string, path bool) {
		if src == nil || explicit(key) {
			return
		}
		v := strings.TrimSpace(*src)
		if path {
			v = expandPath(v)
		}
		*dst = v
	}

	setString("input", &c.InputFile, fc.Input, true)
	setString("separator", &c.Separator, fc.Separator, false)
	setString("format", &c.OutputFormat, fc.OutputFormat, false)
	setString("output", &c.OutputFile, fc.OutputFile, true)
	setString("export-dir", &c.ExportDir, fc.ExportDir, true)
	setString("metrics-file", &c.MetricsFile, fc.MetricsFile, true)
	setString("log-file", &c.LogFile, fc.LogFile, true)

	if ui := fc.UI; ui != nil {
		if ui.Threshold != nil && !explicit("threshold") {
			c.DisplayThreshold = *ui.Threshold
		}
		if ui.DoubleClickWindow != nil && !explicit("double-click") {
			d, err := time.ParseDuration(strings.TrimSpace(*ui.DoubleClickWindow))
			if err != nil {
				return fmt.Errorf("invalid double_click_window %q: %w", *ui.DoubleClickWindow, err)
			}
			c.DoubleClickWindow = d
		}
		setString("theme", &c.Theme, ui.Theme, false)
		if ui.Mouse != nil && !explicit("mouse") {
			c.MouseEnabled = *ui.Mouse
		}
		if ui.NerdFonts != nil && !explicit("nerd-fonts") {
			c.NerdFonts = *ui.NerdFonts
		}
	}

	if lint := fc.Lint; lint != nil {
		setString("lint-format", &c.LintFormat, lint.Format, false)
		setString("min-severity", &c.MinSeverity, lint.MinSeverity, false)
		if lint.FailOnWarning != nil && !explicit("fail-on-warning") {
			c.FailOnWarning = *lint.FailOnWarning
		}
		if lint.DisabledRules != nil && !explicit("disable") {
			c.DisabledRules = lint.DisabledRules
		}
		if lint.MaxFanOut != nil && !explicit("max-fan-out") {
			c.MaxFanOut = *lint.MaxFanOut
		}
		if lint.MaxScopeDepth != nil && !explicit("max-scope-depth") {
			c.MaxScopeDepth = *lint.MaxScopeDepth
		}
	}

	return nil
}

func expandPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}

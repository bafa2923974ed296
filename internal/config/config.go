// Package config provides configuration management for the graph explorer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the application configuration.
type Config struct {
	// Input options
	InputFile  string `json:"input_file"`
	ConfigFile string `json:"config_file,omitempty"`
	Separator  string `json:"separator"`

	// Output options
	OutputFormat string `json:"output_format"` // "tui", "json", "dot", "mermaid", "markdown"
	OutputFile   string `json:"output_file,omitempty"`
	ExportDir    string `json:"export_dir"`
	MetricsFile  string `json:"metrics_file,omitempty"`

	// UI options
	DisplayThreshold  int           `json:"display_threshold"`
	DoubleClickWindow time.Duration `json:"double_click_window"`
	Theme             string        `json:"theme"` // "default", "neon"
	MouseEnabled      bool          `json:"mouse_enabled"`
	NerdFonts         bool          `json:"nerd_fonts"`

	// Lint options
	LintFormat    string   `json:"lint_format"` // "text", "json", "github", "sarif", "checkstyle"
	MinSeverity   string   `json:"min_severity"`
	FailOnWarning bool     `json:"fail_on_warning"`
	DisabledRules []string `json:"disabled_rules,omitempty"`
	MaxFanOut     int      `json:"max_fan_out"`
	MaxScopeDepth int      `json:"max_scope_depth"`

	// Debug options
	LogFile string `json:"log_file,omitempty"`
	Verbose bool   `json:"verbose"`
	Debug   bool   `json:"debug"`
}

// NewConfig creates a new configuration with default values.
func NewConfig() *Config {
	return &Config{
		Separator:         "/",
		OutputFormat:      "tui",
		ExportDir:         ".",
		DisplayThreshold:  7,
		DoubleClickWindow: 400 * time.Millisecond,
		Theme:             "default",
		MouseEnabled:      true,
		NerdFonts:         true,
		LintFormat:        "text",
		MinSeverity:       "info",
		MaxFanOut:         32,
		MaxScopeDepth:     12,
		Verbose:           false,
		Debug:             false,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.InputFile != "" {
		absInput, err := filepath.Abs(c.InputFile)
		if err != nil {
			return fmt.Errorf("invalid input file %s: %w", c.InputFile, err)
		}
		c.InputFile = absInput

		info, err := os.Stat(c.InputFile)
		if os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", c.InputFile)
		}
		if err == nil && info.IsDir() {
			return fmt.Errorf("input file is a directory: %s", c.InputFile)
		}
	}

	if c.Separator == "" {
		return fmt.Errorf("scope separator cannot be empty")
	}

	validFormats := map[string]bool{
		"tui":      true,
		"json":     true,
		"dot":      true,
		"mermaid":  true,
		"markdown": true,
		"md":       true,
	}
	if !validFormats[c.OutputFormat] {
		return fmt.Errorf("invalid output format: %s (valid: tui, json, dot, mermaid, markdown)", c.OutputFormat)
	}

	if c.DisplayThreshold <= 0 {
		return fmt.Errorf("display threshold must be positive, got %d", c.DisplayThreshold)
	}

	if c.DoubleClickWindow <= 0 {
		return fmt.Errorf("double-click window must be positive, got %s", c.DoubleClickWindow)
	}

	validThemes := map[string]bool{
		"default": true,
		"neon":    true,
	}
	if !validThemes[c.Theme] {
		return fmt.Errorf("invalid theme: %s (valid: default, neon)", c.Theme)
	}

	validLintFormats := map[string]bool{
		"text":          true,
		"text-no-color": true,
		"json":          true,
		"github":        true,
		"sarif":         true,
		"checkstyle":    true,
	}
	if !validLintFormats[c.LintFormat] {
		return fmt.Errorf("invalid lint format: %s (valid: text, text-no-color, json, github, sarif, checkstyle)", c.LintFormat)
	}

	switch c.MinSeverity {
	case "info", "warning", "error":
	default:
		return fmt.Errorf("invalid minimum severity: %s (valid: info, warning, error)", c.MinSeverity)
	}

	if c.MaxFanOut < 0 || c.MaxScopeDepth < 0 {
		return fmt.Errorf("lint thresholds cannot be negative")
	}

	return nil
}

// Package config handles the global turbowiz configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/turbowiz/internal/atomicfile"
	"github.com/aidanlsb/turbowiz/internal/wizard"
)

// Config represents the global turbowiz configuration.
type Config struct {
	// Wizard overrides the default query generation options.
	Wizard WizardConfig `toml:"wizard"`

	// Presets lists extra free-form preset files.
	Presets PresetsConfig `toml:"presets"`

	// History controls recording of compiled searches.
	History HistoryConfig `toml:"history"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`

	// Undecoded lists keys present in the file that turbowiz does not know.
	Undecoded []string `toml:"-"`

	// dir is the directory of the loaded file; relative preset paths are
	// resolved against it.
	dir string
}

// WizardConfig mirrors wizard.Options. Unset fields keep their defaults.
type WizardConfig struct {
	Comment      *CommentSetting `toml:"comment"`
	OutputMode   string          `toml:"output_mode"`
	GlobalBbox   *bool           `toml:"global_bbox"`
	Timeout      *int            `toml:"timeout"`
	MaxSize      *int64          `toml:"maxsize"`
	OutputFormat string          `toml:"output_format"`
	AroundRadius *float64        `toml:"around_radius"`
}

// CommentSetting is either a boolean or a custom header text:
//
//	comment = false
//	comment = "Cafes for the team offsite"
type CommentSetting struct {
	Enabled bool
	Text    string
}

// UnmarshalTOML implements toml.Unmarshaler.
func (c *CommentSetting) UnmarshalTOML(v interface{}) error {
	switch val := v.(type) {
	case bool:
		*c = CommentSetting{Enabled: val}
	case string:
		*c = CommentSetting{Enabled: true, Text: val}
	default:
		return fmt.Errorf("comment must be a boolean or a string, got %T", v)
	}
	return nil
}

func (c CommentSetting) value() interface{} {
	if c.Text != "" {
		return c.Text
	}
	return c.Enabled
}

// PresetsConfig lists preset files layered over the built-in catalog.
type PresetsConfig struct {
	Files []string `toml:"files"`
}

// HistoryConfig controls the search history database.
type HistoryConfig struct {
	// Enabled records every successful compile.
	Enabled bool `toml:"enabled"`

	// File overrides the database location.
	File string `toml:"file"`

	// Limit is how many entries to keep; zero keeps everything.
	Limit int `toml:"limit"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered queries.
	// Example values: "monokai", "dracula", "github", "nord".
	CodeTheme string `toml:"code_theme"`
}

// WizardOptions applies the configured overrides to wizard.DefaultOptions.
func (c *Config) WizardOptions() wizard.Options {
	opts := wizard.DefaultOptions()
	w := c.Wizard
	if w.Comment != nil {
		opts.Comment = wizard.Comment{Enabled: w.Comment.Enabled, Text: w.Comment.Text}
	}
	if w.OutputMode != "" {
		opts.OutputMode = w.OutputMode
	}
	if w.GlobalBbox != nil {
		opts.GlobalBbox = *w.GlobalBbox
	}
	if w.Timeout != nil {
		opts.Timeout = *w.Timeout
	}
	if w.MaxSize != nil {
		size := *w.MaxSize
		opts.MaxSize = &size
	}
	if w.OutputFormat != "" {
		opts.OutputFormat = w.OutputFormat
	}
	if w.AroundRadius != nil {
		opts.AroundRadius = *w.AroundRadius
	}
	return opts
}

// PresetFiles returns the configured preset files with ~ expanded and
// relative paths resolved against the config file's directory.
func (c *Config) PresetFiles() []string {
	files := make([]string, 0, len(c.Presets.Files))
	for _, f := range c.Presets.Files {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		files = append(files, ResolvePath(c.dir, f))
	}
	return files
}

// HistoryPath returns the configured history database path, resolved like
// preset files, or "" when none is set.
func (c *Config) HistoryPath() string {
	f := strings.TrimSpace(c.History.File)
	if f == "" {
		return ""
	}
	return ResolvePath(c.dir, f)
}

// ResolvePath expands a leading ~ and makes path absolute relative to base.
func ResolvePath(base, path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if !filepath.IsAbs(path) && base != "" {
		path = filepath.Join(base, path)
	}
	return path
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	meta, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		config.Undecoded = append(config.Undecoded, key.String())
	}
	sort.Strings(config.Undecoded)
	config.dir = filepath.Dir(path)
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/turbowiz/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if xdgPath, err := XDGPath(); err == nil {
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "turbowiz", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/turbowiz/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "turbowiz", "config.toml"), nil
}

const defaultConfig = `# turbowiz configuration
# See: https://github.com/aidanlsb/turbowiz

# Query generation defaults. Every key is optional; command-line flags
# override these values.
[wizard]
# comment = true            # false, or a custom header text
# output_mode = "recursive" # or "geom", "ids", "center", ...
# global_bbox = false
# timeout = 25
# maxsize = 536870912
# output_format = "json"    # or "xml"
# around_radius = 1000      # meters, for "around <place>" searches

# Extra free-form preset files, layered over the built-in presets.
# Relative paths are resolved against this file's directory.
[presets]
# files = ["presets.yaml"]

# Record compiled searches for 'twiz history'.
[history]
# enabled = false
# file = "history.db"      # default: the user cache directory
# limit = 500

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
[ui]
# accent = "39"
# code_theme = "monokai"
`

// CreateDefault creates a default config file at path if it doesn't exist.
// An empty path means DefaultPath. It returns the path used.
func CreateDefault(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil // Already exists
	}

	if err := atomicfile.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}

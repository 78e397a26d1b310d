package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/turbowiz/internal/atomicfile"
)

type persistedConfig struct {
	Wizard  *persistedWizard     `toml:"wizard,omitempty"`
	Presets *persistedPresets    `toml:"presets,omitempty"`
	History *persistedHistory    `toml:"history,omitempty"`
	UI      *persistedUISettings `toml:"ui,omitempty"`
}

// Nil fields are skipped by the encoder; zero values such as
// global_bbox = false are written.
type persistedWizard struct {
	// Comment is a bool or a string.
	Comment      interface{} `toml:"comment"`
	OutputMode   *string     `toml:"output_mode,omitempty"`
	GlobalBbox   *bool       `toml:"global_bbox"`
	Timeout      *int        `toml:"timeout"`
	MaxSize      *int64      `toml:"maxsize"`
	OutputFormat *string     `toml:"output_format,omitempty"`
	AroundRadius *float64    `toml:"around_radius"`
}

func (w *persistedWizard) empty() bool {
	return w.Comment == nil && w.OutputMode == nil && w.GlobalBbox == nil &&
		w.Timeout == nil && w.MaxSize == nil && w.OutputFormat == nil && w.AroundRadius == nil
}

type persistedPresets struct {
	Files []string `toml:"files"`
}

type persistedHistory struct {
	Enabled bool    `toml:"enabled"`
	File    *string `toml:"file,omitempty"`
	Limit   int     `toml:"limit,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Save writes the global config to the default config path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the global config to a specific path atomically. Only
// settings that differ from "unset" are written.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	var out persistedConfig

	w := &persistedWizard{
		OutputMode:   nonEmptyPtr(cfg.Wizard.OutputMode),
		GlobalBbox:   cfg.Wizard.GlobalBbox,
		Timeout:      cfg.Wizard.Timeout,
		MaxSize:      cfg.Wizard.MaxSize,
		OutputFormat: nonEmptyPtr(cfg.Wizard.OutputFormat),
		AroundRadius: cfg.Wizard.AroundRadius,
	}
	if cfg.Wizard.Comment != nil {
		w.Comment = cfg.Wizard.Comment.value()
	}
	if !w.empty() {
		out.Wizard = w
	}

	if len(cfg.Presets.Files) > 0 {
		out.Presets = &persistedPresets{Files: cfg.Presets.Files}
	}

	if h := cfg.History; h.Enabled || strings.TrimSpace(h.File) != "" || h.Limit != 0 {
		out.History = &persistedHistory{
			Enabled: h.Enabled,
			File:    nonEmptyPtr(h.File),
			Limit:   h.Limit,
		}
	}

	accent := nonEmptyPtr(cfg.UI.Accent)
	codeTheme := nonEmptyPtr(cfg.UI.CodeTheme)
	if accent != nil || codeTheme != nil {
		out.UI = &persistedUISettings{
			Accent:    accent,
			CodeTheme: codeTheme,
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}

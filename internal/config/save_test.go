package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	bbox := false
	timeout := 40
	radius := 500.0
	cfg := &Config{
		Wizard: WizardConfig{
			Comment:      &CommentSetting{Enabled: true, Text: "Weekly survey"},
			OutputMode:   "center",
			GlobalBbox:   &bbox,
			Timeout:      &timeout,
			AroundRadius: &radius,
		},
		Presets: PresetsConfig{Files: []string{"local.yaml"}},
		History: HistoryConfig{Enabled: true, Limit: 50},
		UI:      UIConfig{CodeTheme: "nord"},
	}

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	opts := loaded.WizardOptions()
	if opts.Comment.Text != "Weekly survey" {
		t.Errorf("expected comment text, got %+v", opts.Comment)
	}
	if opts.OutputMode != "center" || opts.Timeout != 40 || opts.AroundRadius != 500 || opts.GlobalBbox {
		t.Errorf("unexpected options after round trip: %+v", opts)
	}
	if loaded.Wizard.GlobalBbox == nil {
		t.Error("expected explicit global_bbox=false to survive")
	}
	if len(loaded.Presets.Files) != 1 || loaded.Presets.Files[0] != "local.yaml" {
		t.Errorf("unexpected preset files %v", loaded.Presets.Files)
	}
	if !loaded.History.Enabled || loaded.History.Limit != 50 || loaded.History.File != "" {
		t.Errorf("unexpected history settings %+v", loaded.History)
	}
	if loaded.UI.CodeTheme != "nord" || loaded.UI.Accent != "" {
		t.Errorf("unexpected ui settings %+v", loaded.UI)
	}
}

func TestSaveToDisabledComment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := &Config{Wizard: WizardConfig{Comment: &CommentSetting{}}}

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "comment = false") {
		t.Errorf("expected comment = false in:\n%s", data)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if loaded.WizardOptions().Comment.On() {
		t.Error("expected comments to stay disabled")
	}
}

func TestSaveToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := SaveTo(path, nil); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if strings.TrimSpace(string(data)) != "" {
		t.Errorf("expected empty config, got:\n%s", data)
	}

	if err := SaveTo(" ", &Config{}); err == nil {
		t.Error("expected error for blank path")
	}
}

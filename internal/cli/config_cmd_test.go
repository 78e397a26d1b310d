package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/turbowiz/internal/config"
)

func TestConfigInitCreatesConfigFile(t *testing.T) {
	setupCLITest(t, "")
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.toml")
	configPath = cfgPath
	jsonOutput = true

	out := captureStdout(t, func() {
		if err := configInitCmd.RunE(configInitCmd, []string{}); err != nil {
			t.Fatalf("configInitCmd.RunE returned error: %v", err)
		}
	})
	resp := decodeEnvelope(t, out)
	var data struct {
		Created bool `json:"created"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil || !data.Created {
		t.Fatalf("expected created=true, got %s", out)
	}

	content, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("failed to read created config: %v", err)
	}
	if !strings.Contains(string(content), "# turbowiz configuration") {
		t.Fatalf("expected default config header in file, got:\n%s", string(content))
	}
}

func TestConfigSetUpdatesFields(t *testing.T) {
	cfgPath := setupCLITest(t, "[ui]\naccent = \"39\"\n")

	setFlag(t, configSetCmd, "timeout", "60")
	setFlag(t, configSetCmd, "comment", "Weekly survey")
	setFlag(t, configSetCmd, "global-bbox", "false")
	setFlag(t, configSetCmd, "preset-file", "local.yaml")
	setFlag(t, configSetCmd, "ui-code-theme", "nord")

	out := captureStdout(t, func() {
		if err := configSetCmd.RunE(configSetCmd, nil); err != nil {
			t.Fatalf("configSetCmd.RunE returned error: %v", err)
		}
	})
	if !strings.Contains(out, "wizard.timeout") || !strings.Contains(out, "ui.code_theme") {
		t.Errorf("expected changed fields in output, got:\n%s", out)
	}

	cfg, err := config.LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	opts := cfg.WizardOptions()
	if opts.Timeout != 60 || opts.Comment.Text != "Weekly survey" || opts.GlobalBbox {
		t.Errorf("unexpected options %+v", opts)
	}
	if cfg.Wizard.GlobalBbox == nil {
		t.Error("expected global_bbox to be written explicitly")
	}
	if len(cfg.Presets.Files) != 1 || cfg.Presets.Files[0] != "local.yaml" {
		t.Errorf("preset files = %v", cfg.Presets.Files)
	}
	if cfg.UI.Accent != "39" || cfg.UI.CodeTheme != "nord" {
		t.Errorf("ui = %+v", cfg.UI)
	}
}

func TestConfigSetRejectsInvalidOptions(t *testing.T) {
	cfgPath := setupCLITest(t, "")
	jsonOutput = true
	setFlag(t, configSetCmd, "output-format", "yaml")

	out := captureStdout(t, func() {
		if err := configSetCmd.RunE(configSetCmd, nil); err != nil {
			t.Fatalf("configSetCmd.RunE returned error: %v", err)
		}
	})
	resp := decodeEnvelope(t, out)
	if resp.OK || resp.Error == nil || resp.Error.Code != ErrInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %s", out)
	}
	data, _ := os.ReadFile(cfgPath)
	if len(data) != 0 {
		t.Errorf("config should be untouched, got:\n%s", data)
	}
}

func TestConfigSetRequiresAField(t *testing.T) {
	setupCLITest(t, "")
	jsonOutput = true

	out := captureStdout(t, func() {
		if err := configSetCmd.RunE(configSetCmd, nil); err != nil {
			t.Fatalf("configSetCmd.RunE returned error: %v", err)
		}
	})
	resp := decodeEnvelope(t, out)
	if resp.Error == nil || resp.Error.Code != ErrMissingArgument {
		t.Fatalf("expected MISSING_ARGUMENT, got %s", out)
	}
}

func TestConfigShow(t *testing.T) {
	setupCLITest(t, "[wizard]\noutput_mode = \"geom\"\nbogus = 1\n")
	jsonOutput = true

	out := captureStdout(t, func() {
		if err := runConfigShow(configCmd, nil); err != nil {
			t.Fatalf("runConfigShow returned error: %v", err)
		}
	})
	resp := decodeEnvelope(t, out)
	var data struct {
		Exists  bool     `json:"exists"`
		Unknown []string `json:"unknown_keys"`
		Wizard  struct {
			OutputMode string `json:"output_mode"`
			Timeout    int    `json:"timeout"`
		} `json:"wizard"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !data.Exists || data.Wizard.OutputMode != "geom" || data.Wizard.Timeout != 25 {
		t.Errorf("unexpected config data %+v", data)
	}
	if len(data.Unknown) != 1 || data.Unknown[0] != "wizard.bogus" {
		t.Errorf("unknown keys = %v", data.Unknown)
	}
}

func TestConfigShowMissingFile(t *testing.T) {
	setupCLITest(t, "")
	configPath = filepath.Join(t.TempDir(), "absent.toml")

	out := captureStdout(t, func() {
		if err := runConfigShow(configCmd, nil); err != nil {
			t.Fatalf("runConfigShow returned error: %v", err)
		}
	})
	if !strings.Contains(out, "does not exist") || !strings.Contains(out, "wizard.timeout: 25") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestConfigPath(t *testing.T) {
	cfgPath := setupCLITest(t, "")

	out := captureStdout(t, func() {
		if err := configPathCmd.RunE(configPathCmd, nil); err != nil {
			t.Fatalf("configPathCmd.RunE returned error: %v", err)
		}
	})
	if strings.TrimSpace(out) != cfgPath {
		t.Errorf("got %q, want %q", strings.TrimSpace(out), cfgPath)
	}
}

func TestUnknownConfigKeysBecomeWarnings(t *testing.T) {
	setupCLITest(t, "[wizard]\ntimeuot = 5\n")
	jsonOutput = true

	out, err := runCompileForTest(t, "shop=*")
	if err != nil {
		t.Fatalf("compile returned error: %v", err)
	}
	resp := decodeEnvelope(t, out)
	if !resp.OK {
		t.Fatalf("expected ok=true: %s", out)
	}
	if len(resp.Warn) != 1 || resp.Warn[0].Code != WarnUnknownConfigKey || !strings.Contains(resp.Warn[0].Message, "wizard.timeuot") {
		t.Errorf("warnings = %+v", resp.Warn)
	}
}

func TestInvalidConfigIsReported(t *testing.T) {
	setupCLITest(t, "[wizard]\ncomment = 3\n")
	jsonOutput = true

	out, err := runCompileForTest(t, "shop=*")
	if err != nil {
		t.Fatalf("compile returned error: %v", err)
	}
	resp := decodeEnvelope(t, out)
	if resp.OK || resp.Error == nil || resp.Error.Code != ErrConfigInvalid {
		t.Fatalf("expected CONFIG_INVALID, got %s", out)
	}
}

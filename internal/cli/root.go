// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/turbowiz/internal/config"
	"github.com/aidanlsb/turbowiz/internal/freeform"
	"github.com/aidanlsb/turbowiz/internal/ui"
)

var (
	// Global flags
	configPath  string
	presetFiles []string

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
	catalog            *freeform.Catalog
	runtimeWarnings    []Warning
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "twiz",
	Short: "turbowiz - Overpass QL from plain searches",
	Long: `turbowiz turns short searches like "amenity=cafe in Vienna" into
Overpass QL queries, the way the overpass-turbo wizard does.

Run 'twiz syntax' to learn the search language.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringSliceVar(&presetFiles, "presets", nil, "Extra preset files layered over the configured ones")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// requireRuntime loads the runtime, reporting a failure in the current
// output mode. A nil error with ok false means the failure was written as
// JSON.
func requireRuntime() (ok bool, err error) {
	if err := loadRuntime(); err != nil {
		return false, handleError(ErrConfigInvalid, err, "Run 'twiz config show' to inspect the config file")
	}
	return true, nil
}

// loadRuntime loads the config and preset catalog once per process.
func loadRuntime() error {
	if cfg != nil && catalog != nil {
		return nil
	}

	loadedCfg, path, err := loadGlobalConfigWithPath()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, resolvedConfigPath = loadedCfg, path
	runtimeWarnings = nil

	for _, key := range cfg.Undecoded {
		msg := fmt.Sprintf("unknown config key %q in %s", key, resolvedConfigPath)
		runtimeWarnings = append(runtimeWarnings, Warning{Code: WarnUnknownConfigKey, Message: msg})
		if !jsonOutput {
			fmt.Fprintln(os.Stderr, ui.Warning(msg))
		}
	}

	ui.ConfigureTheme(cfg.UI.Accent)
	ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

	files := cfg.PresetFiles()
	for _, f := range presetFiles {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, config.ResolvePath("", f))
		}
	}
	catalog, err = freeform.Load(files...)
	if err != nil {
		cfg = nil
		return fmt.Errorf("failed to load presets: %w", err)
	}
	return nil
}

// resetRuntime forgets the loaded config and catalog.
func resetRuntime() {
	cfg = nil
	catalog = nil
	resolvedConfigPath = ""
	runtimeWarnings = nil
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	var loadedCfg *config.Config
	var err error
	resolvedPath := strings.TrimSpace(configPath)
	if resolvedPath != "" {
		loadedCfg, err = config.LoadFrom(resolvedPath)
	} else {
		resolvedPath = config.DefaultPath()
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}

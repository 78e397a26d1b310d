package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/turbowiz/internal/config"
	"github.com/aidanlsb/turbowiz/internal/wizard"
)

type globalConfigContext struct {
	cfg          *config.Config
	configPath   string
	configExists bool
}

var (
	configSetComment      wizard.Comment
	configSetOutputMode   string
	configSetGlobalBbox   bool
	configSetTimeout      int
	configSetMaxSize      int64
	configSetOutputFormat string
	configSetAroundRadius float64
	configSetPresetFiles  []string
	configSetUIAccent     string
	configSetUICodeTheme  string
)

func resolveConfigPath() string {
	if p := strings.TrimSpace(configPath); p != "" {
		return p
	}
	return config.DefaultPath()
}

func loadGlobalConfigContextAllowMissing() (*globalConfigContext, error) {
	path := resolveConfigPath()
	ctx := &globalConfigContext{cfg: &config.Config{}, configPath: path}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ctx, nil
		}
		return nil, err
	}

	loadedCfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	ctx.cfg = loadedCfg
	ctx.configExists = true
	return ctx, nil
}

func configData(ctx *globalConfigContext) map[string]interface{} {
	opts := ctx.cfg.WizardOptions()
	wizardData := map[string]interface{}{
		"comment":       opts.Comment.On(),
		"output_mode":   opts.OutputMode,
		"global_bbox":   opts.GlobalBbox,
		"timeout":       opts.Timeout,
		"output_format": opts.OutputFormat,
		"around_radius": opts.AroundRadius,
	}
	if opts.Comment.Text != "" {
		wizardData["comment_text"] = opts.Comment.Text
	}
	if opts.MaxSize != nil {
		wizardData["maxsize"] = *opts.MaxSize
	}

	data := map[string]interface{}{
		"config_path":  ctx.configPath,
		"exists":       ctx.configExists,
		"wizard":       wizardData,
		"preset_files": ctx.cfg.PresetFiles(),
		"ui": map[string]interface{}{
			"accent":     strings.TrimSpace(ctx.cfg.UI.Accent),
			"code_theme": strings.TrimSpace(ctx.cfg.UI.CodeTheme),
		},
	}
	if len(ctx.cfg.Undecoded) > 0 {
		data["unknown_keys"] = ctx.cfg.Undecoded
	}
	return data
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	ctx, err := loadGlobalConfigContextAllowMissing()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	if isJSONOutput() {
		outputSuccess(configData(ctx), nil)
		return nil
	}

	if !ctx.configExists {
		fmt.Printf("Config file does not exist: %s\n", ctx.configPath)
		fmt.Println("Run 'twiz config init' to create it. Defaults:")
	} else {
		fmt.Printf("config: %s\n", ctx.configPath)
	}

	opts := ctx.cfg.WizardOptions()
	if opts.Comment.Text != "" {
		fmt.Printf("wizard.comment: %q\n", opts.Comment.Text)
	} else {
		fmt.Printf("wizard.comment: %t\n", opts.Comment.Enabled)
	}
	fmt.Printf("wizard.output_mode: %s\n", opts.OutputMode)
	fmt.Printf("wizard.global_bbox: %t\n", opts.GlobalBbox)
	fmt.Printf("wizard.timeout: %d\n", opts.Timeout)
	if opts.MaxSize != nil {
		fmt.Printf("wizard.maxsize: %d\n", *opts.MaxSize)
	}
	fmt.Printf("wizard.output_format: %s\n", opts.OutputFormat)
	fmt.Printf("wizard.around_radius: %g\n", opts.AroundRadius)

	if files := ctx.cfg.PresetFiles(); len(files) > 0 {
		fmt.Println("presets.files:")
		for _, f := range files {
			fmt.Printf("  %s\n", f)
		}
	}
	if v := strings.TrimSpace(ctx.cfg.UI.Accent); v != "" {
		fmt.Printf("ui.accent: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.UI.CodeTheme); v != "" {
		fmt.Printf("ui.code_theme: %s\n", v)
	}
	for _, key := range ctx.cfg.Undecoded {
		fmt.Printf("unknown key: %s\n", key)
	}
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the turbowiz config.toml",
	Long: `Manage the turbowiz config.toml.

The [wizard] section sets default query options; compile flags override it.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveConfigPath()
		if isJSONOutput() {
			_, err := os.Stat(path)
			outputSuccess(map[string]interface{}{
				"config_path": path,
				"exists":      err == nil,
			}, nil)
			return nil
		}
		fmt.Println(path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetPath := resolveConfigPath()
		_, statErr := os.Stat(targetPath)
		existed := statErr == nil
		if statErr != nil && !os.IsNotExist(statErr) {
			return handleError(ErrFileReadError, statErr, "")
		}

		createdPath, err := config.CreateDefault(targetPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": createdPath,
				"created":     !existed,
			}, nil)
			return nil
		}

		if existed {
			fmt.Printf("Config already exists: %s\n", createdPath)
		} else {
			fmt.Printf("Created config: %s\n", createdPath)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set one or more config.toml fields",
	Long: `Set one or more config.toml fields.

Examples:
  twiz config set --timeout 60 --output-mode geom
  twiz config set --comment=false
  twiz config set --preset-file ~/presets.yaml --ui-accent 39`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadGlobalConfigContextAllowMissing()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		flags := cmd.Flags()
		w := &ctx.cfg.Wizard
		changed := make([]string, 0, 10)

		if flags.Changed("comment") {
			w.Comment = &config.CommentSetting{Enabled: configSetComment.Enabled, Text: configSetComment.Text}
			changed = append(changed, "wizard.comment")
		}
		if flags.Changed("output-mode") {
			value := strings.TrimSpace(configSetOutputMode)
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, "output-mode cannot be empty", "")
			}
			w.OutputMode = value
			changed = append(changed, "wizard.output_mode")
		}
		if flags.Changed("global-bbox") {
			value := configSetGlobalBbox
			w.GlobalBbox = &value
			changed = append(changed, "wizard.global_bbox")
		}
		if flags.Changed("timeout") {
			value := configSetTimeout
			w.Timeout = &value
			changed = append(changed, "wizard.timeout")
		}
		if flags.Changed("maxsize") {
			value := configSetMaxSize
			w.MaxSize = &value
			changed = append(changed, "wizard.maxsize")
		}
		if flags.Changed("output-format") {
			w.OutputFormat = strings.ToLower(strings.TrimSpace(configSetOutputFormat))
			changed = append(changed, "wizard.output_format")
		}
		if flags.Changed("around-radius") {
			value := configSetAroundRadius
			w.AroundRadius = &value
			changed = append(changed, "wizard.around_radius")
		}
		if flags.Changed("preset-file") {
			ctx.cfg.Presets.Files = configSetPresetFiles
			changed = append(changed, "presets.files")
		}
		if flags.Changed("ui-accent") {
			value := strings.TrimSpace(configSetUIAccent)
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, "ui-accent cannot be empty", "")
			}
			ctx.cfg.UI.Accent = value
			changed = append(changed, "ui.accent")
		}
		if flags.Changed("ui-code-theme") {
			value := strings.TrimSpace(configSetUICodeTheme)
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, "ui-code-theme cannot be empty", "")
			}
			ctx.cfg.UI.CodeTheme = value
			changed = append(changed, "ui.code_theme")
		}

		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields provided; pass at least one flag", "Run 'twiz config set --help' to see the fields")
		}
		if err := ctx.cfg.WizardOptions().Validate(); err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		ctx.configExists = true
		if isJSONOutput() {
			data := configData(ctx)
			data["changed"] = changed
			outputSuccess(data, nil)
			return nil
		}

		fmt.Printf("Updated config: %s\n", ctx.configPath)
		fmt.Printf("changed: %s\n", strings.Join(changed, ", "))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current config.toml values",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})

	flags := configSetCmd.Flags()
	flags.Var(newCommentValue(&configSetComment), "comment", "Set wizard.comment (true, false, or a header text)")
	flags.Lookup("comment").NoOptDefVal = "true"
	flags.StringVar(&configSetOutputMode, "output-mode", "", "Set wizard.output_mode")
	flags.BoolVar(&configSetGlobalBbox, "global-bbox", false, "Set wizard.global_bbox")
	flags.IntVar(&configSetTimeout, "timeout", 0, "Set wizard.timeout in seconds")
	flags.Int64Var(&configSetMaxSize, "maxsize", 0, "Set wizard.maxsize in bytes")
	flags.StringVar(&configSetOutputFormat, "output-format", "", "Set wizard.output_format (json|xml)")
	flags.Float64Var(&configSetAroundRadius, "around-radius", 0, "Set wizard.around_radius in meters")
	flags.StringSliceVar(&configSetPresetFiles, "preset-file", nil, "Set presets.files (repeatable)")
	flags.StringVar(&configSetUIAccent, "ui-accent", "", "Set UI accent color (ANSI 0-255 or #RRGGBB)")
	flags.StringVar(&configSetUICodeTheme, "ui-code-theme", "", "Set the code theme for rendered queries")

	rootCmd.AddCommand(configCmd)
}

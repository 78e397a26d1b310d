package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/turbowiz/internal/atomicfile"
	"github.com/aidanlsb/turbowiz/internal/condition"
	"github.com/aidanlsb/turbowiz/internal/ui"
	"github.com/aidanlsb/turbowiz/internal/wizard"
)

var (
	compileComment      wizard.Comment
	compileOutputMode   string
	compileGlobalBbox   bool
	compileTimeout      int
	compileMaxSize      int64
	compileOutputFormat string
	compileAroundRadius float64
	compileASTFile      string
	compileOutputFile   string
	compileRender       bool
)

type compileResult struct {
	Search string `json:"search"`
	Query  string `json:"query"`
	File   string `json:"file,omitempty"`
}

var compileCmd = &cobra.Command{
	Use:   "compile <search...>",
	Short: "Compile a search into an Overpass QL query",
	Long: `Compile a search into an Overpass QL query.

The search may be given as several arguments; they are joined with spaces.
Flags override the [wizard] section of the config file.

Examples:
  twiz compile amenity=cafe in Vienna
  twiz compile "highway=bus_stop and shelter=yes" --comment=false
  twiz compile drinking water around Berlin --around-radius 250 -o water.overpassql
  twiz parse tourism=museum --json | jq .data > tree.json && twiz compile --ast tree.json`,
	RunE: runCompile,
}

func runCompile(cmd *cobra.Command, args []string) error {
	if ok, err := requireRuntime(); !ok {
		return err
	}

	opts := compileOptions(cmd)
	w := wizard.New(catalog)

	var (
		search string
		query  string
		err    error
	)
	if compileASTFile != "" {
		if len(args) > 0 {
			return handleErrorMsg(ErrInvalidInput, "pass either a search or --ast, not both", "")
		}
		parsed, readErr := readParsedQuery(compileASTFile)
		if readErr != nil {
			code := ErrInvalidInput
			if errors.Is(readErr, os.ErrNotExist) {
				code = ErrFileNotFound
			}
			return handleError(code, readErr, "")
		}
		search = describeSearch(parsed)
		query, err = w.Build(parsed, search, opts)
	} else {
		search = strings.TrimSpace(strings.Join(args, " "))
		if search == "" {
			return handleErrorMsg(ErrMissingArgument, "a search is required", "Example: twiz compile amenity=cafe in Vienna")
		}
		query, err = w.Compile(search, opts)
	}
	if err != nil {
		return handleWizardError(err)
	}

	recordHistory(search, query)

	if compileOutputFile != "" {
		if err := atomicfile.WriteFile(compileOutputFile, []byte(query+"\n"), 0o644); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
	}

	if isJSONOutput() {
		outputSuccess(compileResult{Search: search, Query: query, File: compileOutputFile}, nil)
		return nil
	}

	if compileOutputFile != "" {
		fmt.Println(ui.Successf("Wrote %s", ui.FilePath(compileOutputFile)))
		return nil
	}

	display := ui.NewDisplayContext(os.Stdout)
	render := display.IsTTY
	if cmd.Flags().Changed("render") {
		render = compileRender
	}
	if render {
		if rendered, err := ui.RenderQuery(query, display.TermWidth); err == nil {
			fmt.Print(rendered)
			return nil
		}
	}
	fmt.Println(query)
	return nil
}

// compileOptions starts from the configured options and applies every flag
// the user set.
func compileOptions(cmd *cobra.Command) wizard.Options {
	opts := wizard.DefaultOptions()
	if cfg != nil {
		opts = cfg.WizardOptions()
	}

	flags := cmd.Flags()
	if flags.Changed("comment") {
		opts.Comment = compileComment
	}
	if flags.Changed("output-mode") {
		opts.OutputMode = strings.TrimSpace(compileOutputMode)
	}
	if flags.Changed("global-bbox") {
		opts.GlobalBbox = compileGlobalBbox
	}
	if flags.Changed("timeout") {
		opts.Timeout = compileTimeout
	}
	if flags.Changed("maxsize") {
		size := compileMaxSize
		opts.MaxSize = &size
	}
	if flags.Changed("output-format") {
		opts.OutputFormat = strings.ToLower(strings.TrimSpace(compileOutputFormat))
	}
	if flags.Changed("around-radius") {
		opts.AroundRadius = compileAroundRadius
	}
	return opts
}

func readParsedQuery(path string) (*condition.ParsedQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parse tree: %w", err)
	}
	var parsed condition.ParsedQuery
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode parse tree %s: %w", path, err)
	}
	return &parsed, nil
}

// describeSearch renders a parse tree back into search syntax for the
// query header.
func describeSearch(parsed *condition.ParsedQuery) string {
	if parsed == nil || parsed.Expr == nil {
		return ""
	}
	s := condition.Format(parsed.Expr, renderCondition)
	switch parsed.Bounds {
	case condition.BoundsArea:
		s += " in " + parsed.Area
	case condition.BoundsAround:
		s += " around " + parsed.Area
	case condition.BoundsGlobal:
		s += " global"
	}
	return s
}

func init() {
	defaults := wizard.DefaultOptions()
	flags := compileCmd.Flags()

	compileComment = defaults.Comment
	flags.Var(newCommentValue(&compileComment), "comment", "Annotate the query: true, false, or a custom header text")
	flags.Lookup("comment").NoOptDefVal = "true"
	flags.StringVar(&compileOutputMode, "output-mode", defaults.OutputMode, "Output mode: recursive, or any 'out' mode such as geom, ids, center")
	flags.BoolVar(&compileGlobalBbox, "global-bbox", defaults.GlobalBbox, "Apply the bbox globally instead of per statement")
	flags.IntVar(&compileTimeout, "timeout", defaults.Timeout, "Query timeout in seconds")
	flags.Int64Var(&compileMaxSize, "maxsize", 0, "Memory limit in bytes (omitted unless set)")
	flags.StringVar(&compileOutputFormat, "output-format", defaults.OutputFormat, "Output format: json or xml")
	flags.Float64Var(&compileAroundRadius, "around-radius", defaults.AroundRadius, "Search radius in meters for 'around' searches")
	flags.StringVar(&compileASTFile, "ast", "", "Compile a JSON parse tree (as printed by 'twiz parse') instead of a search")
	flags.StringVarP(&compileOutputFile, "output", "o", "", "Write the query to a file")
	flags.BoolVar(&compileRender, "render", false, "Render the query with syntax highlighting (default: when stdout is a terminal)")

	rootCmd.AddCommand(compileCmd)
}

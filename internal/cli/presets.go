package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/turbowiz/internal/clause"
	"github.com/aidanlsb/turbowiz/internal/freeform"
	"github.com/aidanlsb/turbowiz/internal/ui"
)

type presetView struct {
	Name     string            `json:"name"`
	Terms    []string          `json:"terms,omitempty"`
	Tags     map[string]string `json:"tags"`
	Geometry []string          `json:"geometry"`
	Types    []string          `json:"types"`
	Filter   string            `json:"filter"`
}

func newPresetView(p freeform.Preset) presetView {
	res := p.Resolution()
	var filter strings.Builder
	for _, c := range res.Conditions {
		// Preset tags only produce key and eq conditions, which always compile.
		if compiled, err := clause.Compile(c); err == nil {
			filter.WriteString(compiled)
		}
	}
	types := make([]string, len(res.Types))
	for i, t := range res.Types {
		types[i] = string(t)
	}
	return presetView{
		Name:     p.Name,
		Terms:    p.Terms,
		Tags:     p.Tags,
		Geometry: p.Geometry,
		Types:    types,
		Filter:   filter.String(),
	}
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the presets free-form searches resolve to",
	Long: `List the presets free-form searches resolve to.

A bare word search such as "cafe" or "drinking water" is looked up by
preset name and search terms. Extra presets come from [presets] files in
the config and from --presets.`,
	Args: cobra.NoArgs,
	RunE: runPresetsList,
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all presets",
	Args:  cobra.NoArgs,
	RunE:  runPresetsList,
}

var presetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the preset a phrase resolves to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ok, err := requireRuntime(); !ok {
			return err
		}

		phrase := strings.Join(args, " ")
		preset, found := catalog.Lookup(phrase)
		if !found {
			return handleErrorMsg(ErrPresetNotFound, fmt.Sprintf("no preset matches %q", phrase), "Run 'twiz presets' to see known presets")
		}
		view := newPresetView(preset)

		if isJSONOutput() {
			outputSuccess(view, nil)
			return nil
		}

		fmt.Println(ui.Header(view.Name))
		if len(view.Terms) > 0 {
			fmt.Printf("terms:    %s\n", strings.Join(view.Terms, ", "))
		}
		fmt.Printf("tags:     %s\n", formatTags(view.Tags))
		fmt.Printf("geometry: %s\n", strings.Join(view.Geometry, ", "))
		fmt.Printf("types:    %s\n", strings.Join(view.Types, ", "))
		fmt.Printf("filter:   %s\n", view.Filter)
		return nil
	},
}

func runPresetsList(cmd *cobra.Command, args []string) error {
	if ok, err := requireRuntime(); !ok {
		return err
	}

	presets := catalog.Presets()
	views := make([]presetView, 0, len(presets))
	for _, p := range presets {
		views = append(views, newPresetView(p))
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"presets": views}, &Meta{Count: len(views)})
		return nil
	}

	display := ui.NewDisplayContext(os.Stdout)
	if display.IsTTY {
		rows := make([][]string, 0, len(views))
		for _, v := range views {
			rows = append(rows, []string{v.Name, formatTags(v.Tags), strings.Join(v.Types, ",")})
		}
		fmt.Println(ui.RenderTable(display, []string{"PRESET", "TAGS", "TYPES"}, rows))
		fmt.Println(ui.Hint(ui.Count(len(views), "preset", "presets")))
		return nil
	}

	tbl := ui.NewTable(3)
	for _, v := range views {
		tbl.AddRow(v.Name, formatTags(v.Tags), strings.Join(v.Types, ","))
	}
	fmt.Print(tbl.String())
	return nil
}

func formatTags(tags map[string]string) string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + tags[k]
	}
	return strings.Join(parts, " ")
}

func init() {
	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsShowCmd)
	rootCmd.AddCommand(presetsCmd)
}

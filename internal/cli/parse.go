package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/turbowiz/internal/clause"
	"github.com/aidanlsb/turbowiz/internal/condition"
	"github.com/aidanlsb/turbowiz/internal/normalize"
	"github.com/aidanlsb/turbowiz/internal/search"
	"github.com/aidanlsb/turbowiz/internal/wizard"
)

var parseNormalized bool

type parseGroup struct {
	Conditions []string `json:"conditions"`
}

var parseCmd = &cobra.Command{
	Use:   "parse <search...>",
	Short: "Print the parse tree of a search",
	Long: `Print the parse tree of a search as JSON.

The tree can be edited and compiled with 'twiz compile --ast <file>'.
With --normalized, print the AND-groups the query will contain instead.

Examples:
  twiz parse "amenity=cafe and (cuisine=coffee_shop or name~/star/i)"
  twiz parse --normalized "shop=* and (wheelchair=yes or wheelchair=limited)"`,
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	input := strings.TrimSpace(strings.Join(args, " "))
	if input == "" {
		return handleErrorMsg(ErrMissingArgument, "a search is required", "Example: twiz parse amenity=cafe in Vienna")
	}

	parsed, err := search.Parse(input)
	if err != nil {
		return handleWizardError(&wizard.Error{Kind: wizard.ParseFailure, Err: err})
	}

	if parseNormalized {
		return printNormalized(parsed)
	}

	if isJSONOutput() {
		outputSuccess(parsed, nil)
		return nil
	}

	out, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	fmt.Println(string(out))
	return nil
}

func printNormalized(parsed *condition.ParsedQuery) error {
	normalized, err := normalize.Normalize(parsed.Expr)
	if err != nil {
		return handleWizardError(&wizard.Error{Kind: wizard.UnknownConnective, Err: err})
	}

	groups := make([]parseGroup, 0, len(normalized.Groups))
	for _, g := range normalized.Groups {
		group := parseGroup{Conditions: make([]string, 0, len(g.Conditions))}
		for _, c := range g.Conditions {
			group.Conditions = append(group.Conditions, renderCondition(c))
		}
		groups = append(groups, group)
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"bounds": parsed.Bounds,
			"area":   parsed.Area,
			"groups": groups,
		}, &Meta{Count: len(groups)})
		return nil
	}

	for _, g := range groups {
		fmt.Println(strings.Join(g.Conditions, " and "))
	}
	return nil
}

func renderCondition(c condition.Condition) string {
	if c.Kind == condition.KindType {
		return "type:" + c.Type
	}
	return clause.Render(c)
}

func init() {
	parseCmd.Flags().BoolVar(&parseNormalized, "normalized", false, "Print the normalized AND-groups instead of the tree")
	rootCmd.AddCommand(parseCmd)
}

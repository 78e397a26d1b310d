package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/turbowiz/internal/guide"
	"github.com/aidanlsb/turbowiz/internal/ui"
)

var syntaxList bool

type syntaxSection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

var syntaxCmd = &cobra.Command{
	Use:   "syntax [section]",
	Short: "Show the search syntax guide",
	Long: `Show the search syntax guide, or one section of it.

Examples:
  twiz syntax
  twiz syntax --list
  twiz syntax presets
  twiz syntax "where to search"`,
	RunE: runSyntax,
}

func runSyntax(cmd *cobra.Command, args []string) error {
	g, err := guide.LoadSyntax()
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	if syntaxList {
		sections := make([]syntaxSection, 0, len(g.Sections))
		for _, s := range g.Sections {
			sections = append(sections, syntaxSection{ID: s.ID, Title: s.Title})
		}
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"sections": sections}, &Meta{Count: len(sections)})
			return nil
		}
		tbl := ui.NewTable(2)
		for _, s := range sections {
			tbl.AddRow(s.ID, s.Title)
		}
		fmt.Print(tbl.String())
		return nil
	}

	title, content := g.Title, g.Content
	id := ""
	if len(args) > 0 {
		name := strings.Join(args, " ")
		section, ok := g.Section(name)
		if !ok {
			return handleErrorMsg(ErrInvalidInput,
				fmt.Sprintf("unknown syntax section %q", name),
				"Available sections: "+strings.Join(g.IDs(), ", "))
		}
		id, title, content = section.ID, section.Title, section.Content
	}

	if isJSONOutput() {
		outputSuccess(syntaxSection{ID: id, Title: title, Content: content}, nil)
		return nil
	}

	display := ui.NewDisplayContext(os.Stdout)
	if display.IsTTY {
		if rendered, err := ui.RenderMarkdown(content, display.TermWidth); err == nil {
			fmt.Print(rendered)
			return nil
		}
	}
	fmt.Print(content)
	return nil
}

func init() {
	syntaxCmd.Flags().BoolVar(&syntaxList, "list", false, "List section names")
	rootCmd.AddCommand(syntaxCmd)
}

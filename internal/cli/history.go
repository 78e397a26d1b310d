package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/turbowiz/internal/history"
	"github.com/aidanlsb/turbowiz/internal/shellquote"
	"github.com/aidanlsb/turbowiz/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently compiled searches",
	Long: `List recently compiled searches, most recent first.

Searches are recorded when [history] enabled = true is set in the config.`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the query recorded for a search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseHistoryIDs(args)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		store, err := openHistory()
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}
		defer store.Close()

		entry, err := store.Get(ids[0])
		if err != nil {
			return handleError(ErrInvalidInput, err, "Run 'twiz history' to list entries")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"entry":   entry,
				"command": rerunCommand(entry),
			}, nil)
			return nil
		}
		display := ui.NewDisplayContext(os.Stdout)
		if display.IsTTY {
			fmt.Println(ui.Header(entry.Search))
			fmt.Println(ui.Hint("rerun: " + rerunCommand(entry)))
			if rendered, err := ui.RenderQuery(entry.Query, display.TermWidth); err == nil {
				fmt.Print(rendered)
				return nil
			}
		}
		fmt.Println(entry.Query)
		return nil
	},
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <id...>",
	Short: "Remove history entries",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseHistoryIDs(args)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		store, err := openHistory()
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}
		defer store.Close()

		removed, err := store.Delete(ids...)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		return reportRemoved(removed)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every history entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}
		defer store.Close()

		removed, err := store.Clear()
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		return reportRemoved(removed)
	},
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}
	defer store.Close()

	entries, err := store.List(historyLimit)
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"entries": entries}, &Meta{Count: len(entries)})
		return nil
	}

	if len(entries) == 0 {
		fmt.Println(ui.Hint("No recorded searches."))
		if cfg != nil && !cfg.History.Enabled {
			fmt.Println(ui.Hint("Set [history] enabled = true in the config to record them."))
		}
		return nil
	}

	tbl := ui.NewTable(4)
	for _, e := range entries {
		tbl.AddRow(strconv.FormatInt(e.ID, 10), humanize.Time(e.LastUsed), "×"+strconv.Itoa(e.Uses), e.Search)
	}
	fmt.Print(tbl.String())
	return nil
}

// rerunCommand is the command line that compiles the entry's search again.
func rerunCommand(e history.Entry) string {
	return shellquote.Join("twiz", "compile", e.Search)
}

func reportRemoved(removed int64) error {
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"removed": removed}, nil)
		return nil
	}
	noun := "entries"
	if removed == 1 {
		noun = "entry"
	}
	fmt.Println(ui.Successf("Removed %d history %s", removed, noun))
	return nil
}

func parseHistoryIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid history id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// historyPath returns where the history database lives for the loaded config.
func historyPath() string {
	if cfg != nil {
		if p := cfg.HistoryPath(); p != "" {
			return p
		}
	}
	return history.DefaultPath()
}

func openHistory() (*history.Store, error) {
	if err := loadRuntime(); err != nil {
		return nil, err
	}
	return history.Open(historyPath())
}

// recordHistory stores a successful compile when history is enabled.
// Failures are reported as warnings; the query was still produced.
func recordHistory(search, query string) {
	if cfg == nil || !cfg.History.Enabled {
		return
	}
	err := func() error {
		store, err := history.Open(historyPath())
		if err != nil {
			return err
		}
		defer store.Close()
		if _, err := store.Record(search, query); err != nil {
			return err
		}
		if cfg.History.Limit > 0 {
			_, err = store.Prune(cfg.History.Limit)
		}
		return err
	}()
	if err == nil {
		return
	}
	msg := fmt.Sprintf("search not saved to history: %v", err)
	runtimeWarnings = append(runtimeWarnings, Warning{Code: WarnHistoryFailed, Message: msg})
	if !jsonOutput {
		fmt.Fprintln(os.Stderr, ui.Warning(msg))
	}
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum entries to list (0 for all)")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRmCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/turbowiz/internal/buildinfo"
	"github.com/aidanlsb/turbowiz/internal/freeform"
	"github.com/aidanlsb/turbowiz/internal/history"
	"github.com/aidanlsb/turbowiz/internal/ui"
)

const defaultModulePath = "github.com/aidanlsb/turbowiz"

type versionInfo struct {
	Version        string `json:"version"`
	ModulePath     string `json:"module_path"`
	Commit         string `json:"commit,omitempty"`
	CommitTime     string `json:"commit_time,omitempty"`
	Modified       bool   `json:"modified"`
	GoVersion      string `json:"go_version"`
	GOOS           string `json:"goos"`
	GOARCH         string `json:"goarch"`
	BuiltinPresets int    `json:"builtin_presets"`
	HistorySchema  int    `json:"history_schema"`
}

var (
	readBuildInfo = debug.ReadBuildInfo
	versionShort  bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show turbowiz version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersionInfo()

		switch {
		case isJSONOutput():
			outputSuccess(info, nil)
		case versionShort:
			fmt.Println(info.Version)
		default:
			printVersion(info)
		}
		return nil
	},
}

func printVersion(info versionInfo) {
	fmt.Println(ui.Bold.Render("twiz " + info.Version))
	tbl := ui.NewTable(2)
	tbl.AddRow("module", info.ModulePath)
	if info.Commit != "" {
		tbl.AddRow("commit", info.Commit)
	}
	if info.CommitTime != "" {
		tbl.AddRow("commit_time", info.CommitTime)
	}
	tbl.AddRow("go", info.GoVersion)
	tbl.AddRow("platform", info.GOOS+"/"+info.GOARCH)
	tbl.AddRow("modified", strconv.FormatBool(info.Modified))
	tbl.AddRow("presets", strconv.Itoa(info.BuiltinPresets))
	tbl.AddRow("history", "schema v"+strconv.Itoa(info.HistorySchema))
	fmt.Print(tbl.String())
}

// currentVersionInfo prefers module build info and falls back to the values
// injected through buildinfo.
func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:       "devel",
		ModulePath:    defaultModulePath,
		GoVersion:     runtime.Version(),
		GOOS:          runtime.GOOS,
		GOARCH:        runtime.GOARCH,
		HistorySchema: history.CurrentVersion,
	}
	if builtin, err := freeform.LoadDefault(); err == nil {
		info.BuiltinPresets = builtin.Len()
	}

	if bi, ok := readBuildInfo(); ok && bi != nil {
		if bi.Main.Path != "" {
			info.ModulePath = bi.Main.Path
		}
		info.Version = normalizeVersion(bi.Main.Version)
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "GOOS":
				info.GOOS = s.Value
			case "GOARCH":
				info.GOARCH = s.Value
			case "vcs.revision":
				info.Commit = s.Value
			case "vcs.time":
				info.CommitTime = s.Value
			case "vcs.modified":
				info.Modified, _ = strconv.ParseBool(s.Value)
			}
		}
	}

	if info.Version == "devel" && buildinfo.Version != "" {
		info.Version = normalizeVersion(buildinfo.Version)
	}
	if info.Commit == "" {
		info.Commit = buildinfo.Commit
	}
	if info.CommitTime == "" {
		info.CommitTime = buildinfo.Date
	}
	return info
}

func normalizeVersion(version string) string {
	if version == "" || version == "(devel)" {
		return "devel"
	}
	return version
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version")
	rootCmd.AddCommand(versionCmd)
}

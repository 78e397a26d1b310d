package cli

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/aidanlsb/turbowiz/internal/history"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	prev := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prev })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestCurrentVersionInfo(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.23.4",
		Main:      debug.Module{Path: "example.com/fork/turbowiz", Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-02-14T17:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "GOOS", Value: "windows"},
			{Key: "GOARCH", Value: "amd64"},
		},
	})

	got := currentVersionInfo()
	want := versionInfo{
		Version:       "v1.2.3",
		ModulePath:    "example.com/fork/turbowiz",
		Commit:        "abc123",
		CommitTime:    "2026-02-14T17:00:00Z",
		Modified:      true,
		GoVersion:     "go1.23.4",
		GOOS:          "windows",
		GOARCH:        "amd64",
		HistorySchema: history.CurrentVersion,
	}
	if got.BuiltinPresets == 0 {
		t.Error("expected the built-in preset count to be reported")
	}
	got.BuiltinPresets = 0
	if got != want {
		t.Errorf("currentVersionInfo() = %+v\nwant %+v", got, want)
	}
}

func TestCurrentVersionInfoWithoutBuildInfo(t *testing.T) {
	stubBuildInfo(t, nil)

	got := currentVersionInfo()
	if got.Version != "devel" || got.ModulePath != defaultModulePath {
		t.Errorf("got version %q module %q", got.Version, got.ModulePath)
	}
	if got.GoVersion != runtime.Version() || got.GOOS != runtime.GOOS || got.GOARCH != runtime.GOARCH {
		t.Errorf("expected runtime values, got %s %s/%s", got.GoVersion, got.GOOS, got.GOARCH)
	}
}

func TestNormalizeVersion(t *testing.T) {
	for in, want := range map[string]string{"": "devel", "(devel)": "devel", "v0.3.1": "v0.3.1"} {
		if got := normalizeVersion(in); got != want {
			t.Errorf("normalizeVersion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestVersionCommandJSON(t *testing.T) {
	setupCLITest(t, "")
	stubBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Path: defaultModulePath, Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "GOOS", Value: "darwin"},
			{Key: "GOARCH", Value: "arm64"},
		},
	})
	jsonOutput = true

	out := captureStdout(t, func() {
		if err := versionCmd.RunE(versionCmd, nil); err != nil {
			t.Fatalf("versionCmd.RunE: %v", err)
		}
	})

	var resp struct {
		OK   bool        `json:"ok"`
		Data versionInfo `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if !resp.OK || resp.Data.Version != "devel" || resp.Data.Commit != "deadbeef" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Data.GOOS+"/"+resp.Data.GOARCH != "darwin/arm64" {
		t.Errorf("platform = %s/%s", resp.Data.GOOS, resp.Data.GOARCH)
	}
}

func TestVersionCommandShort(t *testing.T) {
	setupCLITest(t, "")
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Path: defaultModulePath, Version: "v0.4.0"}})
	setFlag(t, versionCmd, "short", "true")

	out := captureStdout(t, func() {
		if err := versionCmd.RunE(versionCmd, nil); err != nil {
			t.Fatalf("versionCmd.RunE: %v", err)
		}
	})
	if out != "v0.4.0\n" {
		t.Fatalf("got %q, want %q", out, "v0.4.0\n")
	}
}

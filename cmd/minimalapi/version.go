package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Version reports the module version when installed with `go install
// ...@version`, and devel-<VERSION>+<revision> for local builds.
func Version() string {
	info, _ := debug.ReadBuildInfo()
	return versionString(strings.TrimSpace(embeddedVersion), info)
}

func versionString(base string, info *debug.BuildInfo) string {
	if info == nil {
		return base
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return "devel-" + base + "+" + s.Value[:7]
		}
	}
	return "devel-" + base
}

// Package version reports the build stamped into the binaries
package version

import "runtime/debug"

// BuildInfo is what /version and `addrcheck version` print
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// set with -ldflags "-X addrcheck/internal/core/version.version=v0.1.0 ..."
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build info for service. An unstamped build falls back to the
// vcs revision recorded by the go tool, when there is one
func Info(service string) BuildInfo {
	bi := BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
	if commit != "none" {
		return bi
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				bi.Commit = s.Value
			case "vcs.time":
				bi.Date = s.Value
			}
		}
	}
	return bi
}

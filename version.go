package audiotag

import (
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the audiotag library.
const Version = "0.2.0"

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string
	GitCommit string // "unknown" outside a VCS checkout
	BuildTime string // commit time, RFC 3339
	GoVersion string
	Modified  bool // built from a dirty tree
}

// GetVersionInfo returns the library version plus the VCS stamp the Go
// toolchain embedded in the binary. Fields it cannot find read "unknown".
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: "unknown",
		BuildTime: "unknown",
		GoVersion: runtime.Version(),
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if bi.GoVersion != "" {
		info.GoVersion = bi.GoVersion
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.GitCommit = s.Value
		case "vcs.time":
			info.BuildTime = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// Package version reports how the xstitch binary was built.
//
// Release builds inject Version, Commit and Date with ldflags:
//
//	go build -ldflags "-X github.com/jmylchreest/xstitch/internal/version.Version=v1.2.3 \
//	  -X github.com/jmylchreest/xstitch/internal/version.Commit=$(git rev-parse HEAD) \
//	  -X github.com/jmylchreest/xstitch/internal/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Anything left unset is filled from the module build info embedded by the
// go tool, so `go install` builds still report a version and revision.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const unknown = "unknown"

// Set via ldflags.
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// Info is the resolved build information.
type Info struct {
	Version   string
	Commit    string
	Date      string
	Modified  bool
	GoVersion string
	Platform  string
}

// GetInfo resolves the build information.
func GetInfo() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	return info
}

// fillFromBuildInfo copies module and VCS details the ldflags did not set.
func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == unknown {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == unknown {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
}

// String formats the build information on one line.
func (i Info) String() string {
	if i.Commit == unknown {
		return fmt.Sprintf("xstitch %s (%s, %s)", i.Version, i.GoVersion, i.Platform)
	}
	commit := shortCommit(i.Commit)
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("xstitch %s (commit %s, built %s, %s, %s)",
		i.Version, commit, i.Date, i.GoVersion, i.Platform)
}

// String returns the resolved build information on one line.
func String() string {
	return GetInfo().String()
}

// Short returns just the version.
func Short() string {
	return GetInfo().Version
}

func shortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}

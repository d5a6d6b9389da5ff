// Package version carries the build metadata injected through ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the semantic version.
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with commit, build date and platform.
func GetFullVersion() string {
	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (commit %s, built %s, %s %s/%s)",
		Version, commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

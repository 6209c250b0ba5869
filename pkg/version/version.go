// Package version provides build version information.
package version

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// These are set via ldflags at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var (
	parseOnce sync.Once
	parsed    *semver.Version
)

// Info returns formatted version information.
func Info() string {
	commitShort := Commit
	if len(commitShort) > 7 {
		commitShort = commitShort[:7]
	}
	return fmt.Sprintf(
		"sqlgram %s (%s) built on %s with %s",
		Version,
		commitShort,
		BuildDate,
		runtime.Version(),
	)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Parsed returns the semantic version, or nil for builds like "dev".
func Parsed() *semver.Version {
	parseOnce.Do(func() {
		v, err := semver.NewVersion(Version)
		if err == nil {
			parsed = v
		}
	})
	return parsed
}

// IsPrerelease reports whether the build carries a prerelease tag (v1.2.0-beta.1).
func IsPrerelease() bool {
	v := Parsed()
	return v != nil && v.Prerelease() != ""
}

// IsDevBuild reports whether the build has no valid semver.
func IsDevBuild() bool {
	return Parsed() == nil
}

// resetParsed clears the cached version for tests.
func resetParsed() {
	parseOnce = sync.Once{}
	parsed = nil
}

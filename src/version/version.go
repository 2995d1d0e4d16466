package version

import "fmt"

// These variables are injected at build time via -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String returns a human-readable version string.
func String() string {
	return fmt.Sprintf("clank %s (%s, %s)", Version, Commit, BuildDate)
}

// Semver returns the bare version number for comparison against
// configuration file versions. Development builds report 0.0.0 so any
// versioned config is treated as newer.
func Semver() string {
	if Version == "dev" || Version == "" {
		return "0.0.0"
	}
	return Version
}

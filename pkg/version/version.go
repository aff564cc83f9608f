package version

import "fmt"

// Build-time variables injected via -ldflags.
var (
	Version = "v0.1.0-dev"
	Commit  = "none"
	Date    = "unknown"
)

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetFullVersion returns a formatted full version string.
func GetFullVersion() string {
	return fmt.Sprintf("nestify %s (commit: %s, built: %s)", Version, Commit, Date)
}

// Package version holds build version information shared by the binary and
// its packages.
package version

import "fmt"

// Version is the build version string, set by ldflags during build.
// Format: vX.Y.Z or vX.Y.Z-dev for development builds.
var Version = "v0.1.0-dev"

// BuildTime is the build timestamp, set by ldflags during build.
var BuildTime = "unknown"

// String returns "vX.Y.Z (build time)".
func String() string {
	return fmt.Sprintf("%s (%s)", Version, BuildTime)
}

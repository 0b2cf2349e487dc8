// SplatView - upload and browse 3D splat scans from the command line.
package main

import (
	"os"

	"github.com/splatview/splatview/internal/cli"
	"github.com/splatview/splatview/internal/version"
)

// Version information, overridden with -ldflags "-X main.Version=..."
var (
	Version   = "v0.1.0-dev"
	BuildTime = "unknown"
)

func main() {
	// Set version in version package (canonical source for all packages)
	// and CLI package
	version.Version = Version
	version.BuildTime = BuildTime
	cli.Version = Version
	cli.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

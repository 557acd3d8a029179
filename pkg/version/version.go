// Package version carries build information set at compile time via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "0.1.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns the full version line printed by the CLI.
func Info(name string) string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s, go: %s)", name, Version, Commit, BuildDate, runtime.Version())
}

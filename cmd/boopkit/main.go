package main

import (
	"os"

	"codeberg.org/sigterm-de/boopkit/internal/app"
)

// Injected at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(app.Run(app.BuildInfo{Version: version, Commit: commit, Date: date}))
}

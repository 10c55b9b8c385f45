// Package assets exposes the embedded transformation scripts and the
// bundled module tree they can require as "@boop/<name>".
package assets

import (
	"embed"
	"io/fs"
)

//go:embed scripts
var embedded embed.FS

// Scripts returns a sub-filesystem rooted at the scripts/ directory.
// Top-level .js files are built-in scripts; lib/ holds bundled modules.
func Scripts() fs.FS {
	sub, err := fs.Sub(embedded, "scripts")
	if err != nil {
		panic("assets: sub scripts: " + err.Error())
	}
	return sub
}

package scripts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"codeberg.org/sigterm-de/boopkit/internal/logging"
)

// LoadResult is the combined outcome of loading built-in and user scripts.
type LoadResult struct {
	Scripts      []Script
	SkippedFiles []string // files that were skipped (unreadable, too large, bad header)
	BuiltInCount int
	UserCount    int
}

// DefaultMaxScriptBytes caps the size of a single user script file.
const DefaultMaxScriptBytes = 5 * 1024 * 1024

// Loader discovers and parses scripts. Problems with individual files are
// logged and recorded in SkippedFiles; Load fails only when the built-in
// set itself cannot be walked.
type Loader interface {
	Load(userScriptsDir string) (LoadResult, error)
}

type loader struct {
	builtinFS fs.FS
	maxBytes  int64
}

// NewLoader returns a Loader reading built-ins from builtinFS (pass
// assets.Scripts()). maxUserBytes <= 0 selects DefaultMaxScriptBytes.
func NewLoader(builtinFS fs.FS, maxUserBytes int64) Loader {
	if maxUserBytes <= 0 {
		maxUserBytes = DefaultMaxScriptBytes
	}
	return &loader{builtinFS: builtinFS, maxBytes: maxUserBytes}
}

// Load implements Loader.
func (l *loader) Load(userScriptsDir string) (LoadResult, error) {
	var result LoadResult

	if l.builtinFS != nil {
		n, err := l.loadFrom(l.builtinFS, BuiltIn, &result, func(p string) string { return "embedded:" + p })
		if err != nil {
			return result, fmt.Errorf("scripts: load built-ins: %w", err)
		}
		result.BuiltInCount = n
	}

	if userScriptsDir != "" {
		if _, err := os.Stat(userScriptsDir); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logging.Log(logging.INFO, "", "user scripts dir does not exist: "+userScriptsDir)
			} else {
				logging.Log(logging.WARN, "", "cannot read user scripts dir: "+err.Error())
			}
			return result, nil
		}
		n, err := l.loadFrom(os.DirFS(userScriptsDir), UserProvided, &result, func(p string) string {
			return filepath.Join(userScriptsDir, filepath.FromSlash(p))
		})
		if err != nil {
			logging.Log(logging.WARN, "", "cannot read user scripts dir: "+err.Error())
		}
		result.UserCount = n
	}

	return result, nil
}

// loadFrom parses every top-level .js file in fsys. Subdirectories hold
// modules for require() and are not scripts.
func (l *loader) loadFrom(fsys fs.FS, origin Origin, result *LoadResult, location func(string) string) (int, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".js" {
			continue
		}

		script, err := l.loadOne(fsys, name, origin)
		if err != nil {
			logging.Log(logging.WARN, name, "skipping: "+err.Error())
			result.SkippedFiles = append(result.SkippedFiles, name)
			continue
		}

		script.Origin = origin
		script.Path = location(name)
		result.Scripts = append(result.Scripts, script)
		count++
	}
	return count, nil
}

func (l *loader) loadOne(fsys fs.FS, name string, origin Origin) (Script, error) {
	if origin == UserProvided {
		info, err := fs.Stat(fsys, name)
		if err != nil {
			return Script{}, err
		}
		if info.Size() > l.maxBytes {
			return Script{}, fmt.Errorf("file size %d B exceeds limit of %d B", info.Size(), l.maxBytes)
		}
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Script{}, err
	}
	return ParseHeader(string(data))
}

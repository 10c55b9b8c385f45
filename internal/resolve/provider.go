package resolve

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"unicode/utf8"
)

// Provider turns a namespace-relative path (always ending in the default
// extension) into source text.
type Provider interface {
	Load(p string) (Source, error)
}

// Source is the raw text of one script module and where it came from.
type Source struct {
	Path string // display location, e.g. "bundle:lib/lines.js" or an absolute path
	Text string
}

// Bundle serves modules compiled into the binary. Paths are looked up under
// Root inside FS.
type Bundle struct {
	FS   fs.FS
	Root string
}

// NewBundle returns a Bundle provider rooted at root inside fsys.
func NewBundle(fsys fs.FS, root string) *Bundle {
	return &Bundle{FS: fsys, Root: root}
}

// Load implements Provider.
func (b *Bundle) Load(p string) (Source, error) {
	full := path.Join(b.Root, p)
	if b.FS == nil || !fs.ValidPath(p) {
		return Source{}, &ResolutionError{Path: full, Kind: ErrNotFound}
	}

	data, err := fs.ReadFile(b.FS, full)
	if err != nil {
		return Source{}, &ResolutionError{Path: full, Kind: ErrNotFound, Err: err}
	}
	if !utf8.Valid(data) {
		return Source{}, &ResolutionError{Path: full, Kind: ErrEncoding}
	}
	return Source{Path: "bundle:" + full, Text: string(data)}, nil
}

var errInvalidText = errors.New("file is not valid UTF-8 text")

// Dir serves modules from a directory on disk. Lookups cannot escape Root.
// Every failure, including a missing file, is reported as ErrIO.
type Dir struct {
	Root string
}

// NewDir returns a Dir provider rooted at root.
func NewDir(root string) *Dir {
	return &Dir{Root: root}
}

// Load implements Provider.
func (d *Dir) Load(p string) (Source, error) {
	rel := filepath.FromSlash(p)
	full := filepath.Join(d.Root, rel)

	f, err := os.OpenInRoot(d.Root, rel)
	if err != nil {
		return Source{}, &ResolutionError{Path: full, Kind: ErrIO, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Source{}, &ResolutionError{Path: full, Kind: ErrIO, Err: err}
	}
	if !utf8.Valid(data) {
		return Source{}, &ResolutionError{Path: full, Kind: ErrIO, Err: errInvalidText}
	}
	return Source{Path: full, Text: string(data)}, nil
}

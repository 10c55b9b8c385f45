// Package resolve maps module specifiers passed to require() onto source
// text. A specifier whose prefix matches a registered namespace is served by
// that namespace's Provider; everything else is a path relative to the
// external scripts directory.
package resolve

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
)

const (
	// DefaultExtension is appended to specifiers that do not already end in it.
	DefaultExtension = ".js"

	// InternalPrefix marks specifiers served from the bundled module table.
	InternalPrefix = "@boop/"

	// BundleRoot is the directory inside the bundled scripts FS that holds
	// internal modules.
	BundleRoot = "lib"
)

// DefaultExternalRoot is the per-installation scripts directory
// ($XDG_CONFIG_HOME/<appName>/scripts).
func DefaultExternalRoot(appName string) string {
	return filepath.Join(xdg.ConfigHome, appName, "scripts")
}

// Normalize appends DefaultExtension when spec does not already end in it.
func Normalize(spec string) string {
	if strings.HasSuffix(spec, DefaultExtension) {
		return spec
	}
	return spec + DefaultExtension
}

type namespace struct {
	prefix   string
	provider Provider
}

// Resolver dispatches specifiers to providers by prefix. The longest
// matching prefix wins; unmatched specifiers go to the external provider.
// There is no cache: every Load reads the provider again.
type Resolver struct {
	namespaces []namespace
	external   Provider
}

// New returns a Resolver whose unprefixed specifiers are served by external.
// A nil external provider makes every unprefixed specifier fail with ErrIO.
func New(external Provider) *Resolver {
	return &Resolver{external: external}
}

// Mount registers p for specifiers beginning with prefix. Mounting the same
// prefix twice replaces the earlier provider.
func (r *Resolver) Mount(prefix string, p Provider) *Resolver {
	for i := range r.namespaces {
		if r.namespaces[i].prefix == prefix {
			r.namespaces[i].provider = p
			return r
		}
	}
	r.namespaces = append(r.namespaces, namespace{prefix: prefix, provider: p})
	sort.SliceStable(r.namespaces, func(i, j int) bool {
		return len(r.namespaces[i].prefix) > len(r.namespaces[j].prefix)
	})
	return r
}

// Load normalizes spec and returns the module source from whichever
// provider owns it. Failures are always *ResolutionError.
func (r *Resolver) Load(spec string) (Source, error) {
	spec = Normalize(spec)

	for _, ns := range r.namespaces {
		if rest, ok := strings.CutPrefix(spec, ns.prefix); ok {
			return r.load(ns.provider, spec, rest)
		}
	}

	if r.external == nil {
		return Source{}, &ResolutionError{Specifier: spec, Path: spec, Kind: ErrIO}
	}
	return r.load(r.external, spec, spec)
}

func (r *Resolver) load(p Provider, spec, rel string) (Source, error) {
	src, err := p.Load(rel)
	if err != nil {
		if re, ok := err.(*ResolutionError); ok {
			re.Specifier = spec
			return Source{}, re
		}
		return Source{}, &ResolutionError{Specifier: spec, Path: rel, Kind: ErrIO, Err: err}
	}
	return src, nil
}

package scripts

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Library is the combined searchable set of loaded scripts.
type Library interface {
	// All returns all scripts sorted by Bias ascending, then Origin (BuiltIn
	// before UserProvided), then Name ascending (case-insensitive).
	All() []Script

	// Search fuzzy-matches query against each script's name and tags.
	// Returns All() when query is empty and an empty (non-nil) slice when
	// nothing matches. Results are ordered by score, ties in All() order.
	Search(query string) []Script

	// Find returns the script whose name equals name, ignoring case.
	Find(name string) (Script, bool)

	// Suggest returns the scripts tagged with the format DetectFormat finds
	// in content, in All() order.
	Suggest(content string) []Script

	Len() int
}

// ScriptLibrary is the concrete implementation of Library.
type ScriptLibrary struct {
	sorted []Script
}

// NewLibrary sorts the scripts of result into canonical order.
func NewLibrary(result LoadResult) *ScriptLibrary {
	list := make([]Script, len(result.Scripts))
	copy(list, result.Scripts)

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Bias != b.Bias {
			return a.Bias < b.Bias
		}
		if a.Origin != b.Origin {
			return a.Origin < b.Origin
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})

	return &ScriptLibrary{sorted: list}
}

// All implements Library.
func (lib *ScriptLibrary) All() []Script {
	return append([]Script(nil), lib.sorted...)
}

// Len implements Library.
func (lib *ScriptLibrary) Len() int { return len(lib.sorted) }

// Find implements Library. When several scripts share a name the last one
// in All() order wins.
func (lib *ScriptLibrary) Find(name string) (Script, bool) {
	var (
		found Script
		ok    bool
	)
	for _, s := range lib.sorted {
		if strings.EqualFold(s.Name, name) {
			found, ok = s, true
		}
	}
	return found, ok
}

// Search implements Library using sahilm/fuzzy.
func (lib *ScriptLibrary) Search(query string) []Script {
	if query == "" {
		return lib.All()
	}

	matches := fuzzy.FindFrom(query, searchSource(lib.sorted))
	out := make([]Script, 0, len(matches))
	for _, m := range matches {
		out = append(out, lib.sorted[m.Index])
	}
	return out
}

// Suggest implements Library.
func (lib *ScriptLibrary) Suggest(content string) []Script {
	out := []Script{}
	format := DetectFormat(content)
	if format == FormatUnknown {
		return out
	}
	for _, s := range lib.sorted {
		if s.HasTag(string(format)) {
			out = append(out, s)
		}
	}
	return out
}

// searchSource implements fuzzy.Source over "name tag tag ...".
type searchSource []Script

func (s searchSource) String(i int) string {
	if len(s[i].Tags) == 0 {
		return s[i].Name
	}
	return s[i].Name + " " + strings.Join(s[i].Tags, " ")
}

func (s searchSource) Len() int { return len(s) }

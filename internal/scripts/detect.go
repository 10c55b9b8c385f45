package scripts

import (
	"encoding/json"
	"encoding/xml"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a document format recognised by DetectFormat. Its value matches
// the tag built-in scripts use for that format.
type Format string

const (
	FormatUnknown Format = ""
	FormatJSON    Format = "json"
	FormatHTML    Format = "html"
	FormatXML     Format = "xml"
	FormatYAML    Format = "yaml"
)

// maxDetectBytes bounds the input DetectFormat will look at.
const maxDetectBytes = 4 * 1024 * 1024

// detectors run in order; HTML precedes XML because HTML often parses as
// (broken) XML.
var detectors = []struct {
	format Format
	match  func(string) bool
}{
	{FormatHTML, isHTML},
	{FormatJSON, isJSON},
	{FormatXML, isXML},
	{FormatYAML, isYAML},
}

// DetectFormat returns the format of content, or FormatUnknown. A cheap
// prefix heuristic selects a candidate and a real parse confirms it, so a
// match is never a guess.
func DetectFormat(content string) Format {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > maxDetectBytes {
		return FormatUnknown
	}
	for _, d := range detectors {
		if d.match(content) {
			return d.format
		}
	}
	return FormatUnknown
}

func isJSON(s string) bool {
	if s[0] != '{' && s[0] != '[' {
		return false
	}
	return json.Valid([]byte(s))
}

// isHTML trusts the heuristic alone: HTML5 is not required to be well formed.
func isHTML(s string) bool {
	head := strings.ToLower(s[:min(512, len(s))])
	return strings.Contains(head, "<!doctype html") || strings.Contains(head, "<html")
}

func isXML(s string) bool {
	if !strings.HasPrefix(s, "<?xml") {
		if len(s) < 2 || s[0] != '<' || !(isLetter(s[1]) || s[1] == '!') {
			return false
		}
	}
	_, err := xml.NewDecoder(strings.NewReader(s)).Token()
	return err == nil
}

func isYAML(s string) bool {
	if !strings.HasPrefix(s, "---") && !looksLikeYAMLKey(firstLine(s)) {
		return false
	}
	var v any
	return yaml.Unmarshal([]byte(s), &v) == nil && v != nil
}

// looksLikeYAMLKey accepts "key:" and "key: value" where key has no spaces
// or slashes.
func looksLikeYAMLKey(line string) bool {
	key, rest, ok := strings.Cut(line, ":")
	if !ok || key == "" || strings.ContainsAny(key, " \t/") {
		return false
	}
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// firstLine returns the first non-blank line among the first ten.
func firstLine(s string) string {
	for i, line := range strings.SplitN(s, "\n", 11) {
		if i == 10 {
			break
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

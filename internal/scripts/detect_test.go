package scripts

import (
	"strings"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Format
	}{
		{"json object", `{"key": "value"}`, FormatJSON},
		{"json array", `[1, 2, 3]`, FormatJSON},
		{"json pretty", "{\n  \"a\": 1\n}", FormatJSON},
		{"json invalid brace", `{not json}`, FormatUnknown},
		{"json bare number", `42`, FormatUnknown},
		{"html doctype", `<!DOCTYPE html><html><body></body></html>`, FormatHTML},
		{"html tag", `<html lang="en"></html>`, FormatHTML},
		{"xml declaration", `<?xml version="1.0"?><root/>`, FormatXML},
		{"xml element", `<root><child/></root>`, FormatXML},
		{"plist", `<?xml version="1.0"?><plist version="1.0"><dict/></plist>`, FormatXML},
		{"yaml document separator", "---\nkey: value\n", FormatYAML},
		{"yaml mapping", "key: value\n", FormatYAML},
		{"yaml nested", "outer:\n  inner: 42\n", FormatYAML},
		{"url is not yaml", "https://example.com/a", FormatUnknown},
		{"plain text", "hello world", FormatUnknown},
		{"empty", "", FormatUnknown},
		{"whitespace only", "   \n\t  \n", FormatUnknown},
		{"sql", "SELECT * FROM users", FormatUnknown},
		{"markdown heading", "# Hello\n\nWorld\n", FormatUnknown},
		{"over limit", "{" + strings.Repeat(" ", maxDetectBytes) + "}", FormatUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectFormat(tc.input); got != tc.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

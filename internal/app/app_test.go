package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/sigterm-de/boopkit/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliResult struct {
	stdout, stderr string
	err            error
}

// runCLI runs the command tree with an isolated config and scripts dir.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile,
		[]byte("scripts_dir: "+filepath.Join(dir, "scripts")+"\nlog_level: error\n"), 0o644))

	var out, errOut bytes.Buffer
	root := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	root.SetArgs(append([]string{"--config", cfgFile}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.Execute()
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestRender(t *testing.T) {
	sel := engine.Selected("world")
	cases := []struct {
		name      string
		act       engine.Action
		selection *string
		want      string
	}{
		{"noop", engine.NoOp, nil, "hello world"},
		{"full", engine.ReplaceFull("bye"), nil, "bye"},
		{"selection", engine.ReplaceSelection("there"), sel, "hello there"},
		{"selection without one appends", engine.ReplaceSelection("!"), nil, "hello world!"},
		{"insert replaces selection", engine.Insert([]string{"a", "b"}), sel, "hello ab"},
		{"insert appends", engine.Insert([]string{"\n", "--"}), nil, "hello world\n--"},
		{"missing selection appends", engine.ReplaceSelection("x"), engine.Selected("nope"), "hello worldx"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Render(tc.act, "hello world", tc.selection))
		})
	}
}

func TestRenderReplacesFirstOccurrenceOnly(t *testing.T) {
	got := Render(engine.ReplaceSelection("X"), "ab ab", engine.Selected("ab"))
	assert.Equal(t, "X ab", got)
}

func TestLoadConfigurationFromFile(t *testing.T) {
	dir := t.TempDir()
	scriptsDir := filepath.Join(dir, "nested", "scripts")
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile,
		[]byte("scripts_dir: "+scriptsDir+"\nlog_level: debug\nmax_script_bytes: 1024\n"), 0o644))

	cfg, err := LoadConfiguration(cfgFile)
	require.NoError(t, err)

	assert.Equal(t, scriptsDir, cfg.ScriptsDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.EqualValues(t, 1024, cfg.MaxScriptBytes)
	assert.DirExists(t, scriptsDir)
}

func TestLoadConfigurationEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("scripts_dir: "+filepath.Join(dir, "a")+"\n"), 0o644))
	t.Setenv("BOOPKIT_SCRIPTS_DIR", filepath.Join(dir, "b"))

	cfg, err := LoadConfiguration(cfgFile)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "b"), cfg.ScriptsDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigurationMissingExplicitFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestRunFromStdin(t *testing.T) {
	r := runCLI(t, "hello", "run", "Upcase")

	require.NoError(t, r.err)
	assert.Equal(t, "HELLO", r.stdout)
}

func TestRunWithSelection(t *testing.T) {
	r := runCLI(t, "say hello there", "run", "upcase", "--selection", "hello")

	require.NoError(t, r.err)
	assert.Equal(t, "say HELLO there", r.stdout)
}

func TestRunFuzzyName(t *testing.T) {
	r := runCLI(t, "hello", "run", "upcas")

	require.NoError(t, r.err)
	assert.Equal(t, "HELLO", r.stdout)
}

func TestRunScriptFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "exclaim.js")
	require.NoError(t, os.WriteFile(p, []byte(`function main(s) { s.fullText = s.fullText + "!"; }`), 0o644))

	r := runCLI(t, "hi", "run", p)

	require.NoError(t, r.err)
	assert.Equal(t, "hi!", r.stdout)
}

func TestRunInputFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(p, []byte("b\na"), 0o644))

	r := runCLI(t, "", "run", "Sort Lines", "--file", p)

	require.NoError(t, r.err)
	assert.Equal(t, "a\nb", r.stdout)
}

func TestRunEachLine(t *testing.T) {
	r := runCLI(t, "one\ntwo", "run", "Upcase", "--each-line")

	require.NoError(t, r.err)
	assert.Equal(t, "ONE\nTWO", r.stdout)
}

func TestRunInfoGoesToStderr(t *testing.T) {
	r := runCLI(t, "hello", "run", "Count Characters")

	require.NoError(t, r.err)
	assert.Equal(t, "hello", r.stdout)
	assert.Contains(t, r.stderr, "info: 5 characters")
}

func TestRunPostedErrorFails(t *testing.T) {
	r := runCLI(t, "{nope", "run", "Format JSON")

	assert.ErrorIs(t, r.err, errScriptFailed)
	assert.Contains(t, r.stderr, "error: Invalid JSON")
}

func TestRunJSONOutput(t *testing.T) {
	r := runCLI(t, "hello", "run", "Upcase", "--output", "json")
	require.NoError(t, r.err)

	var report struct {
		Script string `json:"script"`
		Action struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		} `json:"action"`
		Output string `json:"output"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &report))
	assert.Equal(t, "Upcase", report.Script)
	assert.Equal(t, "replace-full", report.Action.Kind)
	assert.Equal(t, "HELLO", report.Output)
}

func TestRunRejectsUnknownOutput(t *testing.T) {
	r := runCLI(t, "x", "run", "Upcase", "--output", "xml")
	assert.Error(t, r.err)
}

func TestRunUnknownScript(t *testing.T) {
	r := runCLI(t, "x", "run", "zzzqqqxxx")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "no script matches")
}

func TestListAll(t *testing.T) {
	r := runCLI(t, "", "list")

	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Upcase")
	assert.Contains(t, r.stdout, "built-in")
}

func TestListQuery(t *testing.T) {
	r := runCLI(t, "", "list", "base64")

	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Base64 Encode")
	assert.NotContains(t, r.stdout, "Sort Lines")
}

func TestListSuggest(t *testing.T) {
	r := runCLI(t, `{"a": 1}`, "list", "--suggest", "-")

	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Format JSON")
	assert.NotContains(t, r.stdout, "Upcase")
}

func TestVersion(t *testing.T) {
	r := runCLI(t, "", "version")

	require.NoError(t, r.err)
	assert.Equal(t, "boopkit 1.2.3 (commit abc, built today)\n", r.stdout)
}

func TestRunTimeout(t *testing.T) {
	p := filepath.Join(t.TempDir(), "spin.js")
	require.NoError(t, os.WriteFile(p, []byte(`function main(s) { s.text = "partial"; for (;;) {} }`), 0o644))

	r := runCLI(t, "x", "run", p, "--timeout", "50ms")

	assert.ErrorIs(t, r.err, errScriptFailed)
	assert.Contains(t, r.stderr, "timed out after 50ms")
	assert.Equal(t, "partial", r.stdout)
}

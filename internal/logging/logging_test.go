package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLevel(INFO)
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(nil)
		SetLevel(INFO)
	})
	return &buf
}

func TestLogIncludesScriptKey(t *testing.T) {
	buf := capture(t)

	Log(WARN, "Sort Lines", "problem requiring script")

	out := buf.String()
	assert.Contains(t, out, "problem requiring script")
	assert.Contains(t, out, `script="Sort Lines"`)
	assert.Contains(t, out, "level=warn")
}

func TestLogOmitsEmptyScript(t *testing.T) {
	buf := capture(t)

	Log(INFO, "", "starting")

	assert.Contains(t, buf.String(), "starting")
	assert.NotContains(t, buf.String(), "script=")
}

func TestSetLevelFilters(t *testing.T) {
	buf := capture(t)

	Log(DEBUG, "x", "hidden")
	assert.Empty(t, buf.String())

	SetLevel(DEBUG)
	Logf(DEBUG, "x", "visible %d", 1)
	assert.Contains(t, buf.String(), "visible 1")
}

func TestLogWithoutOutputIsDropped(t *testing.T) {
	SetOutput(nil)
	assert.NotPanics(t, func() { Log(ERROR, "x", "nowhere") })
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug": DEBUG,
		"info":  INFO,
		"warn":  WARN,
		"error": ERROR,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestInitLoggerWritesStateFile(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_STATE_HOME", dir)
	xdg.Reload()
	t.Cleanup(func() {
		mu.Lock()
		defer mu.Unlock()
		if logFile != nil {
			_ = logFile.Close()
		}
		logger, logFile, logPath = nil, nil, ""
	})

	p, err := InitLogger("boopkit-test")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "boopkit-test", "boopkit-test.log"), p)
	assert.Equal(t, p, Path())

	Logf(INFO, "Upcase", "ran %d times", 3)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "ran 3 times")
	assert.Contains(t, string(b), "script=Upcase")
}

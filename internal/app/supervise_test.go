package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/sigterm-de/boopkit/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSupervised(t *testing.T, src string) *engine.Context {
	t.Helper()
	ec, err := engine.New(src, engine.WithName("supervised"), engine.WithResolver(engine.DefaultResolver(t.TempDir())))
	require.NoError(t, err)
	return ec
}

func TestSupervisorDropsStaleInterrupt(t *testing.T) {
	ec := newSupervised(t, `function main(s) { s.text = s.text.toUpperCase(); }`)
	sup := supervisor{ctx: context.Background(), timeout: time.Second}

	first := sup.execute(ec, "a", nil)
	require.Empty(t, first.Exception)

	// A timer from the previous run that fires after it returned.
	ec.Interrupt(errTimedOut)

	second := sup.execute(ec, "b", nil)
	assert.Empty(t, second.Exception)
	assert.Equal(t, "B", second.Output)
}

func TestSupervisorTimeoutsNeverLeakAcrossRuns(t *testing.T) {
	ec := newSupervised(t, `function main(s) { var n = 0; for (var i = 0; i < 20000; i++) { n += i; } s.text = s.text + n; }`)
	sup := supervisor{ctx: context.Background(), timeout: time.Millisecond}

	for i := 0; i < 500; i++ {
		r := sup.execute(ec, "x", nil)
		if r.Exception != "" && !strings.HasPrefix(r.Exception, "script execution timed out after") {
			t.Fatalf("run %d: unexpected exception %q", i, r.Exception)
		}
	}
}

func TestSupervisorCancelled(t *testing.T) {
	ec := newSupervised(t, `function main(s) { for (;;) {} }`)
	ctx, cancel := context.WithCancel(context.Background())
	sup := supervisor{ctx: ctx}

	time.AfterFunc(20*time.Millisecond, cancel)
	r := sup.execute(ec, "x", nil)

	assert.Equal(t, fmt.Sprintf("script execution cancelled: %v", context.Canceled), r.Exception)
}

func TestRunEachLineWithTightTimeout(t *testing.T) {
	p := writeTempScript(t, "busy.js", `function main(s) { var n = 0; for (var i = 0; i < 5000; i++) { n += i; } s.text = s.text.toUpperCase(); }`)
	input := strings.Repeat("line\n", 300) + "line"

	r := runCLI(t, input, "run", p, "--each-line", "--timeout", "1ms")

	for _, l := range strings.Split(strings.TrimSpace(r.stderr), "\n") {
		if l != "" && !strings.HasPrefix(l, "exception: script execution timed out after 1ms") {
			t.Fatalf("unexpected stderr line %q", l)
		}
	}
}

func writeTempScript(t *testing.T, name, src string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
	return p
}

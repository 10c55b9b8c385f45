package engine

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// ErrNoMain is returned by New when the top-level script does not leave a
// callable global named main behind.
var ErrNoMain = errors.New("script does not define a top-level function main(state)")

// Phase names the point at which a script raised an exception.
type Phase string

const (
	PhaseEvaluate Phase = "evaluate" // top-level evaluation at construction
	PhaseRequire  Phase = "require"  // evaluation of a required module
	PhaseMain     Phase = "main"     // invocation of main
)

// ScriptError is a JavaScript exception (or compile error) raised by a
// script. The engine logs these; they never abort Execute.
type ScriptError struct {
	Script string
	Phase  Phase
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Script, e.Phase, exceptionMessage(e.Err))
}

func (e *ScriptError) Unwrap() error { return e.Err }

// exceptionMessage prefers the JS exception text (including its stack) over
// the generic Go error string.
func exceptionMessage(err error) string {
	var jsException *goja.Exception
	if errors.As(err, &jsException) {
		return jsException.Error()
	}
	return err.Error()
}

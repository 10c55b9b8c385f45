package engine

import (
	"codeberg.org/sigterm-de/boopkit/internal/logging"
	"codeberg.org/sigterm-de/boopkit/internal/resolve"
	"github.com/dop251/goja"
)

// installRequire binds the global require(specifier).
//
// Native modules are handed out by the goja_nodejs registry. Any other
// specifier is resolved to source text, wrapped, and evaluated in the global
// scope on every call; the wrapped expression's value (module.exports) is
// returned. Failures are logged and yield undefined so that a bad import
// never aborts the requiring script.
func (c *Context) installRequire() {
	c.vm.Set("require", func(call goja.FunctionCall) goja.Value {
		spec := call.Argument(0).String()
		logging.Logf(logging.DEBUG, c.name, "loading %s", spec)

		if name, ok := nativeName(spec); ok {
			v, err := c.native.Require(name)
			if err != nil {
				logging.Log(logging.ERROR, c.name, (&ScriptError{Script: name, Phase: PhaseRequire, Err: err}).Error())
				return goja.Undefined()
			}
			return v
		}

		src, err := c.resolver.Load(resolve.Normalize(spec))
		if err != nil {
			logging.Log(logging.WARN, c.name, "problem requiring script, "+err.Error())
			return goja.Undefined()
		}
		logging.Logf(logging.DEBUG, c.name, "resolved %s to %s", spec, src.Path)

		exports, err := c.vm.RunScript(src.Path, Wrap(src.Text))
		if err != nil {
			logging.Log(logging.ERROR, c.name, (&ScriptError{Script: src.Path, Phase: PhaseRequire, Err: err}).Error())
			return goja.Undefined()
		}
		return exports
	})
}

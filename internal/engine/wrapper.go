package engine

import "strings"

// The module shim. A required file runs inside a function taking
// (exports, module) with module.exports as receiver, and the whole
// expression evaluates to module.exports, so plain script evaluation gives
// each module its own scope.
const (
	wrapperStart = `(function() {
    var module = {
        exports: {}
    };

    const moduleWrapper = (function (exports, module) {
`

	// Leading newline keeps a trailing line comment in the module source
	// from swallowing the closing brace.
	wrapperEnd = `
    }).apply(module.exports, [module.exports, module]);

    return module.exports;
})();
`
)

// Wrap returns source embedded in the CommonJS-style module shim.
func Wrap(source string) string {
	var b strings.Builder
	b.Grow(len(wrapperStart) + len(source) + len(wrapperEnd))
	b.WriteString(wrapperStart)
	b.WriteString(source)
	b.WriteString(wrapperEnd)
	return b.String()
}

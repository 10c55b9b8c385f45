package engine

import (
	"encoding/base64"
	"fmt"

	"github.com/dop251/goja"
)

// poisoned globals are set to undefined before any script runs.
var poisoned = []string{
	"fetch", "XMLHttpRequest", "WebSocket",
	"process", "global", "Buffer",
	"setTimeout", "setInterval", "clearTimeout", "clearInterval",
	"eval",
}

func sandbox(vm *goja.Runtime) {
	for _, name := range poisoned {
		_ = vm.Set(name, goja.Undefined())
	}
}

// registerBtoaAtob registers base64 encode/decode globals matching the
// browser API. btoa rejects code points above U+00FF.
func registerBtoaAtob(vm *goja.Runtime) {
	_ = vm.Set("btoa", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return vm.ToValue("")
		}
		runes := []rune(call.Arguments[0].String())
		buf := make([]byte, len(runes))
		for i, r := range runes {
			if r > 0xFF {
				panic(vm.NewGoError(fmt.Errorf("InvalidCharacterError: btoa received a character (U+%04X) outside the Latin-1 range", r)))
			}
			buf[i] = byte(r)
		}
		return vm.ToValue(base64.StdEncoding.EncodeToString(buf))
	})

	_ = vm.Set("atob", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return vm.ToValue("")
		}
		decoded, err := base64.StdEncoding.DecodeString(call.Arguments[0].String())
		if err != nil {
			panic(vm.NewGoError(fmt.Errorf("atob: %w", err)))
		}
		runes := make([]rune, len(decoded))
		for i, b := range decoded {
			runes[i] = rune(b)
		}
		return vm.ToValue(string(runes))
	})
}

package engine

import (
	"fmt"

	"codeberg.org/sigterm-de/boopkit/internal/logging"
	"codeberg.org/sigterm-de/boopkit/internal/resolve"
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
	"gopkg.in/yaml.v3"
	"howett.net/plist"
)

// nativeModules are implemented in Go and take precedence over the bundled
// lib tree for the same name.
var nativeModules = map[string]require.ModuleLoader{
	"@boop/yaml":  yamlCodec.load,
	"@boop/plist": plistCodec.load,
}

// nativeName maps a specifier to its registered native module name. Both
// "@boop/yaml" and "@boop/yaml.js" name the same module.
func nativeName(spec string) (string, bool) {
	norm := resolve.Normalize(spec)
	for name := range nativeModules {
		if resolve.Normalize(name) == norm {
			return name, true
		}
	}
	return "", false
}

// registerNativeModules enables a goja_nodejs registry on vm that knows only
// the native modules and console. It never reads files. The global require
// it installs is replaced by installRequire afterwards.
func registerNativeModules(vm *goja.Runtime, scriptName string) *require.RequireModule {
	registry := require.NewRegistry(require.WithLoader(refuseFiles))
	for name, loader := range nativeModules {
		registry.RegisterNativeModule(name, loader)
	}
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(consolePrinter{script: scriptName}))

	mod := registry.Enable(vm)
	console.Enable(vm)
	return mod
}

func refuseFiles(path string) ([]byte, error) {
	return nil, require.ModuleFileDoesNotExistError
}

// consolePrinter sends console.log/warn/error to the application log.
type consolePrinter struct {
	script string
}

func (p consolePrinter) Log(s string)   { logging.Log(logging.INFO, p.script, s) }
func (p consolePrinter) Warn(s string)  { logging.Log(logging.WARN, p.script, s) }
func (p consolePrinter) Error(s string) { logging.Log(logging.ERROR, p.script, s) }

// codec is a text format exposed to scripts as a module with parse and
// stringify. Argument and codec errors throw in the calling script.
type codec struct {
	module  string
	aliases []string // extra names bound to parse
	decode  func(text []byte) (any, error)
	encode  func(v any) ([]byte, error)
}

var (
	yamlCodec = codec{
		module: "yaml",
		decode: func(text []byte) (any, error) {
			var v any
			if err := yaml.Unmarshal(text, &v); err != nil {
				return nil, err
			}
			return stringKeys(v), nil
		},
		encode: yaml.Marshal,
	}

	// parse already detects binary input; parseBinary is kept because Boop
	// scripts call it.
	plistCodec = codec{
		module:  "plist",
		aliases: []string{"parseBinary"},
		decode: func(text []byte) (any, error) {
			var v any
			_, err := plist.Unmarshal(text, &v)
			return v, err
		},
		encode: func(v any) ([]byte, error) {
			return plist.MarshalIndent(v, plist.XMLFormat, "\t")
		},
	}
)

func (cd codec) load(rt *goja.Runtime, module *goja.Object) {
	exports := module.Get("exports").(*goja.Object)

	for _, fn := range append([]string{"parse"}, cd.aliases...) {
		_ = exports.Set(fn, func(call goja.FunctionCall) goja.Value {
			v, err := cd.decode([]byte(cd.arg(rt, fn, call).String()))
			if err != nil {
				panic(rt.NewGoError(fmt.Errorf("%s.%s: %w", cd.module, fn, err)))
			}
			return rt.ToValue(v)
		})
	}

	_ = exports.Set("stringify", func(call goja.FunctionCall) goja.Value {
		b, err := cd.encode(cd.arg(rt, "stringify", call).Export())
		if err != nil {
			panic(rt.NewGoError(fmt.Errorf("%s.stringify: %w", cd.module, err)))
		}
		return rt.ToValue(string(b))
	})
}

func (cd codec) arg(rt *goja.Runtime, fn string, call goja.FunctionCall) goja.Value {
	if len(call.Arguments) == 0 {
		panic(rt.NewTypeError("%s.%s requires an argument", cd.module, fn))
	}
	return call.Arguments[0]
}

// stringKeys rebuilds decoded YAML so every mapping has string keys; goja
// only exposes map[string]any as a plain object.
func stringKeys(v any) any {
	switch node := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(node))
		for k, child := range node {
			m[fmt.Sprint(k)] = stringKeys(child)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(node))
		for k, child := range node {
			m[k] = stringKeys(child)
		}
		return m
	case []any:
		list := make([]any, len(node))
		for i, child := range node {
			list[i] = stringKeys(child)
		}
		return list
	}
	return v
}

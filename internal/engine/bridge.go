package engine

import (
	"fmt"

	"codeberg.org/sigterm-de/boopkit/internal/logging"
	"github.com/dop251/goja"
)

// newPayload builds the object handed to main. It has no state of its own:
// every accessor and function writes straight through to status.
func newPayload(vm *goja.Runtime, status *Status, scriptName string) *goja.Object {
	payload := vm.NewObject()

	bindBox(vm, payload, "fullText", &status.FullText, scriptName)
	bindBox(vm, payload, "text", &status.Text, scriptName)
	bindBox(vm, payload, "selection", &status.Selection, scriptName)

	_ = payload.Set("postInfo", func(call goja.FunctionCall) goja.Value {
		status.PostInfo(stringArg(call))
		return goja.Undefined()
	})

	_ = payload.Set("postError", func(call goja.FunctionCall) goja.Value {
		status.PostError(stringArg(call))
		return goja.Undefined()
	})

	_ = payload.Set("insert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			status.Insert(call.Arguments[0].String())
		}
		return goja.Undefined()
	})

	return payload
}

// bindBox defines name on obj as an accessor property backed by box.
func bindBox(vm *goja.Runtime, obj *goja.Object, name string, box Box[string], scriptName string) {
	getter := vm.ToValue(func(goja.FunctionCall) goja.Value {
		return vm.ToValue(box.Get())
	})
	setter := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		v := call.Argument(0).String()
		logging.Logf(logging.DEBUG, scriptName, "setting %s (%d bytes)", name, len(v))
		box.Set(v)
		return goja.Undefined()
	})
	if err := obj.DefineAccessorProperty(name, getter, setter, goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
		panic(fmt.Errorf("define %s accessor: %w", name, err))
	}
}

func stringArg(call goja.FunctionCall) string {
	if len(call.Arguments) == 0 {
		return ""
	}
	return call.Arguments[0].String()
}

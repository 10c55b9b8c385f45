package engine

import (
	"fmt"

	"codeberg.org/sigterm-de/boopkit/assets"
	"codeberg.org/sigterm-de/boopkit/internal/logging"
	"codeberg.org/sigterm-de/boopkit/internal/resolve"
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"
)

const appName = "boopkit"

// Context is a compiled script with its retained main function. Build it
// once with New and call Execute for each document.
type Context struct {
	name     string
	vm       *goja.Runtime
	main     goja.Callable
	resolver *resolve.Resolver
	native   *require.RequireModule
	status   Status
}

// Option configures a Context.
type Option func(*Context)

// WithName sets the display name used in log records and error messages.
func WithName(name string) Option {
	return func(c *Context) { c.name = name }
}

// WithResolver replaces the default module resolver.
func WithResolver(r *resolve.Resolver) Option {
	return func(c *Context) { c.resolver = r }
}

// DefaultResolver serves "@boop/" from the embedded lib tree and everything
// else from scriptsDir.
func DefaultResolver(scriptsDir string) *resolve.Resolver {
	return resolve.New(resolve.NewDir(scriptsDir)).
		Mount(resolve.InternalPrefix, resolve.NewBundle(assets.Scripts(), resolve.BundleRoot))
}

// New creates a runtime, installs require and the script globals, evaluates
// source in the global scope and retains its main function.
//
// An exception during evaluation is logged and otherwise ignored; only a
// missing or non-callable main makes New fail, with an error wrapping
// ErrNoMain.
func New(source string, opts ...Option) (c *Context, err error) {
	c = &Context{name: "script"}
	for _, opt := range opts {
		opt(c)
	}
	if c.resolver == nil {
		c.resolver = DefaultResolver(resolve.DefaultExternalRoot(appName))
	}

	name := c.name
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, fmt.Errorf("%s: internal engine error: %v", name, r)
		}
	}()

	logging.Log(logging.DEBUG, c.name, "initializing runtime")

	c.vm = goja.New()
	c.vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	sandbox(c.vm)
	c.native = registerNativeModules(c.vm, c.name)
	registerBtoaAtob(c.vm)
	c.installRequire()

	if _, runErr := c.vm.RunScript(c.name, source); runErr != nil {
		logging.Log(logging.ERROR, c.name, (&ScriptError{Script: c.name, Phase: PhaseEvaluate, Err: runErr}).Error())
	}

	mainFn, ok := goja.AssertFunction(c.vm.Get("main"))
	if !ok {
		return nil, fmt.Errorf("%s: %w", c.name, ErrNoMain)
	}
	c.main = mainFn
	return c, nil
}

// Name returns the display name given with WithName.
func (c *Context) Name() string { return c.name }

// Execute runs main against fullText. selection is nil when nothing is
// selected. Script exceptions are logged and recorded on the returned
// Status; side effects made before a throw are kept.
func (c *Context) Execute(fullText string, selection *string) Status {
	defer c.vm.ClearInterrupt()

	c.status.reset(fullText, selection)
	c.invokeMain()
	return c.status.snapshot()
}

// Interrupt aborts the running main with reason, which surfaces as the
// invocation's exception. It is the only method safe to call from another
// goroutine. An interrupt raised while no main is running stays pending and
// aborts the next Execute unless ClearInterrupt is called first.
func (c *Context) Interrupt(reason any) { c.vm.Interrupt(reason) }

// ClearInterrupt drops a pending interrupt.
func (c *Context) ClearInterrupt() { c.vm.ClearInterrupt() }

func (c *Context) invokeMain() {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("internal engine error: %v", r)
			logging.Log(logging.ERROR, c.name, msg)
			c.status.recordException(msg)
		}
	}()

	payload := newPayload(c.vm, &c.status, c.name)
	if _, err := c.main(payload, payload); err != nil {
		scriptErr := &ScriptError{Script: c.name, Phase: PhaseMain, Err: err}
		logging.Log(logging.ERROR, c.name, scriptErr.Error())
		c.status.recordException(exceptionMessage(err))
	}
}

// Selected is a convenience for passing a selection to Execute.
func Selected(text string) *string { return &text }

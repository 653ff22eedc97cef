//go:build js && wasm

package wasmbook

import (
	"context"
	"fmt"
	"sync"
	"syscall/js"

	"github.com/wasmbook/wasmbook/csf"
	"github.com/wasmbook/wasmbook/dom"
	"github.com/wasmbook/wasmbook/schema"
)

const (
	// DefaultGlobalName is the JS global the API object installs under when
	// Export is called with an empty name.
	DefaultGlobalName = "wasmbook"

	// MountID identifies the anchor element mount_story renders into. The
	// host page owns that element; this library only replaces its contents.
	MountID = "storybook-root"
)

// RegisterAllFunc populates the default registry with the host's stories.
type RegisterAllFunc func(context.Context) error

// Export installs the viewer-facing API object on the JS global scope:
//
//	register_all_stories()        populate the registry (idempotent)
//	get_stories()                 catalog as a parsed JSON array
//	export_stories_csf()          alias of get_stories
//	render_story(name, args)      {node: Element} or {error: string}
//	mount_story(name, args)       render into #storybook-root; null or {error}
//	get_enum_options(typeName)    select options for a type, or null
//
// Handlers never throw across the ABI: failures come back as {error}
// objects, and panics are reported on the console instead of killing the
// wasm instance. The context is retained for logger transport only.
func Export(ctx context.Context, globalName string, registerAll RegisterAllFunc) {
	if globalName == "" {
		globalName = DefaultGlobalName
	}

	var (
		once   sync.Once
		regErr error
	)

	api := js.Global().Get("Object").New()

	api.Set("register_all_stories", guard("register_all_stories", func(js.Value, []js.Value) any {
		once.Do(func() {
			if registerAll != nil {
				regErr = registerAll(ctx)
			}
		})
		if regErr != nil {
			return map[string]any{"error": regErr.Error()}
		}
		return js.Null()
	}))

	stories := guard("get_stories", func(js.Value, []js.Value) any {
		raw, err := csf.CatalogJSON(List())
		if err != nil {
			return map[string]any{"error": err.Error()}
		}
		return js.Global().Get("JSON").Call("parse", string(raw))
	})
	api.Set("get_stories", stories)
	api.Set("export_stories_csf", stories)

	api.Set("render_story", guard("render_story", func(_ js.Value, args []js.Value) any {
		name, err := storyName(args)
		if err != nil {
			return map[string]any{"error": err.Error()}
		}
		node, err := RenderJSON(ctx, name, bagJSON(args))
		if err != nil {
			return map[string]any{"error": err.Error()}
		}
		return map[string]any{"node": dom.Render(node)}
	}))

	api.Set("mount_story", guard("mount_story", func(_ js.Value, args []js.Value) any {
		name, err := storyName(args)
		if err != nil {
			return map[string]any{"error": err.Error()}
		}
		node, err := RenderJSON(ctx, name, bagJSON(args))
		if err != nil {
			return map[string]any{"error": err.Error()}
		}
		if err := dom.MountByID(MountID, node); err != nil {
			return map[string]any{"error": err.Error()}
		}
		return js.Null()
	}))

	api.Set("get_enum_options", guard("get_enum_options", func(_ js.Value, args []js.Value) any {
		if len(args) < 1 || args[0].Type() != js.TypeString {
			return js.Null()
		}
		options, ok := schema.Options(args[0].String())
		if !ok {
			return js.Null()
		}
		out := make([]any, len(options))
		for i, option := range options {
			out[i] = option
		}
		return out
	}))

	js.Global().Set(globalName, api)
}

// storyName pulls the story name out of a handler's argument list.
func storyName(args []js.Value) (string, error) {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return "", fmt.Errorf("a story name is required")
	}
	return args[0].String(), nil
}

// bagJSON serializes the host's argument object through JSON.stringify, so
// the binding layer sees the same JSON it would get over any other boundary.
// Absent or null args mean an empty bag.
func bagJSON(args []js.Value) []byte {
	if len(args) < 2 || !args[1].Truthy() {
		return nil
	}
	raw := js.Global().Get("JSON").Call("stringify", args[1])
	if raw.Type() != js.TypeString {
		return nil
	}
	return []byte(raw.String())
}

// guard wraps a handler so a panic inside it reaches the browser console as
// an error value instead of tearing down the wasm instance.
func guard(name string, fn func(js.Value, []js.Value) any) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) (result any) {
		defer func() {
			if r := recover(); r != nil {
				msg := fmt.Sprintf("wasmbook: %s panicked: %v", name, r)
				js.Global().Get("console").Call("error", msg)
				result = map[string]any{"error": msg}
			}
		}()
		return fn(this, args)
	})
}

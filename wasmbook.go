// Package wasmbook lets Go components compiled to WebAssembly be registered,
// described, and rendered inside a JavaScript component-viewer tool.
//
// A component ("story") is a struct implementing Story whose exported fields
// declare its configurable arguments. Registering a story derives an argument
// descriptor from the struct's fields and installs a render function in a
// process-wide registry. The viewer then lists the catalog and renders
// stories by name with a dynamic argument bag; bags that do not fit a story's
// shape silently degrade to the story's documented defaults.
//
// The package-level functions operate on the default registry. Hosts that
// need isolated registries can work with package registry directly.
package wasmbook

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/wasmbook/wasmbook/decode"
	"github.com/wasmbook/wasmbook/dom"
	"github.com/wasmbook/wasmbook/internal/ctxlog"
	"github.com/wasmbook/wasmbook/registry"
	"github.com/wasmbook/wasmbook/schema"
	"github.com/zclconf/go-cty/cty"
)

// defaultRegistry holds the process-wide registry, created lazily on first
// use. An atomic pointer keeps reads lock-free and lets Reset swap in a
// fresh registry without racing concurrent callers.
var defaultRegistry atomic.Pointer[registry.Registry]

// Default returns the process-wide registry.
func Default() *registry.Registry {
	if r := defaultRegistry.Load(); r != nil {
		return r
	}
	r := registry.New()
	if defaultRegistry.CompareAndSwap(nil, r) {
		return r
	}
	return defaultRegistry.Load()
}

// Register derives the descriptor for proto's type and installs it in the
// default registry under the struct's type name. Malformed field annotations
// make Register fail; nothing is installed in that case.
func Register(ctx context.Context, proto Story) error {
	if proto == nil {
		return ErrNilStory
	}
	entry, err := newEntry(ctx, proto)
	if err != nil {
		return err
	}
	return Default().Register(ctx, entry)
}

// MustRegister registers every prototype and panics on the first failure.
// Programs register their stories at startup, so a malformed annotation
// aborts the program before it serves anything.
func MustRegister(protos ...Story) {
	ctx := context.Background()
	for _, proto := range protos {
		if err := Register(ctx, proto); err != nil {
			panic(fmt.Sprintf("wasmbook: %v", err))
		}
	}
}

// List returns one item per registered story, in registration order.
func List() []registry.Item {
	return Default().List()
}

// Render renders the named story with the given argument bag.
func Render(ctx context.Context, name string, args cty.Value) (*dom.Node, error) {
	return Default().Render(ctx, name, args)
}

// RenderJSON renders the named story with a JSON-encoded argument bag. A bag
// that is not valid JSON counts as a binding failure: the story renders with
// its defaults rather than surfacing an error. An unknown name is still an
// explicit error.
func RenderJSON(ctx context.Context, name string, rawArgs []byte) (*dom.Node, error) {
	bag, err := decode.FromJSON(rawArgs)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Discarding malformed argument bag.", "story", name, "error", err)
		bag = cty.EmptyObjectVal
	}
	return Render(ctx, name, bag)
}

// Reset swaps in a fresh registry and clears the select-options registry.
// Test isolation only.
func Reset() {
	defaultRegistry.Store(registry.New())
	schema.ResetOptions()
}

package wasmbook

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/wasmbook/wasmbook/decode"
	"github.com/wasmbook/wasmbook/dom"
	"github.com/wasmbook/wasmbook/internal/ctxlog"
	"github.com/wasmbook/wasmbook/registry"
	"github.com/wasmbook/wasmbook/schema"
	"github.com/zclconf/go-cty/cty"
)

// ErrNilStory reports a registration attempt with a nil prototype.
var ErrNilStory = errors.New("story prototype must not be nil")

// Story is implemented by component prototypes. A story is a struct whose
// exported fields describe its configurable arguments; Render builds the
// node tree for the current field values.
//
// The prototype passed to Register is never rendered itself. Every render
// request starts from a fresh instance carrying the descriptor defaults, so
// stories may keep per-render state in their fields without leaking it
// across requests.
type Story interface {
	Render() *dom.Node
}

// newEntry derives a registry entry from a story prototype: the descriptor
// comes from the prototype's struct fields, and the render function binds an
// argument bag onto a fresh default instance before calling Render.
func newEntry(ctx context.Context, proto Story) (*registry.Entry, error) {
	storyType := reflect.TypeOf(proto)
	def, err := schema.Describe(storyType)
	if err != nil {
		return nil, err
	}

	// Prove the default instance is constructible now, while failures still
	// abort registration instead of a render.
	if _, err := decode.NewDefault(storyType, def.Args); err != nil {
		return nil, fmt.Errorf("story '%s': %w", def.Name, err)
	}

	ctxlog.FromContext(ctx).Debug("Derived story descriptor.", "name", def.Name, "args", len(def.Args))

	render := func(ctx context.Context, args cty.Value) *dom.Node {
		logger := ctxlog.FromContext(ctx)
		inst, err := decode.NewDefault(storyType, def.Args)
		if err != nil {
			// Construction was validated at registration time; reaching this
			// would mean the descriptor no longer matches the type.
			logger.Error("Could not build default story instance.", "story", def.Name, "error", err)
			return nil
		}
		if err := decode.Into(ctx, args, def.Args, inst); err != nil {
			// Malformed bags degrade to the documented defaults instead of
			// failing the render. Partial binds are discarded wholesale.
			logger.Warn("Argument bag does not fit story; rendering defaults.", "story", def.Name, "error", err)
			if inst, err = decode.NewDefault(storyType, def.Args); err != nil {
				logger.Error("Could not rebuild default story instance.", "story", def.Name, "error", err)
				return nil
			}
		}
		return inst.(Story).Render()
	}

	return &registry.Entry{
		Name:   def.Name,
		Args:   func() []schema.Arg { return def.Args },
		Render: render,
	}, nil
}

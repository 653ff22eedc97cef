package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wasmbook/wasmbook/dom"
	"github.com/wasmbook/wasmbook/internal/ctxlog"
	"github.com/wasmbook/wasmbook/schema"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrNotFound reports a render request for a name nobody registered.
	ErrNotFound = errors.New("not found")

	ErrNilEntry  = errors.New("entry must not be nil")
	ErrEmptyName = errors.New("story name must not be empty")
	ErrNilArgs   = errors.New("entry args accessor must not be nil")
	ErrNilRender = errors.New("entry render function must not be nil")
)

// ArgsFunc is a story's metadata accessor.
type ArgsFunc func() []schema.Arg

// RenderFunc turns a dynamic argument bag into a renderable node. It must not
// mutate registry state.
type RenderFunc func(ctx context.Context, args cty.Value) *dom.Node

// Entry binds a story's public name to its callable behavior. Entries are
// immutable once registered.
type Entry struct {
	Name   string
	Args   ArgsFunc
	Render RenderFunc
}

// Item is one listing row: a story name plus its argument descriptors.
type Item struct {
	Name string
	Args []schema.Arg
}

// Registry maps story names to their entries. All operations are safe for
// concurrent use; listings preserve registration order.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register inserts or overwrites the entry for its name. Overwriting an
// existing name succeeds but is logged as a warning, since silent replacement
// tends to hide registration bugs.
func (r *Registry) Register(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return ErrNilEntry
	}
	if entry.Name == "" {
		return ErrEmptyName
	}
	if entry.Args == nil {
		return ErrNilArgs
	}
	if entry.Render == nil {
		return ErrNilRender
	}

	logger := ctxlog.FromContext(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[entry.Name]; exists {
		logger.Warn("Re-registering story; previous entry is replaced.", "name", entry.Name)
	} else {
		logger.Debug("Registering story.", "name", entry.Name)
		r.order = append(r.order, entry.Name)
	}
	r.entries[entry.Name] = entry
	return nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[name]
	return entry, ok
}

// List returns one item per registered story, in registration order, with
// freshly produced descriptors. Metadata accessors run outside the lock.
func (r *Registry) List() []Item {
	r.mu.RLock()
	entries := make([]*Entry, 0, len(r.order))
	for _, name := range r.order {
		entries = append(entries, r.entries[name])
	}
	r.mu.RUnlock()

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, Item{Name: entry.Name, Args: entry.Args()})
	}
	return items
}

// Render looks up name and invokes its render function on the bag. A miss is
// an explicit error; binding problems inside the render function never
// surface here.
func (r *Registry) Render(ctx context.Context, name string, args cty.Value) (*dom.Node, error) {
	entry, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("story '%s' %w", name, ErrNotFound)
	}
	ctxlog.FromContext(ctx).Debug("Rendering story.", "name", name)
	return entry.Render(ctx, args), nil
}

// Len reports the number of registered stories.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Reset drops every entry. Test isolation only.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]*Entry)
	r.order = nil
}

// Package csf converts story listings into the component-catalog wire format
// external viewer tooling consumes (the Component Story Format convention:
// one entry per story, argument descriptors keyed by field name). The JSON
// field names and nesting here are frozen; viewers parse this shape as-is.
package csf

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/wasmbook/wasmbook/registry"
	"github.com/wasmbook/wasmbook/schema"
)

// ControlHint names the editor widget the viewer should present.
type ControlHint struct {
	Type string `json:"type"`
}

// ArgType describes one configurable argument of a story.
type ArgType struct {
	Control ControlHint `json:"control"`
	Type    string      `json:"type"`
	Default *string     `json:"default,omitempty"`
	Options []string    `json:"options,omitempty"`
}

// Story is one catalog entry.
type Story struct {
	Name     string             `json:"name"`
	ArgTypes map[string]ArgType `json:"argTypes"`
}

// Catalog converts registry listings into catalog entries, preserving the
// listing order.
func Catalog(items []registry.Item) []Story {
	stories := make([]Story, 0, len(items))
	for _, item := range items {
		argTypes := make(map[string]ArgType, len(item.Args))
		for _, arg := range item.Args {
			argTypes[arg.Name] = newArgType(arg)
		}
		stories = append(stories, Story{Name: item.Name, ArgTypes: argTypes})
	}
	return stories
}

// CatalogJSON renders the registry listings as the catalog JSON array.
func CatalogJSON(items []registry.Item) ([]byte, error) {
	return json.Marshal(Catalog(items))
}

// ParseCatalog parses a catalog JSON array, as produced by CatalogJSON or by
// the get_stories boundary call.
func ParseCatalog(raw []byte) ([]Story, error) {
	var stories []Story
	if err := json.Unmarshal(raw, &stories); err != nil {
		return nil, fmt.Errorf("malformed catalog: %w", err)
	}
	for i, story := range stories {
		if story.Name == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", i)
		}
	}
	return stories, nil
}

// newArgType maps one argument descriptor onto the wire shape. The catalog
// owns its values: defaults and options are copied, never shared with the
// descriptor.
func newArgType(arg schema.Arg) ArgType {
	out := ArgType{
		Control: ControlHint{Type: string(arg.Control)},
		Type:    string(arg.Kind),
	}
	if arg.Default != nil {
		def := *arg.Default
		out.Default = &def
	}
	if len(arg.Options) > 0 {
		out.Options = slices.Clone(arg.Options)
	}
	return out
}

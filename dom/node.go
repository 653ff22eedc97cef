// Package dom models the renderable node tree a story produces. The tree is
// plain Go data so components stay testable off-browser; materializing it
// into real DOM elements happens only under js/wasm builds.
package dom

import (
	"html"
	"sort"
	"strings"
)

// Node is one element of a renderable tree.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Text     string
	Children []*Node
	OnClick  func()
}

// El creates a node with the given tag, attributes and children.
func El(tag string, attrs map[string]string, children ...*Node) *Node {
	return &Node{Tag: tag, Attrs: attrs, Children: children}
}

// Div creates a <div> node.
func Div(attrs map[string]string, children ...*Node) *Node {
	return El("div", attrs, children...)
}

// Span creates a <span> node with text content.
func Span(text string, attrs map[string]string) *Node {
	return &Node{Tag: "span", Attrs: attrs, Text: text}
}

// Para creates a <p> node with text content.
func Para(text string, attrs map[string]string) *Node {
	return &Node{Tag: "p", Attrs: attrs, Text: text}
}

// Heading creates an <h1>..<h6> node; levels outside that range clamp.
func Heading(level int, text string, attrs map[string]string) *Node {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return &Node{Tag: "h" + string(rune('0'+level)), Attrs: attrs, Text: text}
}

// Button creates a <button> node with an optional click handler.
func Button(text string, attrs map[string]string, onClick func()) *Node {
	return &Node{Tag: "button", Attrs: attrs, Text: text, OnClick: onClick}
}

// Input creates an <input> node.
func Input(attrs map[string]string) *Node {
	return &Node{Tag: "input", Attrs: attrs}
}

// Style builds an inline style value from property/value pairs, preserving
// the caller's order: Style("color", "red", "margin", "0") -> "color: red; margin: 0".
func Style(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, pairs[i]+": "+pairs[i+1])
	}
	return strings.Join(parts, "; ")
}

// voidTags never carry content or a closing tag.
var voidTags = map[string]bool{
	"br":    true,
	"hr":    true,
	"img":   true,
	"input": true,
	"meta":  true,
	"link":  true,
}

// HTML serializes the tree to markup with sorted attributes. It exists for
// tests and native tooling; browser rendering goes through Render instead.
func (n *Node) HTML() string {
	var sb strings.Builder
	n.writeHTML(&sb)
	return sb.String()
}

func (n *Node) writeHTML(sb *strings.Builder) {
	if n == nil || n.Tag == "" {
		return
	}
	sb.WriteByte('<')
	sb.WriteString(n.Tag)

	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(n.Attrs[k]))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')

	if voidTags[n.Tag] {
		return
	}
	if n.Text != "" {
		sb.WriteString(html.EscapeString(n.Text))
	}
	for _, child := range n.Children {
		child.writeHTML(sb)
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteByte('>')
}

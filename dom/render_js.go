//go:build js && wasm

package dom

import (
	"errors"
	"fmt"
	"syscall/js"
)

// Render materializes the node tree into real DOM elements. The returned
// value is an Element the host can append wherever it likes.
func Render(n *Node) js.Value {
	doc := js.Global().Get("document")
	if n == nil || !doc.Truthy() {
		return js.Null()
	}
	return createElement(doc, n)
}

// MountByID renders n and replaces the contents of the element with the given
// id. The host owns the anchor element and must have created it already.
func MountByID(id string, n *Node) error {
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return errors.New("no document in this environment")
	}
	mount := doc.Call("getElementById", id)
	if !mount.Truthy() {
		return fmt.Errorf("mount element '#%s' not found", id)
	}
	mount.Set("innerHTML", "")
	if el := Render(n); el.Truthy() {
		mount.Call("appendChild", el)
	}
	return nil
}

func createElement(doc js.Value, n *Node) js.Value {
	el := doc.Call("createElement", n.Tag)
	for k, v := range n.Attrs {
		el.Call("setAttribute", k, v)
	}
	if n.Text != "" {
		el.Set("textContent", n.Text)
	}
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		childEl := createElement(doc, child)
		if childEl.Truthy() {
			el.Call("appendChild", childEl)
		}
	}
	if n.OnClick != nil {
		handler := n.OnClick
		cb := js.FuncOf(func(this js.Value, args []js.Value) any {
			handler()
			return nil
		})
		el.Call("addEventListener", "click", cb)
	}
	return el
}

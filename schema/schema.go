// SPDX-License-Identifier: MIT
// Copyright (c) 2025 the wasmbook authors
//
// This file defines the descriptor model for a story's arguments.
//
// Why have a formal Arg descriptor?
//
// By deriving a clear, typed schema from a story struct's fields, we establish
// a formal "contract" between the Go component and the JavaScript viewer. This
// contract is what lets the viewer:
//
//  1. Build Controls: Render the right editor widget (text box, color picker,
//     select dropdown) for each field without knowing anything about Go types.
//
//  2. Provide Default Values: Pre-populate every control so a story renders
//     something sensible before the user touches it.
//
//  3. Validate Early: Malformed field annotations are detected while the
//     descriptor is built, during registration at program startup, instead of
//     surfacing as broken controls at render time.
package schema

import (
	"github.com/zclconf/go-cty/cty"
)

// Kind is the semantic category of an argument's value. It is the portable
// vocabulary shared with the viewer; the set is closed.
type Kind string

const (
	KindText    Kind = "text"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindColor   Kind = "color"
	KindSelect  Kind = "select"
	KindObject  Kind = "object"
)

// Control identifies the editor widget a viewer should present for an
// argument. It usually follows the Kind but can be overridden per field.
type Control string

const (
	ControlText    Control = "text"
	ControlNumber  Control = "number"
	ControlBoolean Control = "boolean"
	ControlColor   Control = "color"
	ControlSelect  Control = "select"
	ControlRange   Control = "range"
	ControlObject  Control = "object"
)

// Select is implemented by field types that present a closed set of choices.
// Implementations must also satisfy encoding.TextUnmarshaler so values can be
// bound back from the argument bag, and fmt.Stringer so the zero value names
// the default choice.
type Select interface {
	// Options returns the choice names in declaration order.
	Options() []string
}

// Arg describes a single configurable field of a story struct.
type Arg struct {
	// Name is the argument's public name as the viewer sees it.
	Name string

	// Kind is the semantic category derived from the field's declared type,
	// or retagged by a control annotation (color, select).
	Kind Kind

	// Control is the editor widget hint for the viewer.
	Control Control

	// Type is the wire type used when converting bag values for this field.
	Type cty.Type

	// Default is the string-encoded default value, if any. Nil means the
	// field's zero value is the default.
	Default *string

	// Options holds the choice names for select arguments, in the order the
	// type declares them.
	Options []string

	// Optional marks pointer-typed fields. An absent or null bag value leaves
	// the pointer nil; the viewer may omit the argument entirely.
	Optional bool

	// FieldIndex is the reflect index path of the originating struct field.
	// The binding layer uses it to address the field without re-deriving
	// names.
	FieldIndex []int
}

// Def is the generated descriptor for one story: its public name and its
// arguments in field declaration order. A Def is immutable once built.
type Def struct {
	Name string
	Args []Arg
}

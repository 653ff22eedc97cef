package decode

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"

	"github.com/wasmbook/wasmbook/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// NewDefault builds the documented default instance of a story type: a fresh
// zero struct with every descriptor default applied. The result is a pointer
// to the struct.
func NewDefault(goType reflect.Type, args []schema.Arg) (any, error) {
	t := goType
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("story type must be a struct, got %s", goType.String())
	}

	ptr := reflect.New(t)
	for _, arg := range args {
		if arg.Default == nil {
			continue
		}
		field := ptr.Elem().FieldByIndex(arg.FieldIndex)
		if !field.CanSet() {
			continue
		}
		if err := defaultField(arg, field); err != nil {
			return nil, fmt.Errorf("in argument '%s': %w", arg.Name, err)
		}
	}
	return ptr.Interface(), nil
}

// defaultField applies one string-encoded default, allocating through
// pointers so optional fields with defaults start out present.
func defaultField(arg schema.Arg, field reflect.Value) error {
	if field.Kind() == reflect.Pointer {
		elem := reflect.New(field.Type().Elem())
		if err := setDefault(arg, elem.Elem()); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}
	return setDefault(arg, field)
}

func setDefault(arg schema.Arg, dst reflect.Value) error {
	switch arg.Kind {
	case schema.KindSelect:
		u, ok := dst.Addr().Interface().(encoding.TextUnmarshaler)
		if !ok {
			return fmt.Errorf("type %s does not implement encoding.TextUnmarshaler", dst.Type().String())
		}
		return u.UnmarshalText([]byte(*arg.Default))
	case schema.KindObject:
		// Describe rejects these at registration time already.
		return errors.New("free-form fields cannot carry defaults")
	default:
		converted, err := convert.Convert(cty.StringVal(*arg.Default), arg.Type)
		if err != nil {
			return fmt.Errorf("invalid default '%s': %w", *arg.Default, err)
		}
		return gocty.FromCtyValue(converted, dst.Addr().Interface())
	}
}

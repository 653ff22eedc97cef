// Package decode binds dynamic argument bags onto native story structs. Bags
// arrive from the host as JSON and are held as cty values, so every field
// bind is a typed conversion rather than an ad-hoc cast.
package decode

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"reflect"

	"github.com/wasmbook/wasmbook/internal/ctxlog"
	"github.com/wasmbook/wasmbook/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// FromJSON parses a JSON argument bag into a cty.Value. An empty input is a
// valid empty bag.
func FromJSON(raw []byte) (cty.Value, error) {
	if len(raw) == 0 {
		return cty.EmptyObjectVal, nil
	}
	impliedType, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, fmt.Errorf("malformed argument bag: %w", err)
	}
	val, err := ctyjson.Unmarshal(raw, impliedType)
	if err != nil {
		return cty.NilVal, fmt.Errorf("malformed argument bag: %w", err)
	}
	return val, nil
}

// Into binds bag attributes onto target's fields as described by args.
// Missing attributes are not errors; those fields keep whatever value they
// already hold, which is how per-field defaults survive partial bags. A
// wrong-typed attribute is an error so the caller can fall back to the
// default instance.
func Into(ctx context.Context, bag cty.Value, args []schema.Arg, target any) error {
	logger := ctxlog.FromContext(ctx)

	ptr := reflect.ValueOf(target)
	if target == nil || ptr.Kind() != reflect.Pointer || ptr.IsNil() || ptr.Elem().Kind() != reflect.Struct {
		return errors.New("bind target must be a non-nil pointer to a struct")
	}
	if bag.IsNull() || !bag.IsKnown() {
		logger.Debug("Skipping bind for null or unknown bag.")
		return nil
	}
	bagType := bag.Type()
	if !bagType.IsObjectType() && !bagType.IsMapType() {
		return fmt.Errorf("argument bag must be an object, got %s", bagType.FriendlyName())
	}

	attrs := bag.AsValueMap()
	structVal := ptr.Elem()
	for _, arg := range args {
		attrVal, ok := attrs[arg.Name]
		if !ok {
			continue
		}
		field := structVal.FieldByIndex(arg.FieldIndex)
		if !field.CanSet() {
			continue
		}
		if attrVal.IsNull() {
			// Null means "not set": optional fields go back to absent.
			if arg.Optional {
				field.Set(reflect.Zero(field.Type()))
			}
			continue
		}
		if err := bindField(ctx, attrVal, arg, field); err != nil {
			return fmt.Errorf("in argument '%s': %w", arg.Name, err)
		}
	}
	return nil
}

// bindField allocates through pointers so optional fields become present
// only when the bag actually carries a value for them.
func bindField(ctx context.Context, val cty.Value, arg schema.Arg, field reflect.Value) error {
	if field.Kind() == reflect.Pointer {
		elem := reflect.New(field.Type().Elem())
		if err := bindValue(ctx, val, arg, elem.Elem()); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}
	return bindValue(ctx, val, arg, field)
}

func bindValue(ctx context.Context, val cty.Value, arg schema.Arg, dst reflect.Value) error {
	logger := ctxlog.FromContext(ctx).With("kind", string(arg.Kind))

	switch {
	case arg.Kind == schema.KindSelect:
		logger.Debug("Binding select value.")
		strVal, err := convert.Convert(val, cty.String)
		if err != nil {
			return fmt.Errorf("cannot convert value of type %s to string: %w", val.Type().FriendlyName(), err)
		}
		u, ok := dst.Addr().Interface().(encoding.TextUnmarshaler)
		if !ok {
			return fmt.Errorf("type %s does not implement encoding.TextUnmarshaler", dst.Type().String())
		}
		return u.UnmarshalText([]byte(strVal.AsString()))

	case arg.Kind == schema.KindObject && dst.Kind() == reflect.Interface:
		logger.Debug("Binding free-form value.")
		native, err := ctyToNative(val)
		if err != nil {
			return err
		}
		if native != nil {
			dst.Set(reflect.ValueOf(native))
		}
		return nil

	default:
		logger.Debug("Binding typed value.")
		converted, err := convert.Convert(val, arg.Type)
		if err != nil {
			return fmt.Errorf("cannot convert value of type %s to %s: %w", val.Type().FriendlyName(), arg.Type.FriendlyName(), err)
		}
		return gocty.FromCtyValue(converted, dst.Addr().Interface())
	}
}

// ctyToNative converts a cty.Value to plain Go values for free-form fields.
func ctyToNative(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	if val.Type().IsPrimitiveType() {
		switch val.Type() {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", val.Type().FriendlyName())
		}
	}
	if val.Type().IsObjectType() || val.Type().IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			nativeVal, err := ctyToNative(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = nativeVal
		}
		return out, nil
	}
	if val.Type().IsTupleType() || val.Type().IsListType() || val.Type().IsSetType() {
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			nativeVal, err := ctyToNative(v)
			if err != nil {
				return nil, err
			}
			out = append(out, nativeVal)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported type for conversion: %s", val.Type().FriendlyName())
}

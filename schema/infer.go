package schema

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/wasmbook/wasmbook/internal/lorem"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var (
	selectType          = reflect.TypeOf((*Select)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	stringerType        = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// DescribeValue derives the descriptor for v's type. v is typically a pointer
// to a zero story struct.
func DescribeValue(v any) (*Def, error) {
	if v == nil {
		return nil, errors.New("cannot describe a nil value")
	}
	return Describe(reflect.TypeOf(v))
}

// Describe builds the argument descriptors for a story struct type, one Arg
// per exported, non-skipped field, in declaration order. Pointer types are
// dereferenced; anonymous and unexported fields are ignored.
//
// Malformed field annotations make Describe fail with an error naming the
// story, the field, and the offending annotation. Registration propagates
// that error, so a bad annotation stops the program at startup rather than
// at render time.
func Describe(goType reflect.Type) (*Def, error) {
	if goType == nil {
		return nil, errors.New("cannot describe a nil type")
	}
	t := goType
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("story type must be a struct, got %s", goType.String())
	}
	name := t.Name()
	if name == "" {
		return nil, errors.New("story struct must be a named type")
	}

	args := make([]Arg, 0, t.NumField())
	seen := make(map[string]struct{}, t.NumField())
	type selectReg struct {
		typeName string
		options  []string
	}
	var selects []selectReg

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Anonymous {
			continue
		}

		tag, err := parseTag(field.Tag.Get("story"))
		if err != nil {
			return nil, fmt.Errorf("story '%s': field '%s': %w", name, field.Name, err)
		}
		defVal, hasDefault := field.Tag.Lookup("default")
		if tag.skip {
			if hasDefault {
				return nil, fmt.Errorf("story '%s': field '%s': default conflicts with skip", name, field.Name)
			}
			continue
		}

		arg, err := buildArg(field, tag, defVal, hasDefault)
		if err != nil {
			return nil, fmt.Errorf("story '%s': field '%s': %w", name, field.Name, err)
		}
		if _, dup := seen[arg.Name]; dup {
			return nil, fmt.Errorf("story '%s': field '%s': duplicate argument name '%s'", name, field.Name, arg.Name)
		}
		seen[arg.Name] = struct{}{}
		args = append(args, arg)

		if arg.Kind == KindSelect {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			selects = append(selects, selectReg{typeName: ft.Name(), options: arg.Options})
		}
	}

	// Options become queryable only once the whole descriptor is valid.
	for _, s := range selects {
		RegisterOptions(s.typeName, s.options)
	}

	return &Def{Name: name, Args: args}, nil
}

// buildArg derives a single descriptor from one struct field.
func buildArg(field reflect.StructField, tag fieldTag, defVal string, hasDefault bool) (Arg, error) {
	arg := Arg{
		Name:       tag.name,
		FieldIndex: field.Index,
	}
	if arg.Name == "" {
		arg.Name = lowerCamel(field.Name)
	}

	ft := field.Type
	if ft.Kind() == reflect.Pointer {
		arg.Optional = true
		ft = ft.Elem()
		if ft.Kind() == reflect.Pointer {
			return Arg{}, fmt.Errorf("unsupported field type %s", field.Type.String())
		}
	}

	if err := classify(&arg, ft); err != nil {
		return Arg{}, err
	}

	if tag.control != "" {
		if err := applyControl(&arg, tag.control); err != nil {
			return Arg{}, err
		}
	}

	if tag.hasLorem {
		if hasDefault {
			return Arg{}, errors.New("lorem conflicts with an explicit default")
		}
		if arg.Kind != KindText {
			return Arg{}, fmt.Errorf("lorem requires a plain text field, got kind '%s'", arg.Kind)
		}
		words := lorem.Words(tag.loremCount)
		arg.Default = &words
	}

	if hasDefault {
		if err := applyDefault(&arg, defVal); err != nil {
			return Arg{}, err
		}
	}

	return arg, nil
}

// classify assigns Kind, Control, Type and select metadata from the field's
// declared (pointer-stripped) type. Select detection runs first: enumerated
// types are usually integers underneath.
func classify(arg *Arg, ft reflect.Type) error {
	if ft.Implements(selectType) || reflect.PointerTo(ft).Implements(selectType) {
		return classifySelect(arg, ft)
	}

	switch ft.Kind() {
	case reflect.String:
		arg.Kind, arg.Control, arg.Type = KindText, ControlText, cty.String
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		arg.Kind, arg.Control, arg.Type = KindNumber, ControlNumber, cty.Number
	case reflect.Bool:
		arg.Kind, arg.Control, arg.Type = KindBoolean, ControlBoolean, cty.Bool
	case reflect.Interface:
		// Plain 'any' has no implied wire type; bind it dynamically.
		arg.Kind, arg.Control, arg.Type = KindObject, ControlObject, cty.DynamicPseudoType
	case reflect.Map, reflect.Slice:
		arg.Kind, arg.Control = KindObject, ControlObject
		impliedType, err := gocty.ImpliedType(reflect.Zero(ft).Interface())
		if err != nil {
			// Collections of 'any' have no implied wire type either; bind
			// them dynamically instead.
			impliedType = cty.DynamicPseudoType
		}
		arg.Type = impliedType
	default:
		return fmt.Errorf("unsupported field type %s", ft.String())
	}
	return nil
}

func classifySelect(arg *Arg, ft reflect.Type) error {
	if !reflect.PointerTo(ft).Implements(textUnmarshalerType) {
		return fmt.Errorf("select type %s must implement encoding.TextUnmarshaler", ft.String())
	}
	options := selectOptions(ft)
	if len(options) == 0 {
		return fmt.Errorf("select type %s declares no options", ft.String())
	}
	arg.Kind, arg.Control, arg.Type = KindSelect, ControlSelect, cty.String
	arg.Options = options
	def := defaultOption(ft, options)
	arg.Default = &def
	return nil
}

// selectOptions invokes Options() on a zero value of the type, going through
// a pointer when the method set requires one.
func selectOptions(ft reflect.Type) []string {
	if ft.Implements(selectType) {
		return reflect.Zero(ft).Interface().(Select).Options()
	}
	return reflect.New(ft).Interface().(Select).Options()
}

// defaultOption resolves the default choice: the zero value's name when the
// type can spell it and it is a declared option, otherwise the first option.
func defaultOption(ft reflect.Type, options []string) string {
	var zeroName string
	if ft.Implements(stringerType) {
		zeroName = reflect.Zero(ft).Interface().(fmt.Stringer).String()
	} else if reflect.PointerTo(ft).Implements(stringerType) {
		zeroName = reflect.New(ft).Interface().(fmt.Stringer).String()
	}
	if zeroName != "" && slices.Contains(options, zeroName) {
		return zeroName
	}
	return options[0]
}

// applyControl applies a per-field control override. Overrides must be
// compatible with the field's declared shape; an incompatible or unknown
// control is a registration-time error.
func applyControl(arg *Arg, name string) error {
	switch Control(name) {
	case ControlColor:
		if arg.Kind != KindText {
			return fmt.Errorf("control 'color' requires a string field, got kind '%s'", arg.Kind)
		}
		arg.Kind, arg.Control = KindColor, ControlColor
	case ControlSelect:
		if arg.Kind != KindSelect {
			return errors.New("control 'select' requires a field type implementing schema.Select")
		}
	case ControlRange:
		if arg.Kind != KindNumber {
			return fmt.Errorf("control 'range' requires a numeric field, got kind '%s'", arg.Kind)
		}
		arg.Control = ControlRange
	case ControlText:
		if arg.Kind != KindText {
			return fmt.Errorf("control 'text' requires a string field, got kind '%s'", arg.Kind)
		}
	case ControlNumber:
		if arg.Kind != KindNumber {
			return fmt.Errorf("control 'number' requires a numeric field, got kind '%s'", arg.Kind)
		}
	case ControlBoolean:
		if arg.Kind != KindBoolean {
			return fmt.Errorf("control 'boolean' requires a bool field, got kind '%s'", arg.Kind)
		}
	case ControlObject:
		if arg.Kind != KindObject {
			return fmt.Errorf("control 'object' requires a free-form field, got kind '%s'", arg.Kind)
		}
	default:
		return fmt.Errorf("unknown control '%s'", name)
	}
	return nil
}

// applyDefault validates and stores an explicit string-encoded default.
func applyDefault(arg *Arg, defVal string) error {
	switch arg.Kind {
	case KindSelect:
		if !slices.Contains(arg.Options, defVal) {
			return fmt.Errorf("default '%s' is not one of the declared options %v", defVal, arg.Options)
		}
	case KindObject:
		return errors.New("default is not supported for free-form fields")
	default:
		if _, err := convert.Convert(cty.StringVal(defVal), arg.Type); err != nil {
			return fmt.Errorf("invalid default '%s': %w", defVal, err)
		}
	}
	arg.Default = &defVal
	return nil
}

// fieldTag is the parsed form of a `story` struct tag.
type fieldTag struct {
	name       string
	skip       bool
	control    string
	hasLorem   bool
	loremCount int
}

// parseTag parses a `story` struct tag. The grammar follows the json tag
// convention: the first comma-separated segment is the argument name (empty
// keeps the derived name, "-" skips the field), later segments are flags:
// control=NAME, lorem, lorem=N. Literal defaults live in the separate
// `default` tag so they may contain commas.
func parseTag(tag string) (fieldTag, error) {
	var out fieldTag
	if tag == "" {
		return out, nil
	}

	parts := strings.Split(tag, ",")
	if parts[0] == "-" {
		if len(parts) > 1 {
			return out, errors.New("skip ('-') conflicts with other annotations")
		}
		out.skip = true
		return out, nil
	}
	out.name = parts[0]

	for _, part := range parts[1:] {
		key, value, hasValue := strings.Cut(part, "=")
		switch key {
		case "control":
			if !hasValue || value == "" {
				return out, errors.New("control annotation requires a value")
			}
			out.control = value
		case "lorem":
			out.hasLorem = true
			out.loremCount = lorem.DefaultWordCount
			if hasValue {
				n, err := strconv.Atoi(value)
				if err != nil || n <= 0 {
					return out, fmt.Errorf("invalid lorem word count '%s'", value)
				}
				out.loremCount = n
			}
		case "":
			return out, errors.New("empty annotation segment")
		default:
			return out, fmt.Errorf("unknown annotation '%s'", key)
		}
	}
	return out, nil
}

// lowerCamel converts an exported Go field name to its public argument name:
// Label -> label, URL -> url, APIKey -> apiKey.
func lowerCamel(s string) string {
	r := []rune(s)
	for i := 0; i < len(r) && unicode.IsUpper(r[i]); i++ {
		if i > 0 && i+1 < len(r) && unicode.IsLower(r[i+1]) {
			break
		}
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

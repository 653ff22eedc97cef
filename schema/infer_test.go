package schema

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// swatch is a sample select type; the zero value (Gray) is the default choice.
type swatch int

const (
	swatchGray swatch = iota
	swatchGreen
	swatchRed
)

func (swatch) Options() []string { return []string{"Gray", "Green", "Red"} }

func (s swatch) String() string {
	switch s {
	case swatchGreen:
		return "Green"
	case swatchRed:
		return "Red"
	default:
		return "Gray"
	}
}

func (s *swatch) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Gray":
		*s = swatchGray
	case "Green":
		*s = swatchGreen
	case "Red":
		*s = swatchRed
	default:
		return fmt.Errorf("unknown swatch '%s'", text)
	}
	return nil
}

// noUnmarshal offers options but cannot bind values back.
type noUnmarshal int

func (noUnmarshal) Options() []string { return []string{"A", "B"} }

type banner struct {
	Title    string `story:"title" default:"Hello"`
	Width    int    `story:",control=range" default:"320"`
	Active   bool
	Accent   string `story:"accent,control=color" default:"#336699"`
	Tone     swatch `story:",control=select"`
	Note     *string
	Payload  map[string]string
	Internal string `story:"-"`
	hidden   string //nolint:unused
}

func TestDescribeBanner(t *testing.T) {
	def, err := DescribeValue(&banner{})
	require.NoError(t, err)
	assert.Equal(t, "banner", def.Name)

	names := make([]string, 0, len(def.Args))
	for _, a := range def.Args {
		names = append(names, a.Name)
	}
	// Declaration order, skipped and unexported fields excluded.
	assert.Equal(t, []string{"title", "width", "active", "accent", "tone", "note", "payload"}, names)
}

func TestDescribeKinds(t *testing.T) {
	def, err := DescribeValue(&banner{})
	require.NoError(t, err)

	byName := make(map[string]Arg, len(def.Args))
	for _, a := range def.Args {
		byName[a.Name] = a
	}

	cases := []struct {
		name     string
		kind     Kind
		control  Control
		optional bool
	}{
		{"title", KindText, ControlText, false},
		{"width", KindNumber, ControlRange, false},
		{"active", KindBoolean, ControlBoolean, false},
		{"accent", KindColor, ControlColor, false},
		{"tone", KindSelect, ControlSelect, false},
		{"note", KindText, ControlText, true},
		{"payload", KindObject, ControlObject, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			arg, ok := byName[tc.name]
			require.True(t, ok, "missing descriptor for %s", tc.name)
			assert.Equal(t, tc.kind, arg.Kind)
			assert.Equal(t, tc.control, arg.Control)
			assert.Equal(t, tc.optional, arg.Optional)
		})
	}
}

func TestDescribeDefaults(t *testing.T) {
	def, err := DescribeValue(&banner{})
	require.NoError(t, err)

	byName := make(map[string]Arg, len(def.Args))
	for _, a := range def.Args {
		byName[a.Name] = a
	}

	require.NotNil(t, byName["title"].Default)
	assert.Equal(t, "Hello", *byName["title"].Default)
	require.NotNil(t, byName["width"].Default)
	assert.Equal(t, "320", *byName["width"].Default)
	require.NotNil(t, byName["accent"].Default)
	assert.Equal(t, "#336699", *byName["accent"].Default)
	assert.Nil(t, byName["active"].Default)
	assert.Nil(t, byName["note"].Default)
}

func TestDescribeSelect(t *testing.T) {
	def, err := DescribeValue(&banner{})
	require.NoError(t, err)

	var tone Arg
	for _, a := range def.Args {
		if a.Name == "tone" {
			tone = a
		}
	}
	assert.Equal(t, []string{"Gray", "Green", "Red"}, tone.Options)
	require.NotNil(t, tone.Default)
	// Zero value names the default choice.
	assert.Equal(t, "Gray", *tone.Default)
	assert.True(t, tone.Type.Equals(cty.String))
}

func TestDescribeSelectWithoutControlTag(t *testing.T) {
	// Select types are recognized from their method set alone.
	type toned struct {
		Tone swatch
	}
	def, err := DescribeValue(&toned{})
	require.NoError(t, err)
	require.Len(t, def.Args, 1)
	assert.Equal(t, KindSelect, def.Args[0].Kind)
	assert.Equal(t, ControlSelect, def.Args[0].Control)
}

func TestDescribeOptionalSelect(t *testing.T) {
	type toned struct {
		Tone *swatch
	}
	def, err := DescribeValue(&toned{})
	require.NoError(t, err)
	require.Len(t, def.Args, 1)
	assert.Equal(t, KindSelect, def.Args[0].Kind)
	assert.True(t, def.Args[0].Optional)
}

func TestDescribeSelectDefaultOverride(t *testing.T) {
	type toned struct {
		Tone swatch `default:"Red"`
	}
	def, err := DescribeValue(&toned{})
	require.NoError(t, err)
	require.NotNil(t, def.Args[0].Default)
	assert.Equal(t, "Red", *def.Args[0].Default)
}

func TestDescribeLorem(t *testing.T) {
	type card struct {
		Title   string `story:",lorem=3"`
		Content string `story:",lorem"`
	}
	def, err := DescribeValue(&card{})
	require.NoError(t, err)

	require.NotNil(t, def.Args[0].Default)
	assert.Equal(t, "lorem ipsum dolor", *def.Args[0].Default)
	require.NotNil(t, def.Args[1].Default)
	assert.Equal(t, "lorem ipsum dolor sit amet consectetur adipiscing elit", *def.Args[1].Default)
}

func TestDescribeRegistersOptions(t *testing.T) {
	t.Cleanup(ResetOptions)
	ResetOptions()

	_, err := DescribeValue(&banner{})
	require.NoError(t, err)

	options, ok := Options("swatch")
	require.True(t, ok)
	assert.Equal(t, []string{"Gray", "Green", "Red"}, options)
}

func TestDescribeErrors(t *testing.T) {
	type unknownControl struct {
		A string `story:",control=dial"`
	}
	type colorOnNumber struct {
		A int `story:",control=color"`
	}
	type selectOnString struct {
		A string `story:",control=select"`
	}
	type loremOnBool struct {
		A bool `story:",lorem"`
	}
	type loremAndDefault struct {
		A string `story:",lorem" default:"x"`
	}
	type skipAndDefault struct {
		A string `story:"-" default:"x"`
	}
	type skipAndMore struct {
		A string `story:"-,control=text"`
	}
	type badLoremCount struct {
		A string `story:",lorem=zero"`
	}
	type badNumberDefault struct {
		A int `default:"abc"`
	}
	type badSelectDefault struct {
		A swatch `default:"Purple"`
	}
	type noUnmarshalField struct {
		A noUnmarshal
	}
	type duplicateNames struct {
		A string `story:"same"`
		B string `story:"same"`
	}
	type nestedStruct struct {
		A struct{ X int }
	}
	type doublePointer struct {
		A **string
	}
	type unknownAnnotation struct {
		A string `story:",sparkle"`
	}

	cases := []struct {
		name    string
		value   any
		wantSub string
	}{
		{"unknown control", &unknownControl{}, "unknown control 'dial'"},
		{"color on number", &colorOnNumber{}, "control 'color'"},
		{"select on string", &selectOnString{}, "control 'select'"},
		{"lorem on bool", &loremOnBool{}, "lorem requires"},
		{"lorem and default", &loremAndDefault{}, "lorem conflicts"},
		{"skip and default", &skipAndDefault{}, "default conflicts with skip"},
		{"skip and more", &skipAndMore{}, "skip ('-') conflicts"},
		{"bad lorem count", &badLoremCount{}, "invalid lorem word count"},
		{"bad number default", &badNumberDefault{}, "invalid default 'abc'"},
		{"bad select default", &badSelectDefault{}, "not one of the declared options"},
		{"select without TextUnmarshaler", &noUnmarshalField{}, "encoding.TextUnmarshaler"},
		{"duplicate names", &duplicateNames{}, "duplicate argument name 'same'"},
		{"nested struct", &nestedStruct{}, "unsupported field type"},
		{"double pointer", &doublePointer{}, "unsupported field type"},
		{"unknown annotation", &unknownAnnotation{}, "unknown annotation 'sparkle'"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DescribeValue(tc.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantSub)
			// Every failure names the offending field.
			assert.Contains(t, err.Error(), "field '")
		})
	}
}

func TestDescribeRejectsNonStructs(t *testing.T) {
	_, err := DescribeValue(nil)
	require.Error(t, err)

	_, err = DescribeValue("not a struct")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a struct")

	_, err = DescribeValue(&struct{ A string }{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "named type")
}

func TestLowerCamel(t *testing.T) {
	cases := map[string]string{
		"Label":     "label",
		"AlertType": "alertType",
		"URL":       "url",
		"APIKey":    "apiKey",
		"HTMLBody":  "htmlBody",
		"X":         "x",
	}
	for in, want := range cases {
		assert.Equal(t, want, lowerCamel(in), "lowerCamel(%q)", in)
	}
}

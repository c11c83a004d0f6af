package render

import (
	"testing"

	"github.com/vincentbai/sessionlens/internal/models"
)

func numberProp(value string) models.PropertyPreview {
	return models.PropertyPreview{Type: models.TypeNumber, Value: value}
}

func TestValuePrimitives(t *testing.T) {
	tests := []struct {
		name  string
		value models.RuntimeValue
		want  string
	}{
		{"undefined", models.RuntimeValue{Type: models.TypeUndefined}, "undefined"},
		{"boolean", models.RuntimeValue{Type: models.TypeBoolean, Value: true, Description: "true"}, "true"},
		{"number", models.RuntimeValue{Type: models.TypeNumber, Value: float64(42), Description: "42"}, "42"},
		{"number prefers description", models.RuntimeValue{Type: models.TypeNumber, Value: float64(1e21), Description: "1e+21"}, "1e+21"},
		{"number without description", models.RuntimeValue{Type: models.TypeNumber, Value: float64(7)}, "7"},
		{"bigint", models.RuntimeValue{Type: models.TypeBigint, Description: "9007199254740993n"}, "9007199254740993n"},
		{"string verbatim", models.RuntimeValue{Type: models.TypeString, Value: "hello world"}, "hello world"},
		{"string falls back to description", models.RuntimeValue{Type: models.TypeString, Description: "truncated…"}, "truncated…"},
		{"symbol", models.RuntimeValue{Type: models.TypeSymbol, Description: "Symbol(id)"}, "Symbol(id)"},
		{"symbol placeholder", models.RuntimeValue{Type: models.TypeSymbol}, "Symbol()"},
		{"function", models.RuntimeValue{Type: models.TypeFunction, Description: "handleClick"}, "ƒ handleClick"},
		{"anonymous function", models.RuntimeValue{Type: models.TypeFunction}, "ƒ anonymous"},
		{"null", models.RuntimeValue{Type: models.TypeObject, Subtype: models.SubtypeNull}, "null"},
		{"error", models.RuntimeValue{Type: models.TypeObject, Subtype: models.SubtypeError, Description: "TypeError: x is not a function\n  at a.js:1:1"}, "TypeError: x is not a function\n  at a.js:1:1"},
		{"regexp", models.RuntimeValue{Type: models.TypeObject, Subtype: models.SubtypeRegexp, Description: "/ab+c/gi"}, "/ab+c/gi"},
		{"date", models.RuntimeValue{Type: models.TypeObject, Subtype: models.SubtypeDate, Description: "Mon Jan 05 2026 10:00:00 GMT+0000"}, "Mon Jan 05 2026 10:00:00 GMT+0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flatten(Value(tt.value))
			if got != tt.want {
				t.Errorf("Value() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueArrayPreview(t *testing.T) {
	value := models.RuntimeValue{
		Type:    models.TypeObject,
		Subtype: models.SubtypeArray,
		Preview: &models.ObjectPreview{
			Subtype:    models.SubtypeArray,
			Properties: []models.PropertyPreview{numberProp("1"), numberProp("2")},
		},
	}

	if got := Flatten(Value(value)); got != "[1, 2]" {
		t.Errorf("array preview = %q, want %q", got, "[1, 2]")
	}

	value.Preview.Overflow = true
	if got := Flatten(Value(value)); got != "[1, 2, …]" {
		t.Errorf("overflowed array preview = %q, want %q", got, "[1, 2, …]")
	}
}

func TestValueObjectPreview(t *testing.T) {
	tests := []struct {
		name  string
		value models.RuntimeValue
		want  string
	}{
		{
			"plain object",
			models.RuntimeValue{Type: models.TypeObject, ClassName: "Object", Preview: &models.ObjectPreview{
				Properties: []models.PropertyPreview{
					{Name: "a", Type: models.TypeNumber, Value: "1"},
					{Name: "b", Type: models.TypeString, Value: "x"},
				},
			}},
			"{a: 1, b: x}",
		},
		{
			"named class prefixes",
			models.RuntimeValue{Type: models.TypeObject, ClassName: "Response", Preview: &models.ObjectPreview{
				Properties: []models.PropertyPreview{{Name: "ok", Type: models.TypeBoolean, Value: "true"}},
			}},
			"Response {ok: true}",
		},
		{
			"empty preview",
			models.RuntimeValue{Type: models.TypeObject, ClassName: "Object", Preview: &models.ObjectPreview{}},
			"{}",
		},
		{
			"empty named class",
			models.RuntimeValue{Type: models.TypeObject, ClassName: "Headers", Preview: &models.ObjectPreview{}},
			"Headers {}",
		},
		{
			"overflow with zero properties",
			models.RuntimeValue{Type: models.TypeObject, Preview: &models.ObjectPreview{Overflow: true}},
			"{…}",
		},
		{
			"no preview falls back to description",
			models.RuntimeValue{Type: models.TypeObject, Description: "Window"},
			"Window",
		},
		{
			"no preview no description falls back to class",
			models.RuntimeValue{Type: models.TypeObject, ClassName: "HTMLDivElement"},
			"HTMLDivElement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flatten(Value(tt.value))
			if got != tt.want {
				t.Errorf("Value() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueNestedPreview(t *testing.T) {
	// Nested sub-previews win over the flat property value, at any depth.
	value := models.RuntimeValue{
		Type: models.TypeObject,
		Preview: &models.ObjectPreview{
			Properties: []models.PropertyPreview{
				{Name: "user", Type: models.TypeObject, Value: "Object", Preview: &models.ObjectPreview{
					Properties: []models.PropertyPreview{
						{Name: "ids", Type: models.TypeObject, Subtype: models.SubtypeArray, Preview: &models.ObjectPreview{
							Subtype:    models.SubtypeArray,
							Properties: []models.PropertyPreview{numberProp("3")},
							Overflow:   true,
						}},
					},
				}},
				{Name: "n", Type: models.TypeObject, Subtype: models.SubtypeNull},
			},
		},
	}

	want := "{user: {ids: [3, …]}, n: null}"
	if got := Flatten(Value(value)); got != want {
		t.Errorf("nested preview = %q, want %q", got, want)
	}
}

func TestValueFull(t *testing.T) {
	value := models.RuntimeValue{
		Type:      models.TypeObject,
		ClassName: "Payload",
		Preview: &models.ObjectPreview{
			Properties: []models.PropertyPreview{
				{Name: "a", Type: models.TypeNumber, Value: "1"},
				{Name: "tags", Type: models.TypeObject, Subtype: models.SubtypeArray, Preview: &models.ObjectPreview{
					Subtype:    models.SubtypeArray,
					Properties: []models.PropertyPreview{numberProp("2"), numberProp("3")},
				}},
			},
			Overflow: true,
		},
	}

	want := "Payload {\n  a: 1\n  tags: [\n    2\n    3\n  ]\n  …\n}"
	if got := Flatten(ValueFull(value)); got != want {
		t.Errorf("ValueFull() = %q, want %q", got, want)
	}

	// Primitives render identically in both variants.
	num := models.RuntimeValue{Type: models.TypeNumber, Description: "42"}
	if got := Flatten(ValueFull(num)); got != "42" {
		t.Errorf("ValueFull(primitive) = %q, want %q", got, "42")
	}
}

func TestValueStyleTags(t *testing.T) {
	span := Value(models.RuntimeValue{Type: models.TypeNumber, Description: "42"})
	if span.Style != StyleNumber {
		t.Errorf("number span style = %q, want %q", span.Style, StyleNumber)
	}

	span = Value(models.RuntimeValue{Type: models.TypeObject, Subtype: models.SubtypeError, Description: "Error: boom"})
	if span.Style != StyleError {
		t.Errorf("error span style = %q, want %q", span.Style, StyleError)
	}
}

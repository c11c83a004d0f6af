package render

import (
	"fmt"
	"strings"

	"github.com/vincentbai/sessionlens/internal/models"
)

const (
	functionGlyph  = "ƒ "
	overflowMarker = "…"
	anonymousName  = "anonymous"
)

// Value renders a captured runtime value as an inline styled preview.
// Total over every type tag; unknown tags degrade to the description or the
// raw value rather than failing.
func Value(v models.RuntimeValue) Span {
	switch v.Type {
	case models.TypeUndefined:
		return leaf(StyleKeyword, "undefined")
	case models.TypeBoolean:
		return leaf(StyleKeyword, describe(v))
	case models.TypeNumber, models.TypeBigint:
		// The description preserves formatting the raw value loses
		// (scientific notation, -0, Infinity), so it wins when present.
		return leaf(StyleNumber, describe(v))
	case models.TypeString:
		if s, ok := v.Value.(string); ok {
			return leaf(StyleString, s)
		}
		return leaf(StyleString, v.Description)
	case models.TypeSymbol:
		if v.Description != "" {
			return leaf(StyleSymbol, v.Description)
		}
		return leaf(StyleSymbol, "Symbol()")
	case models.TypeFunction:
		name := v.Description
		if name == "" {
			name = anonymousName
		}
		return group(StyleFunction, leaf(StyleFunction, functionGlyph), leaf(StyleFunction, name))
	case models.TypeObject:
		return objectValue(v)
	default:
		return leaf(StylePlain, describe(v))
	}
}

// describe prefers the runtime's human description over the raw value.
func describe(v models.RuntimeValue) string {
	if v.Description != "" {
		return v.Description
	}
	if v.Value == nil {
		return ""
	}
	if s, ok := v.Value.(string); ok {
		return s
	}
	return fmt.Sprint(v.Value)
}

func objectValue(v models.RuntimeValue) Span {
	switch v.Subtype {
	case models.SubtypeNull:
		return leaf(StyleKeyword, "null")
	case models.SubtypeError:
		return leaf(StyleError, v.Description)
	case models.SubtypeRegexp:
		return leaf(StyleRegexp, v.Description)
	case models.SubtypeDate:
		return leaf(StyleDate, v.Description)
	}
	if v.Preview != nil {
		return preview(*v.Preview, v.ClassName)
	}
	if v.Description != "" {
		return leaf(StylePlain, v.Description)
	}
	if v.ClassName != "" {
		return leaf(StyleClass, v.ClassName)
	}
	return leaf(StylePlain, "Object")
}

// preview renders an object or array preview inline. className applies only
// to plain objects and is dropped when it is the generic default.
func preview(p models.ObjectPreview, className string) Span {
	isArray := p.Subtype == models.SubtypeArray
	open, close := "{", "}"
	if isArray {
		open, close = "[", "]"
	}

	var parts []Span
	if !isArray && className != "" && className != "Object" {
		parts = append(parts, leaf(StyleClass, className), leaf(StylePlain, " "))
	}
	parts = append(parts, leaf(StylePunct, open))
	for i, prop := range p.Properties {
		if i > 0 {
			parts = append(parts, leaf(StylePunct, ", "))
		}
		if !isArray {
			parts = append(parts, leaf(StyleName, prop.Name), leaf(StylePunct, ": "))
		}
		parts = append(parts, property(prop))
	}
	if p.Overflow {
		if len(p.Properties) > 0 {
			parts = append(parts, leaf(StylePunct, ", "))
		}
		parts = append(parts, leaf(StylePunct, overflowMarker))
	}
	parts = append(parts, leaf(StylePunct, close))
	return group(StylePlain, parts...)
}

// property renders one captured property. A nested sub-preview wins over the
// flat value; recursion is structural, depth is whatever the capture took.
func property(p models.PropertyPreview) Span {
	if p.Preview != nil {
		return preview(*p.Preview, "")
	}
	switch p.Type {
	case models.TypeUndefined:
		return leaf(StyleKeyword, "undefined")
	case models.TypeBoolean:
		return leaf(StyleKeyword, p.Value)
	case models.TypeNumber, models.TypeBigint:
		return leaf(StyleNumber, p.Value)
	case models.TypeString:
		return leaf(StyleString, p.Value)
	case models.TypeSymbol:
		return leaf(StyleSymbol, p.Value)
	case models.TypeFunction:
		name := p.Value
		if name == "" {
			name = anonymousName
		}
		return group(StyleFunction, leaf(StyleFunction, functionGlyph), leaf(StyleFunction, name))
	case models.TypeObject:
		if p.Subtype == models.SubtypeNull {
			return leaf(StyleKeyword, "null")
		}
		if p.Value != "" {
			return leaf(StylePlain, p.Value)
		}
		return leaf(StylePlain, "Object")
	default:
		return leaf(StylePlain, p.Value)
	}
}

// ValueFull renders a value for the expanded detail view: compound previews
// emit one property per line with two-space indentation instead of the
// flattened inline form. Primitives render exactly as Value does.
func ValueFull(v models.RuntimeValue) Span {
	if v.Type != models.TypeObject || v.Preview == nil {
		return Value(v)
	}
	switch v.Subtype {
	case models.SubtypeNull, models.SubtypeError, models.SubtypeRegexp, models.SubtypeDate:
		return Value(v)
	}
	return previewFull(*v.Preview, v.ClassName, 0)
}

func previewFull(p models.ObjectPreview, className string, depth int) Span {
	isArray := p.Subtype == models.SubtypeArray
	open, close := "{", "}"
	if isArray {
		open, close = "[", "]"
	}
	indent := strings.Repeat("  ", depth+1)

	var parts []Span
	if !isArray && className != "" && className != "Object" {
		parts = append(parts, leaf(StyleClass, className), leaf(StylePlain, " "))
	}
	parts = append(parts, leaf(StylePunct, open))
	for _, prop := range p.Properties {
		parts = append(parts, leaf(StylePlain, "\n"+indent))
		if !isArray {
			parts = append(parts, leaf(StyleName, prop.Name), leaf(StylePunct, ": "))
		}
		if prop.Preview != nil {
			parts = append(parts, previewFull(*prop.Preview, "", depth+1))
		} else {
			parts = append(parts, property(prop))
		}
	}
	if p.Overflow {
		parts = append(parts, leaf(StylePlain, "\n"+indent), leaf(StylePunct, overflowMarker))
	}
	if len(p.Properties) > 0 || p.Overflow {
		parts = append(parts, leaf(StylePlain, "\n"+strings.Repeat("  ", depth)))
	}
	parts = append(parts, leaf(StylePunct, close))
	return group(StylePlain, parts...)
}

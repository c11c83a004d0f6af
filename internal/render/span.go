// Package render converts captured runtime values, call-frame chains, and
// network entries into an abstract styled-text tree. The tree is
// presentation-agnostic; flatteners (plain text here, ANSI in ansi.go) turn
// it into a concrete output format.
package render

import "strings"

// Style is a kind tag attached to a span. Flatteners map tags to whatever
// the output medium supports; unknown tags must fall back to unstyled text.
type Style string

const (
	StylePlain     Style = ""
	StyleKeyword   Style = "keyword" // undefined, null, booleans
	StyleNumber    Style = "number"
	StyleString    Style = "string"
	StyleSymbol    Style = "symbol"
	StyleFunction  Style = "function"
	StyleError     Style = "error"
	StyleRegexp    Style = "regexp"
	StyleDate      Style = "date"
	StyleName      Style = "name"  // property keys
	StyleClass     Style = "class" // class-name prefixes
	StylePunct     Style = "punct" // brackets, commas, colons
	StyleDim       Style = "dim"   // vendored-frame de-emphasis
	StyleSeparator Style = "separator"
	StyleLocation  Style = "location"
)

// Span is one node of the styled-text tree: either a styled leaf carrying
// Text, or a styled container carrying Children. A container's style applies
// to everything beneath it unless a child overrides it.
type Span struct {
	Style    Style
	Text     string
	Children []Span
}

func leaf(style Style, text string) Span { return Span{Style: style, Text: text} }

func group(style Style, children ...Span) Span { return Span{Style: style, Children: children} }

// Flatten renders a span tree to plain text, discarding styles.
func Flatten(s Span) string {
	var b strings.Builder
	flattenInto(&b, s)
	return b.String()
}

func flattenInto(b *strings.Builder, s Span) {
	b.WriteString(s.Text)
	for _, c := range s.Children {
		flattenInto(b, c)
	}
}

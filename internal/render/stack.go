package render

import (
	"fmt"
	"strings"

	"github.com/vincentbai/sessionlens/internal/models"
)

// vendoredSegments mark frames from bundled third-party code. Matching frames
// keep their data but carry the dim style as a display hint.
var vendoredSegments = []string{"/node_modules/", "/vendor/"}

// Chain renders a call-frame chain, one frame per line, followed by any async
// parent chains each introduced by a labeled separator line. An empty chain
// (no frames, no parent) renders as an empty span.
func Chain(chain models.FrameChain) Span {
	if len(chain.CallFrames) == 0 && chain.Parent == nil {
		return Span{}
	}
	var lines []Span
	for i, frame := range chain.CallFrames {
		if i > 0 || len(lines) > 0 {
			lines = append(lines, leaf(StylePlain, "\n"))
		}
		lines = append(lines, Frame(frame))
	}
	if chain.Parent != nil {
		label := chain.Parent.Description
		if label == "" {
			label = "async"
		}
		if len(lines) > 0 {
			lines = append(lines, leaf(StylePlain, "\n"))
		}
		lines = append(lines, leaf(StyleSeparator, fmt.Sprintf("— %s —", label)))
		parent := Chain(*chain.Parent)
		if parent.Text != "" || len(parent.Children) > 0 {
			lines = append(lines, leaf(StylePlain, "\n"), parent)
		}
	}
	return group(StylePlain, lines...)
}

// Frame renders one call frame as "name (location)". Source-mapped location
// wins over the raw one; captured positions are 0-based and display 1-based.
func Frame(frame models.StackFrame) Span {
	name := frame.OriginalFunctionName
	if name == "" {
		name = frame.FunctionName
	}
	if name == "" {
		name = "(anonymous)"
	}

	source := frame.OriginalSource
	line, column := frame.OriginalLine, frame.OriginalColumn
	if source == "" {
		source = frame.URL
		line, column = frame.Line, frame.Column
	}

	// De-emphasized frames dim every part of the line, overriding the
	// usual per-piece styles. Same data, different styling.
	nameStyle, locStyle, punctStyle := StyleFunction, StyleLocation, StylePlain
	if vendored(source) {
		nameStyle, locStyle, punctStyle = StyleDim, StyleDim, StyleDim
	}

	if source == "" {
		return group(StylePlain, leaf(nameStyle, name))
	}
	location := fmt.Sprintf("%s:%d:%d", source, line+1, column+1)
	return group(StylePlain,
		leaf(nameStyle, name),
		leaf(punctStyle, " ("),
		leaf(locStyle, location),
		leaf(punctStyle, ")"),
	)
}

func vendored(source string) bool {
	for _, seg := range vendoredSegments {
		if strings.Contains(source, seg) {
			return true
		}
	}
	return false
}

package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/vincentbai/sessionlens/internal/models"
)

// sizeDash is the placeholder for a response size the capture never recorded.
const sizeDash = "—"

// NetworkEntry renders the one-line list form of a network event:
// method, URL, status (or error), size, total duration.
func NetworkEntry(e models.NetworkEvent) Span {
	parts := []Span{
		leaf(StyleName, e.Method()),
		leaf(StylePlain, " "),
		leaf(StyleLocation, e.URL()),
		leaf(StylePlain, " "),
	}
	switch {
	case e.Error != "":
		parts = append(parts, leaf(StyleError, e.Error))
	case e.Status() >= 400:
		parts = append(parts, leaf(StyleError, fmt.Sprintf("%d", e.Status())))
	default:
		parts = append(parts, leaf(StyleNumber, fmt.Sprintf("%d", e.Status())))
	}
	parts = append(parts, leaf(StylePlain, " "), leaf(StyleDim, SizeText(e.Response.Content.Size)))
	if total, ok := e.Timings["total"]; ok {
		parts = append(parts, leaf(StylePlain, " "), leaf(StyleDim, fmt.Sprintf("%.0fms", total)))
	}
	return group(StylePlain, parts...)
}

// NetworkDetail renders the expanded form: request and response headers,
// redirect chain, and bodies. Every missing field has a total fallback.
func NetworkDetail(e models.NetworkEvent) Span {
	var parts []Span
	add := func(label string, body Span) {
		parts = append(parts, leaf(StyleName, label), leaf(StylePlain, "\n"), body, leaf(StylePlain, "\n"))
	}

	add("Request Headers", headerBlock(e.Request.Headers))
	if e.Request.Body != "" {
		add("Request Body", leaf(StylePlain, PrettyBody(e.Request.Body)))
	}
	for _, hop := range e.RedirectChain {
		parts = append(parts,
			leaf(StyleDim, fmt.Sprintf("→ %d %s", hop.Status, hop.URL)),
			leaf(StylePlain, "\n"))
	}
	add("Response Headers", headerBlock(e.Response.Headers))
	if e.Response.Content.Text != "" {
		add("Response Body", leaf(StylePlain, PrettyBody(e.Response.Content.Text)))
	}
	if e.Initiator != nil && e.Initiator.Stack != nil {
		add("Initiator", Chain(*e.Initiator.Stack))
	}
	return group(StylePlain, parts...)
}

func headerBlock(headers map[string]string) Span {
	if len(headers) == 0 {
		return leaf(StyleDim, "(none)")
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var lines []string
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, headers[k]))
	}
	return leaf(StylePlain, strings.Join(lines, "\n"))
}

// PrettyBody re-indents a JSON body for display. Anything that does not parse
// as JSON passes through unchanged.
func PrettyBody(text string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(text), "", "  "); err != nil {
		return text
	}
	return buf.String()
}

// SizeText formats a captured response size for display. A nil size renders
// as a dash; everything else is humanized.
func SizeText(size *int64) string {
	if size == nil {
		return sizeDash
	}
	return humanize.Bytes(uint64(*size))
}

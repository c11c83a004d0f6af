// Package classify maps network events to coarse resource categories used for
// filter scoping and display grouping.
package classify

import (
	"net/url"
	"path"
	"strings"

	"github.com/vincentbai/sessionlens/internal/models"
)

// Category is a coarse resource tag. The set is closed; "all" is the
// filter wildcard and never produced by classification.
type Category string

const (
	All      Category = "all"
	Fetch    Category = "fetch"
	Script   Category = "js"
	Style    Category = "css"
	Image    Category = "img"
	Font     Category = "font"
	Media    Category = "media"
	Document Category = "doc"
	Socket   Category = "ws"
	Other    Category = "other"
)

// Categories lists every concrete category, in display order. Excludes All.
var Categories = []Category{Fetch, Script, Style, Image, Font, Media, Document, Socket, Other}

// declared resource type -> category, for types the browser identifies
// unambiguously.
var typeCategories = map[string]Category{
	"script":      Script,
	"stylesheet":  Style,
	"image":       Image,
	"font":        Font,
	"media":       Media,
	"document":    Document,
	"websocket":   Socket,
	"texttrack":   Media,
	"eventsource": Fetch,
}

// URL path extension -> category, used to refine generic fetch/XHR calls that
// load static assets.
var extensionCategories = map[string]Category{
	".js":    Script,
	".mjs":   Script,
	".cjs":   Script,
	".css":   Style,
	".png":   Image,
	".jpg":   Image,
	".jpeg":  Image,
	".gif":   Image,
	".webp":  Image,
	".svg":   Image,
	".ico":   Image,
	".avif":  Image,
	".woff":  Font,
	".woff2": Font,
	".ttf":   Font,
	".otf":   Font,
	".eot":   Font,
	".mp3":   Media,
	".mp4":   Media,
	".webm":  Media,
	".ogg":   Media,
	".wav":   Media,
	".m3u8":  Media,
	".html":  Document,
	".htm":   Document,
}

// generic fetch-like declared types that warrant URL refinement.
var fetchTypes = map[string]bool{
	"xhr":   true,
	"fetch": true,
	"":      true,
}

// Classify maps one network event to its category. Total: unknown declared
// types degrade to Other, unrefinable fetches to Fetch, never an error.
//
// Declared type wins when it names a concrete asset kind. Generic fetch/XHR
// calls are refined by URL extension because they are frequently used to load
// static assets that group more usefully by content type than as "fetch".
func Classify(event models.NetworkEvent) Category {
	declared := strings.ToLower(strings.TrimSpace(event.ResourceType))
	if c, ok := typeCategories[declared]; ok {
		return c
	}
	if fetchTypes[declared] {
		return refineByURL(event.URL())
	}
	return Other
}

func refineByURL(raw string) Category {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return Fetch
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if c, ok := extensionCategories[ext]; ok {
		return c
	}
	return Fetch
}

// Valid reports whether tag names a known category (including the wildcard).
// Used to sanitize filter input at the transport boundary.
func Valid(tag Category) bool {
	if tag == All {
		return true
	}
	for _, c := range Categories {
		if c == tag {
			return true
		}
	}
	return false
}

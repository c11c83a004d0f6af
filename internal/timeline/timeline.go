// Package timeline correlates the normalized event streams against a moving
// playback clock: which entry is "current", which entries are visible under
// the active filter, and the scrub-bar markers derived from both streams.
//
// All functions are pure and synchronous over the already-sorted streams.
// They are recomputed fresh on every playback-time or filter change; repeated
// identical inputs produce identical outputs.
package timeline

import (
	"fmt"

	"github.com/vincentbai/sessionlens/internal/classify"
	"github.com/vincentbai/sessionlens/internal/models"
)

// NearestWindowMs bounds how far behind the playhead an event may lag and
// still count as "current". At or beyond this distance nothing is current,
// which keeps sparse logs from pinning a stale highlight.
const NearestWindowMs = 1500

// None is the nearest-index value meaning no entry is current.
const None = -1

// Visible pairs an event with its index in the original stream, so selection
// state in a view survives filter changes.
type Visible[E any] struct {
	Index int `json:"index"`
	Event E   `json:"event"`
}

// Result is the answer to one correlation query over one stream.
type Result[E any] struct {
	// NearestIndex is the original-stream index of the current entry, or
	// None when nothing eligible is inside the nearest window.
	NearestIndex int `json:"nearestIndex"`
	// VisibleList holds the eligible, filter-matching entries in stream order.
	VisibleList []Visible[E] `json:"visible"`
}

// query runs the correlation over one sorted stream. An event is eligible iff
// its relative timestamp does not exceed playbackMs — strictly-future events
// are hard-hidden, this is a replay, not a live feed. Among eligible events
// the nearest minimizes the distance to the playhead; equal distances resolve
// to the later stream index. The visible subset is the eligible events that
// match, in stream order.
func query[E any](events []E, relative func(E) int64, match func(E) bool, playbackMs int64) Result[E] {
	result := Result[E]{NearestIndex: None}
	bestDistance := int64(-1)
	for i, event := range events {
		rel := relative(event)
		if rel > playbackMs {
			// Streams are sorted ascending, everything after is future.
			break
		}
		distance := playbackMs - rel
		if bestDistance < 0 || distance <= bestDistance {
			bestDistance = distance
			result.NearestIndex = i
		}
		if match(event) {
			result.VisibleList = append(result.VisibleList, Visible[E]{Index: i, Event: event})
		}
	}
	if bestDistance >= NearestWindowMs {
		result.NearestIndex = None
	}
	return result
}

// QueryConsole correlates the console stream. The level filter matches on the
// event's level; "all" is the wildcard. Exception and browser-chrome events
// match the "error" filter regardless of their captured level.
func QueryConsole(events []models.ConsoleEvent, playbackMs int64, level string) Result[models.ConsoleEvent] {
	match := func(e models.ConsoleEvent) bool {
		if level == "" || level == "all" {
			return true
		}
		if level == "error" {
			return e.IsError()
		}
		return e.Level == level
	}
	return query(events, models.ConsoleEvent.Relative, match, playbackMs)
}

// QueryNetwork correlates the network stream, filter-scoped by resource
// category.
func QueryNetwork(events []models.NetworkEvent, playbackMs int64, filter classify.Category) Result[models.NetworkEvent] {
	match := func(e models.NetworkEvent) bool {
		if filter == "" || filter == classify.All {
			return true
		}
		return classify.Classify(e) == filter
	}
	return query(events, models.NetworkEvent.Relative, match, playbackMs)
}

// Summary builds the request-count caption: "<visible>/<total> requests",
// with the active filter and the WebSocket connection count appended when
// relevant.
func Summary(visible, total int, filter classify.Category, socketCount int) string {
	s := fmt.Sprintf("%d/%d requests", visible, total)
	if filter != "" && filter != classify.All {
		s += fmt.Sprintf(" (%s)", filter)
	}
	if socketCount > 0 {
		s += fmt.Sprintf(", %d websockets", socketCount)
	}
	return s
}

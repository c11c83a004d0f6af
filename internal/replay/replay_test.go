package replay

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vincentbai/sessionlens/internal/classify"
)

const testBundle = `{
	"sessionMeta": {"startTimeEpochMs": 1000, "durationMs": 4000, "url": "https://example.com"},
	"consoleEvents": [
		{"source": "console-api", "level": "log", "epochMs": 1500, "message": "ready",
		 "args": [{"type": "number", "value": 42, "description": "42"}]},
		{"source": "exception", "epochMs": 3000, "message": "Uncaught TypeError"}
	],
	"networkEvents": [
		{"wallTimeMs": 2200, "method": "GET", "url": "https://example.com/a.png", "resourceType": "XHR", "status": 200}
	]
}`

func TestReplayFullTimeline(t *testing.T) {
	var out bytes.Buffer
	replayer := New(&out, false, false)

	if err := replayer.ReplayRaw([]byte(testBundle), -1, classify.All); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	text := out.String()

	for _, want := range []string{
		"SESSION https://example.com",
		"ready",
		"42",
		"Uncaught TypeError",
		"GET",
		"https://example.com/a.png",
		"1/1 requests",
		"2 markers (1 errors)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	// Events appear in relative-time order.
	if strings.Index(text, "ready") > strings.Index(text, "a.png") {
		t.Error("console event at 500ms should print before network event at 1200ms")
	}
}

func TestReplayAtPlaybackPosition(t *testing.T) {
	var out bytes.Buffer
	replayer := New(&out, false, false)

	// At 600ms only the first console event has happened; it is current.
	if err := replayer.ReplayRaw([]byte(testBundle), 600, classify.All); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	text := out.String()

	if strings.Contains(text, "a.png") {
		t.Error("future network event must be hidden at 600ms")
	}
	if strings.Contains(text, "Uncaught TypeError") {
		t.Error("future console event must be hidden at 600ms")
	}
	if !strings.Contains(text, "▶") {
		t.Error("the current entry should carry the playhead cursor")
	}
	if !strings.Contains(text, "0/1 requests") {
		t.Errorf("summary should count zero visible requests:\n%s", text)
	}
}

func TestReplayFilter(t *testing.T) {
	var out bytes.Buffer
	replayer := New(&out, false, false)

	if err := replayer.ReplayRaw([]byte(testBundle), -1, classify.Script); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	text := out.String()

	if strings.Contains(text, "a.png") {
		t.Error("image request must be hidden under the js filter")
	}
	if !strings.Contains(text, "0/1 requests (js)") {
		t.Errorf("summary should name the active filter:\n%s", text)
	}
}

func TestReplayRejectsGarbage(t *testing.T) {
	replayer := New(&bytes.Buffer{}, false, false)
	if err := replayer.ReplayRaw([]byte("not json"), -1, classify.All); err == nil {
		t.Error("expected error for undecodable payload")
	}
}

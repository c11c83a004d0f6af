package normalize

import (
	"encoding/json"
	"testing"

	"github.com/vincentbai/sessionlens/internal/classify"
	"github.com/vincentbai/sessionlens/internal/timeline"
)

func decode(t *testing.T, payload string) RawBundle {
	t.Helper()
	var raw RawBundle
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("failed to decode test payload: %v", err)
	}
	return raw
}

func TestNormalizeRelativeTimestamps(t *testing.T) {
	raw := decode(t, `{
		"sessionMeta": {"startTimeEpochMs": 1000, "durationMs": 5000, "url": "https://example.com"},
		"consoleEvents": [
			{"source": "console-api", "level": "log", "epochMs": 1500, "message": "ready"},
			{"source": "console-api", "level": "warn", "epochMs": 800, "message": "early"}
		],
		"networkEvents": [
			{"wallTimeMs": 2200, "method": "GET", "url": "https://example.com/a.js", "status": 200}
		]
	}`)

	bundle := Normalize(raw)

	if bundle.Session.StartTimeEpochMs != 1000 {
		t.Errorf("session start = %d, want 1000", bundle.Session.StartTimeEpochMs)
	}
	// Sorted ascending; the pre-start event keeps its negative offset and
	// sorts first.
	if bundle.Console[0].RelativeMs != -200 || bundle.Console[1].RelativeMs != 500 {
		t.Errorf("console relative = %d,%d, want -200,500",
			bundle.Console[0].RelativeMs, bundle.Console[1].RelativeMs)
	}
	if bundle.Network[0].RelativeMs != 1200 {
		t.Errorf("network relative = %d, want 1200", bundle.Network[0].RelativeMs)
	}
}

func TestNormalizeISOStartTime(t *testing.T) {
	raw := decode(t, `{
		"sessionMeta": {"startTime": "2009-02-13T23:31:30Z"},
		"consoleEvents": [],
		"networkEvents": []
	}`)

	bundle := Normalize(raw)
	if bundle.Session.StartTimeEpochMs != 1234567890000 {
		t.Errorf("session start = %d, want 1234567890000", bundle.Session.StartTimeEpochMs)
	}
}

func TestNormalizeLegacyConsoleShape(t *testing.T) {
	raw := decode(t, `{
		"sessionMeta": {"startTimeEpochMs": 0},
		"consoleEvents": [
			{"type": "error", "timestamp": 400, "text": "legacy failure"}
		],
		"networkEvents": []
	}`)

	event := Normalize(raw).Console[0]
	if event.Level != "error" {
		t.Errorf("level = %q, want error (legacy type field)", event.Level)
	}
	if event.EpochMs != 400 {
		t.Errorf("epoch = %d, want 400 (legacy timestamp field)", event.EpochMs)
	}
	if event.Message != "legacy failure" {
		t.Errorf("message = %q, want legacy text field", event.Message)
	}
}

func TestNormalizeNetworkContainerShapes(t *testing.T) {
	flat := `{
		"sessionMeta": {"startTimeEpochMs": 0},
		"consoleEvents": [],
		"networkEvents": [{"wallTimeMs": 100, "method": "GET", "url": "https://e.com/a"}]
	}`
	wrapped := `{
		"sessionMeta": {"startTimeEpochMs": 0},
		"consoleEvents": [],
		"networkEvents": {"log": {"entries": [{"wallTimeMs": 100, "method": "GET", "url": "https://e.com/a"}]}}
	}`

	for _, tt := range []struct{ name, payload string }{{"flat array", flat}, {"legacy wrapper", wrapped}} {
		t.Run(tt.name, func(t *testing.T) {
			bundle := Normalize(decode(t, tt.payload))
			if len(bundle.Network) != 1 {
				t.Fatalf("got %d network events, want 1", len(bundle.Network))
			}
			if bundle.Network[0].URL() != "https://e.com/a" {
				t.Errorf("url = %q", bundle.Network[0].URL())
			}
		})
	}
}

func TestNormalizeNestedShapeWins(t *testing.T) {
	raw := decode(t, `{
		"sessionMeta": {"startTimeEpochMs": 0},
		"consoleEvents": [],
		"networkEvents": [{
			"wallTimeMs": 10,
			"method": "LEGACY", "url": "https://legacy.example.com",
			"request": {"method": "POST", "url": "https://nested.example.com", "headers": {"X-A": "1"}},
			"response": {"status": 201, "content": {"size": 12, "mimeType": "application/json"}}
		}]
	}`)

	event := Normalize(raw).Network[0]
	if event.Method() != "POST" || event.URL() != "https://nested.example.com" {
		t.Errorf("nested shape should win: got %s %s", event.Method(), event.URL())
	}
	if event.Status() != 201 {
		t.Errorf("status = %d, want 201", event.Status())
	}
	if event.Response.Content.Size == nil || *event.Response.Content.Size != 12 {
		t.Errorf("content size not carried through: %+v", event.Response.Content)
	}
}

func TestNormalizeMonotonicFallback(t *testing.T) {
	raw := decode(t, `{
		"sessionMeta": {"startTimeEpochMs": 5000},
		"consoleEvents": [],
		"networkEvents": [{"monotonicMs": 250, "method": "GET", "url": "https://e.com/a"}]
	}`)

	event := Normalize(raw).Network[0]
	if event.RelativeMs != 250 {
		t.Errorf("relative = %d, want 250 (monotonic used directly)", event.RelativeMs)
	}
	if event.EpochMs != 5250 {
		t.Errorf("epoch = %d, want 5250", event.EpochMs)
	}
}

func TestNormalizeMissingWebsockets(t *testing.T) {
	bundle := Normalize(decode(t, `{
		"sessionMeta": {"startTimeEpochMs": 0},
		"consoleEvents": [],
		"networkEvents": []
	}`))
	if bundle.Sockets == nil || len(bundle.Sockets) != 0 {
		t.Errorf("missing websocket payload should normalize to empty, got %+v", bundle.Sockets)
	}
}

func TestNormalizeUndecodableNetworkPayload(t *testing.T) {
	bundle := Normalize(decode(t, `{
		"sessionMeta": {"startTimeEpochMs": 0},
		"consoleEvents": [],
		"networkEvents": "garbage"
	}`))
	if len(bundle.Network) != 0 {
		t.Errorf("undecodable payload should degrade to empty, got %d events", len(bundle.Network))
	}
}

// TestEndToEndCorrelation drives the full path: normalize, then correlate at
// two playback positions.
func TestEndToEndCorrelation(t *testing.T) {
	raw := decode(t, `{
		"sessionMeta": {"startTimeEpochMs": 1000},
		"consoleEvents": [{"source": "console-api", "level": "log", "epochMs": 1500, "message": "hello"}],
		"networkEvents": [{"wallTimeMs": 2200, "method": "GET", "url": "https://e.com/data"}]
	}`)
	bundle := Normalize(raw)

	// At 600ms: the console event (relative 500, distance 100) is current;
	// the network event (relative 1200) has not happened yet.
	console := timeline.QueryConsole(bundle.Console, 600, "all")
	network := timeline.QueryNetwork(bundle.Network, 600, classify.All)
	if console.NearestIndex != 0 {
		t.Errorf("console nearest at 600ms = %d, want 0", console.NearestIndex)
	}
	if network.NearestIndex != timeline.None || len(network.VisibleList) != 0 {
		t.Errorf("network at 600ms should be invisible, got %+v", network)
	}

	// At 1300ms: both eligible, network is current at distance 100.
	console = timeline.QueryConsole(bundle.Console, 1300, "all")
	network = timeline.QueryNetwork(bundle.Network, 1300, classify.All)
	if console.NearestIndex != 0 || len(console.VisibleList) != 1 {
		t.Errorf("console at 1300ms: %+v", console)
	}
	if network.NearestIndex != 0 || len(network.VisibleList) != 1 {
		t.Errorf("network at 1300ms: %+v", network)
	}
}

package normalize

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/vincentbai/sessionlens/internal/models"
)

// Normalize converts a raw persisted bundle into the normalized model:
// relative timestamps computed once against session start, both streams
// sorted ascending by them, and the two upstream record shapes unified.
// Total over malformed input — unknown fields drop, missing ones take their
// documented fallbacks.
func Normalize(raw RawBundle) *models.Bundle {
	session := models.Session{
		StartTimeEpochMs: sessionStart(raw.SessionMeta),
		DurationMs:       raw.SessionMeta.DurationMs,
		SourceURL:        raw.SessionMeta.URL,
	}

	bundle := &models.Bundle{
		Session: session,
		Console: make([]models.ConsoleEvent, 0, len(raw.ConsoleEvents)),
		Sockets: raw.WsConnections,
	}
	if bundle.Sockets == nil {
		bundle.Sockets = []models.WsConnection{}
	}

	for _, rc := range raw.ConsoleEvents {
		bundle.Console = append(bundle.Console, normalizeConsole(rc, session.StartTimeEpochMs))
	}
	for _, rn := range decodeNetwork(raw.NetworkEvents) {
		bundle.Network = append(bundle.Network, normalizeNetwork(rn, session.StartTimeEpochMs))
	}

	// relativeMs may be negative for events captured before session start;
	// they sort to the front like any other value.
	sort.SliceStable(bundle.Console, func(i, j int) bool {
		return bundle.Console[i].RelativeMs < bundle.Console[j].RelativeMs
	})
	sort.SliceStable(bundle.Network, func(i, j int) bool {
		return bundle.Network[i].RelativeMs < bundle.Network[j].RelativeMs
	})
	return bundle
}

func sessionStart(meta RawSessionMeta) int64 {
	if meta.StartTimeEpochMs != 0 {
		return meta.StartTimeEpochMs
	}
	if meta.StartTime != "" {
		if t, err := time.Parse(time.RFC3339, meta.StartTime); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

// decodeNetwork flattens whichever network payload shape is present: a flat
// array, or the legacy wrapper with entries under log.entries. Anything
// undecodable yields an empty stream.
func decodeNetwork(payload json.RawMessage) []RawNetworkEvent {
	if len(payload) == 0 {
		return nil
	}
	var flat []RawNetworkEvent
	if err := json.Unmarshal(payload, &flat); err == nil {
		return flat
	}
	var container rawNetworkContainer
	if err := json.Unmarshal(payload, &container); err == nil {
		return container.Log.Entries
	}
	return nil
}

func normalizeConsole(raw RawConsoleEvent, startMs int64) models.ConsoleEvent {
	source := models.ConsoleSource(raw.Source)
	switch source {
	case models.SourceConsoleAPI, models.SourceException, models.SourceBrowser:
	default:
		source = models.SourceConsoleAPI
	}

	level := raw.Level
	if level == "" {
		level = raw.Type // legacy field
	}
	epoch := raw.EpochMs
	if epoch == 0 {
		epoch = raw.Timestamp // legacy field
	}
	message := raw.Message
	if message == "" {
		message = raw.Text // legacy field
	}

	return models.ConsoleEvent{
		Source:         source,
		Level:          level,
		EpochMs:        epoch,
		RelativeMs:     epoch - startMs,
		Message:        message,
		Args:           raw.Args,
		CallStack:      raw.CallStack,
		URL:            raw.URL,
		Line:           raw.Line,
		Column:         raw.Column,
		OriginalSource: raw.OriginalSource,
		OriginalLine:   raw.OriginalLine,
		OriginalColumn: raw.OriginalColumn,
	}
}

func normalizeNetwork(raw RawNetworkEvent, startMs int64) models.NetworkEvent {
	event := models.NetworkEvent{
		ResourceType:  raw.ResourceType,
		RedirectChain: raw.RedirectChain,
		Initiator:     raw.Initiator,
		Error:         raw.Error,
		Timings:       raw.Timings,
	}

	// Nested shape wins; legacy flat fields fill whatever it left empty.
	if raw.Request != nil {
		event.Request = *raw.Request
	} else {
		event.Request = models.RequestInfo{
			Method:  raw.Method,
			URL:     raw.URL,
			Headers: raw.RequestHeaders,
			Body:    raw.RequestBody,
		}
	}
	if raw.Response != nil {
		event.Response = *raw.Response
	} else {
		event.Response = models.ResponseInfo{
			Status:  raw.Status,
			Headers: raw.ResponseHeaders,
			Content: models.ContentInfo{
				Size:     raw.Size,
				MimeType: raw.MimeType,
				Text:     raw.ResponseBody,
			},
		}
	}

	// Wall-clock time is preferred; the monotonic timestamp is already
	// relative to session start.
	switch {
	case raw.WallTimeMs != nil:
		event.EpochMs = int64(*raw.WallTimeMs)
		event.RelativeMs = event.EpochMs - startMs
	case raw.MonotonicMs != nil:
		event.RelativeMs = int64(*raw.MonotonicMs)
		event.EpochMs = startMs + event.RelativeMs
	}
	return event
}

// Package normalize is the boundary adapter between persisted bundles and the
// normalized model. It is the single place where the two upstream record
// shapes — flat legacy fields vs. nested request/response objects, and a flat
// network array vs. the legacy wrapper container — are reconciled. Everything
// downstream sees only the normalized shape.
package normalize

import (
	"encoding/json"

	"github.com/vincentbai/sessionlens/internal/models"
)

// RawBundle is the persisted upload payload as it arrives from the store.
type RawBundle struct {
	SessionMeta RawSessionMeta `json:"sessionMeta"`
	// ConsoleEvents accepts both the current and the legacy record shape;
	// see RawConsoleEvent.
	ConsoleEvents []RawConsoleEvent `json:"consoleEvents"`
	// NetworkEvents is either a flat array of events or the legacy wrapper
	// container with entries under log.entries. Decoded in Normalize.
	NetworkEvents json.RawMessage `json:"networkEvents"`
	// WsConnections may be absent entirely; treated as empty.
	WsConnections []models.WsConnection `json:"wsConnections,omitempty"`
}

// RawSessionMeta carries the session start either as epoch milliseconds or as
// an ISO 8601 timestamp, whichever the recorder emitted.
type RawSessionMeta struct {
	StartTimeEpochMs int64  `json:"startTimeEpochMs,omitempty"`
	StartTime        string `json:"startTime,omitempty"` // ISO 8601, used when epoch is absent
	DurationMs       int64  `json:"durationMs,omitempty"`
	URL              string `json:"url,omitempty"`
}

// RawConsoleEvent tolerates both upstream console shapes: the current one
// (epochMs/message/level) and the legacy one (timestamp/text/type).
type RawConsoleEvent struct {
	Source string `json:"source,omitempty"`

	Level string `json:"level,omitempty"`
	Type  string `json:"type,omitempty"` // legacy name for Level

	EpochMs   int64 `json:"epochMs,omitempty"`
	Timestamp int64 `json:"timestamp,omitempty"` // legacy name for EpochMs

	Message string `json:"message,omitempty"`
	Text    string `json:"text,omitempty"` // legacy name for Message

	Args      []models.RuntimeValue `json:"args,omitempty"`
	CallStack []models.StackFrame   `json:"callStack,omitempty"`

	URL            string `json:"url,omitempty"`
	Line           int    `json:"line,omitempty"`
	Column         int    `json:"col,omitempty"`
	OriginalSource string `json:"originalSource,omitempty"`
	OriginalLine   int    `json:"originalLine,omitempty"`
	OriginalColumn int    `json:"originalColumn,omitempty"`
}

// rawNetworkContainer is the legacy wrapper format: events under log.entries.
type rawNetworkContainer struct {
	Log struct {
		Entries []RawNetworkEvent `json:"entries"`
	} `json:"log"`
}

// RawNetworkEvent tolerates both upstream network shapes. The nested
// request/response objects are preferred; the flat fields are the legacy
// shape and are only consulted where the nested ones are absent.
type RawNetworkEvent struct {
	// Wall-clock capture time, preferred. WallTimeMs is epoch milliseconds.
	WallTimeMs *float64 `json:"wallTimeMs,omitempty"`
	// MonotonicMs is milliseconds since session start, used as the relative
	// timestamp directly when no wall-clock time was captured.
	MonotonicMs *float64 `json:"monotonicMs,omitempty"`

	ResourceType string `json:"resourceType,omitempty"`

	// Current nested shape.
	Request  *models.RequestInfo  `json:"request,omitempty"`
	Response *models.ResponseInfo `json:"response,omitempty"`

	// Legacy flat shape.
	Method          string            `json:"method,omitempty"`
	URL             string            `json:"url,omitempty"`
	RequestHeaders  map[string]string `json:"requestHeaders,omitempty"`
	RequestBody     string            `json:"requestBody,omitempty"`
	Status          int               `json:"status,omitempty"`
	ResponseHeaders map[string]string `json:"responseHeaders,omitempty"`
	MimeType        string            `json:"mimeType,omitempty"`
	Size            *int64            `json:"size,omitempty"`
	ResponseBody    string            `json:"responseBody,omitempty"`

	RedirectChain []models.RedirectHop `json:"redirectChain,omitempty"`
	Initiator     *models.Initiator    `json:"initiator,omitempty"`
	Error         string               `json:"error,omitempty"`
	Timings       map[string]float64   `json:"timings,omitempty"`
}

// Package models defines the normalized data model for a recorded browser
// session: the session itself, its console and network event streams, captured
// WebSocket traffic, and the runtime-value previews attached to console output
// and network initiators.
//
// Everything here is immutable after normalization. Both event lists are kept
// sorted ascending by RelativeMs and are never re-sorted or mutated; all
// timeline queries are read-only over that order.
package models

// Session describes one recorded browser session. Created once at upload
// time, read-only afterward.
type Session struct {
	StartTimeEpochMs int64  `json:"startTimeEpochMs"`
	DurationMs       int64  `json:"durationMs,omitempty"`
	SourceURL        string `json:"sourceUrl,omitempty"`
}

// ConsoleSource distinguishes where a console event came from.
type ConsoleSource string

const (
	// SourceConsoleAPI is a plain console.log/.warn/.error style emission.
	SourceConsoleAPI ConsoleSource = "console-api"
	// SourceException is an uncaught exception surfaced by the page.
	SourceException ConsoleSource = "exception"
	// SourceBrowser is a message injected by the browser chrome itself
	// (mixed content warnings, deprecations, and the like).
	SourceBrowser ConsoleSource = "browser"
)

// ConsoleEvent is one normalized console emission.
type ConsoleEvent struct {
	Source     ConsoleSource  `json:"source"`
	Level      string         `json:"level,omitempty"` // log|info|warn|error|debug
	EpochMs    int64          `json:"epochMs"`
	RelativeMs int64          `json:"relativeMs"` // EpochMs - Session.StartTimeEpochMs, may be negative
	Message    string         `json:"message,omitempty"`
	Args       []RuntimeValue `json:"args,omitempty"`
	CallStack  []StackFrame   `json:"callStack,omitempty"`

	// Raw capture location plus optional source-mapped resolution.
	// Line/Column are 0-based as captured; OriginalSource == "" means no
	// source map resolved this location.
	URL            string `json:"url,omitempty"`
	Line           int    `json:"line,omitempty"`
	Column         int    `json:"column,omitempty"`
	OriginalSource string `json:"originalSource,omitempty"`
	OriginalLine   int    `json:"originalLine,omitempty"`
	OriginalColumn int    `json:"originalColumn,omitempty"`
}

// Relative returns the event's timestamp relative to session start.
func (e ConsoleEvent) Relative() int64 { return e.RelativeMs }

// IsError reports whether the event should be treated as error severity.
// Exceptions and browser-chrome messages always count as errors.
func (e ConsoleEvent) IsError() bool {
	return e.Level == "error" || e.Source == SourceException || e.Source == SourceBrowser
}

// NetworkEvent is one normalized network request/response pair.
type NetworkEvent struct {
	EpochMs    int64 `json:"epochMs"`
	RelativeMs int64 `json:"relativeMs"`

	// ResourceType is the type the browser declared for the request
	// (Script, Stylesheet, XHR, Fetch, ...). Classification refines it.
	ResourceType string `json:"resourceType,omitempty"`

	Request       RequestInfo   `json:"request"`
	Response      ResponseInfo  `json:"response"`
	RedirectChain []RedirectHop `json:"redirectChain,omitempty"`
	Initiator     *Initiator    `json:"initiator,omitempty"`
	Error         string        `json:"error,omitempty"`

	// Timings maps phase name (dns, connect, ttfb, total, ...) to duration
	// in milliseconds.
	Timings map[string]float64 `json:"timings,omitempty"`
}

// Relative returns the event's timestamp relative to session start.
func (e NetworkEvent) Relative() int64 { return e.RelativeMs }

// Method is the flat accessor for the request method.
func (e NetworkEvent) Method() string { return e.Request.Method }

// URL is the flat accessor for the request URL.
func (e NetworkEvent) URL() string { return e.Request.URL }

// Status is the flat accessor for the response status code.
func (e NetworkEvent) Status() int { return e.Response.Status }

// RequestInfo holds the request half of a network event.
type RequestInfo struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
}

// ResponseInfo holds the response half of a network event.
type ResponseInfo struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Content ContentInfo       `json:"content"`
}

// ContentInfo describes a captured response body. Size is nil when the
// capture did not record one; zero is a legitimate size.
type ContentInfo struct {
	Size     *int64 `json:"size,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

// RedirectHop is one entry in a redirect chain.
type RedirectHop struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
}

// Initiator records what caused a network request.
type Initiator struct {
	Type           string      `json:"type"` // parser|script|preload|other
	URL            string      `json:"url,omitempty"`
	Line           int         `json:"line,omitempty"`
	Column         int         `json:"col,omitempty"`
	OriginalSource string      `json:"originalSource,omitempty"`
	Stack          *FrameChain `json:"stack,omitempty"`
}

// WsConnection is one captured WebSocket connection and its ordered frames.
type WsConnection struct {
	URL    string    `json:"url"`
	Closed bool      `json:"closed"`
	Frames []WsFrame `json:"frames,omitempty"`
}

// WsFrame is a single WebSocket frame.
type WsFrame struct {
	Direction string `json:"direction"` // sent|received
	Payload   string `json:"payload"`
}

// Bundle is the fully normalized session: the session metadata plus its
// event streams, sorted and relative-timestamped. Owned by the normalizer's
// output and handed to consumers as read-only input.
type Bundle struct {
	Session Session        `json:"session"`
	Console []ConsoleEvent `json:"console"`
	Network []NetworkEvent `json:"network"`
	Sockets []WsConnection `json:"sockets,omitempty"`
}

// Marker colors. The scrub bar palette has exactly two entries.
const (
	MarkerColorError   = "red"
	MarkerColorRequest = "blue"
)

// Marker is a timestamped scrub-bar annotation. Purely derivative, recomputed
// whenever the source streams change; ordering is up to the consumer.
type Marker struct {
	TimeMs int64  `json:"timeMs"`
	Color  string `json:"color"`
	Label  string `json:"label"`
}

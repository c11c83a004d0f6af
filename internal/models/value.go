package models

// Runtime-value tags. These mirror the type tags a browser runtime reports
// for captured values; the renderer switches exhaustively over them.
const (
	TypeUndefined = "undefined"
	TypeBoolean   = "boolean"
	TypeNumber    = "number"
	TypeBigint    = "bigint"
	TypeString    = "string"
	TypeSymbol    = "symbol"
	TypeFunction  = "function"
	TypeObject    = "object"
)

// Object subtypes the renderer treats specially.
const (
	SubtypeNull   = "null"
	SubtypeArray  = "array"
	SubtypeError  = "error"
	SubtypeRegexp = "regexp"
	SubtypeDate   = "date"
)

// RuntimeValue is a captured runtime value as reported by the page at record
// time. It is a tagged union over Type: primitives carry Value and/or
// Description, objects carry Subtype/ClassName and an optional Preview.
//
// Description, when present, is the runtime's own human rendering of the
// value (it preserves formatting like scientific notation that the raw value
// loses), so renderers prefer it over Value.
type RuntimeValue struct {
	Type        string         `json:"type"`
	Subtype     string         `json:"subtype,omitempty"`
	ClassName   string         `json:"className,omitempty"`
	Value       any            `json:"value,omitempty"`
	Description string         `json:"description,omitempty"`
	Preview     *ObjectPreview `json:"preview,omitempty"`
}

// ObjectPreview is a possibly-partial snapshot of a compound value's
// properties, captured once at record time. Overflow means more properties
// exist than were captured; Overflow with zero properties is valid and means
// "count unknown, nothing captured".
type ObjectPreview struct {
	Subtype     string            `json:"subtype,omitempty"` // "" for plain object, "array" for arrays
	Description string            `json:"description,omitempty"`
	Overflow    bool              `json:"overflow"`
	Properties  []PropertyPreview `json:"properties,omitempty"`
}

// PropertyPreview is one property inside an ObjectPreview. Value is always
// the string form the runtime captured; a nested Preview, when present, wins
// over the flat Value. Nesting depth is fixed at capture time and finite, but
// no maximum may be assumed.
type PropertyPreview struct {
	Name    string         `json:"name"`
	Type    string         `json:"type"`
	Subtype string         `json:"subtype,omitempty"`
	Value   string         `json:"value,omitempty"`
	Preview *ObjectPreview `json:"valuePreview,omitempty"`
}

// StackFrame is one call frame, with the raw capture location and an optional
// source-mapped resolution. Line/Column are 0-based as captured.
type StackFrame struct {
	FunctionName         string `json:"functionName,omitempty"`
	OriginalFunctionName string `json:"originalFunctionName,omitempty"`
	URL                  string `json:"url,omitempty"`
	Line                 int    `json:"line"`
	Column               int    `json:"column"`
	OriginalSource       string `json:"originalSource,omitempty"`
	OriginalLine         int    `json:"originalLine,omitempty"`
	OriginalColumn       int    `json:"originalColumn,omitempty"`
}

// FrameChain is an ordered call stack plus an optional parent chain across an
// async boundary (a timer callback scheduled from a network callback, and so
// on). Chains are built once at capture time, hop by hop, so they are finite
// and acyclic by construction.
type FrameChain struct {
	Description string       `json:"description,omitempty"` // async-boundary label, e.g. "setTimeout"
	CallFrames  []StackFrame `json:"callFrames,omitempty"`
	Parent      *FrameChain  `json:"parent,omitempty"`
}

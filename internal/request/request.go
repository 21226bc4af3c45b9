package request

import "time"

// MessageRequest is the JSON body for creating or updating a durable message.
type MessageRequest struct {
	Priority         int        `json:"priority"`
	LineNumber       int        `json:"lineNumber"`
	TarifZone        int        `json:"tarifZone"`
	StaticIntro      string     `json:"staticIntro"`
	ScrollingMessage string     `json:"scrollingMessage"`
	NextMessageHint  string     `json:"nextMessageHint"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	DurationSeconds  int        `json:"durationSeconds,omitempty"`
	SourceInfo       string     `json:"sourceInfo,omitempty"`
}

// EphemeralRequest is the JSON body for injecting a one-off message straight
// into the scheduler pool, bypassing the store.
type EphemeralRequest struct {
	Priority         int    `json:"priority"`
	LineNumber       int    `json:"lineNumber"`
	TarifZone        int    `json:"tarifZone"`
	StaticIntro      string `json:"staticIntro"`
	ScrollingMessage string `json:"scrollingMessage"`
	NextMessageHint  string `json:"nextMessageHint"`
	// Displays is the number of showings before eviction. Zero defaults to a
	// single showing; -1 keeps the entry until its TTL runs out.
	Displays        int `json:"displays"`
	TTLSeconds      int `json:"ttlSeconds"`
	DurationSeconds int `json:"durationSeconds,omitempty"`
}

// DisplayControlRequest represents the JSON body for display cycle control.
type DisplayControlRequest struct {
	// Action controls the display loop. Allowed values:
	// - "pause":  freeze message rotation (raw commands still pass through)
	// - "resume": resume normal rotation
	// - "invert": toggle inverted rendering
	Action string `json:"action"`
}

// RawCommandRequest carries an unframed panel command. The protocol layer
// appends the trailing carriage return and checksum before transmission.
type RawCommandRequest struct {
	Payload string `json:"payload"`
}

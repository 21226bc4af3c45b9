// Package notify exposes a minimal interface for pushing display lifecycle
// events to an external receiver, typically a home-automation webhook.
package notify

import (
	"context"
	"time"
)

// Event names delivered to the receiver.
const (
	EventEmergencyShown = "emergency_shown"
	EventStoreDegraded  = "store_degraded"
	EventDisplayPaused  = "display_paused"
	EventDisplayResumed = "display_resumed"
)

// Event is one lifecycle notification.
type Event struct {
	Name      string    `json:"event"`
	MessageID int       `json:"message_id,omitempty"`
	Priority  int       `json:"priority,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier is the contract for delivering events out of band.
// Implementations must be safe for concurrent use; delivery is best-effort
// and callers treat errors as log-and-continue.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Nop drops every event. Used when no webhook is configured.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

var _ Notifier = Nop{}

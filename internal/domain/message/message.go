// Package message holds the domain model and invariants for display messages.
package message

import (
	"errors"
	"strings"
	"time"
)

const (
	// MaxPriority is the highest priority a message may carry.
	MaxPriority = 100

	// MaxLineNumber is the largest line number the panel can render (3 digits).
	MaxLineNumber = 999

	// MaxTarifZone is the largest tariff zone the panel can render (3 digits).
	MaxTarifZone = 999

	// EphemeralID is the sentinel ID carried by every ephemeral entry.
	// Durable entries always receive a positive, store-assigned ID.
	EphemeralID = -1

	// UnboundedDisplays marks an ephemeral entry that repeats until its TTL.
	UnboundedDisplays = -1
)

var (
	// ErrEmptyScrollingMessage is returned when the scrolling text is empty.
	ErrEmptyScrollingMessage = errors.New("scrolling message is required")
	// ErrPriorityOutOfRange is returned when priority is outside 0..100.
	ErrPriorityOutOfRange = errors.New("priority must be between 0 and 100")
	// ErrLineNumberOutOfRange is returned when the line number is outside 0..999.
	ErrLineNumberOutOfRange = errors.New("line number must be between 0 and 999")
	// ErrTarifZoneOutOfRange is returned when the tariff zone is outside 0..999.
	ErrTarifZoneOutOfRange = errors.New("tariff zone must be between 0 and 999")
	// ErrInvalidDisplayCount is returned when an ephemeral display count is
	// neither positive nor UnboundedDisplays.
	ErrInvalidDisplayCount = errors.New("display count must be positive or -1 for unbounded")
	// ErrUnboundedWithoutTTL is returned when an ephemeral entry has neither a
	// finite display count nor a TTL, which would keep it in the pool forever.
	ErrUnboundedWithoutTTL = errors.New("unbounded ephemeral entry requires a TTL")
	// ErrDuplicateMessage is returned when a durable entry with the same
	// scrolling text already exists in the store.
	ErrDuplicateMessage = errors.New("a message with the same scrolling text already exists")
	// ErrNotFound is returned when a durable entry does not exist or is disabled.
	ErrNotFound = errors.New("message not found")
	// ErrStoreUnavailable is returned by operations that need the durable
	// store while the controller runs in ephemeral-only mode.
	ErrStoreUnavailable = errors.New("durable store unavailable")
)

// Entry is the core domain entity: one message the panel can display.
//
// Durable entries live in the store and are mirrored into the scheduler's
// read-only snapshot; ephemeral entries live only in the scheduler's pool and
// disappear permanently once evicted.
type Entry struct {
	Ephemeral bool
	ID        int
	Priority  int

	// ExpiryTime is the point after which the entry is no longer a candidate.
	// The zero value means the entry never expires.
	ExpiryTime time.Time

	// LastDisplayTime is when the entry was last shown. The zero value means
	// it has never been shown, which the scheduler rewards heavily.
	LastDisplayTime time.Time

	// RemainingDisplays applies to ephemeral entries only: the number of
	// showings left before eviction, or UnboundedDisplays for TTL-only entries.
	RemainingDisplays int

	LineNumber int
	TarifZone  int

	StaticIntro      string
	ScrollingMessage string
	NextMessageHint  string

	// DurationSeconds overrides the content-length display duration when
	// positive. Zero means "derive from the scrolling text".
	DurationSeconds int

	// SourceInfo is a free-form provenance tag kept alongside durable rows.
	SourceInfo string

	CreatedAt time.Time
}

// NewDurable constructs a durable entry and enforces the domain rules.
// The ID stays zero until the store assigns one on insert.
func NewDurable(priority, line, zone int, intro, scroll, hint string) (*Entry, error) {
	if err := validateFields(priority, line, zone, &scroll, &intro, &hint); err != nil {
		return nil, err
	}

	return &Entry{
		Ephemeral:        false,
		Priority:         priority,
		LineNumber:       line,
		TarifZone:        zone,
		StaticIntro:      intro,
		ScrollingMessage: scroll,
		NextMessageHint:  hint,
		CreatedAt:        time.Now(),
	}, nil
}

// NewEphemeral constructs an in-memory entry with an optional display budget
// and TTL. displays may be positive or UnboundedDisplays; an unbounded entry
// must carry a TTL so it cannot occupy the pool forever.
func NewEphemeral(priority, line, zone int, intro, scroll, hint string, displays int, ttl time.Duration) (*Entry, error) {
	if err := validateFields(priority, line, zone, &scroll, &intro, &hint); err != nil {
		return nil, err
	}
	if displays <= 0 && displays != UnboundedDisplays {
		return nil, ErrInvalidDisplayCount
	}
	if displays == UnboundedDisplays && ttl <= 0 {
		return nil, ErrUnboundedWithoutTTL
	}

	e := &Entry{
		Ephemeral:         true,
		ID:                EphemeralID,
		Priority:          priority,
		RemainingDisplays: displays,
		LineNumber:        line,
		TarifZone:         zone,
		StaticIntro:       intro,
		ScrollingMessage:  scroll,
		NextMessageHint:   hint,
		CreatedAt:         time.Now(),
	}
	if ttl > 0 {
		e.ExpiryTime = time.Now().Add(ttl)
	}
	return e, nil
}

func validateFields(priority, line, zone int, scroll, intro, hint *string) error {
	*scroll = strings.TrimSpace(*scroll)
	*intro = strings.TrimSpace(*intro)
	*hint = strings.TrimSpace(*hint)

	if *scroll == "" {
		return ErrEmptyScrollingMessage
	}
	if priority < 0 || priority > MaxPriority {
		return ErrPriorityOutOfRange
	}
	if line < 0 || line > MaxLineNumber {
		return ErrLineNumberOutOfRange
	}
	if zone < 0 || zone > MaxTarifZone {
		return ErrTarifZoneOutOfRange
	}
	return nil
}

// Expired reports whether the entry's expiry has passed at the given time.
// Entries with a zero ExpiryTime never expire.
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiryTime.IsZero() && !e.ExpiryTime.After(now)
}

// NeverShown reports whether the entry has not been displayed yet.
func (e *Entry) NeverShown() bool {
	return e.LastDisplayTime.IsZero()
}

// Emergency reports whether the entry preempts normal rotation: an ephemeral,
// never-shown entry at or above the given priority threshold.
func (e *Entry) Emergency(threshold int) bool {
	return e.Ephemeral && e.Priority >= threshold && e.NeverShown()
}

// MarkShown records a completed showing. Ephemeral entries with a finite
// display budget consume one showing.
func (e *Entry) MarkShown(now time.Time) {
	e.LastDisplayTime = now
	if e.Ephemeral && e.RemainingDisplays > 0 {
		e.RemainingDisplays--
	}
}

// Exhausted reports whether an ephemeral entry should leave the pool: its
// display budget is spent or its TTL has passed. Durable entries never exhaust.
func (e *Entry) Exhausted(now time.Time) bool {
	if !e.Ephemeral {
		return false
	}
	return e.RemainingDisplays == 0 || e.Expired(now)
}

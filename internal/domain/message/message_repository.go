package message

import (
	"context"
	"time"
)

// Repository defines the persistence operations for durable display messages.
//
// It is implemented by infrastructure layers (e.g. GORM over SQLite) while the
// domain and service layers depend only on this interface. Durable rows are
// never physically removed by normal operation: Disable flips an enabled flag,
// and only PurgeDisabled/Wipe reclaim space.
type Repository interface {
	// Insert persists a new durable entry and returns the assigned ID.
	Insert(ctx context.Context, e *Entry) (int, error)

	// Update rewrites the mutable fields of an existing enabled entry.
	Update(ctx context.Context, e *Entry) error

	// Disable logically deletes an entry. Disabled rows stay in the store
	// until purged.
	Disable(ctx context.Context, id int) error

	// ListActive returns all enabled, non-expired entries ordered by
	// priority descending, then ID ascending.
	ListActive(ctx context.Context, now time.Time) ([]*Entry, error)

	// ExpireDue disables every enabled entry whose expiry has passed and
	// returns how many rows were affected.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)

	// CountActive returns the number of enabled, non-expired entries.
	CountActive(ctx context.Context, now time.Time) (int64, error)

	// ExistsScrollingMessage reports whether an enabled entry already carries
	// the given scrolling text.
	ExistsScrollingMessage(ctx context.Context, scroll string) (bool, error)

	// DisableAll logically deletes every enabled entry and returns the count.
	DisableAll(ctx context.Context) (int64, error)

	// PurgeDisabled physically removes disabled rows and compacts the store.
	PurgeDisabled(ctx context.Context) (int64, error)

	// Wipe drops and recreates the message table. Destructive.
	Wipe(ctx context.Context) error
}

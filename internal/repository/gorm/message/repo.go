package messagegorm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Thebys/b48-display-controller/internal/db"
	"github.com/Thebys/b48-display-controller/internal/domain/message"
)

// Repository is a GORM-backed implementation of the message.Repository
// interface.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a message repository using the given DB adapter.
func NewRepository(d db.DB) *Repository {
	return &Repository{
		db: d.Conn().(*gorm.DB),
	}
}

// AutoMigrate creates or updates the messages table schema.
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&MessageModel{})
}

// Insert persists a new durable entry and returns the assigned ID.
func (r *Repository) Insert(ctx context.Context, e *message.Entry) (int, error) {
	model := fromDomain(e)
	model.MessageID = 0 // always let SQLite assign the ID
	if model.DatetimeAdded.IsZero() {
		model.DatetimeAdded = time.Now()
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return 0, err
	}
	return model.MessageID, nil
}

// Update rewrites the mutable fields of an existing enabled entry.
func (r *Repository) Update(ctx context.Context, e *message.Entry) error {
	model := fromDomain(e)

	updates := map[string]interface{}{
		"priority":          model.Priority,
		"tarif_zone":        model.TarifZone,
		"line_number":       model.LineNumber,
		"static_intro":      model.StaticIntro,
		"scrolling_message": model.ScrollingMessage,
		"next_message_hint": model.NextMessageHint,
		"expiry_time":       model.ExpiryTime,
		"duration_seconds":  model.DurationSeconds,
		"source_info":       model.SourceInfo,
	}

	res := r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Where("message_id = ? AND is_enabled = ?", e.ID, true).
		Updates(updates)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return message.ErrNotFound
	}
	return nil
}

// Disable logically deletes an entry.
func (r *Repository) Disable(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Where("message_id = ? AND is_enabled = ?", id, true).
		Update("is_enabled", false)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return message.ErrNotFound
	}
	return nil
}

// ListActive returns all enabled, non-expired entries ordered by priority
// descending, then ID ascending.
func (r *Repository) ListActive(ctx context.Context, now time.Time) ([]*message.Entry, error) {
	var models []MessageModel

	err := r.db.WithContext(ctx).
		Where("is_enabled = ? AND (expiry_time IS NULL OR expiry_time > ?)", true, now).
		Order("priority DESC, message_id ASC").
		Find(&models).Error

	if err != nil {
		return nil, err
	}
	return toDomainMany(models), nil
}

// ExpireDue disables every enabled entry whose expiry has passed and
// returns how many rows were affected.
func (r *Repository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Where("is_enabled = ? AND expiry_time IS NOT NULL AND expiry_time <= ?", true, now).
		Update("is_enabled", false)

	return res.RowsAffected, res.Error
}

// CountActive returns the number of enabled, non-expired entries.
func (r *Repository) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Where("is_enabled = ? AND (expiry_time IS NULL OR expiry_time > ?)", true, now).
		Count(&total).Error

	return total, err
}

// ExistsScrollingMessage reports whether an enabled entry already carries
// the given scrolling text.
func (r *Repository) ExistsScrollingMessage(ctx context.Context, scroll string) (bool, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Where("is_enabled = ? AND scrolling_message = ?", true, scroll).
		Count(&total).Error

	return total > 0, err
}

// DisableAll logically deletes every enabled entry and returns the count.
func (r *Repository) DisableAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Where("is_enabled = ?", true).
		Update("is_enabled", false)

	return res.RowsAffected, res.Error
}

// PurgeDisabled physically removes disabled rows and compacts the store.
func (r *Repository) PurgeDisabled(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("is_enabled = ?", false).
		Delete(&MessageModel{})

	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		// Reclaim the space; VACUUM cannot run inside a transaction.
		if err := r.db.WithContext(ctx).Exec("VACUUM").Error; err != nil {
			return res.RowsAffected, err
		}
	}
	return res.RowsAffected, nil
}

// Wipe removes every row, enabled or not, and compacts the store.
func (r *Repository) Wipe(ctx context.Context) error {
	if err := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&MessageModel{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec("VACUUM").Error
}

// compile-time interface check
var _ message.Repository = (*Repository)(nil)

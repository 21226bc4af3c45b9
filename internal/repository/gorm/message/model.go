package messagegorm

import (
	"time"
)

// MessageModel is the GORM persistence model for durable display messages.
// It maps directly to the "messages" table in SQLite. Deletion is logical:
// rows flip is_enabled and stay around until a purge compacts the file.
type MessageModel struct {
	MessageID        int        `gorm:"column:message_id;primaryKey;autoIncrement"`
	Priority         int        `gorm:"not null;index"`
	IsEnabled        bool       `gorm:"not null;default:true;index"`
	TarifZone        int        `gorm:"not null"`
	LineNumber       int        `gorm:"not null"`
	StaticIntro      string     `gorm:"size:64"`
	ScrollingMessage string     `gorm:"size:2048;not null"`
	NextMessageHint  string     `gorm:"size:64"`
	DatetimeAdded    time.Time  `gorm:"not null"`
	ExpiryTime       *time.Time `gorm:"index"`
	DurationSeconds  *int
	SourceInfo       *string `gorm:"size:128"`
}

// TableName overrides the default table name used by GORM.
func (MessageModel) TableName() string {
	return "messages"
}

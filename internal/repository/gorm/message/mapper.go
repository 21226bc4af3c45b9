package messagegorm

import (
	"github.com/Thebys/b48-display-controller/internal/domain/message"
)

// toDomain maps a GORM MessageModel to a domain entry.
func toDomain(m *MessageModel) *message.Entry {
	e := &message.Entry{
		ID:               m.MessageID,
		Priority:         m.Priority,
		LineNumber:       m.LineNumber,
		TarifZone:        m.TarifZone,
		StaticIntro:      m.StaticIntro,
		ScrollingMessage: m.ScrollingMessage,
		NextMessageHint:  m.NextMessageHint,
		CreatedAt:        m.DatetimeAdded,
	}
	if m.ExpiryTime != nil {
		e.ExpiryTime = *m.ExpiryTime
	}
	if m.DurationSeconds != nil {
		e.DurationSeconds = *m.DurationSeconds
	}
	if m.SourceInfo != nil {
		e.SourceInfo = *m.SourceInfo
	}
	return e
}

// toDomainMany maps a slice of MessageModel to a slice of domain entries.
func toDomainMany(models []MessageModel) []*message.Entry {
	out := make([]*message.Entry, len(models))
	for i := range models {
		out[i] = toDomain(&models[i])
	}
	return out
}

// fromDomain maps a domain entry to a GORM MessageModel. Optional fields
// collapse to NULL so the table mirrors what the caller actually set.
func fromDomain(d *message.Entry) *MessageModel {
	m := &MessageModel{
		MessageID:        d.ID,
		Priority:         d.Priority,
		IsEnabled:        true,
		TarifZone:        d.TarifZone,
		LineNumber:       d.LineNumber,
		StaticIntro:      d.StaticIntro,
		ScrollingMessage: d.ScrollingMessage,
		NextMessageHint:  d.NextMessageHint,
		DatetimeAdded:    d.CreatedAt,
	}
	if !d.ExpiryTime.IsZero() {
		t := d.ExpiryTime
		m.ExpiryTime = &t
	}
	if d.DurationSeconds > 0 {
		v := d.DurationSeconds
		m.DurationSeconds = &v
	}
	if d.SourceInfo != "" {
		s := d.SourceInfo
		m.SourceInfo = &s
	}
	return m
}

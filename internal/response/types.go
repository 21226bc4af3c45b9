package response

import (
	"time"

	"github.com/Thebys/b48-display-controller/internal/display"
	domain "github.com/Thebys/b48-display-controller/internal/domain/message"
	"github.com/Thebys/b48-display-controller/internal/service"
)

type WelcomePayload struct {
	Message string `json:"message"`
}

type HealthPayload struct {
	Status string `json:"status"`
	Store  bool   `json:"store"`
	Cache  bool   `json:"cache"`
}

type WelcomeResponse struct {
	Success   bool           `json:"success"`
	Data      WelcomePayload `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type HealthResponse struct {
	Success   bool          `json:"success"`
	Data      HealthPayload `json:"data"`
	Timestamp string        `json:"timestamp"`
}

// ActionPayload is the generic "it worked" body for control endpoints.
type ActionPayload struct {
	Message string `json:"message"`
}

type ActionResponse struct {
	Success   bool          `json:"success"`
	Data      ActionPayload `json:"data"`
	Timestamp string        `json:"timestamp"`
}

// MessageDTO is a public-facing representation of a message used in API
// responses. It decouples the wire format from the domain entity and plays
// nicely with Swagger.
type MessageDTO struct {
	ID               int        `json:"id"`
	Ephemeral        bool       `json:"ephemeral"`
	Priority         int        `json:"priority"`
	LineNumber       int        `json:"lineNumber"`
	TarifZone        int        `json:"tarifZone"`
	StaticIntro      string     `json:"staticIntro"`
	ScrollingMessage string     `json:"scrollingMessage"`
	NextMessageHint  string     `json:"nextMessageHint"`
	DurationSeconds  int        `json:"durationSeconds,omitempty"`
	SourceInfo       string     `json:"sourceInfo,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	LastShownAt      *time.Time `json:"lastShownAt,omitempty"`
}

type MessagesPayload struct {
	Items []MessageDTO `json:"items"`
	Total int          `json:"total"`
}

type MessagesResponse struct {
	Success   bool            `json:"success"`
	Data      MessagesPayload `json:"data"`
	Timestamp string          `json:"timestamp"`
}

type MessageCreatedPayload struct {
	ID int `json:"id"`
}

type MessageCreatedResponse struct {
	Success   bool                  `json:"success"`
	Data      MessageCreatedPayload `json:"data"`
	Timestamp string                `json:"timestamp"`
}

// RowsPayload reports how many rows a bulk store operation touched.
type RowsPayload struct {
	Rows int64 `json:"rows"`
}

type RowsResponse struct {
	Success   bool        `json:"success"`
	Data      RowsPayload `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// DisplayStatusPayload mirrors the display loop's status snapshot.
type DisplayStatusPayload struct {
	Running        bool        `json:"running"`
	Paused         bool        `json:"paused"`
	State          string      `json:"state"`
	Fallback       bool        `json:"fallback"`
	Current        *MessageDTO `json:"current,omitempty"`
	DwellSeconds   float64     `json:"dwellSeconds"`
	StartedAt      *time.Time  `json:"startedAt,omitempty"`
	LastTimeSync   *time.Time  `json:"lastTimeSync,omitempty"`
	ShownTotal     uint64      `json:"shownTotal"`
	EmergencyTotal uint64      `json:"emergencyTotal"`
	RawTotal       uint64      `json:"rawTotal"`
	SendErrors     uint64      `json:"sendErrors"`
}

type DisplayStatusResponse struct {
	Success   bool                 `json:"success"`
	Data      DisplayStatusPayload `json:"data"`
	Timestamp string               `json:"timestamp"`
}

// DiagnosticsPayload combines queue, store and display facts for operators.
type DiagnosticsPayload struct {
	BootID          string               `json:"bootId"`
	StartedAt       time.Time            `json:"startedAt"`
	UptimeSeconds   float64              `json:"uptimeSeconds"`
	StoreAvailable  bool                 `json:"storeAvailable"`
	CacheAvailable  bool                 `json:"cacheAvailable"`
	ActiveMessages  int64                `json:"activeMessages"`
	SnapshotSize    int                  `json:"snapshotSize"`
	EphemeralQueued int                  `json:"ephemeralQueued"`
	DurableQueue    []MessageDTO         `json:"durableQueue"`
	EphemeralQueue  []MessageDTO         `json:"ephemeralQueue"`
	LastShown       string               `json:"lastShown,omitempty"`
	Display         DisplayStatusPayload `json:"display"`
}

type DiagnosticsResponse struct {
	Success   bool               `json:"success"`
	Data      DiagnosticsPayload `json:"data"`
	Timestamp string             `json:"timestamp"`
}

// FromDomainEntry converts a single domain entry into its DTO form.
func FromDomainEntry(e *domain.Entry) MessageDTO {
	dto := MessageDTO{
		ID:               e.ID,
		Ephemeral:        e.Ephemeral,
		Priority:         e.Priority,
		LineNumber:       e.LineNumber,
		TarifZone:        e.TarifZone,
		StaticIntro:      e.StaticIntro,
		ScrollingMessage: e.ScrollingMessage,
		NextMessageHint:  e.NextMessageHint,
		DurationSeconds:  e.DurationSeconds,
		SourceInfo:       e.SourceInfo,
		CreatedAt:        e.CreatedAt,
	}
	if !e.ExpiryTime.IsZero() {
		t := e.ExpiryTime
		dto.ExpiresAt = &t
	}
	if !e.LastDisplayTime.IsZero() {
		t := e.LastDisplayTime
		dto.LastShownAt = &t
	}
	return dto
}

// FromDomainEntries converts domain entries into DTOs for use in HTTP
// responses.
func FromDomainEntries(entries []*domain.Entry) []MessageDTO {
	out := make([]MessageDTO, len(entries))
	for i, e := range entries {
		out[i] = FromDomainEntry(e)
	}
	return out
}

// FromDisplayStatus converts the display loop's status snapshot into its DTO
// form.
func FromDisplayStatus(st display.Status) DisplayStatusPayload {
	p := DisplayStatusPayload{
		Running:        st.Running,
		Paused:         st.Paused,
		State:          st.State.String(),
		Fallback:       st.Fallback,
		DwellSeconds:   st.Dwell.Seconds(),
		ShownTotal:     st.ShownTotal,
		EmergencyTotal: st.EmergencyTotal,
		RawTotal:       st.RawTotal,
		SendErrors:     st.SendErrors,
	}
	if st.Current != nil {
		dto := FromDomainEntry(st.Current)
		p.Current = &dto
	}
	if !st.StartedAt.IsZero() {
		t := st.StartedAt
		p.StartedAt = &t
	}
	if !st.LastTimeSync.IsZero() {
		t := st.LastTimeSync
		p.LastTimeSync = &t
	}
	return p
}

// FromOverview converts the service diagnostics report and a display status
// snapshot into the combined payload.
func FromOverview(o *service.Overview, st display.Status) DiagnosticsPayload {
	return DiagnosticsPayload{
		BootID:          o.BootID,
		StartedAt:       o.StartedAt,
		UptimeSeconds:   time.Since(o.StartedAt).Seconds(),
		StoreAvailable:  o.StoreAvailable,
		CacheAvailable:  o.CacheAvailable,
		ActiveMessages:  o.ActiveMessages,
		SnapshotSize:    len(o.Durable),
		EphemeralQueued: len(o.Ephemeral),
		DurableQueue:    fromEntryValues(o.Durable),
		EphemeralQueue:  fromEntryValues(o.Ephemeral),
		LastShown:       o.LastShown,
		Display:         FromDisplayStatus(st),
	}
}

func fromEntryValues(entries []domain.Entry) []MessageDTO {
	out := make([]MessageDTO, len(entries))
	for i := range entries {
		out[i] = FromDomainEntry(&entries[i])
	}
	return out
}

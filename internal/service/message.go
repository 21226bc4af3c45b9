// Package service implements the application-facing operations on the
// message store and the scheduler pool. Handlers talk to this package
// instead of touching the repository or the scheduler directly.
package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/Thebys/b48-display-controller/internal/cache"
	domain "github.com/Thebys/b48-display-controller/internal/domain/message"
)

// DefaultEphemeralMaxTTL caps how long an injected ephemeral entry may stay
// in the pool, regardless of what the caller asked for.
const DefaultEphemeralMaxTTL = time.Hour

// Pool is the scheduler surface the service drives. Mutations to the durable
// store flag the snapshot as dirty; ephemeral entries bypass the store and go
// straight into the pool.
type Pool interface {
	AddEphemeral(e *domain.Entry)
	MarkCacheDirty()
	Counts() (durable, ephemeral int)
	Snapshot() (durable, ephemeral []domain.Entry)
}

type MessageService interface {
	ListActive(ctx context.Context) ([]*domain.Entry, error)
	Add(ctx context.Context, e *domain.Entry) (int, error)
	Update(ctx context.Context, e *domain.Entry) error
	Disable(ctx context.Context, id int) error
	DisableAll(ctx context.Context) (int64, error)
	InjectEphemeral(ctx context.Context, e *domain.Entry)
	Purge(ctx context.Context) (int64, error)
	Wipe(ctx context.Context) error
	Overview(ctx context.Context) *Overview
	StoreAvailable() bool
}

// Overview is a point-in-time diagnostic summary of the controller's queues
// and backing services.
type Overview struct {
	BootID         string
	StartedAt      time.Time
	StoreAvailable bool
	CacheAvailable bool
	ActiveMessages int64 // -1 when the store is unavailable or the count failed
	LastShown      string // raw JSON written by the display loop, "" when absent

	// Value copies of both scheduler pools, exactly as selection sees them.
	Durable   []domain.Entry
	Ephemeral []domain.Entry
}

type messageService struct {
	repo  domain.Repository
	pool  Pool
	cache cache.Cache

	maxEphemeralTTL time.Duration
	bootID          string
	startedAt       time.Time
}

// NewMessageService creates a message service with the given dependencies.
// repo may be nil when the durable store failed to open; the service then
// degrades to ephemeral-only operation and store mutations fail with
// domain.ErrStoreUnavailable. cache may be nil to skip statistics entirely.
func NewMessageService(
	repo domain.Repository,
	pool Pool,
	cache cache.Cache,
	bootID string,
	maxEphemeralTTL time.Duration,
) MessageService {
	// Apply sane defaults if config values are missing or invalid.
	if maxEphemeralTTL <= 0 {
		maxEphemeralTTL = DefaultEphemeralMaxTTL
	}

	return &messageService{
		repo:            repo,
		pool:            pool,
		cache:           cache,
		maxEphemeralTTL: maxEphemeralTTL,
		bootID:          bootID,
		startedAt:       time.Now(),
	}
}

func (s *messageService) StoreAvailable() bool {
	return s.repo != nil
}

// ListActive returns every enabled, unexpired durable entry, highest
// priority first.
func (s *messageService) ListActive(ctx context.Context) ([]*domain.Entry, error) {
	if s.repo == nil {
		return nil, domain.ErrStoreUnavailable
	}

	entries, err := s.repo.ListActive(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list active messages: %w", err)
	}
	return entries, nil
}

// Add persists a new durable entry and signals the scheduler to refresh its
// snapshot. Entries with a scrolling text that is already active are rejected
// with domain.ErrDuplicateMessage.
func (s *messageService) Add(ctx context.Context, e *domain.Entry) (int, error) {
	if s.repo == nil {
		return 0, domain.ErrStoreUnavailable
	}

	exists, err := s.repo.ExistsScrollingMessage(ctx, e.ScrollingMessage)
	if err != nil {
		return 0, fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		return 0, domain.ErrDuplicateMessage
	}

	id, err := s.repo.Insert(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}
	e.ID = id

	s.pool.MarkCacheDirty()
	s.updateQueueGauge(ctx)

	log.Printf("[Service] Message %d added (priority=%d).", id, e.Priority)
	return id, nil
}

// Update rewrites an existing durable entry in place.
func (s *messageService) Update(ctx context.Context, e *domain.Entry) error {
	if s.repo == nil {
		return domain.ErrStoreUnavailable
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return fmt.Errorf("update message %d: %w", e.ID, err)
	}

	s.pool.MarkCacheDirty()
	log.Printf("[Service] Message %d updated.", e.ID)
	return nil
}

// Disable takes a durable entry out of rotation without deleting its row.
func (s *messageService) Disable(ctx context.Context, id int) error {
	if s.repo == nil {
		return domain.ErrStoreUnavailable
	}

	if err := s.repo.Disable(ctx, id); err != nil {
		return fmt.Errorf("disable message %d: %w", id, err)
	}

	s.pool.MarkCacheDirty()
	s.updateQueueGauge(ctx)

	log.Printf("[Service] Message %d disabled.", id)
	return nil
}

// DisableAll takes every active durable entry out of rotation and reports how
// many rows were affected. The display falls back to the idle clock once the
// scheduler snapshot refreshes.
func (s *messageService) DisableAll(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, domain.ErrStoreUnavailable
	}

	n, err := s.repo.DisableAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("disable all messages: %w", err)
	}

	s.pool.MarkCacheDirty()
	s.updateQueueGauge(ctx)

	log.Printf("[Service] Disabled %d active messages.", n)
	return n, nil
}

// InjectEphemeral clamps the entry's expiry to the configured ceiling and
// hands it to the scheduler pool. Ephemeral entries never touch the store, so
// this works even when the controller runs without one.
func (s *messageService) InjectEphemeral(ctx context.Context, e *domain.Entry) {
	ceiling := time.Now().Add(s.maxEphemeralTTL)
	if e.ExpiryTime.IsZero() || e.ExpiryTime.After(ceiling) {
		e.ExpiryTime = ceiling
	}

	s.pool.AddEphemeral(e)
	s.updateQueueGauge(ctx)

	log.Printf("[Service] Ephemeral message queued (priority=%d, displays=%d).", e.Priority, e.RemainingDisplays)
}

// Purge permanently deletes rows already disabled by expiry or by operator
// action. Active rows are untouched, so the scheduler snapshot stays valid.
func (s *messageService) Purge(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, domain.ErrStoreUnavailable
	}

	n, err := s.repo.PurgeDisabled(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge disabled messages: %w", err)
	}

	log.Printf("[Service] Purged %d disabled messages.", n)
	return n, nil
}

// Wipe deletes every row in the store, enabled or not. The cached
// last-shown record points at a deleted row afterwards, so it goes too.
func (s *messageService) Wipe(ctx context.Context) error {
	if s.repo == nil {
		return domain.ErrStoreUnavailable
	}

	if err := s.repo.Wipe(ctx); err != nil {
		return fmt.Errorf("wipe message store: %w", err)
	}

	s.pool.MarkCacheDirty()
	s.updateQueueGauge(ctx)

	if s.cache != nil {
		if err := s.cache.Del(ctx, cache.LastShown.Key("current")); err != nil {
			log.Printf("[Service] Last-shown cleanup failed: %v", err)
		}
	}

	log.Printf("[Service] Message store wiped.")
	return nil
}

// Overview gathers queue sizes and backing-service health in one pass.
// Failures along the way degrade individual fields instead of failing the
// whole report.
func (s *messageService) Overview(ctx context.Context) *Overview {
	o := &Overview{
		BootID:         s.bootID,
		StartedAt:      s.startedAt,
		StoreAvailable: s.repo != nil,
		ActiveMessages: -1,
	}
	o.Durable, o.Ephemeral = s.pool.Snapshot()

	if s.repo != nil {
		n, err := s.repo.CountActive(ctx, time.Now())
		if err != nil {
			log.Printf("[Service] Active message count failed: %v", err)
		} else {
			o.ActiveMessages = n
		}
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			log.Printf("[Service] Cache ping failed: %v", err)
		} else {
			o.CacheAvailable = true
			if v, err := s.cache.Get(ctx, cache.LastShown.Key("current")); err == nil {
				o.LastShown = v
			}
		}
	}

	return o
}

// updateQueueGauge mirrors the current queue sizes into the statistics cache
// so operators can read them without hitting the store. Best-effort: a dead
// cache only costs a log line.
func (s *messageService) updateQueueGauge(ctx context.Context) {
	if s.cache == nil {
		return
	}

	_, ephemeral := s.pool.Counts()
	if err := s.cache.Set(ctx, cache.QueueSize.Key("ephemeral"), strconv.Itoa(ephemeral), 0); err != nil {
		log.Printf("[Service] Queue gauge update failed (ephemeral): %v", err)
	}

	if s.repo == nil {
		return
	}
	n, err := s.repo.CountActive(ctx, time.Now())
	if err != nil {
		log.Printf("[Service] Queue gauge update failed (count): %v", err)
		return
	}
	if err := s.cache.Set(ctx, cache.QueueSize.Key("durable"), strconv.FormatInt(n, 10), 0); err != nil {
		log.Printf("[Service] Queue gauge update failed (durable): %v", err)
	}
}

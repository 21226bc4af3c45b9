// Package scheduler decides which message the panel shows next.
//
// It owns the in-memory ephemeral pool and a read-only snapshot of the
// durable store, both guarded by a single mutex. Selection is a weighted
// score of priority and recency with a tiered repeat penalty, so a small pool
// of high-priority messages rotates instead of starving everything else.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/Thebys/b48-display-controller/internal/domain/message"
)

// Scoring weights. Priority dominates, a large bonus floats never-shown
// entries to the front, and elapsed time since the last showing adds up to
// recencyBonusCap points of pressure.
const (
	priorityWeight  = 10.0
	neverShownBonus = 1000.0
	recencyBonusCap = 600.0
)

// Repeat penalty tiers. Entries shown within MinRepeatInterval keep competing
// but with their score scaled down by how recent the last showing was:
// the first third of the interval almost disqualifies, the second third
// halves the odds, the rest barely matters.
const (
	strongPenalty  = 0.05
	partialPenalty = 0.4
	mildPenalty    = 0.8
)

// Defaults applied by New when a Config field is missing or invalid.
const (
	DefaultEmergencyThreshold   = 95
	DefaultMinRepeatInterval    = 5 * time.Minute
	DefaultMinDisplayDuration   = 5 * time.Second
	DefaultMaxDisplayDuration   = 20 * time.Second
	DefaultBaseDisplayDuration  = 5 * time.Second
	DefaultScrollCharsPerSecond = 5
)

// Store is the slice of the durable store the scheduler consumes when
// rebuilding its snapshot. A nil Store degrades to ephemeral-only operation.
type Store interface {
	ListActive(ctx context.Context, now time.Time) ([]*message.Entry, error)
}

// Config carries the selection and timing knobs, typically from env config.
type Config struct {
	// EmergencyThreshold is the priority at or above which a never-shown
	// ephemeral entry preempts everything.
	EmergencyThreshold int

	// MinRepeatInterval is the window after a showing during which an entry
	// is penalized, tiered by how recent the showing was.
	MinRepeatInterval time.Duration

	// Display duration bounds and content pacing.
	MinDisplayDuration   time.Duration
	MaxDisplayDuration   time.Duration
	BaseDisplayDuration  time.Duration
	ScrollCharsPerSecond int

	// JitterAmplitude adds up to this many score points of randomness so
	// equal-score rotations do not ossify. Zero disables jitter entirely.
	JitterAmplitude float64
}

// Scheduler owns the message pools and the selection algorithm.
// All methods are safe for concurrent use; the internal mutex is never held
// across store I/O.
type Scheduler struct {
	cfg   Config
	store Store
	rng   *rand.Rand

	mu        sync.Mutex
	ephemeral []*message.Entry // insertion order
	durable   []*message.Entry // store snapshot, priority DESC then ID ASC
	dirty     bool
}

// New creates a scheduler over the given store. rng drives score jitter and
// must be non-nil only when JitterAmplitude is in play; passing a fixed-seed
// source makes selection fully reproducible.
func New(store Store, cfg Config, rng *rand.Rand) *Scheduler {
	if cfg.EmergencyThreshold <= 0 {
		cfg.EmergencyThreshold = DefaultEmergencyThreshold
	}
	if cfg.MinRepeatInterval <= 0 {
		cfg.MinRepeatInterval = DefaultMinRepeatInterval
	}
	if cfg.MinDisplayDuration <= 0 {
		cfg.MinDisplayDuration = DefaultMinDisplayDuration
	}
	if cfg.MaxDisplayDuration < cfg.MinDisplayDuration {
		cfg.MaxDisplayDuration = DefaultMaxDisplayDuration
	}
	if cfg.BaseDisplayDuration <= 0 {
		cfg.BaseDisplayDuration = DefaultBaseDisplayDuration
	}
	if cfg.ScrollCharsPerSecond <= 0 {
		cfg.ScrollCharsPerSecond = DefaultScrollCharsPerSecond
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Scheduler{
		cfg:   cfg,
		store: store,
		rng:   rng,
		// Force an initial snapshot load on the first tick.
		dirty: store != nil,
	}
}

// AddEphemeral appends an entry to the in-memory pool. The caller validates;
// entries inside the scheduler are assumed well-formed.
func (s *Scheduler) AddEphemeral(e *message.Entry) {
	s.mu.Lock()
	s.ephemeral = append(s.ephemeral, e)
	size := len(s.ephemeral)
	s.mu.Unlock()

	log.Printf("[Scheduler] Ephemeral message added (priority=%d, displays=%d, pool=%d)",
		e.Priority, e.RemainingDisplays, size)
}

// MarkCacheDirty schedules a durable snapshot refresh for the next tick.
// Mutation paths call this after their store I/O completes, never during.
func (s *Scheduler) MarkCacheDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// RefreshIfDirty rebuilds the durable snapshot when a mutation has been
// signalled. The store query runs outside the lock; display statistics are
// carried over by ID so a refresh cannot reset fairness state. On error the
// previous snapshot stays in place and the dirty flag is re-armed.
func (s *Scheduler) RefreshIfDirty(ctx context.Context, now time.Time) error {
	s.mu.Lock()
	if !s.dirty || s.store == nil {
		s.mu.Unlock()
		return nil
	}
	s.dirty = false
	s.mu.Unlock()

	entries, err := s.store.ListActive(ctx, now)
	if err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return fmt.Errorf("refresh durable snapshot: %w", err)
	}

	s.mu.Lock()
	lastShown := make(map[int]time.Time, len(s.durable))
	for _, old := range s.durable {
		if !old.LastDisplayTime.IsZero() {
			lastShown[old.ID] = old.LastDisplayTime
		}
	}
	for _, e := range entries {
		if t, ok := lastShown[e.ID]; ok {
			e.LastDisplayTime = t
		}
	}
	s.durable = entries
	s.mu.Unlock()

	log.Printf("[Scheduler] Durable snapshot refreshed (%d messages).", len(entries))
	return nil
}

// PeekEmergency returns the first never-shown ephemeral entry at or above the
// emergency threshold, in insertion order, or nil. It does not mutate state
// and is meant to be called every tick.
func (s *Scheduler) PeekEmergency(now time.Time) *message.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.ephemeral {
		if e.Expired(now) {
			continue
		}
		if e.Emergency(s.cfg.EmergencyThreshold) {
			return e
		}
	}
	return nil
}

// SelectNext picks the entry to display now, or nil when no candidate exists
// (the caller shows a synthetic fallback). Emergencies win outright; everyone
// else competes on score. If every candidate sits inside the repeat window,
// the penalty is ignored and raw priority decides.
func (s *Scheduler) SelectNext(now time.Time) *message.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(now)

	for _, e := range s.ephemeral {
		if e.Emergency(s.cfg.EmergencyThreshold) {
			return e
		}
	}

	var (
		best          *message.Entry
		bestScore     float64
		allPenalized  = true
		haveCandidate bool
	)

	consider := func(e *message.Entry) {
		if e.Expired(now) {
			return
		}
		if e.Ephemeral && e.RemainingDisplays == 0 {
			return
		}

		score, penalized := s.score(e, now)
		if !penalized {
			allPenalized = false
		}

		if !haveCandidate || score > bestScore || (score == bestScore && e.ID < best.ID) {
			best = e
			bestScore = score
			haveCandidate = true
		}
	}

	for _, e := range s.ephemeral {
		consider(e)
	}
	for _, e := range s.durable {
		consider(e)
	}

	if !haveCandidate {
		return nil
	}

	if allPenalized {
		return s.highestPriorityLocked(now)
	}
	return best
}

// highestPriorityLocked is the pathological-case fallback: every candidate
// was shown moments ago, so raw priority picks one instead of starving the
// panel. Lower ID breaks ties.
func (s *Scheduler) highestPriorityLocked(now time.Time) *message.Entry {
	var best *message.Entry

	consider := func(e *message.Entry) {
		if e.Expired(now) || (e.Ephemeral && e.RemainingDisplays == 0) {
			return
		}
		if best == nil || e.Priority > best.Priority ||
			(e.Priority == best.Priority && e.ID < best.ID) {
			best = e
		}
	}

	for _, e := range s.ephemeral {
		consider(e)
	}
	for _, e := range s.durable {
		consider(e)
	}
	return best
}

// score rates one candidate and reports whether the repeat penalty applied.
func (s *Scheduler) score(e *message.Entry, now time.Time) (float64, bool) {
	score := float64(e.Priority) * priorityWeight

	if e.NeverShown() {
		score += neverShownBonus
		return score + s.jitter(), false
	}

	sinceShown := now.Sub(e.LastDisplayTime)

	bonus := sinceShown.Seconds()
	if bonus > recencyBonusCap {
		bonus = recencyBonusCap
	}
	score += bonus

	penalized := sinceShown < s.cfg.MinRepeatInterval
	if penalized {
		third := s.cfg.MinRepeatInterval / 3
		switch {
		case sinceShown < third:
			score *= strongPenalty
		case sinceShown < 2*third:
			score *= partialPenalty
		default:
			score *= mildPenalty
		}
	}

	return score + s.jitter(), penalized
}

func (s *Scheduler) jitter() float64 {
	if s.cfg.JitterAmplitude <= 0 {
		return 0
	}
	return s.rng.Float64() * s.cfg.JitterAmplitude
}

// RecordShown marks an entry as displayed now. Ephemeral entries consume one
// showing and leave the pool once their budget or TTL is spent.
func (s *Scheduler) RecordShown(e *message.Entry, now time.Time) {
	if e == nil {
		return
	}

	s.mu.Lock()
	e.MarkShown(now)
	s.evictLocked(now)
	s.mu.Unlock()
}

// evictLocked drops exhausted and TTL-expired ephemeral entries in place.
func (s *Scheduler) evictLocked(now time.Time) {
	kept := s.ephemeral[:0]
	for _, e := range s.ephemeral {
		if e.Exhausted(now) {
			log.Printf("[Scheduler] Ephemeral message evicted (priority=%d, remaining=%d)",
				e.Priority, e.RemainingDisplays)
			continue
		}
		kept = append(kept, e)
	}
	s.ephemeral = kept
}

// DisplayDuration computes how long an entry stays on the panel: an explicit
// per-message override when present, otherwise a base dwell plus scroll time
// proportional to the text length, clamped to the configured bounds.
func (s *Scheduler) DisplayDuration(e *message.Entry) time.Duration {
	if e == nil {
		return s.cfg.MinDisplayDuration
	}

	var d time.Duration
	if e.DurationSeconds > 0 {
		d = time.Duration(e.DurationSeconds) * time.Second
	} else {
		scroll := time.Duration(len(e.ScrollingMessage)/s.cfg.ScrollCharsPerSecond) * time.Second
		d = s.cfg.BaseDisplayDuration + scroll
	}

	if d < s.cfg.MinDisplayDuration {
		d = s.cfg.MinDisplayDuration
	}
	if d > s.cfg.MaxDisplayDuration {
		d = s.cfg.MaxDisplayDuration
	}
	return d
}

// Counts reports the current pool sizes (durable snapshot, ephemeral pool).
func (s *Scheduler) Counts() (durable, ephemeral int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.durable), len(s.ephemeral)
}

// Snapshot returns value copies of both pools for diagnostics endpoints.
func (s *Scheduler) Snapshot() (durable, ephemeral []message.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	durable = make([]message.Entry, len(s.durable))
	for i, e := range s.durable {
		durable[i] = *e
	}
	ephemeral = make([]message.Entry, len(s.ephemeral))
	for i, e := range s.ephemeral {
		ephemeral[i] = *e
	}
	return durable, ephemeral
}

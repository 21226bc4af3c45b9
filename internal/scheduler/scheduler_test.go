package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thebys/b48-display-controller/internal/domain/message"
)

var testBase = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

// fakeStore is an in-memory Store double that counts queries and can fail on
// demand.
type fakeStore struct {
	mu      sync.Mutex
	entries []*message.Entry
	err     error
	calls   int
}

func (f *fakeStore) ListActive(ctx context.Context, now time.Time) ([]*message.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	// Fresh copies per call, the way the real repository materializes rows.
	out := make([]*message.Entry, 0, len(f.entries))
	for _, e := range f.entries {
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeStore) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// newTestScheduler disables jitter so every assertion is exact.
func newTestScheduler(store Store) *Scheduler {
	return New(store, Config{}, rand.New(rand.NewSource(1)))
}

func durableEntry(t *testing.T, id, priority int, scroll string) *message.Entry {
	t.Helper()

	e, err := message.NewDurable(priority, 48, 101, "Intro", scroll, "Next")
	require.NoError(t, err)
	e.ID = id
	return e
}

// ephemeralEntry anchors any TTL to testBase so assertions do not depend on
// the wall clock.
func ephemeralEntry(t *testing.T, priority, displays int, ttl time.Duration) *message.Entry {
	t.Helper()

	e, err := message.NewEphemeral(priority, 48, 101, "Intro", "Ephemeral text", "Next", displays, ttl)
	require.NoError(t, err)
	if ttl > 0 {
		e.ExpiryTime = testBase.Add(ttl)
	}
	return e
}

func TestSelectNext_NoCandidates(t *testing.T) {
	s := newTestScheduler(nil)

	assert.Nil(t, s.SelectNext(testBase))
}

func TestSelectNext_PriorityMonotone(t *testing.T) {
	store := &fakeStore{}
	for p := 0; p <= message.MaxPriority; p++ {
		store.entries = append(store.entries, durableEntry(t, p+1, p, fmt.Sprintf("Message number %d", p)))
	}

	s := newTestScheduler(store)
	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase))

	got := s.SelectNext(testBase)
	require.NotNil(t, got)
	assert.Equal(t, message.MaxPriority, got.Priority)
}

func TestSelectNext_NeverShownBeatsRecentlyShown(t *testing.T) {
	store := &fakeStore{entries: []*message.Entry{
		durableEntry(t, 1, 90, "High priority regular"),
		durableEntry(t, 2, 10, "Low priority newcomer"),
	}}

	s := newTestScheduler(store)
	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase))

	first := s.SelectNext(testBase)
	require.NotNil(t, first)
	require.Equal(t, 1, first.ID)
	s.RecordShown(first, testBase)

	second := s.SelectNext(testBase.Add(10 * time.Second))
	require.NotNil(t, second)
	assert.Equal(t, 2, second.ID, "a never-shown entry outranks a recent one regardless of priority")
}

func TestSelectNext_TieBreaksOnLowerID(t *testing.T) {
	store := &fakeStore{entries: []*message.Entry{
		durableEntry(t, 7, 50, "First of a pair"),
		durableEntry(t, 3, 50, "Second of a pair"),
	}}

	s := newTestScheduler(store)
	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase))

	got := s.SelectNext(testBase)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.ID)
}

func TestSelectNext_RepeatPenaltyRotatesPool(t *testing.T) {
	store := &fakeStore{entries: []*message.Entry{
		durableEntry(t, 1, 60, "Rotation member one"),
		durableEntry(t, 2, 60, "Rotation member two"),
	}}

	s := newTestScheduler(store)
	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase))

	first := s.SelectNext(testBase)
	require.NotNil(t, first)
	assert.Equal(t, 1, first.ID)
	s.RecordShown(first, testBase)

	second := s.SelectNext(testBase.Add(5 * time.Second))
	require.NotNil(t, second)
	assert.Equal(t, 2, second.ID)
}

func TestSelectNext_AllPenalizedFallsBackToPriority(t *testing.T) {
	// Shown 10s ago: the strong tier scales even a priority-100 entry down to
	// ~50 points. Shown 250s ago: the mild tier keeps ~440 points.
	urgent := durableEntry(t, 1, 100, "Urgent but just shown")
	urgent.LastDisplayTime = testBase.Add(-10 * time.Second)

	filler := durableEntry(t, 2, 30, "Filler from a while ago")
	filler.LastDisplayTime = testBase.Add(-250 * time.Second)

	store := &fakeStore{entries: []*message.Entry{urgent, filler}}
	s := newTestScheduler(store)
	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase))

	got := s.SelectNext(testBase)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.ID, "raw priority decides when every candidate sits inside the repeat window")
}

func TestEmergencyPreemption(t *testing.T) {
	store := &fakeStore{entries: []*message.Entry{
		durableEntry(t, 1, 100, "Top priority regular"),
	}}

	s := newTestScheduler(store)
	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase))

	alert, err := message.NewEphemeral(99, 48, 101, "ALERT", "Evacuate the building now", "Now", 1, 0)
	require.NoError(t, err)
	s.AddEphemeral(alert)

	require.Same(t, alert, s.PeekEmergency(testBase))
	require.Same(t, alert, s.SelectNext(testBase))

	s.RecordShown(alert, testBase)

	// One showing consumed both the budget and the emergency status.
	assert.Nil(t, s.PeekEmergency(testBase))
	next := s.SelectNext(testBase.Add(time.Second))
	require.NotNil(t, next)
	assert.Equal(t, 1, next.ID)
}

func TestPeekEmergency_InsertionOrder(t *testing.T) {
	s := newTestScheduler(nil)

	first := ephemeralEntry(t, 97, 1, 0)
	second := ephemeralEntry(t, 99, 1, 0)
	s.AddEphemeral(first)
	s.AddEphemeral(second)

	assert.Same(t, first, s.PeekEmergency(testBase), "insertion order wins over priority")
}

func TestEphemeralEvictedAfterDisplayBudget(t *testing.T) {
	s := newTestScheduler(nil)

	e := ephemeralEntry(t, 80, 2, 0)
	s.AddEphemeral(e)

	now := testBase
	for i := 0; i < 2; i++ {
		got := s.SelectNext(now)
		require.Same(t, e, got, "showing %d", i+1)
		s.RecordShown(got, now)
		now = now.Add(time.Minute)
	}

	assert.Nil(t, s.SelectNext(now))
	_, ephemeral := s.Counts()
	assert.Zero(t, ephemeral)
}

func TestEphemeralEvictedAfterTTL(t *testing.T) {
	s := newTestScheduler(nil)

	e := ephemeralEntry(t, 80, message.UnboundedDisplays, 2*time.Minute)
	s.AddEphemeral(e)

	require.Same(t, e, s.SelectNext(testBase))
	s.RecordShown(e, testBase)

	// Inside the TTL an unbounded entry keeps repeating.
	require.Same(t, e, s.SelectNext(testBase.Add(time.Minute)))

	// Past the TTL it is gone for good.
	assert.Nil(t, s.SelectNext(testBase.Add(3*time.Minute)))
}

func TestRefreshIfDirty_LoadsOnceUntilMarkedDirty(t *testing.T) {
	store := &fakeStore{entries: []*message.Entry{
		durableEntry(t, 1, 10, "Snapshot member"),
	}}

	s := newTestScheduler(store)
	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase))
	assert.Equal(t, 1, store.callCount())

	// Clean snapshot: no further queries.
	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase))
	assert.Equal(t, 1, store.callCount())

	s.MarkCacheDirty()
	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase))
	assert.Equal(t, 2, store.callCount())
}

func TestRefreshIfDirty_ErrorKeepsSnapshotAndRearms(t *testing.T) {
	store := &fakeStore{entries: []*message.Entry{
		durableEntry(t, 1, 10, "Snapshot member"),
	}}

	s := newTestScheduler(store)
	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase))

	store.setErr(errors.New("database is locked"))
	s.MarkCacheDirty()
	require.Error(t, s.RefreshIfDirty(context.Background(), testBase))

	// The previous snapshot still serves selection.
	got := s.SelectNext(testBase)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.ID)

	// The dirty flag survived the failure, so recovery retries the query.
	store.setErr(nil)
	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase))
	assert.Equal(t, 3, store.callCount())
}

func TestRefreshIfDirty_CarriesDisplayHistory(t *testing.T) {
	store := &fakeStore{entries: []*message.Entry{
		durableEntry(t, 1, 60, "History member one"),
		durableEntry(t, 2, 60, "History member two"),
	}}

	s := newTestScheduler(store)
	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase))

	first := s.SelectNext(testBase)
	require.NotNil(t, first)
	require.Equal(t, 1, first.ID)
	s.RecordShown(first, testBase)

	// A mutation elsewhere triggers a refresh; the store returns fresh rows
	// with no display history on them.
	s.MarkCacheDirty()
	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase.Add(time.Second)))

	got := s.SelectNext(testBase.Add(5 * time.Second))
	require.NotNil(t, got)
	assert.Equal(t, 2, got.ID, "the refreshed snapshot must remember ID 1 was just shown")
}

func TestNilStore_EphemeralOnlyOperation(t *testing.T) {
	s := newTestScheduler(nil)

	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase))
	assert.Nil(t, s.SelectNext(testBase))

	e := ephemeralEntry(t, 50, 1, 0)
	s.AddEphemeral(e)
	assert.Same(t, e, s.SelectNext(testBase))
}

func TestJitterCannotReorderDistinctPriorities(t *testing.T) {
	// Amplitude well below one priority step: jitter may break exact ties but
	// never reorders distinct priorities.
	for seed := int64(0); seed < 10; seed++ {
		s := New(nil, Config{JitterAmplitude: 0.5}, rand.New(rand.NewSource(seed)))
		s.AddEphemeral(ephemeralEntry(t, 40, message.UnboundedDisplays, time.Hour))
		s.AddEphemeral(ephemeralEntry(t, 41, message.UnboundedDisplays, time.Hour))

		got := s.SelectNext(testBase)
		require.NotNil(t, got)
		assert.Equal(t, 41, got.Priority, "seed %d", seed)
	}
}

func TestDisplayDuration(t *testing.T) {
	s := newTestScheduler(nil)

	short := durableEntry(t, 1, 10, "Hi")
	medium := durableEntry(t, 2, 10, strings.Repeat("x", 30))
	long := durableEntry(t, 3, 10, strings.Repeat("x", 200))
	override := durableEntry(t, 4, 10, "Sized by hand")
	override.DurationSeconds = 12
	tiny := durableEntry(t, 5, 10, "Sized by hand")
	tiny.DurationSeconds = 1
	huge := durableEntry(t, 6, 10, "Sized by hand")
	huge.DurationSeconds = 300

	tests := []struct {
		name  string
		entry *message.Entry
		want  time.Duration
	}{
		{"nil entry gets the minimum", nil, 5 * time.Second},
		{"short text stays at the base", short, 5 * time.Second},
		{"medium text adds scroll time", medium, 11 * time.Second},
		{"long text is clamped to the maximum", long, 20 * time.Second},
		{"override inside the bounds wins", override, 12 * time.Second},
		{"override below the minimum is raised", tiny, 5 * time.Second},
		{"override above the maximum is capped", huge, 20 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.DisplayDuration(tt.entry))
		})
	}
}

func TestCountsAndSnapshot(t *testing.T) {
	store := &fakeStore{entries: []*message.Entry{
		durableEntry(t, 1, 10, "Snapshot member"),
	}}

	s := newTestScheduler(store)
	require.NoError(t, s.RefreshIfDirty(context.Background(), testBase))
	s.AddEphemeral(ephemeralEntry(t, 20, 1, 0))

	durable, ephemeral := s.Counts()
	assert.Equal(t, 1, durable)
	assert.Equal(t, 1, ephemeral)

	dur, eph := s.Snapshot()
	require.Len(t, dur, 1)
	require.Len(t, eph, 1)

	// Snapshot hands out copies: mutating them must not touch the pools.
	dur[0].Priority = 99
	got := s.SelectNext(testBase)
	require.NotNil(t, got)
	assert.Equal(t, 20, got.Priority)
}

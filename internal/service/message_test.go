package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/Thebys/b48-display-controller/internal/domain/message"
)

type fakeRepo struct {
	insertID int
	exists   bool
	err      error

	inserted    []*domain.Entry
	updated     []*domain.Entry
	disabled    []int
	disableAlls int
	purges      int
	wipes       int
	active      int64
}

func (r *fakeRepo) Insert(ctx context.Context, e *domain.Entry) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.inserted = append(r.inserted, e)
	return r.insertID, nil
}

func (r *fakeRepo) Update(ctx context.Context, e *domain.Entry) error {
	if r.err != nil {
		return r.err
	}
	r.updated = append(r.updated, e)
	return nil
}

func (r *fakeRepo) Disable(ctx context.Context, id int) error {
	if r.err != nil {
		return r.err
	}
	r.disabled = append(r.disabled, id)
	return nil
}

func (r *fakeRepo) ListActive(ctx context.Context, now time.Time) ([]*domain.Entry, error) {
	return nil, r.err
}

func (r *fakeRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	return 0, r.err
}

func (r *fakeRepo) CountActive(ctx context.Context, now time.Time) (int64, error) {
	return r.active, r.err
}

func (r *fakeRepo) ExistsScrollingMessage(ctx context.Context, scroll string) (bool, error) {
	return r.exists, r.err
}

func (r *fakeRepo) DisableAll(ctx context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.disableAlls++
	return 3, nil
}

func (r *fakeRepo) PurgeDisabled(ctx context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.purges++
	return 2, nil
}

func (r *fakeRepo) Wipe(ctx context.Context) error {
	if r.err != nil {
		return r.err
	}
	r.wipes++
	return nil
}

type fakePool struct {
	ephemeral []*domain.Entry
	durable   []*domain.Entry
	dirty     int
}

func (p *fakePool) AddEphemeral(e *domain.Entry) { p.ephemeral = append(p.ephemeral, e) }
func (p *fakePool) MarkCacheDirty()              { p.dirty++ }
func (p *fakePool) Counts() (durable, eph int)   { return len(p.durable), len(p.ephemeral) }

func (p *fakePool) Snapshot() (durable, ephemeral []domain.Entry) {
	for _, e := range p.durable {
		durable = append(durable, *e)
	}
	for _, e := range p.ephemeral {
		ephemeral = append(ephemeral, *e)
	}
	return durable, ephemeral
}

func durableEntry(t *testing.T, priority int, scroll string) *domain.Entry {
	t.Helper()
	e, err := domain.NewDurable(priority, 48, 101, "Info", scroll, "Next")
	require.NoError(t, err)
	return e
}

func TestAdd_PersistsAndSignalsScheduler(t *testing.T) {
	repo := &fakeRepo{insertID: 7}
	pool := &fakePool{}
	svc := NewMessageService(repo, pool, nil, "boot-1", 0)

	e := durableEntry(t, 40, "Welcome to the hackerspace")
	id, err := svc.Add(context.Background(), e)

	require.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.Equal(t, 7, e.ID)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, 1, pool.dirty, "insert must flag the scheduler snapshot dirty")
}

func TestAdd_RejectsDuplicateScrollingText(t *testing.T) {
	repo := &fakeRepo{exists: true}
	pool := &fakePool{}
	svc := NewMessageService(repo, pool, nil, "boot-1", 0)

	_, err := svc.Add(context.Background(), durableEntry(t, 40, "Already there"))

	require.ErrorIs(t, err, domain.ErrDuplicateMessage)
	assert.Empty(t, repo.inserted)
	assert.Zero(t, pool.dirty)
}

func TestStoreMutations_FailWithoutStore(t *testing.T) {
	pool := &fakePool{}
	svc := NewMessageService(nil, pool, nil, "boot-1", 0)
	ctx := context.Background()

	_, err := svc.Add(ctx, durableEntry(t, 40, "No store"))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	assert.ErrorIs(t, svc.Disable(ctx, 1), domain.ErrStoreUnavailable)
	assert.ErrorIs(t, svc.Wipe(ctx), domain.ErrStoreUnavailable)

	_, err = svc.ListActive(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	assert.False(t, svc.StoreAvailable())
}

func TestInjectEphemeral_WorksWithoutStore(t *testing.T) {
	pool := &fakePool{}
	svc := NewMessageService(nil, pool, nil, "boot-1", 0)

	e, err := domain.NewEphemeral(90, 48, 0, "Alert", "Pizza is here", "Eat", 2, 0)
	require.NoError(t, err)

	svc.InjectEphemeral(context.Background(), e)

	require.Len(t, pool.ephemeral, 1)
}

func TestInjectEphemeral_ClampsExpiryToCeiling(t *testing.T) {
	pool := &fakePool{}
	svc := NewMessageService(&fakeRepo{}, pool, nil, "boot-1", 30*time.Minute)
	ctx := context.Background()

	// No TTL at all: the ceiling applies.
	noTTL, err := domain.NewEphemeral(50, 48, 0, "", "No expiry requested", "", 3, 0)
	require.NoError(t, err)
	svc.InjectEphemeral(ctx, noTTL)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), noTTL.ExpiryTime, 2*time.Second)

	// TTL beyond the ceiling: clamped down.
	long, err := domain.NewEphemeral(50, 48, 0, "", "Too long", "", 3, 12*time.Hour)
	require.NoError(t, err)
	svc.InjectEphemeral(ctx, long)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), long.ExpiryTime, 2*time.Second)

	// TTL under the ceiling: untouched.
	short, err := domain.NewEphemeral(50, 48, 0, "", "Short and sweet", "", 3, time.Minute)
	require.NoError(t, err)
	before := short.ExpiryTime
	svc.InjectEphemeral(ctx, short)
	assert.Equal(t, before, short.ExpiryTime)
}

func TestDisable_SignalsScheduler(t *testing.T) {
	repo := &fakeRepo{}
	pool := &fakePool{}
	svc := NewMessageService(repo, pool, nil, "boot-1", 0)

	require.NoError(t, svc.Disable(context.Background(), 12))

	assert.Equal(t, []int{12}, repo.disabled)
	assert.Equal(t, 1, pool.dirty)
}

func TestDisableAll_ReportsRowsAndSignals(t *testing.T) {
	repo := &fakeRepo{}
	pool := &fakePool{}
	svc := NewMessageService(repo, pool, nil, "boot-1", 0)

	n, err := svc.DisableAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, 1, repo.disableAlls)
	assert.Equal(t, 1, pool.dirty)
}

func TestPurge_DoesNotSignalScheduler(t *testing.T) {
	repo := &fakeRepo{}
	pool := &fakePool{}
	svc := NewMessageService(repo, pool, nil, "boot-1", 0)

	n, err := svc.Purge(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Zero(t, pool.dirty, "purged rows were already invisible to the scheduler")
}

func TestUpdate_WrapsRepositoryError(t *testing.T) {
	repo := &fakeRepo{err: domain.ErrNotFound}
	svc := NewMessageService(repo, &fakePool{}, nil, "boot-1", 0)

	e := durableEntry(t, 40, "Ghost")
	e.ID = 99
	err := svc.Update(context.Background(), e)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestOverview_DegradedStore(t *testing.T) {
	pool := &fakePool{}
	for i := 0; i < 4; i++ {
		pool.durable = append(pool.durable, durableEntry(t, 10+i, "Durable "+strconv.Itoa(i)))
	}
	e, err := domain.NewEphemeral(50, 48, 0, "", "Pool only", "", 1, 0)
	require.NoError(t, err)
	pool.AddEphemeral(e)

	svc := NewMessageService(nil, pool, nil, "boot-42", 0)
	o := svc.Overview(context.Background())

	assert.Equal(t, "boot-42", o.BootID)
	assert.False(t, o.StoreAvailable)
	assert.False(t, o.CacheAvailable)
	assert.Equal(t, int64(-1), o.ActiveMessages)
	assert.Len(t, o.Durable, 4)
	require.Len(t, o.Ephemeral, 1)
	assert.Equal(t, "Pool only", o.Ephemeral[0].ScrollingMessage)
}

func TestOverview_CountsFromStore(t *testing.T) {
	repo := &fakeRepo{active: 9}
	svc := NewMessageService(repo, &fakePool{}, nil, "boot-1", 0)

	o := svc.Overview(context.Background())

	assert.True(t, o.StoreAvailable)
	assert.Equal(t, int64(9), o.ActiveMessages)
}

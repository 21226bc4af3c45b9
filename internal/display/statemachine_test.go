package display

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thebys/b48-display-controller/internal/charset"
	"github.com/Thebys/b48-display-controller/internal/domain/message"
	"github.com/Thebys/b48-display-controller/internal/notify"
	"github.com/Thebys/b48-display-controller/internal/protocol"
	"github.com/Thebys/b48-display-controller/internal/scheduler"
)

// fakeTransport records every frame and mirrors payloads onto a channel so
// tests can wait for specific traffic.
type fakeTransport struct {
	mu       sync.Mutex
	payloads []string

	sent chan string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{sent: make(chan string, 1024)}
}

func (f *fakeTransport) WriteFrame(frame []byte) error {
	// Strip CR and checksum; these tests reason about payloads.
	payload := string(frame[:len(frame)-2])

	f.mu.Lock()
	f.payloads = append(f.payloads, payload)
	f.mu.Unlock()

	select {
	case f.sent <- payload:
	default:
	}
	return nil
}

func (f *fakeTransport) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.payloads...)
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

// fakeNotifier funnels events into a channel.
type fakeNotifier struct{ events chan notify.Event }

func (f *fakeNotifier) Notify(_ context.Context, ev notify.Event) error {
	select {
	case f.events <- ev:
	default:
	}
	return nil
}

// waitForPayload drains sent frames until one with the given prefix arrives.
func waitForPayload(t *testing.T, tr *fakeTransport, prefix string) string {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case p := <-tr.sent:
			if strings.HasPrefix(p, prefix) {
				return p
			}
		case <-deadline:
			t.Fatalf("no payload with prefix %q arrived", prefix)
			return ""
		}
	}
}

func testSchedulerConfig() scheduler.Config {
	return scheduler.Config{
		MinRepeatInterval:    40 * time.Millisecond,
		MinDisplayDuration:   20 * time.Millisecond,
		MaxDisplayDuration:   60 * time.Millisecond,
		BaseDisplayDuration:  20 * time.Millisecond,
		ScrollCharsPerSecond: 1000,
	}
}

type testRig struct {
	machine StateMachine
	sched   *scheduler.Scheduler
	tr      *fakeTransport
	events  chan notify.Event
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()

	tr := newFakeTransport()
	enc := protocol.NewEncoder(charset.NewEncoder(), tr)
	sched := scheduler.New(nil, testSchedulerConfig(), rand.New(rand.NewSource(1)))
	events := make(chan notify.Event, 16)

	m := NewStateMachine(sched, enc, nil, &fakeNotifier{events: events}, Config{
		TickInterval:       5 * time.Millisecond,
		TransitionDuration: 10 * time.Millisecond,
		TimeSyncInterval:   time.Hour,
		IdleText:           "--.-",
	})
	t.Cleanup(func() { _ = m.Stop() })

	return &testRig{machine: m, sched: sched, tr: tr, events: events}
}

func TestStart_SendsBootSequence(t *testing.T) {
	rig := newTestRig(t)

	require.NoError(t, rig.machine.Start())

	got := rig.tr.all()
	require.GreaterOrEqual(t, len(got), 7)
	assert.Equal(t, "l048", got[0])
	assert.Equal(t, "e101000", got[1])
	assert.Equal(t, "zI Loading", got[2])
	assert.Equal(t, "zM System initialization in progress...", got[3])
	assert.Equal(t, "v Please wait", got[4])
	assert.Equal(t, "xC0", got[5])
	assert.True(t, strings.HasPrefix(got[6], "u"), "boot ends with a time sync, got %q", got[6])
}

func TestStatus_BeforeStart(t *testing.T) {
	rig := newTestRig(t)

	st, err := rig.machine.Status()
	require.NoError(t, err)
	assert.False(t, st.Running)
	assert.Nil(t, st.Current)
}

func TestIdleFallback_WhenNoCandidates(t *testing.T) {
	rig := newTestRig(t)
	require.NoError(t, rig.machine.Start())

	// Boot dwell passes, a transition runs, then the idle entry goes out.
	payload := waitForPayload(t, rig.tr, "zM --.-")
	assert.Equal(t, "zM --.-", payload)

	st, err := rig.machine.Status()
	require.NoError(t, err)
	assert.True(t, st.Fallback)
	assert.Zero(t, st.ShownTotal, "the synthetic idle entry is never recorded as a showing")
}

func TestEphemeralRotation_ShowsAndEvicts(t *testing.T) {
	rig := newTestRig(t)
	require.NoError(t, rig.machine.Start())

	e, err := message.NewEphemeral(50, 7, 0, "Visit", "Open day at the hackerspace", "Soon", 2, 0)
	require.NoError(t, err)
	rig.sched.AddEphemeral(e)

	waitForPayload(t, rig.tr, "zM Open day")
	waitForPayload(t, rig.tr, "zM Open day")

	// Budget spent: the pool drains and idle content returns.
	waitForPayload(t, rig.tr, "zM --.-")

	st, err := rig.machine.Status()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, st.ShownTotal, uint64(2))
}

func TestEmergencyPreemptsImmediately(t *testing.T) {
	rig := newTestRig(t)
	require.NoError(t, rig.machine.Start())

	alert, err := message.NewEphemeral(99, 48, 101, "ALERT", "Evacuate the building now", "Now", 1, 0)
	require.NoError(t, err)
	rig.sched.AddEphemeral(alert)

	waitForPayload(t, rig.tr, "zM Evacuate the building now")

	select {
	case ev := <-rig.events:
		assert.Equal(t, notify.EventEmergencyShown, ev.Name)
		assert.Equal(t, 99, ev.Priority)
	case <-time.After(2 * time.Second):
		t.Fatal("no emergency event delivered")
	}

	st, err := rig.machine.Status()
	require.NoError(t, err)
	assert.EqualValues(t, 1, st.EmergencyTotal)
}

func TestEmergency_CutsShortRunningDwell(t *testing.T) {
	tr := newFakeTransport()
	enc := protocol.NewEncoder(charset.NewEncoder(), tr)

	// A durable entry pinned on screen for a full second.
	e, err := message.NewDurable(50, 48, 101, "Info", "Routine maintenance tonight", "")
	require.NoError(t, err)
	e.ID = 1
	e.DurationSeconds = 1

	cfg := testSchedulerConfig()
	cfg.MaxDisplayDuration = 2 * time.Second
	sched := scheduler.New(&stubStore{entries: []*message.Entry{e}},
		cfg, rand.New(rand.NewSource(1)))

	m := NewStateMachine(sched, enc, nil, nil, Config{
		TickInterval:       5 * time.Millisecond,
		TransitionDuration: 10 * time.Millisecond,
		TimeSyncInterval:   time.Hour,
	})
	t.Cleanup(func() { _ = m.Stop() })

	require.NoError(t, m.Start())
	waitForPayload(t, tr, "zM Routine maintenance tonight")
	shownAt := time.Now()

	// Priority exactly at the threshold still counts as an emergency.
	alert, err := message.NewEphemeral(95, 48, 101, "ALERT", "Gas leak, leave now", "Now", 1, 0)
	require.NoError(t, err)
	sched.AddEphemeral(alert)

	waitForPayload(t, tr, "zM Gas leak, leave now")
	assert.Less(t, time.Since(shownAt), 500*time.Millisecond,
		"emergency must interrupt the running dwell, not wait it out")
}

func TestPauseFreezesRotation(t *testing.T) {
	rig := newTestRig(t)
	require.NoError(t, rig.machine.Start())
	waitForPayload(t, rig.tr, "zM --.-")

	require.NoError(t, rig.machine.Pause())
	frozen := rig.tr.count()

	time.Sleep(60 * time.Millisecond) // a dozen ticks
	assert.Equal(t, frozen, rig.tr.count(), "no frames while paused")

	st, err := rig.machine.Status()
	require.NoError(t, err)
	assert.True(t, st.Paused)

	require.NoError(t, rig.machine.Resume())
	waitForPayload(t, rig.tr, "xC6") // resume re-enters the transition phase
}

func TestEnqueueRaw_TransmitsEvenWhilePaused(t *testing.T) {
	rig := newTestRig(t)
	require.NoError(t, rig.machine.Start())
	require.NoError(t, rig.machine.Pause())

	require.NoError(t, rig.machine.EnqueueRaw([]byte("i")))

	got := waitForPayload(t, rig.tr, "i")
	assert.Equal(t, "i", got)

	st, err := rig.machine.Status()
	require.NoError(t, err)
	assert.EqualValues(t, 1, st.RawTotal)
}

func TestInvert_SendsWhilePaused(t *testing.T) {
	rig := newTestRig(t)
	require.NoError(t, rig.machine.Start())
	require.NoError(t, rig.machine.Pause())

	require.NoError(t, rig.machine.Invert())

	got := waitForPayload(t, rig.tr, "i")
	assert.Equal(t, "i", got)
}

// stubStore feeds the scheduler a fixed durable snapshot.
type stubStore struct {
	entries []*message.Entry
}

func (s *stubStore) ListActive(context.Context, time.Time) ([]*message.Entry, error) {
	out := make([]*message.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

func TestDurableMessage_FlowsFromStoreToWire(t *testing.T) {
	tr := newFakeTransport()
	enc := protocol.NewEncoder(charset.NewEncoder(), tr)

	e, err := message.NewDurable(70, 48, 101, "Brno", "Vitejte na Base48", "Dalsi")
	require.NoError(t, err)
	e.ID = 1

	sched := scheduler.New(&stubStore{entries: []*message.Entry{e}},
		testSchedulerConfig(), rand.New(rand.NewSource(1)))

	m := NewStateMachine(sched, enc, nil, nil, Config{
		TickInterval:       5 * time.Millisecond,
		TransitionDuration: 10 * time.Millisecond,
		TimeSyncInterval:   time.Hour,
	})
	t.Cleanup(func() { _ = m.Stop() })

	require.NoError(t, m.Start())

	waitForPayload(t, tr, "zM Vitejte na Base48")

	st, err := m.Status()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, st.ShownTotal, uint64(1))
}

// Package display drives the panel through the two-phase BUSE display cycle.
//
// A single run goroutine owns the state machine, every mutable flag and the
// only path to the transport; Start, Stop, Pause, Resume and Status talk to
// it over a control channel. Nothing outside the loop ever writes a frame,
// which keeps the wire single-writer without locks.
package display

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/Thebys/b48-display-controller/internal/cache"
	"github.com/Thebys/b48-display-controller/internal/domain/message"
	"github.com/Thebys/b48-display-controller/internal/notify"
	"github.com/Thebys/b48-display-controller/internal/protocol"
)

// State identifies the phase of the hardware display cycle.
type State int

const (
	// StateTransition shows the next-stop hint (hardware cycle 6).
	StateTransition State = iota
	// StateDisplay shows the main message content (hardware cycle 0).
	StateDisplay
)

func (s State) String() string {
	switch s {
	case StateTransition:
		return "transition"
	case StateDisplay:
		return "display"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Defaults used when a Config field is missing or invalid.
const (
	DefaultTickInterval       = 250 * time.Millisecond
	DefaultTransitionDuration = 4 * time.Second
	DefaultTimeSyncInterval   = 10 * time.Second
	DefaultIdleText           = "--.-"
)

// Fixed content facts for the synthetic frames.
const (
	fallbackLine = 48
	fallbackZone = 0
	bootZone     = 101
)

// controlTimeout is how long control calls wait for the run loop to accept
// a command and acknowledge it. This protects callers from hanging forever
// if the loop is wedged.
const controlTimeout = 2 * time.Second

// rawQueueSize bounds the number of raw frames waiting for the run loop.
const rawQueueSize = 16

// Per-call bounds for the blocking work a tick may trigger. The tick itself
// must finish in bounded time.
const (
	storeTimeout  = 2 * time.Second
	statsTimeout  = 500 * time.Millisecond
	notifyTimeout = 10 * time.Second
)

// Selector is the scheduling dependency: it decides what the panel shows
// next and for how long.
type Selector interface {
	RefreshIfDirty(ctx context.Context, now time.Time) error
	PeekEmergency(now time.Time) *message.Entry
	SelectNext(now time.Time) *message.Entry
	RecordShown(e *message.Entry, now time.Time)
	DisplayDuration(e *message.Entry) time.Duration
}

// Panel is the wire-facing dependency that turns message fields into frames.
type Panel interface {
	SendMessageFields(e *message.Entry) error
	SendNextMessageHint(text string) error
	SwitchToCycle(cycle int) error
	SendTimeNow(now time.Time) error
	SendInvert() error
	SendRaw(payload []byte) error
}

// StateMachine exposes the control surface of the display driver.
// Start and Stop are process-lifecycle controls; Pause, Resume and Invert
// are the remote-control operations; EnqueueRaw hands a prebuilt frame
// payload to the loop for transmission.
type StateMachine interface {
	Start() error
	Stop() error
	Pause() error
	Resume() error
	Invert() error
	Status() (Status, error)
	EnqueueRaw(payload []byte) error
}

// Config carries the loop timing knobs.
type Config struct {
	TickInterval       time.Duration
	TransitionDuration time.Duration
	TimeSyncInterval   time.Duration

	// IdleText is the scrolling text of the synthetic fallback entry shown
	// when no message is available.
	IdleText string
}

// Status is a point-in-time snapshot of the loop, served by the control API.
type Status struct {
	Running bool
	Paused  bool
	State   State

	// Current is a copy of what the panel is showing, nil before the first
	// frames go out. Fallback marks the synthetic idle/boot content.
	Current  *message.Entry
	Fallback bool
	Dwell    time.Duration

	StartedAt    time.Time
	LastTimeSync time.Time

	ShownTotal     uint64
	EmergencyTotal uint64
	RawTotal       uint64
	SendErrors     uint64
}

// controlOp represents the kind of command sent into the internal control loop.
type controlOp int

const (
	opStart controlOp = iota
	opStop
	opPause
	opResume
	opInvert
	opStatus
)

// controlMsg is sent over the ctrl channel to drive the machine's state.
// resp acknowledges state changes; status carries snapshots back.
type controlMsg struct {
	op     controlOp
	resp   chan bool
	status chan Status
}

// loopState is every mutable variable of the machine. It lives on run's
// stack and is never shared.
type loopState struct {
	running bool
	paused  bool

	state        State
	stateEntered time.Time

	current      *message.Entry
	currentDwell time.Duration
	fallback     bool

	startedAt    time.Time
	lastTimeSync time.Time

	shownTotal     uint64
	emergencyTotal uint64
	rawTotal       uint64
	sendErrors     uint64
}

// stateMachine owns the channels; all mutable state lives in the run
// goroutine, so no locks are needed.
type stateMachine struct {
	sel   Selector
	panel Panel
	stats cache.Cache     // optional, nil skips statistics
	noti  notify.Notifier // optional, nil skips events

	cfg  Config
	ctrl chan controlMsg
	raw  chan []byte
}

// NewStateMachine creates the display driver and starts its control loop.
// The loop idles until Start is called. If any Config field is missing,
// sane defaults are used instead.
func NewStateMachine(sel Selector, panel Panel, stats cache.Cache, notifier notify.Notifier, cfg Config) StateMachine {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.TransitionDuration <= 0 {
		cfg.TransitionDuration = DefaultTransitionDuration
	}
	if cfg.TimeSyncInterval <= 0 {
		cfg.TimeSyncInterval = DefaultTimeSyncInterval
	}
	if cfg.IdleText == "" {
		cfg.IdleText = DefaultIdleText
	}

	m := &stateMachine{
		sel:   sel,
		panel: panel,
		stats: stats,
		noti:  notifier,
		cfg:   cfg,
		ctrl:  make(chan controlMsg),
		raw:   make(chan []byte, rawQueueSize),
	}

	// The control loop is started in its own goroutine and lives
	// for the lifetime of the process.
	go m.run()

	return m
}

// control sends one command into the run loop and waits for the ack,
// bounded on both the send and the acknowledgement.
func (m *stateMachine) control(op controlOp, name string) error {
	resp := make(chan bool)
	msg := controlMsg{op: op, resp: resp}

	select {
	case m.ctrl <- msg:
		// sent ok
	case <-time.After(controlTimeout):
		return fmt.Errorf("[Display] %s: control loop not responding", name)
	}

	select {
	case <-resp:
		return nil
	case <-time.After(controlTimeout):
		return fmt.Errorf("[Display] %s: acknowledgement timeout", name)
	}
}

// Start puts the boot loading screen on the panel and begins driving the
// display cycle. It blocks until the loop has acknowledged the state change.
func (m *stateMachine) Start() error {
	return m.control(opStart, "Start")
}

// Stop halts the display cycle. The panel keeps whatever was last sent;
// there is no way to blank it remotely.
func (m *stateMachine) Stop() error {
	return m.control(opStop, "Stop")
}

// Pause freezes the rotation without stopping the loop: ticks are ignored,
// the panel keeps the last content, and raw frames still go through. Useful
// as a maintenance mode together with EnqueueRaw.
func (m *stateMachine) Pause() error {
	return m.control(opPause, "Pause")
}

// Resume re-enters the transition phase with fresh timers.
func (m *stateMachine) Resume() error {
	return m.control(opResume, "Resume")
}

// Invert toggles the panel's inverted rendering. Like raw frames it works
// even while paused, which is where it is useful: checking for dead pixels
// without the rotation overwriting the screen.
func (m *stateMachine) Invert() error {
	return m.control(opInvert, "Invert")
}

// Status reports a snapshot of the loop state.
func (m *stateMachine) Status() (Status, error) {
	st := make(chan Status)
	msg := controlMsg{op: opStatus, status: st}

	select {
	case m.ctrl <- msg:
	case <-time.After(controlTimeout):
		return Status{}, fmt.Errorf("[Display] Status: control loop not responding")
	}

	select {
	case s := <-st:
		return s, nil
	case <-time.After(controlTimeout):
		return Status{}, fmt.Errorf("[Display] Status: acknowledgement timeout")
	}
}

// EnqueueRaw queues one prebuilt payload for transmission by the run loop,
// preserving the single-writer invariant. It never blocks: a full queue is
// reported as an error instead.
func (m *stateMachine) EnqueueRaw(payload []byte) error {
	// Copy: the caller may reuse the slice after we return.
	p := make([]byte, len(payload))
	copy(p, payload)

	select {
	case m.raw <- p:
		return nil
	default:
		return fmt.Errorf("[Display] EnqueueRaw: queue full (%d pending)", rawQueueSize)
	}
}

// run is the heart of the driver. It owns all mutable state and reacts to
// control messages, queued raw frames and timer ticks.
func (m *stateMachine) run() {
	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()

	st := &loopState{state: StateTransition}

	for {
		select {
		case msg := <-m.ctrl:
			m.handleControl(st, msg)

		case payload := <-m.raw:
			// Raw frames flow even while paused; only the run loop
			// ever touches the transport.
			if err := m.panel.SendRaw(payload); err != nil {
				st.sendErrors++
				log.Printf("[Display] Raw frame failed: %v", err)
			} else {
				st.rawTotal++
			}

		case <-ticker.C:
			if !st.running || st.paused {
				continue
			}
			m.tick(st, time.Now())
		}
	}
}

func (m *stateMachine) handleControl(st *loopState, msg controlMsg) {
	switch msg.op {
	case opStart:
		if !st.running {
			now := time.Now()
			st.running = true
			st.paused = false
			st.startedAt = now
			m.boot(st, now)
			log.Printf("[Display] Started (tick=%s, transition=%s)",
				m.cfg.TickInterval, m.cfg.TransitionDuration)
		}
		msg.resp <- true

	case opStop:
		if st.running {
			st.running = false
			log.Println("[Display] Stopped.")
		}
		msg.resp <- true

	case opPause:
		if st.running && !st.paused {
			st.paused = true
			log.Println("[Display] Paused; panel keeps the last content.")
			m.notifyAsync(notify.Event{Name: notify.EventDisplayPaused, Timestamp: time.Now()})
		}
		msg.resp <- true

	case opResume:
		if st.running && st.paused {
			st.paused = false
			m.enterTransition(st, time.Now())
			log.Println("[Display] Resumed.")
			m.notifyAsync(notify.Event{Name: notify.EventDisplayResumed, Timestamp: time.Now()})
		}
		msg.resp <- true

	case opInvert:
		if err := m.panel.SendInvert(); err != nil {
			st.sendErrors++
			log.Printf("[Display] Invert failed: %v", err)
		}
		msg.resp <- true

	case opStatus:
		msg.status <- statusOf(st)
	}
}

// tick advances the machine once. Every blocking call in here carries its
// own short timeout so a tick always completes in bounded time.
func (m *stateMachine) tick(st *loopState, now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	if err := m.sel.RefreshIfDirty(ctx, now); err != nil {
		log.Printf("[Display] Snapshot refresh failed: %v", err)
	}
	cancel()

	// Emergency preemption outranks every dwell timer, in both states.
	if em := m.sel.PeekEmergency(now); em != nil {
		log.Printf("[Display] Emergency message preempts rotation (priority=%d).", em.Priority)
		m.showEntry(st, em, now)
		st.emergencyTotal++
		m.notifyAsync(notify.Event{
			Name:      notify.EventEmergencyShown,
			MessageID: em.ID,
			Priority:  em.Priority,
			Detail:    em.ScrollingMessage,
			Timestamp: now,
		})
		return
	}

	switch st.state {
	case StateTransition:
		if now.Sub(st.stateEntered) >= m.cfg.TransitionDuration {
			m.enterDisplay(st, now)
		}
	case StateDisplay:
		if now.Sub(st.stateEntered) >= st.currentDwell {
			m.enterTransition(st, now)
		}
	}

	// Time sync normally rides on a Transition entry; when long Display
	// dwells or a chain of emergencies starve transitions, fire it alone.
	if now.Sub(st.lastTimeSync) >= 2*m.cfg.TimeSyncInterval {
		m.syncTime(st, now)
	}
}

// boot puts a loading screen on the panel so it never sits on stale content
// while the store and scheduler warm up.
func (m *stateMachine) boot(st *loopState, now time.Time) {
	loading := &message.Entry{
		LineNumber:       fallbackLine,
		TarifZone:        bootZone,
		StaticIntro:      "Loading",
		ScrollingMessage: "System initialization in progress...",
		NextMessageHint:  "Please wait",
	}

	if err := m.panel.SendMessageFields(loading); err != nil {
		st.sendErrors++
		log.Printf("[Display] Boot frames failed: %v", err)
	}
	if err := m.panel.SwitchToCycle(protocol.CycleContent); err != nil {
		st.sendErrors++
		log.Printf("[Display] Cycle switch failed: %v", err)
	}
	m.syncTime(st, now)

	st.state = StateDisplay
	st.stateEntered = now
	st.current = loading
	st.currentDwell = m.sel.DisplayDuration(nil)
	st.fallback = true
}

// enterDisplay asks the scheduler for the next message and puts it on the
// panel. With no candidate the synthetic idle entry goes out instead,
// unrecorded, so it never competes for scheduling state.
func (m *stateMachine) enterDisplay(st *loopState, now time.Time) {
	next := m.sel.SelectNext(now)
	if next == nil {
		idle := m.idleEntry(now)
		if err := m.panel.SendMessageFields(idle); err != nil {
			st.sendErrors++
			log.Printf("[Display] Idle send failed: %v", err)
		}
		if err := m.panel.SwitchToCycle(protocol.CycleContent); err != nil {
			st.sendErrors++
			log.Printf("[Display] Cycle switch failed: %v", err)
		}
		st.state = StateDisplay
		st.stateEntered = now
		st.current = idle
		st.currentDwell = m.sel.DisplayDuration(nil)
		st.fallback = true
		return
	}

	m.showEntry(st, next, now)
}

// enterTransition sends the outgoing entry's hint, opportunistically syncs
// the panel clock and switches to the transition cycle.
func (m *stateMachine) enterTransition(st *loopState, now time.Time) {
	if st.current != nil {
		if err := m.panel.SendNextMessageHint(st.current.NextMessageHint); err != nil {
			st.sendErrors++
			log.Printf("[Display] Hint send failed: %v", err)
		}
	}

	if now.Sub(st.lastTimeSync) >= m.cfg.TimeSyncInterval {
		m.syncTime(st, now)
	}

	if err := m.panel.SwitchToCycle(protocol.CycleTransition); err != nil {
		st.sendErrors++
		log.Printf("[Display] Cycle switch failed: %v", err)
	}

	st.state = StateTransition
	st.stateEntered = now
}

// showEntry transmits all fields of an entry, switches the panel to the
// content cycle and records the showing. Transport errors are logged and the
// tick continues: the link has no feedback channel, so there is no retry.
func (m *stateMachine) showEntry(st *loopState, e *message.Entry, now time.Time) {
	if err := m.panel.SendMessageFields(e); err != nil {
		st.sendErrors++
		log.Printf("[Display] Message send failed: %v", err)
	}
	if err := m.panel.SwitchToCycle(protocol.CycleContent); err != nil {
		st.sendErrors++
		log.Printf("[Display] Cycle switch failed: %v", err)
	}

	m.sel.RecordShown(e, now)

	shown := *e
	st.state = StateDisplay
	st.stateEntered = now
	st.current = &shown
	st.currentDwell = m.sel.DisplayDuration(e)
	st.fallback = false
	st.shownTotal++

	m.recordStats(&shown, now)
}

// syncTime pushes the wall clock to the panel. On failure the timestamp is
// left untouched so the next opportunity retries.
func (m *stateMachine) syncTime(st *loopState, now time.Time) {
	if err := m.panel.SendTimeNow(now); err != nil {
		st.sendErrors++
		log.Printf("[Display] Time sync failed: %v", err)
		return
	}
	st.lastTimeSync = now
}

// idleEntry is the synthetic fallback: a live clock and the configured idle
// text. Never persisted, never recorded as shown.
func (m *stateMachine) idleEntry(now time.Time) *message.Entry {
	return &message.Entry{
		LineNumber:       fallbackLine,
		TarifZone:        fallbackZone,
		StaticIntro:      now.Format("15:04"),
		ScrollingMessage: m.cfg.IdleText,
		NextMessageHint:  "Idle",
	}
}

// recordStats mirrors a completed showing into the statistics cache,
// best-effort.
func (m *stateMachine) recordStats(e *message.Entry, now time.Time) {
	if m.stats == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()

	id := "ephemeral"
	if !e.Ephemeral {
		id = strconv.Itoa(e.ID)
	}
	if _, err := m.stats.Incr(ctx, cache.ShownCount.Key(id)); err != nil {
		log.Printf("[Display] Stats increment skipped: %v", err)
		return
	}

	summary, err := json.Marshal(map[string]any{
		"id":        e.ID,
		"ephemeral": e.Ephemeral,
		"priority":  e.Priority,
		"text":      e.ScrollingMessage,
		"shown_at":  now.Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	if err := m.stats.Set(ctx, cache.LastShown.Key("current"), string(summary), 0); err != nil {
		log.Printf("[Display] Stats write skipped: %v", err)
	}
}

func (m *stateMachine) notifyAsync(ev notify.Event) {
	if m.noti == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := m.noti.Notify(ctx, ev); err != nil {
			log.Printf("[Display] Event notification failed: %v", err)
		}
	}()
}

func statusOf(st *loopState) Status {
	s := Status{
		Running:        st.running,
		Paused:         st.paused,
		State:          st.state,
		Fallback:       st.fallback,
		Dwell:          st.currentDwell,
		StartedAt:      st.startedAt,
		LastTimeSync:   st.lastTimeSync,
		ShownTotal:     st.shownTotal,
		EmergencyTotal: st.emergencyTotal,
		RawTotal:       st.rawTotal,
		SendErrors:     st.sendErrors,
	}
	if st.current != nil {
		c := *st.current
		s.Current = &c
	}
	return s
}

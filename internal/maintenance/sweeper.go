// Package maintenance runs the periodic store housekeeping: disabling
// messages whose expiry time has passed and purging logically deleted rows.
package maintenance

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Store is the housekeeping slice of the repository.
type Store interface {
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	PurgeDisabled(ctx context.Context) (int64, error)
}

// Invalidator receives a dirty signal after housekeeping changed rows.
type Invalidator interface {
	MarkCacheDirty()
}

// Sweeper exposes a small control surface for the housekeeping loop.
// Start/Stop are synchronous controls, and IsRunning reports whether the
// sweeper is currently accepting ticks.
type Sweeper interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// Defaults used when no custom intervals are provided.
const (
	DefaultExpiryInterval = time.Minute
	DefaultPurgeInterval  = 24 * time.Hour

	// DefaultSweepTimeout bounds a single housekeeping query.
	DefaultSweepTimeout = 30 * time.Second
)

// controlTimeout is how long we wait for the control loop to accept a
// Start/Stop command and acknowledge it.
const controlTimeout = 2 * time.Second

// controlOp represents the kind of command sent into the internal control loop.
type controlOp int

const (
	opStart controlOp = iota
	opStop
	opStatus
)

// controlMsg is sent over the ctrl channel to drive the sweeper's state.
type controlMsg struct {
	op   controlOp
	resp chan bool
}

// sweeper owns the internal state and runs the control loop.
// All mutable state lives in the loop goroutine, so we don't need locks.
type sweeper struct {
	store        Store
	inval        Invalidator
	expiryEvery  time.Duration
	purgeEvery   time.Duration
	sweepTimeout time.Duration
	ctrl         chan controlMsg
}

// NewSweeper creates a sweeper over the given store. If an interval is <= 0,
// sane defaults are used instead. inval may be nil when no snapshot cache
// needs invalidation.
func NewSweeper(store Store, inval Invalidator, expiryEvery, purgeEvery time.Duration) Sweeper {
	if expiryEvery <= 0 {
		expiryEvery = DefaultExpiryInterval
	}
	if purgeEvery <= 0 {
		purgeEvery = DefaultPurgeInterval
	}

	s := &sweeper{
		store:        store,
		inval:        inval,
		expiryEvery:  expiryEvery,
		purgeEvery:   purgeEvery,
		sweepTimeout: DefaultSweepTimeout,
		ctrl:         make(chan controlMsg),
	}

	// The control loop is started in its own goroutine and lives
	// for the lifetime of the process.
	go s.loop()

	return s
}

// Start tells the sweeper to begin processing ticks. It blocks until the
// internal loop has acknowledged the state change, or returns an error if
// the control loop does not respond in time.
func (s *sweeper) Start() error {
	resp := make(chan bool)
	msg := controlMsg{op: opStart, resp: resp}

	select {
	case s.ctrl <- msg:
		// sent ok
	case <-time.After(controlTimeout):
		return fmt.Errorf("[Maintenance] Start: control loop not responding")
	}

	select {
	case <-resp:
		return nil
	case <-time.After(controlTimeout):
		return fmt.Errorf("[Maintenance] Start: acknowledgement timeout")
	}
}

// Stop tells the sweeper to stop accepting new ticks. If the control loop
// does not respond, Stop returns an error instead of blocking forever.
func (s *sweeper) Stop() error {
	resp := make(chan bool)
	msg := controlMsg{op: opStop, resp: resp}

	select {
	case s.ctrl <- msg:
		// sent ok
	case <-time.After(controlTimeout):
		return fmt.Errorf("[Maintenance] Stop: control loop not responding")
	}

	select {
	case <-resp:
		return nil
	case <-time.After(controlTimeout):
		return fmt.Errorf("[Maintenance] Stop: acknowledgement timeout")
	}
}

// IsRunning reports whether the sweeper is currently in "running" mode.
func (s *sweeper) IsRunning() bool {
	resp := make(chan bool)
	s.ctrl <- controlMsg{op: opStatus, resp: resp}
	return <-resp
}

// loop owns all mutable state and reacts to control messages or timer ticks.
func (s *sweeper) loop() {
	expiry := time.NewTicker(s.expiryEvery)
	defer expiry.Stop()
	purge := time.NewTicker(s.purgeEvery)
	defer purge.Stop()

	running := false

	for {
		select {
		case msg := <-s.ctrl:
			switch msg.op {
			case opStart:
				if !running {
					log.Printf("[Maintenance] Started (expiry=%s, purge=%s)\n",
						s.expiryEvery, s.purgeEvery)
				}
				running = true
				msg.resp <- true

			case opStop:
				if running {
					log.Println("[Maintenance] Stopped.")
				}
				running = false
				msg.resp <- true

			case opStatus:
				msg.resp <- running
			}

		case <-expiry.C:
			if !running {
				continue
			}
			s.expireDue()

		case <-purge.C:
			if !running {
				continue
			}
			s.purgeDisabled()
		}
	}
}

// expireDue disables rows whose expiry time has passed and signals the
// scheduler when anything changed.
func (s *sweeper) expireDue() {
	ctx, cancel := context.WithTimeout(context.Background(), s.sweepTimeout)
	defer cancel()

	n, err := s.store.ExpireDue(ctx, time.Now())
	if err != nil {
		log.Printf("[Maintenance] Expiry sweep failed: %v\n", err)
		return
	}
	if n > 0 {
		log.Printf("[Maintenance] Expired %d message(s).\n", n)
		if s.inval != nil {
			s.inval.MarkCacheDirty()
		}
	}
}

// purgeDisabled permanently removes rows that were logically deleted.
// Purged rows were already invisible to the scheduler, so no dirty signal.
func (s *sweeper) purgeDisabled() {
	ctx, cancel := context.WithTimeout(context.Background(), s.sweepTimeout)
	defer cancel()

	n, err := s.store.PurgeDisabled(ctx)
	if err != nil {
		log.Printf("[Maintenance] Purge failed: %v\n", err)
		return
	}
	if n > 0 {
		log.Printf("[Maintenance] Purged %d disabled row(s).\n", n)
	}
}

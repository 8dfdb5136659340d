// Package moderator implements mutes, warns, kicks, bans and blacklists for a
// Discord guild on top of a key/value store. Managers share one Host, one Store
// and one EventBus, all supplied by the caller.
package moderator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/errors"
	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/PancyStudios/PancyModeratorGo/pkg/store"
)

// Moderator wires the managers together and runs the mute expiry sweep
type Moderator struct {
	host  Host
	store store.Store
	bus   *EventBus
	guard *Guard
	opts  Options
	now   func() time.Time
	locks *store.Locker

	Mutes       *MuteManager
	Warns       *WarnManager
	Punishments *PunishmentManager
	Blacklist   *BlacklistManager
	Roles       *RolesManager

	mu      sync.Mutex
	stop    chan struct{}
	running bool
	// stopped refuses new background punishments once Stop began waiting
	stopped bool
	// pending tracks background punishments started by WarnManager.Add
	pending sync.WaitGroup
}

// Option customizes a Moderator
type Option func(*Moderator)

// WithClock replaces time.Now, used by the expiry sweep and record timestamps
func WithClock(now func() time.Time) Option {
	return func(m *Moderator) {
		m.now = now
	}
}

// New creates a Moderator. A nil bus gets a fresh EventBus.
func New(host Host, st store.Store, bus *EventBus, opts Options, extra ...Option) (*Moderator, error) {
	if host == nil {
		return nil, errConfiguration("host", "a Discord host")
	}
	if st == nil {
		return nil, errConfiguration("store", "a store")
	}
	if bus == nil {
		bus = NewEventBus()
	}

	m := &Moderator{
		host:  host,
		store: st,
		bus:   bus,
		guard: NewGuard(host),
		opts:  opts.normalize(),
		now:   time.Now,
		locks: store.NewLocker(),
	}
	for _, o := range extra {
		o(m)
	}

	m.Mutes = newMuteManager(m)
	m.Warns = newWarnManager(m)
	m.Punishments = &PunishmentManager{m: m}
	m.Blacklist = newBlacklistManager(m)
	m.Roles = &RolesManager{m: m}
	return m, nil
}

// Bus returns the EventBus the managers publish on
func (m *Moderator) Bus() *EventBus {
	return m.bus
}

// Options returns the normalized options
func (m *Moderator) Options() Options {
	return m.opts
}

// Guard returns the permission guard shared by the managers
func (m *Moderator) Guard() *Guard {
	return m.guard
}

// Start launches the mute expiry sweep and publishes ready
func (m *Moderator) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopped = false
	m.stop = make(chan struct{})
	stop := m.stop
	m.mu.Unlock()

	if m.opts.MuteManager {
		go m.sweepLoop(stop)
		logger.System(fmt.Sprintf("Revisión de silencios cada %s", m.opts.Mute.CheckInterval), "Moderator")
	}

	m.bus.Emit(EventReady, nil)
	logger.Success("Moderador listo", "Moderator")
}

// Stop ends the sweep and waits for running punishments. Punishments that
// would start afterwards are skipped.
func (m *Moderator) Stop() {
	m.mu.Lock()
	m.stopped = true
	if m.running {
		close(m.stop)
		m.running = false
	}
	m.mu.Unlock()

	m.Wait()
}

// Wait blocks until every punishment started by WarnManager.Add has finished
func (m *Moderator) Wait() {
	m.pending.Wait()
}

func (m *Moderator) sweepLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(m.opts.Mute.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweepOnce()
		case <-stop:
			return
		}
	}
}

func (m *Moderator) sweepOnce() {
	defer errors.RecoverMiddleware()()

	ctx, cancel := context.WithTimeout(context.Background(), m.opts.Mute.CheckInterval)
	defer cancel()

	if _, err := m.Mutes.Sweep(ctx); err != nil {
		errors.Capture(fmt.Errorf("revisando silencios: %w", err), "MuteSweep")
	}
}

// goPending runs fn in the background and tracks it for Wait.
// It reports false without running fn once the Moderator is stopped.
func (m *Moderator) goPending(fn func()) bool {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return false
	}
	m.pending.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.pending.Done()
		defer errors.RecoverMiddleware()()
		fn()
	}()
	return true
}

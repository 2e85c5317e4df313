// Package poll owns the repeating fetch loops that keep the client's view of
// the server current. Each loop kind runs at most one timer and at most one
// outstanding fetch; different kinds are fully independent.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Kind names one polling loop. Exactly one loop of each kind may be active.
type Kind string

const (
	KindLobby             Kind = "lobby"
	KindSpectate          Kind = "spectate"
	KindGame              Kind = "game"
	KindWordSelect        Kind = "wordselect"
	KindSinglePlayerLobby Kind = "splobby"

	// chat has no timer of its own; it is triggered after each successful
	// game fetch, under its own in-flight guard.
	guardChat = "chat"
)

// Func performs one fetch cycle. Errors are logged, never fatal to the loop.
type Func func(ctx context.Context) error

// Poller runs the loops. Stopping a loop cancels only its timer: a fetch
// already in flight completes against the poller's base context, and its
// result is accepted or discarded by the consumer's own state.
type Poller struct {
	ctx    context.Context
	clock  clockwork.Clock
	chatFn Func

	mu    sync.Mutex
	loops map[Kind]*loop

	inFlightMu sync.Mutex
	inFlight   map[string]bool
}

type loop struct {
	kind     Kind
	interval time.Duration
	fn       Func
	cancel   context.CancelFunc
}

// New builds a poller. ctx bounds every fetch the poller ever issues; chatFn
// is the opportunistic chat fetch and may be nil.
func New(ctx context.Context, clock clockwork.Clock, chatFn Func) *Poller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Poller{
		ctx:      ctx,
		clock:    clock,
		chatFn:   chatFn,
		loops:    make(map[Kind]*loop),
		inFlight: make(map[string]bool),
	}
}

// Start begins a loop: one fetch immediately, then one per interval. Starting
// a kind that is already running stops the old timer first so loops restart
// instead of stacking.
func (p *Poller) Start(kind Kind, interval time.Duration, fn Func) {
	loopCtx, cancel := context.WithCancel(p.ctx)
	l := &loop{kind: kind, interval: interval, fn: fn, cancel: cancel}

	p.mu.Lock()
	if old := p.loops[kind]; old != nil {
		old.cancel()
	}
	p.loops[kind] = l
	p.mu.Unlock()

	log.Debug().Str("loop", string(kind)).Dur("interval", interval).Msg("poll loop started")
	go p.run(loopCtx, l)
}

// Stop cancels a loop's timer. Idempotent; unknown kinds are ignored.
func (p *Poller) Stop(kind Kind) {
	p.mu.Lock()
	l := p.loops[kind]
	delete(p.loops, kind)
	p.mu.Unlock()

	if l != nil {
		l.cancel()
		log.Debug().Str("loop", string(kind)).Msg("poll loop stopped")
	}
}

// StopAll stops every active loop.
func (p *Poller) StopAll() {
	p.mu.Lock()
	loops := p.loops
	p.loops = make(map[Kind]*loop)
	p.mu.Unlock()

	for kind, l := range loops {
		l.cancel()
		log.Debug().Str("loop", string(kind)).Msg("poll loop stopped")
	}
}

// Running reports whether a loop of the given kind is active.
func (p *Poller) Running(kind Kind) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loops[kind] != nil
}

func (p *Poller) run(ctx context.Context, l *loop) {
	p.fire(l)

	timer := p.clock.NewTimer(l.interval)
	defer stopAndDrainTimer(timer)
	for {
		select {
		case <-timer.Chan():
			p.fire(l)
			timer.Reset(l.interval)
		case <-ctx.Done():
			return
		}
	}
}

// fire launches one guarded fetch cycle. A tick that lands while the previous
// fetch of the same loop is still outstanding is skipped, not queued.
func (p *Poller) fire(l *loop) {
	if !p.acquire(string(l.kind)) {
		log.Debug().Str("loop", string(l.kind)).Msg("skipping tick, previous fetch still in flight")
		return
	}
	go func() {
		defer p.release(string(l.kind))
		if err := l.fn(p.ctx); err != nil {
			log.Error().Err(err).Str("loop", string(l.kind)).Msg("poll cycle failed")
			return
		}
		if l.kind == KindGame {
			p.TriggerChat()
		}
	}()
}

// TriggerChat runs the chat fetch once, under the chat in-flight guard.
func (p *Poller) TriggerChat() {
	if p.chatFn == nil {
		return
	}
	if !p.acquire(guardChat) {
		log.Debug().Msg("skipping chat fetch, previous one still in flight")
		return
	}
	go func() {
		defer p.release(guardChat)
		if err := p.chatFn(p.ctx); err != nil {
			log.Error().Err(err).Msg("chat fetch failed")
		}
	}()
}

func (p *Poller) acquire(name string) bool {
	p.inFlightMu.Lock()
	defer p.inFlightMu.Unlock()
	if p.inFlight[name] {
		return false
	}
	p.inFlight[name] = true
	return true
}

func (p *Poller) release(name string) {
	p.inFlightMu.Lock()
	defer p.inFlightMu.Unlock()
	delete(p.inFlight, name)
}

// stopAndDrainTimer stops a timer and drains its channel so no stale tick
// survives, per the time.Timer.Stop contract.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}

// Package aiplayer drives the autonomous opponents of a single-player game.
// The server owns the AI's decisions; this orchestrator only notices, from
// each reconciled snapshot, that an AI action is due and triggers it exactly
// once.
package aiplayer

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/guessfeud/client-go/clients"
	"github.com/guessfeud/client-go/internal/game"
)

// DefaultMoveDelay spaces AI moves out so they don't land the instant the
// human's own move resolves.
const DefaultMoveDelay = 1500 * time.Millisecond

// API is the slice of the transport adapter the orchestrator calls.
type API interface {
	AIPickWords(ctx context.Context, creds clients.Credentials) error
	AIChangeWord(ctx context.Context, creds clients.Credentials, playerID string) error
	AIGuess(ctx context.Context, creds clients.Credentials, playerID string) error
}

// Orchestrator evaluates snapshots for due AI actions. Each of the three
// action kinds carries its own in-flight flag, so a slow request blocks only
// re-triggers of the same kind. Failures are logged and the flag cleared; the
// next poll tick re-evaluates and retries naturally because the triggering
// condition persists until the server accepts the move.
type Orchestrator struct {
	api       API
	creds     clients.Credentials
	clock     clockwork.Clock
	moveDelay time.Duration
	enabled   bool
	ctx       context.Context

	mu             sync.Mutex
	pickInFlight   bool
	changeInFlight bool
	guessInFlight  bool
}

// New builds an orchestrator. enabled is false outside single-player mode,
// making Evaluate a no-op. ctx bounds all requests and delays.
func New(ctx context.Context, api API, creds clients.Credentials, clock clockwork.Clock, moveDelay time.Duration, enabled bool) *Orchestrator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if moveDelay <= 0 {
		moveDelay = DefaultMoveDelay
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Orchestrator{
		api:       api,
		creds:     creds,
		clock:     clock,
		moveDelay: moveDelay,
		enabled:   enabled,
		ctx:       ctx,
	}
}

// Evaluate inspects one snapshot and issues at most one word-pick plus at
// most one of word-change / guess, word-change taking precedence.
func (o *Orchestrator) Evaluate(snap *game.Snapshot) {
	if !o.enabled || snap == nil {
		return
	}

	if snap.Status == game.StatusWordSelection && anyAIWithoutWord(snap) {
		o.startPick()
	}

	if snap.Status != game.StatusPlaying {
		return
	}
	if snap.WaitingForWordChange != "" {
		if p := snap.PlayerByID(snap.WaitingForWordChange); p != nil && p.IsAI {
			o.startChange(p.ID)
		}
		return
	}
	if !snap.AllWordsSet {
		return
	}
	if p := snap.PlayerByID(snap.CurrentPlayerID); p != nil && p.IsAI && p.Alive {
		o.startGuess(p.ID)
	}
}

func anyAIWithoutWord(snap *game.Snapshot) bool {
	for i := range snap.Players {
		if snap.Players[i].IsAI && !snap.Players[i].HasWord {
			return true
		}
	}
	return false
}

func (o *Orchestrator) startPick() {
	o.mu.Lock()
	if o.pickInFlight {
		o.mu.Unlock()
		return
	}
	o.pickInFlight = true
	o.mu.Unlock()

	go func() {
		defer o.clear(&o.pickInFlight)
		if err := o.api.AIPickWords(o.ctx, o.creds); err != nil {
			log.Error().Err(err).Msg("AI word pick failed")
		}
	}()
}

func (o *Orchestrator) startChange(playerID string) {
	o.mu.Lock()
	if o.changeInFlight {
		o.mu.Unlock()
		return
	}
	o.changeInFlight = true
	o.mu.Unlock()

	go func() {
		defer o.clear(&o.changeInFlight)
		if !o.wait() {
			return
		}
		if err := o.api.AIChangeWord(o.ctx, o.creds, playerID); err != nil {
			log.Error().Err(err).Str("player_id", playerID).Msg("AI word change failed")
		}
	}()
}

func (o *Orchestrator) startGuess(playerID string) {
	o.mu.Lock()
	if o.guessInFlight {
		o.mu.Unlock()
		return
	}
	o.guessInFlight = true
	o.mu.Unlock()

	go func() {
		defer o.clear(&o.guessInFlight)
		if !o.wait() {
			return
		}
		if err := o.api.AIGuess(o.ctx, o.creds, playerID); err != nil {
			log.Error().Err(err).Str("player_id", playerID).Msg("AI guess failed")
		}
	}()
}

// wait sleeps the fixed move delay, reporting false on shutdown.
func (o *Orchestrator) wait() bool {
	select {
	case <-o.clock.After(o.moveDelay):
		return true
	case <-o.ctx.Done():
		return false
	}
}

func (o *Orchestrator) clear(flag *bool) {
	o.mu.Lock()
	*flag = false
	o.mu.Unlock()
}

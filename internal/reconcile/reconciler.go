// Package reconcile turns server snapshots into a consistent local view.
// The reconciler is the only writer of view state; everything else reads
// defensive copies through the observer interface or View().
package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/guessfeud/client-go/clients"
	"github.com/guessfeud/client-go/internal/game"
	"github.com/guessfeud/client-go/internal/notify"
	"github.com/guessfeud/client-go/internal/rounds"
)

// AIDriver is invoked at the end of every reconciliation. Outside
// single-player mode it no-ops.
type AIDriver interface {
	Evaluate(snap *game.Snapshot)
}

// GuessAPI is the slice of the transport adapter the reconciler needs for
// the optimistic guess flow.
type GuessAPI interface {
	SubmitGuess(ctx context.Context, creds clients.Credentials, word string) (*clients.GuessResponse, error)
}

// Reconciler consumes one snapshot at a time and updates all derived view
// state. The poller's in-flight guard on the game loop guarantees snapshots
// arrive one at a time; the mutex here makes direct applications (the guess
// fast path) safe against a concurrent poll tick.
type Reconciler struct {
	mu sync.Mutex

	creds    clients.Credentials
	api      GuessAPI
	notifier *notify.TurnNotifier
	ai       AIDriver
	pending  *PendingManager

	observers observerList
	view      View
	hasView   bool
}

func New(creds clients.Credentials, api GuessAPI, notifier *notify.TurnNotifier, ai AIDriver, clock clockwork.Clock) *Reconciler {
	return &Reconciler{
		creds:    creds,
		api:      api,
		notifier: notifier,
		ai:       ai,
		pending:  NewPendingManager(clock),
	}
}

// Register subscribes an observer to view updates.
func (r *Reconciler) Register(o Observer) { r.observers.register(o) }

// Unregister removes a previously registered observer.
func (r *Reconciler) Unregister(o Observer) { r.observers.unregister(o) }

// Pending exposes the pending-guess manager.
func (r *Reconciler) Pending() *PendingManager { return r.pending }

// View returns a copy of the latest reconciled view.
func (r *Reconciler) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view.clone()
}

// Apply reconciles one snapshot. Ordering inside matters: round derivation
// and the turn notifier run before any projection because both depend on the
// previous turn state; the AI driver runs unconditionally last.
func (r *Reconciler) Apply(snap *game.Snapshot) {
	if snap == nil {
		return
	}

	r.mu.Lock()
	selfID := r.creds.PlayerID
	self := snap.PlayerByID(selfID)
	spectator := selfID == "" || self == nil

	round := rounds.Current(snap.History, len(snap.Players))
	r.notifier.Observe(snap, selfID, spectator)

	var view View
	if !snap.AllWordsSet && snap.Status != game.StatusFinished {
		view = r.projectWaitingForWords(snap, selfID, spectator, round)
	} else {
		view = r.projectActive(snap, selfID, self, spectator, round)
	}
	view.Pending = r.pending.Current()
	if view.Pending != nil {
		view.InputEnabled = false
	}
	r.view = view
	r.hasView = true
	notified := view.clone()
	r.mu.Unlock()

	log.Debug().
		Str("status", string(snap.Status)).
		Int("round", round).
		Bool("spectator", spectator).
		Bool("my_turn", view.MyTurn).
		Msg("reconciled snapshot")

	r.observers.notify(notified)
	r.ai.Evaluate(snap)
}

// projectWaitingForWords covers the phase before every word is set: a player
// list and a disabled input, nothing else.
func (r *Reconciler) projectWaitingForWords(snap *game.Snapshot, selfID string, spectator bool, round int) View {
	return View{
		Status:          snap.Status,
		Theme:           snap.Theme,
		Spectator:       spectator,
		SpectatorCount:  snap.SpectatorCount,
		WaitingForWords: true,
		Round:           round,
		TurnBanner:      "Waiting for everyone to pick a word",
		Players:         buildCards(snap, selfID),
		History:         snap.History,
	}
}

// projectActive covers normal play and the finished state.
func (r *Reconciler) projectActive(snap *game.Snapshot, selfID string, self *game.Player, spectator bool, round int) View {
	myTurn := !spectator &&
		snap.CurrentPlayerID == selfID &&
		self != nil && self.Alive &&
		snap.WaitingForWordChange == ""

	return View{
		Status:         snap.Status,
		Theme:          snap.Theme,
		Spectator:      spectator,
		SpectatorCount: snap.SpectatorCount,
		Round:          round,
		MyTurn:         myTurn,
		InputEnabled:   myTurn && snap.Status == game.StatusPlaying,
		TurnBanner:     turnBanner(snap, selfID, myTurn),
		Players:        buildCards(snap, selfID),
		History:        snap.History,
	}
}

func turnBanner(snap *game.Snapshot, selfID string, myTurn bool) string {
	switch {
	case snap.Status == game.StatusFinished:
		if winner := soleSurvivor(snap); winner != nil {
			if winner.ID == selfID {
				return "You win!"
			}
			return fmt.Sprintf("%s wins!", winner.Name)
		}
		return "Game over"
	case snap.WaitingForWordChange != "":
		if p := snap.PlayerByID(snap.WaitingForWordChange); p != nil {
			if p.ID == selfID {
				return "Pick a new word"
			}
			return fmt.Sprintf("Waiting for %s to pick a new word", p.Name)
		}
		return "Waiting for a word change"
	case myTurn:
		return "Your turn"
	default:
		if p := snap.PlayerByID(snap.CurrentPlayerID); p != nil {
			return fmt.Sprintf("%s's turn", p.Name)
		}
		return "Waiting for the next turn"
	}
}

func soleSurvivor(snap *game.Snapshot) *game.Player {
	var winner *game.Player
	for i := range snap.Players {
		if snap.Players[i].Alive {
			if winner != nil {
				return nil
			}
			winner = &snap.Players[i]
		}
	}
	return winner
}

// buildCards projects the roster, attaching each player's similarity
// percentage from the most recent guess in the log.
func buildCards(snap *game.Snapshot, selfID string) []PlayerCard {
	similarity := latestSimilarity(snap.History)
	cards := make([]PlayerCard, 0, len(snap.Players))
	for _, p := range snap.Players {
		card := PlayerCard{
			ID:           p.ID,
			Name:         p.Name,
			Alive:        p.Alive,
			IsAI:         p.IsAI,
			HasWord:      p.HasWord,
			RevealedWord: p.Word,
			IsCurrent:    p.ID == snap.CurrentPlayerID,
			IsSelf:       p.ID == selfID,
		}
		if sim, ok := similarity[p.ID]; ok {
			card.Similarity = sim
			card.HasSimilarity = true
		}
		cards = append(cards, card)
	}
	return cards
}

// latestSimilarity returns the similarity map of the last guess, or nil.
func latestSimilarity(history []game.HistoryEntry) map[string]float64 {
	for i := len(history) - 1; i >= 0; i-- {
		if g, ok := history[i].(game.Guess); ok {
			return g.Similarity
		}
	}
	return nil
}

// refresh re-publishes the current view after a pending-slot change, without
// waiting for the next snapshot.
func (r *Reconciler) refresh() {
	r.mu.Lock()
	if !r.hasView {
		r.mu.Unlock()
		return
	}
	r.view.Pending = r.pending.Current()
	r.view.InputEnabled = r.view.MyTurn && r.view.Status == game.StatusPlaying && r.view.Pending == nil
	notified := r.view.clone()
	r.mu.Unlock()

	r.observers.notify(notified)
}

package reconcile

import "github.com/guessfeud/client-go/internal/game"

// PlayerCard is the per-player render input of the game screen.
type PlayerCard struct {
	ID            string
	Name          string
	Alive         bool
	IsAI          bool
	HasWord       bool
	RevealedWord  string  // populated for self, or after elimination/forfeit
	Similarity    float64 // percentage from the latest guess
	HasSimilarity bool
	IsCurrent     bool
	IsSelf        bool
}

// View is the projected render model derived from one snapshot. It is a
// value: observers receive their own copy and never share state with the
// reconciler.
type View struct {
	Status          game.Status
	Theme           string
	Spectator       bool
	SpectatorCount  int
	WaitingForWords bool
	Round           int
	MyTurn          bool
	InputEnabled    bool
	TurnBanner      string
	Players         []PlayerCard
	History         []game.HistoryEntry
	Pending         *PendingGuess
}

// clone returns a copy safe to hand to observers.
func (v View) clone() View {
	out := v
	out.Players = make([]PlayerCard, len(v.Players))
	copy(out.Players, v.Players)
	out.History = make([]game.HistoryEntry, len(v.History))
	copy(out.History, v.History)
	if v.Pending != nil {
		pending := *v.Pending
		out.Pending = &pending
	}
	return out
}

package notify

import (
	"github.com/guessfeud/client-go/internal/game"
)

// TurnTag is the fixed dedup tag for turn push notifications. Reusing one tag
// makes a second firing replace the first instead of stacking.
const TurnTag = "guessfeud-your-turn"

// TurnNotifier is an edge detector over "whose turn is it". It fires only
// when the turn transitions onto the viewer, never on the first observation
// of a game already mid-turn.
type TurnNotifier struct {
	alerter  Alerter
	prevID   string
	prevSeen bool
}

func NewTurnNotifier(alerter Alerter) *TurnNotifier {
	return &TurnNotifier{alerter: alerter}
}

// Observe evaluates one reconciled snapshot and fires at most once. Whether
// or not it fires, the previous-turn marker is advanced; skipping that update
// would make the detector refire on the next steady-state tick.
func (n *TurnNotifier) Observe(snap *game.Snapshot, selfID string, spectator bool) {
	fired := n.shouldFire(snap, selfID, spectator)
	n.prevID = snap.CurrentPlayerID
	n.prevSeen = true

	if !fired {
		return
	}
	n.alerter.Alert("It's your turn")
	if n.alerter.CanPush() {
		n.alerter.Push(TurnTag, "Guess Feud", "It's your turn to guess")
	}
}

func (n *TurnNotifier) shouldFire(snap *game.Snapshot, selfID string, spectator bool) bool {
	if !n.prevSeen || n.prevID == selfID || snap.CurrentPlayerID != selfID {
		return false
	}
	if spectator || snap.Status != game.StatusPlaying || snap.WaitingForWordChange != "" {
		return false
	}
	self := snap.PlayerByID(selfID)
	return self != nil && self.Alive
}
